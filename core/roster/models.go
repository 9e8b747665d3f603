package roster

import (
	"context"

	"github.com/trezcool/mahudhurio/core"
)

type (
	// Lecturer is a staff profile linked one-to-one to a user account.
	Lecturer struct {
		ID       int    `json:"id"`
		StaffID  int    `json:"staff_id"`
		UserID   int    `json:"user_id"`
		FullName string `json:"full_name"`
	}

	// Student is a student profile linked one-to-one to a user account.
	// StudentID is the college-issued identifier, not the row key.
	Student struct {
		ID        int    `json:"id"`
		StudentID string `json:"student_id"`
		UserID    int    `json:"user_id"`
		FullName  string `json:"full_name"`
	}

	// Enrollment links one student to one class section. A student may be
	// linked to the same class more than once; no uniqueness is enforced.
	Enrollment struct {
		ID        int `json:"id"`
		StudentID int `json:"student_id"`
		ClassID   int `json:"class_id"`
	}

	// ClassEnrollment is one line of a class attendance sheet.
	ClassEnrollment struct {
		EnrollmentID int    `json:"enrollment_id"`
		StudentName  string `json:"student_name"`
		StudentID    string `json:"student_id"`
	}
)

type NewLecturer struct {
	StaffID  int    `json:"staff_id" validate:"required"`
	UserID   int    `json:"user_id" validate:"required"`
	FullName string `json:"full_name" validate:"required"`
}

func (nl *NewLecturer) Validate(ctx context.Context, svc *Service, excluded ...Lecturer) error {
	nl.FullName = core.CleanString(nl.FullName)
	if err := core.Validate.Struct(nl); err != nil {
		return err
	}
	return svc.checkStaffIDUniqueness(ctx, nl.StaffID, excluded...)
}

type NewStudent struct {
	StudentID string `json:"student_id" validate:"required,max=10"`
	UserID    int    `json:"user_id" validate:"required"`
	FullName  string `json:"full_name" validate:"required"`
}

func (ns *NewStudent) Validate(ctx context.Context, svc *Service, excluded ...Student) error {
	ns.StudentID = core.CleanString(ns.StudentID)
	ns.FullName = core.CleanString(ns.FullName)
	if err := core.Validate.Struct(ns); err != nil {
		return err
	}
	return svc.checkStudentIDUniqueness(ctx, ns.StudentID, excluded...)
}

type NewEnrollment struct {
	StudentID int `json:"student_id" validate:"required"`
	ClassID   int `json:"class_id" validate:"required"`
}

func (ne *NewEnrollment) Validate() error { return core.Validate.Struct(ne) }
