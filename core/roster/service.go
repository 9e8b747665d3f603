package roster

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/user"
)

var (
	// errors
	ErrLecturerNotFound   = errors.New("lecturer not found")
	ErrStudentNotFound    = errors.New("student not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrStaffIDExists      = errors.New("a lecturer with this staff_id already exists")
	ErrStudentIDExists    = errors.New("a student with this student_id already exists")
)

type (
	Repository interface {
		CheckStaffIDUniqueness(ctx context.Context, staffID int, excluded ...Lecturer) error
		CreateLecturer(ctx context.Context, lect Lecturer) (Lecturer, error)
		QueryLecturers(ctx context.Context) ([]Lecturer, error)
		GetLecturerByID(ctx context.Context, id int) (Lecturer, error)
		UpdateLecturer(ctx context.Context, lect Lecturer) (Lecturer, error)

		CheckStudentIDUniqueness(ctx context.Context, studentID string, excluded ...Student) error
		CreateStudent(ctx context.Context, st Student) (Student, error)
		QueryStudents(ctx context.Context) ([]Student, error)
		GetStudentByID(ctx context.Context, id int) (Student, error)
		GetStudentByUserID(ctx context.Context, userID int) (Student, error)
		UpdateStudent(ctx context.Context, st Student) (Student, error)

		CreateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error)
		QueryEnrollments(ctx context.Context) ([]Enrollment, error)
		GetEnrollmentByID(ctx context.Context, id int) (Enrollment, error)
		UpdateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error)
		DeleteEnrollmentsByID(ctx context.Context, ids ...int) error

		// QueryClassEnrollments returns one sheet line per enrollment of the
		// class, joined with the student's name and identifier.
		QueryClassEnrollments(ctx context.Context, classID int) ([]ClassEnrollment, error)
	}

	Service struct {
		repo  Repository
		users user.Repository
	}
)

func NewService(repo Repository, users user.Repository) *Service {
	return &Service{repo: repo, users: users}
}

func (svc *Service) checkStaffIDUniqueness(ctx context.Context, staffID int, excluded ...Lecturer) error {
	if err := svc.repo.CheckStaffIDUniqueness(ctx, staffID, excluded...); err != nil {
		if err == ErrStaffIDExists {
			return core.NewValidationError(err, core.FieldError{Field: "staff_id", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) checkStudentIDUniqueness(ctx context.Context, studentID string, excluded ...Student) error {
	if err := svc.repo.CheckStudentIDUniqueness(ctx, studentID, excluded...); err != nil {
		if err == ErrStudentIDExists {
			return core.NewValidationError(err, core.FieldError{Field: "student_id", Error: err.Error()})
		}
		return err
	}
	return nil
}

// Lecturers

func (svc *Service) CreateLecturer(ctx context.Context, nl NewLecturer) (Lecturer, error) {
	return svc.repo.CreateLecturer(ctx, Lecturer{
		StaffID:  nl.StaffID,
		UserID:   nl.UserID,
		FullName: nl.FullName,
	})
}

func (svc *Service) QueryLecturers(ctx context.Context) ([]Lecturer, error) {
	return svc.repo.QueryLecturers(ctx)
}

func (svc *Service) GetLecturerByID(ctx context.Context, id int) (Lecturer, error) {
	return svc.repo.GetLecturerByID(ctx, id)
}

func (svc *Service) UpdateLecturer(ctx context.Context, id int, nl NewLecturer) (Lecturer, error) {
	if _, err := svc.repo.GetLecturerByID(ctx, id); err != nil {
		return Lecturer{}, err
	}
	return svc.repo.UpdateLecturer(ctx, Lecturer{
		ID:       id,
		StaffID:  nl.StaffID,
		UserID:   nl.UserID,
		FullName: nl.FullName,
	})
}

// DeleteLecturer removes a lecturer's linked account; the profile and its
// classes go with it through the cascade.
func (svc *Service) DeleteLecturer(ctx context.Context, id int) error {
	lect, err := svc.repo.GetLecturerByID(ctx, id)
	if err != nil {
		return err
	}
	return svc.users.DeleteUsersByID(ctx, lect.UserID)
}

// Students

func (svc *Service) CreateStudent(ctx context.Context, ns NewStudent) (Student, error) {
	return svc.repo.CreateStudent(ctx, Student{
		StudentID: ns.StudentID,
		UserID:    ns.UserID,
		FullName:  ns.FullName,
	})
}

func (svc *Service) QueryStudents(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryStudents(ctx)
}

func (svc *Service) GetStudentByID(ctx context.Context, id int) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) GetStudentByUserID(ctx context.Context, userID int) (Student, error) {
	return svc.repo.GetStudentByUserID(ctx, userID)
}

func (svc *Service) UpdateStudent(ctx context.Context, id int, ns NewStudent) (Student, error) {
	if _, err := svc.repo.GetStudentByID(ctx, id); err != nil {
		return Student{}, err
	}
	return svc.repo.UpdateStudent(ctx, Student{
		ID:        id,
		StudentID: ns.StudentID,
		UserID:    ns.UserID,
		FullName:  ns.FullName,
	})
}

// DeleteStudent removes a student's linked account; the profile, its
// enrollments and their attendance rows go with it through the cascade.
func (svc *Service) DeleteStudent(ctx context.Context, id int) error {
	st, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return err
	}
	return svc.users.DeleteUsersByID(ctx, st.UserID)
}

// Enrollments

func (svc *Service) CreateEnrollment(ctx context.Context, ne NewEnrollment) (Enrollment, error) {
	return svc.repo.CreateEnrollment(ctx, Enrollment{StudentID: ne.StudentID, ClassID: ne.ClassID})
}

func (svc *Service) QueryEnrollments(ctx context.Context) ([]Enrollment, error) {
	return svc.repo.QueryEnrollments(ctx)
}

func (svc *Service) GetEnrollmentByID(ctx context.Context, id int) (Enrollment, error) {
	return svc.repo.GetEnrollmentByID(ctx, id)
}

func (svc *Service) UpdateEnrollment(ctx context.Context, id int, ne NewEnrollment) (Enrollment, error) {
	if _, err := svc.repo.GetEnrollmentByID(ctx, id); err != nil {
		return Enrollment{}, err
	}
	return svc.repo.UpdateEnrollment(ctx, Enrollment{ID: id, StudentID: ne.StudentID, ClassID: ne.ClassID})
}

func (svc *Service) DeleteEnrollments(ctx context.Context, ids ...int) error {
	return svc.repo.DeleteEnrollmentsByID(ctx, ids...)
}

func (svc *Service) QueryClassEnrollments(ctx context.Context, classID int) ([]ClassEnrollment, error) {
	return svc.repo.QueryClassEnrollments(ctx, classID)
}
