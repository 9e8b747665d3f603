package academic

import (
	"time"

	"github.com/trezcool/mahudhurio/core"
)

type (
	// Semester is a date-bounded academic term.
	Semester struct {
		ID        int       `json:"id"`
		Year      int       `json:"year"`
		Name      string    `json:"name"`
		StartDate time.Time `json:"start_date"`
		EndDate   time.Time `json:"end_date"`
	}

	// Course is a unit of study, offered in one or more semesters.
	Course struct {
		ID          int    `json:"id"`
		Code        string `json:"code"`
		Name        string `json:"name"`
		SemesterIDs []int  `json:"semester_ids"`
	}

	// Class is one scheduled section of a course taught by one lecturer
	// in one semester.
	Class struct {
		ID         int `json:"id"`
		Number     int `json:"number"`
		CourseID   int `json:"course_id"`
		SemesterID int `json:"semester_id"`
		LecturerID int `json:"lecturer_id"`
	}

	// CollegeDay is a calendar date designated as a meeting day for a class.
	CollegeDay struct {
		ID      int       `json:"id"`
		Date    time.Time `json:"date"`
		ClassID int       `json:"class_id"`
	}
)

// NewSemester carries the semester form fields. Dates are bound as
// YYYY-MM-DD strings; no cross-field check relates start to end.
type NewSemester struct {
	Year      int    `json:"year" validate:"required"`
	Name      string `json:"name" validate:"required"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

func (ns *NewSemester) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	return core.Validate.Struct(ns)
}

func (ns *NewSemester) semester() Semester {
	start, _ := time.Parse(core.DateFormat, ns.StartDate)
	end, _ := time.Parse(core.DateFormat, ns.EndDate)
	return Semester{
		Year:      ns.Year,
		Name:      ns.Name,
		StartDate: start,
		EndDate:   end,
	}
}

type NewCourse struct {
	Code        string `json:"code" validate:"required"`
	Name        string `json:"name" validate:"required"`
	SemesterIDs []int  `json:"semester_ids"`
}

func (nc *NewCourse) Validate() error {
	nc.Code = core.CleanString(nc.Code)
	nc.Name = core.CleanString(nc.Name)
	return core.Validate.Struct(nc)
}

type NewClass struct {
	Number     int `json:"number" validate:"required"`
	CourseID   int `json:"course_id" validate:"required"`
	SemesterID int `json:"semester_id" validate:"required"`
	LecturerID int `json:"lecturer_id" validate:"required"`
}

func (nc *NewClass) Validate() error { return core.Validate.Struct(nc) }

type NewCollegeDay struct {
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	ClassID int    `json:"class_id" validate:"required"`
}

func (nd *NewCollegeDay) Validate() error { return core.Validate.Struct(nd) }

func (nd *NewCollegeDay) collegeDay() CollegeDay {
	date, _ := time.Parse(core.DateFormat, nd.Date)
	return CollegeDay{Date: date, ClassID: nd.ClassID}
}

// AssignLecturer restricts a class update to its lecturer field.
type AssignLecturer struct {
	LecturerID int `json:"lecturer_id" validate:"required"`
}

func (al *AssignLecturer) Validate() error { return core.Validate.Struct(al) }
