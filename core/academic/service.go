package academic

import (
	"context"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrSemesterNotFound   = errors.New("semester not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrClassNotFound      = errors.New("class not found")
	ErrCollegeDayNotFound = errors.New("college day not found")
)

type (
	Repository interface {
		CreateSemester(ctx context.Context, sem Semester) (Semester, error)
		QuerySemesters(ctx context.Context) ([]Semester, error)
		GetSemesterByID(ctx context.Context, id int) (Semester, error)
		UpdateSemester(ctx context.Context, sem Semester) (Semester, error)
		DeleteSemestersByID(ctx context.Context, ids ...int) error

		CreateCourse(ctx context.Context, crs Course) (Course, error)
		QueryCourses(ctx context.Context) ([]Course, error)
		GetCourseByID(ctx context.Context, id int) (Course, error)
		UpdateCourse(ctx context.Context, crs Course) (Course, error)
		DeleteCoursesByID(ctx context.Context, ids ...int) error

		CreateClass(ctx context.Context, cls Class) (Class, error)
		QueryClasses(ctx context.Context) ([]Class, error)
		GetClassByID(ctx context.Context, id int) (Class, error)
		UpdateClass(ctx context.Context, cls Class) (Class, error)
		DeleteClassesByID(ctx context.Context, ids ...int) error

		CreateCollegeDay(ctx context.Context, day CollegeDay) (CollegeDay, error)
		QueryCollegeDays(ctx context.Context) ([]CollegeDay, error)
		GetCollegeDayByID(ctx context.Context, id int) (CollegeDay, error)
		UpdateCollegeDay(ctx context.Context, day CollegeDay) (CollegeDay, error)
		DeleteCollegeDaysByID(ctx context.Context, ids ...int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Semesters

func (svc *Service) CreateSemester(ctx context.Context, ns NewSemester) (Semester, error) {
	return svc.repo.CreateSemester(ctx, ns.semester())
}

func (svc *Service) QuerySemesters(ctx context.Context) ([]Semester, error) {
	return svc.repo.QuerySemesters(ctx)
}

func (svc *Service) GetSemesterByID(ctx context.Context, id int) (Semester, error) {
	return svc.repo.GetSemesterByID(ctx, id)
}

func (svc *Service) UpdateSemester(ctx context.Context, id int, ns NewSemester) (Semester, error) {
	if _, err := svc.repo.GetSemesterByID(ctx, id); err != nil {
		return Semester{}, err
	}
	sem := ns.semester()
	sem.ID = id
	return svc.repo.UpdateSemester(ctx, sem)
}

func (svc *Service) DeleteSemesters(ctx context.Context, ids ...int) error {
	return svc.repo.DeleteSemestersByID(ctx, ids...)
}

// Courses

func (svc *Service) CreateCourse(ctx context.Context, nc NewCourse) (Course, error) {
	return svc.repo.CreateCourse(ctx, Course{Code: nc.Code, Name: nc.Name, SemesterIDs: nc.SemesterIDs})
}

func (svc *Service) QueryCourses(ctx context.Context) ([]Course, error) {
	return svc.repo.QueryCourses(ctx)
}

func (svc *Service) GetCourseByID(ctx context.Context, id int) (Course, error) {
	return svc.repo.GetCourseByID(ctx, id)
}

func (svc *Service) UpdateCourse(ctx context.Context, id int, nc NewCourse) (Course, error) {
	if _, err := svc.repo.GetCourseByID(ctx, id); err != nil {
		return Course{}, err
	}
	return svc.repo.UpdateCourse(ctx, Course{ID: id, Code: nc.Code, Name: nc.Name, SemesterIDs: nc.SemesterIDs})
}

func (svc *Service) DeleteCourses(ctx context.Context, ids ...int) error {
	return svc.repo.DeleteCoursesByID(ctx, ids...)
}

// Classes

func (svc *Service) CreateClass(ctx context.Context, nc NewClass) (Class, error) {
	return svc.repo.CreateClass(ctx, Class{
		Number:     nc.Number,
		CourseID:   nc.CourseID,
		SemesterID: nc.SemesterID,
		LecturerID: nc.LecturerID,
	})
}

func (svc *Service) QueryClasses(ctx context.Context) ([]Class, error) {
	return svc.repo.QueryClasses(ctx)
}

func (svc *Service) GetClassByID(ctx context.Context, id int) (Class, error) {
	return svc.repo.GetClassByID(ctx, id)
}

func (svc *Service) UpdateClass(ctx context.Context, id int, nc NewClass) (Class, error) {
	if _, err := svc.repo.GetClassByID(ctx, id); err != nil {
		return Class{}, err
	}
	return svc.repo.UpdateClass(ctx, Class{
		ID:         id,
		Number:     nc.Number,
		CourseID:   nc.CourseID,
		SemesterID: nc.SemesterID,
		LecturerID: nc.LecturerID,
	})
}

// AssignLecturer reassigns which lecturer teaches a class; all other
// class fields are left untouched.
func (svc *Service) AssignLecturer(ctx context.Context, id int, al AssignLecturer) (Class, error) {
	cls, err := svc.repo.GetClassByID(ctx, id)
	if err != nil {
		return Class{}, err
	}
	cls.LecturerID = al.LecturerID
	return svc.repo.UpdateClass(ctx, cls)
}

func (svc *Service) DeleteClasses(ctx context.Context, ids ...int) error {
	return svc.repo.DeleteClassesByID(ctx, ids...)
}

// College days

func (svc *Service) CreateCollegeDay(ctx context.Context, nd NewCollegeDay) (CollegeDay, error) {
	return svc.repo.CreateCollegeDay(ctx, nd.collegeDay())
}

func (svc *Service) QueryCollegeDays(ctx context.Context) ([]CollegeDay, error) {
	return svc.repo.QueryCollegeDays(ctx)
}

func (svc *Service) GetCollegeDayByID(ctx context.Context, id int) (CollegeDay, error) {
	return svc.repo.GetCollegeDayByID(ctx, id)
}

func (svc *Service) UpdateCollegeDay(ctx context.Context, id int, nd NewCollegeDay) (CollegeDay, error) {
	if _, err := svc.repo.GetCollegeDayByID(ctx, id); err != nil {
		return CollegeDay{}, err
	}
	day := nd.collegeDay()
	day.ID = id
	return svc.repo.UpdateCollegeDay(ctx, day)
}

func (svc *Service) DeleteCollegeDays(ctx context.Context, ids ...int) error {
	return svc.repo.DeleteCollegeDaysByID(ctx, ids...)
}
