package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/academic"
)

type semesterRow struct {
	ID        int       `db:"id"`
	Year      int       `db:"year"`
	Name      string    `db:"name"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
}

func (row semesterRow) semester() academic.Semester {
	return academic.Semester{
		ID:        row.ID,
		Year:      row.Year,
		Name:      row.Name,
		StartDate: row.StartDate,
		EndDate:   row.EndDate,
	}
}

type courseRow struct {
	ID   int    `db:"id"`
	Code string `db:"code"`
	Name string `db:"name"`
}

type classRow struct {
	ID         int `db:"id"`
	Number     int `db:"number"`
	CourseID   int `db:"course_id"`
	SemesterID int `db:"semester_id"`
	LecturerID int `db:"lecturer_id"`
}

func (row classRow) class() academic.Class {
	return academic.Class(row)
}

type collegeDayRow struct {
	ID      int       `db:"id"`
	Date    time.Time `db:"date"`
	ClassID int       `db:"class_id"`
}

func (row collegeDayRow) collegeDay() academic.CollegeDay {
	return academic.CollegeDay(row)
}

type AcademicRepository struct {
	db *sqlx.DB
}

var _ academic.Repository = (*AcademicRepository)(nil)

func NewAcademicRepository(db *sql.DB) *AcademicRepository {
	return &AcademicRepository{db: wrapDB(db)}
}

// Semesters

func (repo *AcademicRepository) CreateSemester(ctx context.Context, sem academic.Semester) (academic.Semester, error) {
	const q = `INSERT INTO semester (year, name, start_date, end_date) VALUES ($1, $2, $3, $4) RETURNING id`
	err := repo.db.QueryRowContext(ctx, q, sem.Year, sem.Name, sem.StartDate, sem.EndDate).Scan(&sem.ID)
	if err != nil {
		return academic.Semester{}, errors.Wrap(err, "creating semester")
	}
	return sem, nil
}

func (repo *AcademicRepository) QuerySemesters(ctx context.Context) ([]academic.Semester, error) {
	var rows []semesterRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM semester ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "querying semesters")
	}
	sems := make([]academic.Semester, 0, len(rows))
	for _, row := range rows {
		sems = append(sems, row.semester())
	}
	return sems, nil
}

func (repo *AcademicRepository) GetSemesterByID(ctx context.Context, id int) (academic.Semester, error) {
	var row semesterRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM semester WHERE id = $1`, id); err != nil {
		return academic.Semester{}, trapNoRowsErr(err, academic.ErrSemesterNotFound)
	}
	return row.semester(), nil
}

func (repo *AcademicRepository) UpdateSemester(ctx context.Context, sem academic.Semester) (academic.Semester, error) {
	const q = `UPDATE semester SET year = $1, name = $2, start_date = $3, end_date = $4 WHERE id = $5`
	if _, err := repo.db.ExecContext(ctx, q, sem.Year, sem.Name, sem.StartDate, sem.EndDate, sem.ID); err != nil {
		return academic.Semester{}, errors.Wrap(err, "updating semester")
	}
	return sem, nil
}

func (repo *AcademicRepository) DeleteSemestersByID(ctx context.Context, ids ...int) error {
	return repo.deleteByID(ctx, "semester", "deleting semesters", ids)
}

// Courses

func (repo *AcademicRepository) CreateCourse(ctx context.Context, crs academic.Course) (academic.Course, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return academic.Course{}, errors.Wrap(err, "beginning tx")
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx, `INSERT INTO course (code, name) VALUES ($1, $2) RETURNING id`, crs.Code, crs.Name).Scan(&crs.ID)
	if err != nil {
		return academic.Course{}, errors.Wrap(err, "creating course")
	}
	if err = repo.linkSemesters(ctx, tx, crs.ID, crs.SemesterIDs); err != nil {
		return academic.Course{}, err
	}
	if err = tx.Commit(); err != nil {
		return academic.Course{}, errors.Wrap(err, "committing tx")
	}
	return crs, nil
}

func (repo *AcademicRepository) QueryCourses(ctx context.Context) ([]academic.Course, error) {
	var rows []courseRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM course ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}

	links, err := repo.semesterLinks(ctx)
	if err != nil {
		return nil, err
	}

	crss := make([]academic.Course, 0, len(rows))
	for _, row := range rows {
		crss = append(crss, academic.Course{ID: row.ID, Code: row.Code, Name: row.Name, SemesterIDs: links[row.ID]})
	}
	return crss, nil
}

func (repo *AcademicRepository) GetCourseByID(ctx context.Context, id int) (academic.Course, error) {
	var row courseRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM course WHERE id = $1`, id); err != nil {
		return academic.Course{}, trapNoRowsErr(err, academic.ErrCourseNotFound)
	}

	var semIDs []int
	err := repo.db.SelectContext(ctx, &semIDs,
		`SELECT semester_id FROM course_semester WHERE course_id = $1 ORDER BY semester_id`, id)
	if err != nil {
		return academic.Course{}, errors.Wrap(err, "querying course semesters")
	}
	return academic.Course{ID: row.ID, Code: row.Code, Name: row.Name, SemesterIDs: semIDs}, nil
}

func (repo *AcademicRepository) UpdateCourse(ctx context.Context, crs academic.Course) (academic.Course, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return academic.Course{}, errors.Wrap(err, "beginning tx")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, `UPDATE course SET code = $1, name = $2 WHERE id = $3`, crs.Code, crs.Name, crs.ID); err != nil {
		return academic.Course{}, errors.Wrap(err, "updating course")
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM course_semester WHERE course_id = $1`, crs.ID); err != nil {
		return academic.Course{}, errors.Wrap(err, "unlinking semesters")
	}
	if err = repo.linkSemesters(ctx, tx, crs.ID, crs.SemesterIDs); err != nil {
		return academic.Course{}, err
	}
	if err = tx.Commit(); err != nil {
		return academic.Course{}, errors.Wrap(err, "committing tx")
	}
	return crs, nil
}

func (repo *AcademicRepository) DeleteCoursesByID(ctx context.Context, ids ...int) error {
	return repo.deleteByID(ctx, "course", "deleting courses", ids)
}

func (repo *AcademicRepository) linkSemesters(ctx context.Context, tx *sqlx.Tx, courseID int, semIDs []int) error {
	for _, semID := range semIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO course_semester (course_id, semester_id) VALUES ($1, $2)`, courseID, semID)
		if err != nil {
			return errors.Wrap(err, "linking semester")
		}
	}
	return nil
}

func (repo *AcademicRepository) semesterLinks(ctx context.Context) (map[int][]int, error) {
	var rows []struct {
		CourseID   int `db:"course_id"`
		SemesterID int `db:"semester_id"`
	}
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT course_id, semester_id FROM course_semester ORDER BY course_id, semester_id`)
	if err != nil {
		return nil, errors.Wrap(err, "querying course semesters")
	}
	links := make(map[int][]int, len(rows))
	for _, row := range rows {
		links[row.CourseID] = append(links[row.CourseID], row.SemesterID)
	}
	return links, nil
}

// Classes

func (repo *AcademicRepository) CreateClass(ctx context.Context, cls academic.Class) (academic.Class, error) {
	const q = `INSERT INTO class (number, course_id, semester_id, lecturer_id) VALUES ($1, $2, $3, $4) RETURNING id`
	err := repo.db.QueryRowContext(ctx, q, cls.Number, cls.CourseID, cls.SemesterID, cls.LecturerID).Scan(&cls.ID)
	if err != nil {
		return academic.Class{}, errors.Wrap(err, "creating class")
	}
	return cls, nil
}

func (repo *AcademicRepository) QueryClasses(ctx context.Context) ([]academic.Class, error) {
	var rows []classRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM class ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	clss := make([]academic.Class, 0, len(rows))
	for _, row := range rows {
		clss = append(clss, row.class())
	}
	return clss, nil
}

func (repo *AcademicRepository) GetClassByID(ctx context.Context, id int) (academic.Class, error) {
	var row classRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM class WHERE id = $1`, id); err != nil {
		return academic.Class{}, trapNoRowsErr(err, academic.ErrClassNotFound)
	}
	return row.class(), nil
}

func (repo *AcademicRepository) UpdateClass(ctx context.Context, cls academic.Class) (academic.Class, error) {
	const q = `UPDATE class SET number = $1, course_id = $2, semester_id = $3, lecturer_id = $4 WHERE id = $5`
	if _, err := repo.db.ExecContext(ctx, q, cls.Number, cls.CourseID, cls.SemesterID, cls.LecturerID, cls.ID); err != nil {
		return academic.Class{}, errors.Wrap(err, "updating class")
	}
	return cls, nil
}

func (repo *AcademicRepository) DeleteClassesByID(ctx context.Context, ids ...int) error {
	return repo.deleteByID(ctx, "class", "deleting classes", ids)
}

// College days

func (repo *AcademicRepository) CreateCollegeDay(ctx context.Context, day academic.CollegeDay) (academic.CollegeDay, error) {
	const q = `INSERT INTO college_day (date, class_id) VALUES ($1, $2) RETURNING id`
	err := repo.db.QueryRowContext(ctx, q, day.Date, day.ClassID).Scan(&day.ID)
	if err != nil {
		return academic.CollegeDay{}, errors.Wrap(err, "creating college day")
	}
	return day, nil
}

func (repo *AcademicRepository) QueryCollegeDays(ctx context.Context) ([]academic.CollegeDay, error) {
	var rows []collegeDayRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM college_day ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "querying college days")
	}
	days := make([]academic.CollegeDay, 0, len(rows))
	for _, row := range rows {
		days = append(days, row.collegeDay())
	}
	return days, nil
}

func (repo *AcademicRepository) GetCollegeDayByID(ctx context.Context, id int) (academic.CollegeDay, error) {
	var row collegeDayRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM college_day WHERE id = $1`, id); err != nil {
		return academic.CollegeDay{}, trapNoRowsErr(err, academic.ErrCollegeDayNotFound)
	}
	return row.collegeDay(), nil
}

func (repo *AcademicRepository) UpdateCollegeDay(ctx context.Context, day academic.CollegeDay) (academic.CollegeDay, error) {
	const q = `UPDATE college_day SET date = $1, class_id = $2 WHERE id = $3`
	if _, err := repo.db.ExecContext(ctx, q, day.Date, day.ClassID, day.ID); err != nil {
		return academic.CollegeDay{}, errors.Wrap(err, "updating college day")
	}
	return day, nil
}

func (repo *AcademicRepository) DeleteCollegeDaysByID(ctx context.Context, ids ...int) error {
	return repo.deleteByID(ctx, "college_day", "deleting college days", ids)
}

func (repo *AcademicRepository) deleteByID(ctx context.Context, table, wrapMsg string, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := inClause(repo.db, `DELETE FROM `+table+` WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, q, args...); err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	return nil
}
