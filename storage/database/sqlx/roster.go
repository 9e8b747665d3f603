package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/roster"
)

type lecturerRow struct {
	ID       int    `db:"id"`
	StaffID  int    `db:"staff_id"`
	UserID   int    `db:"user_id"`
	FullName string `db:"full_name"`
}

type studentRow struct {
	ID        int    `db:"id"`
	StudentID string `db:"student_id"`
	UserID    int    `db:"user_id"`
	FullName  string `db:"full_name"`
}

type enrollmentRow struct {
	ID        int `db:"id"`
	StudentID int `db:"student_id"`
	ClassID   int `db:"class_id"`
}

type classEnrollmentRow struct {
	EnrollmentID int    `db:"enrollment_id"`
	StudentName  string `db:"student_name"`
	StudentID    string `db:"student_id"`
}

type RosterRepository struct {
	db *sqlx.DB
}

var _ roster.Repository = (*RosterRepository)(nil)

func NewRosterRepository(db *sql.DB) *RosterRepository {
	return &RosterRepository{db: wrapDB(db)}
}

// Lecturers

func (repo *RosterRepository) CheckStaffIDUniqueness(ctx context.Context, staffID int, excluded ...roster.Lecturer) error {
	count, err := repo.countExcluding(ctx, "lecturer", fmt.Sprintf("staff_id = %d", staffID), lecturerIDs(excluded))
	if err != nil {
		return errors.Wrap(err, "checking staff_id")
	}
	if count > 0 {
		return roster.ErrStaffIDExists
	}
	return nil
}

func (repo *RosterRepository) CreateLecturer(ctx context.Context, lect roster.Lecturer) (roster.Lecturer, error) {
	const q = `INSERT INTO lecturer (staff_id, user_id, full_name) VALUES ($1, $2, $3) RETURNING id`
	err := repo.db.QueryRowContext(ctx, q, lect.StaffID, lect.UserID, lect.FullName).Scan(&lect.ID)
	if err != nil {
		return roster.Lecturer{}, errors.Wrap(trapUniqueErr(err, "lecturer_staff_id_key", roster.ErrStaffIDExists), "creating lecturer")
	}
	return lect, nil
}

func (repo *RosterRepository) QueryLecturers(ctx context.Context) ([]roster.Lecturer, error) {
	var rows []lecturerRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM lecturer ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "querying lecturers")
	}
	lects := make([]roster.Lecturer, 0, len(rows))
	for _, row := range rows {
		lects = append(lects, roster.Lecturer(row))
	}
	return lects, nil
}

func (repo *RosterRepository) GetLecturerByID(ctx context.Context, id int) (roster.Lecturer, error) {
	var row lecturerRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM lecturer WHERE id = $1`, id); err != nil {
		return roster.Lecturer{}, trapNoRowsErr(err, roster.ErrLecturerNotFound)
	}
	return roster.Lecturer(row), nil
}

func (repo *RosterRepository) UpdateLecturer(ctx context.Context, lect roster.Lecturer) (roster.Lecturer, error) {
	const q = `UPDATE lecturer SET staff_id = $1, user_id = $2, full_name = $3 WHERE id = $4`
	if _, err := repo.db.ExecContext(ctx, q, lect.StaffID, lect.UserID, lect.FullName, lect.ID); err != nil {
		return roster.Lecturer{}, errors.Wrap(trapUniqueErr(err, "lecturer_staff_id_key", roster.ErrStaffIDExists), "updating lecturer")
	}
	return lect, nil
}

// Students

func (repo *RosterRepository) CheckStudentIDUniqueness(ctx context.Context, studentID string, excluded ...roster.Student) error {
	exclIDs := make([]int, 0, len(excluded))
	for _, st := range excluded {
		exclIDs = append(exclIDs, st.ID)
	}
	exclIDs = append(exclIDs, 0)

	q, args, err := sqlx.In(`SELECT COUNT(*) FROM student WHERE student_id = ? AND id NOT IN (?)`, studentID, exclIDs)
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	q = repo.db.Rebind(q)

	var count int
	if err = repo.db.GetContext(ctx, &count, q, args...); err != nil {
		return errors.Wrap(err, "checking student_id")
	}
	if count > 0 {
		return roster.ErrStudentIDExists
	}
	return nil
}

func (repo *RosterRepository) CreateStudent(ctx context.Context, st roster.Student) (roster.Student, error) {
	const q = `INSERT INTO student (student_id, user_id, full_name) VALUES ($1, $2, $3) RETURNING id`
	err := repo.db.QueryRowContext(ctx, q, st.StudentID, st.UserID, st.FullName).Scan(&st.ID)
	if err != nil {
		return roster.Student{}, errors.Wrap(trapUniqueErr(err, "student_student_id_key", roster.ErrStudentIDExists), "creating student")
	}
	return st, nil
}

func (repo *RosterRepository) QueryStudents(ctx context.Context) ([]roster.Student, error) {
	var rows []studentRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM student ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	sts := make([]roster.Student, 0, len(rows))
	for _, row := range rows {
		sts = append(sts, roster.Student(row))
	}
	return sts, nil
}

func (repo *RosterRepository) GetStudentByID(ctx context.Context, id int) (roster.Student, error) {
	var row studentRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM student WHERE id = $1`, id); err != nil {
		return roster.Student{}, trapNoRowsErr(err, roster.ErrStudentNotFound)
	}
	return roster.Student(row), nil
}

func (repo *RosterRepository) GetStudentByUserID(ctx context.Context, userID int) (roster.Student, error) {
	var row studentRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM student WHERE user_id = $1`, userID); err != nil {
		return roster.Student{}, trapNoRowsErr(err, roster.ErrStudentNotFound)
	}
	return roster.Student(row), nil
}

func (repo *RosterRepository) UpdateStudent(ctx context.Context, st roster.Student) (roster.Student, error) {
	const q = `UPDATE student SET student_id = $1, user_id = $2, full_name = $3 WHERE id = $4`
	if _, err := repo.db.ExecContext(ctx, q, st.StudentID, st.UserID, st.FullName, st.ID); err != nil {
		return roster.Student{}, errors.Wrap(trapUniqueErr(err, "student_student_id_key", roster.ErrStudentIDExists), "updating student")
	}
	return st, nil
}

// Enrollments

func (repo *RosterRepository) CreateEnrollment(ctx context.Context, enr roster.Enrollment) (roster.Enrollment, error) {
	const q = `INSERT INTO enrollment (student_id, class_id) VALUES ($1, $2) RETURNING id`
	err := repo.db.QueryRowContext(ctx, q, enr.StudentID, enr.ClassID).Scan(&enr.ID)
	if err != nil {
		return roster.Enrollment{}, errors.Wrap(err, "creating enrollment")
	}
	return enr, nil
}

func (repo *RosterRepository) QueryEnrollments(ctx context.Context) ([]roster.Enrollment, error) {
	var rows []enrollmentRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM enrollment ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}
	enrs := make([]roster.Enrollment, 0, len(rows))
	for _, row := range rows {
		enrs = append(enrs, roster.Enrollment(row))
	}
	return enrs, nil
}

func (repo *RosterRepository) GetEnrollmentByID(ctx context.Context, id int) (roster.Enrollment, error) {
	var row enrollmentRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM enrollment WHERE id = $1`, id); err != nil {
		return roster.Enrollment{}, trapNoRowsErr(err, roster.ErrEnrollmentNotFound)
	}
	return roster.Enrollment(row), nil
}

func (repo *RosterRepository) UpdateEnrollment(ctx context.Context, enr roster.Enrollment) (roster.Enrollment, error) {
	const q = `UPDATE enrollment SET student_id = $1, class_id = $2 WHERE id = $3`
	if _, err := repo.db.ExecContext(ctx, q, enr.StudentID, enr.ClassID, enr.ID); err != nil {
		return roster.Enrollment{}, errors.Wrap(err, "updating enrollment")
	}
	return enr, nil
}

func (repo *RosterRepository) DeleteEnrollmentsByID(ctx context.Context, ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := inClause(repo.db, `DELETE FROM enrollment WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, q, args...); err != nil {
		return errors.Wrap(err, "deleting enrollments")
	}
	return nil
}

func (repo *RosterRepository) QueryClassEnrollments(ctx context.Context, classID int) ([]roster.ClassEnrollment, error) {
	const q = `
SELECT e.id AS enrollment_id, s.full_name AS student_name, s.student_id
FROM enrollment e
JOIN student s ON s.id = e.student_id
WHERE e.class_id = $1
ORDER BY s.full_name, e.id`

	var rows []classEnrollmentRow
	if err := repo.db.SelectContext(ctx, &rows, q, classID); err != nil {
		return nil, errors.Wrap(err, "querying class enrollments")
	}
	entries := make([]roster.ClassEnrollment, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, roster.ClassEnrollment(row))
	}
	return entries, nil
}

func (repo *RosterRepository) countExcluding(ctx context.Context, table, cond string, exclIDs []int) (int, error) {
	exclIDs = append(exclIDs, 0) // sqlx.In rejects empty slices
	q, args, err := sqlx.In(fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s AND id NOT IN (?)`, table, cond), exclIDs)
	if err != nil {
		return 0, err
	}
	q = repo.db.Rebind(q)

	var count int
	if err = repo.db.GetContext(ctx, &count, q, args...); err != nil {
		return 0, err
	}
	return count, nil
}

func lecturerIDs(lects []roster.Lecturer) []int {
	ids := make([]int, 0, len(lects))
	for _, lect := range lects {
		ids = append(ids, lect.ID)
	}
	return ids
}
