package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/attendance"
)

type attendanceRow struct {
	ID           int       `db:"id"`
	EnrollmentID int       `db:"enrollment_id"`
	Date         time.Time `db:"date"`
	Status       string    `db:"status"`
}

type absentEnrollmentRow struct {
	EnrollmentID int    `db:"enrollment_id"`
	StudentName  string `db:"student_name"`
	Email        string `db:"email"`
}

type AttendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*AttendanceRepository)(nil)

func NewAttendanceRepository(db *sql.DB) *AttendanceRepository {
	return &AttendanceRepository{db: wrapDB(db)}
}

// CreateAttendances inserts all rows in one transaction; none persist
// if any insert fails.
func (repo *AttendanceRepository) CreateAttendances(ctx context.Context, rows []attendance.Attendance) ([]attendance.Attendance, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "beginning tx")
	}
	defer func() { _ = tx.Rollback() }()

	const q = `INSERT INTO attendance (enrollment_id, date, status) VALUES ($1, $2, $3) RETURNING id`
	created := make([]attendance.Attendance, 0, len(rows))
	for _, att := range rows {
		if err = tx.QueryRowContext(ctx, q, att.EnrollmentID, att.Date, att.Status).Scan(&att.ID); err != nil {
			return nil, errors.Wrap(err, "creating attendance")
		}
		created = append(created, att)
	}
	if err = tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "committing tx")
	}
	return created, nil
}

func (repo *AttendanceRepository) QueryStudentAttendance(ctx context.Context, studentID int) ([]attendance.Attendance, error) {
	const q = `
SELECT a.id, a.enrollment_id, a.date, a.status
FROM attendance a
JOIN enrollment e ON e.id = a.enrollment_id
WHERE e.student_id = $1
ORDER BY a.date, a.id`

	var rows []attendanceRow
	if err := repo.db.SelectContext(ctx, &rows, q, studentID); err != nil {
		return nil, errors.Wrap(err, "querying student attendance")
	}
	atts := make([]attendance.Attendance, 0, len(rows))
	for _, row := range rows {
		atts = append(atts, attendance.Attendance(row))
	}
	return atts, nil
}

func (repo *AttendanceRepository) QueryAbsentEnrollments(ctx context.Context) ([]attendance.AbsentEnrollment, error) {
	const q = `
SELECT DISTINCT e.id AS enrollment_id, s.full_name AS student_name, u.email
FROM attendance a
JOIN enrollment e ON e.id = a.enrollment_id
JOIN student s ON s.id = e.student_id
JOIN "user" u ON u.id = s.user_id
WHERE a.status = $1
ORDER BY e.id`

	var rows []absentEnrollmentRow
	if err := repo.db.SelectContext(ctx, &rows, q, attendance.StatusAbsent); err != nil {
		return nil, errors.Wrap(err, "querying absent enrollments")
	}
	absents := make([]attendance.AbsentEnrollment, 0, len(rows))
	for _, row := range rows {
		absents = append(absents, attendance.AbsentEnrollment(row))
	}
	return absents, nil
}
