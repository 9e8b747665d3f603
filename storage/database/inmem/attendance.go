package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/mahudhurio/core/attendance"
)

type attendanceRepository struct {
	db *DB
}

var _ attendance.Repository = (*attendanceRepository)(nil)

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) CreateAttendances(ctx context.Context, rows []attendance.Attendance) ([]attendance.Attendance, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	created := make([]attendance.Attendance, 0, len(rows))
	for _, row := range rows {
		att := row
		att.ID = repo.db.nextPK()
		repo.db.attendances[att.ID] = &att
		created = append(created, att)
	}
	return created, nil
}

func (repo *attendanceRepository) QueryStudentAttendance(ctx context.Context, studentID int) ([]attendance.Attendance, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	atts := make([]attendance.Attendance, 0)
	for _, att := range repo.db.attendances {
		enr, ok := repo.db.enrollments[att.EnrollmentID]
		if !ok || enr.StudentID != studentID {
			continue
		}
		atts = append(atts, *att)
	}
	sort.Slice(atts, func(i, j int) bool {
		if !atts[i].Date.Equal(atts[j].Date) {
			return atts[i].Date.Before(atts[j].Date)
		}
		return atts[i].ID < atts[j].ID
	})
	return atts, nil
}

func (repo *attendanceRepository) QueryAbsentEnrollments(ctx context.Context) ([]attendance.AbsentEnrollment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	seen := make(map[int]bool)
	absents := make([]attendance.AbsentEnrollment, 0)
	for _, att := range repo.db.attendances {
		if att.Status != attendance.StatusAbsent || seen[att.EnrollmentID] {
			continue
		}
		enr, ok := repo.db.enrollments[att.EnrollmentID]
		if !ok {
			continue
		}
		st, ok := repo.db.students[enr.StudentID]
		if !ok {
			continue
		}
		var email string
		if usr, ok := repo.db.users[st.UserID]; ok {
			email = usr.Email
		}
		seen[att.EnrollmentID] = true
		absents = append(absents, attendance.AbsentEnrollment{
			EnrollmentID: att.EnrollmentID,
			StudentName:  st.FullName,
			Email:        email,
		})
	}
	sort.Slice(absents, func(i, j int) bool { return absents[i].EnrollmentID < absents[j].EnrollmentID })
	return absents, nil
}
