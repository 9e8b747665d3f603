package attendance

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/roster"
)

var (
	// NowFunc returns the server time used to date new rows; mockable.
	NowFunc = time.Now

	alertSubject = "Attendance Alert"
	alertBody    = "You have poor attendance. Please attend your classes."
)

type (
	Repository interface {
		// CreateAttendances inserts all rows in a single transaction.
		CreateAttendances(ctx context.Context, rows []Attendance) ([]Attendance, error)
		QueryStudentAttendance(ctx context.Context, studentID int) ([]Attendance, error)
		// QueryAbsentEnrollments returns each distinct enrollment having at
		// least one Absent row, however many Absent rows it has.
		QueryAbsentEnrollments(ctx context.Context) ([]AbsentEnrollment, error)
	}

	Service struct {
		repo    Repository
		roster  roster.Repository
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, rosterRepo roster.Repository, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, roster: rosterRepo, mailSvc: mailSvc}
}

// Sheet returns the entry sheet for a class: one line per enrollment.
func (svc *Service) Sheet(ctx context.Context, classID int) ([]roster.ClassEnrollment, error) {
	return svc.roster.QueryClassEnrollments(ctx, classID)
}

// Enter records one new row per enrollment of the class, dated today
// (server date), with whatever status was submitted for it — including
// none. Rows are appended; earlier submissions for the same day remain.
func (svc *Service) Enter(ctx context.Context, classID int, form EntryForm) ([]Attendance, error) {
	entries, err := svc.roster.QueryClassEnrollments(ctx, classID)
	if err != nil {
		return nil, errors.Wrap(err, "querying class enrollments")
	}
	if len(entries) == 0 {
		return []Attendance{}, nil
	}

	now := NowFunc().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	rows := make([]Attendance, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, Attendance{
			EnrollmentID: entry.EnrollmentID,
			Date:         today,
			Status:       form.Statuses[entry.EnrollmentID],
		})
	}
	return svc.repo.CreateAttendances(ctx, rows)
}

// HistoryForUser returns all attendance rows across the enrollments of
// the student linked to the given account.
func (svc *Service) HistoryForUser(ctx context.Context, userID int) ([]Attendance, error) {
	st, err := svc.roster.GetStudentByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return svc.repo.QueryStudentAttendance(ctx, st.ID)
}

// NotifyPoorAttendance emails every distinct enrollment having at least
// one Absent row. The first send error aborts the remaining sends.
func (svc *Service) NotifyPoorAttendance(ctx context.Context) (int, error) {
	absents, err := svc.repo.QueryAbsentEnrollments(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "querying absent enrollments")
	}

	msgs := make([]*core.EmailMessage, 0, len(absents))
	for _, enr := range absents {
		msgs = append(msgs, &core.EmailMessage{
			To:      []mail.Address{{Name: enr.StudentName, Address: enr.Email}},
			Subject: alertSubject,
			BodyStr: alertBody,
		})
	}
	if err = svc.mailSvc.SendMessages(msgs...); err != nil {
		return 0, errors.Wrap(err, "sending alerts")
	}
	return len(msgs), nil
}
