package roster

import (
	"context"
	"encoding/csv"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/user"
)

var (
	uploadColumns = []string{"student_id", "full_name", "username"}

	ErrMissingColumns = errors.New("header must contain student_id, full_name and username columns")
)

// UploadReport summarizes a bulk student upload.
type UploadReport struct {
	BatchID string `json:"batch_id"`
	Created int    `json:"created"`
}

// BulkCreateStudents reads a CSV stream whose header contains at least
// student_id, full_name and username. For every row it creates a user
// account (active, no password) and a Student profile linked to it.
// The first malformed row or storage error aborts the run; rows already
// written stay written.
func (svc *Service) BulkCreateStudents(ctx context.Context, r io.Reader) (UploadReport, error) {
	report := UploadReport{BatchID: uuid.New().String()}

	rd := csv.NewReader(r)
	rd.TrimLeadingSpace = true

	header, err := rd.Read()
	if err != nil {
		return report, errors.Wrap(err, "reading header row")
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[core.CleanString(name, true /* lower */)] = i
	}
	for _, name := range uploadColumns {
		if _, ok := cols[name]; !ok {
			return report, ErrMissingColumns
		}
	}

	for {
		row, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return report, errors.Wrap(err, "reading row")
		}

		now := time.Now().UTC()
		usr, err := svc.users.CreateUser(ctx, user.User{
			Name:      core.CleanString(row[cols["full_name"]]),
			Username:  core.CleanString(row[cols["username"]], true /* lower */),
			IsActive:  true,
			Roles:     StudentAccountRoles(),
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return report, errors.Wrapf(err, "creating account for row %d", report.Created+1)
		}

		if _, err = svc.repo.CreateStudent(ctx, Student{
			StudentID: core.CleanString(row[cols["student_id"]]),
			UserID:    usr.ID,
			FullName:  core.CleanString(row[cols["full_name"]]),
		}); err != nil {
			return report, errors.Wrapf(err, "creating student for row %d", report.Created+1)
		}
		report.Created++
	}
	return report, nil
}

// StudentAccountRoles returns the role set granted to bulk-created accounts.
func StudentAccountRoles() []string {
	roles := make([]string, len(user.StudentRoles))
	copy(roles, user.StudentRoles)
	return roles
}
