package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/mahudhurio/apps/api/echo"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/roster"
	"github.com/trezcool/mahudhurio/core/user"
	emailsvc "github.com/trezcool/mahudhurio/services/email"
	testutil "github.com/trezcool/mahudhurio/tests"
)

// classFixture wires a full teaching setup: a class with its lecturer
// and two enrolled students.
type classFixture struct {
	lecturer      user.User
	student1      user.User
	student2      user.User
	st1           roster.Student
	st2           roster.Student
	classID       int
	enr1          roster.Enrollment
	enr2          roster.Enrollment
	lecturerToken string
	student1Token string
}

func newClassFixture(t *testing.T) classFixture {
	t.Helper()

	sem := testutil.CreateSemester(t, acadRepo, 2026, "Fall",
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 12, 18, 0, 0, 0, 0, time.UTC))
	crs := testutil.CreateCourse(t, acadRepo, "CS101", "Intro to CS", sem.ID)

	fix := classFixture{
		lecturer: testutil.CreateUser(t, usrRepo, "Lecturer", "lect", "lect@test.cd", "s3cr3t", user.LecturerRoles, true),
		student1: testutil.CreateUser(t, usrRepo, "Student One", "stud1", "stud1@test.cd", "s3cr3t", user.StudentRoles, true),
		student2: testutil.CreateUser(t, usrRepo, "Student Two", "stud2", "stud2@test.cd", "s3cr3t", user.StudentRoles, true),
	}
	lect := testutil.CreateLecturer(t, rostRepo, 1001, fix.lecturer.ID, "Dr. Lect")
	cls := testutil.CreateClass(t, acadRepo, 1, crs.ID, sem.ID, lect.ID)
	fix.classID = cls.ID
	fix.st1 = testutil.CreateStudent(t, rostRepo, "ST-1", fix.student1.ID, "Student One")
	fix.st2 = testutil.CreateStudent(t, rostRepo, "ST-2", fix.student2.ID, "Student Two")
	fix.enr1 = testutil.CreateEnrollment(t, rostRepo, fix.st1.ID, cls.ID)
	fix.enr2 = testutil.CreateEnrollment(t, rostRepo, fix.st2.ID, cls.ID)
	fix.lecturerToken = getToken(t, fix.lecturer)
	fix.student1Token = getToken(t, fix.student1)
	return fix
}

func mockNow(t *testing.T, now time.Time) {
	t.Helper()
	orig := attendance.NowFunc
	attendance.NowFunc = func() time.Time { return now }
	t.Cleanup(func() { attendance.NowFunc = orig })
}

func Test_attendanceApi_sheet(t *testing.T) {
	app := setup(t)
	fix := newClassFixture(t)
	adminToken := newAdminToken(t)

	path := "/v1/attendance/classes/" + itoa(fix.classID)

	t.Run("lecturer gate", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, path)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)

		req, rec = newAuthRequest(http.MethodGet, path, fix.student1Token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)

		req, rec = newAuthRequest(http.MethodGet, path, adminToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
	})

	t.Run("one line per enrollment", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, path, fix.lecturerToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t,
			roster.ClassEnrollment{EnrollmentID: fix.enr1.ID, StudentName: "Student One", StudentID: "ST-1"},
			roster.ClassEnrollment{EnrollmentID: fix.enr2.ID, StudentName: "Student Two", StudentID: "ST-2"},
		)}, rec)
	})

	t.Run("empty class", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/attendance/classes/12345", fix.lecturerToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte("[]")}, rec)
	})
}

func Test_attendanceApi_enter(t *testing.T) {
	app := setup(t)
	fix := newClassFixture(t)

	now := time.Date(2026, 9, 7, 14, 30, 0, 0, time.UTC)
	today := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	mockNow(t, now)

	path := "/v1/attendance/classes/" + itoa(fix.classID)

	t.Run("one row per enrollment", func(t *testing.T) {
		// enr2 left out of the form on purpose; it still gets a row
		body := marchallObj(t, attendance.EntryForm{Statuses: map[int]string{
			fix.enr1.ID: attendance.StatusPresent,
		}})
		req, rec := newAuthRequest(http.MethodPost, path, fix.lecturerToken, body)
		app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var rows []attendance.Attendance
		if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
			t.Fatalf("unmarshalling rows: %v", err)
		}
		if assert.Len(t, rows, 2) {
			assert.Equal(t, fix.enr1.ID, rows[0].EnrollmentID)
			assert.Equal(t, attendance.StatusPresent, rows[0].Status)
			assert.Equal(t, today, rows[0].Date)
			assert.Equal(t, fix.enr2.ID, rows[1].EnrollmentID)
			assert.Equal(t, "", rows[1].Status)
		}
	})

	t.Run("resubmission appends", func(t *testing.T) {
		body := marchallObj(t, attendance.EntryForm{Statuses: map[int]string{
			fix.enr1.ID: attendance.StatusAbsent,
			fix.enr2.ID: attendance.StatusPresent,
		}})
		req, rec := newAuthRequest(http.MethodPost, path, fix.lecturerToken, body)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code)

		rows, err := attRepo.QueryStudentAttendance(context.Background(), fix.st1.ID)
		if err != nil {
			t.Fatalf("QueryStudentAttendance() failed: %v", err)
		}
		assert.Len(t, rows, 2) // both submissions kept
	})

	t.Run("empty class", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/attendance/classes/12345", fix.lecturerToken, []byte("{}"))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusCreated, wantData: []byte("[]")}, rec)
	})
}

func Test_attendanceApi_mine(t *testing.T) {
	app := setup(t)
	fix := newClassFixture(t)

	day1 := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	att1 := testutil.CreateAttendance(t, attRepo, fix.enr1.ID, day1, attendance.StatusPresent)
	att2 := testutil.CreateAttendance(t, attRepo, fix.enr1.ID, day2, attendance.StatusAbsent)
	testutil.CreateAttendance(t, attRepo, fix.enr2.ID, day1, attendance.StatusPresent) // someone else's row

	t.Run("own rows only", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/attendance/mine", fix.student1Token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, att1, att2)}, rec)
	})

	t.Run("account without student profile", func(t *testing.T) {
		orphan := testutil.CreateUser(t, usrRepo, "Orphan", "orphan", "orphan@test.cd", "s3cr3t", user.StudentRoles, true)
		req, rec := newAuthRequest(http.MethodGet, "/v1/attendance/mine", getToken(t, orphan))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)
	})

	t.Run("lecturer gate trips", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/attendance/mine", fix.lecturerToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
	})
}

func Test_attendanceApi_emailAlerts(t *testing.T) {
	app := setup(t)
	fix := newClassFixture(t)
	adminToken := newAdminToken(t)

	day1 := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	// enr1 absent twice: one alert. enr2 never absent: no alert.
	testutil.CreateAttendance(t, attRepo, fix.enr1.ID, day1, attendance.StatusAbsent)
	testutil.CreateAttendance(t, attRepo, fix.enr1.ID, day2, attendance.StatusAbsent)
	testutil.CreateAttendance(t, attRepo, fix.enr2.ID, day1, attendance.StatusPresent)

	t.Run("admin gate", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/attendance/email-alerts", fix.lecturerToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
	})

	t.Run("one alert per absent enrollment", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/attendance/email-alerts", adminToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, EmailAlertsResponse{Sent: 1})}, rec)

		if assert.Len(t, emailsvc.SentMessages, 1) {
			msg := emailsvc.SentMessages[0]
			assert.Equal(t, "Attendance Alert", msg.Subject)
			if assert.Len(t, msg.To, 1) {
				assert.Equal(t, "Student One", msg.To[0].Name)
				assert.Equal(t, "stud1@test.cd", msg.To[0].Address)
			}
		}
	})

	t.Run("nothing to send", func(t *testing.T) {
		emailsvc.ResetSentMessages()
		db.Reset()
		adminToken := newAdminToken(t)

		req, rec := newAuthRequest(http.MethodPost, "/v1/attendance/email-alerts", adminToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, EmailAlertsResponse{Sent: 0})}, rec)
		assert.Empty(t, emailsvc.SentMessages)
	})
}
