package attendance_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/user"
	emailsvc "github.com/trezcool/mahudhurio/services/email"
	inmemdb "github.com/trezcool/mahudhurio/storage/database/inmem"
	testutil "github.com/trezcool/mahudhurio/tests"
)

func TestService_Enter_datesRowsAtServerMidnight(t *testing.T) {
	db := inmemdb.NewDB()
	usrRepo := inmemdb.NewUserRepository(db)
	acadRepo := inmemdb.NewAcademicRepository(db)
	rostRepo := inmemdb.NewRosterRepository(db)
	attRepo := inmemdb.NewAttendanceRepository(db)
	svc := attendance.NewService(attRepo, rostRepo, emailsvc.NewConsoleServiceMock())

	sem := testutil.CreateSemester(t, acadRepo, 2026, "Fall",
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 12, 18, 0, 0, 0, 0, time.UTC))
	crs := testutil.CreateCourse(t, acadRepo, "CS101", "Intro to CS", sem.ID)
	lectUsr := testutil.CreateUser(t, usrRepo, "Lecturer", "lect", "lect@test.cd", "", user.LecturerRoles, true)
	lect := testutil.CreateLecturer(t, rostRepo, 1001, lectUsr.ID, "Dr. Lect")
	cls := testutil.CreateClass(t, acadRepo, 1, crs.ID, sem.ID, lect.ID)
	stUsr := testutil.CreateUser(t, usrRepo, "Student", "stud", "stud@test.cd", "", user.StudentRoles, true)
	st := testutil.CreateStudent(t, rostRepo, "ST-1", stUsr.ID, "A Student")
	enr := testutil.CreateEnrollment(t, rostRepo, st.ID, cls.ID)

	origNow := attendance.NowFunc
	attendance.NowFunc = func() time.Time {
		return time.Date(2026, 9, 7, 23, 59, 59, 0, time.FixedZone("EAT", 3*60*60))
	}
	t.Cleanup(func() { attendance.NowFunc = origNow })

	rows, err := svc.Enter(context.Background(), cls.ID, attendance.EntryForm{
		Statuses: map[int]string{enr.ID: attendance.StatusPresent},
	})
	if err != nil {
		t.Fatalf("Enter() failed: %v", err)
	}
	if assert.Len(t, rows, 1) {
		// 23:59 EAT is 20:59 UTC; the row is dated that UTC day
		assert.Equal(t, time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), rows[0].Date)
		assert.Equal(t, attendance.StatusPresent, rows[0].Status)
	}

	// a class with no enrollments records nothing
	rows, err = svc.Enter(context.Background(), 12345, attendance.EntryForm{})
	if err != nil {
		t.Fatalf("Enter() failed: %v", err)
	}
	assert.Empty(t, rows)
}

func TestService_NotifyPoorAttendance_oneAlertPerEnrollment(t *testing.T) {
	db := inmemdb.NewDB()
	usrRepo := inmemdb.NewUserRepository(db)
	acadRepo := inmemdb.NewAcademicRepository(db)
	rostRepo := inmemdb.NewRosterRepository(db)
	attRepo := inmemdb.NewAttendanceRepository(db)
	svc := attendance.NewService(attRepo, rostRepo, emailsvc.NewConsoleServiceMock())
	emailsvc.ResetSentMessages()

	sem := testutil.CreateSemester(t, acadRepo, 2026, "Fall",
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 12, 18, 0, 0, 0, 0, time.UTC))
	crs := testutil.CreateCourse(t, acadRepo, "CS101", "Intro to CS", sem.ID)
	lectUsr := testutil.CreateUser(t, usrRepo, "Lecturer", "lect", "lect@test.cd", "", user.LecturerRoles, true)
	lect := testutil.CreateLecturer(t, rostRepo, 1001, lectUsr.ID, "Dr. Lect")
	cls := testutil.CreateClass(t, acadRepo, 1, crs.ID, sem.ID, lect.ID)

	stUsr1 := testutil.CreateUser(t, usrRepo, "Student One", "stud1", "stud1@test.cd", "", user.StudentRoles, true)
	st1 := testutil.CreateStudent(t, rostRepo, "ST-1", stUsr1.ID, "Student One")
	enr1 := testutil.CreateEnrollment(t, rostRepo, st1.ID, cls.ID)
	stUsr2 := testutil.CreateUser(t, usrRepo, "Student Two", "stud2", "stud2@test.cd", "", user.StudentRoles, true)
	st2 := testutil.CreateStudent(t, rostRepo, "ST-2", stUsr2.ID, "Student Two")
	enr2 := testutil.CreateEnrollment(t, rostRepo, st2.ID, cls.ID)

	day1 := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	testutil.CreateAttendance(t, attRepo, enr1.ID, day1, attendance.StatusAbsent)
	testutil.CreateAttendance(t, attRepo, enr1.ID, day2, attendance.StatusAbsent) // still one alert
	testutil.CreateAttendance(t, attRepo, enr2.ID, day1, attendance.StatusPresent)

	sent, err := svc.NotifyPoorAttendance(context.Background())
	if err != nil {
		t.Fatalf("NotifyPoorAttendance() failed: %v", err)
	}
	assert.Equal(t, 1, sent)
	if assert.Len(t, emailsvc.SentMessages, 1) {
		msg := emailsvc.SentMessages[0]
		assert.Equal(t, "Attendance Alert", msg.Subject)
		assert.Equal(t, "stud1@test.cd", msg.To[0].Address)
		assert.Equal(t, "Student One", msg.To[0].Name)
	}
}
