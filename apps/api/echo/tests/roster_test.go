package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/mahudhurio/core/roster"
	"github.com/trezcool/mahudhurio/core/user"
	testutil "github.com/trezcool/mahudhurio/tests"
)

func Test_rosterApi_lecturers(t *testing.T) {
	app := setup(t)
	adminToken := newAdminToken(t)

	lectUsr := testutil.CreateUser(t, usrRepo, "Lecturer", "lect", "lect@test.cd", "s3cr3t", user.LecturerRoles, true)

	var lect roster.Lecturer

	t.Run("create", func(t *testing.T) {
		body := marchallObj(t, roster.NewLecturer{StaffID: 1001, UserID: lectUsr.ID, FullName: "Dr. Lect"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/lecturers", adminToken, body)
		app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		if err := json.Unmarshal(rec.Body.Bytes(), &lect); err != nil {
			t.Fatalf("unmarshalling Lecturer: %v", err)
		}
		assert.NotZero(t, lect.ID)
	})

	t.Run("duplicate staff_id", func(t *testing.T) {
		other := testutil.CreateUser(t, usrRepo, "Other", "other", "other@test.cd", "s3cr3t", user.LecturerRoles, true)
		body := marchallObj(t, roster.NewLecturer{StaffID: 1001, UserID: other.ID, FullName: "Dr. Other"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/lecturers", adminToken, body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"staff_id": roster.ErrStaffIDExists.Error()}),
		}, rec)
	})

	t.Run("update keeps own staff_id", func(t *testing.T) {
		body := marchallObj(t, roster.NewLecturer{StaffID: 1001, UserID: lectUsr.ID, FullName: "Dr. Renamed"})
		req, rec := newAuthRequest(http.MethodPut, "/v1/lecturers/"+itoa(lect.ID), adminToken, body)
		app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var updated roster.Lecturer
		if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
			t.Fatalf("unmarshalling Lecturer: %v", err)
		}
		assert.Equal(t, "Dr. Renamed", updated.FullName)
	})

	t.Run("destroy removes account and classes", func(t *testing.T) {
		sem := testutil.CreateSemester(t, acadRepo, 2026, "Fall",
			time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 12, 18, 0, 0, 0, 0, time.UTC))
		crs := testutil.CreateCourse(t, acadRepo, "CS101", "Intro to CS", sem.ID)
		cls := testutil.CreateClass(t, acadRepo, 1, crs.ID, sem.ID, lect.ID)

		req, rec := newAuthRequest(http.MethodDelete, "/v1/lecturers/"+itoa(lect.ID), adminToken)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		ctx := context.Background()
		_, err := usrRepo.GetUserByID(ctx, lectUsr.ID)
		assert.Equal(t, user.ErrNotFound, err)
		_, err = rostRepo.GetLecturerByID(ctx, lect.ID)
		assert.Equal(t, roster.ErrLecturerNotFound, err)

		req, rec = newAuthRequest(http.MethodGet, "/v1/classes/"+itoa(cls.ID), adminToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)
	})

	t.Run("destroy unknown", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/lecturers/12345", adminToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)
	})
}

func Test_rosterApi_students(t *testing.T) {
	app := setup(t)
	adminToken := newAdminToken(t)

	stUsr := testutil.CreateUser(t, usrRepo, "Student", "stud", "stud@test.cd", "s3cr3t", user.StudentRoles, true)

	var st roster.Student

	t.Run("create", func(t *testing.T) {
		body := marchallObj(t, roster.NewStudent{StudentID: "ST-1", UserID: stUsr.ID, FullName: "A Student"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/students", adminToken, body)
		app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
			t.Fatalf("unmarshalling Student: %v", err)
		}
		assert.NotZero(t, st.ID)
	})

	t.Run("duplicate student_id", func(t *testing.T) {
		other := testutil.CreateUser(t, usrRepo, "Other", "other", "other@test.cd", "s3cr3t", user.StudentRoles, true)
		body := marchallObj(t, roster.NewStudent{StudentID: "ST-1", UserID: other.ID, FullName: "B Student"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/students", adminToken, body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"student_id": roster.ErrStudentIDExists.Error()}),
		}, rec)
	})

	t.Run("student_id too long", func(t *testing.T) {
		body := marchallObj(t, roster.NewStudent{StudentID: "ST-12345678901", UserID: stUsr.ID, FullName: "C Student"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/students", adminToken, body)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "student_id")
	})

	t.Run("destroy removes account and enrollments", func(t *testing.T) {
		sem := testutil.CreateSemester(t, acadRepo, 2026, "Fall",
			time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 12, 18, 0, 0, 0, 0, time.UTC))
		crs := testutil.CreateCourse(t, acadRepo, "CS101", "Intro to CS", sem.ID)
		lectUsr := testutil.CreateUser(t, usrRepo, "Lecturer", "lect", "lect@test.cd", "s3cr3t", user.LecturerRoles, true)
		lect := testutil.CreateLecturer(t, rostRepo, 1001, lectUsr.ID, "Dr. Lect")
		cls := testutil.CreateClass(t, acadRepo, 1, crs.ID, sem.ID, lect.ID)
		enr := testutil.CreateEnrollment(t, rostRepo, st.ID, cls.ID)

		req, rec := newAuthRequest(http.MethodDelete, "/v1/students/"+itoa(st.ID), adminToken)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		ctx := context.Background()
		_, err := usrRepo.GetUserByID(ctx, stUsr.ID)
		assert.Equal(t, user.ErrNotFound, err)
		_, err = rostRepo.GetEnrollmentByID(ctx, enr.ID)
		assert.Equal(t, roster.ErrEnrollmentNotFound, err)
	})
}

func Test_rosterApi_enrollments(t *testing.T) {
	app := setup(t)
	adminToken := newAdminToken(t)

	sem := testutil.CreateSemester(t, acadRepo, 2026, "Fall",
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 12, 18, 0, 0, 0, 0, time.UTC))
	crs := testutil.CreateCourse(t, acadRepo, "CS101", "Intro to CS", sem.ID)
	lectUsr := testutil.CreateUser(t, usrRepo, "Lecturer", "lect", "lect@test.cd", "s3cr3t", user.LecturerRoles, true)
	lect := testutil.CreateLecturer(t, rostRepo, 1001, lectUsr.ID, "Dr. Lect")
	cls := testutil.CreateClass(t, acadRepo, 1, crs.ID, sem.ID, lect.ID)
	stUsr := testutil.CreateUser(t, usrRepo, "Student", "stud", "stud@test.cd", "s3cr3t", user.StudentRoles, true)
	st := testutil.CreateStudent(t, rostRepo, "ST-1", stUsr.ID, "A Student")

	body := marchallObj(t, roster.NewEnrollment{StudentID: st.ID, ClassID: cls.ID})

	t.Run("create", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/enrollments", adminToken, body)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("same pair enrolls twice", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/enrollments", adminToken, body)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code)

		enrs, err := rostRepo.QueryEnrollments(context.Background())
		if err != nil {
			t.Fatalf("QueryEnrollments() failed: %v", err)
		}
		assert.Len(t, enrs, 2)
	})
}

func newUploadRequest(t *testing.T, token, csvData string) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("file", "students.csv")
	if err != nil {
		t.Fatalf("CreateFormFile() failed: %v", err)
	}
	if _, err = fw.Write([]byte(csvData)); err != nil {
		t.Fatalf("writing upload failed: %v", err)
	}
	if err = w.Close(); err != nil {
		t.Fatalf("closing multipart writer failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/students/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req, httptest.NewRecorder()
}

func Test_rosterApi_uploadStudents(t *testing.T) {
	app := setup(t)
	adminToken := newAdminToken(t)

	t.Run("happy path", func(t *testing.T) {
		req, rec := newUploadRequest(t, adminToken,
			"student_id,full_name,username\n"+
				"ST-1,Jane Doe,jane\n"+
				"ST-2,John Doe,john\n")
		app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var report roster.UploadReport
		if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
			t.Fatalf("unmarshalling UploadReport: %v", err)
		}
		assert.NotEmpty(t, report.BatchID)
		assert.Equal(t, 2, report.Created)

		ctx := context.Background()
		sts, err := rostRepo.QueryStudents(ctx)
		if err != nil {
			t.Fatalf("QueryStudents() failed: %v", err)
		}
		assert.Len(t, sts, 2)

		usr, err := usrRepo.GetUserByUsernameOrEmail(ctx, "jane")
		if err != nil {
			t.Fatalf("GetUserByUsernameOrEmail() failed: %v", err)
		}
		assert.True(t, usr.IsActive)
		assert.True(t, usr.IsStudent())
	})

	t.Run("duplicate username aborts mid run", func(t *testing.T) {
		db.Reset()
		adminToken := newAdminToken(t)

		req, rec := newUploadRequest(t, adminToken,
			"student_id,full_name,username\n"+
				"ST-1,Jane Doe,jane\n"+
				"ST-2,Jane Again,jane\n"+
				"ST-3,John Doe,john\n")
		app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		// the first row stays written
		sts, err := rostRepo.QueryStudents(context.Background())
		if err != nil {
			t.Fatalf("QueryStudents() failed: %v", err)
		}
		assert.Len(t, sts, 1)
		assert.Equal(t, "ST-1", sts[0].StudentID)
	})

	t.Run("missing columns", func(t *testing.T) {
		req, rec := newUploadRequest(t, adminToken, "student_id,full_name\nST-9,No Username\n")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: roster.ErrMissingColumns.Error()}),
		}, rec)
	})

	t.Run("no file", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/students/upload", adminToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "a csv file upload is required"}),
		}, rec)
	})
}
