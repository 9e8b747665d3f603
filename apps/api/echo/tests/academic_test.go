package tests

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/mahudhurio/core/academic"
	"github.com/trezcool/mahudhurio/core/user"
	testutil "github.com/trezcool/mahudhurio/tests"
)

var errNotFound = httpErr{Error: "not found"}

func newAdminToken(t *testing.T) string {
	t.Helper()
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin", "admin@test.cd", "s3cr3t", user.AdminRoles, true)
	return getToken(t, admin)
}

func Test_academicApi_accessControl(t *testing.T) {
	app := setup(t)

	student := testutil.CreateUser(t, usrRepo, "Student", "stud", "stud@test.cd", "s3cr3t", user.StudentRoles, true)
	studentToken := getToken(t, student)

	for _, path := range []string{"/v1/semesters", "/v1/courses", "/v1/classes", "/v1/college-days"} {
		t.Run(path, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, path)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)

			req, rec = newAuthRequest(http.MethodGet, path, studentToken)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
		})
	}
}

func Test_academicApi_semesters(t *testing.T) {
	app := setup(t)
	adminToken := newAdminToken(t)

	t.Run("create", func(t *testing.T) {
		body := marchallObj(t, academic.NewSemester{
			Year: 2026, Name: "Fall", StartDate: "2026-09-01", EndDate: "2026-12-18",
		})
		req, rec := newAuthRequest(http.MethodPost, "/v1/semesters", adminToken, body)
		app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var sem academic.Semester
		if err := json.Unmarshal(rec.Body.Bytes(), &sem); err != nil {
			t.Fatalf("unmarshalling Semester: %v", err)
		}
		assert.NotZero(t, sem.ID)
		assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), sem.StartDate)
		assert.Equal(t, time.Date(2026, 12, 18, 0, 0, 0, 0, time.UTC), sem.EndDate)
	})

	t.Run("end before start accepted", func(t *testing.T) {
		body := marchallObj(t, academic.NewSemester{
			Year: 2026, Name: "Odd", StartDate: "2026-12-18", EndDate: "2026-09-01",
		})
		req, rec := newAuthRequest(http.MethodPost, "/v1/semesters", adminToken, body)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("bad date format", func(t *testing.T) {
		body := marchallObj(t, academic.NewSemester{
			Year: 2026, Name: "Bad", StartDate: "01/09/2026", EndDate: "2026-12-18",
		})
		req, rec := newAuthRequest(http.MethodPost, "/v1/semesters", adminToken, body)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "start_date")
	})

	t.Run("missing fields", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/semesters", adminToken, []byte("{}"))
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "year")
	})

	t.Run("retrieve update destroy", func(t *testing.T) {
		sem := testutil.CreateSemester(t, acadRepo, 2026, "Spring",
			time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC), time.Date(2026, 5, 22, 0, 0, 0, 0, time.UTC))

		req, rec := newAuthRequest(http.MethodGet, "/v1/semesters/"+itoa(sem.ID), adminToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, sem)}, rec)

		body := marchallObj(t, academic.NewSemester{
			Year: 2027, Name: "Spring", StartDate: "2027-01-11", EndDate: "2027-05-21",
		})
		req, rec = newAuthRequest(http.MethodPut, "/v1/semesters/"+itoa(sem.ID), adminToken, body)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		var updated academic.Semester
		if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
			t.Fatalf("unmarshalling Semester: %v", err)
		}
		assert.Equal(t, sem.ID, updated.ID)
		assert.Equal(t, 2027, updated.Year)

		req, rec = newAuthRequest(http.MethodDelete, "/v1/semesters/"+itoa(sem.ID), adminToken)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		req, rec = newAuthRequest(http.MethodGet, "/v1/semesters/"+itoa(sem.ID), adminToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)
	})

	t.Run("unknown id", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/semesters/12345", adminToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)
	})
}

func Test_academicApi_courses(t *testing.T) {
	app := setup(t)
	adminToken := newAdminToken(t)

	sem1 := testutil.CreateSemester(t, acadRepo, 2026, "Fall",
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 12, 18, 0, 0, 0, 0, time.UTC))
	sem2 := testutil.CreateSemester(t, acadRepo, 2027, "Spring",
		time.Date(2027, 1, 11, 0, 0, 0, 0, time.UTC), time.Date(2027, 5, 21, 0, 0, 0, 0, time.UTC))

	var crs academic.Course

	t.Run("create with semesters", func(t *testing.T) {
		body := marchallObj(t, academic.NewCourse{Code: "CS101", Name: "Intro to CS", SemesterIDs: []int{sem1.ID}})
		req, rec := newAuthRequest(http.MethodPost, "/v1/courses", adminToken, body)
		app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		if err := json.Unmarshal(rec.Body.Bytes(), &crs); err != nil {
			t.Fatalf("unmarshalling Course: %v", err)
		}
		assert.NotZero(t, crs.ID)
		assert.Equal(t, []int{sem1.ID}, crs.SemesterIDs)
	})

	t.Run("update replaces semester set", func(t *testing.T) {
		body := marchallObj(t, academic.NewCourse{Code: "CS101", Name: "Intro to CS", SemesterIDs: []int{sem2.ID}})
		req, rec := newAuthRequest(http.MethodPut, "/v1/courses/"+itoa(crs.ID), adminToken, body)
		app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var updated academic.Course
		if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
			t.Fatalf("unmarshalling Course: %v", err)
		}
		assert.Equal(t, []int{sem2.ID}, updated.SemesterIDs)
	})

	t.Run("destroy", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/courses/"+itoa(crs.ID), adminToken)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func Test_academicApi_classes(t *testing.T) {
	app := setup(t)
	adminToken := newAdminToken(t)

	sem := testutil.CreateSemester(t, acadRepo, 2026, "Fall",
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 12, 18, 0, 0, 0, 0, time.UTC))
	crs := testutil.CreateCourse(t, acadRepo, "CS101", "Intro to CS", sem.ID)

	lectUsr := testutil.CreateUser(t, usrRepo, "Lecturer", "lect", "lect@test.cd", "s3cr3t", user.LecturerRoles, true)
	lect := testutil.CreateLecturer(t, rostRepo, 1001, lectUsr.ID, "Dr. Lect")
	lectUsr2 := testutil.CreateUser(t, usrRepo, "Lecturer 2", "lect2", "lect2@test.cd", "s3cr3t", user.LecturerRoles, true)
	lect2 := testutil.CreateLecturer(t, rostRepo, 1002, lectUsr2.ID, "Dr. Lect Two")

	var cls academic.Class

	t.Run("create", func(t *testing.T) {
		body := marchallObj(t, academic.NewClass{Number: 1, CourseID: crs.ID, SemesterID: sem.ID, LecturerID: lect.ID})
		req, rec := newAuthRequest(http.MethodPost, "/v1/classes", adminToken, body)
		app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		if err := json.Unmarshal(rec.Body.Bytes(), &cls); err != nil {
			t.Fatalf("unmarshalling Class: %v", err)
		}
		assert.NotZero(t, cls.ID)
		assert.Equal(t, lect.ID, cls.LecturerID)
	})

	t.Run("assign lecturer", func(t *testing.T) {
		body := marchallObj(t, academic.AssignLecturer{LecturerID: lect2.ID})
		req, rec := newAuthRequest(http.MethodPut, "/v1/classes/"+itoa(cls.ID)+"/lecturer", adminToken, body)
		app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var updated academic.Class
		if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
			t.Fatalf("unmarshalling Class: %v", err)
		}
		assert.Equal(t, lect2.ID, updated.LecturerID)
		assert.Equal(t, cls.Number, updated.Number) // other fields untouched
	})

	t.Run("assign lecturer to unknown class", func(t *testing.T) {
		body := marchallObj(t, academic.AssignLecturer{LecturerID: lect.ID})
		req, rec := newAuthRequest(http.MethodPut, "/v1/classes/12345/lecturer", adminToken, body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)
	})

	t.Run("destroy cascades enrollments and ledger", func(t *testing.T) {
		stUsr := testutil.CreateUser(t, usrRepo, "Student", "stud", "stud@test.cd", "s3cr3t", user.StudentRoles, true)
		st := testutil.CreateStudent(t, rostRepo, "ST-1", stUsr.ID, "A Student")
		enr := testutil.CreateEnrollment(t, rostRepo, st.ID, cls.ID)
		testutil.CreateAttendance(t, attRepo, enr.ID,
			time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), "Present")

		req, rec := newAuthRequest(http.MethodDelete, "/v1/classes/"+itoa(cls.ID), adminToken)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		req, rec = newAuthRequest(http.MethodGet, "/v1/enrollments/"+itoa(enr.ID), adminToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)

		rows, err := attRepo.QueryStudentAttendance(req.Context(), st.ID)
		if err != nil {
			t.Fatalf("QueryStudentAttendance() failed: %v", err)
		}
		assert.Empty(t, rows)
	})
}

func Test_academicApi_collegeDays(t *testing.T) {
	app := setup(t)
	adminToken := newAdminToken(t)

	sem := testutil.CreateSemester(t, acadRepo, 2026, "Fall",
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 12, 18, 0, 0, 0, 0, time.UTC))
	crs := testutil.CreateCourse(t, acadRepo, "CS101", "Intro to CS", sem.ID)
	lectUsr := testutil.CreateUser(t, usrRepo, "Lecturer", "lect", "lect@test.cd", "s3cr3t", user.LecturerRoles, true)
	lect := testutil.CreateLecturer(t, rostRepo, 1001, lectUsr.ID, "Dr. Lect")
	cls := testutil.CreateClass(t, acadRepo, 1, crs.ID, sem.ID, lect.ID)

	var day academic.CollegeDay

	t.Run("create", func(t *testing.T) {
		body := marchallObj(t, academic.NewCollegeDay{Date: "2026-09-07", ClassID: cls.ID})
		req, rec := newAuthRequest(http.MethodPost, "/v1/college-days", adminToken, body)
		app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		if err := json.Unmarshal(rec.Body.Bytes(), &day); err != nil {
			t.Fatalf("unmarshalling CollegeDay: %v", err)
		}
		assert.Equal(t, time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), day.Date)
	})

	t.Run("query", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/college-days", adminToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, day)}, rec)
	})

	t.Run("update", func(t *testing.T) {
		body := marchallObj(t, academic.NewCollegeDay{Date: "2026-09-14", ClassID: cls.ID})
		req, rec := newAuthRequest(http.MethodPut, "/v1/college-days/"+itoa(day.ID), adminToken, body)
		app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var updated academic.CollegeDay
		if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
			t.Fatalf("unmarshalling CollegeDay: %v", err)
		}
		assert.Equal(t, time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC), updated.Date)
	})

	t.Run("destroy", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/college-days/"+itoa(day.ID), adminToken)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
