package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/mahudhurio/core/academic"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/roster"
	"github.com/trezcool/mahudhurio/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateSemester(t *testing.T, repo academic.Repository, year int, name string, start, end time.Time) academic.Semester {
	sem, err := repo.CreateSemester(context.Background(), academic.Semester{
		Year:      year,
		Name:      name,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		t.Fatalf("CreateSemester() failed: %v", err)
	}
	return sem
}

func CreateCourse(t *testing.T, repo academic.Repository, code, name string, semIDs ...int) academic.Course {
	crs, err := repo.CreateCourse(context.Background(), academic.Course{Code: code, Name: name, SemesterIDs: semIDs})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return crs
}

func CreateClass(t *testing.T, repo academic.Repository, number, courseID, semesterID, lecturerID int) academic.Class {
	cls, err := repo.CreateClass(context.Background(), academic.Class{
		Number:     number,
		CourseID:   courseID,
		SemesterID: semesterID,
		LecturerID: lecturerID,
	})
	if err != nil {
		t.Fatalf("CreateClass() failed: %v", err)
	}
	return cls
}

func CreateCollegeDay(t *testing.T, repo academic.Repository, date time.Time, classID int) academic.CollegeDay {
	day, err := repo.CreateCollegeDay(context.Background(), academic.CollegeDay{Date: date, ClassID: classID})
	if err != nil {
		t.Fatalf("CreateCollegeDay() failed: %v", err)
	}
	return day
}

func CreateLecturer(t *testing.T, repo roster.Repository, staffID, userID int, fullName string) roster.Lecturer {
	lect, err := repo.CreateLecturer(context.Background(), roster.Lecturer{
		StaffID:  staffID,
		UserID:   userID,
		FullName: fullName,
	})
	if err != nil {
		t.Fatalf("CreateLecturer() failed: %v", err)
	}
	return lect
}

func CreateStudent(t *testing.T, repo roster.Repository, studentID string, userID int, fullName string) roster.Student {
	st, err := repo.CreateStudent(context.Background(), roster.Student{
		StudentID: studentID,
		UserID:    userID,
		FullName:  fullName,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return st
}

func CreateEnrollment(t *testing.T, repo roster.Repository, studentID, classID int) roster.Enrollment {
	enr, err := repo.CreateEnrollment(context.Background(), roster.Enrollment{StudentID: studentID, ClassID: classID})
	if err != nil {
		t.Fatalf("CreateEnrollment() failed: %v", err)
	}
	return enr
}

func CreateAttendance(t *testing.T, repo attendance.Repository, enrollmentID int, date time.Time, status string) attendance.Attendance {
	rows, err := repo.CreateAttendances(context.Background(), []attendance.Attendance{
		{EnrollmentID: enrollmentID, Date: date, Status: status},
	})
	if err != nil {
		t.Fatalf("CreateAttendance() failed: %v", err)
	}
	return rows[0]
}
