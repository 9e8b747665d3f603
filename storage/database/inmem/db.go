// Package inmemdb provides map-backed repositories for tests. Foreign
// key cascades are applied explicitly so deletions behave like the
// PostgreSQL schema.
package inmemdb

import (
	"sync"

	"github.com/trezcool/mahudhurio/core/academic"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/roster"
	"github.com/trezcool/mahudhurio/core/user"
)

type DB struct {
	mu sync.RWMutex

	users       map[int]*user.User
	semesters   map[int]*academic.Semester
	courses     map[int]*academic.Course
	classes     map[int]*academic.Class
	collegeDays map[int]*academic.CollegeDay
	lecturers   map[int]*roster.Lecturer
	students    map[int]*roster.Student
	enrollments map[int]*roster.Enrollment
	attendances map[int]*attendance.Attendance

	pkCount int
}

func NewDB() *DB {
	db := new(DB)
	db.reset()
	return db
}

// Reset drops all rows; pk numbering continues.
func (db *DB) Reset() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.reset()
}

func (db *DB) reset() {
	db.users = make(map[int]*user.User)
	db.semesters = make(map[int]*academic.Semester)
	db.courses = make(map[int]*academic.Course)
	db.classes = make(map[int]*academic.Class)
	db.collegeDays = make(map[int]*academic.CollegeDay)
	db.lecturers = make(map[int]*roster.Lecturer)
	db.students = make(map[int]*roster.Student)
	db.enrollments = make(map[int]*roster.Enrollment)
	db.attendances = make(map[int]*attendance.Attendance)
}

func (db *DB) nextPK() int {
	db.pkCount++
	return db.pkCount
}

// cascades; callers hold db.mu

func (db *DB) deleteEnrollment(id int) {
	for attID, att := range db.attendances {
		if att.EnrollmentID == id {
			delete(db.attendances, attID)
		}
	}
	delete(db.enrollments, id)
}

func (db *DB) deleteClass(id int) {
	for enrID, enr := range db.enrollments {
		if enr.ClassID == id {
			db.deleteEnrollment(enrID)
		}
	}
	for dayID, day := range db.collegeDays {
		if day.ClassID == id {
			delete(db.collegeDays, dayID)
		}
	}
	delete(db.classes, id)
}

func (db *DB) deleteLecturer(id int) {
	for clsID, cls := range db.classes {
		if cls.LecturerID == id {
			db.deleteClass(clsID)
		}
	}
	delete(db.lecturers, id)
}

func (db *DB) deleteStudent(id int) {
	for enrID, enr := range db.enrollments {
		if enr.StudentID == id {
			db.deleteEnrollment(enrID)
		}
	}
	delete(db.students, id)
}

func (db *DB) deleteUser(id int) {
	for lectID, lect := range db.lecturers {
		if lect.UserID == id {
			db.deleteLecturer(lectID)
		}
	}
	for stID, st := range db.students {
		if st.UserID == id {
			db.deleteStudent(stID)
		}
	}
	delete(db.users, id)
}

func (db *DB) deleteSemester(id int) {
	for clsID, cls := range db.classes {
		if cls.SemesterID == id {
			db.deleteClass(clsID)
		}
	}
	for _, crs := range db.courses {
		semIDs := crs.SemesterIDs[:0]
		for _, semID := range crs.SemesterIDs {
			if semID != id {
				semIDs = append(semIDs, semID)
			}
		}
		crs.SemesterIDs = semIDs
	}
	delete(db.semesters, id)
}

func (db *DB) deleteCourse(id int) {
	for clsID, cls := range db.classes {
		if cls.CourseID == id {
			db.deleteClass(clsID)
		}
	}
	delete(db.courses, id)
}
