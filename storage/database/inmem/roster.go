package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/mahudhurio/core/roster"
)

type rosterRepository struct {
	db *DB
}

var _ roster.Repository = (*rosterRepository)(nil)

func NewRosterRepository(db *DB) roster.Repository {
	return &rosterRepository{db: db}
}

// Lecturers

func (repo *rosterRepository) CheckStaffIDUniqueness(ctx context.Context, staffID int, excluded ...roster.Lecturer) error {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, lect := range repo.db.lecturers {
		if lect.StaffID != staffID {
			continue
		}
		var excl bool
		for _, ex := range excluded {
			if ex.ID == lect.ID {
				excl = true
			}
		}
		if !excl {
			return roster.ErrStaffIDExists
		}
	}
	return nil
}

func (repo *rosterRepository) CreateLecturer(ctx context.Context, lect roster.Lecturer) (roster.Lecturer, error) {
	if err := repo.CheckStaffIDUniqueness(ctx, lect.StaffID); err != nil {
		return roster.Lecturer{}, err
	}

	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	lect.ID = repo.db.nextPK()
	repo.db.lecturers[lect.ID] = &lect
	return lect, nil
}

func (repo *rosterRepository) QueryLecturers(ctx context.Context) ([]roster.Lecturer, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	lects := make([]roster.Lecturer, 0, len(repo.db.lecturers))
	for _, lect := range repo.db.lecturers {
		lects = append(lects, *lect)
	}
	sort.Slice(lects, func(i, j int) bool { return lects[i].ID < lects[j].ID })
	return lects, nil
}

func (repo *rosterRepository) GetLecturerByID(ctx context.Context, id int) (roster.Lecturer, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if lect, ok := repo.db.lecturers[id]; ok {
		return *lect, nil
	}
	return roster.Lecturer{}, roster.ErrLecturerNotFound
}

func (repo *rosterRepository) UpdateLecturer(ctx context.Context, lect roster.Lecturer) (roster.Lecturer, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.lecturers[lect.ID]; !ok {
		return roster.Lecturer{}, roster.ErrLecturerNotFound
	}
	repo.db.lecturers[lect.ID] = &lect
	return lect, nil
}

// Students

func (repo *rosterRepository) CheckStudentIDUniqueness(ctx context.Context, studentID string, excluded ...roster.Student) error {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, st := range repo.db.students {
		if st.StudentID != studentID {
			continue
		}
		var excl bool
		for _, ex := range excluded {
			if ex.ID == st.ID {
				excl = true
			}
		}
		if !excl {
			return roster.ErrStudentIDExists
		}
	}
	return nil
}

func (repo *rosterRepository) CreateStudent(ctx context.Context, st roster.Student) (roster.Student, error) {
	if err := repo.CheckStudentIDUniqueness(ctx, st.StudentID); err != nil {
		return roster.Student{}, err
	}

	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	st.ID = repo.db.nextPK()
	repo.db.students[st.ID] = &st
	return st, nil
}

func (repo *rosterRepository) QueryStudents(ctx context.Context) ([]roster.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	sts := make([]roster.Student, 0, len(repo.db.students))
	for _, st := range repo.db.students {
		sts = append(sts, *st)
	}
	sort.Slice(sts, func(i, j int) bool { return sts[i].ID < sts[j].ID })
	return sts, nil
}

func (repo *rosterRepository) GetStudentByID(ctx context.Context, id int) (roster.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if st, ok := repo.db.students[id]; ok {
		return *st, nil
	}
	return roster.Student{}, roster.ErrStudentNotFound
}

func (repo *rosterRepository) GetStudentByUserID(ctx context.Context, userID int) (roster.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, st := range repo.db.students {
		if st.UserID == userID {
			return *st, nil
		}
	}
	return roster.Student{}, roster.ErrStudentNotFound
}

func (repo *rosterRepository) UpdateStudent(ctx context.Context, st roster.Student) (roster.Student, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.students[st.ID]; !ok {
		return roster.Student{}, roster.ErrStudentNotFound
	}
	repo.db.students[st.ID] = &st
	return st, nil
}

// Enrollments

func (repo *rosterRepository) CreateEnrollment(ctx context.Context, enr roster.Enrollment) (roster.Enrollment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	enr.ID = repo.db.nextPK()
	repo.db.enrollments[enr.ID] = &enr
	return enr, nil
}

func (repo *rosterRepository) QueryEnrollments(ctx context.Context) ([]roster.Enrollment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	enrs := make([]roster.Enrollment, 0, len(repo.db.enrollments))
	for _, enr := range repo.db.enrollments {
		enrs = append(enrs, *enr)
	}
	sort.Slice(enrs, func(i, j int) bool { return enrs[i].ID < enrs[j].ID })
	return enrs, nil
}

func (repo *rosterRepository) GetEnrollmentByID(ctx context.Context, id int) (roster.Enrollment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if enr, ok := repo.db.enrollments[id]; ok {
		return *enr, nil
	}
	return roster.Enrollment{}, roster.ErrEnrollmentNotFound
}

func (repo *rosterRepository) UpdateEnrollment(ctx context.Context, enr roster.Enrollment) (roster.Enrollment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.enrollments[enr.ID]; !ok {
		return roster.Enrollment{}, roster.ErrEnrollmentNotFound
	}
	repo.db.enrollments[enr.ID] = &enr
	return enr, nil
}

func (repo *rosterRepository) DeleteEnrollmentsByID(ctx context.Context, ids ...int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, id := range ids {
		repo.db.deleteEnrollment(id)
	}
	return nil
}

func (repo *rosterRepository) QueryClassEnrollments(ctx context.Context, classID int) ([]roster.ClassEnrollment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	entries := make([]roster.ClassEnrollment, 0)
	for _, enr := range repo.db.enrollments {
		if enr.ClassID != classID {
			continue
		}
		st, ok := repo.db.students[enr.StudentID]
		if !ok {
			continue
		}
		entries = append(entries, roster.ClassEnrollment{
			EnrollmentID: enr.ID,
			StudentName:  st.FullName,
			StudentID:    st.StudentID,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].StudentName != entries[j].StudentName {
			return entries[i].StudentName < entries[j].StudentName
		}
		return entries[i].EnrollmentID < entries[j].EnrollmentID
	})
	return entries, nil
}
