package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/mahudhurio/core/academic"
)

type academicRepository struct {
	db *DB
}

var _ academic.Repository = (*academicRepository)(nil)

func NewAcademicRepository(db *DB) academic.Repository {
	return &academicRepository{db: db}
}

// Semesters

func (repo *academicRepository) CreateSemester(ctx context.Context, sem academic.Semester) (academic.Semester, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	sem.ID = repo.db.nextPK()
	repo.db.semesters[sem.ID] = &sem
	return sem, nil
}

func (repo *academicRepository) QuerySemesters(ctx context.Context) ([]academic.Semester, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	sems := make([]academic.Semester, 0, len(repo.db.semesters))
	for _, sem := range repo.db.semesters {
		sems = append(sems, *sem)
	}
	sort.Slice(sems, func(i, j int) bool { return sems[i].ID < sems[j].ID })
	return sems, nil
}

func (repo *academicRepository) GetSemesterByID(ctx context.Context, id int) (academic.Semester, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if sem, ok := repo.db.semesters[id]; ok {
		return *sem, nil
	}
	return academic.Semester{}, academic.ErrSemesterNotFound
}

func (repo *academicRepository) UpdateSemester(ctx context.Context, sem academic.Semester) (academic.Semester, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.semesters[sem.ID]; !ok {
		return academic.Semester{}, academic.ErrSemesterNotFound
	}
	repo.db.semesters[sem.ID] = &sem
	return sem, nil
}

func (repo *academicRepository) DeleteSemestersByID(ctx context.Context, ids ...int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, id := range ids {
		repo.db.deleteSemester(id)
	}
	return nil
}

// Courses

func (repo *academicRepository) CreateCourse(ctx context.Context, crs academic.Course) (academic.Course, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	crs.ID = repo.db.nextPK()
	repo.db.courses[crs.ID] = &crs
	return crs, nil
}

func (repo *academicRepository) QueryCourses(ctx context.Context) ([]academic.Course, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	crss := make([]academic.Course, 0, len(repo.db.courses))
	for _, crs := range repo.db.courses {
		crss = append(crss, *crs)
	}
	sort.Slice(crss, func(i, j int) bool { return crss[i].ID < crss[j].ID })
	return crss, nil
}

func (repo *academicRepository) GetCourseByID(ctx context.Context, id int) (academic.Course, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if crs, ok := repo.db.courses[id]; ok {
		return *crs, nil
	}
	return academic.Course{}, academic.ErrCourseNotFound
}

func (repo *academicRepository) UpdateCourse(ctx context.Context, crs academic.Course) (academic.Course, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.courses[crs.ID]; !ok {
		return academic.Course{}, academic.ErrCourseNotFound
	}
	repo.db.courses[crs.ID] = &crs
	return crs, nil
}

func (repo *academicRepository) DeleteCoursesByID(ctx context.Context, ids ...int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, id := range ids {
		repo.db.deleteCourse(id)
	}
	return nil
}

// Classes

func (repo *academicRepository) CreateClass(ctx context.Context, cls academic.Class) (academic.Class, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	cls.ID = repo.db.nextPK()
	repo.db.classes[cls.ID] = &cls
	return cls, nil
}

func (repo *academicRepository) QueryClasses(ctx context.Context) ([]academic.Class, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	clss := make([]academic.Class, 0, len(repo.db.classes))
	for _, cls := range repo.db.classes {
		clss = append(clss, *cls)
	}
	sort.Slice(clss, func(i, j int) bool { return clss[i].ID < clss[j].ID })
	return clss, nil
}

func (repo *academicRepository) GetClassByID(ctx context.Context, id int) (academic.Class, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if cls, ok := repo.db.classes[id]; ok {
		return *cls, nil
	}
	return academic.Class{}, academic.ErrClassNotFound
}

func (repo *academicRepository) UpdateClass(ctx context.Context, cls academic.Class) (academic.Class, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.classes[cls.ID]; !ok {
		return academic.Class{}, academic.ErrClassNotFound
	}
	repo.db.classes[cls.ID] = &cls
	return cls, nil
}

func (repo *academicRepository) DeleteClassesByID(ctx context.Context, ids ...int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, id := range ids {
		repo.db.deleteClass(id)
	}
	return nil
}

// College days

func (repo *academicRepository) CreateCollegeDay(ctx context.Context, day academic.CollegeDay) (academic.CollegeDay, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	day.ID = repo.db.nextPK()
	repo.db.collegeDays[day.ID] = &day
	return day, nil
}

func (repo *academicRepository) QueryCollegeDays(ctx context.Context) ([]academic.CollegeDay, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	days := make([]academic.CollegeDay, 0, len(repo.db.collegeDays))
	for _, day := range repo.db.collegeDays {
		days = append(days, *day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].ID < days[j].ID })
	return days, nil
}

func (repo *academicRepository) GetCollegeDayByID(ctx context.Context, id int) (academic.CollegeDay, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if day, ok := repo.db.collegeDays[id]; ok {
		return *day, nil
	}
	return academic.CollegeDay{}, academic.ErrCollegeDayNotFound
}

func (repo *academicRepository) UpdateCollegeDay(ctx context.Context, day academic.CollegeDay) (academic.CollegeDay, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.collegeDays[day.ID]; !ok {
		return academic.CollegeDay{}, academic.ErrCollegeDayNotFound
	}
	repo.db.collegeDays[day.ID] = &day
	return day, nil
}

func (repo *academicRepository) DeleteCollegeDaysByID(ctx context.Context, ids ...int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, id := range ids {
		delete(repo.db.collegeDays, id)
	}
	return nil
}
