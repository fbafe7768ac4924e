package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core/course"
)

type courseRepository struct {
	db *DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) CreateCourse(_ context.Context, crs course.Course) (course.Course, error) {
	repo.db.course.Lock()
	defer repo.db.course.Unlock()

	crs.ID = uuid.New().String()
	repo.db.course.table[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) QueryAllCourses(_ context.Context) ([]course.Course, error) {
	repo.db.course.RLock()
	defer repo.db.course.RUnlock()

	courses := make([]course.Course, 0, len(repo.db.course.table))
	for _, crs := range repo.db.course.table {
		courses = append(courses, *crs)
	}
	return courses, nil
}

func (repo *courseRepository) GetCourseByID(_ context.Context, id string) (course.Course, error) {
	repo.db.course.RLock()
	defer repo.db.course.RUnlock()

	if crs, ok := repo.db.course.table[id]; ok {
		return *crs, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) UpdateCourse(_ context.Context, crs course.Course) (course.Course, error) {
	repo.db.course.Lock()
	defer repo.db.course.Unlock()

	if _, ok := repo.db.course.table[crs.ID]; !ok {
		return course.Course{}, course.ErrNotFound
	}
	repo.db.course.table[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) DeleteCoursesByID(_ context.Context, ids ...string) error {
	repo.db.course.Lock()
	defer repo.db.course.Unlock()
	repo.db.enrollment.Lock()
	defer repo.db.enrollment.Unlock()

	for _, id := range ids {
		delete(repo.db.course.table, id)
		delete(repo.db.enrollment.edges, id)
	}
	return nil
}

// ToggleEnrollment flips the (course, student) edge under the write lock;
// the presence check and the mutation see the same snapshot.
func (repo *courseRepository) ToggleEnrollment(_ context.Context, courseID, studentID string) (course.EnrollmentState, error) {
	repo.db.enrollment.Lock()
	defer repo.db.enrollment.Unlock()

	students, ok := repo.db.enrollment.edges[courseID]
	if !ok {
		students = make(map[string]struct{})
		repo.db.enrollment.edges[courseID] = students
	}

	if _, enrolled := students[studentID]; enrolled {
		delete(students, studentID)
		return course.Unenrolled, nil
	}
	students[studentID] = struct{}{}
	return course.Enrolled, nil
}

func (repo *courseRepository) CourseIDsForStudent(_ context.Context, studentID string) ([]string, error) {
	repo.db.enrollment.RLock()
	defer repo.db.enrollment.RUnlock()

	ids := make([]string, 0)
	for courseID, students := range repo.db.enrollment.edges {
		if _, ok := students[studentID]; ok {
			ids = append(ids, courseID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (repo *courseRepository) StudentIDsForCourse(_ context.Context, courseID string) ([]string, error) {
	repo.db.enrollment.RLock()
	defer repo.db.enrollment.RUnlock()

	ids := make([]string, 0, len(repo.db.enrollment.edges[courseID]))
	for studentID := range repo.db.enrollment.edges[courseID] {
		ids = append(ids, studentID)
	}
	sort.Strings(ids)
	return ids, nil
}
