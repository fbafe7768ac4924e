package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core/profile"
)

type studentRepository struct {
	db *DB
}

var _ profile.StudentRepository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) profile.StudentRepository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CreateStudent(_ context.Context, std profile.Student) (profile.Student, error) {
	repo.db.student.Lock()
	defer repo.db.student.Unlock()

	std.ID = uuid.New().String()
	repo.db.student.table[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) QueryAllStudents(_ context.Context) ([]profile.Student, error) {
	repo.db.student.RLock()
	defer repo.db.student.RUnlock()

	students := make([]profile.Student, 0, len(repo.db.student.table))
	for _, std := range repo.db.student.table {
		students = append(students, *std)
	}
	return students, nil
}

func (repo *studentRepository) GetStudentByID(_ context.Context, id string) (profile.Student, error) {
	repo.db.student.RLock()
	defer repo.db.student.RUnlock()

	if std, ok := repo.db.student.table[id]; ok {
		return *std, nil
	}
	return profile.Student{}, profile.ErrStudentNotFound
}

func (repo *studentRepository) GetStudentByUserID(_ context.Context, userID string) (profile.Student, error) {
	repo.db.student.RLock()
	defer repo.db.student.RUnlock()

	for _, std := range repo.db.student.table {
		if std.UserID != "" && std.UserID == userID {
			return *std, nil
		}
	}
	return profile.Student{}, profile.ErrStudentNotFound
}

func (repo *studentRepository) UpdateStudent(_ context.Context, std profile.Student) (profile.Student, error) {
	repo.db.student.Lock()
	defer repo.db.student.Unlock()

	if _, ok := repo.db.student.table[std.ID]; !ok {
		return profile.Student{}, profile.ErrStudentNotFound
	}
	repo.db.student.table[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) DeleteStudentsByID(_ context.Context, ids ...string) error {
	repo.db.student.Lock()
	defer repo.db.student.Unlock()
	repo.db.enrollment.Lock()
	defer repo.db.enrollment.Unlock()

	for _, id := range ids {
		delete(repo.db.student.table, id)
		// no stale half-links: drop the students' enrollment edges too
		for courseID := range repo.db.enrollment.edges {
			delete(repo.db.enrollment.edges[courseID], id)
		}
	}
	return nil
}

type teacherRepository struct {
	db *teacherTable
}

var _ profile.TeacherRepository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *DB) profile.TeacherRepository {
	return &teacherRepository{db: db.teacher}
}

func (repo *teacherRepository) CreateTeacher(_ context.Context, tch profile.Teacher) (profile.Teacher, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	tch.ID = uuid.New().String()
	repo.db.table[tch.ID] = &tch
	return tch, nil
}

func (repo *teacherRepository) QueryAllTeachers(_ context.Context) ([]profile.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	teachers := make([]profile.Teacher, 0, len(repo.db.table))
	for _, tch := range repo.db.table {
		teachers = append(teachers, *tch)
	}
	return teachers, nil
}

func (repo *teacherRepository) GetTeacherByID(_ context.Context, id string) (profile.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if tch, ok := repo.db.table[id]; ok {
		return *tch, nil
	}
	return profile.Teacher{}, profile.ErrTeacherNotFound
}

func (repo *teacherRepository) GetTeacherByUserID(_ context.Context, userID string) (profile.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, tch := range repo.db.table {
		if tch.UserID != "" && tch.UserID == userID {
			return *tch, nil
		}
	}
	return profile.Teacher{}, profile.ErrTeacherNotFound
}
