package dummydb

import (
	"sync"

	"github.com/trezcool/shule/core/course"
	"github.com/trezcool/shule/core/department"
	"github.com/trezcool/shule/core/profile"
	"github.com/trezcool/shule/core/user"
)

type (
	// DB is an in-memory storage provider for development and tests.
	DB struct {
		user       *userTable
		student    *studentTable
		teacher    *teacherTable
		department *departmentTable
		course     *courseTable
		enrollment *enrollmentTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*profile.Student
	}

	teacherTable struct {
		sync.RWMutex
		table map[string]*profile.Teacher
	}

	departmentTable struct {
		sync.RWMutex
		table map[string]*department.Department
	}

	courseTable struct {
		sync.RWMutex
		table map[string]*course.Course
	}

	// enrollmentTable holds the student<->course relation exactly once as
	// an edge set keyed by course then student. All mutations run under
	// the write lock, which makes each toggle an atomic unit.
	enrollmentTable struct {
		sync.RWMutex
		edges map[string]map[string]struct{} // courseID -> studentIDs
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:       &userTable{table: make(map[string]*user.User)},
		student:    &studentTable{table: make(map[string]*profile.Student)},
		teacher:    &teacherTable{table: make(map[string]*profile.Teacher)},
		department: &departmentTable{table: make(map[string]*department.Department)},
		course:     &courseTable{table: make(map[string]*course.Course)},
		enrollment: &enrollmentTable{edges: make(map[string]map[string]struct{})},
	}
	return db, nil
}
