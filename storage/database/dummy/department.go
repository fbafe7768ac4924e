package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core/department"
)

type departmentRepository struct {
	db *departmentTable
}

var _ department.Repository = (*departmentRepository)(nil) // interface compliance check

func NewDepartmentRepository(db *DB) department.Repository {
	return &departmentRepository{db: db.department}
}

func (repo *departmentRepository) CreateDepartment(_ context.Context, dept department.Department) (department.Department, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// unique name constraint; exact, case-sensitive
	for _, d := range repo.db.table {
		if d.Name == dept.Name {
			return department.Department{}, department.ErrNameTaken
		}
	}
	dept.ID = uuid.New().String()
	repo.db.table[dept.ID] = &dept
	return dept, nil
}

func (repo *departmentRepository) GetDepartmentByID(_ context.Context, id string) (department.Department, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if dept, ok := repo.db.table[id]; ok {
		return *dept, nil
	}
	return department.Department{}, department.ErrNotFound
}

func (repo *departmentRepository) GetDepartmentByName(_ context.Context, name string) (department.Department, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, dept := range repo.db.table {
		if dept.Name == name {
			return *dept, nil
		}
	}
	return department.Department{}, department.ErrNotFound
}

func (repo *departmentRepository) QueryAllDepartments(_ context.Context) ([]department.Department, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	depts := make([]department.Department, 0, len(repo.db.table))
	for _, dept := range repo.db.table {
		depts = append(depts, *dept)
	}
	return depts, nil
}
