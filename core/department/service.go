package department

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/shule/core"
)

var (
	// errors
	ErrNotFound    = errors.New("department not found")
	ErrNameTaken   = errors.New("a department with this name already exists")
	ErrInvalidName = errors.New("department name cannot be blank")
)

type (
	Repository interface {
		// CreateDepartment fails with ErrNameTaken when the unique name
		// constraint is violated.
		CreateDepartment(ctx context.Context, dept Department) (Department, error)
		GetDepartmentByID(ctx context.Context, id string) (Department, error)
		// GetDepartmentByName does an exact, case-sensitive match.
		GetDepartmentByName(ctx context.Context, name string) (Department, error)
		QueryAllDepartments(ctx context.Context) ([]Department, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ResolveOrCreate returns the department with the given name, creating it
// on first use. When a concurrent caller wins the create race, the unique
// constraint kicks in and the loser re-reads and returns the winner's row.
func (svc *Service) ResolveOrCreate(ctx context.Context, name string) (Department, error) {
	name = core.CleanString(name)
	if name == "" {
		return Department{}, core.NewValidationError(ErrInvalidName, core.FieldError{Field: "department", Error: ErrInvalidName.Error()})
	}

	dept, err := svc.repo.GetDepartmentByName(ctx, name)
	if err == nil {
		return dept, nil
	}
	if err != ErrNotFound {
		return Department{}, err
	}

	dept, err = svc.repo.CreateDepartment(ctx, Department{Name: name, CreatedAt: time.Now().UTC()})
	if err == ErrNameTaken {
		// lost the race; somebody else just created it
		return svc.repo.GetDepartmentByName(ctx, name)
	}
	return dept, err
}

func (svc *Service) GetByID(ctx context.Context, id string) (Department, error) {
	return svc.repo.GetDepartmentByID(ctx, id)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Department, error) {
	return svc.repo.QueryAllDepartments(ctx)
}
