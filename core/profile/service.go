package profile

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/shule/core/department"
)

var (
	// errors
	ErrStudentNotFound     = errors.New("student not found")
	ErrTeacherNotFound     = errors.New("teacher not found")
	ErrProfileAlreadyBound = errors.New("account already has a profile")
)

type (
	StudentRepository interface {
		CreateStudent(ctx context.Context, std Student) (Student, error)
		QueryAllStudents(ctx context.Context) ([]Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		GetStudentByUserID(ctx context.Context, userID string) (Student, error)
		UpdateStudent(ctx context.Context, std Student) (Student, error)
		// DeleteStudentsByID also removes the students' enrollment edges;
		// linked accounts are left untouched.
		DeleteStudentsByID(ctx context.Context, ids ...string) error
	}

	TeacherRepository interface {
		CreateTeacher(ctx context.Context, tch Teacher) (Teacher, error)
		QueryAllTeachers(ctx context.Context) ([]Teacher, error)
		GetTeacherByID(ctx context.Context, id string) (Teacher, error)
		GetTeacherByUserID(ctx context.Context, userID string) (Teacher, error)
	}

	// DepartmentResolver lazily finds-or-creates departments by name.
	DepartmentResolver interface {
		ResolveOrCreate(ctx context.Context, name string) (department.Department, error)
	}

	Service struct {
		students StudentRepository
		teachers TeacherRepository
		depts    DepartmentResolver
	}
)

func NewService(students StudentRepository, teachers TeacherRepository, depts DepartmentResolver) *Service {
	return &Service{
		students: students,
		teachers: teachers,
		depts:    depts,
	}
}

func (svc *Service) CreateStudent(ctx context.Context, ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	std := Student{
		Name:      ns.Name,
		Email:     ns.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if ns.Department != "" {
		dept, err := svc.depts.ResolveOrCreate(ctx, ns.Department)
		if err != nil {
			return Student{}, err
		}
		std.DepartmentID = dept.ID
	}
	return svc.students.CreateStudent(ctx, std)
}

func (svc *Service) UpdateStudent(ctx context.Context, id string, us UpdateStudent) (Student, error) {
	std, err := svc.students.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	if err := us.Validate(std); err != nil {
		return Student{}, err
	}

	std.Name = us.Name
	std.Email = us.Email
	if us.Department != "" {
		dept, err := svc.depts.ResolveOrCreate(ctx, us.Department)
		if err != nil {
			return Student{}, err
		}
		std.DepartmentID = dept.ID
	}
	std.UpdatedAt = time.Now().UTC()
	return svc.students.UpdateStudent(ctx, std)
}

func (svc *Service) QueryAllStudents(ctx context.Context) ([]Student, error) {
	return svc.students.QueryAllStudents(ctx)
}

func (svc *Service) GetStudent(ctx context.Context, id string) (Student, error) {
	return svc.students.GetStudentByID(ctx, id)
}

func (svc *Service) GetStudentByUserID(ctx context.Context, userID string) (Student, error) {
	return svc.students.GetStudentByUserID(ctx, userID)
}

func (svc *Service) DeleteStudents(ctx context.Context, ids ...string) error {
	return svc.students.DeleteStudentsByID(ctx, ids...)
}

func (svc *Service) QueryAllTeachers(ctx context.Context) ([]Teacher, error) {
	return svc.teachers.QueryAllTeachers(ctx)
}

func (svc *Service) GetTeacher(ctx context.Context, id string) (Teacher, error) {
	return svc.teachers.GetTeacherByID(ctx, id)
}

func (svc *Service) GetTeacherByUserID(ctx context.Context, userID string) (Teacher, error) {
	return svc.teachers.GetTeacherByUserID(ctx, userID)
}
