package profile

import (
	"time"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
)

// Profile is the role-specific record linked 1:1 to a login account.
// Implemented by Student and Teacher.
type Profile interface {
	ProfileID() string
	AccountID() string
	Kind() user.Role
}

// Student describes a person enrolled in courses. UserID links the profile
// to its login account; it is empty for roster-only students created by a
// teacher without a login.
type Student struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	DepartmentID string    `json:"department_id,omitempty"`
	UserID       string    `json:"user_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

func (s Student) ProfileID() string { return s.ID }
func (s Student) AccountID() string { return s.UserID }
func (s Student) Kind() user.Role   { return user.RoleStudent }

// Teacher describes a member of staff. Courses taught reference the
// teacher from the course side.
type Teacher struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	DepartmentID string    `json:"department_id,omitempty"`
	UserID       string    `json:"user_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

func (t Teacher) ProfileID() string { return t.ID }
func (t Teacher) AccountID() string { return t.UserID }
func (t Teacher) Kind() user.Role   { return user.RoleTeacher }

// NewStudent contains information needed to create a Student from the
// roster screens (as opposed to registration, which goes through Binder).
type NewStudent struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Department string `json:"department" validate:"omitempty"`
}

func (ns *NewStudent) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Department = core.CleanString(ns.Department)
	return core.Validate.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify an
// existing Student.
type UpdateStudent struct {
	Name       string `json:"name" validate:"omitempty"`
	Email      string `json:"email" validate:"omitempty,email"`
	Department string `json:"department" validate:"omitempty"`
}

func (us *UpdateStudent) Validate(origStd Student) error {
	name := core.CleanString(us.Name)
	if name != "" {
		us.Name = name
	} else {
		us.Name = origStd.Name
	}

	email := core.CleanString(us.Email, true /* lower */)
	if email != "" {
		us.Email = email
	} else {
		us.Email = origStd.Email
	}

	us.Department = core.CleanString(us.Department)
	return core.Validate.Struct(us)
}
