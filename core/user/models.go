package user

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/shule/core"
)

// Role is the closed set of account roles. The `ROLE_` prefix is a legacy
// wire convention; normalization happens once at registration and the rest
// of the system only ever sees these canonical tags.
type Role string

const (
	RoleStudent Role = "ROLE_STUDENT"
	RoleTeacher Role = "ROLE_TEACHER"

	rolePrefix = "ROLE_"
)

var Roles = []Role{RoleStudent, RoleTeacher}

// NormalizeRole maps a caller-supplied role word ("student", "TEACHER",
// "ROLE_STUDENT"...) to its canonical tag.
func NormalizeRole(role string) (Role, error) {
	tag := strings.ToUpper(core.CleanString(role))
	if !strings.HasPrefix(tag, rolePrefix) {
		tag = rolePrefix + tag
	}
	for _, r := range Roles {
		if Role(tag) == r {
			return r, nil
		}
	}
	return "", ErrUnsupportedRole
}

// User is a login account. It carries exactly one role; the linked
// student/teacher profile lives in the profile package.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Role         Role      `json:"role"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
	LastLogin    time.Time `json:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

func (u *User) IsTeacher() bool {
	return u.Role == RoleTeacher
}

// NewUser contains information needed to register a new User.
type NewUser struct {
	Username string `json:"username" validate:"required,min=3,alphanum_"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required"`
}

func (nu *NewUser) Validate() error {
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	return core.Validate.Struct(nu)
}
