package user

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/shule/core"
)

var (
	// errors
	ErrNotFound             = errors.New("user not found")
	ErrUsernameTaken        = errors.New("a user with this username already exists")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrUnsupportedRole      = errors.New("unsupported role")

	// compared against on unknown usernames so that Authenticate costs the
	// same whether the account exists or not
	dummyPasswordHash, _ = bcrypt.GenerateFromPassword([]byte("!nomatch"), bcrypt.DefaultCost)
)

type (
	Repository interface {
		CheckUsernameUniqueness(ctx context.Context, username string) error
		CreateUser(ctx context.Context, usr User) (User, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByUsername(ctx context.Context, username string) (User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a new account with a canonical role tag and a hashed
// secret. The raw secret is neither stored nor logged.
func (svc *Service) Register(ctx context.Context, nu NewUser) (User, error) {
	role, err := NormalizeRole(nu.Role)
	if err != nil {
		return User{}, core.NewValidationError(err, core.FieldError{Field: "role", Error: err.Error()})
	}
	if err := svc.repo.CheckUsernameUniqueness(ctx, nu.Username); err != nil {
		if err == ErrUsernameTaken {
			return User{}, core.NewValidationError(err, core.FieldError{Field: "username", Error: err.Error()})
		}
		return User{}, err
	}

	now := time.Now().UTC()
	usr := User{
		Username:  nu.Username,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	return svc.repo.CreateUser(ctx, usr)
}

// Authenticate checks the given credentials. It fails with
// ErrAuthenticationFailed on both unknown usernames and wrong passwords;
// callers can never tell the two cases apart.
func (svc *Service) Authenticate(ctx context.Context, uname, pwd string) (User, error) {
	usr, err := svc.repo.GetUserByUsername(ctx, core.CleanString(uname, true /* lower */))
	if err != nil {
		if err == ErrNotFound {
			_ = bcrypt.CompareHashAndPassword(dummyPasswordHash, []byte(pwd))
			return User{}, ErrAuthenticationFailed
		}
		return User{}, err
	}
	if err := usr.CheckPassword(pwd); err != nil {
		return User{}, ErrAuthenticationFailed
	}
	return usr, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByUsername(ctx context.Context, uname string) (User, error) {
	return svc.repo.GetUserByUsername(ctx, core.CleanString(uname, true /* lower */))
}

func (svc *Service) SetLastLogin(ctx context.Context, usr User) (User, error) {
	usr.LastLogin = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

// ResetPassword replaces a user's password; used by the admin CLI.
func (svc *Service) ResetPassword(ctx context.Context, uname, pwd string) (User, error) {
	usr, err := svc.GetByUsername(ctx, uname)
	if err != nil {
		return User{}, err
	}
	if err := usr.SetPassword(pwd); err != nil {
		return User{}, err
	}
	usr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}
