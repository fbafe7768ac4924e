package profile

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
)

const placeholderEmailDomain = "example.com"

// Binder creates the role-specific profile for a freshly registered
// account and links it 1:1. Registration and binding are logically one
// transaction: the boundary calls Register then Bind and surfaces any
// failure as a failed registration.
type Binder struct {
	students StudentRepository
	teachers TeacherRepository
	mailSvc  core.EmailService
}

func NewBinder(students StudentRepository, teachers TeacherRepository, mailSvc core.EmailService) *Binder {
	return &Binder{
		students: students,
		teachers: teachers,
		mailSvc:  mailSvc,
	}
}

// Bind creates the profile matching usr's role. Name defaults to the
// username and email to a placeholder when none was supplied at
// registration. Fails with ErrProfileAlreadyBound if the account already
// has a profile of its role.
func (b *Binder) Bind(ctx context.Context, usr user.User, email string) (Profile, error) {
	if email == "" {
		email = usr.Username + "@" + placeholderEmailDomain
	}
	now := time.Now().UTC()

	var prof Profile
	switch usr.Role {
	case user.RoleStudent:
		if _, err := b.students.GetStudentByUserID(ctx, usr.ID); err == nil {
			return nil, ErrProfileAlreadyBound
		} else if err != ErrStudentNotFound {
			return nil, err
		}
		std, err := b.students.CreateStudent(ctx, Student{
			Name:      usr.Username,
			Email:     email,
			UserID:    usr.ID,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return nil, err
		}
		prof = std
	case user.RoleTeacher:
		if _, err := b.teachers.GetTeacherByUserID(ctx, usr.ID); err == nil {
			return nil, ErrProfileAlreadyBound
		} else if err != ErrTeacherNotFound {
			return nil, err
		}
		tch, err := b.teachers.CreateTeacher(ctx, Teacher{
			Name:      usr.Username,
			Email:     email,
			UserID:    usr.ID,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return nil, err
		}
		prof = tch
	default:
		return nil, user.ErrUnsupportedRole
	}

	b.sendWelcomeMail(usr, email)
	return prof, nil
}

func (b *Binder) sendWelcomeMail(usr user.User, email string) {
	if b.mailSvc == nil {
		return
	}
	b.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Username, Address: email}},
		Subject: "Welcome to " + core.Conf.AppName,
		BodyStr: fmt.Sprintf("Hi %s,\n\nYour account has been created. You can now log in with your username.", usr.Username),
	})
}
