package main

import (
	"context"

	"github.com/trezcool/shule/core/user"
)

// addUser registers an account and binds its role-specific profile, same as
// the API registration flow.
func (cli *commandLine) addUser(uname, email, role, pwd string) error {
	nu := user.NewUser{
		Username: uname,
		Email:    email,
		Password: pwd,
		Role:     role,
	}
	if err := nu.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	usr, err := cli.usrSvc.Register(ctx, nu)
	if err != nil {
		return err
	}
	_, err = cli.binder.Bind(ctx, usr, nu.Email)
	return err
}
