package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/aeroprep/aeroprep/core"
	"github.com/aeroprep/aeroprep/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(uname, email, pwd string, isAdmin bool) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)
	now := time.Now().UTC()

	usr, err := cli.usrRepo.GetUserByUsernameOrEmail(ctx, uname)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		usr = user.User{
			ID:        uuid.NewString(),
			Name:      uname,
			Username:  uname,
			Email:     email,
			CreatedAt: now,
		}
		if isAdmin {
			usr.Roles = user.AllRoles
		} else {
			usr.Roles = user.StudentRoles
		}
		if err = usr.SetPassword(pwd); err != nil {
			return err
		}
		usr.IsActive = true
		usr.UpdatedAt = now
		_, err = cli.usrRepo.CreateUser(ctx, usr)
		return err
	}

	if isAdmin {
		usr.Roles = user.AllRoles
	}
	if err = usr.SetPassword(pwd); err != nil {
		return err
	}
	usr.UpdatedAt = now
	active := true
	_, err = cli.usrRepo.UpdateUser(ctx, usr, &active)
	return err
}
