package main

import (
	"context"
	"time"

	"github.com/praveshhq/pravesh/core"
	"github.com/praveshhq/pravesh/core/user"
)

// createAdmin updates or creates a verified admin account. Skips the OTP
// flow entirely.
func (cli *commandLine) createAdmin(name, email, mobile, pwd string) error {
	ctx := context.Background()
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)
	mobile = core.CleanString(mobile)

	now := time.Now().UTC()
	usr, err := cli.usrRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Name:      name,
			Email:     email,
			Mobile:    mobile,
			CreatedAt: now,
		}
	}
	usr.Role = user.RoleAdmin
	usr.IsVerified = true
	usr.OTP = ""
	usr.OTPExpiresAt = time.Time{}
	usr.UpdatedAt = now
	if err = usr.SetPassword(pwd); err != nil {
		return err
	}

	if usr.ID == "" {
		_, err = cli.usrRepo.CreateUser(ctx, usr)
	} else {
		_, err = cli.usrRepo.UpdateUser(ctx, usr)
	}
	return err
}
