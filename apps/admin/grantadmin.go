package main

import (
	"context"
	"fmt"

	"github.com/praveshhq/pravesh/core/user"
)

func (cli *commandLine) grantAdmin(email string) error {
	usr, err := cli.usrSvc.GrantAdmin(context.Background(), user.GrantAdmin{Email: email})
	if err != nil {
		return err
	}
	fmt.Printf("%s is now an admin\n", usr.Email)
	return nil
}

func (cli *commandLine) reap() error {
	count, err := cli.usrSvc.ReapUnverified(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("removed %d unverified account(s)\n", count)
	return nil
}
