package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/praveshhq/pravesh/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db      *sqlx.DB
	usrRepo user.Repository
	usrSvc  *user.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate up|down|status [args...]     - run database migrations")
	fmt.Println("  createadmin -name NAME -email EMAIL -mobile MOBILE - create a verified admin account (password prompted)")
	fmt.Println("  grantadmin -email EMAIL              - grant admin rights to an existing account")
	fmt.Println("  reap                                 - delete unverified accounts with expired OTPs")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	createAdminCmd := flag.NewFlagSet("createadmin", flag.ExitOnError)
	createAdminName := createAdminCmd.String("name", "", "The admin's full name.")
	createAdminEmail := createAdminCmd.String("email", "", "The admin's email. The password will be prompted next.")
	createAdminMobile := createAdminCmd.String("mobile", "", "The admin's mobile number.")

	grantAdminCmd := flag.NewFlagSet("grantadmin", flag.ExitOnError)
	grantAdminEmail := grantAdminCmd.String("email", "", "The account's email.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "createadmin":
		if err := createAdminCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *createAdminName == "" || *createAdminEmail == "" || *createAdminMobile == "" {
			createAdminCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			createAdminCmd.Usage()
			return errHelp
		}
		return cli.createAdmin(*createAdminName, *createAdminEmail, *createAdminMobile, string(pwd))
	case "grantadmin":
		if err := grantAdminCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *grantAdminEmail == "" {
			grantAdminCmd.Usage()
			return errHelp
		}
		return cli.grantAdmin(*grantAdminEmail)
	case "reap":
		return cli.reap()
	default:
		cli.printUsage()
		return errHelp
	}
}
