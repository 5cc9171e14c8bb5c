package main

import (
	"log"
	"os"

	"github.com/praveshhq/pravesh/core"
	"github.com/praveshhq/pravesh/core/user"
	emailsvc "github.com/praveshhq/pravesh/services/email"
	tokensvc "github.com/praveshhq/pravesh/services/token"
	"github.com/praveshhq/pravesh/storage/database"
	sqlxrepos "github.com/praveshhq/pravesh/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())

	// start CLI
	usrRepo := sqlxrepos.NewUserRepository(db)
	cli := commandLine{
		db:      db,
		usrRepo: usrRepo,
		usrSvc:  user.NewService(usrRepo, emailsvc.NewConsoleService(conf), tokensvc.NewJWTProvider(conf), conf),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
