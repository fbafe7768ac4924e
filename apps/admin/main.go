package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/profile"
	"github.com/trezcool/shule/core/user"
	emailsvc "github.com/trezcool/shule/services/email"
	"github.com/trezcool/shule/storage/database"
	sqlxrepos "github.com/trezcool/shule/storage/database/sqlx"
)

var logger *log.Logger // todo: logger service

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up DB
	db, err := database.Open(core.Conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())
	sdb := sqlx.NewDb(db, core.Conf.Database.Engine)

	// set up services
	stdRepo := sqlxrepos.NewStudentRepository(sdb)
	tchRepo := sqlxrepos.NewTeacherRepository(sdb)
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(sdb))
	binder := profile.NewBinder(stdRepo, tchRepo, emailsvc.NewConsoleService())

	// start CLI
	cli := commandLine{
		db:     db,
		usrSvc: usrSvc,
		binder: binder,
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
