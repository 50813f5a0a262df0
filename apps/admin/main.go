package main

import (
	"log"
	"os"

	"github.com/aeroprep/aeroprep/core"
	"github.com/aeroprep/aeroprep/core/billing"
	"github.com/aeroprep/aeroprep/core/user"
	"github.com/aeroprep/aeroprep/storage/database"
	sqlxrepos "github.com/aeroprep/aeroprep/storage/database/sqlx"
)

var logger *log.Logger

type nopEmailService struct{}

func (nopEmailService) SendMessages(...*core.EmailMessage) {}

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	core.InitValidators()
	user.InitValidators()

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())

	// start CLI
	cli := commandLine{
		conf:       conf,
		db:         db,
		usrRepo:    sqlxrepos.NewUserRepository(db),
		qRepo:      sqlxrepos.NewQuestionRepository(db),
		billingSvc: billing.NewService(conf, stdLogger{logger}, sqlxrepos.NewBillingRepository(db), nopEmailService{}),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

// stdLogger adapts the standard logger to core.Logger for CLI use.
type stdLogger struct {
	std *log.Logger
}

func (l stdLogger) Enable(bool)                           {}
func (l stdLogger) Debug(msg string, args ...interface{}) { l.print(msg, args) }
func (l stdLogger) Info(msg string, args ...interface{})  { l.print(msg, args) }
func (l stdLogger) Warn(msg string, args ...interface{})  { l.print(msg, args) }
func (l stdLogger) Error(msg string, args ...interface{}) { l.print(msg, args) }
func (l stdLogger) Fatal(msg string, args ...interface{}) { l.print(msg, args); l.std.Fatal(msg) }

func (l stdLogger) print(msg string, args []interface{}) {
	l.std.Println(msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
