package main

import (
	"log"
	"os"

	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/effects"
	"github.com/trezcool/masomo-admin/core/session"
	"github.com/trezcool/masomo-admin/core/student"
	"github.com/trezcool/masomo-admin/services/apiclient"
	"github.com/trezcool/masomo-admin/services/history"
	"github.com/trezcool/masomo-admin/services/logger"
	"github.com/trezcool/masomo-admin/services/notify"
	"github.com/trezcool/masomo-admin/storage/statefile"
)

func main() {
	std := log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	if err != nil {
		std.Fatal(err)
	}
	logger := logsvc.NewRollbarLogger(std, conf)

	cli := newCommandLine(conf, logger, notify.NewConsole(os.Stdout, false))
	if err := cli.execute(os.Args); err != nil {
		if err != errHelp && err != errFailed {
			logger.Error("admin: "+os.Args[1], err)
		}
		os.Exit(1)
	}
}

// newCommandLine wires the client stack against conf.Client.
func newCommandLine(conf *core.Config, logger core.Logger, notifier notify.Notifier) *commandLine {
	api := apiclient.New(apiclient.Options{BaseURL: conf.Client.APIURL})

	validate, translator := core.NewValidator()
	student.InitValidators(validate, translator)

	cli := &commandLine{
		out:      os.Stdout,
		logger:   logger,
		api:      api,
		pipeline: effects.New(),
		store:    session.NewStore(),
		notifier: notifier,
		history:  history.New(),
		state:    statefile.New(conf.Client.StateFile),
		students: student.NewService(api, validate, translator),
	}
	cli.pipeline.Subscribe(cli.store.Reduce)
	cli.pipeline.Subscribe(cli.track)
	session.Register(cli.pipeline, session.Deps{
		API:      api,
		Notifier: notifier,
		History:  cli.history,
		Logger:   logger,
	})
	return cli
}
