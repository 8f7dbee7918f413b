package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/effects"
	"github.com/trezcool/masomo-admin/core/session"
	"github.com/trezcool/masomo-admin/core/student"
	"github.com/trezcool/masomo-admin/services/apiclient"
	"github.com/trezcool/masomo-admin/services/history"
	"github.com/trezcool/masomo-admin/services/notify"
	"github.com/trezcool/masomo-admin/storage/statefile"
)

var (
	readPasswordFunc = term.ReadPassword // mockable
	stdinFd          = int(os.Stdin.Fd())

	errHelp = errors.New("help provided")
	// errFailed is returned once the failure has been notified.
	errFailed = errors.New("command failed")
)

type commandLine struct {
	out      io.Writer
	logger   core.Logger
	api      *apiclient.Client
	pipeline *effects.Pipeline
	store    *session.Store
	notifier notify.Notifier
	history  *history.History
	state    *statefile.File
	students *student.Service

	mu   sync.Mutex
	seen map[string]int
}

// track records dispatched action types; subscribed to the pipeline.
func (cli *commandLine) track(act effects.Action) {
	cli.mu.Lock()
	defer cli.mu.Unlock()
	if cli.seen == nil {
		cli.seen = make(map[string]int)
	}
	cli.seen[act.Type]++
}

func (cli *commandLine) saw(typ string) bool {
	cli.mu.Lock()
	defer cli.mu.Unlock()
	return cli.seen[typ] > 0
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -username EMAIL [-next PATH] - log in; the password is prompted next")
	fmt.Fprintln(cli.out, "  logout - forget the session")
	fmt.Fprintln(cli.out, "  whoami - show the logged in account")
	fmt.Fprintln(cli.out, "  register -name NAME -email EMAIL [-update] - create an account, or edit yours with -update")
	fmt.Fprintln(cli.out, "  student get -id ID")
	fmt.Fprintln(cli.out, "  student create -name NAME -surname SURNAME -email EMAIL -age AGE -weight WEIGHT -height HEIGHT")
	fmt.Fprintln(cli.out, "  student edit -id ID [-name ...] [-surname ...] [-email ...] [-age ...] [-weight ...] [-height ...]")
	fmt.Fprintln(cli.out, "  photo -id ID -file PATH - upload a student photo (PNG or JPG)")
}

// execute runs one invocation and shuts the pipeline down before returning,
// since the caller may os.Exit right after.
func (cli *commandLine) execute(args []string) error {
	defer cli.pipeline.Close()
	return cli.run(args)
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "login":
		return cli.runLogin(args[2:])
	case "logout":
		return cli.withSession(cli.logout)
	case "whoami":
		return cli.withSession(cli.whoami)
	case "register":
		return cli.runRegister(args[2:])
	case "student":
		return cli.runStudent(args[2:])
	case "photo":
		return cli.runPhoto(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

// withSession restores the persisted session, runs fn, waits for every
// side effect to settle and persists the resulting session.
func (cli *commandLine) withSession(fn func() error) error {
	persisted, err := cli.state.Load()
	if err != nil {
		return err
	}
	cli.pipeline.Dispatch(session.PersistRehydrate(persisted))
	cli.pipeline.Wait()

	before := cli.history.Location()
	runErr := fn()
	cli.pipeline.Wait()
	if loc := cli.history.Location(); loc != before {
		fmt.Fprintf(cli.out, "-> %s\n", loc)
	}

	if err = cli.state.Save(cli.store.Persisted()); err != nil {
		return err
	}
	return runErr
}

func (cli *commandLine) promptPassword(fs *flag.FlagSet, required bool) (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(stdinFd)
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	if required && len(pwd) == 0 {
		fs.Usage()
		return "", errHelp
	}
	return string(pwd), nil
}
