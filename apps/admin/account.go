package main

import (
	"flag"
	"fmt"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/session"
)

var errNotLoggedIn = errors.New("you are not logged in")

// tokenClaims is what the API puts in its tokens.
type tokenClaims struct {
	jwt.StandardClaims
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// tokenPerson reads the account out of token without verifying it: only the API can.
func tokenPerson(token string) (core.Person, error) {
	var claims tokenClaims
	if _, _, err := new(jwt.Parser).ParseUnverified(token, &claims); err != nil {
		return core.Person{}, errors.Wrap(err, "parsing token")
	}
	return core.Person{ID: claims.Subject, Name: claims.Name, Email: claims.Email}, nil
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	return nil
}

func (cli *commandLine) runLogin(args []string) error {
	loginCmd := cli.newFlagSet("login")
	uname := loginCmd.String("username", "", "The account email. The password will be prompted next.")
	next := loginCmd.String("next", session.HomePath, "Where to go once logged in.")
	if err := parseFlags(loginCmd, args); err != nil {
		return err
	}
	if *uname == "" {
		loginCmd.Usage()
		return errHelp
	}
	pwd, err := cli.promptPassword(loginCmd, true)
	if err != nil {
		return err
	}

	return cli.withSession(func() error {
		cli.pipeline.Dispatch(session.LoginRequest(session.Credentials{
			Identifier: *uname,
			Secret:     pwd,
			ReturnPath: *next,
		}))
		cli.pipeline.Wait()
		if !cli.store.State().Authenticated || cli.saw(session.TypeLoginFailure) {
			return errFailed
		}
		return nil
	})
}

func (cli *commandLine) logout() error {
	cli.pipeline.Dispatch(session.Logout())
	return nil
}

func (cli *commandLine) whoami() error {
	st := cli.store.State()
	if !st.Authenticated {
		return errNotLoggedIn
	}
	p, err := tokenPerson(st.Token)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s <%s>\nid: %s\n", p.Name, p.Email, p.ID)
	return nil
}

func (cli *commandLine) runRegister(args []string) error {
	registerCmd := cli.newFlagSet("register")
	name := registerCmd.String("name", "", "The account name.")
	email := registerCmd.String("email", "", "The account email.")
	update := registerCmd.Bool("update", false, "Edit the logged in account instead of creating one. An empty password keeps the current one.")
	if err := parseFlags(registerCmd, args); err != nil {
		return err
	}
	if !*update && (*name == "" || *email == "") {
		registerCmd.Usage()
		return errHelp
	}
	pwd, err := cli.promptPassword(registerCmd, !*update)
	if err != nil {
		return err
	}

	return cli.withSession(func() error {
		acc := session.Account{Name: *name, Email: *email, Secret: pwd}
		if *update {
			st := cli.store.State()
			if !st.Authenticated {
				return errNotLoggedIn
			}
			p, err := tokenPerson(st.Token)
			if err != nil {
				return err
			}
			acc.ID = p.ID
			if acc.Name == "" {
				acc.Name = p.Name
			}
			if acc.Email == "" {
				acc.Email = p.Email
			}
		}

		cli.pipeline.Dispatch(session.RegisterRequest(acc))
		cli.pipeline.Wait()
		if cli.saw(session.TypeRegisterFailure) || cli.saw(session.TypeLoginFailure) {
			return errFailed
		}
		return nil
	})
}
