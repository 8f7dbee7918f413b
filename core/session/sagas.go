// Package session implements the authenticated-session flows of the admin client:
// login, rehydration of a persisted token, account registration/update, and logout.
package session

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/effects"
	"github.com/trezcool/masomo-admin/services/apiclient"
	"github.com/trezcool/masomo-admin/services/notify"
)

// Notifications.
const (
	MsgLoggedIn           = "You are logged in"
	MsgInvalidCredentials = "username or password is invalid"
	MsgAccountCreated     = "Account successfully created"
	MsgAccountEdited      = "Account successfully edited"
	MsgLoginAgain         = "You need to log in again"
	MsgLoggedOut          = "You are logged out"
	MsgUnknownError       = "Unknown error"
)

const (
	LoginPath = "/login"
	HomePath  = "/"

	tokensPath = "/tokens"
	usersPath  = "/users"
)

var errNoToken = errors.New("response carries no token")

type (
	// API is the part of apiclient.Client the session flows need.
	API interface {
		Request(ctx context.Context, method, path string, body interface{}, opts ...apiclient.RequestOption) (*apiclient.Response, error)
		SetAuthorization(token string)
		ClearAuthorization()
	}

	Navigator interface {
		Push(path string)
	}

	Deps struct {
		API      API
		Notifier notify.Notifier
		History  Navigator
		Logger   core.Logger // optional
	}

	sagas struct {
		Deps
	}
)

// Register installs the session handlers on p. Each follows takeLatest.
func Register(p *effects.Pipeline, deps Deps) {
	s := &sagas{Deps: deps}
	p.Register(TypeLoginRequest, s.loginRequest)
	p.Register(TypePersistRehydrate, s.persistRehydrate)
	p.Register(TypeRegisterRequest, s.registerRequest)
	p.Register(TypeLogout, s.logout)
}

func (s *sagas) debug(msg string, args ...interface{}) {
	if s.Logger != nil {
		s.Logger.Debug(msg, args...)
	}
}

func (s *sagas) createToken(ctx context.Context, creds Credentials) (TokenResponse, error) {
	var resp TokenResponse
	res, err := s.API.Request(ctx, http.MethodPost, tokensPath, tokenRequest{
		Email:    creds.Identifier,
		Password: creds.Secret,
	})
	if err != nil {
		return resp, errors.Wrap(err, "creating token")
	}
	if err = res.Decode(&resp); err != nil {
		return resp, errors.Wrap(err, "creating token")
	}
	if resp.Token == "" {
		return resp, errNoToken
	}
	return resp, nil
}

func (s *sagas) loginRequest(t *effects.Task, act effects.Action) {
	creds, _ := act.Payload.(Credentials)

	resp, err := s.createToken(t.Context(), creds)
	if err != nil {
		s.debug("login failed", err, map[string]interface{}{"kind": apiclient.Classify(err).String()})
		t.Do(func(put effects.PutFunc) {
			s.Notifier.Notify(notify.Error, MsgInvalidCredentials)
			put(LoginFailure())
		})
		return
	}

	t.Do(func(put effects.PutFunc) {
		put(LoginSuccess(resp))
		s.Notifier.Notify(notify.Success, MsgLoggedIn)
		s.API.SetAuthorization(resp.Token)
		s.History.Push(creds.ReturnPath)
	})
}

func (s *sagas) persistRehydrate(t *effects.Task, act effects.Action) {
	state, _ := act.Payload.(Persisted)
	token := state.Token()
	if token == "" {
		return
	}
	t.Do(func(effects.PutFunc) {
		s.API.SetAuthorization(token)
	})
}

func (s *sagas) registerRequest(t *effects.Task, act effects.Action) {
	acc, _ := act.Payload.(Account)
	body := accountRequest{
		Email:    acc.Email,
		Name:     acc.Name,
		Password: acc.Secret, // omitted when empty: an update keeps the current password
	}

	if acc.IsUpdate() {
		_, err := s.API.Request(t.Context(), http.MethodPut, usersPath, body)
		if err != nil {
			s.registerFailed(t, errors.Wrap(err, "updating account"))
			return
		}
		t.Do(func(put effects.PutFunc) {
			s.Notifier.Notify(notify.Success, MsgAccountEdited)
			put(RegisterUpdatedSuccess(Account{Name: acc.Name, Email: acc.Email, Secret: acc.Secret}))
		})
		return
	}

	_, err := s.API.Request(t.Context(), http.MethodPost, usersPath, body)
	if err != nil {
		s.registerFailed(t, errors.Wrap(err, "creating account"))
		return
	}
	t.Do(func(put effects.PutFunc) {
		s.Notifier.Notify(notify.Success, MsgAccountCreated)
		put(RegisterCreatedSuccess(Account{Name: acc.Name, Email: acc.Email, Secret: acc.Secret}))
		s.History.Push(LoginPath)
	})
}

func (s *sagas) registerFailed(t *effects.Task, err error) {
	s.debug("register failed", err, map[string]interface{}{"kind": apiclient.Classify(err).String()})
	status := apiclient.StatusCode(err)
	msgs := apiclient.ErrorMessages(err)

	t.Do(func(put effects.PutFunc) {
		if status == http.StatusUnauthorized {
			s.Notifier.Notify(notify.Error, MsgLoginAgain)
			put(LoginFailure())
			s.History.Push(LoginPath)
			return
		}

		if len(msgs) > 0 {
			for _, msg := range msgs {
				s.Notifier.Notify(notify.Error, msg)
			}
		} else {
			s.Notifier.Notify(notify.Error, MsgUnknownError)
		}
		put(RegisterFailure())
	})
}

func (s *sagas) logout(t *effects.Task, act effects.Action) {
	t.Do(func(effects.PutFunc) {
		s.API.ClearAuthorization()
		s.Notifier.Notify(notify.Info, MsgLoggedOut)
		s.History.Push(HomePath)
	})
}
