package testutil

import (
	"io/ioutil"
	"log"
	"net/http/httptest"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/masomo-admin/apps/api/echo"
	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/student"
	"github.com/trezcool/masomo-admin/core/user"
	"github.com/trezcool/masomo-admin/services/logger"
	"github.com/trezcool/masomo-admin/storage/database/inmem"
)

// Config returns a TEST configuration that does not depend on the environment.
func Config() *core.Config {
	conf := &core.Config{
		TestMode: true,
		Env:      "TEST",
		Build:    "test",
		AppName:  "Masomo",
	}
	conf.Client.APIURL = "http://localhost:8000"
	conf.Server.Address = ":0"
	conf.Server.Host = "localhost"
	conf.Server.SecretKey = "test-secret-key"
	conf.Server.JWTExpirationDelta = time.Hour
	conf.Server.MediaURL = "http://localhost:8000/media"
	return conf
}

// Validator returns a validator with every validation of the app registered.
func Validator() (*validator.Validate, ut.Translator) {
	validate, translator := core.NewValidator()
	student.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate, translator
}

func Logger(conf *core.Config) core.Logger {
	return logsvc.NewRollbarLogger(log.New(ioutil.Discard, "", 0), conf)
}

// Backend is an in-memory development API.
type Backend struct {
	Conf     *core.Config
	App      echoapi.Server
	Users    user.Service
	UserRepo user.Repository
	Students student.Repository
}

func NewBackend(conf *core.Config) *Backend {
	db := inmemdb.Open()
	validate, translator := Validator()
	b := &Backend{
		Conf:     conf,
		UserRepo: inmemdb.NewUserRepository(db),
		Students: inmemdb.NewStudentRepository(db),
	}
	b.Users = user.NewService(b.UserRepo)
	b.App = echoapi.NewServer(&echoapi.Options{
		Conf:           conf,
		Logger:         Logger(conf),
		DisableReqLogs: true,
		Validate:       validate,
		Translator:     translator,
		UserSvc:        b.Users,
		StudentRepo:    b.Students,
	})
	return b
}

// StartBackend serves a new Backend over HTTP until the test ends.
// The returned config points the client and the media URLs at it.
func StartBackend(t *testing.T) (*Backend, *httptest.Server) {
	srv := httptest.NewUnstartedServer(nil)
	conf := Config()
	conf.Client.APIURL = "http://" + srv.Listener.Addr().String()
	conf.Server.MediaURL = conf.Client.APIURL + "/media"

	b := NewBackend(conf)
	srv.Config.Handler = b.App
	srv.Start()
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *Backend) Token(t *testing.T, usr user.User) string {
	token, err := echoapi.GenerateToken(b.Conf, usr)
	if err != nil {
		t.Fatalf("Token() failed: %v", err)
	}
	return token
}

func CreateUser(t *testing.T, repo user.Repository, name, email, pwd string, createdAt ...time.Time) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		ID:        name + "-" + email,
		Name:      name,
		Email:     email,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateStudent(t *testing.T, repo student.Repository, name, surname, email string) student.Student {
	s, err := repo.CreateStudent(student.Student{
		Name:    name,
		Surname: surname,
		Email:   email,
		Age:     20,
		Weight:  60,
		Height:  1.7,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return s
}
