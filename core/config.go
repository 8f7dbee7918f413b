package core

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Debug        bool
	TestMode     bool
	Env          string // DEV (local; default), TEST, QA, PROD
	Build        string
	AppName      string
	RollbarToken string

	// Client is read by the admin CLI.
	Client struct {
		APIURL    string
		StateFile string
	}

	// Server is read by the development API.
	Server struct {
		Address            string
		Host               string
		SecretKey          string
		JWTExpirationDelta time.Duration
		MediaURL           string
	}
}

// NewConfig loads the configuration from the environment.
// A `config/.env.<env>` file is loaded first when it exists; real environment variables win.
func NewConfig() (*Config, error) {
	env := strings.ToUpper(os.Getenv("MASOMO_ENV"))
	if env == "" {
		env = "DEV"
	}

	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
	}

	v := viper.New()
	v.SetEnvPrefix("masomo")
	v.AutomaticEnv()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", env == "DEV")
	v.SetDefault("appName", "Masomo")
	v.SetDefault("build", "develop")
	v.SetDefault("api_url", "http://localhost:8000")
	v.SetDefault("state_file", defaultStateFile())
	v.SetDefault("address", ":8000")
	v.SetDefault("host", "localhost")
	v.SetDefault("secret_key", "poq5-wer)enb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	v.SetDefault("jwt_expiration", 7*24*time.Hour)
	v.SetDefault("media_url", "http://localhost:8000/media")

	conf := &Config{
		Debug:        v.GetBool("debug"),
		TestMode:     env == "TEST",
		Env:          env,
		Build:        v.GetString("build"),
		AppName:      v.GetString("appName"),
		RollbarToken: v.GetString("rollbar_token"),
	}
	conf.Client.APIURL = strings.TrimRight(v.GetString("api_url"), "/")
	conf.Client.StateFile = v.GetString("state_file")
	conf.Server.Address = v.GetString("address")
	conf.Server.Host = v.GetString("host")
	conf.Server.SecretKey = v.GetString("secret_key")
	conf.Server.JWTExpirationDelta = v.GetDuration("jwt_expiration")
	conf.Server.MediaURL = strings.TrimRight(v.GetString("media_url"), "/")
	return conf, nil
}

func defaultStateFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "masomo", "state.json")
}
