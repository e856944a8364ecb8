package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const EnvPrefix = "STUDIANTA_"

type Application struct {
	Host         string       `koanf:"host"`
	Port         int          `koanf:"port"`
	Google       Google       `koanf:"google"`
	Database     Database     `koanf:"db"`
	Sync         Sync         `koanf:"sync"`
	Materializer Materializer `koanf:"materializer"`
}

type Google struct {
	ClientId     string `koanf:"clientid"`
	ClientSecret string `koanf:"clientsecret"`
	// ClientSecretParam names an SSM parameter holding the client secret. It wins over ClientSecret.
	ClientSecretParam string `koanf:"clientsecretparam"`
	CalendarId        string `koanf:"calendarid"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

type Sync struct {
	Timeout time.Duration `koanf:"timeout"`
}

// Materializer configures the recurring-transaction job. SnapshotTTL bounds how long a
// loaded transaction list is reused, zero disables reuse.
type Materializer struct {
	Enabled     bool          `koanf:"enabled"`
	Schedule    string        `koanf:"schedule"`
	SnapshotTTL time.Duration `koanf:"snapshotttl"`
}

func defaults() Application {
	return Application{
		Host: "http://localhost:3000",
		Port: 8181,
		Google: Google{
			CalendarId: "primary",
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "studianta",
			Pass:   "",
			Name:   "studianta",
			Schema: "studianta",
		},
		Sync: Sync{
			Timeout: 60 * time.Second,
		},
		Materializer: Materializer{
			Enabled:     true,
			Schedule:    "@every 60s",
			SnapshotTTL: 5 * time.Second,
		},
	}
}

// Load reads the configuration: defaults, then the YAML file at path, then STUDIANTA_*
// environment variables (a .env file in the working directory is loaded first).
func Load(path string) (Application, error) {
	var k = koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("failed to load .env file: %v", err)
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, EnvPrefix)), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
