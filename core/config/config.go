package config

import (
	_ "embed"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
)

type Configuration struct {
	Prompt   string `json:"prompt" validate:"required"`
	Home     string `json:"home"`
	Color    string `json:"color" validate:"oneof=always auto never"`
	TimeZone string `json:"time_zone" validate:"omitempty,timezone"`

	Log Log `json:"log"`
}

type Log struct {
	Path  string `json:"path"`
	Level string `json:"level" validate:"oneof=trace debug info warn error disabled"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

// HomeDir returns the configured home, or the user's home directory.
func (c *Configuration) HomeDir() (string, error) {
	if c.Home != "" {
		return c.Home, nil
	}
	return os.UserHomeDir()
}

// Location returns the time zone list uses.
func (c *Configuration) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.TimeZone)
}

// LogLevel returns the minimum level written to the event log.
func (c *Configuration) LogLevel() (zerolog.Level, error) {
	return zerolog.ParseLevel(c.Log.Level)
}

// Default returns the built in configuration.
func Default() *Configuration {
	return defaultConfig()
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}

// OpenEventLog opens the event log in an append only state.
func (c *Configuration) OpenEventLog(fs afero.Fs) (afero.File, error) {
	return fs.OpenFile(c.Log.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// ReadEventLog opens the event log for reading.
func (c *Configuration) ReadEventLog(fs afero.Fs) (afero.File, error) {
	return fs.OpenFile(c.Log.Path, os.O_RDONLY, 0600)
}
