// Package config loads relay settings from defaults, an optional YAML file
// and NAMERELAY_* environment variables, in that order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "NAMERELAY_"

// Config holds every setting of the relay.
type Config struct {
	SourceURL      string `yaml:"source_url" env:"SOURCE_URL" validate:"required,url"`
	DestinationURL string `yaml:"destination_url" env:"DESTINATION_URL" validate:"required,url"`
	UserAgent      string `yaml:"user_agent" env:"USER_AGENT" validate:"required"`
	LedgerPath     string `yaml:"ledger_path" env:"LEDGER_PATH" validate:"required"`

	LogFile       string `yaml:"log_file" env:"LOG_FILE" validate:"required"`
	LogLevel      string `yaml:"log_level" env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogMaxSizeMB  int    `yaml:"log_max_size_mb" env:"LOG_MAX_SIZE_MB" validate:"min=1"`
	LogMaxBackups int    `yaml:"log_max_backups" env:"LOG_MAX_BACKUPS" validate:"min=0"`

	// HistoryDB enables the run journal when set.
	HistoryDB string `yaml:"history_db" env:"HISTORY_DB"`
	// HTTPTimeout of zero keeps the transport default.
	HTTPTimeout time.Duration `yaml:"http_timeout" env:"HTTP_TIMEOUT" validate:"min=0"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		SourceURL:      "https://api.wiseoldman.net/league",
		DestinationURL: "https://api.wiseoldman.net/v2",
		UserAgent:      "WOM Leagues Name submitter",
		LedgerPath:     "submitted_names.json",
		LogFile:        "wom-league-name-submitter.log",
		LogLevel:       "debug",
		LogMaxSizeMB:   1,
		LogMaxBackups:  20,
	}
}

// Load builds the configuration from defaults, the YAML file at path (skipped
// when path is empty) and the process environment.
func Load(path string) (Config, error) {
	return LoadFrom(path, envMap(os.Environ()))
}

// LoadFrom is Load with an explicit environment. A nil environ is empty,
// the process environment is never consulted.
func LoadFrom(path string, environ map[string]string) (Config, error) {
	if environ == nil {
		environ = map[string]string{}
	}
	cfg := Default()

	if path != "" {
		if err := readFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %q: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %q: %w", path, err)
	}
	return nil
}

// ValidationError lists every invalid setting.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		return name
	})
	return v
}

// Validate checks every setting and reports all problems at once.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate config: %w", err)
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			problems = append(problems, fmt.Sprintf("%s: must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			problems = append(problems, fmt.Sprintf("%s: must satisfy %s", fe.Field(), fe.Tag()))
		}
	}
	return &ValidationError{Problems: problems}
}

func envMap(environ []string) map[string]string {
	out := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			out[k] = v
		}
	}
	return out
}
