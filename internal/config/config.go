// Package config loads the run configuration, the credential record and the
// candidate list. Any failure here is fatal: nothing useful can run without
// them
package config

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/joho/godotenv"

	"github.com/berckan/gamertag/internal/models"
	"github.com/berckan/gamertag/internal/reservation"
)

// Config holds the run settings read from the environment
type Config struct {
	CredentialsFile string        `env:"GAMERTAG_CREDENTIALS_FILE" envDefault:"credentials.json"`
	ListFile        string        `env:"GAMERTAG_LIST_FILE" envDefault:"list.txt"`
	OutputFile      string        `env:"GAMERTAG_OUTPUT_FILE" envDefault:"available.txt"`
	Endpoint        string        `env:"GAMERTAG_ENDPOINT"`
	RequestTimeout  time.Duration `env:"GAMERTAG_REQUEST_TIMEOUT" envDefault:"30s"`
	MetricsFile     string        `env:"GAMERTAG_METRICS_FILE"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"text"`
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present; variables already set
// in the environment win
func Load() (Config, error) {
	// The .env file is optional
	_ = godotenv.Load()
	return LoadFromEnv(os.Environ())
}

// LoadFromEnv parses cfg from a KEY=VALUE list instead of the process
// environment
func LoadFromEnv(environ []string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: env.ToMap(environ)}); err != nil {
		return Config{}, configWrapError(err, goerrors.CategoryBadInput, "config: parse environment", nil)
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = reservation.DefaultEndpoint
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, configWrapError(err, goerrors.CategoryValidation, "config: invalid configuration", nil)
	}
	return cfg, nil
}

// Validate checks required paths, the endpoint URL and the log format
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.CredentialsFile, validation.Required),
		validation.Field(&c.ListFile, validation.Required),
		validation.Field(&c.OutputFile, validation.Required),
		validation.Field(&c.Endpoint, validation.Required, is.RequestURL),
		validation.Field(&c.RequestTimeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.LogFormat, validation.In("text", "json")),
	)
}

// LoadCredentials reads the authorization token and reservation id
func LoadCredentials(path string) (models.Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Credentials{}, fileError(err, "config: read credentials file", path)
	}

	var creds models.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return models.Credentials{}, configWrapError(err, goerrors.CategoryBadInput, "config: decode credentials file", map[string]any{"path": path})
	}

	creds.Authorization = strings.TrimSpace(creds.Authorization)
	creds.ReservationID = strings.TrimSpace(creds.ReservationID)
	if err := validation.ValidateStruct(&creds,
		validation.Field(&creds.Authorization, validation.Required),
		validation.Field(&creds.ReservationID, validation.Required),
	); err != nil {
		return models.Credentials{}, configWrapError(err, goerrors.CategoryValidation, "config: incomplete credentials", map[string]any{"path": path})
	}
	return creds, nil
}

// LoadList reads one candidate per line. Surrounding whitespace is trimmed
// and blank lines are skipped
func LoadList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fileError(err, "config: open gamertag list", path)
	}
	defer file.Close()

	// Lines have no length limit here; overlong names are rejected by the
	// validator, not by the loader
	var gamertags []string
	reader := bufio.NewReader(file)
	for {
		line, err := reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			gamertags = append(gamertags, line)
		}
		if errors.Is(err, io.EOF) {
			return gamertags, nil
		}
		if err != nil {
			return nil, configWrapError(err, goerrors.CategoryBadInput, "config: read gamertag list", map[string]any{"path": path})
		}
	}
}

func fileError(err error, message, path string) error {
	category := goerrors.CategoryBadInput
	if errors.Is(err, fs.ErrNotExist) {
		category = goerrors.CategoryNotFound
	}
	return configWrapError(err, category, message, map[string]any{"path": path})
}
