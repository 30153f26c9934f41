package config

import (
	"errors"
	"io/fs"
	"os"
	"reflect"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type options struct {
	dotenv  []string
	files   []string
	environ map[string]string
}

// Option customizes Load.
type Option func(*options)

// WithDotenv sets the dotenv files to read. Defaults to ".env".
// Missing files are skipped.
func WithDotenv(paths ...string) Option {
	return func(o *options) { o.dotenv = paths }
}

// WithFile adds a YAML file applied before the environment.
// Missing files are skipped.
func WithFile(path string) Option {
	return func(o *options) { o.files = append(o.files, path) }
}

// WithEnvironment replaces the process environment as the source of env values.
func WithEnvironment(environ map[string]string) Option {
	return func(o *options) { o.environ = environ }
}

// Load fills dst in three layers: YAML files, then environment variables
// (dotenv files included), then envDefault tags for fields still at zero.
// Variables already set in the process are never overwritten by dotenv.
func Load(dst any, opts ...Option) error {
	if dst == nil || reflect.ValueOf(dst).Kind() != reflect.Pointer || reflect.ValueOf(dst).IsNil() {
		return ErrNilTarget
	}

	o := options{dotenv: []string{".env"}}
	for _, opt := range opts {
		opt(&o)
	}

	for _, path := range o.dotenv {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return &InvalidFileError{Path: path, cause: err}
		}
	}

	for _, path := range o.files {
		raw, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return &InvalidFileError{Path: path, cause: err}
		}
		if err := yaml.Unmarshal(raw, dst); err != nil {
			return &InvalidFileError{Path: path, cause: err}
		}
	}

	envOpts := env.Options{SetDefaultsForZeroValuesOnly: true}
	if o.environ != nil {
		envOpts.Environment = o.environ
	}
	if err := env.ParseWithOptions(dst, envOpts); err != nil {
		return errors.Join(ErrParseEnv, err)
	}
	return nil
}

// MustLoad is Load that panics on error, for use in main.
func MustLoad(dst any, opts ...Option) {
	if err := Load(dst, opts...); err != nil {
		panic(err)
	}
}
