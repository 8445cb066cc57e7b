// Package config loads the linkboard configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/linkboard/config.toml
// (~/.config/linkboard/config.toml) unless a path is given explicitly:
//
//	separation = 10.0
//	padding = 1.0
//	policy = "largest"
//	timeout = "2m"
//	layout_engine = "neato"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[server]
//	addr = ":8080"
//
//	[store]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//	database = "linkboard"
//
//	[artifacts]
//	backend = "s3"
//	bucket = "boards"
//	prefix = "runs/"
//	region = "eu-central-1"
//
// Every key is optional. Command-line flags override file values.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/linkboard/pkg/errors"
	"github.com/matzehuels/linkboard/pkg/pipeline"
)

const appName = "linkboard"

// Backend names.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"

	StoreMemory = "memory"
	StoreMongo  = "mongo"

	ArtifactsFile = "file"
	ArtifactsS3   = "s3"
)

var validate = validator.New()

// Duration is a time.Duration written as a string such as "90s" or "2h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the contents of the configuration file.
type Config struct {
	Separation   float64  `toml:"separation" validate:"min=1"`
	Padding      float64  `toml:"padding" validate:"min=0"`
	Policy       string   `toml:"policy" validate:"oneof=largest spanning"`
	Timeout      Duration `toml:"timeout"`
	LayoutEngine string   `toml:"layout_engine" validate:"oneof=neato fdp dot"`

	Cache     CacheConfig     `toml:"cache"`
	Server    ServerConfig    `toml:"server"`
	Store     StoreConfig     `toml:"store"`
	Artifacts ArtifactsConfig `toml:"artifacts"`
}

// CacheConfig selects the result cache.
type CacheConfig struct {
	Backend   string `toml:"backend" validate:"oneof=file redis none"`
	RedisAddr string `toml:"redis_addr" validate:"required_if=Backend redis"`
	// Dir overrides the file cache directory.
	Dir string `toml:"dir"`
	// TTL overrides the default entry lifetimes when set.
	TTL Duration `toml:"ttl"`
}

// ServerConfig configures `linkboard serve`.
type ServerConfig struct {
	Addr            string   `toml:"addr" validate:"required"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// StoreConfig selects where the server keeps analyses.
type StoreConfig struct {
	Backend  string   `toml:"backend" validate:"oneof=memory mongo"`
	MongoURI string   `toml:"mongo_uri" validate:"required_if=Backend mongo"`
	Database string   `toml:"database" validate:"required_if=Backend mongo"`
	TTL      Duration `toml:"ttl"`
}

// ArtifactsConfig selects where drawings and boards are written.
type ArtifactsConfig struct {
	Backend string `toml:"backend" validate:"oneof=file s3"`
	// Dir is the output directory of the file backend. Empty means next
	// to the input.
	Dir     string `toml:"dir"`
	Bucket  string `toml:"bucket" validate:"required_if=Backend s3"`
	Prefix  string `toml:"prefix"`
	Region  string `toml:"region"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Separation:   pipeline.DefaultSeparation,
		Padding:      pipeline.DefaultPadding,
		Policy:       pipeline.DefaultPolicy,
		LayoutEngine: pipeline.DefaultEngine,
		Cache:        CacheConfig{Backend: CacheFile},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: Duration{10 * time.Second},
		},
		Store:     StoreConfig{Backend: StoreMemory, Database: appName},
		Artifacts: ArtifactsConfig{Backend: ArtifactsFile},
	}
}

// Path returns the default location of the configuration file.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the configuration at path on top of [Default]. With an empty
// path the default location is used and a missing file is not an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err) && !explicit:
		return cfg, nil
	case os.IsNotExist(err):
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
	case err != nil:
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	if err := Parse(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes TOML data into cfg and validates the result. Keys the
// configuration does not know are rejected.
func Parse(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
	}
	return cfg.Validate()
}

// Validate checks every field.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	for name, d := range map[string]Duration{
		"timeout":                 c.Timeout,
		"cache.ttl":               c.Cache.TTL,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"store.ttl":               c.Store.TTL,
	} {
		if d.Duration < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s: must not be negative", name)
		}
	}
	return nil
}

// PipelineOptions returns the pipeline options the configuration sets.
func (c *Config) PipelineOptions() pipeline.Options {
	padding := c.Padding
	return pipeline.Options{
		Policy:     c.Policy,
		Separation: c.Separation,
		Padding:    &padding,
		Engine:     c.LayoutEngine,
		Timeout:    c.Timeout.Duration,
	}
}

func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid config")
	}

	e := verrs[0]
	field := e.Namespace()
	switch e.Tag() {
	case "min":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: must be at least %s", field, e.Param())
	case "oneof":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: %q is not one of %s", field, e.Value(), e.Param())
	case "required", "required_if":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: is required", field)
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "%s: validation failed (%s)", field, e.Tag())
	}
}
