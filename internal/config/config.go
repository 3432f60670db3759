// Package config loads service settings from built-in defaults, an optional
// TOML file and HOSTEL_* environment variables, in that order of precedence.
package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"hostelpass/internal/errors"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "hostel.toml"

// EnvPrefix starts every override variable. Sections and keys are separated
// by a double underscore: HOSTEL_SERVER__BASE_URL sets server.base_url.
const EnvPrefix = "HOSTEL_"

type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Storage StorageConfig `koanf:"storage"`
	Auth    AuthConfig    `koanf:"auth"`
	Log     LogConfig     `koanf:"log"`
}

type ServerConfig struct {
	Addr    string `koanf:"addr"`
	BaseURL string `koanf:"base_url"`
	TLSCert string `koanf:"tls_cert"`
	TLSKey  string `koanf:"tls_key"`
}

// TLS reports whether both certificate and key are configured.
func (s ServerConfig) TLS() bool { return s.TLSCert != "" && s.TLSKey != "" }

type StorageConfig struct {
	Path          string `koanf:"path"`
	Encrypt       bool   `koanf:"encrypt"`
	MasterKeyFile string `koanf:"master_key_file"`
}

type AuthConfig struct {
	Enforce bool `koanf:"enforce"`
}

type LogConfig struct {
	Verbosity int    `koanf:"verbosity"`
	File      string `koanf:"file"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"server.addr":             ":8080",
		"server.base_url":         "",
		"server.tls_cert":         "",
		"server.tls_key":          "",
		"storage.path":            "data/students.json",
		"storage.encrypt":         false,
		"storage.master_key_file": "master.key",
		"auth.enforce":            true,
		"log.verbosity":           1,
		"log.file":                "",
	}
}

// Load builds the configuration. path may be empty, in which case
// DefaultFile is used if it exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path)
		}
	} else if explicit {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s", path)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to decode config")
	}
	return &cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}
