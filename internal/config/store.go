// Package config persists CLI settings in a small YAML file and layers
// FRAUDLABS_* environment variables on top of it.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Setting names accepted by Get and Set.
const (
	KeyAPIKey     = "apiKey"
	KeyBaseURL    = "baseURL"
	KeyHistoryDSN = "historyDSN"
)

// Environment variables that override the file.
const (
	EnvConfigPath = "FRAUDLABS_CONFIG"
	EnvAPIKey     = "FRAUDLABS_API_KEY"
	EnvBaseURL    = "FRAUDLABS_BASE_URL"
	EnvHistoryDSN = "FRAUDLABS_HISTORY_DSN"
)

var envFor = map[string]string{
	KeyAPIKey:     EnvAPIKey,
	KeyBaseURL:    EnvBaseURL,
	KeyHistoryDSN: EnvHistoryDSN,
}

// ErrUnknownKey is returned by Set for names other than the Key* constants.
var ErrUnknownKey = errors.New("unknown configuration key")

// Store is the configuration collaborator used by the commands.
type Store interface {
	Get(name string) string
	Set(name, value string) error
	IsConfigured() bool
}

// LookupEnvFunc matches os.LookupEnv.
type LookupEnvFunc func(string) (string, bool)

// File is the on-disk document.
type File struct {
	APIKey     string `yaml:"api_key,omitempty"`
	BaseURL    string `yaml:"base_url,omitempty"`
	HistoryDSN string `yaml:"history_dsn,omitempty"`
}

// FileStore is a Store backed by a YAML file.
type FileStore struct {
	path      string
	file      File
	lookupEnv LookupEnvFunc
}

// DefaultPath returns $FRAUDLABS_CONFIG, else <user config dir>/fraudlabs/config.yaml.
func DefaultPath(lookupEnv LookupEnvFunc) (string, error) {
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	if p, ok := lookupEnv(EnvConfigPath); ok && strings.TrimSpace(p) != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "locate user config dir")
	}
	return filepath.Join(dir, "fraudlabs", "config.yaml"), nil
}

// Load reads the file at path. A missing file is an empty configuration.
func Load(path string, lookupEnv LookupEnvFunc) (*FileStore, error) {
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	s := &FileStore{path: path, lookupEnv: lookupEnv}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(raw, &s.file); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	return s, nil
}

func (s *FileStore) Path() string { return s.path }

// Get returns the effective value: environment first, then the file.
func (s *FileStore) Get(name string) string {
	if env, ok := envFor[name]; ok {
		if v, ok := s.lookupEnv(env); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	if p := s.field(name); p != nil {
		return *p
	}
	return ""
}

// FromEnv reports whether Get(name) is served by an environment variable.
func (s *FileStore) FromEnv(name string) bool {
	env, ok := envFor[name]
	if !ok {
		return false
	}
	v, ok := s.lookupEnv(env)
	return ok && strings.TrimSpace(v) != ""
}

// Set stores value in the file and writes it immediately.
func (s *FileStore) Set(name, value string) error {
	p := s.field(name)
	if p == nil {
		return errors.Wrapf(ErrUnknownKey, "set %q", name)
	}
	*p = strings.TrimSpace(value)
	return s.save()
}

// IsConfigured is true iff an API key is present and non-empty.
func (s *FileStore) IsConfigured() bool {
	return s.Get(KeyAPIKey) != ""
}

func (s *FileStore) field(name string) *string {
	switch name {
	case KeyAPIKey:
		return &s.file.APIKey
	case KeyBaseURL:
		return &s.file.BaseURL
	case KeyHistoryDSN:
		return &s.file.HistoryDSN
	}
	return nil
}

func (s *FileStore) save() error {
	raw, err := yaml.Marshal(&s.file)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "create config dir")
	}
	if err := writeFileAtomic(s.path, raw, 0o600); err != nil {
		return errors.Wrapf(err, "write config %s", s.path)
	}
	return nil
}

// writeFileAtomic writes to a temp file in the target directory and renames it
// over the target so readers never see a partial file.
func writeFileAtomic(targetPath string, data []byte, perm os.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(targetPath), filepath.Base(targetPath)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpPath, perm); err != nil {
		return err
	}
	return os.Rename(tmpPath, targetPath)
}

// Mask hides a secret, keeping only its last four characters. Secrets of four
// characters or fewer are hidden entirely.
func Mask(secret string) string {
	const stars = "********"
	if len(secret) <= 4 {
		return stars
	}
	return stars + secret[len(secret)-4:]
}
