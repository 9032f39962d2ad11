// Package config locates the files todo keeps on disk and carries the
// Firestore connection parameters read from the environment.
package config

import (
	"errors"
	"os"
	"path/filepath"
)

const (
	AppName         = "todo"
	OAuthClientFile = "oauth_client.json"
	TokenFile       = "token.json"
)

// ErrCredentials marks a stored credential file that exists but cannot be used.
var ErrCredentials = errors.New("unusable stored credentials")

// Config is what every command receives: where the credential files live,
// which Firebase project to talk to, and the common output flags.
type Config struct {
	Dir      string
	Firebase Firebase

	Debug bool
	Quiet bool
}

// New builds a Config rooted at configDir, or at DefaultConfigDir when it is
// empty. Firebase is filled from the environment and validated later, only by
// commands that open the store.
func New(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	return &Config{Dir: configDir, Firebase: FirebaseFromEnv()}, nil
}

// DefaultConfigDir is $XDG_CONFIG_HOME/todo, else ~/.config/todo.
func DefaultConfigDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return AppName
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, AppName)
}

func (c *Config) file(name string) string { return filepath.Join(c.Dir, name) }

func (c *Config) OAuthClientPath() string { return c.file(OAuthClientFile) }

func (c *Config) TokenPath() string { return c.file(TokenFile) }

// EnsureDir creates Dir owner-only; the token is a bearer credential.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0o700)
}

func (c *Config) HasOAuthClient() bool { return exists(c.OAuthClientPath()) }

func (c *Config) HasToken() bool { return exists(c.TokenPath()) }

// RemoveToken deletes token.json. A missing file is reported as an error
// satisfying errors.Is(err, fs.ErrNotExist).
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
