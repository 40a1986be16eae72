package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"smart-tasks/internal/client"
)

const (
	defaultServer      = "http://localhost:5000/api"
	sessionFileName    = ".taskctl.toml"
	sessionPermissions = 0o600
)

// session is the on-disk login state.
type session struct {
	Server string `toml:"server"`
	Token  string `toml:"token,omitempty"`
	Name   string `toml:"name,omitempty"`
	Email  string `toml:"email,omitempty"`
}

func (s session) credentials() client.Credentials {
	return client.Credentials{Token: s.Token}
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return sessionFileName
	}
	return filepath.Join(home, sessionFileName)
}

// loadSession reads path. A missing file yields an empty session.
func loadSession(path string) (session, error) {
	s := session{Server: defaultServer}
	if _, err := toml.DecodeFile(path, &s); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("read session %s: %w", path, err)
	}
	if s.Server == "" {
		s.Server = defaultServer
	}
	return s, nil
}

func saveSession(path string, s session) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create session dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, sessionPermissions)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(s); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}
