package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// tokenStore keeps the access token between invocations.
type tokenStore struct {
	path string
}

func defaultTokenStore() tokenStore {
	if dir := strings.TrimSpace(os.Getenv("ORGCHAT_HOME")); dir != "" {
		return tokenStore{path: filepath.Join(dir, "token")}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return tokenStore{path: filepath.Join(home, ".orgchat", "token")}
}

// Load returns "" without error when no token has been saved.
func (s tokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s tokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

func (s tokenStore) Remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

// historyFile sits next to the token.
func (s tokenStore) historyFile() string {
	return filepath.Join(filepath.Dir(s.path), "history")
}
