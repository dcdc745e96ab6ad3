package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Store persists the bearer credential across restarts. It is a single
// opaque string under a fixed file in the state dir; expiry decisions live
// with the caller (the root controller), never here.
type Store struct {
	Dir string
}

const tokenFileName = "session.token"

func (s Store) tokenPath() string {
	return filepath.Join(strings.TrimSpace(s.Dir), tokenFileName)
}

// Token returns the persisted credential, or ok=false when absent.
func (s Store) Token() (string, bool) {
	b, err := os.ReadFile(s.tokenPath())
	if err != nil {
		return "", false
	}
	tok := strings.TrimSpace(string(b))
	if tok == "" {
		return "", false
	}
	return tok, true
}

// SetToken persists the credential, replacing any previous one.
func (s Store) SetToken(tok string) error {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return errors.New("empty token")
	}
	if err := os.MkdirAll(filepath.Dir(s.tokenPath()), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.tokenPath(), []byte(tok+"\n"), 0o600)
}

// Clear removes the persisted credential. Clearing an absent credential is
// not an error.
func (s Store) Clear() error {
	err := os.Remove(s.tokenPath())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
