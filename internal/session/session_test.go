package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTokenAbsentByDefault(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	if tok, ok := s.Token(); ok || tok != "" {
		t.Fatalf("expected no token, got %q (ok=%v)", tok, ok)
	}
}

func TestSetTokenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := Store{Dir: dir}
	if err := s.SetToken("abc.def"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}

	tok, ok := s.Token()
	if !ok || tok != "abc.def" {
		t.Fatalf("expected abc.def, got %q (ok=%v)", tok, ok)
	}

	// A fresh Store over the same dir sees the same credential (survives restart).
	tok, ok = (Store{Dir: dir}).Token()
	if !ok || tok != "abc.def" {
		t.Fatalf("expected persisted token, got %q (ok=%v)", tok, ok)
	}
}

func TestSetTokenRejectsEmpty(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	if err := s.SetToken("   "); err == nil {
		t.Fatalf("expected error for empty token")
	}
}

func TestSetTokenOverwrites(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	if err := s.SetToken("first"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	if err := s.SetToken("second"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	if tok, _ := s.Token(); tok != "second" {
		t.Fatalf("expected second, got %q", tok)
	}
}

func TestClear(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear on absent token: %v", err)
	}
	if err := s.SetToken("tok"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok := s.Token(); ok {
		t.Fatalf("expected token cleared")
	}
}

func TestWhitespaceOnlyFileIsAbsent(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "session.token"), []byte("\n \n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, ok := (Store{Dir: dir}).Token(); ok {
		t.Fatalf("whitespace-only file should read as absent")
	}
}
