package server

import (
	"strings"
	"testing"
	"time"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	secret, err := loadOrInitSecretKey(t.TempDir())
	if err != nil {
		t.Fatalf("loadOrInitSecretKey: %v", err)
	}

	tok, err := newSessionToken(secret, "admin@example.com", time.Hour)
	if err != nil {
		t.Fatalf("newSessionToken: %v", err)
	}

	tp, err := verifyToken(secret, tok)
	if err != nil {
		t.Fatalf("verifyToken: %v", err)
	}
	if tp.Sub != "admin@example.com" || tp.Typ != "session" {
		t.Fatalf("unexpected payload: %+v", tp)
	}
}

func TestSecretKeyPersists(t *testing.T) {
	dir := t.TempDir()
	first, err := loadOrInitSecretKey(dir)
	if err != nil {
		t.Fatalf("loadOrInitSecretKey: %v", err)
	}
	second, err := loadOrInitSecretKey(dir)
	if err != nil {
		t.Fatalf("loadOrInitSecretKey: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("secret changed between loads")
	}
}

func TestVerifyTokenRejectsTampering(t *testing.T) {
	secret, _ := loadOrInitSecretKey(t.TempDir())
	tok, err := newSessionToken(secret, "admin", time.Hour)
	if err != nil {
		t.Fatalf("newSessionToken: %v", err)
	}

	cases := []string{
		"",
		"not-a-token",
		tok + "x",
		strings.Replace(tok, ".", "x", 1),
	}
	for _, bad := range cases {
		if _, err := verifyToken(secret, bad); err == nil {
			t.Fatalf("expected rejection for %q", bad)
		}
	}

	other, _ := loadOrInitSecretKey(t.TempDir())
	if _, err := verifyToken(other, tok); err == nil {
		t.Fatalf("token signed with another secret must not verify")
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	secret, _ := loadOrInitSecretKey(t.TempDir())
	tok, err := newSessionToken(secret, "admin", -time.Minute)
	if err != nil {
		t.Fatalf("newSessionToken: %v", err)
	}
	if _, err := verifyToken(secret, tok); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}
