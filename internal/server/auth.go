package server

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type tokenPayload struct {
	Exp int64  `json:"exp"`
	Sub string `json:"sub"` // the authenticated identifier
	Typ string `json:"typ"` // always "session"
}

func secretKeyPath(dir string) string {
	return filepath.Join(dir, "server", "secret.key")
}

// loadOrInitSecretKey returns the signing secret, generating and persisting
// one on first use so tokens survive server restarts.
func loadOrInitSecretKey(dir string) ([]byte, error) {
	path := secretKeyPath(dir)
	if b, err := os.ReadFile(path); err == nil && len(b) > 0 {
		return []byte(strings.TrimSpace(string(b))), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	enc := base64.RawURLEncoding.EncodeToString(raw)
	if err := os.WriteFile(path, []byte(enc+"\n"), 0o600); err != nil {
		return nil, err
	}
	return []byte(enc), nil
}

func signToken(secret []byte, payload tokenPayload) (string, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	p := base64.RawURLEncoding.EncodeToString(b)
	mac := hmac.New(sha256.New, secret)
	_, _ = mac.Write([]byte(p))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	return p + "." + sig, nil
}

func verifyToken(secret []byte, token string) (tokenPayload, error) {
	token = strings.TrimSpace(token)
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return tokenPayload{}, errors.New("invalid token format")
	}
	p, sig := parts[0], parts[1]

	mac := hmac.New(sha256.New, secret)
	_, _ = mac.Write([]byte(p))
	want := mac.Sum(nil)
	got, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return tokenPayload{}, errors.New("invalid token signature")
	}
	if !hmac.Equal(want, got) {
		return tokenPayload{}, errors.New("invalid token signature")
	}

	raw, err := base64.RawURLEncoding.DecodeString(p)
	if err != nil {
		return tokenPayload{}, errors.New("invalid token payload")
	}
	var tp tokenPayload
	if err := json.Unmarshal(raw, &tp); err != nil {
		return tokenPayload{}, errors.New("invalid token payload")
	}
	if tp.Exp == 0 {
		return tokenPayload{}, errors.New("token missing exp")
	}
	if time.Now().Unix() > tp.Exp {
		return tokenPayload{}, errors.New("token expired")
	}
	return tp, nil
}

func newSessionToken(secret []byte, sub string, ttl time.Duration) (string, error) {
	return signToken(secret, tokenPayload{
		Exp: time.Now().Add(ttl).Unix(),
		Sub: sub,
		Typ: "session",
	})
}
