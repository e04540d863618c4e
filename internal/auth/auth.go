// Package auth issues and validates admin credentials. Tokens are opaque
// random strings tracked server-side with an expiry; the hub only ever asks
// whether a presented token is currently valid.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"sync"
	"time"
)

// TokenTTL is how long an issued admin token stays valid.
const TokenTTL = 12 * time.Hour

// Stage-themed words for password generation
var stageWords = []string{
	"mask", "sequin", "spotlight", "encore", "chorus",
	"velvet", "curtain", "feather", "glitter", "diva",
	"fox", "wolf", "peacock", "banana", "monster",
	"stage", "mic", "reveal", "crowd",
}

// Auth handles admin authentication
type Auth struct {
	password string
	tokens   map[string]time.Time
	mu       sync.RWMutex
}

// New creates a new Auth instance with the given password
func New(password string) *Auth {
	return &Auth{
		password: password,
		tokens:   make(map[string]time.Time),
	}
}

// GeneratePassword creates a random 3-word password
func GeneratePassword() string {
	words := make([]string, 3)
	for i := range words {
		idx := randomInt(len(stageWords))
		words[i] = stageWords[idx]
	}
	return strings.Join(words, "-")
}

// Login validates the password and returns an admin token if valid
func (a *Auth) Login(password string) (string, bool) {
	if password != a.password {
		return "", false
	}

	token := generateToken()
	a.mu.Lock()
	a.tokens[token] = time.Now().Add(TokenTTL)
	a.mu.Unlock()

	return token, true
}

// Logout invalidates a token
func (a *Auth) Logout(token string) {
	a.mu.Lock()
	delete(a.tokens, token)
	a.mu.Unlock()
}

// ValidateToken reports whether a presented token is currently valid. It is
// the authorization boundary the hub consults; the context bounds the check
// so a slow validator is treated as a failed one, never a stall.
func (a *Auth) ValidateToken(ctx context.Context, token string) bool {
	if ctx.Err() != nil {
		return false
	}

	a.mu.RLock()
	expiry, exists := a.tokens[token]
	a.mu.RUnlock()

	if !exists {
		return false
	}

	if time.Now().After(expiry) {
		a.mu.Lock()
		delete(a.tokens, token)
		a.mu.Unlock()
		return false
	}

	return true
}

// generateToken creates a random token
func generateToken() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// randomInt returns a random int in [0, max)
func randomInt(max int) int {
	bytes := make([]byte, 1)
	rand.Read(bytes)
	return int(bytes[0]) % max
}
