package auth

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	a := New("test-password")

	if a == nil {
		t.Fatal("expected auth to be created")
	}
	if a.password != "test-password" {
		t.Error("expected password to be set")
	}
	if a.tokens == nil {
		t.Error("expected tokens map to be initialized")
	}
}

func TestGeneratePassword_Format(t *testing.T) {
	pw := GeneratePassword()

	parts := strings.Split(pw, "-")
	if len(parts) != 3 {
		t.Errorf("expected 3 words separated by dashes, got %d parts: %s", len(parts), pw)
	}

	// Verify each part is from stageWords
	for _, part := range parts {
		found := false
		for _, word := range stageWords {
			if part == word {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("word %q not in stageWords list", part)
		}
	}
}

func TestGeneratePassword_Randomness(t *testing.T) {
	passwords := make(map[string]bool)
	for i := 0; i < 10; i++ {
		passwords[GeneratePassword()] = true
	}

	// With 19 words and 3 positions, collisions should be rare
	if len(passwords) < 3 {
		t.Errorf("expected more password variety, got only %d unique passwords", len(passwords))
	}
}

func TestLogin_ValidPassword(t *testing.T) {
	a := New("correct-password")

	token, ok := a.Login("correct-password")

	if !ok {
		t.Error("expected login to succeed with correct password")
	}
	if token == "" {
		t.Error("expected token to be returned")
	}
	if len(token) != 64 { // 32 bytes = 64 hex chars
		t.Errorf("expected 64-char token, got %d chars", len(token))
	}
}

func TestLogin_InvalidPassword(t *testing.T) {
	a := New("correct-password")

	token, ok := a.Login("wrong-password")

	if ok {
		t.Error("expected login to fail with wrong password")
	}
	if token != "" {
		t.Error("expected no token on failed login")
	}
}

func TestValidateToken(t *testing.T) {
	a := New("pw")
	ctx := context.Background()

	token, _ := a.Login("pw")

	if !a.ValidateToken(ctx, token) {
		t.Error("expected freshly issued token to be valid")
	}
	if a.ValidateToken(ctx, "made-up-token") {
		t.Error("expected unknown token to be invalid")
	}
}

func TestValidateToken_Expired(t *testing.T) {
	a := New("pw")
	ctx := context.Background()

	token, _ := a.Login("pw")

	// Force the token into the past
	a.mu.Lock()
	a.tokens[token] = time.Now().Add(-time.Minute)
	a.mu.Unlock()

	if a.ValidateToken(ctx, token) {
		t.Error("expected expired token to be invalid")
	}

	// Expired tokens are pruned
	a.mu.RLock()
	_, exists := a.tokens[token]
	a.mu.RUnlock()
	if exists {
		t.Error("expected expired token to be removed")
	}
}

func TestValidateToken_CancelledContext(t *testing.T) {
	a := New("pw")
	token, _ := a.Login("pw")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if a.ValidateToken(ctx, token) {
		t.Error("expected validation to fail once the context is done")
	}
}

func TestLogout(t *testing.T) {
	a := New("pw")
	ctx := context.Background()

	token, _ := a.Login("pw")
	a.Logout(token)

	if a.ValidateToken(ctx, token) {
		t.Error("expected token to be invalid after logout")
	}
}

func TestLogout_UnknownTokenIsNoop(t *testing.T) {
	a := New("pw")
	a.Logout("never-issued") // must not panic
}

func TestLogin_IssuesDistinctTokens(t *testing.T) {
	a := New("pw")

	t1, _ := a.Login("pw")
	t2, _ := a.Login("pw")

	if t1 == t2 {
		t.Error("expected each login to mint a distinct token")
	}

	// Both stay valid until logged out
	ctx := context.Background()
	if !a.ValidateToken(ctx, t1) || !a.ValidateToken(ctx, t2) {
		t.Error("expected both tokens to be valid")
	}
}
