package auth

import "testing"

func TestHashAndVerifyToken(t *testing.T) {
	t.Parallel()

	hash, err := HashToken("monitor-admin-token")
	if err != nil {
		t.Fatalf("hash token: %v", err)
	}
	if hash == "" {
		t.Fatalf("expected non-empty hash")
	}
	if !VerifyToken("monitor-admin-token", hash) {
		t.Fatalf("expected token verification to succeed")
	}
	if VerifyToken("wrong-token", hash) {
		t.Fatalf("did not expect wrong token to verify")
	}
	if VerifyToken("", hash) {
		t.Fatalf("did not expect empty token to verify")
	}
}

func TestTokenFromHeader(t *testing.T) {
	t.Parallel()

	if got := TokenFromHeader("Bearer abc123"); got != "abc123" {
		t.Fatalf("unexpected token: %q", got)
	}
	if got := TokenFromHeader("bearer  abc123 "); got != "abc123" {
		t.Fatalf("unexpected token: %q", got)
	}
	if got := TokenFromHeader("abc123"); got != "abc123" {
		t.Fatalf("unexpected bare token: %q", got)
	}
	if got := TokenFromHeader(""); got != "" {
		t.Fatalf("expected empty token, got %q", got)
	}
}
