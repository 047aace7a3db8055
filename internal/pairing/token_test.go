package pairing_test

import (
	"regexp"
	"strings"
	"testing"

	"styrby/internal/pairing"
)

func TestGenerateToken_Shape(t *testing.T) {
	tokenRE := regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		tok, err := pairing.GenerateToken()
		if err != nil {
			t.Fatalf("GenerateToken: %v", err)
		}
		if len(tok) != 43 {
			t.Fatalf("token length: got %d, want 43", len(tok))
		}
		if !tokenRE.MatchString(tok) {
			t.Fatalf("token has characters outside base64url: %q", tok)
		}
		if seen[tok] {
			t.Fatalf("duplicate token on call %d", i)
		}
		seen[tok] = true
	}
}

func TestHashToken(t *testing.T) {
	h := pairing.HashToken("t")
	if len(h) != 64 {
		t.Fatalf("hash length: got %d, want 64", len(h))
	}
	if h != strings.ToLower(h) {
		t.Fatalf("hash not lowercase: %q", h)
	}
	if h != pairing.HashToken("t") {
		t.Fatal("hash unstable across calls")
	}
	if h == pairing.HashToken("u") {
		t.Fatal("distinct tokens share a hash")
	}
	// Known SHA-256("t").
	if h != "e3b98a4da31a127d4bde6e43033f66ba274cab0eb7eb1c70ec41402bf6273dd8" {
		t.Fatalf("unexpected digest: %s", h)
	}
}
