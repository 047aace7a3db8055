package keyring_test

import (
	"bytes"
	"errors"
	"testing"

	"styrby/internal/keyring"
)

func secret() []byte { return bytes.Repeat([]byte{0x42}, 32) }

func TestDeriveSessionKey_Deterministic(t *testing.T) {
	a, err := keyring.DeriveSessionKey(secret(), "sess-1", "mach-1")
	if err != nil {
		t.Fatalf("DeriveSessionKey: %v", err)
	}
	b, err := keyring.DeriveSessionKey(secret(), "sess-1", "mach-1")
	if err != nil {
		t.Fatalf("DeriveSessionKey: %v", err)
	}
	if !bytes.Equal(a[:], b[:]) {
		t.Fatal("same inputs derived different keys")
	}
}

func TestDeriveSessionKey_DomainSeparation(t *testing.T) {
	base, err := keyring.DeriveSessionKey(secret(), "sess-1", "mach-1")
	if err != nil {
		t.Fatalf("DeriveSessionKey: %v", err)
	}

	otherSession, _ := keyring.DeriveSessionKey(secret(), "sess-2", "mach-1")
	otherMachine, _ := keyring.DeriveSessionKey(secret(), "sess-1", "mach-2")
	if bytes.Equal(base[:], otherSession[:]) {
		t.Fatal("different sessions share a key")
	}
	if bytes.Equal(base[:], otherMachine[:]) {
		t.Fatal("different machines share a key")
	}

	// Field boundaries are length-prefixed, so shifting bytes between
	// session and machine IDs must change the key.
	shifted, _ := keyring.DeriveSessionKey(secret(), "sess-1m", "ach-1")
	if bytes.Equal(base[:], shifted[:]) {
		t.Fatal("field boundary ambiguity in derivation input")
	}

	otherSecret, _ := keyring.DeriveSessionKey(bytes.Repeat([]byte{0x43}, 32), "sess-1", "mach-1")
	if bytes.Equal(base[:], otherSecret[:]) {
		t.Fatal("different secrets share a key")
	}
}

func TestDeriveSessionKey_ShortSecret(t *testing.T) {
	if _, err := keyring.DeriveSessionKey(make([]byte, 16), "s", "m"); !errors.Is(err, keyring.ErrShortUserSecret) {
		t.Fatalf("want ErrShortUserSecret, got %v", err)
	}
}
