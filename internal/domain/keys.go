package domain

import "fmt"

const (
	// KeySize is the exact length of every encryption key in bytes.
	KeySize = 32
	// NonceSize is the exact length of every encryption nonce in bytes.
	NonceSize = 24
	// MinUserSecretSize is the minimum length of the long-lived user
	// secret that session keys are derived from.
	MinUserSecretSize = 32
)

// PublicKey is a Curve25519 public key.
type PublicKey [KeySize]byte

func (k PublicKey) Slice() []byte { return k[:] }

// SecretKey is a Curve25519 secret key.
type SecretKey [KeySize]byte

func (k SecretKey) Slice() []byte { return k[:] }

// SessionKey is symmetric key material derived per (session, machine).
// It lives only in process memory and must never be persisted or logged.
type SessionKey [KeySize]byte

func (k SessionKey) Slice() []byte { return k[:] }

// Nonce is a single-use value generated fresh for every encryption.
type Nonce [NonceSize]byte

func (n Nonce) Slice() []byte { return n[:] }

func MustPublicKey(b []byte) PublicKey {
	if len(b) != KeySize {
		panic(fmt.Errorf("public key: want %d bytes, got %d", KeySize, len(b)))
	}
	var out PublicKey
	copy(out[:], b)
	return out
}

func MustSecretKey(b []byte) SecretKey {
	if len(b) != KeySize {
		panic(fmt.Errorf("secret key: want %d bytes, got %d", KeySize, len(b)))
	}
	var out SecretKey
	copy(out[:], b)
	return out
}
