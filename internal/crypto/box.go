package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/box"
	"golang.org/x/crypto/nacl/secretbox"

	"styrby/internal/domain"
)

var (
	// ErrInvalidKeyLength is returned when a key is not exactly 32 bytes.
	ErrInvalidKeyLength = errors.New("invalid key length")
	// ErrInvalidNonceLength is returned when a nonce is not exactly 24 bytes.
	ErrInvalidNonceLength = errors.New("invalid nonce length")
	// ErrEmptyMessage is returned when the plaintext is empty.
	ErrEmptyMessage = errors.New("message must not be empty")
	// ErrDecryptionFailed is returned whenever authentication fails.
	// It is deliberately non-specific so callers cannot distinguish a
	// wrong key from tampered ciphertext.
	ErrDecryptionFailed = errors.New("decryption failed")
)

func checkKey(name string, key []byte) error {
	if len(key) != domain.KeySize {
		return fmt.Errorf("%w: %s must be %d bytes, got %d",
			ErrInvalidKeyLength, name, domain.KeySize, len(key))
	}
	return nil
}

func freshNonce() (nonce [domain.NonceSize]byte, err error) {
	_, err = io.ReadFull(rand.Reader, nonce[:])
	return nonce, err
}

// Encrypt seals plaintext for recipientPub using senderPriv. A fresh
// random nonce is generated per call, so encrypting identical plaintext
// twice yields different ciphertext and nonce each time.
func Encrypt(plaintext string, recipientPub, senderPriv []byte) (domain.EncryptedPayload, error) {
	if len(plaintext) == 0 {
		return domain.EncryptedPayload{}, ErrEmptyMessage
	}
	if err := checkKey("recipient public key", recipientPub); err != nil {
		return domain.EncryptedPayload{}, err
	}
	if err := checkKey("sender secret key", senderPriv); err != nil {
		return domain.EncryptedPayload{}, err
	}

	nonce, err := freshNonce()
	if err != nil {
		return domain.EncryptedPayload{}, err
	}
	var pub, priv [domain.KeySize]byte
	copy(pub[:], recipientPub)
	copy(priv[:], senderPriv)

	ct := box.Seal(nil, []byte(plaintext), &nonce, &pub, &priv)
	return domain.EncryptedPayload{
		ContentEncrypted: ct,
		Nonce:            append([]byte(nil), nonce[:]...),
	}, nil
}

// Decrypt opens ciphertext produced by Encrypt. Any authentication
// failure returns ErrDecryptionFailed.
func Decrypt(ciphertext, nonce, senderPub, recipientPriv []byte) (string, error) {
	if len(nonce) != domain.NonceSize {
		return "", fmt.Errorf("%w: nonce must be %d bytes, got %d",
			ErrInvalidNonceLength, domain.NonceSize, len(nonce))
	}
	if err := checkKey("sender public key", senderPub); err != nil {
		return "", err
	}
	if err := checkKey("recipient secret key", recipientPriv); err != nil {
		return "", err
	}

	var n [domain.NonceSize]byte
	copy(n[:], nonce)
	var pub, priv [domain.KeySize]byte
	copy(pub[:], senderPub)
	copy(priv[:], recipientPriv)

	pt, ok := box.Open(nil, ciphertext, &n, &pub, &priv)
	if !ok {
		return "", ErrDecryptionFailed
	}
	return string(pt), nil
}

// EncryptWithKey seals plaintext under a derived session key. The nonce
// is random per call, exactly as in Encrypt.
func EncryptWithKey(plaintext string, key *domain.SessionKey) (domain.EncryptedPayload, error) {
	if len(plaintext) == 0 {
		return domain.EncryptedPayload{}, ErrEmptyMessage
	}
	if key == nil {
		return domain.EncryptedPayload{}, fmt.Errorf("%w: session key must be %d bytes, got 0",
			ErrInvalidKeyLength, domain.KeySize)
	}

	nonce, err := freshNonce()
	if err != nil {
		return domain.EncryptedPayload{}, err
	}
	ct := secretbox.Seal(nil, []byte(plaintext), &nonce, (*[domain.KeySize]byte)(key))
	return domain.EncryptedPayload{
		ContentEncrypted: ct,
		Nonce:            append([]byte(nil), nonce[:]...),
	}, nil
}

// DecryptWithKey opens ciphertext sealed by EncryptWithKey.
func DecryptWithKey(ciphertext, nonce []byte, key *domain.SessionKey) (string, error) {
	if len(nonce) != domain.NonceSize {
		return "", fmt.Errorf("%w: nonce must be %d bytes, got %d",
			ErrInvalidNonceLength, domain.NonceSize, len(nonce))
	}
	if key == nil {
		return "", fmt.Errorf("%w: session key must be %d bytes, got 0",
			ErrInvalidKeyLength, domain.KeySize)
	}

	var n [domain.NonceSize]byte
	copy(n[:], nonce)
	pt, ok := secretbox.Open(nil, ciphertext, &n, (*[domain.KeySize]byte)(key))
	if !ok {
		return "", ErrDecryptionFailed
	}
	return string(pt), nil
}
