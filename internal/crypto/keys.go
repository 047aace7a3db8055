package crypto

import (
	"crypto/rand"

	"golang.org/x/crypto/nacl/box"

	"styrby/internal/domain"
)

// GenerateKeyPair returns a fresh Curve25519 key pair for a device.
func GenerateKeyPair() (pub domain.PublicKey, priv domain.SecretKey, err error) {
	p, s, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return pub, priv, err
	}
	copy(pub[:], p[:])
	copy(priv[:], s[:])
	return pub, priv, nil
}
