package keyring

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"styrby/internal/domain"
)

// kdfLabel separates this derivation from any other HKDF use of the
// user secret. Changing it invalidates every derived key.
const kdfLabel = "styrby.session-key.v1"

// ErrShortUserSecret is returned when the user secret is under 32 bytes.
var ErrShortUserSecret = errors.New("user secret too short")

// DeriveSessionKey deterministically derives a 32-byte key from
// (userSecret, sessionID, machineID). The function is one-way: the
// secret cannot be recovered from derived keys.
func DeriveSessionKey(userSecret []byte, sessionID, machineID string) (*domain.SessionKey, error) {
	if len(userSecret) < domain.MinUserSecretSize {
		return nil, fmt.Errorf("%w: need at least %d bytes, got %d",
			ErrShortUserSecret, domain.MinUserSecretSize, len(userSecret))
	}

	// Length-prefix each field so ("ab","c") and ("a","bc") cannot
	// produce the same info string.
	info := make([]byte, 0, 8+len(sessionID)+len(machineID))
	info = binary.BigEndian.AppendUint32(info, uint32(len(sessionID)))
	info = append(info, sessionID...)
	info = binary.BigEndian.AppendUint32(info, uint32(len(machineID)))
	info = append(info, machineID...)

	r := hkdf.New(sha256.New, userSecret, []byte(kdfLabel), info)
	var key domain.SessionKey
	if _, err := io.ReadFull(r, key[:]); err != nil {
		return nil, fmt.Errorf("derive session key: %w", err)
	}
	return &key, nil
}
