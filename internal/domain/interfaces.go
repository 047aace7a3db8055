package domain

import (
	"context"
	"errors"
)

// ErrPairingSessionCompleted is returned by CompletePairingSession when
// the record was already completed by an earlier call.
var ErrPairingSessionCompleted = errors.New("pairing session already completed")

// MessageStore persists encrypted session messages.
type MessageStore interface {
	// InsertMessage appends a record. Sequence numbers are assigned by
	// the caller; the store must reject nothing but I/O failures.
	InsertMessage(ctx context.Context, rec MessageRecord) error

	// ListMessages returns records for a session ordered by ascending
	// sequence number, narrowed by q.
	ListMessages(ctx context.Context, sessionID string, q MessageQuery) ([]MessageRecord, error)

	// MaxSequence returns the highest persisted sequence number for a
	// session, or 0 when the session has no records.
	MaxSequence(ctx context.Context, sessionID string) (int64, error)
}

// PairingStore persists server-side pairing sessions.
type PairingStore interface {
	InsertPairingSession(ctx context.Context, ps PairingSession) error

	// PairingSessionByTokenHash looks a record up by its token hash.
	PairingSessionByTokenHash(ctx context.Context, tokenHash string) (PairingSession, bool, error)

	// PairingSessionByID looks a record up by its id.
	PairingSessionByID(ctx context.Context, id string) (PairingSession, bool, error)

	// CompletePairingSession marks a record completed and attaches the
	// paired device. This is the single-use enforcement point: the check
	// and the write happen under one lock, and a record that is already
	// completed yields ErrPairingSessionCompleted.
	CompletePairingSession(ctx context.Context, id, deviceID string) error
}

// IdentityStore persists the local device identity, encrypted at rest.
type IdentityStore interface {
	SaveIdentity(passphrase string, id DeviceIdentity) error
	LoadIdentity(passphrase string) (DeviceIdentity, error)
}

// RelayTransport moves already-encrypted envelopes between devices. The
// transport is opaque: implementations may batch, retry or reorder, but
// must never inspect payloads.
type RelayTransport interface {
	Send(ctx context.Context, env Envelope) error
	Fetch(ctx context.Context, sessionID string, limit int) ([]Envelope, error)
}
