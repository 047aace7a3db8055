package pairing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"styrby/internal/domain"
)

var (
	// ErrTokenNotFound is returned when no pairing session matches the
	// presented token.
	ErrTokenNotFound = errors.New("pairing token not found")
	// ErrTokenExpired is returned for a token past its deadline.
	ErrTokenExpired = errors.New("pairing token expired")
	// ErrAlreadyCompleted is returned when a token is presented twice.
	ErrAlreadyCompleted = errors.New("pairing already completed")
)

// Broker manages server-side pairing sessions. It stores only token
// hashes and enforces the created -> (redeemed | expired) state machine:
// a token redeems at most once, and only before its deadline.
type Broker struct {
	store domain.PairingStore
	now   func() time.Time
}

// NewBroker returns a Broker over the given store.
func NewBroker(store domain.PairingStore) *Broker {
	return &Broker{store: store, now: time.Now}
}

// Begin records a new pairing session. It takes the token's hash, not
// the token: the CLI hashes before the value ever crosses the wire, so
// the broker and its store never see the plaintext token.
func (b *Broker) Begin(ctx context.Context, tokenHash, userID, machineID string, expiresAt int64) (domain.PairingSession, error) {
	ps := domain.PairingSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		MachineID: machineID,
		TokenHash: tokenHash,
		CreatedAt: b.now().UnixMilli(),
		ExpiresAt: expiresAt,
	}
	if err := b.store.InsertPairingSession(ctx, ps); err != nil {
		return domain.PairingSession{}, err
	}
	return ps, nil
}

// Get looks a pairing session up by id, for status polling.
func (b *Broker) Get(ctx context.Context, id string) (domain.PairingSession, bool, error) {
	return b.store.PairingSessionByID(ctx, id)
}

// Redeem marks the session matching token as completed by deviceID.
// Expired or already-completed sessions are inert. The lookup here is a
// fast path only: single use is enforced by CompletePairingSession,
// which checks and writes under one lock, so two concurrent redeems of
// the same token cannot both succeed.
func (b *Broker) Redeem(ctx context.Context, token, deviceID string) (domain.PairingSession, error) {
	ps, ok, err := b.store.PairingSessionByTokenHash(ctx, HashToken(token))
	if err != nil {
		return domain.PairingSession{}, err
	}
	if !ok {
		return domain.PairingSession{}, ErrTokenNotFound
	}
	if ps.Completed {
		return domain.PairingSession{}, ErrAlreadyCompleted
	}
	if ps.ExpiresAt < b.now().UnixMilli() {
		return domain.PairingSession{}, ErrTokenExpired
	}
	if err := b.store.CompletePairingSession(ctx, ps.ID, deviceID); err != nil {
		if errors.Is(err, domain.ErrPairingSessionCompleted) {
			return domain.PairingSession{}, ErrAlreadyCompleted
		}
		return domain.PairingSession{}, err
	}
	ps.Completed = true
	ps.PairedDeviceID = deviceID
	return ps, nil
}
