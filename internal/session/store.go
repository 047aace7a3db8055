package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"styrby/internal/crypto"
	"styrby/internal/domain"
	"styrby/internal/keyring"
)

// DecryptionFailedSentinel replaces the content of a record that could
// not be authenticated, so one corrupt record cannot block a history
// read.
const DecryptionFailedSentinel = "[decryption failed]"

// Store encrypts, sequences and persists session messages. It owns the
// key registry and the per-session sequence counters; nothing external
// mutates either.
type Store struct {
	store domain.MessageStore
	keys  *keyring.Registry

	mu       sync.Mutex
	counters map[string]int64 // sessionID -> last assigned sequence
	seeded   map[string]bool  // sessionID -> counter seeded from the store
}

// NewStore returns a Store over the given persistent store and registry.
func NewStore(ms domain.MessageStore, keys *keyring.Registry) *Store {
	return &Store{
		store:    ms,
		keys:     keys,
		counters: make(map[string]int64),
		seeded:   make(map[string]bool),
	}
}

// NextSequence returns the next sequence number for a session: 1 on the
// first call, then +1 per call. Counters are independent across
// sessions.
func (s *Store) NextSequence(sessionID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[sessionID]++
	return s.counters[sessionID]
}

// nextSequencePersisted is NextSequence with restart protection: the
// first touch of a session seeds the counter from the highest persisted
// sequence number, so numbers are never reused after a process restart.
func (s *Store) nextSequencePersisted(ctx context.Context, sessionID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.seeded[sessionID] {
		max, err := s.store.MaxSequence(ctx, sessionID)
		if err != nil {
			return 0, fmt.Errorf("seed sequence counter: %w", err)
		}
		if max > s.counters[sessionID] {
			s.counters[sessionID] = max
		}
		s.seeded[sessionID] = true
	}
	s.counters[sessionID]++
	return s.counters[sessionID], nil
}

// StoreMessage encrypts plaintext under the session key, assigns the
// next sequence number and persists the record. Persistence failures
// propagate to the caller.
func (s *Store) StoreMessage(ctx context.Context, sessionID, machineID, plaintext, messageType string) (domain.MessageRecord, error) {
	key, err := s.keys.GetOrDerive(sessionID, machineID)
	if err != nil {
		return domain.MessageRecord{}, err
	}
	env, err := crypto.EncryptWithKey(plaintext, key)
	if err != nil {
		return domain.MessageRecord{}, err
	}

	seq, err := s.nextSequencePersisted(ctx, sessionID)
	if err != nil {
		return domain.MessageRecord{}, err
	}

	rec := domain.MessageRecord{
		ID:               uuid.NewString(),
		SessionID:        sessionID,
		MachineID:        machineID,
		SequenceNumber:   seq,
		MessageType:      messageType,
		ContentEncrypted: crypto.EncodeForStorage(env.ContentEncrypted),
		EncryptionNonce:  crypto.EncodeForStorage(env.Nonce),
		CreatedAt:        time.Now().UnixMilli(),
	}
	if err := s.store.InsertMessage(ctx, rec); err != nil {
		return domain.MessageRecord{}, fmt.Errorf("persist message: %w", err)
	}
	return rec, nil
}

// Messages returns a session's records in ascending sequence order with
// decrypted content. A record failing decryption gets the sentinel
// content and processing continues; store errors abort the batch.
func (s *Store) Messages(ctx context.Context, sessionID, machineID string, q domain.MessageQuery) ([]domain.Message, error) {
	key, err := s.keys.GetOrDerive(sessionID, machineID)
	if err != nil {
		return nil, err
	}
	recs, err := s.store.ListMessages(ctx, sessionID, q)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	out := make([]domain.Message, 0, len(recs))
	for _, rec := range recs {
		out = append(out, domain.Message{
			ID:             rec.ID,
			SessionID:      rec.SessionID,
			SequenceNumber: rec.SequenceNumber,
			MessageType:    rec.MessageType,
			Content:        decryptRecord(rec, key),
			CreatedAt:      rec.CreatedAt,
		})
	}
	return out, nil
}

// decryptRecord contains per-record failures: any decode or
// authentication problem yields the sentinel.
func decryptRecord(rec domain.MessageRecord, key *domain.SessionKey) string {
	ct, err := crypto.DecodeFromStorage(rec.ContentEncrypted)
	if err != nil {
		return DecryptionFailedSentinel
	}
	nonce, err := crypto.DecodeFromStorage(rec.EncryptionNonce)
	if err != nil {
		return DecryptionFailedSentinel
	}
	pt, err := crypto.DecryptWithKey(ct, nonce, key)
	if err != nil {
		return DecryptionFailedSentinel
	}
	return pt
}

// EndSession drops the session's sequence counter and evicts its cached
// key. Called when a session ends or errors.
func (s *Store) EndSession(sessionID, machineID string) {
	s.mu.Lock()
	delete(s.counters, sessionID)
	delete(s.seeded, sessionID)
	s.mu.Unlock()

	s.keys.Evict(sessionID, machineID)
}
