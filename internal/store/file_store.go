package store

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"sync"

	"styrby/internal/domain"
)

const (
	messagesFile = "messages.json" // map[sessionID][]MessageRecord
	pairingsFile = "pairings.json" // map[id]PairingSession
)

// ErrPairingSessionNotFound is returned when completing an unknown
// pairing session.
var ErrPairingSessionNotFound = errors.New("pairing session not found")

// FileStore persists message and pairing records as JSON under dir.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore returns a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore { return &FileStore{dir: dir} }

// ---------- Messages ----------

func (s *FileStore) InsertMessage(_ context.Context, rec domain.MessageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, messagesFile)
	m := make(map[string][]domain.MessageRecord)
	if err := readJSON(path, &m); err != nil {
		return err
	}
	m[rec.SessionID] = append(m[rec.SessionID], rec)
	return writeJSON(path, m, 0o600)
}

func (s *FileStore) ListMessages(_ context.Context, sessionID string, q domain.MessageQuery) ([]domain.MessageRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := make(map[string][]domain.MessageRecord)
	if err := readJSON(filepath.Join(s.dir, messagesFile), &m); err != nil {
		return nil, err
	}
	recs := append([]domain.MessageRecord(nil), m[sessionID]...)
	sort.Slice(recs, func(i, j int) bool { return recs[i].SequenceNumber < recs[j].SequenceNumber })

	out := make([]domain.MessageRecord, 0, len(recs))
	for _, r := range recs {
		if q.AfterSequence > 0 && r.SequenceNumber <= q.AfterSequence {
			continue
		}
		out = append(out, r)
	}
	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return nil, nil
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *FileStore) MaxSequence(_ context.Context, sessionID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := make(map[string][]domain.MessageRecord)
	if err := readJSON(filepath.Join(s.dir, messagesFile), &m); err != nil {
		return 0, err
	}
	var max int64
	for _, r := range m[sessionID] {
		if r.SequenceNumber > max {
			max = r.SequenceNumber
		}
	}
	return max, nil
}

// ---------- Pairing sessions ----------

func (s *FileStore) InsertPairingSession(_ context.Context, ps domain.PairingSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, pairingsFile)
	m := make(map[string]domain.PairingSession)
	if err := readJSON(path, &m); err != nil {
		return err
	}
	m[ps.ID] = ps
	return writeJSON(path, m, 0o600)
}

func (s *FileStore) PairingSessionByTokenHash(_ context.Context, tokenHash string) (domain.PairingSession, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := make(map[string]domain.PairingSession)
	if err := readJSON(filepath.Join(s.dir, pairingsFile), &m); err != nil {
		return domain.PairingSession{}, false, err
	}
	for _, ps := range m {
		if ps.TokenHash == tokenHash {
			return ps, true, nil
		}
	}
	return domain.PairingSession{}, false, nil
}

func (s *FileStore) PairingSessionByID(_ context.Context, id string) (domain.PairingSession, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := make(map[string]domain.PairingSession)
	if err := readJSON(filepath.Join(s.dir, pairingsFile), &m); err != nil {
		return domain.PairingSession{}, false, err
	}
	ps, ok := m[id]
	return ps, ok, nil
}

func (s *FileStore) CompletePairingSession(_ context.Context, id, deviceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, pairingsFile)
	m := make(map[string]domain.PairingSession)
	if err := readJSON(path, &m); err != nil {
		return err
	}
	ps, ok := m[id]
	if !ok {
		return ErrPairingSessionNotFound
	}
	if ps.Completed {
		return domain.ErrPairingSessionCompleted
	}
	ps.Completed = true
	ps.PairedDeviceID = deviceID
	m[id] = ps
	return writeJSON(path, m, 0o600)
}

// Compile-time assertions that FileStore implements the store interfaces.
var (
	_ domain.MessageStore = (*FileStore)(nil)
	_ domain.PairingStore = (*FileStore)(nil)
)
