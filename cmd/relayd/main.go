// Command relayd is the styrby relay: a cloud intermediary that brokers
// pairing sessions and forwards encrypted envelopes between a machine
// and its paired devices. It stores token hashes and ciphertext only —
// plaintext conversation content never reaches this process.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"styrby/internal/domain"
	"styrby/internal/pairing"
)

// memoryStore keeps pairing sessions and per-session mailboxes in
// memory. Restarting the relay drops pending envelopes; clients
// re-deliver.
type memoryStore struct {
	mu        sync.RWMutex
	pairings  map[string]domain.PairingSession // by id
	mailboxes map[string][]domain.Envelope     // by sessionID
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		pairings:  make(map[string]domain.PairingSession),
		mailboxes: make(map[string][]domain.Envelope),
	}
}

func (m *memoryStore) InsertPairingSession(_ context.Context, ps domain.PairingSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pairings[ps.ID] = ps
	return nil
}

func (m *memoryStore) PairingSessionByTokenHash(_ context.Context, hash string) (domain.PairingSession, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, ps := range m.pairings {
		if ps.TokenHash == hash {
			return ps, true, nil
		}
	}
	return domain.PairingSession{}, false, nil
}

func (m *memoryStore) PairingSessionByID(_ context.Context, id string) (domain.PairingSession, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ps, ok := m.pairings[id]
	return ps, ok, nil
}

func (m *memoryStore) CompletePairingSession(_ context.Context, id, deviceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ps, ok := m.pairings[id]
	if !ok {
		return errors.New("pairing session not found")
	}
	if ps.Completed {
		return domain.ErrPairingSessionCompleted
	}
	ps.Completed = true
	ps.PairedDeviceID = deviceID
	m.pairings[id] = ps
	return nil
}

func (m *memoryStore) appendEnvelope(env domain.Envelope) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mailboxes[env.SessionID] = append(m.mailboxes[env.SessionID], env)
}

func (m *memoryStore) envelopes(sessionID string, after int64, limit int) []domain.Envelope {
	m.mu.RLock()
	defer m.mu.RUnlock()

	envs := append([]domain.Envelope(nil), m.mailboxes[sessionID]...)
	sort.Slice(envs, func(i, j int) bool { return envs[i].SequenceNumber < envs[j].SequenceNumber })

	out := envs[:0:0]
	for _, e := range envs {
		if after > 0 && e.SequenceNumber <= after {
			continue
		}
		out = append(out, e)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

type server struct {
	store  *memoryStore
	broker *pairing.Broker
	log    zerolog.Logger
}

type beginRequest struct {
	UserID    string `json:"userId"`
	MachineID string `json:"machineId"`
	TokenHash string `json:"tokenHash"`
	ExpiresAt int64  `json:"expiresAt"`
}

type completeRequest struct {
	Token    string `json:"token"`
	DeviceID string `json:"deviceId"`
}

func (s *server) handlePairBegin(w http.ResponseWriter, r *http.Request) {
	var req beginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.UserID == "" || req.MachineID == "" || len(req.TokenHash) != 64 {
		http.Error(w, "userId, machineId and a sha256 tokenHash are required", http.StatusBadRequest)
		return
	}
	ps, err := s.broker.Begin(r.Context(), req.TokenHash, req.UserID, req.MachineID, req.ExpiresAt)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.log.Info().Str("pairing_id", ps.ID).Str("machine_id", ps.MachineID).Msg("pairing started")
	writeJSON(w, ps)
}

func (s *server) handlePairComplete(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ps, err := s.broker.Redeem(r.Context(), req.Token, req.DeviceID)
	switch {
	case errors.Is(err, pairing.ErrTokenNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, pairing.ErrTokenExpired):
		http.Error(w, err.Error(), http.StatusGone)
		return
	case errors.Is(err, pairing.ErrAlreadyCompleted):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.log.Info().Str("pairing_id", ps.ID).Str("device_id", ps.PairedDeviceID).Msg("pairing completed")
	writeJSON(w, ps)
}

func (s *server) handlePairStatus(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/pair/")
	ps, ok, err := s.broker.Get(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, ps)
}

func (s *server) handleMessages(w http.ResponseWriter, r *http.Request) {
	// Path shape: /v1/sessions/{sessionID}/messages
	rest := strings.TrimPrefix(r.URL.Path, "/v1/sessions/")
	sessionID, tail, ok := strings.Cut(rest, "/")
	if !ok || tail != "messages" || sessionID == "" {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodPost:
		var env domain.Envelope
		if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		env.SessionID = sessionID
		if env.Timestamp == 0 {
			env.Timestamp = time.Now().UnixMilli()
		}
		s.store.appendEnvelope(env)
		w.WriteHeader(http.StatusNoContent)
	case http.MethodGet:
		after, _ := strconv.ParseInt(r.URL.Query().Get("after"), 10, 64)
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		writeJSON(w, s.store.envelopes(sessionID, after, limit))
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// withLogging logs one line per request.
func withLogging(log zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Str("component", "relayd").Logger()

	ms := newMemoryStore()
	s := &server{store: ms, broker: pairing.NewBroker(ms), log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/pair/begin", s.handlePairBegin)
	mux.HandleFunc("/v1/pair/complete", s.handlePairComplete)
	mux.HandleFunc("/v1/pair/", s.handlePairStatus)
	mux.HandleFunc("/v1/sessions/", s.handleMessages)

	log.Info().Str("addr", *addr).Msg("relay listening")
	if err := http.ListenAndServe(*addr, withLogging(log, mux)); err != nil {
		log.Fatal().Err(err).Msg("relay stopped")
	}
}
