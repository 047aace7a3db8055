package relay

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"styrby/internal/domain"
)

// EventKind labels events on the relay stream.
type EventKind string

const (
	// EventMessage carries a new encrypted envelope for the session.
	EventMessage EventKind = "message"
	// EventPairingCompleted signals that a device redeemed the token.
	EventPairingCompleted EventKind = "pairing_completed"
)

// Event is one item on the relay's typed event stream.
type Event struct {
	Kind      EventKind
	SessionID string
	DeviceID  string
	Envelope  *domain.Envelope // set for EventMessage
}

// SubscribeOptions tunes a Subscribe loop. Zero values get defaults.
type SubscribeOptions struct {
	// Interval between polls. Defaults to 2s.
	Interval time.Duration
	// PairingID, when set, is additionally polled and produces one
	// EventPairingCompleted when the session completes.
	PairingID string
	// Buffer is the channel capacity. Defaults to 16.
	Buffer int
}

// Subscribe polls the relay for a session and delivers typed events
// until ctx is cancelled, then closes the channel. The consumer owns
// backpressure: a full channel pauses the poll loop rather than dropping
// events.
func (c *Client) Subscribe(ctx context.Context, sessionID string, log zerolog.Logger, opts SubscribeOptions) <-chan Event {
	if opts.Interval <= 0 {
		opts.Interval = 2 * time.Second
	}
	if opts.Buffer <= 0 {
		opts.Buffer = 16
	}
	ch := make(chan Event, opts.Buffer)

	go func() {
		defer close(ch)

		ticker := time.NewTicker(opts.Interval)
		defer ticker.Stop()

		var lastSeq int64
		pairingDone := opts.PairingID == ""

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			if !pairingDone {
				ps, err := c.PairingStatus(ctx, opts.PairingID)
				if err != nil {
					log.Warn().Err(err).Str("pairing_id", opts.PairingID).Msg("pairing status poll failed")
				} else if ps.Completed {
					pairingDone = true
					ev := Event{Kind: EventPairingCompleted, SessionID: sessionID, DeviceID: ps.PairedDeviceID}
					select {
					case ch <- ev:
					case <-ctx.Done():
						return
					}
				}
			}

			envs, err := c.FetchAfter(ctx, sessionID, lastSeq, 0)
			if err != nil {
				log.Warn().Err(err).Str("session_id", sessionID).Msg("message poll failed")
				continue
			}
			for i := range envs {
				env := envs[i]
				if env.SequenceNumber > lastSeq {
					lastSeq = env.SequenceNumber
				}
				ev := Event{Kind: EventMessage, SessionID: sessionID, DeviceID: env.DeviceID, Envelope: &env}
				select {
				case ch <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch
}
