package app

import (
	"net/http"

	"styrby/internal/domain"
	"styrby/internal/keyring"
	"styrby/internal/relay"
	"styrby/internal/session"
	"styrby/internal/store"
)

// Wire bundles stores and clients for the CLI. The session message
// store is built separately via Messages once the identity has been
// unlocked, since it needs the user secret.
type Wire struct {
	Identity domain.IdentityStore
	Files    *store.FileStore
	Relay    *relay.Client
	HTTP     *http.Client
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) *Wire {
	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	var rc *relay.Client
	if cfg.RelayURL != "" {
		rc = relay.NewClient(cfg.RelayURL, httpClient)
	}

	return &Wire{
		Identity: store.NewIdentityFileStore(cfg.Home),
		Files:    store.NewFileStore(cfg.Home),
		Relay:    rc,
		HTTP:     httpClient,
	}
}

// Messages builds the encrypted message store for an unlocked identity.
func (w *Wire) Messages(id domain.DeviceIdentity) *session.Store {
	return session.NewStore(w.Files, keyring.NewRegistry(id.UserSecret))
}
