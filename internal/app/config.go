package app

import "net/http"

// Config holds runtime wiring options for building the app.
type Config struct {
	Home     string       // config directory, e.g. $HOME/.styrby
	RelayURL string       // relay base URL, e.g. https://relay.styrby.dev
	HTTP     *http.Client // optional; defaults to http.DefaultClient
}
