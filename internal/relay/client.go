package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"styrby/internal/domain"
)

// Client is the HTTP relay client.
type Client struct {
	base string
	http *http.Client
}

// NewClient returns a Client for the relay at base. A nil httpClient
// falls back to http.DefaultClient.
func NewClient(base string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{base: base, http: httpClient}
}

// beginPairingRequest is what the CLI sends to open a pairing window.
// Only the token hash crosses the wire.
type beginPairingRequest struct {
	UserID    string `json:"userId"`
	MachineID string `json:"machineId"`
	TokenHash string `json:"tokenHash"`
	ExpiresAt int64  `json:"expiresAt"`
}

// completePairingRequest is what the mobile device sends to redeem a
// scanned token.
type completePairingRequest struct {
	Token    string `json:"token"`
	DeviceID string `json:"deviceId"`
}

// BeginPairing registers a pairing window with the relay.
func (c *Client) BeginPairing(ctx context.Context, userID, machineID, tokenHash string, expiresAt int64) (domain.PairingSession, error) {
	var out domain.PairingSession
	err := c.post(ctx, "/v1/pair/begin", beginPairingRequest{
		UserID:    userID,
		MachineID: machineID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
	}, &out)
	return out, err
}

// CompletePairing redeems a scanned token for deviceID.
func (c *Client) CompletePairing(ctx context.Context, token, deviceID string) (domain.PairingSession, error) {
	var out domain.PairingSession
	err := c.post(ctx, "/v1/pair/complete", completePairingRequest{Token: token, DeviceID: deviceID}, &out)
	return out, err
}

// PairingStatus polls a pairing session by id.
func (c *Client) PairingStatus(ctx context.Context, id string) (domain.PairingSession, error) {
	var out domain.PairingSession
	err := c.getJSON(ctx, "/v1/pair/"+url.PathEscape(id), &out)
	return out, err
}

// Send posts an encrypted envelope to the session's mailbox.
func (c *Client) Send(ctx context.Context, env domain.Envelope) error {
	return c.post(ctx, "/v1/sessions/"+url.PathEscape(env.SessionID)+"/messages", env, nil)
}

// Fetch returns up to limit envelopes for a session in sequence order.
func (c *Client) Fetch(ctx context.Context, sessionID string, limit int) ([]domain.Envelope, error) {
	return c.FetchAfter(ctx, sessionID, 0, limit)
}

// FetchAfter returns envelopes with sequence numbers greater than after.
func (c *Client) FetchAfter(ctx context.Context, sessionID string, after int64, limit int) ([]domain.Envelope, error) {
	path := "/v1/sessions/" + url.PathEscape(sessionID) + "/messages"
	sep := "?"
	if after > 0 {
		path += sep + "after=" + strconv.FormatInt(after, 10)
		sep = "&"
	}
	if limit > 0 {
		path += sep + "limit=" + strconv.Itoa(limit)
	}
	var envs []domain.Envelope
	if err := c.getJSON(ctx, path, &envs); err != nil {
		return nil, err
	}
	return envs, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("relay post %s: %s", path, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("relay get %s: %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Compile-time assertion that Client implements domain.RelayTransport.
var _ domain.RelayTransport = (*Client)(nil)
