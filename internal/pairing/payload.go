package pairing

import (
	"encoding/base64"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"styrby/internal/domain"
)

const (
	// Expiry is how long a pairing token and payload stay valid.
	Expiry = 5 * time.Minute

	// Scheme and path of the deep link understood by the mobile app.
	urlPrefix = "styrby://pair"
)

// NewPayload assembles a PairingPayload expiring Expiry from now.
func NewPayload(token, userID, machineID, deviceName, relayURL string, agent domain.AgentKind) domain.PairingPayload {
	return domain.PairingPayload{
		Version:     domain.PairingVersion,
		Token:       token,
		UserID:      userID,
		MachineID:   machineID,
		DeviceName:  deviceName,
		ActiveAgent: agent,
		RelayURL:    relayURL,
		ExpiresAt:   time.Now().Add(Expiry).UnixMilli(),
	}
}

// EncodeURL renders the deep link: styrby://pair?data=<urlencoded base64 JSON>.
func EncodeURL(p domain.PairingPayload) string {
	raw, _ := json.Marshal(p) // PairingPayload has no unmarshalable fields
	data := base64.StdEncoding.EncodeToString(raw)
	return urlPrefix + "?data=" + url.QueryEscape(data)
}

// DecodeURL parses a scanned deep link back into a payload. It accepts
// either the full scheme URL or a bare data parameter, and returns nil
// on any malformed input: bad base64, bad JSON, a missing data
// parameter, an unsupported version, or a payload failing validation.
func DecodeURL(raw string) *domain.PairingPayload {
	if raw == "" {
		return nil
	}

	var blob []byte
	if strings.HasPrefix(raw, urlPrefix) {
		u, err := url.Parse(raw)
		if err != nil {
			return nil
		}
		data := u.Query().Get("data")
		if data == "" {
			return nil
		}
		var derr error
		if blob, derr = base64.StdEncoding.DecodeString(data); derr != nil {
			return nil
		}
	} else {
		// A bare data parameter may arrive still URL-escaped or already
		// unescaped; try both before giving up.
		var derr error
		if unescaped, err := url.QueryUnescape(raw); err == nil {
			blob, derr = base64.StdEncoding.DecodeString(unescaped)
		} else {
			derr = err
		}
		if derr != nil {
			if blob, derr = base64.StdEncoding.DecodeString(raw); derr != nil {
				return nil
			}
		}
	}

	var generic map[string]any
	if err := json.Unmarshal(blob, &generic); err != nil {
		return nil
	}
	if !ValidatePayload(generic) {
		return nil
	}

	var p domain.PairingPayload
	if err := json.Unmarshal(blob, &p); err != nil {
		return nil
	}
	return &p
}

// IsExpired reports whether the payload's deadline has passed.
func IsExpired(p domain.PairingPayload, now time.Time) bool {
	return p.ExpiresAt < now.UnixMilli()
}

// ValidatePayload is a structural guard over untrusted decoded input.
// It accepts only a JSON object with version 1, every required string
// field present and string-typed, and a numeric expiresAt.
func ValidatePayload(v any) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return false
	}

	version, ok := obj["version"].(float64)
	if !ok || version != float64(domain.PairingVersion) {
		return false
	}

	for _, field := range []string{"token", "userId", "machineId", "deviceName", "relayUrl"} {
		if s, ok := obj[field].(string); !ok || s == "" {
			return false
		}
	}
	if _, ok := obj["expiresAt"].(float64); !ok {
		return false
	}
	// activeAgent is optional but must be a string when present.
	if agent, present := obj["activeAgent"]; present {
		if _, ok := agent.(string); !ok {
			return false
		}
	}
	return true
}
