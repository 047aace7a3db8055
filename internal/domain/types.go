package domain

// AgentKind identifies which coding agent a machine is currently running.
type AgentKind string

const (
	AgentClaudeCode AgentKind = "claude-code"
	AgentCodex      AgentKind = "codex"
	AgentGemini     AgentKind = "gemini"
	AgentAider      AgentKind = "aider"
)

// PairingVersion is the only payload version this build understands.
const PairingVersion = 1

// PairingPayload is the data carried inside the QR deep link. It exists
// only in transit and is never persisted as-is.
type PairingPayload struct {
	Version     int       `json:"version"`
	Token       string    `json:"token"`
	UserID      string    `json:"userId"`
	MachineID   string    `json:"machineId"`
	DeviceName  string    `json:"deviceName"`
	ActiveAgent AgentKind `json:"activeAgent,omitempty"`
	RelayURL    string    `json:"relayUrl"`
	ExpiresAt   int64     `json:"expiresAt"` // unix milliseconds
}

// PairingSession is the server-side record of an in-flight pairing.
// The plaintext token is never stored, only its SHA-256 hash.
type PairingSession struct {
	ID             string `json:"id"`
	UserID         string `json:"userId"`
	MachineID      string `json:"machineId"`
	TokenHash      string `json:"tokenHash"`
	Completed      bool   `json:"completed"`
	PairedDeviceID string `json:"pairedDeviceId,omitempty"`
	CreatedAt      int64  `json:"createdAt"` // unix milliseconds
	ExpiresAt      int64  `json:"expiresAt"` // unix milliseconds
}

// EncryptedPayload pairs a ciphertext with the nonce used to produce it.
type EncryptedPayload struct {
	ContentEncrypted []byte `json:"contentEncrypted"`
	Nonce            []byte `json:"nonce"`
}

// MessageRecord is a persisted session message. Ciphertext and nonce are
// stored base64-encoded so they survive text-oriented stores. Records
// are immutable once written.
type MessageRecord struct {
	ID               string `json:"id"`
	SessionID        string `json:"sessionId"`
	MachineID        string `json:"machineId"`
	SequenceNumber   int64  `json:"sequenceNumber"`
	MessageType      string `json:"messageType"`
	ContentEncrypted string `json:"contentEncrypted"`
	EncryptionNonce  string `json:"encryptionNonce"`
	CreatedAt        int64  `json:"createdAt"` // unix milliseconds
}

// Message is a MessageRecord after decryption. Content holds the
// plaintext, or a sentinel marker if this record could not be decrypted.
type Message struct {
	ID             string
	SessionID      string
	SequenceNumber int64
	MessageType    string
	Content        string
	CreatedAt      int64
}

// MessageQuery narrows a history read. Zero values mean "no bound".
type MessageQuery struct {
	Limit         int
	Offset        int
	AfterSequence int64
}

// Envelope is what crosses the relay: ciphertext plus non-sensitive
// routing metadata. The relay never sees plaintext.
type Envelope struct {
	SessionID        string `json:"sessionId"`
	MachineID        string `json:"machineId"`
	DeviceID         string `json:"deviceId,omitempty"`
	SequenceNumber   int64  `json:"sequenceNumber"`
	MessageType      string `json:"messageType"`
	ContentEncrypted string `json:"contentEncrypted"`
	EncryptionNonce  string `json:"encryptionNonce"`
	Timestamp        int64  `json:"timestamp"`
}

// DeviceIdentity holds the long-lived local secrets: the user secret
// that session keys derive from and the device's Curve25519 pair.
type DeviceIdentity struct {
	UserSecret []byte    `json:"userSecret"`
	PublicKey  PublicKey `json:"publicKey"`
	SecretKey  SecretKey `json:"secretKey"`
}
