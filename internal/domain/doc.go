// Package domain defines the core types and interfaces shared across
// styrby's packages.
//
// Contents
//
//   - Fixed-size key and nonce types (SessionKey, Nonce) to avoid
//     accidental resizing of secret material
//   - Pairing types carried over the QR deep link (PairingPayload) and
//     stored server-side (PairingSession)
//   - Encrypted message records as persisted (MessageRecord) and as
//     returned to callers after decryption (Message)
//   - Collaborator interfaces for the persistent store and the relay
//     transport
//
// The package contains declarations only; behaviour lives in the
// packages that consume these types.
package domain
