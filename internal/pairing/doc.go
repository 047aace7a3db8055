// Package pairing implements the QR pairing handshake.
//
// A CLI mints a short-lived single-use token, wraps it with account and
// machine metadata into a PairingPayload, and renders the deep link as a
// QR code. The phone scans and decodes the link, then redeems the token
// against the relay. Server-side, the Broker tracks pairing sessions by
// token hash and enforces expiry and single use.
//
// Decoding is an adversarial-input boundary: QR codes can carry
// arbitrary bytes, so DecodeURL degrades to nil on malformed input
// instead of returning an error.
package pairing
