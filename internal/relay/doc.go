// Package relay talks to the styrby relay server.
//
// The relay is an opaque intermediary: it stores pairing sessions (token
// hashes only) and forwards encrypted envelopes between a machine and
// its paired devices. Nothing in this package ever handles plaintext
// conversation content.
//
// Incoming traffic is exposed as a typed event stream (Subscribe) rather
// than callback listeners, so consumers control backpressure by reading
// at their own pace.
package relay
