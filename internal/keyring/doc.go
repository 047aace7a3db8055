// Package keyring derives per-(session, machine) symmetric keys from the
// long-lived user secret and memoises them in a bounded registry.
//
// Derivation is HKDF-SHA256 with length-prefixed domain separation, so
// keys for different sessions or machines never collide even when one
// input matches, and re-derivation in an independent process yields the
// same key. The registry evicts in FIFO order with a batch headroom so
// pruning is amortised rather than triggered on every insert.
package keyring
