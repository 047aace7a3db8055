// Package store provides file-based persistence for styrby's core data.
//
// It contains concrete implementations of the domain storage interfaces,
// serialising data as JSON on disk with atomic replace-on-write. All
// methods are concurrency-safe via internal locking. Stored files live
// under the configured home directory.
//
// Message and pairing records hold only ciphertext, nonces and token
// hashes; the device identity is encrypted at rest with a passphrase-
// derived key.
package store
