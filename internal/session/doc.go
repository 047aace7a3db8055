// Package session implements the encrypted session message store.
//
// Outbound plaintext is encrypted under the per-(session, machine) key
// from the keyring registry, assigned the next sequence number for its
// session, and handed to the persistent store as an immutable record.
// Reads return records in ascending sequence order and decrypt each one
// independently: a record that fails authentication yields a sentinel
// content marker instead of aborting the batch.
//
// Sequence counters live in process memory. On the first write to a
// session after process start the counter seeds from the highest
// persisted sequence number, so a restart never reuses a number.
package session
