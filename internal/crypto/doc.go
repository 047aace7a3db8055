// Package crypto implements styrby's authenticated encryption engine.
//
// Contents
//
//   - NaCl box encryption between a device key pair and a peer
//     (Encrypt, Decrypt)
//   - The symmetric path used with derived session keys
//     (EncryptWithKey, DecryptWithKey)
//   - Lossless base64 wrappers so ciphertext and nonces can live in
//     text-oriented stores (EncodeForStorage, DecodeFromStorage)
//   - Short public-key fingerprints for human verification (Fingerprint)
//   - Key pair generation (GenerateKeyPair)
//
// # Notes
//
// Input validation happens before any cryptographic operation so callers
// cannot proceed with malformed material. Authentication failures during
// decryption always surface as ErrDecryptionFailed, with no distinction
// between a wrong key, a wrong nonce, and tampered ciphertext.
package crypto
