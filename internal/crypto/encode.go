package crypto

import "encoding/base64"

// EncodeForStorage returns standard base64 without newlines, suitable
// for text-oriented persistent stores.
func EncodeForStorage(b []byte) string { return base64.StdEncoding.EncodeToString(b) }

// DecodeFromStorage reverses EncodeForStorage exactly.
func DecodeFromStorage(s string) ([]byte, error) { return base64.StdEncoding.DecodeString(s) }
