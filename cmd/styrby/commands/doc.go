// Package commands defines the styrby CLI command tree.
//
// Commands:
//
//   - init: generate the device identity and user secret
//   - pair: mint a pairing token and display the QR deep link
//   - send: encrypt and store a session message
//   - history: read a session's decrypted history
//   - fingerprint: print the device public key fingerprint
package commands
