// Package app wires styrby's stores, services and clients together for
// the CLI.
package app
