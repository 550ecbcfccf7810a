// Package app wires the session credential store together: it builds the
// configured persistence adapter, the reference keyring, and per-account
// storage facades.
package app
