package types

import "strings"

// Address is a hex account or contract address, canonical (lower-cased)
// by construction. Build one with NewAddress; JSON deserialization
// canonicalizes too, so stored and queried addresses always compare
// case-insensitively.
type Address string

// NewAddress canonicalizes s into an Address.
func NewAddress(s string) Address { return Address(strings.ToLower(s)) }

// String returns the canonical string form of the address.
func (a Address) String() string { return string(a) }

// IsZero reports whether the address is empty.
func (a Address) IsZero() bool { return a == "" }

// UnmarshalText canonicalizes the address on deserialization. encoding/json
// routes both string values and map keys through here, so addresses read
// back from any backing medium are canonical without per-call-site folding.
func (a *Address) UnmarshalText(b []byte) error {
	*a = NewAddress(string(b))
	return nil
}

// RecordKind names one of the two persisted records an account owns.
type RecordKind string

const (
	// RecordKindSessions is the session-leaf record.
	RecordKindSessions RecordKind = "sessions"
	// RecordKindSigners is the signer-material record.
	RecordKindSigners RecordKind = "signers"
)

// String returns the string form of the record kind.
func (k RecordKind) String() string { return string(k) }

// Chain identifies the network a signing handle is bound to. The store
// passes it through to the signer factory untouched.
type Chain struct {
	ID     uint64 `json:"chainId" yaml:"chain_id"`
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	RPCURL string `json:"rpcUrl,omitempty" yaml:"rpc_url,omitempty"`
}
