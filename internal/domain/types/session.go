package types

// SessionStatus is the lifecycle state of a session leaf.
type SessionStatus string

const (
	// StatusPending marks a session that is registered but not yet
	// committed on-chain.
	StatusPending SessionStatus = "PENDING"
	// StatusActive marks a session whose Merkle root has been enabled.
	StatusActive SessionStatus = "ACTIVE"
	// StatusExpired marks a session past its validity window.
	StatusExpired SessionStatus = "EXPIRED"
)

// String returns the string form of the status.
func (s SessionStatus) String() string { return string(s) }

// SessionLeafNode describes one delegated session key. It is named "leaf"
// because the set of leaves is committed into a Merkle tree whose root
// authorizes the sessions on-chain.
type SessionLeafNode struct {
	SessionID               string        `json:"sessionID"`
	SessionPublicKey        Address       `json:"sessionPublicKey"`
	SessionValidationModule Address       `json:"sessionValidationModule"`
	SessionKeyData          string        `json:"sessionKeyData"`
	Status                  SessionStatus `json:"status"`
}

// Canonical returns a copy of the leaf with its address fields canonicalized.
func (l SessionLeafNode) Canonical() SessionLeafNode {
	l.SessionPublicKey = NewAddress(l.SessionPublicKey.String())
	l.SessionValidationModule = NewAddress(l.SessionValidationModule.String())
	return l
}

// SessionRecord is the persisted session state for one account: the ordered
// leaves plus the externally computed Merkle root over them. The store never
// recomputes the root; callers set it after changing membership.
//
// Revision counts successful writes and lets the persistence adapter detect
// lost updates: a write carrying a stale expected revision is rejected.
type SessionRecord struct {
	MerkleRoot string            `json:"merkleRoot"`
	LeafNodes  []SessionLeafNode `json:"leafNodes"`
	Revision   uint64            `json:"revision,omitempty"`
}

// NewSessionRecord returns the empty default record.
func NewSessionRecord() SessionRecord {
	return SessionRecord{MerkleRoot: "", LeafNodes: []SessionLeafNode{}}
}

// SessionSearchParam selects session leaves. Two shapes are valid: a
// SessionID alone, or the (SessionPublicKey, SessionValidationModule) pair.
// Status optionally refines either shape.
type SessionSearchParam struct {
	SessionID               string        `json:"sessionID,omitempty"`
	SessionPublicKey        Address       `json:"sessionPublicKey,omitempty"`
	SessionValidationModule Address       `json:"sessionValidationModule,omitempty"`
	Status                  SessionStatus `json:"status,omitempty"`
}

// Canonical returns a copy of the param with its address fields canonicalized.
func (p SessionSearchParam) Canonical() SessionSearchParam {
	p.SessionPublicKey = NewAddress(p.SessionPublicKey.String())
	p.SessionValidationModule = NewAddress(p.SessionValidationModule.String())
	return p
}

// Valid reports whether the param has one of the two legal shapes.
func (p SessionSearchParam) Valid() bool {
	if p.SessionID != "" {
		return true
	}
	return !p.SessionPublicKey.IsZero() && !p.SessionValidationModule.IsZero()
}

// Matches reports whether leaf satisfies the param. An invalid param
// matches nothing.
func (p SessionSearchParam) Matches(leaf SessionLeafNode) bool {
	if !p.Valid() {
		return false
	}
	if p.Status != "" && leaf.Status != p.Status {
		return false
	}
	if p.SessionID != "" {
		return leaf.SessionID == p.SessionID
	}
	q := p.Canonical()
	return leaf.SessionPublicKey == q.SessionPublicKey &&
		leaf.SessionValidationModule == q.SessionValidationModule
}
