package domain

import (
	interfaces "sessionvault/internal/domain/interfaces"
	types "sessionvault/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Address            = types.Address
	Chain              = types.Chain
	RecordKind         = types.RecordKind
	SessionStatus      = types.SessionStatus
	SessionLeafNode    = types.SessionLeafNode
	SessionRecord      = types.SessionRecord
	SessionSearchParam = types.SessionSearchParam
	SignerData         = types.SignerData
	SignerRecord       = types.SignerRecord
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	RecordStore    = interfaces.RecordStore
	SessionStorage = interfaces.SessionStorage
	Signer         = interfaces.Signer
	KeyGenerator   = interfaces.KeyGenerator
	AddressDeriver = interfaces.AddressDeriver
	SignerFactory  = interfaces.SignerFactory
)

// Re-exported constructors and constants so callers rarely need the
// subpackages directly.
var (
	NewAddress       = types.NewAddress
	NewSessionRecord = types.NewSessionRecord
	NewSignerRecord  = types.NewSignerRecord

	ErrRevisionConflict = interfaces.ErrRevisionConflict
)

const (
	RecordKindSessions = types.RecordKindSessions
	RecordKindSigners  = types.RecordKindSigners

	StatusPending = types.StatusPending
	StatusActive  = types.StatusActive
	StatusExpired = types.StatusExpired
)
