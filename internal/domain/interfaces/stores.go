package interfaces

import (
	"context"
	"errors"

	domaintypes "sessionvault/internal/domain/types"
)

// ErrRevisionConflict is returned by a RecordStore write whose expected
// revision no longer matches the persisted record, meaning another writer
// got there first.
var ErrRevisionConflict = errors.New("record revision conflict: concurrent write detected")

// RecordStore is the persistence adapter contract. It durably stores the
// two JSON-serializable records (sessions, signers) for one account, keyed
// by the account's canonical address. Any key-value or document store can
// satisfy it; the reference implementation maps records to flat files.
//
// Reads distinguish absence from failure: ok=false with a nil error means
// the record was never written, while I/O or decode failures are returned
// as errors. Writes replace the whole record and must reject a stale
// expected revision with ErrRevisionConflict.
type RecordStore interface {
	ReadRecord(
		ctx context.Context,
		account domaintypes.Address,
		kind domaintypes.RecordKind,
		out any,
	) (ok bool, err error)

	WriteRecord(
		ctx context.Context,
		account domaintypes.Address,
		kind domaintypes.RecordKind,
		record any,
		expectedRevision uint64,
	) error
}

// SessionStorage is the capability set the session-key module consumes:
// session CRUD, signer CRUD, and search, for exactly one account. Any
// backing store (file, database, remote service, in-memory test double)
// must satisfy this contract.
//
// Mutating operations perform whole-record read-modify-write; the
// implementation serializes them per account, but concurrent writers
// sharing a backing medium across processes are only guarded by the
// adapter's revision check.
type SessionStorage interface {
	// GetSessionData returns the first leaf matching param, by value.
	GetSessionData(ctx context.Context, param domaintypes.SessionSearchParam) (domaintypes.SessionLeafNode, error)

	// GetAllSessionData returns every leaf, or every leaf matching
	// param.Status when param is non-nil. An empty result is not an error.
	GetAllSessionData(ctx context.Context, param *domaintypes.SessionSearchParam) ([]domaintypes.SessionLeafNode, error)

	// AddSessionData canonicalizes and appends leaf, then persists. The
	// stored leaf is returned; no session-ID uniqueness is enforced here.
	AddSessionData(ctx context.Context, leaf domaintypes.SessionLeafNode) (domaintypes.SessionLeafNode, error)

	// UpdateSessionStatus sets the status of the first leaf matching param
	// and persists.
	UpdateSessionStatus(ctx context.Context, param domaintypes.SessionSearchParam, status domaintypes.SessionStatus) error

	// ClearPendingSessions removes every PENDING leaf and persists.
	// Idempotent.
	ClearPendingSessions(ctx context.Context) error

	// GetMerkleRoot returns the current commitment over the leaves.
	GetMerkleRoot(ctx context.Context) (string, error)

	// SetMerkleRoot replaces the commitment and persists immediately.
	SetMerkleRoot(ctx context.Context, root string) error

	// AddSigner stores signer material (generating fresh material when data
	// is nil) under its derived address and returns a chain-bound handle.
	AddSigner(ctx context.Context, chain domaintypes.Chain, data *domaintypes.SignerData) (Signer, error)

	// GetSignerByKey returns a chain-bound handle for the signer stored
	// under sessionPublicKey.
	GetSignerByKey(ctx context.Context, chain domaintypes.Chain, sessionPublicKey domaintypes.Address) (Signer, error)

	// GetSignerBySession resolves the session matching param, then its
	// signer. Either lookup's failure propagates unchanged.
	GetSignerBySession(ctx context.Context, chain domaintypes.Chain, param domaintypes.SessionSearchParam) (Signer, error)
}
