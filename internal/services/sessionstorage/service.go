package sessionstorage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"sessionvault/internal/domain"
)

var (
	// ErrInvalidSearchParam is returned when a search parameter has neither
	// a session ID nor a (public key, validation module) pair.
	ErrInvalidSearchParam = errors.New("invalid search parameter: provide a session ID, or a session public key and validation module")

	// ErrSessionNotFound is returned when no stored leaf matches a search.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSignerNotFound is returned when no signer material is stored under
	// an address.
	ErrSignerNotFound = errors.New("signer not found")
)

// Service is the session storage facade for one account. It owns the
// account's session record (leaves plus Merkle root) and signer record,
// mutating them through whole-record read-modify-write against the
// persistence adapter.
//
// Mutating operations are serialized by a per-account mutex; the revision
// carried in each record lets the adapter reject lost updates from writers
// in other processes.
type Service struct {
	account domain.Address
	records domain.RecordStore
	keys    domain.KeyGenerator
	derive  domain.AddressDeriver
	signers domain.SignerFactory

	mu sync.Mutex
}

// New constructs the facade for account with the given adapter and
// collaborators.
func New(
	account domain.Address,
	records domain.RecordStore,
	keys domain.KeyGenerator,
	derive domain.AddressDeriver,
	signers domain.SignerFactory,
) *Service {
	return &Service{
		account: domain.NewAddress(account.String()),
		records: records,
		keys:    keys,
		derive:  derive,
		signers: signers,
	}
}

// Account returns the canonical address this facade serves.
func (s *Service) Account() domain.Address { return s.account }

// GetSessionData returns the first leaf matching param, by value. A param
// matching nothing, including one of invalid shape, reports
// ErrSessionNotFound.
func (s *Service) GetSessionData(ctx context.Context, param domain.SessionSearchParam) (domain.SessionLeafNode, error) {
	rec, err := s.loadSessions(ctx)
	if err != nil {
		return domain.SessionLeafNode{}, err
	}
	for _, leaf := range rec.LeafNodes {
		if param.Matches(leaf) {
			return leaf, nil
		}
	}
	return domain.SessionLeafNode{}, ErrSessionNotFound
}

// GetAllSessionData returns every leaf, or every leaf with param.Status
// when a filter is supplied. An empty result is not an error.
func (s *Service) GetAllSessionData(ctx context.Context, param *domain.SessionSearchParam) ([]domain.SessionLeafNode, error) {
	rec, err := s.loadSessions(ctx)
	if err != nil {
		return nil, err
	}
	if param == nil || param.Status == "" {
		return rec.LeafNodes, nil
	}
	matched := make([]domain.SessionLeafNode, 0, len(rec.LeafNodes))
	for _, leaf := range rec.LeafNodes {
		if leaf.Status == param.Status {
			matched = append(matched, leaf)
		}
	}
	return matched, nil
}

// AddSessionData canonicalizes and appends leaf, then persists the whole
// record. A missing session ID gets a fresh UUID and a missing status
// defaults to PENDING. Duplicate session IDs are not rejected here;
// lookups return the first match, so ID uniqueness is the caller's duty.
func (s *Service) AddSessionData(ctx context.Context, leaf domain.SessionLeafNode) (domain.SessionLeafNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	leaf = leaf.Canonical()
	if leaf.SessionID == "" {
		leaf.SessionID = uuid.NewString()
	}
	if leaf.Status == "" {
		leaf.Status = domain.StatusPending
	}

	rec, err := s.loadSessions(ctx)
	if err != nil {
		return domain.SessionLeafNode{}, err
	}
	expected := rec.Revision
	rec.LeafNodes = append(rec.LeafNodes, leaf)
	if err := s.saveSessions(ctx, rec, expected); err != nil {
		return domain.SessionLeafNode{}, err
	}
	return leaf, nil
}

// UpdateSessionStatus sets the status of the first leaf matching param and
// persists.
func (s *Service) UpdateSessionStatus(ctx context.Context, param domain.SessionSearchParam, status domain.SessionStatus) error {
	if !param.Valid() {
		return ErrInvalidSearchParam
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.loadSessions(ctx)
	if err != nil {
		return err
	}
	for i := range rec.LeafNodes {
		if param.Matches(rec.LeafNodes[i]) {
			rec.LeafNodes[i].Status = status
			expected := rec.Revision
			return s.saveSessions(ctx, rec, expected)
		}
	}
	return ErrSessionNotFound
}

// ClearPendingSessions removes every PENDING leaf and persists the reduced
// set. Idempotent.
func (s *Service) ClearPendingSessions(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.loadSessions(ctx)
	if err != nil {
		return err
	}
	kept := make([]domain.SessionLeafNode, 0, len(rec.LeafNodes))
	for _, leaf := range rec.LeafNodes {
		if leaf.Status != domain.StatusPending {
			kept = append(kept, leaf)
		}
	}
	expected := rec.Revision
	rec.LeafNodes = kept
	return s.saveSessions(ctx, rec, expected)
}

// GetMerkleRoot returns the stored commitment over the leaves.
func (s *Service) GetMerkleRoot(ctx context.Context) (string, error) {
	rec, err := s.loadSessions(ctx)
	if err != nil {
		return "", err
	}
	return rec.MerkleRoot, nil
}

// SetMerkleRoot replaces the commitment and persists immediately. The store
// never recomputes the root; callers set it after changing membership.
func (s *Service) SetMerkleRoot(ctx context.Context, root string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.loadSessions(ctx)
	if err != nil {
		return err
	}
	expected := rec.Revision
	rec.MerkleRoot = root
	return s.saveSessions(ctx, rec, expected)
}

// AddSigner stores signer material under its derived address and returns a
// chain-bound signing handle. Nil data asks the key generator for fresh
// material. The signer record is persisted even when the material was
// supplied by the caller.
func (s *Service) AddSigner(ctx context.Context, chain domain.Chain, data *domain.SignerData) (domain.Signer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sd domain.SignerData
	if data == nil {
		generated, err := s.keys.GenerateSigner()
		if err != nil {
			return nil, fmt.Errorf("generating signer: %w", err)
		}
		sd = generated
	} else {
		sd = *data
	}

	addr, err := s.derive.DeriveAddress(sd)
	if err != nil {
		return nil, fmt.Errorf("deriving signer address: %w", err)
	}

	rec, err := s.loadSigners(ctx)
	if err != nil {
		return nil, err
	}
	expected := rec.Revision
	rec.Signers[addr] = sd
	if err := s.saveSigners(ctx, rec, expected); err != nil {
		return nil, err
	}
	return s.signers.SignerForChain(chain, sd)
}

// GetSignerByKey returns a chain-bound handle for the signer stored under
// sessionPublicKey.
func (s *Service) GetSignerByKey(ctx context.Context, chain domain.Chain, sessionPublicKey domain.Address) (domain.Signer, error) {
	rec, err := s.loadSigners(ctx)
	if err != nil {
		return nil, err
	}
	sd, ok := rec.Signers[domain.NewAddress(sessionPublicKey.String())]
	if !ok {
		return nil, ErrSignerNotFound
	}
	return s.signers.SignerForChain(chain, sd)
}

// GetSignerBySession resolves the session matching param, then the signer
// stored under its public key. Either lookup's failure propagates
// unchanged.
func (s *Service) GetSignerBySession(ctx context.Context, chain domain.Chain, param domain.SessionSearchParam) (domain.Signer, error) {
	leaf, err := s.GetSessionData(ctx, param)
	if err != nil {
		return nil, err
	}
	return s.GetSignerByKey(ctx, chain, leaf.SessionPublicKey)
}

// ---------- record plumbing ----------

func (s *Service) loadSessions(ctx context.Context) (domain.SessionRecord, error) {
	rec := domain.NewSessionRecord()
	ok, err := s.records.ReadRecord(ctx, s.account, domain.RecordKindSessions, &rec)
	if err != nil {
		return domain.SessionRecord{}, fmt.Errorf("reading session record: %w", err)
	}
	if !ok {
		return domain.NewSessionRecord(), nil
	}
	return rec, nil
}

func (s *Service) saveSessions(ctx context.Context, rec domain.SessionRecord, expected uint64) error {
	rec.Revision = expected + 1
	if err := s.records.WriteRecord(ctx, s.account, domain.RecordKindSessions, rec, expected); err != nil {
		return fmt.Errorf("writing session record: %w", err)
	}
	return nil
}

func (s *Service) loadSigners(ctx context.Context) (domain.SignerRecord, error) {
	rec := domain.NewSignerRecord()
	ok, err := s.records.ReadRecord(ctx, s.account, domain.RecordKindSigners, &rec)
	if err != nil {
		return domain.SignerRecord{}, fmt.Errorf("reading signer record: %w", err)
	}
	if !ok {
		return domain.NewSignerRecord(), nil
	}
	return rec, nil
}

func (s *Service) saveSigners(ctx context.Context, rec domain.SignerRecord, expected uint64) error {
	rec.Revision = expected + 1
	if err := s.records.WriteRecord(ctx, s.account, domain.RecordKindSigners, rec, expected); err != nil {
		return fmt.Errorf("writing signer record: %w", err)
	}
	return nil
}

// Compile-time assertion that Service implements domain.SessionStorage.
var _ domain.SessionStorage = (*Service)(nil)
