package store

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"sessionvault/internal/crypto"
	"sessionvault/internal/domain/interfaces"
	domaintypes "sessionvault/internal/domain/types"
)

// FileRecordStore is the reference persistence adapter. It keeps one pair
// of JSON records per account under a root directory, at
// {address}_{kind}.json. Writes go through a temp file and rename, so the
// prior record survives a failed write.
type FileRecordStore struct {
	dir        string
	passphrase string
	mu         sync.Mutex
}

// NewFileRecordStore returns a FileRecordStore rooted at dir.
func NewFileRecordStore(dir string) *FileRecordStore {
	return &FileRecordStore{dir: dir}
}

// WithPassphrase seals signer records at rest in a passphrase envelope.
// Session records stay plain; they hold no secret material.
func (s *FileRecordStore) WithPassphrase(passphrase string) *FileRecordStore {
	s.passphrase = passphrase
	return s
}

// sealedRecord wraps an encrypted record. The revision stays outside the
// envelope so conflict detection works without the passphrase.
type sealedRecord struct {
	Revision uint64          `json:"revision"`
	Envelope json.RawMessage `json:"envelope"`
}

// ReadRecord loads the record for (account, kind). ok=false means the
// record was never written.
func (s *FileRecordStore) ReadRecord(
	_ context.Context,
	account domaintypes.Address,
	kind domaintypes.RecordKind,
	out any,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := readFile(s.path(account, kind))
	if err != nil {
		return false, err
	}
	if b == nil {
		return false, nil
	}
	if s.sealed(kind) {
		var sr sealedRecord
		if err := json.Unmarshal(b, &sr); err != nil {
			return false, err
		}
		if b, err = crypto.Open(s.passphrase, sr.Envelope); err != nil {
			return false, fmt.Errorf("opening signer record: %w", err)
		}
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

// WriteRecord replaces the record for (account, kind), rejecting the write
// when the persisted revision no longer matches expectedRevision.
func (s *FileRecordStore) WriteRecord(
	_ context.Context,
	account domaintypes.Address,
	kind domaintypes.RecordKind,
	record any,
	expectedRevision uint64,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(account, kind)

	cur, err := readFile(path)
	if err != nil {
		return err
	}
	var curRev uint64
	if cur != nil {
		if curRev, err = peekRevision(cur); err != nil {
			return err
		}
	}
	if curRev != expectedRevision {
		return interfaces.ErrRevisionConflict
	}

	b, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	if s.sealed(kind) {
		newRev, err := peekRevision(b)
		if err != nil {
			return err
		}
		env, err := crypto.Seal(s.passphrase, b)
		if err != nil {
			return fmt.Errorf("sealing signer record: %w", err)
		}
		if b, err = json.MarshalIndent(sealedRecord{Revision: newRev, Envelope: env}, "", "  "); err != nil {
			return err
		}
	}
	return writeFile(path, b, 0o600)
}

func (s *FileRecordStore) sealed(kind domaintypes.RecordKind) bool {
	return s.passphrase != "" && kind == domaintypes.RecordKindSigners
}

func (s *FileRecordStore) path(account domaintypes.Address, kind domaintypes.RecordKind) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.json", account, kind))
}

// Compile-time assertion that FileRecordStore implements interfaces.RecordStore.
var _ interfaces.RecordStore = (*FileRecordStore)(nil)
