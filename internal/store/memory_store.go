package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"sessionvault/internal/domain/interfaces"
	domaintypes "sessionvault/internal/domain/types"
)

// MemoryRecordStore keeps records in process memory. It satisfies the same
// contract as the durable adapters and is the intended test double.
type MemoryRecordStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemoryRecordStore returns an empty in-memory store.
func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{records: map[string][]byte{}}
}

// ReadRecord loads the record for (account, kind).
func (s *MemoryRecordStore) ReadRecord(
	_ context.Context,
	account domaintypes.Address,
	kind domaintypes.RecordKind,
	out any,
) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.records[recordKey(account, kind)]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

// WriteRecord replaces the record for (account, kind) after the revision
// check.
func (s *MemoryRecordStore) WriteRecord(
	_ context.Context,
	account domaintypes.Address,
	kind domaintypes.RecordKind,
	record any,
	expectedRevision uint64,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := recordKey(account, kind)
	var curRev uint64
	if cur, ok := s.records[key]; ok {
		rev, err := peekRevision(cur)
		if err != nil {
			return err
		}
		curRev = rev
	}
	if curRev != expectedRevision {
		return interfaces.ErrRevisionConflict
	}

	b, err := json.Marshal(record)
	if err != nil {
		return err
	}
	s.records[key] = b
	return nil
}

func recordKey(account domaintypes.Address, kind domaintypes.RecordKind) string {
	return fmt.Sprintf("%s/%s", account, kind)
}

// Compile-time assertion that MemoryRecordStore implements interfaces.RecordStore.
var _ interfaces.RecordStore = (*MemoryRecordStore)(nil)
