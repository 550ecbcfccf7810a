package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"sessionvault/internal/domain/interfaces"
	domaintypes "sessionvault/internal/domain/types"
)

// HTTPRecordStore talks to a remote record service exposing
// GET/PUT /records/{address}/{kind}. A 404 on read means absent; a 409 on
// write means the service rejected the expected revision.
type HTTPRecordStore struct {
	Base string
	HTTP *http.Client
}

// NewHTTPRecordStore returns a client for the record service at base. A nil
// client falls back to http.DefaultClient.
func NewHTTPRecordStore(base string, client *http.Client) *HTTPRecordStore {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPRecordStore{Base: base, HTTP: client}
}

// ReadRecord loads the record for (account, kind).
func (s *HTTPRecordStore) ReadRecord(
	ctx context.Context,
	account domaintypes.Address,
	kind domaintypes.RecordKind,
	out any,
) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.recordURL(account, kind), nil)
	if err != nil {
		return false, err
	}
	resp, err := s.HTTP.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return false, err
		}
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("record service: unexpected status %s", resp.Status)
	}
}

// WriteRecord replaces the record for (account, kind); the expected
// revision travels in an If-Match header for the service to enforce.
func (s *HTTPRecordStore) WriteRecord(
	ctx context.Context,
	account domaintypes.Address,
	kind domaintypes.RecordKind,
	record any,
	expectedRevision uint64,
) error {
	b, err := json.Marshal(record)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.recordURL(account, kind), bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("If-Match", strconv.FormatUint(expectedRevision, 10))

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusConflict:
		return interfaces.ErrRevisionConflict
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	default:
		return fmt.Errorf("record service: unexpected status %s", resp.Status)
	}
}

func (s *HTTPRecordStore) recordURL(account domaintypes.Address, kind domaintypes.RecordKind) string {
	return s.Base + "/records/" + url.PathEscape(account.String()) + "/" + url.PathEscape(kind.String())
}

// Compile-time assertion that HTTPRecordStore implements interfaces.RecordStore.
var _ interfaces.RecordStore = (*HTTPRecordStore)(nil)
