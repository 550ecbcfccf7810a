package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// readFile reads the file at path; a missing file is reported as nil bytes,
// not an error, so callers can distinguish absence from I/O failure.
func readFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// writeFile writes bytes via a temp file, then atomically replaces the
// target, so a failed write leaves the prior record intact.
func writeFile(path string, b []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	f, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	// Best-effort cleanup if anything fails before rename.
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(mode); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

// peekRevision extracts the revision counter from a marshaled record
// without decoding the rest of it. Records that never carried a revision
// report zero.
func peekRevision(b []byte) (uint64, error) {
	var peek struct {
		Revision uint64 `json:"revision"`
	}
	if err := json.Unmarshal(b, &peek); err != nil {
		return 0, err
	}
	return peek.Revision, nil
}
