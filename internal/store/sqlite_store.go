package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"sessionvault/internal/domain/interfaces"
	domaintypes "sessionvault/internal/domain/types"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS records (
	account  TEXT    NOT NULL,
	kind     TEXT    NOT NULL,
	revision INTEGER NOT NULL,
	data     BLOB    NOT NULL,
	PRIMARY KEY (account, kind)
)`

// SQLiteRecordStore persists records in a single SQLite table. Unlike the
// file adapter it enforces the revision check transactionally, so it is
// safe for multiple processes sharing one database file.
type SQLiteRecordStore struct {
	db *sql.DB
}

// OpenSQLiteRecordStore opens (creating if needed) the database at path.
func OpenSQLiteRecordStore(path string) (*SQLiteRecordStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteRecordStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteRecordStore) Close() error { return s.db.Close() }

// ReadRecord loads the record for (account, kind).
func (s *SQLiteRecordStore) ReadRecord(
	ctx context.Context,
	account domaintypes.Address,
	kind domaintypes.RecordKind,
	out any,
) (bool, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM records WHERE account = ? AND kind = ?`,
		account.String(), kind.String(),
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, err
	}
	return true, nil
}

// WriteRecord replaces the record for (account, kind) inside a transaction,
// rejecting the write when the stored revision differs from
// expectedRevision.
func (s *SQLiteRecordStore) WriteRecord(
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
	newRev, err := peekRevision(b)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var curRev uint64
	err = tx.QueryRowContext(ctx,
		`SELECT revision FROM records WHERE account = ? AND kind = ?`,
		account.String(), kind.String(),
	).Scan(&curRev)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if curRev != expectedRevision {
		return interfaces.ErrRevisionConflict
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO records (account, kind, revision, data) VALUES (?, ?, ?, ?)
		 ON CONFLICT (account, kind) DO UPDATE SET revision = excluded.revision, data = excluded.data`,
		account.String(), kind.String(), newRev, b,
	); err != nil {
		return err
	}
	return tx.Commit()
}

// Compile-time assertion that SQLiteRecordStore implements interfaces.RecordStore.
var _ interfaces.RecordStore = (*SQLiteRecordStore)(nil)
