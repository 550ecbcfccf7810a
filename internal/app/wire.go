package app

import (
	"fmt"
	"os"

	"sessionvault/internal/crypto"
	"sessionvault/internal/domain"
	"sessionvault/internal/services/sessionstorage"
	"sessionvault/internal/store"
)

// Wire bundles the persistence adapter and crypto collaborators, and hands
// out per-account storage facades.
type Wire struct {
	Records domain.RecordStore
	Keyring *crypto.Keyring

	sqlite *store.SQLiteRecordStore
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	w := &Wire{Keyring: crypto.NewKeyring()}

	switch cfg.Backend {
	case BackendFile:
		if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
			return nil, err
		}
		fs := store.NewFileRecordStore(cfg.Home)
		if cfg.Passphrase != "" {
			fs = fs.WithPassphrase(cfg.Passphrase)
		}
		w.Records = fs
	case BackendSQLite:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("sqlite backend requires sqlite_path")
		}
		db, err := store.OpenSQLiteRecordStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		w.sqlite = db
		w.Records = db
	case BackendS3:
		if cfg.S3Client == nil {
			return nil, fmt.Errorf("s3 backend requires an injected S3 client")
		}
		w.Records = store.NewS3RecordStore(cfg.S3Client, cfg.S3.Bucket, cfg.S3.Prefix)
	case BackendHTTP:
		if cfg.RemoteURL == "" {
			return nil, fmt.Errorf("http backend requires remote_url")
		}
		w.Records = store.NewHTTPRecordStore(cfg.RemoteURL, cfg.HTTP)
	case BackendMemory:
		w.Records = store.NewMemoryRecordStore()
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	return w, nil
}

// Storage returns the facade serving one account.
func (w *Wire) Storage(account domain.Address) domain.SessionStorage {
	return sessionstorage.New(account, w.Records, w.Keyring, w.Keyring, w.Keyring)
}

// Close releases backend resources, if any.
func (w *Wire) Close() error {
	if w.sqlite != nil {
		return w.sqlite.Close()
	}
	return nil
}
