// Package store provides the persistence adapters behind the session
// credential store.
//
// Every adapter satisfies the domain RecordStore contract: whole-record
// read and write of the per-account sessions and signers records, with a
// revision check on write to surface lost updates. Missing records read as
// absent, never as an error.
//
// The package includes adapters for:
//   - Flat JSON files, the reference medium (FileRecordStore)
//   - SQLite with a transactional revision check (SQLiteRecordStore)
//   - S3 objects (S3RecordStore)
//   - A remote record service over HTTP (HTTPRecordStore)
//   - Process memory, for tests (MemoryRecordStore)
package store
