// Package sessionstorage implements the session credential facade: session
// leaf CRUD and search, Merkle-root bookkeeping, and signer custody for one
// smart account.
//
// It validates search parameters, relies on the data model's boundary
// canonicalization for address handling, and delegates durability to a
// pluggable RecordStore adapter.
package sessionstorage
