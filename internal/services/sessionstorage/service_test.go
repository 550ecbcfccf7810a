package sessionstorage_test

import (
	"context"
	"errors"
	"testing"

	"sessionvault/internal/crypto"
	"sessionvault/internal/domain"
	"sessionvault/internal/services/sessionstorage"
	"sessionvault/internal/store"
)

var testChain = domain.Chain{ID: 80001, Name: "mumbai"}

func newService(account string, records domain.RecordStore) *sessionstorage.Service {
	kr := crypto.NewKeyring()
	return sessionstorage.New(domain.NewAddress(account), records, kr, kr, kr)
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newService("0xAccount", store.NewMemoryRecordStore())

	added, err := svc.AddSessionData(ctx, domain.SessionLeafNode{
		SessionID:               "s1",
		SessionPublicKey:        "0xAA",
		SessionValidationModule: "0xBB",
		Status:                  domain.StatusPending,
	})
	if err != nil {
		t.Fatalf("add session: %v", err)
	}
	if added.SessionPublicKey != "0xaa" || added.SessionValidationModule != "0xbb" {
		t.Fatalf("addresses not canonicalized on add: %+v", added)
	}

	all, err := svc.GetAllSessionData(ctx, nil)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(all) != 1 || all[0].SessionPublicKey != "0xaa" || all[0].SessionValidationModule != "0xbb" {
		t.Fatalf("unexpected leaves: %+v", all)
	}

	if err := svc.UpdateSessionStatus(ctx, domain.SessionSearchParam{SessionID: "s1"}, domain.StatusActive); err != nil {
		t.Fatalf("update status: %v", err)
	}
	leaf, err := svc.GetSessionData(ctx, domain.SessionSearchParam{SessionID: "s1"})
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if leaf.Status != domain.StatusActive {
		t.Fatalf("status not updated: %+v", leaf)
	}

	// No longer PENDING, so clearing pending sessions leaves it untouched.
	if err := svc.ClearPendingSessions(ctx); err != nil {
		t.Fatalf("clear pending: %v", err)
	}
	if _, err := svc.GetSessionData(ctx, domain.SessionSearchParam{SessionID: "s1"}); err != nil {
		t.Fatalf("active session must survive clear: %v", err)
	}
}

func TestGetSessionData_CaseInsensitiveLookup(t *testing.T) {
	ctx := context.Background()
	svc := newService("0xacc", store.NewMemoryRecordStore())

	if _, err := svc.AddSessionData(ctx, domain.SessionLeafNode{
		SessionID:               "s1",
		SessionPublicKey:        "0xABCDEF",
		SessionValidationModule: "0x123ABC",
		Status:                  domain.StatusActive,
	}); err != nil {
		t.Fatalf("add session: %v", err)
	}

	leaf, err := svc.GetSessionData(ctx, domain.SessionSearchParam{
		SessionPublicKey:        "0xabcdef",
		SessionValidationModule: "0x123abc",
	})
	if err != nil {
		t.Fatalf("lookup by lower-cased pair: %v", err)
	}
	if leaf.SessionID != "s1" {
		t.Fatalf("wrong leaf: %+v", leaf)
	}
}

func TestGetSessionData_ReturnsByValue(t *testing.T) {
	ctx := context.Background()
	svc := newService("0xacc", store.NewMemoryRecordStore())

	if _, err := svc.AddSessionData(ctx, domain.SessionLeafNode{SessionID: "s1", SessionPublicKey: "0xaa", SessionValidationModule: "0xbb"}); err != nil {
		t.Fatalf("add session: %v", err)
	}
	leaf, err := svc.GetSessionData(ctx, domain.SessionSearchParam{SessionID: "s1"})
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	leaf.Status = domain.StatusExpired

	again, err := svc.GetSessionData(ctx, domain.SessionSearchParam{SessionID: "s1"})
	if err != nil {
		t.Fatalf("get session again: %v", err)
	}
	if again.Status == domain.StatusExpired {
		t.Fatal("mutating a returned leaf must not touch the store")
	}
}

func TestUpdateSessionStatus_Errors(t *testing.T) {
	ctx := context.Background()
	svc := newService("0xacc", store.NewMemoryRecordStore())

	err := svc.UpdateSessionStatus(ctx, domain.SessionSearchParam{}, domain.StatusActive)
	if !errors.Is(err, sessionstorage.ErrInvalidSearchParam) {
		t.Fatalf("empty param: expected ErrInvalidSearchParam, got %v", err)
	}

	err = svc.UpdateSessionStatus(ctx, domain.SessionSearchParam{SessionPublicKey: "0xaa"}, domain.StatusActive)
	if !errors.Is(err, sessionstorage.ErrInvalidSearchParam) {
		t.Fatalf("lone public key: expected ErrInvalidSearchParam, got %v", err)
	}

	err = svc.UpdateSessionStatus(ctx, domain.SessionSearchParam{SessionID: "missing"}, domain.StatusActive)
	if !errors.Is(err, sessionstorage.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestClearPendingSessions(t *testing.T) {
	ctx := context.Background()
	svc := newService("0xacc", store.NewMemoryRecordStore())

	seed := []domain.SessionLeafNode{
		{SessionID: "p1", SessionPublicKey: "0x01", SessionValidationModule: "0x0a", Status: domain.StatusPending},
		{SessionID: "a1", SessionPublicKey: "0x02", SessionValidationModule: "0x0b", Status: domain.StatusActive},
		{SessionID: "p2", SessionPublicKey: "0x03", SessionValidationModule: "0x0c", Status: domain.StatusPending},
		{SessionID: "e1", SessionPublicKey: "0x04", SessionValidationModule: "0x0d", Status: domain.StatusExpired},
	}
	for _, leaf := range seed {
		if _, err := svc.AddSessionData(ctx, leaf); err != nil {
			t.Fatalf("add %s: %v", leaf.SessionID, err)
		}
	}

	if err := svc.ClearPendingSessions(ctx); err != nil {
		t.Fatalf("clear pending: %v", err)
	}

	all, err := svc.GetAllSessionData(ctx, nil)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 surviving leaves, got %d", len(all))
	}
	for _, leaf := range all {
		if leaf.Status == domain.StatusPending {
			t.Fatalf("pending leaf survived: %+v", leaf)
		}
	}

	// Idempotent.
	if err := svc.ClearPendingSessions(ctx); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestGetAllSessionData_StatusFilter(t *testing.T) {
	ctx := context.Background()
	svc := newService("0xacc", store.NewMemoryRecordStore())

	for _, leaf := range []domain.SessionLeafNode{
		{SessionID: "p1", SessionPublicKey: "0x01", SessionValidationModule: "0x0a", Status: domain.StatusPending},
		{SessionID: "a1", SessionPublicKey: "0x02", SessionValidationModule: "0x0b", Status: domain.StatusActive},
	} {
		if _, err := svc.AddSessionData(ctx, leaf); err != nil {
			t.Fatalf("add %s: %v", leaf.SessionID, err)
		}
	}

	active, err := svc.GetAllSessionData(ctx, &domain.SessionSearchParam{Status: domain.StatusActive})
	if err != nil {
		t.Fatalf("filtered get: %v", err)
	}
	if len(active) != 1 || active[0].SessionID != "a1" {
		t.Fatalf("unexpected filter result: %+v", active)
	}

	none, err := svc.GetAllSessionData(ctx, &domain.SessionSearchParam{Status: domain.StatusExpired})
	if err != nil {
		t.Fatalf("empty filter must not error: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected empty result, got %+v", none)
	}
}

func TestMerkleRoot_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newService("0xacc", store.NewMemoryRecordStore())

	root, err := svc.GetMerkleRoot(ctx)
	if err != nil {
		t.Fatalf("get default root: %v", err)
	}
	if root != "" {
		t.Fatalf("default root must be empty, got %q", root)
	}

	if err := svc.SetMerkleRoot(ctx, "0xdeadbeef"); err != nil {
		t.Fatalf("set root: %v", err)
	}
	root, err = svc.GetMerkleRoot(ctx)
	if err != nil {
		t.Fatalf("get root: %v", err)
	}
	if root != "0xdeadbeef" {
		t.Fatalf("root round trip mismatch: %q", root)
	}
}

func TestAccounts_DoNotShareLeaves(t *testing.T) {
	ctx := context.Background()
	shared := store.NewMemoryRecordStore()
	svcA := newService("0xaaa", shared)
	svcB := newService("0xbbb", shared)

	if _, err := svcA.AddSessionData(ctx, domain.SessionLeafNode{SessionID: "s1", SessionPublicKey: "0x01", SessionValidationModule: "0x0a"}); err != nil {
		t.Fatalf("add to A: %v", err)
	}

	all, err := svcB.GetAllSessionData(ctx, nil)
	if err != nil {
		t.Fatalf("get all from B: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("account B sees account A's leaves: %+v", all)
	}
	if _, err := svcB.GetSessionData(ctx, domain.SessionSearchParam{SessionID: "s1"}); !errors.Is(err, sessionstorage.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for B, got %v", err)
	}
}

func TestAddSessionData_DefaultsIDAndStatus(t *testing.T) {
	ctx := context.Background()
	svc := newService("0xacc", store.NewMemoryRecordStore())

	leaf, err := svc.AddSessionData(ctx, domain.SessionLeafNode{
		SessionPublicKey:        "0xaa",
		SessionValidationModule: "0xbb",
	})
	if err != nil {
		t.Fatalf("add session: %v", err)
	}
	if leaf.SessionID == "" {
		t.Fatal("expected generated session ID")
	}
	if leaf.Status != domain.StatusPending {
		t.Fatalf("expected PENDING default, got %q", leaf.Status)
	}
}

func TestAddSigner_GeneratedMaterial(t *testing.T) {
	ctx := context.Background()
	svc := newService("0xacc", store.NewMemoryRecordStore())

	signer, err := svc.AddSigner(ctx, testChain, nil)
	if err != nil {
		t.Fatalf("add signer: %v", err)
	}
	if signer.Address().IsZero() {
		t.Fatal("expected derived address on handle")
	}
	if signer.Chain().ID != testChain.ID {
		t.Fatalf("handle bound to chain %d, want %d", signer.Chain().ID, testChain.ID)
	}

	// The stored material is retrievable under the derived address,
	// regardless of query case.
	upper := domain.Address("0X" + signer.Address().String()[2:])
	got, err := svc.GetSignerByKey(ctx, testChain, upper)
	if err != nil {
		t.Fatalf("get signer by key: %v", err)
	}
	if got.Address() != signer.Address() {
		t.Fatalf("address mismatch: %q vs %q", got.Address(), signer.Address())
	}
}

func TestGetSignerByKey_Unknown(t *testing.T) {
	ctx := context.Background()
	svc := newService("0xacc", store.NewMemoryRecordStore())

	_, err := svc.GetSignerByKey(ctx, testChain, "0xnotstored")
	if !errors.Is(err, sessionstorage.ErrSignerNotFound) {
		t.Fatalf("expected ErrSignerNotFound, got %v", err)
	}
}

func TestGetSignerBySession(t *testing.T) {
	ctx := context.Background()
	svc := newService("0xacc", store.NewMemoryRecordStore())

	signer, err := svc.AddSigner(ctx, testChain, nil)
	if err != nil {
		t.Fatalf("add signer: %v", err)
	}
	if _, err := svc.AddSessionData(ctx, domain.SessionLeafNode{
		SessionID:               "s1",
		SessionPublicKey:        signer.Address(),
		SessionValidationModule: "0xbb",
		Status:                  domain.StatusActive,
	}); err != nil {
		t.Fatalf("add session: %v", err)
	}

	got, err := svc.GetSignerBySession(ctx, testChain, domain.SessionSearchParam{SessionID: "s1"})
	if err != nil {
		t.Fatalf("get signer by session: %v", err)
	}
	if got.Address() != signer.Address() {
		t.Fatalf("address mismatch: %q vs %q", got.Address(), signer.Address())
	}

	// A session miss propagates unchanged.
	if _, err := svc.GetSignerBySession(ctx, testChain, domain.SessionSearchParam{SessionID: "missing"}); !errors.Is(err, sessionstorage.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestFacade_OnFileBackend(t *testing.T) {
	ctx := context.Background()
	svc := newService("0xAcc", store.NewFileRecordStore(t.TempDir()))

	if _, err := svc.AddSessionData(ctx, domain.SessionLeafNode{
		SessionID:               "s1",
		SessionPublicKey:        "0xAA",
		SessionValidationModule: "0xBB",
		Status:                  domain.StatusPending,
	}); err != nil {
		t.Fatalf("add session: %v", err)
	}
	if err := svc.UpdateSessionStatus(ctx, domain.SessionSearchParam{SessionID: "s1"}, domain.StatusActive); err != nil {
		t.Fatalf("update status: %v", err)
	}
	leaf, err := svc.GetSessionData(ctx, domain.SessionSearchParam{SessionID: "s1"})
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if leaf.Status != domain.StatusActive {
		t.Fatalf("status not persisted: %+v", leaf)
	}
}
