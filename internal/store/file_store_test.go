package store_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"styrby/internal/domain"
	"styrby/internal/store"
)

func rec(session string, seq int64) domain.MessageRecord {
	return domain.MessageRecord{
		ID:               "id-" + session + "-" + string(rune('0'+seq)),
		SessionID:        session,
		MachineID:        "mach-1",
		SequenceNumber:   seq,
		MessageType:      "agent_output",
		ContentEncrypted: "Y2lwaGVy",
		EncryptionNonce:  "bm9uY2U=",
		CreatedAt:        1700000000000 + seq,
	}
}

func TestFileStore_MessagesRoundTrip(t *testing.T) {
	ctx := context.Background()
	fs := store.NewFileStore(t.TempDir())

	// Insert out of order; listing must come back sorted by sequence.
	for _, seq := range []int64{2, 1, 3} {
		if err := fs.InsertMessage(ctx, rec("sess-1", seq)); err != nil {
			t.Fatalf("InsertMessage: %v", err)
		}
	}
	if err := fs.InsertMessage(ctx, rec("sess-2", 1)); err != nil {
		t.Fatalf("InsertMessage: %v", err)
	}

	recs, err := fs.ListMessages(ctx, "sess-1", domain.MessageQuery{})
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3", len(recs))
	}
	for i, r := range recs {
		if r.SequenceNumber != int64(i+1) {
			t.Fatalf("record %d: seq %d, want %d", i, r.SequenceNumber, i+1)
		}
	}

	max, err := fs.MaxSequence(ctx, "sess-1")
	if err != nil {
		t.Fatalf("MaxSequence: %v", err)
	}
	if max != 3 {
		t.Fatalf("MaxSequence: got %d, want 3", max)
	}

	// Unknown session: empty, max 0.
	if recs, err := fs.ListMessages(ctx, "sess-x", domain.MessageQuery{}); err != nil || len(recs) != 0 {
		t.Fatalf("unknown session: %v, %d records", err, len(recs))
	}
	if max, err := fs.MaxSequence(ctx, "sess-x"); err != nil || max != 0 {
		t.Fatalf("unknown session max: %v, %d", err, max)
	}
}

func TestFileStore_MessageQuery(t *testing.T) {
	ctx := context.Background()
	fs := store.NewFileStore(t.TempDir())

	for seq := int64(1); seq <= 8; seq++ {
		if err := fs.InsertMessage(ctx, rec("sess-1", seq)); err != nil {
			t.Fatalf("InsertMessage: %v", err)
		}
	}

	recs, err := fs.ListMessages(ctx, "sess-1", domain.MessageQuery{AfterSequence: 5})
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(recs) != 3 || recs[0].SequenceNumber != 6 {
		t.Fatalf("AfterSequence: got %d records from %d", len(recs), recs[0].SequenceNumber)
	}

	recs, err = fs.ListMessages(ctx, "sess-1", domain.MessageQuery{Limit: 3, Offset: 2})
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(recs) != 3 || recs[0].SequenceNumber != 3 {
		t.Fatalf("Limit+Offset: got %d records from %d", len(recs), recs[0].SequenceNumber)
	}

	recs, err = fs.ListMessages(ctx, "sess-1", domain.MessageQuery{Offset: 100})
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("Offset past end: got %d records", len(recs))
	}
}

func TestFileStore_PairingSessions(t *testing.T) {
	ctx := context.Background()
	fs := store.NewFileStore(t.TempDir())

	ps := domain.PairingSession{
		ID:        "pair-1",
		UserID:    "user-1",
		MachineID: "mach-1",
		TokenHash: "deadbeef",
		CreatedAt: 1700000000000,
		ExpiresAt: 1700000300000,
	}
	if err := fs.InsertPairingSession(ctx, ps); err != nil {
		t.Fatalf("InsertPairingSession: %v", err)
	}

	got, ok, err := fs.PairingSessionByTokenHash(ctx, "deadbeef")
	if err != nil || !ok {
		t.Fatalf("PairingSessionByTokenHash: ok=%v err=%v", ok, err)
	}
	if got.ID != "pair-1" || got.Completed {
		t.Fatalf("unexpected record: %+v", got)
	}

	if _, ok, err := fs.PairingSessionByTokenHash(ctx, "unknown"); err != nil || ok {
		t.Fatalf("unknown hash: ok=%v err=%v", ok, err)
	}

	if err := fs.CompletePairingSession(ctx, "pair-1", "device-9"); err != nil {
		t.Fatalf("CompletePairingSession: %v", err)
	}
	got, _, err = fs.PairingSessionByTokenHash(ctx, "deadbeef")
	if err != nil {
		t.Fatalf("PairingSessionByTokenHash: %v", err)
	}
	if !got.Completed || got.PairedDeviceID != "device-9" {
		t.Fatalf("completion not persisted: %+v", got)
	}

	// A completed session cannot be completed again; the store itself
	// rejects so concurrent redeemers cannot both win.
	if err := fs.CompletePairingSession(ctx, "pair-1", "device-10"); !errors.Is(err, domain.ErrPairingSessionCompleted) {
		t.Fatalf("second completion: want ErrPairingSessionCompleted, got %v", err)
	}
	got, _, err = fs.PairingSessionByTokenHash(ctx, "deadbeef")
	if err != nil {
		t.Fatalf("PairingSessionByTokenHash: %v", err)
	}
	if got.PairedDeviceID != "device-9" {
		t.Fatalf("paired device overwritten: %+v", got)
	}

	if err := fs.CompletePairingSession(ctx, "no-such-id", "device-9"); err == nil {
		t.Fatal("completing unknown session succeeded")
	}
}

func TestIdentityFileStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	ids := store.NewIdentityFileStore(dir)

	id := domain.DeviceIdentity{
		UserSecret: bytes.Repeat([]byte{0x11}, 32),
	}
	copy(id.PublicKey[:], bytes.Repeat([]byte{0x22}, 32))
	copy(id.SecretKey[:], bytes.Repeat([]byte{0x33}, 32))

	if err := ids.SaveIdentity("correct horse battery staple", id); err != nil {
		t.Fatalf("SaveIdentity: %v", err)
	}

	got, err := ids.LoadIdentity("correct horse battery staple")
	if err != nil {
		t.Fatalf("LoadIdentity: %v", err)
	}
	if !bytes.Equal(got.UserSecret, id.UserSecret) || got.PublicKey != id.PublicKey || got.SecretKey != id.SecretKey {
		t.Fatal("identity round trip mismatch")
	}

	if _, err := ids.LoadIdentity("wrong passphrase"); err == nil {
		t.Fatal("wrong passphrase accepted")
	}
}
