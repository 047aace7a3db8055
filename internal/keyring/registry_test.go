package keyring_test

import (
	"bytes"
	"fmt"
	"testing"

	"styrby/internal/crypto"
	"styrby/internal/keyring"
)

func TestRegistry_HitReturnsSameKey(t *testing.T) {
	r := keyring.NewRegistry(secret())

	a, err := r.GetOrDerive("sess-1", "mach-1")
	if err != nil {
		t.Fatalf("GetOrDerive: %v", err)
	}
	b, err := r.GetOrDerive("sess-1", "mach-1")
	if err != nil {
		t.Fatalf("GetOrDerive: %v", err)
	}
	if !bytes.Equal(a[:], b[:]) {
		t.Fatal("cache hit returned different key material")
	}
	if a == b {
		t.Fatal("GetOrDerive aliased its internal array across calls")
	}
	if r.Len() != 1 {
		t.Fatalf("Len: got %d, want 1", r.Len())
	}
}

func TestRegistry_HeldKeySurvivesEviction(t *testing.T) {
	// A caller may still be encrypting with a key when eviction wipes
	// the cache. The held copy must stay intact and keep producing
	// ciphertext that a fresh derivation can open.
	r := keyring.NewRegistry(secret())

	held, err := r.GetOrDerive("sess-1", "mach-1")
	if err != nil {
		t.Fatalf("GetOrDerive: %v", err)
	}
	r.Evict("sess-1", "mach-1")

	direct, err := keyring.DeriveSessionKey(secret(), "sess-1", "mach-1")
	if err != nil {
		t.Fatalf("DeriveSessionKey: %v", err)
	}
	if !bytes.Equal(held[:], direct[:]) {
		t.Fatal("held key was wiped by eviction")
	}

	env, err := crypto.EncryptWithKey("written mid-eviction", held)
	if err != nil {
		t.Fatalf("EncryptWithKey: %v", err)
	}
	pt, err := crypto.DecryptWithKey(env.ContentEncrypted, env.Nonce, direct)
	if err != nil {
		t.Fatalf("DecryptWithKey: %v", err)
	}
	if pt != "written mid-eviction" {
		t.Fatalf("round trip: got %q", pt)
	}
}

func TestRegistry_MatchesDirectDerivation(t *testing.T) {
	r := keyring.NewRegistry(secret())

	cached, err := r.GetOrDerive("sess-1", "mach-1")
	if err != nil {
		t.Fatalf("GetOrDerive: %v", err)
	}
	direct, err := keyring.DeriveSessionKey(secret(), "sess-1", "mach-1")
	if err != nil {
		t.Fatalf("DeriveSessionKey: %v", err)
	}
	if !bytes.Equal(cached[:], direct[:]) {
		t.Fatal("cached key differs from direct derivation")
	}
}

func TestRegistry_FIFOBatchEviction(t *testing.T) {
	r := keyring.NewRegistryWithCapacity(secret(), 100, 10)

	for i := 0; i < 115; i++ {
		if _, err := r.GetOrDerive(fmt.Sprintf("sess-%03d", i), "mach"); err != nil {
			t.Fatalf("GetOrDerive #%d: %v", i, err)
		}
	}

	if r.Len() > 100 {
		t.Fatalf("cache exceeded capacity: %d", r.Len())
	}
	// Pruning removes the oldest entries in insertion order.
	for i := 0; i < 20; i++ {
		if r.Contains(fmt.Sprintf("sess-%03d", i), "mach") {
			t.Fatalf("oldest entry %d survived eviction", i)
		}
	}
	for i := 25; i < 115; i++ {
		if !r.Contains(fmt.Sprintf("sess-%03d", i), "mach") {
			t.Fatalf("recent entry %d was evicted", i)
		}
	}
}

func TestRegistry_EvictionNeverRemovesFreshEntry(t *testing.T) {
	r := keyring.NewRegistryWithCapacity(secret(), 5, 2)

	for i := 0; i < 50; i++ {
		sid := fmt.Sprintf("sess-%02d", i)
		if _, err := r.GetOrDerive(sid, "mach"); err != nil {
			t.Fatalf("GetOrDerive: %v", err)
		}
		if !r.Contains(sid, "mach") {
			t.Fatalf("entry %d evicted on its own insert", i)
		}
		if r.Len() > 5 {
			t.Fatalf("capacity exceeded at insert %d: %d", i, r.Len())
		}
	}
}

func TestRegistry_EvictAndClear(t *testing.T) {
	r := keyring.NewRegistry(secret())

	if _, err := r.GetOrDerive("sess-1", "mach-1"); err != nil {
		t.Fatalf("GetOrDerive: %v", err)
	}
	if _, err := r.GetOrDerive("sess-2", "mach-1"); err != nil {
		t.Fatalf("GetOrDerive: %v", err)
	}

	r.Evict("sess-1", "mach-1")
	if r.Contains("sess-1", "mach-1") {
		t.Fatal("evicted key still cached")
	}
	if !r.Contains("sess-2", "mach-1") {
		t.Fatal("Evict removed an unrelated key")
	}

	// Evicting an absent key is a no-op.
	r.Evict("sess-9", "mach-9")

	r.Clear()
	if r.Len() != 0 {
		t.Fatalf("Len after Clear: got %d, want 0", r.Len())
	}
}
