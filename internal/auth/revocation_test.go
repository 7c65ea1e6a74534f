// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRevocationStore(t *testing.T) {
	store := newTestRevocations(t)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	if err != nil || revoked {
		t.Fatalf("IsRevoked before revoke = %v, %v", revoked, err)
	}

	if err := store.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	revoked, err = store.IsRevoked(ctx, "jti-1")
	if err != nil || !revoked {
		t.Fatalf("IsRevoked after revoke = %v, %v", revoked, err)
	}

	// Already expired tokens are not stored.
	if err := store.Revoke(ctx, "jti-old", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Revoke expired: %v", err)
	}
	if revoked, _ := store.IsRevoked(ctx, "jti-old"); revoked {
		t.Error("expired token stored as revoked")
	}

	n, err := store.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if n != 1 {
		t.Errorf("Size = %d, want 1", n)
	}
}

func TestRevocationStoreClosed(t *testing.T) {
	store, err := NewRevocationStore("")
	if err != nil {
		t.Fatalf("NewRevocationStore: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	ctx := context.Background()
	if err := store.Revoke(ctx, "j", time.Now().Add(time.Hour)); !errors.Is(err, ErrRevocationStoreClosed) {
		t.Errorf("Revoke after close = %v", err)
	}
	if _, err := store.IsRevoked(ctx, "j"); !errors.Is(err, ErrRevocationStoreClosed) {
		t.Errorf("IsRevoked after close = %v", err)
	}
}

func TestRevocationStoreOnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewRevocationStore(dir)
	if err != nil {
		t.Fatalf("NewRevocationStore: %v", err)
	}
	if err := store.Revoke(ctx, "persisted", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewRevocationStore(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	if revoked, err := reopened.IsRevoked(ctx, "persisted"); err != nil || !revoked {
		t.Errorf("IsRevoked after reopen = %v, %v", revoked, err)
	}
}
