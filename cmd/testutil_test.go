package main

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()

	d, err := dialectFor(dialectSQLite)
	if err != nil {
		t.Fatalf("dialect: %v", err)
	}

	db, err := d.open(filepath.Join(t.TempDir(), "addresses.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	if err := Migrate(ctx, db, d); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store, err := NewSQLStore(ctx, db, d)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(store.Close)

	return store
}

func sampleAddress() Address {
	return Address{
		Street:    "3401 Walnut St",
		City:      "Philadelphia",
		State:     "PA",
		Zip:       "19104",
		Latitude:  40.0,
		Longitude: -75.0,
	}
}
