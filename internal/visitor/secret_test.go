package visitor

import (
	"context"
	"testing"

	"github.com/erazemk/heartshare/internal/db"
)

func TestLoadSecretPersists(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first, err := LoadSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(first))
	}

	second, err := LoadSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatalf("expected same secret, got %q and %q", first, second)
	}

	value, err := Encode(second, []string{"ph-2"})
	if err != nil {
		t.Fatal(err)
	}
	if ids, err := Decode(first, value); err != nil || len(ids) != 1 {
		t.Fatalf("cookie signed with reloaded secret did not verify: %v", err)
	}
}
