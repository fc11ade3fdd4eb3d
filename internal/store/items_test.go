package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/heartshare/internal/db"
	"github.com/erazemk/heartshare/internal/model"
)

func testDonation(name string) model.Donation {
	return model.Donation{
		Name:         name,
		Description:  "Gently used",
		Category:     "Books",
		Condition:    "Good",
		Location:     "East Side",
		ContactEmail: "donor@example.com",
	}
}

func TestCreateAndGetDonatedItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	d := testDonation("  Novel Set ")
	item, err := CreateDonatedItem(ctx, database, NewItem{Donation: d, Image: []byte("jpeg"), ImageMime: "image/jpeg"})
	if err != nil {
		t.Fatalf("CreateDonatedItem: %v", err)
	}
	if item.ID == "" {
		t.Fatal("expected generated id")
	}
	if item.Name != "Novel Set" {
		t.Errorf("expected trimmed name 'Novel Set', got %q", item.Name)
	}
	if item.ContactEmail != "donor@example.com" {
		t.Errorf("expected contact email, got %q", item.ContactEmail)
	}
	if item.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	got, err := GetDonatedItem(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetDonatedItem: %v", err)
	}
	if got == nil || got.Category != "Books" || got.ImageMime != "image/jpeg" {
		t.Errorf("unexpected item: %+v", got)
	}
}

func TestGetDonatedItemMissing(t *testing.T) {
	database := db.NewTestDB(t)

	got, err := GetDonatedItem(context.Background(), database, "nope")
	if err != nil {
		t.Fatalf("GetDonatedItem: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestListDonatedItemsNewestFirst(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	for _, name := range []string{"First", "Second", "Third"} {
		if _, err := CreateDonatedItem(ctx, database, NewItem{Donation: testDonation(name)}); err != nil {
			t.Fatalf("CreateDonatedItem(%s): %v", name, err)
		}
	}

	items, err := ListDonatedItems(ctx, database)
	if err != nil {
		t.Fatalf("ListDonatedItems: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].Name != "Third" || items[2].Name != "First" {
		t.Errorf("expected newest first, got %s, %s, %s", items[0].Name, items[1].Name, items[2].Name)
	}
}

func TestClaimDonatedItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	keep, _ := CreateDonatedItem(ctx, database, NewItem{Donation: testDonation("Keep")})
	claim, _ := CreateDonatedItem(ctx, database, NewItem{Donation: testDonation("Claim")})

	removed, err := ClaimDonatedItem(ctx, database, claim.ID)
	if err != nil {
		t.Fatalf("ClaimDonatedItem: %v", err)
	}
	if removed.ContactEmail != "donor@example.com" {
		t.Errorf("expected donor email, got %q", removed.ContactEmail)
	}

	items, _ := ListDonatedItems(ctx, database)
	if len(items) != 1 || items[0].ID != keep.ID {
		t.Errorf("expected only %s to remain, got %+v", keep.ID, items)
	}

	// Claiming twice reports not found.
	if _, err := ClaimDonatedItem(ctx, database, claim.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second claim, got %v", err)
	}
}

func TestItemImage(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateDonatedItem(ctx, database, NewItem{
		Donation:  testDonation("Photo Item"),
		Image:     []byte("fake image data"),
		ImageMime: "image/jpeg",
	})

	data, mime, err := GetItemImage(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetItemImage: %v", err)
	}
	if string(data) != "fake image data" {
		t.Errorf("expected image data, got %q", string(data))
	}
	if mime != "image/jpeg" {
		t.Errorf("expected mime 'image/jpeg', got %q", mime)
	}

	data, _, err = GetItemImage(ctx, database, "missing")
	if err != nil || data != nil {
		t.Errorf("expected nil image for missing item, got %v, %v", data, err)
	}
}

func TestCountDonatedItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateDonatedItem(ctx, database, NewItem{Donation: testDonation("One")})
	CreateDonatedItem(ctx, database, NewItem{Donation: testDonation("Two")})

	n, err := CountDonatedItems(ctx, database)
	if err != nil {
		t.Fatalf("CountDonatedItems: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2, got %d", n)
	}
}
