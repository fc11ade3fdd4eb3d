package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/heartshare/internal/model"
)

// ErrNotFound is returned when a donated item does not exist (or was already claimed).
var ErrNotFound = errors.New("item not found")

const itemColumns = `id, name, description, category, condition, location, contact_email, image_mime, created_at`

// NewItem holds the values for a row insert.
type NewItem struct {
	Donation  model.Donation
	Image     []byte
	ImageMime string
}

// CreateDonatedItem inserts a new listing and returns it.
func CreateDonatedItem(ctx context.Context, db *sql.DB, n NewItem) (*model.DonatedItem, error) {
	d := n.Donation.Trimmed()
	id := uuid.NewString()

	_, err := db.ExecContext(ctx,
		`INSERT INTO donated_items (id, name, description, category, condition, location, contact_email, image, image_mime, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, d.Name, d.Description, d.Category, d.Condition, d.Location, d.ContactEmail,
		n.Image, nullString(n.ImageMime), time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating donated item: %w", err)
	}

	return GetDonatedItem(ctx, db, id)
}

// GetDonatedItem returns a listing by ID, or nil if it does not exist.
func GetDonatedItem(ctx context.Context, db *sql.DB, id string) (*model.DonatedItem, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM donated_items WHERE id = ?`, id,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting donated item: %w", err)
	}
	return item, nil
}

// ListDonatedItems returns all listings, newest first.
func ListDonatedItems(ctx context.Context, db *sql.DB) ([]model.DonatedItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM donated_items ORDER BY created_at DESC, rowid DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing donated items: %w", err)
	}
	defer rows.Close()

	var items []model.DonatedItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning donated item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// CountDonatedItems returns the number of listings.
func CountDonatedItems(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM donated_items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting donated items: %w", err)
	}
	return n, nil
}

// ClaimDonatedItem removes a listing and returns it as it was before removal.
// Returns ErrNotFound if the listing does not exist.
func ClaimDonatedItem(ctx context.Context, db *sql.DB, id string) (*model.DonatedItem, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	item, err := scanItem(tx.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM donated_items WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting donated item: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM donated_items WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("deleting donated item: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing claim: %w", err)
	}
	return item, nil
}

// GetItemImage returns a listing's image data and MIME type.
func GetItemImage(ctx context.Context, db *sql.DB, id string) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM donated_items WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return image, mime.String, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*model.DonatedItem, error) {
	item := &model.DonatedItem{}
	var description, imageMime sql.NullString
	err := s.Scan(&item.ID, &item.Name, &description, &item.Category, &item.Condition,
		&item.Location, &item.ContactEmail, &imageMime, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	item.Description = description.String
	item.ImageMime = imageMime.String
	return item, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
