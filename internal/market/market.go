// Package market implements donating and claiming listings on top of the
// store, and announces every change on the feed hub.
package market

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/erazemk/heartshare/internal/feed"
	"github.com/erazemk/heartshare/internal/imaging"
	"github.com/erazemk/heartshare/internal/model"
	"github.com/erazemk/heartshare/internal/store"
)

// ErrNotFound is returned when claiming or fetching a listing that is gone.
var ErrNotFound = store.ErrNotFound

// ValidationError carries per-field messages for a rejected donation.
type ValidationError struct {
	Fields model.FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "invalid donation: " + strings.Join(keys, ", ")
}

// Upload is the photo attached to a donation. Present is false when the
// donor did not pick a file. Problem is set by readers that already know
// the image is unusable, so Donate can report it with the text fields.
type Upload struct {
	Present bool
	MIME    string
	Size    int64
	Body    io.Reader
	Problem string
}

// BytesUpload wraps in-memory image data.
func BytesUpload(data []byte, mime string) Upload {
	return Upload{Present: len(data) > 0, MIME: mime, Size: int64(len(data)), Body: bytes.NewReader(data)}
}

// Service holds the dependencies for marketplace operations.
type Service struct {
	DB     *sql.DB
	Hub    *feed.Hub
	Images imaging.Options
}

// ImagePath is the API path serving a listing's photo.
func ImagePath(id string) string {
	return "/api/items/" + id + "/image"
}

// List returns all listings, newest first.
func (s *Service) List(ctx context.Context) ([]model.DonatedItem, error) {
	items, err := store.ListDonatedItems(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	for i := range items {
		withImagePath(&items[i])
	}
	return items, nil
}

// Get returns one listing or ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*model.DonatedItem, error) {
	item, err := store.GetDonatedItem(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	withImagePath(item)
	return item, nil
}

// Donate validates and stores a new listing, then announces it.
// Nothing is stored when validation fails.
func (s *Service) Donate(ctx context.Context, d model.Donation, up Upload) (*model.DonatedItem, error) {
	errs := d.Validate()
	msg := up.Problem
	if msg == "" {
		msg = model.ValidateImage(up.Present, up.MIME, up.Size)
	}
	if msg != "" {
		errs[model.FieldImage] = msg
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	// The limit guards against a Size that understates the body.
	processed, err := imaging.Process(io.LimitReader(up.Body, model.MaxImageBytes+1), s.Images)
	if errors.Is(err, imaging.ErrUnsupported) {
		return nil, &ValidationError{Fields: model.FieldErrors{model.FieldImage: "Unsupported image format"}}
	}
	if errors.Is(err, imaging.ErrTooManyPixels) {
		return nil, &ValidationError{Fields: model.FieldErrors{model.FieldImage: "Image dimensions are too large"}}
	}
	if err != nil {
		return nil, fmt.Errorf("processing image: %w", err)
	}

	item, err := store.CreateDonatedItem(ctx, s.DB, store.NewItem{
		Donation:  d,
		Image:     processed.Data,
		ImageMime: processed.MIME,
	})
	if err != nil {
		return nil, err
	}
	withImagePath(item)

	announced := *item
	s.Hub.Publish(model.ChangeEvent{Type: model.EventInsert, Item: &announced})
	slog.Info("item donated", "id", item.ID, "name", item.Name, "category", item.Category)

	return item, nil
}

// Claim removes a listing and returns the donor's contact email.
func (s *Service) Claim(ctx context.Context, id string) (string, error) {
	item, err := store.ClaimDonatedItem(ctx, s.DB, id)
	if err != nil {
		return "", err
	}

	s.Hub.Publish(model.ChangeEvent{Type: model.EventDelete, ID: id})
	slog.Info("item claimed", "id", id, "name", item.Name)

	return item.ContactEmail, nil
}

func withImagePath(item *model.DonatedItem) {
	if item.ImageMime != "" {
		item.ImageURL = ImagePath(item.ID)
	}
}
