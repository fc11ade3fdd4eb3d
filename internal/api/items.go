package api

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/erazemk/heartshare/internal/imaging"
	"github.com/erazemk/heartshare/internal/market"
	"github.com/erazemk/heartshare/internal/model"
	"github.com/erazemk/heartshare/internal/store"
)

// ItemsHandler handles donated item endpoints.
type ItemsHandler struct {
	Market *market.Service
}

// createItemRequest is the JSON form of a donation; the photo travels
// inline as a data: URL.
type createItemRequest struct {
	model.Donation
	ImageURL string `json:"image_url"`
}

// ClaimResponse reveals the donor's contact address.
type ClaimResponse struct {
	ID           string `json:"id"`
	ContactEmail string `json:"contact_email"`
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Market.List(r.Context())
	if err != nil {
		slog.Error("failed to list items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.DonatedItem{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items with either a multipart form or JSON.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var (
		donation model.Donation
		upload   market.Upload
	)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		d, up, err := market.ReadDonationForm(w, r)
		var verr *market.ValidationError
		if errors.As(err, &verr) {
			jsonValidationError(w, verr.Fields)
			return
		}
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		donation, upload = d, up

	default:
		var req createItemRequest
		r.Body = http.MaxBytesReader(w, r.Body, 2*model.MaxImageBytes)
		if err := decodeJSON(r, &req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				jsonValidationError(w, model.FieldErrors{model.FieldImage: "Image must be less than 5MB"})
				return
			}
			jsonError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		donation = req.Donation
		if req.ImageURL != "" {
			data, mimeType, err := imaging.ParseDataURL(req.ImageURL)
			if err != nil {
				upload = market.Upload{Present: true, Problem: "Please select an image file"}
			} else {
				upload = market.BytesUpload(data, mimeType)
			}
		}
	}

	item, err := h.Market.Donate(r.Context(), donation, upload)
	if err != nil {
		h.writeDonateError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, item)
}

func (h *ItemsHandler) writeDonateError(w http.ResponseWriter, err error) {
	var verr *market.ValidationError
	if errors.As(err, &verr) {
		jsonValidationError(w, verr.Fields)
		return
	}
	slog.Error("failed to create item", "error", err)
	jsonError(w, http.StatusInternalServerError, "There was an error submitting your donation. Please try again.")
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.Market.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, market.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		slog.Error("failed to get item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// GetImage handles GET /api/items/{id}/image.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	data, mimeType, err := store.GetItemImage(r.Context(), h.Market.DB, r.PathValue("id"))
	if err != nil {
		slog.Error("failed to get image", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get image")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}

// Claim handles POST /api/items/{id}/claim.
func (h *ItemsHandler) Claim(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	email, err := h.Market.Claim(r.Context(), id)
	if errors.Is(err, market.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "item was already claimed")
		return
	}
	if err != nil {
		slog.Error("failed to claim item", "id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to claim item")
		return
	}
	jsonResponse(w, http.StatusOK, ClaimResponse{ID: id, ContactEmail: email})
}

// Placeholders handles GET /api/placeholders. Clients filter out the ids
// they have claimed locally.
func Placeholders(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, model.Placeholders)
}
