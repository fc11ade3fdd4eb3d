package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/heartshare/internal/grid"
	"github.com/erazemk/heartshare/internal/market"
	"github.com/erazemk/heartshare/internal/model"
)

const (
	msgDonationSuccess = "Donation Successful! Your item has been listed. Thank you for your generosity!"
	msgValidation      = "Validation Error: Please fill out all required fields correctly."
	msgSubmitFailed    = "Submission Failed: There was an error submitting your donation. Please try again."
	msgAlreadyClaimed  = "This item has already been claimed."
	msgLoadFailed      = "Could not load donated items. Please refresh the page."
)

type indexData struct {
	PageData
	Cards []Card
}

// IndexPage handles GET /.
func (s *Server) IndexPage(w http.ResponseWriter, r *http.Request) {
	data := indexData{PageData: PageData{Title: "Browse Items"}}

	switch {
	case r.URL.Query().Get("donation") == "success":
		data.Success = msgDonationSuccess
	case r.URL.Query().Get("claim") == "gone":
		data.Error = msgAlreadyClaimed
	}

	g, err := s.loadGrid(r)
	if err != nil {
		slog.Error("failed to list items", "error", err)
		data.Error = msgLoadFailed
	}

	for _, item := range g.Donated() {
		data.Cards = append(data.Cards, donatedCard(item, g.IsNew(item.ID)))
	}
	for _, p := range g.Placeholders() {
		data.Cards = append(data.Cards, placeholderCard(p))
	}

	s.Templates.Render(w, http.StatusOK, "index.html", &data)
}

// loadGrid builds the visitor's grid. On a listing error the grid still
// holds the unclaimed placeholders.
func (s *Server) loadGrid(r *http.Request) (*grid.Grid, error) {
	g := grid.New(model.Placeholders, ClaimedPlaceholders(r.Context()))
	items, err := s.Market.List(r.Context())
	if err != nil {
		return g, err
	}
	g.Load(items)
	return g, nil
}

type donateData struct {
	PageData
	Form       model.Donation
	Errors     model.FieldErrors
	Categories []string
	Conditions []string
	MaxImage   int64
}

func newDonateData() *donateData {
	return &donateData{
		PageData:   PageData{Title: "Donate an Item"},
		Errors:     model.FieldErrors{},
		Categories: model.Categories,
		Conditions: model.Conditions,
		MaxImage:   model.MaxImageBytes,
	}
}

// DonatePage handles GET /donate.
func (s *Server) DonatePage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, http.StatusOK, "donate.html", newDonateData())
}

// DonateSubmit handles POST /donate.
func (s *Server) DonateSubmit(w http.ResponseWriter, r *http.Request) {
	data := newDonateData()

	d, up, err := market.ReadDonationForm(w, r)
	data.Form = d
	if err == nil {
		_, err = s.Market.Donate(r.Context(), d, up)
	}

	var verr *market.ValidationError
	switch {
	case err == nil:
		http.Redirect(w, r, "/?donation=success#items", http.StatusSeeOther)
	case errors.As(err, &verr):
		data.Errors = verr.Fields
		data.Error = msgValidation
		s.Templates.Render(w, http.StatusUnprocessableEntity, "donate.html", data)
	default:
		slog.Error("failed to submit donation", "error", err)
		data.Error = msgSubmitFailed
		s.Templates.Render(w, http.StatusInternalServerError, "donate.html", data)
	}
}
