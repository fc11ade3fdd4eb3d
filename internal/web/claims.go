package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/heartshare/internal/grid"
	"github.com/erazemk/heartshare/internal/market"
	"github.com/erazemk/heartshare/internal/visitor"
)

type claimData struct {
	PageData
	Target grid.Target
	Action string
}

// pageClaimer claims donated items through the market and records
// placeholder claims in the visitor cookie.
type pageClaimer struct {
	s *Server
	w http.ResponseWriter
	r *http.Request
}

func (c pageClaimer) ClaimItem(ctx context.Context, id string) (string, error) {
	return c.s.Market.Claim(ctx, id)
}

func (c pageClaimer) ClaimPlaceholder(id string) error {
	return visitor.AddClaimed(c.w, c.r, c.s.Secret, id)
}

// ItemClaimPage handles GET /items/{id}/claim.
func (s *Server) ItemClaimPage(w http.ResponseWriter, r *http.Request) {
	s.claimPage(w, r, grid.KindDonated, "/items/")
}

// ItemClaimSubmit handles POST /items/{id}/claim.
func (s *Server) ItemClaimSubmit(w http.ResponseWriter, r *http.Request) {
	s.claimSubmit(w, r, grid.KindDonated)
}

// PlaceholderClaimPage handles GET /placeholders/{id}/claim.
func (s *Server) PlaceholderClaimPage(w http.ResponseWriter, r *http.Request) {
	s.claimPage(w, r, grid.KindPlaceholder, "/placeholders/")
}

// PlaceholderClaimSubmit handles POST /placeholders/{id}/claim.
func (s *Server) PlaceholderClaimSubmit(w http.ResponseWriter, r *http.Request) {
	s.claimSubmit(w, r, grid.KindPlaceholder)
}

func (s *Server) claimPage(w http.ResponseWriter, r *http.Request, kind grid.Kind, prefix string) {
	id := r.PathValue("id")
	g, err := s.loadGrid(r)
	if err != nil {
		slog.Error("failed to list items", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	target, err := g.RequestClaim(kind, id)
	if err != nil {
		http.Redirect(w, r, "/?claim=gone#items", http.StatusSeeOther)
		return
	}

	s.Templates.Render(w, http.StatusOK, "claim_confirm.html", &claimData{
		PageData: PageData{Title: "Confirm Claim"},
		Target:   target,
		Action:   prefix + id + "/claim",
	})
}

func (s *Server) claimSubmit(w http.ResponseWriter, r *http.Request, kind grid.Kind) {
	id := r.PathValue("id")
	g, err := s.loadGrid(r)
	if err != nil {
		slog.Error("failed to list items", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if _, err := g.RequestClaim(kind, id); err != nil {
		http.Redirect(w, r, "/?claim=gone#items", http.StatusSeeOther)
		return
	}

	target, err := g.Confirm(r.Context(), pageClaimer{s: s, w: w, r: r})
	if errors.Is(err, market.ErrNotFound) {
		http.Redirect(w, r, "/?claim=gone#items", http.StatusSeeOther)
		return
	}
	if err != nil {
		slog.Error("failed to claim item", "kind", kind, "id", id, "error", err)
		http.Error(w, "failed to claim item", http.StatusInternalServerError)
		return
	}

	if kind == grid.KindPlaceholder {
		slog.Info("placeholder claimed", "id", id)
	}

	s.Templates.Render(w, http.StatusOK, "claim_success.html", &claimData{
		PageData: PageData{Title: "Claim Successful"},
		Target:   target,
	})
}
