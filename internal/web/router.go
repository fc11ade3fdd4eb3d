// Package web serves the HTML pages: the item grid, the donation form and
// the two-step claim dialogs.
package web

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/heartshare/internal/market"
	"github.com/erazemk/heartshare/internal/store"
	webembed "github.com/erazemk/heartshare/web"
)

// NewRouter creates the web page router with all page routes registered.
func NewRouter(svc *market.Service, secret string) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		Market:    svc,
		Templates: templates,
		Secret:    secret,
	}

	mux := http.NewServeMux()

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	mux.HandleFunc("GET /{$}", s.IndexPage)
	mux.HandleFunc("GET /donate", s.DonatePage)
	mux.HandleFunc("POST /donate", s.DonateSubmit)

	mux.HandleFunc("GET /items/{id}/image", s.ItemImageGet)
	mux.HandleFunc("GET /items/{id}/claim", s.ItemClaimPage)
	mux.HandleFunc("POST /items/{id}/claim", s.ItemClaimSubmit)

	mux.HandleFunc("GET /placeholders/{id}/claim", s.PlaceholderClaimPage)
	mux.HandleFunc("POST /placeholders/{id}/claim", s.PlaceholderClaimSubmit)

	return VisitorMiddleware(secret)(mux), nil
}

// ItemImageGet handles GET /items/{id}/image.
func (s *Server) ItemImageGet(w http.ResponseWriter, r *http.Request) {
	data, mime, err := store.GetItemImage(r.Context(), s.Market.DB, r.PathValue("id"))
	if err != nil {
		slog.Error("failed to get image", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if data == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write image response", "error", err)
	}
}
