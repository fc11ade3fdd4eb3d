package api

import (
	"net/http"

	"github.com/erazemk/heartshare/internal/feed"
	"github.com/erazemk/heartshare/internal/market"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(svc *market.Service) http.Handler {
	mux := http.NewServeMux()

	itemsHandler := &ItemsHandler{Market: svc}

	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.HandleFunc("POST /api/items", itemsHandler.Create)
	mux.HandleFunc("GET /api/items/{id}", itemsHandler.Get)
	mux.HandleFunc("GET /api/items/{id}/image", itemsHandler.GetImage)
	mux.HandleFunc("POST /api/items/{id}/claim", itemsHandler.Claim)

	mux.HandleFunc("GET /api/placeholders", Placeholders)

	// Row change notifications for live listings.
	mux.Handle("GET /api/changes", feed.Handler(svc.Hub))

	return mux
}
