package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/erazemk/heartshare/internal/market"
	"github.com/erazemk/heartshare/internal/model"
	webembed "github.com/erazemk/heartshare/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"bytes": func(n int64) string {
			return humanize.IBytes(uint64(n))
		},
	}
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates() (*Templates, error) {
	tfs := webembed.TemplatesFS()

	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	pages := []string{
		"index.html",
		"donate.html",
		"claim_confirm.html",
		"claim_success.html",
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with the given data and status code.
func (ts *Templates) Render(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title   string
	Error   string
	Success string
}

// Server holds all dependencies for page handlers.
type Server struct {
	Market    *market.Service
	Templates *Templates
	Secret    string
}

// Card is one tile of the item grid.
type Card struct {
	Kind        string
	ID          string
	Name        string
	Description string
	Category    string
	Condition   string
	Location    string
	ImageURL    string
	Listed      string
	IsNew       bool
	ClaimURL    string
}

func donatedCard(item model.DonatedItem, isNew bool) Card {
	c := Card{
		Kind:        "donated",
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Category:    item.Category,
		Condition:   item.Condition,
		Location:    item.Location,
		IsNew:       isNew,
		ClaimURL:    "/items/" + item.ID + "/claim",
	}
	if item.ImageMime != "" {
		c.ImageURL = "/items/" + item.ID + "/image"
	}
	if !item.CreatedAt.IsZero() {
		c.Listed = humanize.Time(item.CreatedAt)
	}
	return c
}

func placeholderCard(p model.PlaceholderItem) Card {
	return Card{
		Kind:      "placeholder",
		ID:        p.ID,
		Name:      p.Name,
		Category:  p.Category,
		Condition: p.Condition,
		Location:  p.Location,
		ImageURL:  p.ImageURL,
		ClaimURL:  "/placeholders/" + p.ID + "/claim",
	}
}
