// Package grid holds the client-side view of available items: donated
// listings patched by change events, followed by the unclaimed placeholders,
// plus the two-step claim flow (confirm, then reveal the donor email).
package grid

import (
	"context"
	"errors"
	"fmt"

	"github.com/erazemk/heartshare/internal/model"
)

// Kind tells donated listings and placeholders apart.
type Kind int

const (
	KindDonated Kind = iota
	KindPlaceholder
)

func (k Kind) String() string {
	if k == KindPlaceholder {
		return "placeholder"
	}
	return "donated"
}

// Step is the claim dialog state.
type Step int

const (
	StepIdle Step = iota
	StepConfirm
	StepSuccess
)

// Target is the item a claim is about.
type Target struct {
	Kind  Kind
	ID    string
	Name  string
	Email string
}

// Claimer performs the side effect of a confirmed claim.
type Claimer interface {
	// ClaimItem removes a donated listing and returns the donor email.
	ClaimItem(ctx context.Context, id string) (string, error)
	// ClaimPlaceholder persists a placeholder id in local storage.
	ClaimPlaceholder(id string) error
}

var (
	ErrUnknownItem = errors.New("item is no longer available")
	ErrNoClaim     = errors.New("no claim in progress")
)

// Grid is not safe for concurrent use; clients drive it from one event loop.
type Grid struct {
	donated      []model.DonatedItem
	placeholders []model.PlaceholderItem

	step   Step
	target Target
}

// New builds a grid with the seed placeholders minus the locally claimed ids.
func New(seed []model.PlaceholderItem, claimed []string) *Grid {
	return &Grid{placeholders: model.UnclaimedPlaceholders(seed, claimed)}
}

// Load replaces the donated listings with a fresh fetch.
func (g *Grid) Load(items []model.DonatedItem) {
	g.donated = append([]model.DonatedItem(nil), items...)
}

// Apply patches the donated listings with one change event.
func (g *Grid) Apply(ev model.ChangeEvent) {
	switch ev.Type {
	case model.EventInsert:
		if ev.Item != nil {
			g.Insert(*ev.Item)
		}
	case model.EventDelete:
		g.Remove(ev.ID)
	}
}

// Insert puts item at the top. An existing entry with the same id is
// dropped first, so the latest write wins.
func (g *Grid) Insert(item model.DonatedItem) {
	g.Remove(item.ID)
	g.donated = append([]model.DonatedItem{item}, g.donated...)
}

// Remove drops the donated listing with the given id.
func (g *Grid) Remove(id string) bool {
	for i, item := range g.donated {
		if item.ID == id {
			g.donated = append(g.donated[:i], g.donated[i+1:]...)
			return true
		}
	}
	return false
}

// Donated returns the donated listings, newest first.
func (g *Grid) Donated() []model.DonatedItem {
	return g.donated
}

// Placeholders returns the unclaimed placeholders.
func (g *Grid) Placeholders() []model.PlaceholderItem {
	return g.placeholders
}

// Len is the number of visible cards.
func (g *Grid) Len() int {
	return len(g.donated) + len(g.placeholders)
}

// IsNew reports whether id is the newest donated listing.
func (g *Grid) IsNew(id string) bool {
	return len(g.donated) > 0 && g.donated[0].ID == id
}

// Card describes the visible card at index i (donated first).
func (g *Grid) Card(i int) (Target, bool) {
	if i < 0 || i >= g.Len() {
		return Target{}, false
	}
	if i < len(g.donated) {
		d := g.donated[i]
		return Target{Kind: KindDonated, ID: d.ID, Name: d.Name}, true
	}
	p := g.placeholders[i-len(g.donated)]
	return Target{Kind: KindPlaceholder, ID: p.ID, Name: p.Name, Email: model.PlaceholderDonorEmail}, true
}

// Step returns the claim dialog state.
func (g *Grid) Step() Step {
	return g.step
}

// Target returns the item of the current claim.
func (g *Grid) Target() Target {
	return g.target
}

// RequestClaim opens the confirm step for a visible item.
func (g *Grid) RequestClaim(kind Kind, id string) (Target, error) {
	for i := 0; i < g.Len(); i++ {
		t, _ := g.Card(i)
		if t.Kind == kind && t.ID == id {
			g.step = StepConfirm
			g.target = t
			return t, nil
		}
	}
	return Target{}, fmt.Errorf("%w: %s %s", ErrUnknownItem, kind, id)
}

// Cancel closes the confirm step without touching the listings.
func (g *Grid) Cancel() {
	if g.step == StepConfirm {
		g.step = StepIdle
		g.target = Target{}
	}
}

// Confirm carries out the pending claim. On success exactly the claimed
// item is removed and the success step reveals the donor email. On failure
// the listings are unchanged and the grid returns to idle.
func (g *Grid) Confirm(ctx context.Context, c Claimer) (Target, error) {
	if g.step != StepConfirm {
		return Target{}, ErrNoClaim
	}
	t := g.target

	switch t.Kind {
	case KindDonated:
		email, err := c.ClaimItem(ctx, t.ID)
		if err != nil {
			g.step, g.target = StepIdle, Target{}
			return Target{}, err
		}
		t.Email = email
		g.Remove(t.ID)
	case KindPlaceholder:
		if err := c.ClaimPlaceholder(t.ID); err != nil {
			g.step, g.target = StepIdle, Target{}
			return Target{}, err
		}
		g.removePlaceholder(t.ID)
	}

	g.step = StepSuccess
	g.target = t
	return t, nil
}

// Dismiss closes the success step.
func (g *Grid) Dismiss() {
	if g.step == StepSuccess {
		g.step = StepIdle
		g.target = Target{}
	}
}

func (g *Grid) removePlaceholder(id string) {
	for i, p := range g.placeholders {
		if p.ID == id {
			g.placeholders = append(g.placeholders[:i], g.placeholders[i+1:]...)
			return
		}
	}
}
