package model

// Change event types.
const (
	EventInsert = "INSERT"
	EventDelete = "DELETE"
)

// ChangeEvent describes one row change in donated_items.
// Item is set for inserts, ID for deletes.
type ChangeEvent struct {
	Type string       `json:"type"`
	Item *DonatedItem `json:"item,omitempty"`
	ID   string       `json:"id,omitempty"`
}
