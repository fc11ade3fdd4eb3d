package model

import "time"

// DonatedItem is a listing stored in the donated_items table.
type DonatedItem struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Condition    string    `json:"condition"`
	Location     string    `json:"location"`
	ContactEmail string    `json:"-"`
	ImageMime    string    `json:"image_mime,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Categories lists the accepted item categories in display order.
var Categories = []string{
	"Electronics",
	"Furniture",
	"Clothing",
	"Books",
	"Kitchen",
	"Sports",
	"Toys",
	"Other",
}

// Conditions lists the accepted item conditions in display order.
var Conditions = []string{
	"Like New",
	"Good",
	"Fair",
	"Needs Repair",
}

// IsCategory reports whether c is one of Categories.
func IsCategory(c string) bool {
	return contains(Categories, c)
}

// IsCondition reports whether c is one of Conditions.
func IsCondition(c string) bool {
	return contains(Conditions, c)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
