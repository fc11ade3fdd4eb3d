package model

// PlaceholderItem is a demo listing that is never stored in the database.
type PlaceholderItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Condition string `json:"condition"`
	Location  string `json:"location"`
	ImageURL  string `json:"image_url"`
}

// PlaceholderDonorEmail is revealed when a placeholder item is claimed.
const PlaceholderDonorEmail = "donor@heartshare.example.com"

// Placeholders is the seed catalog shown below the donated items.
var Placeholders = []PlaceholderItem{
	{ID: "ph-1", Name: "Vintage Desk Lamp", Category: "Furniture", Condition: "Good", Location: "Downtown", ImageURL: "https://images.unsplash.com/photo-1507473885765-e6ed057f782c?w=600&h=400&fit=crop"},
	{ID: "ph-2", Name: "Children's Books Set", Category: "Books", Condition: "Like New", Location: "East Side", ImageURL: "https://images.unsplash.com/photo-1512820790803-83ca734da794?w=600&h=400&fit=crop"},
	{ID: "ph-3", Name: "Kitchen Mixer", Category: "Kitchen", Condition: "Fair", Location: "Suburb Area", ImageURL: "https://images.unsplash.com/photo-1594385208974-2e75f8d7bb48?w=600&h=400&fit=crop"},
	{ID: "ph-4", Name: "Yoga Mat", Category: "Sports", Condition: "Good", Location: "North District", ImageURL: "https://images.unsplash.com/photo-1601925260368-ae2f83cf8b7f?w=600&h=400&fit=crop"},
	{ID: "ph-5", Name: "Winter Jacket", Category: "Clothing", Condition: "Like New", Location: "Central", ImageURL: "https://images.unsplash.com/photo-1551028719-00167b16eac5?w=600&h=400&fit=crop"},
	{ID: "ph-6", Name: "Board Games Bundle", Category: "Toys", Condition: "Good", Location: "West End", ImageURL: "https://images.unsplash.com/photo-1611371805429-8b5c1b2c34ba?w=600&h=400&fit=crop"},
}

// FindPlaceholder returns the seed entry with the given ID.
func FindPlaceholder(id string) (PlaceholderItem, bool) {
	for _, p := range Placeholders {
		if p.ID == id {
			return p, true
		}
	}
	return PlaceholderItem{}, false
}

// UnclaimedPlaceholders returns the seed entries whose IDs are not in claimed.
func UnclaimedPlaceholders(seed []PlaceholderItem, claimed []string) []PlaceholderItem {
	out := make([]PlaceholderItem, 0, len(seed))
	for _, p := range seed {
		if !contains(claimed, p.ID) {
			out = append(out, p)
		}
	}
	return out
}
