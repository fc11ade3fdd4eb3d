package model

import (
	"regexp"
	"strings"
)

// Form field keys, shared by the HTML form and the JSON API.
const (
	FieldName         = "name"
	FieldDescription  = "description"
	FieldCategory     = "category"
	FieldCondition    = "condition"
	FieldLocation     = "location"
	FieldContactEmail = "contact_email"
	FieldImage        = "image"
)

// MaxImageBytes is the largest accepted upload.
const MaxImageBytes = 5 << 20

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Donation is the user input for a new listing, before the image is attached.
type Donation struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Condition    string `json:"condition"`
	Location     string `json:"location"`
	ContactEmail string `json:"contact_email"`
}

// FieldErrors maps a form field key to a user-facing message.
type FieldErrors map[string]string

// Trimmed returns a copy with surrounding whitespace removed from free-text fields.
func (d Donation) Trimmed() Donation {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
	d.Location = strings.TrimSpace(d.Location)
	d.ContactEmail = strings.TrimSpace(d.ContactEmail)
	return d
}

// Validate checks the text fields. The result is empty when the donation is valid.
func (d Donation) Validate() FieldErrors {
	d = d.Trimmed()
	errs := FieldErrors{}

	if d.Name == "" {
		errs[FieldName] = "Item name is required"
	}
	if d.Description == "" {
		errs[FieldDescription] = "Description is required"
	}
	if !IsCategory(d.Category) {
		errs[FieldCategory] = "Please select a category"
	}
	if !IsCondition(d.Condition) {
		errs[FieldCondition] = "Please select condition"
	}
	if d.Location == "" {
		errs[FieldLocation] = "Location is required"
	}
	if d.ContactEmail == "" {
		errs[FieldContactEmail] = "Email is required"
	} else if !emailPattern.MatchString(d.ContactEmail) {
		errs[FieldContactEmail] = "Please enter a valid email"
	}

	return errs
}

// ValidateImage checks the declared type and size of an uploaded photo.
// It returns an empty string when the upload is acceptable.
func ValidateImage(present bool, mime string, size int64) string {
	switch {
	case !present:
		return "Please upload an item photo"
	case !strings.HasPrefix(mime, "image/"):
		return "Please select an image file"
	case size > MaxImageBytes:
		return "Image must be less than 5MB"
	}
	return ""
}
