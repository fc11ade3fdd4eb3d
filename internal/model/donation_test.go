package model

import (
	"strings"
	"testing"
)

func validDonation() Donation {
	return Donation{
		Name:         "Desk Lamp",
		Description:  "Works fine, warm light",
		Category:     "Furniture",
		Condition:    "Good",
		Location:     "Downtown",
		ContactEmail: "ana@example.com",
	}
}

func TestValidateAcceptsValidDonation(t *testing.T) {
	if errs := validDonation().Validate(); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestValidateRequiredFields(t *testing.T) {
	tests := []struct {
		field   string
		mutate  func(*Donation)
		message string
	}{
		{FieldName, func(d *Donation) { d.Name = "" }, "Item name is required"},
		{FieldName, func(d *Donation) { d.Name = "   " }, "Item name is required"},
		{FieldDescription, func(d *Donation) { d.Description = "\t\n" }, "Description is required"},
		{FieldCategory, func(d *Donation) { d.Category = "" }, "Please select a category"},
		{FieldCategory, func(d *Donation) { d.Category = "Cars" }, "Please select a category"},
		{FieldCondition, func(d *Donation) { d.Condition = "" }, "Please select condition"},
		{FieldCondition, func(d *Donation) { d.Condition = "like new" }, "Please select condition"},
		{FieldLocation, func(d *Donation) { d.Location = " " }, "Location is required"},
		{FieldContactEmail, func(d *Donation) { d.ContactEmail = "" }, "Email is required"},
		{FieldContactEmail, func(d *Donation) { d.ContactEmail = "not-an-email" }, "Please enter a valid email"},
		{FieldContactEmail, func(d *Donation) { d.ContactEmail = "a b@example.com" }, "Please enter a valid email"},
		{FieldContactEmail, func(d *Donation) { d.ContactEmail = "a@example" }, "Please enter a valid email"},
	}

	for _, tt := range tests {
		d := validDonation()
		tt.mutate(&d)
		errs := d.Validate()
		if errs[tt.field] != tt.message {
			t.Errorf("%s: expected %q, got %q", tt.field, tt.message, errs[tt.field])
		}
		if len(errs) != 1 {
			t.Errorf("%s: expected exactly one error, got %v", tt.field, errs)
		}
	}
}

func TestValidateAllEmpty(t *testing.T) {
	errs := Donation{}.Validate()
	for _, f := range []string{FieldName, FieldDescription, FieldCategory, FieldCondition, FieldLocation, FieldContactEmail} {
		if errs[f] == "" {
			t.Errorf("expected error for %s", f)
		}
	}
}

func TestValidateTrimsEmail(t *testing.T) {
	d := validDonation()
	d.ContactEmail = "  ana@example.com  "
	if errs := d.Validate(); len(errs) != 0 {
		t.Errorf("expected padded email to validate, got %v", errs)
	}
	if got := d.Trimmed().ContactEmail; got != "ana@example.com" {
		t.Errorf("expected trimmed email, got %q", got)
	}
}

func TestValidateImage(t *testing.T) {
	tests := []struct {
		present bool
		mime    string
		size    int64
		want    string
	}{
		{false, "", 0, "Please upload an item photo"},
		{true, "application/pdf", 100, "Please select an image file"},
		{true, "text/plain", 100, "Please select an image file"},
		{true, "image/png", MaxImageBytes + 1, "Image must be less than 5MB"},
		{true, "image/png", MaxImageBytes, ""},
		{true, "image/jpeg", 1024, ""},
		{true, "image/webp", 1, ""},
	}

	for _, tt := range tests {
		got := ValidateImage(tt.present, tt.mime, tt.size)
		if got != tt.want {
			t.Errorf("ValidateImage(%v, %q, %d) = %q, want %q", tt.present, tt.mime, tt.size, got, tt.want)
		}
	}
}

func TestEnumsMatchForm(t *testing.T) {
	if len(Categories) != 8 {
		t.Errorf("expected 8 categories, got %d", len(Categories))
	}
	if len(Conditions) != 4 {
		t.Errorf("expected 4 conditions, got %d", len(Conditions))
	}
	if !IsCondition("Needs Repair") || IsCondition(strings.ToLower("Needs Repair")) {
		t.Error("condition matching should be exact")
	}
}
