package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/erazemk/heartshare/internal/client"
	"github.com/erazemk/heartshare/internal/model"
)

var donation model.Donation

var donateCmd = &cobra.Command{
	Use:   "donate <photo>",
	Short: "List an item for donation",
	Long: `List an item for donation with a photo (JPEG, PNG, GIF, WebP or BMP, at
most 5MB).

Example:
  heartshare donate lamp.jpg --name "Desk Lamp" --description "Warm light" \
    --category Furniture --condition Good --location Downtown \
    --email me@example.com`,
	Args: cobra.ExactArgs(1),
	RunE: runDonate,
}

func init() {
	addClientFlags(donateCmd)
	f := donateCmd.Flags()
	f.StringVar(&donation.Name, "name", "", "item name")
	f.StringVar(&donation.Description, "description", "", "item description")
	f.StringVar(&donation.Category, "category", "", fmt.Sprintf("category %v", model.Categories))
	f.StringVar(&donation.Condition, "condition", "", fmt.Sprintf("condition %v", model.Conditions))
	f.StringVar(&donation.Location, "location", "", "pickup location")
	f.StringVar(&donation.ContactEmail, "email", "", "contact email revealed to the claimer")
}

func runDonate(cmd *cobra.Command, args []string) error {
	photo, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading photo: %w", err)
	}
	mime := http.DetectContentType(photo)

	// Same checks as the server so nothing is uploaded for an invalid form.
	errs := donation.Validate()
	if msg := model.ValidateImage(true, mime, int64(len(photo))); msg != "" {
		errs[model.FieldImage] = msg
	}
	if len(errs) > 0 {
		fmt.Println(formatError("Please fill out all required fields correctly."))
		printFieldErrors(errs)
		return errors.New("invalid donation")
	}

	c, err := client.New(cfg.Server)
	if err != nil {
		return err
	}

	item, err := c.Donate(cmd.Context(), donation, photo, mime)
	var apiErr *client.Error
	if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 {
		fmt.Println(formatError(apiErr.Message))
		printFieldErrors(apiErr.Fields)
		return errors.New("invalid donation")
	}
	if err != nil {
		fmt.Println(formatError("There was an error submitting your donation. Please try again."))
		return err
	}

	fmt.Println(formatSuccess("Your item has been listed. Thank you for your generosity!"))
	fmt.Printf("  %s (%s, photo %s)\n", item.Name, item.ID, humanize.IBytes(uint64(len(photo))))
	return nil
}
