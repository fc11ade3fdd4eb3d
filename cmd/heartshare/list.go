package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/erazemk/heartshare/internal/client"
	"github.com/erazemk/heartshare/internal/localstate"
	"github.com/erazemk/heartshare/internal/model"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Print the available items",
	Long: `Print the donated items, newest first, followed by the placeholder
items you have not claimed yet.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	addClientFlags(listCmd)
	listCmd.Flags().String("state", "", "local state file (claimed placeholders)")
}

func runList(cmd *cobra.Command, _ []string) error {
	c, err := client.New(cfg.Server)
	if err != nil {
		return err
	}
	state, err := localstate.Open(cfg.StateFile)
	if err != nil {
		return err
	}

	items, err := c.List(cmd.Context())
	if err != nil {
		fmt.Println(formatError("Could not load donated items"))
		return err
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleMuted).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("ID", "NAME", "CATEGORY", "CONDITION", "LOCATION", "LISTED")

	for _, item := range items {
		t.Row(item.ID, item.Name, item.Category, item.Condition, item.Location, humanize.Time(item.CreatedAt))
	}
	for _, p := range model.UnclaimedPlaceholders(model.Placeholders, state.Claimed()) {
		t.Row(p.ID, p.Name, p.Category, p.Condition, p.Location, "")
	}

	fmt.Println(t.Render())
	fmt.Println(styleMuted.Render(fmt.Sprintf("%d donated items", len(items))))
	return nil
}
