package main

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/erazemk/heartshare/internal/model"
)

var (
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "2", Dark: "2"}).Bold(true)
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "1", Dark: "1"}).Bold(true)
	styleHeader  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "5", Dark: "5"}).Bold(true)
	styleMuted   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "8", Dark: "8"})
)

func formatSuccess(msg string) string {
	return styleSuccess.Render("✔ " + msg)
}

func formatError(msg string) string {
	return styleError.Render("✘ " + msg)
}

// printFieldErrors prints field messages in form order.
func printFieldErrors(errs model.FieldErrors) {
	order := map[string]int{
		model.FieldImage:        0,
		model.FieldName:         1,
		model.FieldDescription:  2,
		model.FieldCategory:     3,
		model.FieldCondition:    4,
		model.FieldLocation:     5,
		model.FieldContactEmail: 6,
	}
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return order[fields[i]] < order[fields[j]] })

	for _, f := range fields {
		fmt.Printf("  %s %s\n", styleMuted.Render(f+":"), errs[f])
	}
}
