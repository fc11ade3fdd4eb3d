package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/erazemk/heartshare/internal/grid"
)

func (m Model) View() string {
	switch m.grid.Step() {
	case grid.StepConfirm:
		return m.center(m.viewConfirm())
	case grid.StepSuccess:
		return m.center(m.viewSuccess())
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderList())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	title := styleTitle.Render("HeartShare")
	count := styleMuted.Render(fmt.Sprintf("%d donated · %d placeholders",
		len(m.grid.Donated()), len(m.grid.Placeholders())))
	if m.loading {
		count = m.spinner.View() + " " + styleMuted.Render("loading")
	}
	return title + "  " + count
}

func (m Model) renderList() string {
	if m.grid.Len() == 0 {
		return styleMuted.Render("Nothing listed right now.") + "\n"
	}

	var b strings.Builder
	end := min(m.grid.Len(), m.offset+m.listHeight())
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderCard(i, i == m.cursor))
	}
	return b.String()
}

func (m Model) renderCard(i int, selected bool) string {
	card, _ := m.grid.Card(i)

	var category, condition, location, listed string
	if card.Kind == grid.KindDonated {
		item := m.grid.Donated()[i]
		category, condition, location = item.Category, item.Condition, item.Location
		if !item.CreatedAt.IsZero() {
			listed = "listed " + humanize.Time(item.CreatedAt)
		}
	} else {
		p := m.grid.Placeholders()[i-len(m.grid.Donated())]
		category, condition, location = p.Category, p.Condition, p.Location
	}

	cursor := "  "
	name := styleName.Render(card.Name)
	if selected {
		cursor = styleSelected.Render("▸ ")
		name = styleSelected.Render(card.Name)
	}
	if card.Kind == grid.KindDonated && m.grid.IsNew(card.ID) {
		name += " " + styleBadge.Render("NEW")
	}

	details := fmt.Sprintf("%s · %s · %s", category, condition, location)
	if listed != "" {
		details += " · " + listed
	}
	return cursor + name + "\n    " + styleMuted.Render(details) + "\n"
}

func (m Model) renderFooter() string {
	var b strings.Builder
	if m.message != "" {
		b.WriteString(m.messageStyle.Render(m.message))
		b.WriteString("\n")
	}
	if m.showHelp {
		b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return b.String()
}

func (m Model) viewConfirm() string {
	t := m.grid.Target()
	body := styleTitle.Render("Confirm Claim") + "\n\n" +
		fmt.Sprintf("Are you sure you want to claim %s?\nIt will be removed from the listing.", styleName.Render(t.Name)) +
		"\n\n"
	if m.claiming {
		body += m.spinner.View() + " claiming"
	} else {
		body += m.help.ShortHelpView([]key.Binding{m.keys.Confirm, m.keys.Cancel})
	}
	return styleDialog.Render(body)
}

func (m Model) viewSuccess() string {
	t := m.grid.Target()
	body := styleSuccess.Render("Claim Successful") + "\n\n" +
		"Congratulations! Please contact the donor using this email address:\n\n" +
		styleInfo.Render(t.Email) + "\n\n" +
		m.help.ShortHelpView([]key.Binding{m.keys.Copy, m.keys.Close})
	if m.message != "" {
		body += "\n" + m.messageStyle.Render(m.message)
	}
	return styleDialog.Render(body)
}

func (m Model) center(s string) string {
	if m.width == 0 || m.height == 0 {
		return s
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s)
}
