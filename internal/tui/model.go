// Package tui is the terminal item browser: the grid of donated items and
// placeholders, kept current by the change feed, with the claim dialogs.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/erazemk/heartshare/internal/grid"
	"github.com/erazemk/heartshare/internal/model"
)

// resubscribeDelay is how long the browser waits before re-fetching after
// the change feed drops.
const resubscribeDelay = 2 * time.Second

// Source is the remote item collection.
type Source interface {
	List(ctx context.Context) ([]model.DonatedItem, error)
	Changes(ctx context.Context) (<-chan model.ChangeEvent, error)
}

// Model is the Bubble Tea model of the browser.
type Model struct {
	ctx     context.Context
	src     Source
	claimer grid.Claimer
	grid    *grid.Grid

	cursor int
	offset int
	width  int
	height int

	loading  bool
	claiming bool
	events   <-chan model.ChangeEvent

	spinner  spinner.Model
	help     help.Model
	keys     keyMap
	showHelp bool

	message      string
	messageStyle lipgloss.Style
	copy         func(string) error
}

// New creates the browser. claimed is the locally persisted set of claimed
// placeholder ids.
func New(ctx context.Context, src Source, claimer grid.Claimer, claimed []string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleInfo

	return Model{
		ctx:     ctx,
		src:     src,
		claimer: claimer,
		grid:    grid.New(model.Placeholders, claimed),
		loading: true,
		spinner: sp,
		help:    help.New(),
		keys:    keys,
		copy:    clipboard.WriteAll,
	}
}

// Run starts the program on the alternate screen.
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}

type itemsLoadedMsg struct {
	items []model.DonatedItem
	err   error
}

type subscribedMsg struct {
	events <-chan model.ChangeEvent
	err    error
}

type changeMsg struct {
	event model.ChangeEvent
}

type feedClosedMsg struct{}

type resubscribeMsg struct{}

type claimDoneMsg struct {
	target grid.Target
	email  string
	err    error
}

type statusMsg struct {
	message string
	style   lipgloss.Style
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load(), m.subscribe())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.adjustViewport()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) && (msg.String() == "ctrl+c" || m.grid.Step() == grid.StepIdle) {
			return m, tea.Quit
		}
		switch m.grid.Step() {
		case grid.StepConfirm:
			return m.updateConfirm(msg)
		case grid.StepSuccess:
			return m.updateSuccess(msg)
		default:
			return m.updateList(msg)
		}

	case itemsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			return m, setStatus("Could not load donated items: "+msg.err.Error(), styleError)
		}
		m.grid.Load(msg.items)
		m.clampCursor()
		return m, nil

	case subscribedMsg:
		if msg.err != nil {
			return m, tea.Batch(
				setStatus("Live updates unavailable, retrying", styleError),
				tea.Tick(resubscribeDelay, func(time.Time) tea.Msg { return resubscribeMsg{} }),
			)
		}
		m.events = msg.events
		return m, waitForChange(msg.events)

	case changeMsg:
		m.grid.Apply(msg.event)
		m.clampCursor()
		return m, waitForChange(m.events)

	case feedClosedMsg:
		m.events = nil
		return m, tea.Tick(resubscribeDelay, func(time.Time) tea.Msg { return resubscribeMsg{} })

	case resubscribeMsg:
		// Events may have been missed while disconnected.
		m.loading = true
		return m, tea.Batch(m.load(), m.subscribe())

	case claimDoneMsg:
		m.claiming = false
		_, err := m.grid.Confirm(m.ctx, resolvedClaim{email: msg.email, err: msg.err})
		if err != nil {
			return m, setStatus("Claim failed: "+err.Error(), styleError)
		}
		m.message = ""
		m.clampCursor()
		return m, nil

	case statusMsg:
		m.message = msg.message
		m.messageStyle = msg.style
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.adjustViewport()
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.grid.Len()-1 {
			m.cursor++
			m.adjustViewport()
		}
	case key.Matches(msg, m.keys.Claim):
		card, ok := m.grid.Card(m.cursor)
		if !ok {
			return m, nil
		}
		if _, err := m.grid.RequestClaim(card.Kind, card.ID); err != nil {
			return m, setStatus(err.Error(), styleError)
		}
		m.message = ""
	case key.Matches(msg, m.keys.Reload):
		m.loading = true
		return m, m.load()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.claiming {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.claiming = true
		return m, m.claim(m.grid.Target())
	case key.Matches(msg, m.keys.Cancel):
		m.grid.Cancel()
	}
	return m, nil
}

func (m Model) updateSuccess(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Copy):
		return m, m.copyEmail(m.grid.Target().Email)
	case key.Matches(msg, m.keys.Close):
		m.grid.Dismiss()
	}
	return m, nil
}

func (m *Model) clampCursor() {
	if m.cursor >= m.grid.Len() {
		m.cursor = m.grid.Len() - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.adjustViewport()
}

func (m *Model) adjustViewport() {
	rows := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

// listHeight is the number of card rows that fit between header and footer.
func (m Model) listHeight() int {
	if m.height == 0 {
		return 20
	}
	return max(1, (m.height-6)/2)
}

// Commands

func (m Model) load() tea.Cmd {
	return func() tea.Msg {
		items, err := m.src.List(m.ctx)
		return itemsLoadedMsg{items: items, err: err}
	}
}

func (m Model) subscribe() tea.Cmd {
	return func() tea.Msg {
		events, err := m.src.Changes(m.ctx)
		return subscribedMsg{events: events, err: err}
	}
}

func waitForChange(events <-chan model.ChangeEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return feedClosedMsg{}
		}
		return changeMsg{event: ev}
	}
}

// claim runs the side effect off the event loop; the grid is only touched
// in Update when the result arrives.
func (m Model) claim(t grid.Target) tea.Cmd {
	return func() tea.Msg {
		switch t.Kind {
		case grid.KindPlaceholder:
			return claimDoneMsg{target: t, err: m.claimer.ClaimPlaceholder(t.ID)}
		default:
			email, err := m.claimer.ClaimItem(m.ctx, t.ID)
			return claimDoneMsg{target: t, email: email, err: err}
		}
	}
}

func (m Model) copyEmail(email string) tea.Cmd {
	return func() tea.Msg {
		if err := m.copy(email); err != nil {
			return statusMsg{message: "Could not copy email: " + err.Error(), style: styleError}
		}
		return statusMsg{message: "Copied " + email, style: styleSuccess}
	}
}

func setStatus(message string, style lipgloss.Style) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{message: message, style: style}
	}
}

// resolvedClaim replays a claim result that was obtained asynchronously.
type resolvedClaim struct {
	email string
	err   error
}

func (r resolvedClaim) ClaimItem(context.Context, string) (string, error) {
	return r.email, r.err
}

func (r resolvedClaim) ClaimPlaceholder(string) error {
	return r.err
}
