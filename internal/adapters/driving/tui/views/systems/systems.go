// Package systems provides the spin-system list view for the TUI.
package systems

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/spindraft-labs/spindraft-cli/internal/adapters/driving/tui/messages"
	"github.com/spindraft-labs/spindraft-cli/internal/adapters/driving/tui/styles"
	"github.com/spindraft-labs/spindraft-cli/internal/core/domain"
	"github.com/spindraft-labs/spindraft-cli/internal/core/ports/driving"
)

// View is the spin-system list view.
type View struct {
	styles         *styles.Styles
	sessionService driving.SessionService

	rows     []domain.SystemRow
	selected int
	err      error
	width    int
	height   int
	ready    bool
}

// NewView creates a new spin-system list view.
func NewView(s *styles.Styles, sessionService driving.SessionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:         s,
		sessionService: sessionService,
	}
}

// Init loads the current system rows.
func (v *View) Init() tea.Cmd {
	return v.load()
}

// SetDimensions updates the view size.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

func (v *View) load() tea.Cmd {
	return func() tea.Msg {
		if v.sessionService == nil {
			return messages.ErrorOccurred{Err: fmt.Errorf("session service not available")}
		}
		return messages.SessionUpdated{Views: v.sessionService.Views()}
	}
}

// dispatch routes one event and reports the refreshed views.
func (v *View) dispatch(ev domain.Event) tea.Cmd {
	return func() tea.Msg {
		outcome, err := v.sessionService.Dispatch(context.Background(), ev)
		if err != nil {
			return messages.SessionUpdated{Err: err}
		}
		return messages.SessionUpdated{Outcome: outcome, Views: v.sessionService.Views()}
	}
}

// Update handles messages for the systems view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SessionUpdated:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		if msg.Outcome.Failed() {
			v.err = fmt.Errorf("%s", msg.Outcome.Message)
			return v, nil
		}
		if msg.Views.Systems.IsSet() {
			v.rows = msg.Views.Systems.Value()
		}
		if v.selected >= len(v.rows) {
			v.selected = len(v.rows) - 1
		}
		if v.selected < 0 {
			v.selected = 0
		}
		v.err = nil
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}

	case "down", "j":
		if v.selected < len(v.rows)-1 {
			v.selected++
		}

	case "enter":
		if len(v.rows) == 0 {
			return v, nil
		}
		index := v.rows[v.selected].Index
		return v, func() tea.Msg {
			return messages.SystemSelected{Index: index}
		}

	case "a":
		return v, v.dispatch(domain.SystemAdded{System: defaultSystem()})

	case "D":
		if len(v.rows) == 0 {
			return v, nil
		}
		return v, v.dispatch(domain.SystemDuplicated{Index: v.rows[v.selected].Index})

	case "x":
		if len(v.rows) == 0 {
			return v, nil
		}
		return v, v.dispatch(domain.SystemDeleted{Index: v.rows[v.selected].Index})

	case "C":
		if len(v.rows) == 0 {
			return v, nil
		}
		return v, v.dispatch(domain.ClearSystems{})
	}

	return v, nil
}

// defaultSystem is the blank system appended by the add key: one proton
// site at natural abundance.
func defaultSystem() domain.SpinSystem {
	return domain.SpinSystem{
		Abundance: 100,
		Sites:     []domain.Site{{Isotope: "1H"}},
	}
}

// View renders the system list.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Spin Systems"))
	b.WriteString("\n\n")

	if len(v.rows) == 0 {
		b.WriteString(v.styles.Muted.Render("No spin systems. Press [a] to add one."))
		b.WriteString("\n")
	}

	for i, r := range v.rows {
		name := r.Name
		if name == "" {
			name = fmt.Sprintf("System %d", r.Index)
		}
		line := fmt.Sprintf("%-20s %-12s %d site(s)  %.3f%%", name, r.Isotopes, r.SiteCount, r.Abundance)
		if i == v.selected {
			b.WriteString("> " + v.styles.Selected.Render(line))
		} else {
			b.WriteString("  " + v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	if v.err != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[Enter] Edit  [a] Add  [D] Duplicate  [x] Delete  [C] Clear all  [Esc] Menu"))
	return b.String()
}

// Selected returns the highlighted list position.
func (v *View) Selected() int {
	return v.selected
}

// Rows returns the current rows.
func (v *View) Rows() []domain.SystemRow {
	return v.rows
}

// Err returns the last error, if any.
func (v *View) Err() error {
	return v.err
}
