// Package examples provides the bundled-example picker view for the TUI.
package examples

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/spindraft-labs/spindraft-cli/internal/adapters/driving/tui/messages"
	"github.com/spindraft-labs/spindraft-cli/internal/adapters/driving/tui/styles"
	"github.com/spindraft-labs/spindraft-cli/internal/core/domain"
	"github.com/spindraft-labs/spindraft-cli/internal/core/ports/driven"
	"github.com/spindraft-labs/spindraft-cli/internal/core/ports/driving"
)

// View lists the bundled example sessions; selecting one imports it.
type View struct {
	styles         *styles.Styles
	sessionService driving.SessionService
	library        driven.ExampleLibrary

	labels       []string
	descriptions []string
	selected     int
	err          error
	width        int
	height       int
	ready        bool
}

// NewView creates a new examples view.
func NewView(s *styles.Styles, sessionService driving.SessionService, library driven.ExampleLibrary) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:         s,
		sessionService: sessionService,
		library:        library,
	}
}

// Init loads the example listing.
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
		if v.library == nil {
			return messages.ExamplesLoaded{Err: fmt.Errorf("example library not available")}
		}
		entries := v.library.List()
		labels := make([]string, len(entries))
		descriptions := make([]string, len(entries))
		for i, e := range entries {
			labels[i] = e.Label
			descriptions[i] = e.Description
		}
		return messages.ExamplesLoaded{Labels: labels, Descriptions: descriptions}
	}
}

// Update handles messages for the examples view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.ExamplesLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.labels = msg.Labels
		v.descriptions = msg.Descriptions
		v.err = nil
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}

		case "down", "j":
			if v.selected < len(v.labels)-1 {
				v.selected++
			}

		case "enter":
			if len(v.labels) == 0 || v.sessionService == nil {
				return v, nil
			}
			label := v.labels[v.selected]
			return v, func() tea.Msg {
				outcome, err := v.sessionService.Dispatch(
					context.Background(), domain.ImportExample{Label: label})
				if err != nil {
					return messages.SessionUpdated{Err: err}
				}
				return messages.SessionUpdated{Outcome: outcome, Views: v.sessionService.Views()}
			}
		}
	}

	return v, nil
}

// View renders the example list.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Examples"))
	b.WriteString("\n\n")

	for i, label := range v.labels {
		line := fmt.Sprintf("%-24s %s", label, v.descriptions[i])
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
	b.WriteString(v.styles.Help.Render("[Enter] Load example  [Esc] Menu"))
	return b.String()
}

// Labels returns the loaded example labels.
func (v *View) Labels() []string {
	return v.labels
}

// Err returns the last error, if any.
func (v *View) Err() error {
	return v.err
}
