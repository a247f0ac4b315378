// Package fit provides the fit-parameter table view for the TUI.
package fit

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/spindraft-labs/spindraft-cli/internal/adapters/driving/tui/messages"
	"github.com/spindraft-labs/spindraft-cli/internal/adapters/driving/tui/styles"
	"github.com/spindraft-labs/spindraft-cli/internal/core/ports/driving"
)

// row is one rendered table line: either a group title or a parameter.
type row struct {
	title string
	name  string
	value float64
	vary  bool
	expr  string
}

// View is the fit-parameter table view.
type View struct {
	styles     *styles.Styles
	fitService driving.FitService

	rows     []row
	selected int
	report   string
	running  bool
	err      error
	width    int
	height   int
	ready    bool
}

// NewView creates a new fit view.
func NewView(s *styles.Styles, fitService driving.FitService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:     s,
		fitService: fitService,
	}
}

// Init loads the parameter groups.
func (v *View) Init() tea.Cmd {
	return v.load(false)
}

// SetDimensions updates the view size.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// load fetches the grouped parameters; rebuild discards row edits first.
func (v *View) load(rebuild bool) tea.Cmd {
	return func() tea.Msg {
		if v.fitService == nil {
			return messages.FitLoaded{Err: fmt.Errorf("fit service not available")}
		}
		ctx := context.Background()
		if rebuild {
			if _, err := v.fitService.Rebuild(ctx); err != nil {
				return messages.FitLoaded{Err: err}
			}
		}
		set, err := v.fitService.Current(ctx)
		if err != nil {
			return messages.FitLoaded{Err: err}
		}
		sys, mth, err := v.fitService.Groups(ctx)
		if err != nil {
			return messages.FitLoaded{Err: err}
		}
		return messages.FitLoaded{Sys: sys, Mth: mth, Set: set}
	}
}

// runFit hands the set to the external fitter.
func (v *View) runFit() tea.Cmd {
	return func() tea.Msg {
		report, err := v.fitService.Fit(context.Background())
		return messages.FitCompleted{Report: report, Err: err}
	}
}

// Update handles messages for the fit view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.FitLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.rows = v.rows[:0]
		for _, group := range append(msg.Sys, msg.Mth...) {
			v.rows = append(v.rows, row{title: group.Title})
			for _, name := range group.Names {
				p, ok := msg.Set.Get(name)
				if !ok {
					continue
				}
				v.rows = append(v.rows, row{
					name: name, value: p.Value, vary: p.Vary, expr: p.Expr,
				})
			}
		}
		if v.selected >= len(v.rows) {
			v.selected = 0
		}
		return v, nil

	case messages.FitCompleted:
		v.running = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.report = msg.Report
		return v, v.load(false)

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

	case "x":
		if v.fitService == nil || v.selected >= len(v.rows) {
			return v, nil
		}
		name := v.rows[v.selected].name
		if name == "" {
			return v, nil
		}
		if err := v.fitService.Remove(name); err != nil {
			v.err = err
			return v, nil
		}
		return v, v.load(false)

	case "R":
		v.report = ""
		return v, v.load(true)

	case "f":
		if v.fitService == nil || v.running {
			return v, nil
		}
		v.running = true
		v.err = nil
		return v, v.runFit()
	}

	return v, nil
}

// View renders the parameter table.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Fit Parameters"))
	b.WriteString("\n\n")

	if len(v.rows) == 0 {
		b.WriteString(v.styles.Muted.Render("No parameters. Load a session first."))
		b.WriteString("\n")
	}

	for i, r := range v.rows {
		if r.title != "" {
			b.WriteString(v.styles.Subtitle.Render(r.title))
			b.WriteString("\n")
			continue
		}
		vary := " "
		if r.vary {
			vary = "*"
		}
		line := fmt.Sprintf("%s %-44s %12.4g", vary, r.name, r.value)
		if r.expr != "" {
			line += "  = " + r.expr
		}
		if i == v.selected {
			b.WriteString("> " + v.styles.Selected.Render(line))
		} else {
			b.WriteString("  " + v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	if v.running {
		b.WriteString("\n")
		b.WriteString(v.styles.Warning.Render("Fitting..."))
		b.WriteString("\n")
	}
	if v.report != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Success.Render("Fit report:"))
		b.WriteString("\n")
		b.WriteString(v.styles.Normal.Render(v.report))
		b.WriteString("\n")
	}
	if v.err != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[f] Run fit  [x] Remove  [R] Rebuild  [Esc] Menu"))
	return b.String()
}

// Rows returns the number of rendered rows, including group titles.
func (v *View) Rows() int {
	return len(v.rows)
}

// Err returns the last error, if any.
func (v *View) Err() error {
	return v.err
}
