// Package overview provides the session summary view for the TUI.
package overview

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/spindraft-labs/spindraft-cli/internal/adapters/driving/tui/messages"
	"github.com/spindraft-labs/spindraft-cli/internal/adapters/driving/tui/styles"
	"github.com/spindraft-labs/spindraft-cli/internal/core/domain"
	"github.com/spindraft-labs/spindraft-cli/internal/core/ports/driving"
)

// View renders the sample header and the entity overview tables.
type View struct {
	styles         *styles.Styles
	sessionService driving.SessionService

	views     domain.DerivedViews
	decompose domain.DecomposeMode
	// editStage walks the sample-info prompt: 0 idle, 1 name, 2
	// description.
	editStage   int
	pendingName string
	input       textinput.Model
	loaded      bool
	err         error
	width       int
	height      int
	ready       bool
}

// NewView creates a new overview view.
func NewView(s *styles.Styles, sessionService driving.SessionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.CharLimit = 128
	ti.Width = 40

	return &View{
		styles:         s,
		sessionService: sessionService,
		decompose:      domain.DecomposeNone,
		input:          ti,
	}
}

// Init loads the current derived views.
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

func (v *View) dispatch(ev domain.Event) tea.Cmd {
	return func() tea.Msg {
		outcome, err := v.sessionService.Dispatch(context.Background(), ev)
		if err != nil {
			return messages.SessionUpdated{Err: err}
		}
		return messages.SessionUpdated{Outcome: outcome, Views: v.sessionService.Views()}
	}
}

// Update handles messages for the overview view.
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
		v.merge(msg.Views)
		if doc := v.sessionService.Document(); doc != nil {
			v.decompose = doc.Config.DecomposeSpectrum
		}
		v.loaded = true
		v.err = nil
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil

	case tea.KeyMsg:
		if v.editStage > 0 {
			return v.handleEditKey(msg)
		}
		return v.handleBrowseKey(msg)
	}

	return v, nil
}

func (v *View) handleBrowseKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "R":
		return v, v.load()

	case "d":
		if v.sessionService == nil || v.sessionService.Document() == nil {
			return v, nil
		}
		mode := domain.DecomposeSpinSystem
		if v.decompose == domain.DecomposeSpinSystem {
			mode = domain.DecomposeNone
		}
		return v, v.dispatch(domain.SetDecompose{Mode: mode})

	case "e":
		if v.sessionService == nil || v.sessionService.Document() == nil {
			return v, nil
		}
		v.editStage = 1
		v.input.SetValue(v.views.Sample.Value().Name)
		v.input.CursorEnd()
		return v, v.input.Focus()
	}

	return v, nil
}

func (v *View) handleEditKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.editStage = 0
		v.input.Blur()
		return v, nil

	case "enter":
		if v.editStage == 1 {
			v.pendingName = strings.TrimSpace(v.input.Value())
			v.editStage = 2
			v.input.SetValue(v.views.Sample.Value().Description)
			v.input.CursorEnd()
			return v, nil
		}
		v.editStage = 0
		v.input.Blur()
		return v, v.dispatch(domain.SetSampleInfo{
			Name:        v.pendingName,
			Description: strings.TrimSpace(v.input.Value()),
		})
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// merge applies set patches from an update, keeping stale renderings for
// unset ones.
func (v *View) merge(update domain.DerivedViews) {
	if update.Sample.IsSet() {
		v.views.Sample = update.Sample
	}
	if update.Systems.IsSet() {
		v.views.Systems = update.Systems
	}
	if update.Methods.IsSet() {
		v.views.Methods = update.Methods
	}
	if update.SystemOptions.IsSet() {
		v.views.SystemOptions = update.SystemOptions
	}
	if update.MethodOptions.IsSet() {
		v.views.MethodOptions = update.MethodOptions
	}
}

// View renders the overview tables.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	sample := v.views.Sample.Value()
	b.WriteString(v.styles.Title.Render(sample.Name))
	b.WriteString("\n")
	if sample.Description != "" {
		b.WriteString(v.styles.Muted.Render(sample.Description))
		b.WriteString("\n")
	}
	b.WriteString(v.styles.Normal.Render(
		fmt.Sprintf("%d spin system(s), %d method(s)", sample.SystemCount, sample.MethodCount)))
	b.WriteString("\n")
	if v.decompose == domain.DecomposeSpinSystem {
		b.WriteString(v.styles.Muted.Render("Decompose: per spin system"))
	} else {
		b.WriteString(v.styles.Muted.Render("Decompose: summed"))
	}
	b.WriteString("\n\n")

	switch v.editStage {
	case 1:
		b.WriteString("Name: " + v.input.View() + "\n\n")
	case 2:
		b.WriteString("Description: " + v.input.View() + "\n\n")
	}

	b.WriteString(v.styles.Subtitle.Render("Spin Systems"))
	b.WriteString("\n")
	systems := v.views.Systems.Value()
	if len(systems) == 0 {
		b.WriteString(v.styles.Muted.Render("  (none)"))
		b.WriteString("\n")
	}
	for _, r := range systems {
		name := r.Name
		if name == "" {
			name = fmt.Sprintf("System %d", r.Index)
		}
		b.WriteString(fmt.Sprintf("  [%d] %-20s %-12s %d site(s)  %.3f%%\n",
			r.Index, name, r.Isotopes, r.SiteCount, r.Abundance))
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render("Methods"))
	b.WriteString("\n")
	methods := v.views.Methods.Value()
	if len(methods) == 0 {
		b.WriteString(v.styles.Muted.Render("  (none)"))
		b.WriteString("\n")
	}
	for _, r := range methods {
		b.WriteString(fmt.Sprintf("  [%d] %-28s %-10s %.1f T  %.1f kHz\n",
			r.Index, r.Name, r.Channels, r.FluxDensity, r.RotorFrequency))
	}

	if v.err != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[e] Edit sample info  [d] Toggle decompose  [R] Refresh  [Esc] Menu  [q] Quit"))
	return b.String()
}

// Loaded reports whether the view has received data.
func (v *View) Loaded() bool {
	return v.loaded
}

// Err returns the last error, if any.
func (v *View) Err() error {
	return v.err
}
