// Package method provides the per-method detail view: renaming,
// experiment attachment, and the signal-processing pipeline editor.
package method

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/spindraft-labs/spindraft-cli/internal/adapters/driving/tui/messages"
	"github.com/spindraft-labs/spindraft-cli/internal/adapters/driving/tui/styles"
	"github.com/spindraft-labs/spindraft-cli/internal/core/domain"
	"github.com/spindraft-labs/spindraft-cli/internal/core/ports/driving"
)

type editMode int

const (
	modeBrowse editMode = iota
	modeRename
	modeAttach
	modeFWHM
)

// View shows one method in detail. The processing pipeline is staged
// locally and written back as a whole on submit, so half-edited
// operation lists never reach the document.
type View struct {
	styles         *styles.Styles
	sessionService driving.SessionService
	pipeline       driving.PipelineAssembler

	index    int
	method   domain.Method
	ops      []domain.Operation
	selected int
	mode     editMode
	input    textinput.Model
	sigma    float64
	hasSigma bool
	err      error
	width    int
	height   int
	ready    bool
}

// NewView creates a new method detail view.
func NewView(s *styles.Styles, sessionService driving.SessionService, pipeline driving.PipelineAssembler) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.CharLimit = 128
	ti.Width = 40

	return &View{
		styles:         s,
		sessionService: sessionService,
		pipeline:       pipeline,
		index:          domain.NoIndex,
		input:          ti,
	}
}

// methodLoadedMsg carries one method snapshot and its staged pipeline.
type methodLoadedMsg struct {
	method domain.Method
	ops    []domain.Operation
	err    error
}

// Init reloads the current method.
func (v *View) Init() tea.Cmd {
	return v.load()
}

// SetDimensions updates the view size.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// SetMethod selects the method to show and reloads it.
func (v *View) SetMethod(index int) tea.Cmd {
	v.index = index
	v.selected = 0
	v.mode = modeBrowse
	return v.load()
}

// load snapshots the method and the user operations of its processor,
// with the transform-in/out bracket stripped.
func (v *View) load() tea.Cmd {
	return func() tea.Msg {
		if v.sessionService == nil {
			return methodLoadedMsg{err: fmt.Errorf("session service not available")}
		}
		doc := v.sessionService.Document()
		if doc == nil {
			return methodLoadedMsg{err: domain.ErrNoDocument}
		}
		if v.index < 0 || v.index >= len(doc.Methods) {
			return methodLoadedMsg{err: domain.ErrIndexOutOfRange}
		}
		var ops []domain.Operation
		if v.index < len(doc.SignalProcessors) {
			for _, op := range doc.SignalProcessors[v.index].Operations {
				if op.Function == domain.FnIFFT || op.Function == domain.FnFFT {
					continue
				}
				ops = append(ops, op)
			}
		}
		return methodLoadedMsg{method: doc.Methods[v.index].Clone(), ops: ops}
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

// Update handles messages for the method detail view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case methodLoadedMsg:
		if msg.err != nil {
			v.err = msg.err
			return v, nil
		}
		v.method = msg.method
		v.ops = msg.ops
		v.sigma, v.hasSigma = msg.method.NoiseSigma()
		if v.selected >= len(v.ops) {
			v.selected = 0
		}
		v.err = nil
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
		return v, v.load()

	case tea.KeyMsg:
		if v.mode != modeBrowse {
			return v.handleEditKey(msg)
		}
		return v.handleBrowseKey(msg)
	}

	return v, nil
}

func (v *View) handleBrowseKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}

	case "down", "j":
		if v.selected < len(v.ops)-1 {
			v.selected++
		}

	case "n":
		v.mode = modeRename
		v.input.SetValue(v.method.Name)
		v.input.CursorEnd()
		return v, v.input.Focus()

	case "e":
		v.mode = modeAttach
		v.input.SetValue("")
		return v, v.input.Focus()

	case "a":
		v.ops = append(v.ops, apodization("Exponential"))
		v.selected = len(v.ops) - 1

	case "g":
		v.ops = append(v.ops, apodization("Gaussian"))
		v.selected = len(v.ops) - 1

	case "x":
		if len(v.ops) == 0 {
			return v, nil
		}
		v.ops = append(v.ops[:v.selected], v.ops[v.selected+1:]...)
		if v.selected >= len(v.ops) && v.selected > 0 {
			v.selected--
		}

	case "enter":
		if len(v.ops) == 0 || v.ops[v.selected].Function != domain.FnApodization {
			return v, nil
		}
		v.mode = modeFWHM
		v.input.SetValue(v.ops[v.selected].FWHM)
		v.input.CursorEnd()
		return v, v.input.Focus()

	case "s":
		return v, v.submit()
	}

	return v, nil
}

func (v *View) handleEditKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.mode = modeBrowse
		v.input.Blur()
		return v, nil

	case "enter":
		mode := v.mode
		v.mode = modeBrowse
		v.input.Blur()
		value := strings.TrimSpace(v.input.Value())
		switch mode {
		case modeRename:
			renamed := v.method.Clone()
			renamed.Name = value
			return v, v.dispatch(domain.MethodModified{Index: v.index, Method: renamed})

		case modeAttach:
			return v, v.attach(value)

		case modeFWHM:
			v.ops[v.selected].FWHM = value
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// attach reads a measured spectrum file and merges it into the method.
func (v *View) attach(path string) tea.Cmd {
	return func() tea.Msg {
		raw, err := os.ReadFile(path)
		if err != nil {
			return methodLoadedMsg{err: err}
		}
		payload := "data:application/json;base64," + base64.StdEncoding.EncodeToString(raw)
		return v.dispatch(domain.AttachExperiment{MethodIndex: v.index, Contents: payload})()
	}
}

// submit writes the staged pipeline back as the method's processor.
// Assembly is previewed first so an unloadable document surfaces here
// instead of as a silent no-op.
func (v *View) submit() tea.Cmd {
	widgets := make([]domain.OperationWidget, len(v.ops))
	for i, op := range v.ops {
		widgets[i] = domain.OperationWidget{Function: op.Function, Index: i, Op: op}
	}
	return func() tea.Msg {
		if v.pipeline != nil {
			if _, err := v.pipeline.Assemble(v.index, widgets); err != nil {
				return methodLoadedMsg{err: err}
			}
		}
		return v.dispatch(domain.SubmitProcessor{MethodIndex: v.index, Widgets: widgets})()
	}
}

func apodization(window string) domain.Operation {
	return domain.Operation{
		Function: domain.FnApodization,
		Type:     window,
		FWHM:     "100 Hz",
	}
}

func opLabel(op domain.Operation) string {
	if op.Function == domain.FnApodization {
		return fmt.Sprintf("apodization %-12s FWHM %s", op.Type, op.FWHM)
	}
	if op.Factor != nil {
		return fmt.Sprintf("%-24s factor %g", op.Function, *op.Factor)
	}
	return op.Function
}

// View renders the method detail.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Method %d: %s", v.index, v.method.Name)))
	b.WriteString("\n")

	channels := make([]string, len(v.method.Channels))
	for i, ch := range v.method.Channels {
		channels[i] = string(ch)
	}
	b.WriteString(v.styles.Normal.Render(fmt.Sprintf("Channels %s, %d dimension(s)",
		strings.Join(channels, "-"), len(v.method.SpectralDimensions))))
	b.WriteString("\n")

	if v.method.Experiment != nil {
		line := "Experiment attached"
		if v.hasSigma {
			line = fmt.Sprintf("Experiment attached, noise sigma %.4g", v.sigma)
		}
		b.WriteString(v.styles.Muted.Render(line))
	} else {
		b.WriteString(v.styles.Muted.Render("No experiment attached"))
	}
	b.WriteString("\n\n")

	b.WriteString(v.styles.Subtitle.Render("Processing"))
	b.WriteString("\n")
	if len(v.ops) == 0 {
		b.WriteString(v.styles.Muted.Render("  No operations. Press [a] to add one."))
		b.WriteString("\n")
	}
	for i, op := range v.ops {
		label := opLabel(op)
		if v.mode == modeFWHM && i == v.selected {
			label = fmt.Sprintf("apodization %-12s FWHM %s", op.Type, v.input.View())
		}
		if i == v.selected {
			b.WriteString("> " + v.styles.Selected.Render(label))
		} else {
			b.WriteString("  " + v.styles.Normal.Render(label))
		}
		b.WriteString("\n")
	}

	switch v.mode {
	case modeRename:
		b.WriteString("\nName: " + v.input.View() + "\n")
	case modeAttach:
		b.WriteString("\nSpectrum file: " + v.input.View() + "\n")
	}

	if v.err != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render(
		"[n] Rename  [e] Attach spectrum  [a/g] Add apodization  [Enter] Edit FWHM  [x] Delete  [s] Submit pipeline  [Esc] Back"))
	return b.String()
}

// Ops returns the staged pipeline operations.
func (v *View) Ops() []domain.Operation {
	return v.ops
}

// Method returns the loaded method snapshot.
func (v *View) Method() domain.Method {
	return v.method
}

// Err returns the last error, if any.
func (v *View) Err() error {
	return v.err
}
