package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/spindraft-labs/spindraft-cli/internal/adapters/driving/tui/messages"
	"github.com/spindraft-labs/spindraft-cli/internal/adapters/driving/tui/styles"
	"github.com/spindraft-labs/spindraft-cli/internal/adapters/driving/tui/views/editor"
	"github.com/spindraft-labs/spindraft-cli/internal/adapters/driving/tui/views/examples"
	"github.com/spindraft-labs/spindraft-cli/internal/adapters/driving/tui/views/fit"
	"github.com/spindraft-labs/spindraft-cli/internal/adapters/driving/tui/views/menu"
	"github.com/spindraft-labs/spindraft-cli/internal/adapters/driving/tui/views/method"
	"github.com/spindraft-labs/spindraft-cli/internal/adapters/driving/tui/views/methods"
	"github.com/spindraft-labs/spindraft-cli/internal/adapters/driving/tui/views/overview"
	"github.com/spindraft-labs/spindraft-cli/internal/adapters/driving/tui/views/systems"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// menuView is the main navigation menu.
	menuView *menu.View

	// overviewView is the session summary view.
	overviewView *overview.View

	// systemsView is the spin-system list view.
	systemsView *systems.View

	// editorView is the per-system field editor.
	editorView *editor.View

	// methodsView is the method list view.
	methodsView *methods.View

	// methodView is the per-method detail and processing editor.
	methodView *method.View

	// fitView is the fit-parameter table view.
	fitView *fit.View

	// examplesView is the bundled-example picker.
	examplesView *examples.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		menuView:     menu.NewView(s),
		overviewView: overview.NewView(s, ports.Session),
		systemsView:  systems.NewView(s, ports.Session),
		editorView:   editor.NewView(s, ports.FieldSync),
		methodsView:  methods.NewView(s, ports.Session),
		methodView:   method.NewView(s, ports.Session, ports.Pipeline),
		fitView:      fit.NewView(s, ports.Fit),
		examplesView: examples.NewView(s, ports.Session, ports.Examples),
		currentView:  messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("spindraft - NMR Session Workbench"),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		// Forward to all views for proper sizing
		a.menuView.SetDimensions(msg.Width, msg.Height)
		a.overviewView.SetDimensions(msg.Width, msg.Height)
		a.systemsView.SetDimensions(msg.Width, msg.Height)
		a.editorView.SetDimensions(msg.Width, msg.Height)
		a.methodsView.SetDimensions(msg.Width, msg.Height)
		a.methodView.SetDimensions(msg.Width, msg.Height)
		a.fitView.SetDimensions(msg.Width, msg.Height)
		a.examplesView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// Esc backs out of any view; the editor returns to the system
		// list, everything else to the menu.
		if msg.Type == tea.KeyEsc {
			switch a.currentView {
			case messages.ViewSystemEditor:
				a.currentView = messages.ViewSystems
				return a, a.systemsView.Init()
			case messages.ViewMethodDetail:
				a.currentView = messages.ViewMethods
				return a, a.methodsView.Init()
			case messages.ViewMenu:
				return a, nil
			default:
				a.currentView = messages.ViewMenu
				return a, nil
			}
		}

		return a.forward(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewOverview:
			return a, a.overviewView.Init()
		case messages.ViewSystems:
			return a, a.systemsView.Init()
		case messages.ViewMethods:
			return a, a.methodsView.Init()
		case messages.ViewFit:
			return a, a.fitView.Init()
		case messages.ViewExamples:
			return a, a.examplesView.Init()
		case messages.ViewMenu, messages.ViewHelp, messages.ViewSystemEditor,
			messages.ViewMethodDetail:
			// No loading needed.
		}
		return a, nil

	case messages.SystemSelected:
		a.currentView = messages.ViewSystemEditor
		return a, a.editorView.SetSystem(msg.Index)

	case messages.MethodSelected:
		a.currentView = messages.ViewMethodDetail
		return a, a.methodView.SetMethod(msg.Index)

	case messages.SessionUpdated:
		if msg.Err != nil {
			a.err = msg.Err
		}
		return a.forward(msg)

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a.forward(msg)

	case messages.Quit:
		return a, tea.Quit
	}

	return a.forward(msg)
}

// forward routes a message to the active view.
func (a *App) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewOverview:
		a.overviewView, cmd = a.overviewView.Update(msg)
	case messages.ViewSystems:
		a.systemsView, cmd = a.systemsView.Update(msg)
	case messages.ViewSystemEditor:
		a.editorView, cmd = a.editorView.Update(msg)
	case messages.ViewMethods:
		a.methodsView, cmd = a.methodsView.Update(msg)
	case messages.ViewMethodDetail:
		a.methodView, cmd = a.methodView.Update(msg)
	case messages.ViewFit:
		a.fitView, cmd = a.fitView.Update(msg)
	case messages.ViewExamples:
		a.examplesView, cmd = a.examplesView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't handle messages.
	}

	return a, cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewMenu:
		return a.menuView.View()
	case messages.ViewOverview:
		return a.overviewView.View()
	case messages.ViewSystems:
		return a.systemsView.View()
	case messages.ViewSystemEditor:
		return a.editorView.View()
	case messages.ViewMethods:
		return a.methodsView.View()
	case messages.ViewMethodDetail:
		return a.methodView.View()
	case messages.ViewFit:
		return a.fitView.View()
	case messages.ViewExamples:
		return a.examplesView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Overview:
  e           Edit sample name and description
  d           Toggle decompose mode

Spin systems / Methods:
  j/k, ↑/↓    Navigate rows
  enter       Open selected entry
  a           Add
  D           Duplicate
  x           Delete
  C           Clear all

Method detail:
  n           Rename method
  e           Attach a measured spectrum
  a / g       Add an apodization
  s           Submit the processing pipeline

System editor:
  enter       Edit field / apply value
  r           Toggle raw JSON mode
  esc         Back to list

Fit parameters:
  f           Run the external fitter
  x           Remove parameter
  R           Rebuild from the session`
}

// CurrentView returns the active view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.overviewView.SetDimensions(width, height)
	a.systemsView.SetDimensions(width, height)
	a.editorView.SetDimensions(width, height)
	a.methodsView.SetDimensions(width, height)
	a.methodView.SetDimensions(width, height)
	a.fitView.SetDimensions(width, height)
	a.examplesView.SetDimensions(width, height)
}
