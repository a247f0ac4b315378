// Package editor provides the per-spin-system field editor view.
package editor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/spindraft-labs/spindraft-cli/internal/adapters/driving/tui/messages"
	"github.com/spindraft-labs/spindraft-cli/internal/adapters/driving/tui/styles"
	"github.com/spindraft-labs/spindraft-cli/internal/core/domain"
	"github.com/spindraft-labs/spindraft-cli/internal/core/ports/driving"
)

// View is the structured field editor for one spin system. It reads the
// flattened field list from the field-sync service and writes single
// fields back through it, so all suppression rules apply unchanged.
type View struct {
	styles    *styles.Styles
	fieldSync driving.FieldSyncService

	index    int
	fields   []messages.FieldEntry
	rawJSON  string
	selected int
	editing  bool
	input    textinput.Model
	err      error
	notice   string
	width    int
	height   int
	ready    bool
}

// NewView creates a new field editor view.
func NewView(s *styles.Styles, fieldSync driving.FieldSyncService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 24

	return &View{
		styles:    s,
		fieldSync: fieldSync,
		index:     domain.NoIndex,
		input:     ti,
	}
}

// Init initialises the editor view.
func (v *View) Init() tea.Cmd {
	return v.load()
}

// SetDimensions updates the view size.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// SetSystem selects the system to edit and reloads the fields.
func (v *View) SetSystem(index int) tea.Cmd {
	v.index = index
	v.selected = 0
	v.editing = false
	v.notice = ""
	if v.fieldSync != nil {
		v.fieldSync.Select(index)
	}
	return v.load()
}

// load refreshes the field list, or the raw JSON in raw mode.
func (v *View) load() tea.Cmd {
	return func() tea.Msg {
		if v.fieldSync == nil {
			return messages.FieldsLoaded{Err: fmt.Errorf("field sync service not available")}
		}
		if v.fieldSync.Mode() == driving.ModeRawJSON {
			raw, err := v.fieldSync.EditorJSON()
			if err != nil {
				return messages.FieldsLoaded{Err: err}
			}
			v.rawJSON = raw
			return messages.FieldsLoaded{}
		}
		values, err := v.fieldSync.FieldValues()
		if errors.Is(err, domain.ErrSkipUpdate) {
			return messages.FieldsLoaded{}
		}
		if err != nil {
			return messages.FieldsLoaded{Err: err}
		}
		fields := make([]messages.FieldEntry, len(values))
		for i, fv := range values {
			fields[i] = messages.FieldEntry{Key: fv.Key, Value: fv.Value}
		}
		return messages.FieldsLoaded{Fields: fields}
	}
}

// suppressedMsg signals that an applied edit was deliberately dropped.
type suppressedMsg struct{}

// Update handles messages for the editor view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case suppressedMsg:
		v.notice = "No change applied."
		return v, nil

	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.FieldsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		if msg.Fields != nil {
			v.fields = msg.Fields
			if v.selected >= len(v.fields) {
				v.selected = 0
			}
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
		if v.editing {
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
		if v.selected < len(v.fields)-1 {
			v.selected++
		}

	case "r":
		if v.fieldSync == nil {
			return v, nil
		}
		if v.fieldSync.Mode() == driving.ModeForm {
			v.fieldSync.SetMode(driving.ModeRawJSON)
		} else {
			v.fieldSync.SetMode(driving.ModeForm)
		}
		return v, v.load()

	case "enter":
		if v.fieldSync == nil || v.fieldSync.Mode() == driving.ModeRawJSON {
			return v, nil
		}
		if len(v.fields) == 0 {
			return v, nil
		}
		v.editing = true
		v.notice = ""
		v.input.SetValue(formatValue(v.fields[v.selected].Value))
		v.input.CursorEnd()
		return v, v.input.Focus()
	}

	return v, nil
}

func (v *View) handleEditKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.editing = false
		v.input.Blur()
		return v, nil

	case "enter":
		v.editing = false
		v.input.Blur()
		return v, v.apply(v.fields[v.selected].Key, v.input.Value())
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// apply writes one edited field through the field-sync service. A
// suppressed write is reported as a notice, not an error.
func (v *View) apply(key domain.FieldKey, raw string) tea.Cmd {
	return func() tea.Msg {
		form := make(map[domain.FieldKey]any, len(v.fields))
		for _, f := range v.fields {
			form[f.Key] = f.Value
		}
		value := parseValue(key, raw)
		form[key] = value

		outcome, err := v.fieldSync.Apply(key, value, form)
		if errors.Is(err, domain.ErrSkipUpdate) {
			return suppressedMsg{}
		}
		if err != nil {
			return messages.FieldsLoaded{Err: err}
		}
		return messages.SessionUpdated{Outcome: outcome}
	}
}

// parseValue converts the text-input value into the wire value for a
// field: an empty string clears, isotope stays a string, numbers become
// float64, and anything else passes through as a quantity string.
func parseValue(key domain.FieldKey, raw string) any {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if key.Group == domain.GroupNone && key.Attr == "isotope" {
		return raw
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

func formatValue(value any) string {
	switch val := value.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

// fieldLabel renders a field key for the editor rows.
func fieldLabel(key domain.FieldKey) string {
	if key.Group == domain.GroupNone {
		return key.Attr
	}
	return key.Group.String() + "." + key.Attr
}

// View renders the field editor.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Spin System %d", v.index)))
	b.WriteString("\n\n")

	if v.fieldSync != nil && v.fieldSync.Mode() == driving.ModeRawJSON {
		b.WriteString(v.styles.Normal.Render(v.rawJSON))
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[r] Form mode  [Esc] Back"))
		return b.String()
	}

	for i, f := range v.fields {
		label := fmt.Sprintf("%-34s", fieldLabel(f.Key))
		var value string
		if v.editing && i == v.selected {
			value = v.input.View()
		} else {
			value = formatValue(f.Value)
			if value == "" {
				value = v.styles.Muted.Render("(unset)")
			}
		}
		if i == v.selected && !v.editing {
			b.WriteString("> " + v.styles.Selected.Render(label) + " " + value)
		} else {
			b.WriteString("  " + v.styles.Normal.Render(label) + " " + value)
		}
		b.WriteString("\n")
	}

	if v.err != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	}
	if v.notice != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Warning.Render(v.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[Enter] Edit field  [r] Raw JSON  [Esc] Back"))
	return b.String()
}

// Fields returns the current field entries.
func (v *View) Fields() []messages.FieldEntry {
	return v.fields
}

// Err returns the last error, if any.
func (v *View) Err() error {
	return v.err
}
