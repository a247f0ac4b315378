package overview

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spindraft-labs/spindraft-cli/internal/core/domain"
	"github.com/spindraft-labs/spindraft-cli/internal/core/ports/driving"
)

// stubSession implements driving.SessionService over a fixed document
// with a dispatch recorder.
type stubSession struct {
	doc        *domain.Document
	dispatched []domain.Event
}

func (s *stubSession) Dispatch(_ context.Context, ev domain.Event) (domain.Outcome, error) {
	s.dispatched = append(s.dispatched, ev)
	return domain.NoOp(), nil
}

func (s *stubSession) Document() *domain.Document {
	if s.doc == nil {
		return nil
	}
	return s.doc.Clone()
}

func (s *stubSession) Delta() domain.MutationDelta { return domain.NewDelta() }

func (s *stubSession) Views() domain.DerivedViews {
	sample := domain.SampleInfo{Name: "Test sample", Description: "A measured sample"}
	if s.doc != nil {
		sample.SystemCount = len(s.doc.SpinSystems)
		sample.MethodCount = len(s.doc.Methods)
	}
	return domain.DerivedViews{Sample: domain.Update(sample)}
}

func (s *stubSession) Export() ([]byte, error) { return nil, domain.ErrNoDocument }

func (s *stubSession) SaveAs(context.Context, string) (string, error) {
	return "", domain.ErrNoDocument
}

func (s *stubSession) LoadSession(context.Context, string) (domain.Outcome, error) {
	return domain.NoOp(), domain.ErrNotFound
}

func (s *stubSession) Sessions(context.Context) ([]driving.SessionSummary, error) {
	return nil, nil
}

var _ driving.SessionService = (*stubSession)(nil)

func loadedView(t *testing.T, doc *domain.Document) (*View, *stubSession) {
	t.Helper()
	session := &stubSession{doc: doc}
	v := NewView(nil, session)
	v.SetDimensions(80, 24)

	cmd := v.Init()
	require.NotNil(t, cmd)
	v, _ = v.Update(cmd())
	return v, session
}

func typeString(v *View, s string) *View {
	for _, r := range s {
		v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return v
}

func TestView_Init_LoadsSample(t *testing.T) {
	v, _ := loadedView(t, &domain.Document{Name: "Test sample"})

	assert.True(t, v.Loaded())
	assert.Contains(t, v.View(), "Test sample")
	assert.Contains(t, v.View(), "Decompose: summed")
}

func TestView_ToggleDecompose(t *testing.T) {
	v, session := loadedView(t, &domain.Document{Name: "Test sample"})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	require.NotNil(t, cmd)
	cmd()

	require.Len(t, session.dispatched, 1)
	set, ok := session.dispatched[0].(domain.SetDecompose)
	require.True(t, ok)
	assert.Equal(t, domain.DecomposeSpinSystem, set.Mode)
}

func TestView_ToggleDecomposeBack(t *testing.T) {
	doc := &domain.Document{Name: "Test sample"}
	doc.Config.DecomposeSpectrum = domain.DecomposeSpinSystem
	v, session := loadedView(t, doc)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	require.NotNil(t, cmd)
	cmd()

	require.Len(t, session.dispatched, 1)
	set := session.dispatched[0].(domain.SetDecompose)
	assert.Equal(t, domain.DecomposeNone, set.Mode)
}

func TestView_ToggleDecomposeWithoutDocumentIsIgnored(t *testing.T) {
	v, session := loadedView(t, nil)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	assert.Nil(t, cmd)
	assert.Empty(t, session.dispatched)
}

func TestView_EditSampleInfoDispatches(t *testing.T) {
	v, session := loadedView(t, &domain.Document{Name: "Test sample"})

	// The name prompt is prefilled from the sample header.
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	v = typeString(v, " 2")
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	v = typeString(v, "!")
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	cmd()

	require.Len(t, session.dispatched, 1)
	info, ok := session.dispatched[0].(domain.SetSampleInfo)
	require.True(t, ok)
	assert.Equal(t, "Test sample 2", info.Name)
	assert.Equal(t, "A measured sample!", info.Description)
}

func TestView_EditSampleInfoEscCancels(t *testing.T) {
	v, session := loadedView(t, &domain.Document{Name: "Test sample"})

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'z'}})

	assert.Empty(t, session.dispatched)
	assert.NotContains(t, v.View(), "Name:")
}