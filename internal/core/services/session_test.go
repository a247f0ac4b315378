package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spindraft-labs/spindraft-cli/internal/core/domain"
	"github.com/spindraft-labs/spindraft-cli/internal/core/ports/driven"
)

type memStore struct {
	mu   sync.Mutex
	recs map[string]driven.SessionRecord
}

func newMemStore() *memStore {
	return &memStore{recs: make(map[string]driven.SessionRecord)}
}

func (m *memStore) Save(_ context.Context, rec *driven.SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := *rec
	saved.Document = rec.Document.Clone()
	m.recs[rec.ID] = saved
	return nil
}

func (m *memStore) Get(_ context.Context, id string) (*driven.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.recs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := rec
	out.Document = rec.Document.Clone()
	return &out, nil
}

func (m *memStore) List(_ context.Context) ([]driven.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]driven.SessionRecord, 0, len(m.recs))
	for _, rec := range m.recs {
		out = append(out, rec)
	}
	return out, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.recs, id)
	return nil
}

func newTestSession(store driven.SessionStore) *Session {
	return NewSession(newTestRouter(), store)
}

func TestSessionDispatchPublishesDocument(t *testing.T) {
	s := newTestSession(nil)

	out, err := s.Dispatch(context.Background(), domain.SystemAdded{System: singleSiteSystem("13C")})
	require.NoError(t, err)
	require.True(t, out.Doc.IsSet())

	doc := s.Document()
	require.NotNil(t, doc)
	require.Len(t, doc.SpinSystems, 1)

	delta := s.Delta()
	assert.True(t, delta.LengthChanged)
	assert.Equal(t, []domain.Isotope{"13C"}, delta.Added)
}

func TestSessionDispatchSkipIsNoOp(t *testing.T) {
	s := newTestSession(nil)

	out, err := s.Dispatch(context.Background(), domain.ImportURL{URL: ""})
	require.NoError(t, err)
	assert.False(t, out.Doc.IsSet())
	assert.Nil(t, s.Document())
}

func TestSessionSnapshotIsIsolated(t *testing.T) {
	s := newTestSession(nil)
	_, err := s.Dispatch(context.Background(), domain.SystemAdded{System: singleSiteSystem("1H")})
	require.NoError(t, err)

	snap := s.Document()
	snap.SpinSystems[0].Name = "scribbled"

	fresh := s.Document()
	assert.Empty(t, fresh.SpinSystems[0].Name)
}

func TestSessionExport(t *testing.T) {
	s := newTestSession(nil)

	_, err := s.Export()
	assert.ErrorIs(t, err, domain.ErrNoDocument)

	payload := uploadPayload(t, `{"name": "glycine", "spin_systems": [], "methods": []}`)
	_, err = s.Dispatch(context.Background(), domain.ImportFile{Contents: payload})
	require.NoError(t, err)

	out, err := s.Export()
	require.NoError(t, err)
	assert.Contains(t, string(out), `"name": "glycine"`)

	// Export then import reproduces the document.
	imp := NewImporter(nil, nil)
	doc, err := imp.Normalize(out)
	require.NoError(t, err)
	assert.Equal(t, s.Document(), doc)
}

func TestSessionSaveAndLoad(t *testing.T) {
	store := newMemStore()
	s := newTestSession(store)

	_, err := s.SaveAs(context.Background(), "empty")
	assert.ErrorIs(t, err, domain.ErrNoDocument)

	_, err = s.Dispatch(context.Background(), domain.SystemAdded{System: singleSiteSystem("27Al")})
	require.NoError(t, err)

	id, err := s.SaveAs(context.Background(), "alumina")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	fresh := newTestSession(store)
	out, err := fresh.LoadSession(context.Background(), id)
	require.NoError(t, err)
	require.True(t, out.Doc.IsSet())

	delta, ok := out.Delta.Get()
	require.True(t, ok)
	assert.True(t, delta.IsNewData)

	doc := fresh.Document()
	require.Len(t, doc.SpinSystems, 1)
	assert.Equal(t, domain.Isotope("27Al"), doc.SpinSystems[0].Sites[0].Isotope)

	summaries, err := fresh.Sessions(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "alumina", summaries[0].Name)
	assert.Equal(t, 1, summaries[0].SystemCount)
}

func TestSessionAutosaveAfterSaveAs(t *testing.T) {
	store := newMemStore()
	s := newTestSession(store)

	_, err := s.Dispatch(context.Background(), domain.SystemAdded{System: singleSiteSystem("1H")})
	require.NoError(t, err)

	id, err := s.SaveAs(context.Background(), "acid")
	require.NoError(t, err)

	_, err = s.Dispatch(context.Background(), domain.SystemAdded{System: singleSiteSystem("13C")})
	require.NoError(t, err)

	rec, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, rec.Document.SpinSystems, 2)
}

func TestSessionViews(t *testing.T) {
	s := newTestSession(nil)
	assert.False(t, s.Views().Systems.IsSet())

	_, err := s.Dispatch(context.Background(), domain.SystemAdded{System: singleSiteSystem("13C")})
	require.NoError(t, err)

	views := s.Views()
	rows, ok := views.Systems.Get()
	require.True(t, ok)
	require.Len(t, rows, 1)
	assert.Equal(t, "13C", rows[0].Isotopes)
}
