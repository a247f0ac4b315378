package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spindraft-labs/spindraft-cli/internal/core/domain"
	"github.com/spindraft-labs/spindraft-cli/internal/core/ports/driven"
)

func record(id string) *driven.SessionRecord {
	return &driven.SessionRecord{
		ID:   id,
		Name: "sample " + id,
		Document: &domain.Document{
			SpinSystems: []domain.SpinSystem{{Abundance: 100, Sites: []domain.Site{{Isotope: "1H"}}}},
		},
	}
}

func TestSessionStoreSaveAndGet(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, record("a")))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "sample a", got.Name)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestSessionStoreGetNotFound(t *testing.T) {
	store := NewSessionStore()

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionStoreGetIsIsolated(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, record("a")))

	first, err := store.Get(ctx, "a")
	require.NoError(t, err)
	first.Document.SpinSystems[0].Name = "scribbled"

	second, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, second.Document.SpinSystems[0].Name)
}

func TestSessionStoreListNewestFirst(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, record("old")))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, store.Save(ctx, record("new")))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "old", list[1].ID)
}

func TestSessionStoreDelete(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, record("a")))
	require.NoError(t, store.Delete(ctx, "a"))

	_, err := store.Get(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, store.Delete(ctx, "a"))
}
