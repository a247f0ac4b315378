package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	require.NotNil(t, km)
}

func TestDefaultKeyMap_QuitBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Quit.Keys()
	assert.Contains(t, keys, "q")
	assert.Contains(t, keys, "ctrl+c")
}

func TestDefaultKeyMap_NavigationBindings(t *testing.T) {
	km := DefaultKeyMap()

	assert.Contains(t, km.Up.Keys(), "k")
	assert.Contains(t, km.Down.Keys(), "j")
	assert.Contains(t, km.Select.Keys(), "enter")
	assert.Contains(t, km.Back.Keys(), "esc")
}

func TestDefaultKeyMap_EntityBindings(t *testing.T) {
	km := DefaultKeyMap()

	assert.Contains(t, km.Add.Keys(), "a")
	assert.Contains(t, km.Duplicate.Keys(), "D")
	assert.Contains(t, km.Delete.Keys(), "x")
}

func TestDefaultKeyMap_FitBindings(t *testing.T) {
	km := DefaultKeyMap()

	assert.Contains(t, km.RunFit.Keys(), "f")
	assert.Contains(t, km.Refresh.Keys(), "R")
}

func TestShortHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.ShortHelp()

	assert.Len(t, bindings, 5)
}

func TestFullHelp(t *testing.T) {
	km := DefaultKeyMap()

	groups := km.FullHelp()

	require.Len(t, groups, 3)
	for _, group := range groups {
		assert.NotEmpty(t, group)
	}
}
