package registry_test

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okatz/anchorsync/pkg/registry"
	"github.com/okatz/anchorsync/pkg/vault"
)

func newStore(t *testing.T) (*registry.Store, string) {
	t.Helper()
	dir := t.TempDir()
	settings := vault.NewSettingsStore(dir, "")
	require.NoError(t, settings.Load())
	return registry.New(settings, nil), dir
}

func TestGenerateResolve(t *testing.T) {
	store, _ := newStore(t)

	anchor, err := store.Generate("task-123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(anchor, registry.DefaultPrefix))

	id, ok := store.Resolve(anchor)
	require.True(t, ok)
	assert.Equal(t, "task-123", id)

	// Case-insensitive lookup.
	id, ok = store.Resolve(strings.ToUpper(anchor))
	require.True(t, ok)
	assert.Equal(t, "task-123", id)

	_, ok = store.Resolve("MSTDxx99999")
	assert.False(t, ok)
}

func TestGenerate_Unique(t *testing.T) {
	if testing.Short() {
		t.Skip("10k sequential generates")
	}
	store, _ := newStore(t)

	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		anchor, err := store.Generate(fmt.Sprintf("task-%d", i))
		require.NoError(t, err)
		key := strings.ToLower(anchor)
		require.False(t, seen[key], "duplicate anchor %s", anchor)
		seen[key] = true
	}
}

func TestGenerate_Concurrent(t *testing.T) {
	store, _ := newStore(t)

	anchors := make(chan string, 32)
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			anchor, err := store.Generate(fmt.Sprintf("task-%d", i))
			assert.NoError(t, err)
			anchors <- anchor
		}(i)
	}
	wg.Wait()
	close(anchors)

	seen := make(map[string]bool)
	for anchor := range anchors {
		key := strings.ToLower(anchor)
		require.False(t, seen[key], "duplicate anchor %s", anchor)
		seen[key] = true
	}
	assert.Len(t, seen, 32)
}

func TestGenerate_SurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	settings := vault.NewSettingsStore(dir, "")
	require.NoError(t, settings.Load())
	store := registry.New(settings, nil)

	anchor, err := store.Generate("task-1")
	require.NoError(t, err)

	// A fresh store over the same directory sees the entry and keeps
	// counting from the persisted index.
	reloaded := vault.NewSettingsStore(dir, "")
	require.NoError(t, reloaded.Load())
	store2 := registry.New(reloaded, nil)

	id, ok := store2.Resolve(anchor)
	require.True(t, ok)
	assert.Equal(t, "task-1", id)

	anchor2, err := store2.Generate("task-2")
	require.NoError(t, err)
	assert.NotEqual(t, strings.ToLower(anchor), strings.ToLower(anchor2))
}

func TestHasRemoteID(t *testing.T) {
	store, _ := newStore(t)
	_, err := store.Generate("task-abc")
	require.NoError(t, err)

	assert.True(t, store.HasRemoteID("task-abc"))
	assert.False(t, store.HasRemoteID("task-def"))
}

func TestForget(t *testing.T) {
	store, _ := newStore(t)
	anchor, err := store.Generate("task-1")
	require.NoError(t, err)

	require.NoError(t, store.Forget(anchor))
	_, ok := store.Resolve(anchor)
	assert.False(t, ok)

	// Forgetting an unknown anchor is a no-op.
	require.NoError(t, store.Forget("MSTDnope1"))

	assert.Empty(t, store.Anchors())
}
