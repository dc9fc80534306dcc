package vault

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_LoadMissingIsEmpty(t *testing.T) {
	store := NewSettingsStore(t.TempDir(), "")
	require.NoError(t, store.Load())
	store.View(func(d *Settings) {
		assert.NotNil(t, d.TaskIDLookup)
		assert.Zero(t, d.TaskIDIndex)
	})
}

func TestSettings_UpdateLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewSettingsStore(dir, "")
	require.NoError(t, store.Load())

	require.NoError(t, store.Update(func(d *Settings) {
		d.TaskIDLookup["mstdaa00001"] = "remote-1"
		d.TaskIDIndex = 1
		d.ListSync = []ListSync{{ListName: "Tasks", ListID: "l1"}}
	}))

	reloaded := NewSettingsStore(dir, "")
	require.NoError(t, reloaded.Load())
	reloaded.View(func(d *Settings) {
		assert.Equal(t, "remote-1", d.TaskIDLookup["mstdaa00001"])
		assert.Equal(t, 1, d.TaskIDIndex)
		require.Len(t, d.ListSync, 1)
		assert.Equal(t, "l1", d.ListSync[0].ListID)
	})
}

func TestSettings_CorruptFileSelfHeals(t *testing.T) {
	dir := t.TempDir()
	store := NewSettingsStore(dir, "")
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path), 0755))
	require.NoError(t, os.WriteFile(store.Path, []byte("{{{"), 0644))

	require.NoError(t, store.Load())
	store.View(func(d *Settings) {
		assert.Empty(t, d.TaskIDLookup)
	})
}

func TestSettings_PersistedShape(t *testing.T) {
	dir := t.TempDir()
	store := NewSettingsStore(dir, "")
	require.NoError(t, store.Load())
	require.NoError(t, store.Update(func(d *Settings) {
		d.TaskIDLookup["mstdaa00001"] = "remote-1"
	}))

	// The blob layout is part of the host contract.
	raw, err := os.ReadFile(store.Path)
	require.NoError(t, err)
	var blob map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &blob))
	assert.Contains(t, blob, "taskIdLookup")
	assert.Contains(t, blob, "taskIdIndex")
}

func TestSettings_LockReleased(t *testing.T) {
	store := NewSettingsStore(t.TempDir(), "")
	require.NoError(t, store.Load())
	require.NoError(t, store.Update(func(d *Settings) { d.TaskIDIndex = 1 }))
	// A second update must not deadlock on a leftover lock file.
	require.NoError(t, store.Update(func(d *Settings) { d.TaskIDIndex = 2 }))
}

func TestSettings_StaleLockReclaimed(t *testing.T) {
	store := NewSettingsStore(t.TempDir(), "")
	require.NoError(t, store.Load())

	// Simulate a lock file left behind by a crashed process.
	require.NoError(t, os.MkdirAll(filepath.Dir(store.lockPath), 0755))
	require.NoError(t, os.WriteFile(store.lockPath, nil, 0666))
	old := time.Now().Add(-time.Minute)
	require.NoError(t, os.Chtimes(store.lockPath, old, old))

	done := make(chan error, 1)
	go func() {
		done <- store.Update(func(d *Settings) { d.TaskIDIndex = 1 })
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("update hung on stale lock")
	}
}

func TestSettings_ConcurrentUpdates(t *testing.T) {
	store := NewSettingsStore(t.TempDir(), "")
	require.NoError(t, store.Load())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Update(func(d *Settings) {
				d.TaskIDIndex++
				d.ListSync = append(d.ListSync, ListSync{ListName: "L", ListID: "l"})
			})
		}()
	}
	wg.Wait()

	store.View(func(d *Settings) {
		assert.Equal(t, 8, d.TaskIDIndex)
		assert.Len(t, d.ListSync, 8)
	})
}

func TestSettings_FailedPersistLeavesStateUntouched(t *testing.T) {
	dir := t.TempDir()
	store := NewSettingsStore(dir, "")
	require.NoError(t, store.Load())
	require.NoError(t, store.Update(func(d *Settings) { d.TaskIDIndex = 1 }))

	// Replace the blob's parent directory path with a file so the
	// persist step cannot succeed.
	sysdir := filepath.Dir(store.Path)
	require.NoError(t, os.RemoveAll(sysdir))
	require.NoError(t, os.WriteFile(sysdir, nil, 0644))

	err := store.Update(func(d *Settings) { d.TaskIDIndex = 99 })
	assert.Error(t, err)
	store.View(func(d *Settings) {
		assert.Equal(t, 1, d.TaskIDIndex)
	})
}
