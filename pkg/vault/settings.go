package vault

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/natefinch/atomic"
)

// ListSync pins a named remote list to its resolved id.
type ListSync struct {
	ListName string `json:"listName"`
	ListID   string `json:"listId"`
}

// Settings is the persisted blob owned by this core. The host treats it
// as opaque JSON.
type Settings struct {
	TaskIDLookup map[string]string `json:"taskIdLookup"`
	TaskIDIndex  int               `json:"taskIdIndex"`
	ListSync     []ListSync        `json:"todoListSync,omitempty"`
}

func (s *Settings) clone() *Settings {
	c := &Settings{
		TaskIDLookup: make(map[string]string, len(s.TaskIDLookup)),
		TaskIDIndex:  s.TaskIDIndex,
		ListSync:     append([]ListSync(nil), s.ListSync...),
	}
	for k, v := range s.TaskIDLookup {
		c.TaskIDLookup[k] = v
	}
	return c
}

// lockStaleAfter is the age past which a leftover lock file from a
// crashed process is reclaimed.
const lockStaleAfter = 5 * time.Second

// SettingsStore loads and saves the settings blob. The blob is shared
// mutable state across concurrently reconciling tasks, so all access
// goes through View or Update under one mutex; the lock file
// additionally guards against a second process.
type SettingsStore struct {
	Path     string
	lockPath string

	mu   sync.Mutex
	data *Settings
}

// NewSettingsStore places the blob under the vault's system directory.
func NewSettingsStore(root, systemDir string) *SettingsStore {
	if systemDir == "" {
		systemDir = DefaultSystemDir
	}
	dir := filepath.Join(root, systemDir)
	return &SettingsStore{
		Path:     filepath.Join(dir, "settings.json"),
		lockPath: filepath.Join(dir, "settings.lock"),
		data:     emptySettings(),
	}
}

func emptySettings() *Settings {
	return &Settings{TaskIDLookup: make(map[string]string)}
}

// Load reads the blob from disk. A missing or corrupt file yields empty
// settings, not an error; the store self-heals on the next save.
func (s *SettingsStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		s.data = emptySettings()
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	loaded := emptySettings()
	if err := json.Unmarshal(data, loaded); err != nil {
		s.data = emptySettings()
		return nil
	}
	if loaded.TaskIDLookup == nil {
		loaded.TaskIDLookup = make(map[string]string)
	}
	s.data = loaded
	return nil
}

// View runs fn against the current settings under the lock. fn must not
// retain or mutate its argument.
func (s *SettingsStore) View(fn func(*Settings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.data)
}

// Update applies mutate to a copy of the settings, persists the copy
// atomically and only then makes it current. A persistence failure
// leaves the in-memory state untouched, so a retry sees the
// pre-mutation settings.
func (s *SettingsStore) Update(mutate func(*Settings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data.clone()
	mutate(next)
	if err := s.persistLocked(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

func (s *SettingsStore) persistLocked(data *Settings) error {
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	blob, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return err
	}
	if err := atomic.WriteFile(s.Path, bytes.NewReader(blob)); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// lock acquires the file-based lock, spinning until available. A lock
// file older than lockStaleAfter belongs to a crashed process and is
// reclaimed.
func (s *SettingsStore) lock() (func(), error) {
	if err := os.MkdirAll(filepath.Dir(s.lockPath), 0755); err != nil {
		return nil, err
	}
	for {
		f, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_EXCL, 0666)
		if err == nil {
			f.Close()
			return func() { os.Remove(s.lockPath) }, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to acquire settings lock: %w", err)
		}
		if info, serr := os.Stat(s.lockPath); serr == nil && time.Since(info.ModTime()) > lockStaleAfter {
			os.Remove(s.lockPath)
			continue
		}
		time.Sleep(10 * time.Millisecond)
	}
}
