// Package deltacache keeps a persisted per-list snapshot of remote
// tasks plus the opaque continuation token for incremental refresh.
package deltacache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/natefinch/atomic"

	"github.com/okatz/anchorsync/pkg/gateway"
)

// ListCache is the cached state of one remote list. An empty DeltaLink
// means the next refresh performs a full sync.
type ListCache struct {
	ListID    string
	ListName  string
	DeltaLink string
	Tasks     map[string]gateway.Task
}

// Store owns the cache file. All methods are safe for concurrent use
// within one process; concurrent external modification of the file is
// undefined behavior.
type Store struct {
	Path   string
	Logger *slog.Logger

	mu    sync.Mutex
	lists map[string]*ListCache
}

// persisted file layout, multi-list variant.
type snapshotFile struct {
	AllLists []persistedList `json:"allLists"`
}

type persistedList struct {
	ListID    string         `json:"listId"`
	Name      string         `json:"name"`
	AllTasks  []gateway.Task `json:"allTasks"`
	DeltaLink string         `json:"deltaLink"`
}

// NewStore places the cache file under the vault's system directory.
func NewStore(root, systemDir string, logger *slog.Logger) *Store {
	if systemDir == "" {
		systemDir = ".anchorsync"
	}
	return &Store{
		Path:   filepath.Join(root, systemDir, "delta.json"),
		Logger: logger,
		lists:  make(map[string]*ListCache),
	}
}

// Load reads the persisted snapshot. Missing or corrupt files mean an
// empty cache, never an error; the scoped full resync follows naturally.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lists = make(map[string]*ListCache)
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read delta cache: %w", err)
	}
	var file snapshotFile
	if err := json.Unmarshal(data, &file); err != nil {
		if s.Logger != nil {
			s.Logger.Warn("delta cache corrupt, starting empty", "path", s.Path, "error", err)
		}
		return nil
	}
	for _, pl := range file.AllLists {
		lc := &ListCache{
			ListID:    pl.ListID,
			ListName:  pl.Name,
			DeltaLink: pl.DeltaLink,
			Tasks:     make(map[string]gateway.Task, len(pl.AllTasks)),
		}
		for _, t := range pl.AllTasks {
			lc.Tasks[t.ID] = t
		}
		s.lists[pl.ListID] = lc
	}
	return nil
}

// Save persists the full snapshot atomically.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(s.lists)
}

func (s *Store) saveLocked(lists map[string]*ListCache) error {
	var file snapshotFile
	for _, lc := range lists {
		pl := persistedList{ListID: lc.ListID, Name: lc.ListName, DeltaLink: lc.DeltaLink}
		for _, t := range lc.Tasks {
			pl.AllTasks = append(pl.AllTasks, t)
		}
		file.AllLists = append(file.AllLists, pl)
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return err
	}
	if err := atomic.WriteFile(s.Path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write delta cache: %w", err)
	}
	return nil
}

// Reset discards the persisted file and in-memory state, forcing the
// next refresh to start from an empty continuation token.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists = make(map[string]*ListCache)
	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// List returns the cached state for a list id, or nil when unknown.
func (s *Store) List(listID string) *ListCache {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lists[listID]
}

// Lists returns the ids of every cached list.
func (s *Store) Lists() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.lists))
	for id := range s.lists {
		ids = append(ids, id)
	}
	return ids
}

// Find locates a task snapshot by remote id across all cached lists.
func (s *Store) Find(taskID string) (gateway.Task, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for listID, lc := range s.lists {
		if t, ok := lc.Tasks[taskID]; ok {
			return t, listID, true
		}
	}
	return gateway.Task{}, "", false
}

// Refresh pulls the delta for one list, draining every page before the
// final continuation token is trusted, merges it into the snapshot and
// persists. The token only advances after its task batch is durably on
// disk: a gateway or persistence failure leaves the previous state
// untouched.
func (s *Store) Refresh(ctx context.Context, gw gateway.Service, listID, listName string) error {
	s.mu.Lock()
	prev := s.lists[listID]
	link := ""
	if prev != nil {
		link = prev.DeltaLink
	}
	s.mu.Unlock()

	var batch []gateway.Task
	var removed []string
	token := ""
	for {
		page, err := gw.GetTasksDelta(ctx, listID, link)
		if err != nil {
			return fmt.Errorf("delta refresh for list %s: %w", listID, err)
		}
		for _, t := range page.Tasks {
			if t.Removed != nil {
				removed = append(removed, t.ID)
				continue
			}
			batch = append(batch, t)
		}
		if page.NextLink != "" {
			link = page.NextLink
			continue
		}
		token = page.DeltaLink
		break
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := make(map[string]gateway.Task)
	if cur := s.lists[listID]; cur != nil {
		for id, t := range cur.Tasks {
			existing[id] = t
		}
		if listName == "" {
			listName = cur.ListName
		}
	}
	incoming := make(map[string]gateway.Task, len(batch))
	for _, t := range batch {
		incoming[t.ID] = t
	}
	merged := Merge(existing, incoming)
	for _, id := range removed {
		delete(merged, id)
	}

	next := make(map[string]*ListCache, len(s.lists)+1)
	for id, lc := range s.lists {
		next[id] = lc
	}
	next[listID] = &ListCache{ListID: listID, ListName: listName, DeltaLink: token, Tasks: merged}

	if err := s.saveLocked(next); err != nil {
		return err
	}
	s.lists = next
	if s.Logger != nil {
		s.Logger.Debug("delta refresh complete", "list", listID, "tasks", len(merged), "removed", len(removed))
	}
	return nil
}
