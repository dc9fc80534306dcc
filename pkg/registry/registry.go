// Package registry maintains the durable mapping between short anchor
// tokens embedded in document lines and remote task identifiers.
package registry

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/okatz/anchorsync/pkg/vault"
)

// DefaultPrefix is the literal prefix of every generated anchor.
const DefaultPrefix = "MSTD"

// Store issues anchors and resolves them to remote ids. Anchors are
// case-insensitive; keys are stored lowercased. Entries are additive:
// an anchor's remote id never changes for the anchor's lifetime, and
// entries disappear only through Forget. All state lives in the
// settings store, whose lock serializes concurrent access.
type Store struct {
	Prefix string
	Logger *slog.Logger

	settings *vault.SettingsStore
}

// New wraps the settings store the registry persists into.
func New(settings *vault.SettingsStore, logger *slog.Logger) *Store {
	return &Store{Prefix: DefaultPrefix, Logger: logger, settings: settings}
}

// Generate mints a new unique anchor for remoteID and persists the
// mapping and the bumped counter before returning it. The counter alone
// guarantees uniqueness within one store; the random infix defends
// against a settings file restored from backup. A persistence failure
// returns the store to its pre-call state, so a retry does not skip
// ids.
func (s *Store) Generate(remoteID string) (string, error) {
	var anchor string
	err := s.settings.Update(func(d *vault.Settings) {
		d.TaskIDIndex++
		anchor = fmt.Sprintf("%s%s%05d", s.Prefix, randomInfix(), d.TaskIDIndex)
		d.TaskIDLookup[strings.ToLower(anchor)] = remoteID
	})
	if err != nil {
		return "", fmt.Errorf("failed to persist anchor: %w", err)
	}
	if s.Logger != nil {
		s.Logger.Debug("minted anchor", "anchor", anchor, "remoteId", remoteID)
	}
	return anchor, nil
}

// randomInfix returns two lowercase hex characters.
func randomInfix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:2]
}

// Resolve looks an anchor up case-insensitively.
func (s *Store) Resolve(anchor string) (string, bool) {
	var (
		id string
		ok bool
	)
	s.settings.View(func(d *vault.Settings) {
		id, ok = d.TaskIDLookup[strings.ToLower(anchor)]
	})
	return id, ok
}

// HasRemoteID reports whether any anchor already maps to remoteID.
// Reverse scan; used to avoid duplicating a remote task during
// backfill.
func (s *Store) HasRemoteID(remoteID string) bool {
	found := false
	s.settings.View(func(d *vault.Settings) {
		for _, id := range d.TaskIDLookup {
			if id == remoteID {
				found = true
				return
			}
		}
	})
	return found
}

// Forget removes an anchor. Only the cleanup pass calls this.
func (s *Store) Forget(anchor string) error {
	key := strings.ToLower(anchor)
	if _, ok := s.Resolve(key); !ok {
		return nil
	}
	return s.settings.Update(func(d *vault.Settings) {
		delete(d.TaskIDLookup, key)
	})
}

// Anchors returns every known anchor (lowercased form).
func (s *Store) Anchors() []string {
	var anchors []string
	s.settings.View(func(d *vault.Settings) {
		anchors = make([]string, 0, len(d.TaskIDLookup))
		for a := range d.TaskIDLookup {
			anchors = append(anchors, a)
		}
	})
	return anchors
}
