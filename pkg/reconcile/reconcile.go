// Package reconcile decides, for every tracked task, whether the page
// copy or the remote copy is authoritative, merges the change and
// writes back to whichever side is stale.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/okatz/anchorsync/pkg/deltacache"
	"github.com/okatz/anchorsync/pkg/gateway"
	"github.com/okatz/anchorsync/pkg/registry"
	"github.com/okatz/anchorsync/pkg/task"
	"github.com/okatz/anchorsync/pkg/vault"
)

// ErrNoList means no target list could be resolved: the line carries no
// tag, no default list is configured, or the named list does not exist
// and auto-creation is off. It fails that task, not the batch —
// except when the default list itself is unresolvable.
var ErrNoList = errors.New("no target list resolvable")

// Config carries the reconciliation policy.
type Config struct {
	DefaultList    string
	AutoCreateList bool
	Options        task.Options
}

// Reconciler wires the gateway, the vault, the identity registry and
// the delta cache together. No ambient globals: every collaborator is
// injected.
type Reconciler struct {
	gw       gateway.Service
	vault    *vault.Vault
	registry *registry.Store
	cache    *deltacache.Store
	settings *vault.SettingsStore
	cfg      Config
	logger   *slog.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) { r.logger = logger }
}

// New builds a Reconciler.
func New(gw gateway.Service, v *vault.Vault, reg *registry.Store, cache *deltacache.Store, settings *vault.SettingsStore, cfg Config, opts ...Option) *Reconciler {
	r := &Reconciler{
		gw:       gw,
		vault:    v,
		registry: reg,
		cache:    cache,
		settings: settings,
		cfg:      cfg,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Reconciler) debugf(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

func (r *Reconciler) warnf(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}

// resolveList maps a list name to its remote id, consulting the pinned
// settings first, then the cache, then the remote service. When the
// list is absent it is auto-created if configured, otherwise ErrNoList.
func (r *Reconciler) resolveList(ctx context.Context, name string) (string, error) {
	if name == "" {
		name = r.cfg.DefaultList
	}
	if name == "" {
		return "", ErrNoList
	}

	var pinned string
	r.settings.View(func(d *vault.Settings) {
		for _, pin := range d.ListSync {
			if pin.ListName == name {
				pinned = pin.ListID
				return
			}
		}
	})
	if pinned != "" {
		return pinned, nil
	}
	for _, id := range r.cache.Lists() {
		if lc := r.cache.List(id); lc != nil && lc.ListName == name {
			return id, nil
		}
	}

	lists, err := r.gw.ListLists(ctx, "")
	if err != nil {
		return "", fmt.Errorf("list lookup for %q: %w", name, err)
	}
	for _, l := range lists {
		if l.DisplayName == name {
			r.pinList(name, l.ID)
			return l.ID, nil
		}
	}

	if !r.cfg.AutoCreateList {
		return "", fmt.Errorf("list %q: %w", name, ErrNoList)
	}
	created, err := r.gw.CreateList(ctx, name)
	if err != nil {
		return "", fmt.Errorf("create list %q: %w", name, err)
	}
	r.pinList(name, created.ID)
	return created.ID, nil
}

func (r *Reconciler) pinList(name, id string) {
	err := r.settings.Update(func(d *vault.Settings) {
		for _, pin := range d.ListSync {
			if pin.ListName == name {
				return
			}
		}
		d.ListSync = append(d.ListSync, vault.ListSync{ListName: name, ListID: id})
	})
	if err != nil {
		r.warnf("failed to persist list pin", "list", name, "error", err)
	}
}

// refresh pulls deltas for every list the reconciler knows about: the
// pinned lists plus whatever already sits in the cache. A refresh
// failure for one list keeps that list's last good snapshot.
func (r *Reconciler) refresh(ctx context.Context) {
	var pins []vault.ListSync
	r.settings.View(func(d *vault.Settings) {
		pins = append(pins, d.ListSync...)
	})

	seen := make(map[string]bool)
	for _, pin := range pins {
		seen[pin.ListID] = true
		if err := r.cache.Refresh(ctx, r.gw, pin.ListID, pin.ListName); err != nil {
			r.warnf("delta refresh failed", "list", pin.ListName, "error", err)
		}
	}
	for _, id := range r.cache.Lists() {
		if seen[id] {
			continue
		}
		if err := r.cache.Refresh(ctx, r.gw, id, ""); err != nil {
			r.warnf("delta refresh failed", "listId", id, "error", err)
		}
	}
}

// direction is the outcome of last-writer-wins resolution.
type direction int

const (
	pushLocal direction = iota
	pullRemote
)

// resolveDirection compares the remote task's modification timestamp
// against the document's mtime. The file mtime is whole-page, not
// per-line, so an unrelated edit elsewhere in the page can produce a
// false "local newer" verdict; known precision gap, kept as designed.
// Remote wins only when strictly newer.
func resolveDirection(remote *time.Time, docModTime time.Time) direction {
	if remote != nil && remote.After(docModTime) {
		return pullRemote
	}
	return pushLocal
}

// pullInto overwrites the local record's synchronized fields from the
// remote copy. Anchor and list tag stay local.
func pullInto(local *task.Record, remote task.Record) {
	local.Title = remote.Title
	local.Status = remote.Status
	local.Importance = remote.Importance
	local.Due = remote.Due
	local.Body = remote.Body
	local.Checklist = remote.Checklist
}
