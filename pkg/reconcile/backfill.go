package reconcile

import (
	"context"
	"fmt"
	"sort"

	"github.com/okatz/anchorsync/pkg/task"
)

// Backfill writes a formatted block into docID for every remote task in
// the named list that no anchor tracks yet. Tasks that already have an
// anchor anywhere in the registry are left alone.
func (r *Reconciler) Backfill(ctx context.Context, docID, listName string) (*Report, error) {
	listID, err := r.resolveList(ctx, listName)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Refresh(ctx, r.gw, listID, listName); err != nil {
		return nil, err
	}

	lc := r.cache.List(listID)
	if lc == nil {
		return nil, fmt.Errorf("list %s missing from cache after refresh", listID)
	}

	// Stable output order: creation time, then id.
	ids := make([]string, 0, len(lc.Tasks))
	for id := range lc.Tasks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := lc.Tasks[ids[i]], lc.Tasks[ids[j]]
		if a.CreatedDateTime != nil && b.CreatedDateTime != nil && !a.CreatedDateTime.Equal(*b.CreatedDateTime) {
			return a.CreatedDateTime.Before(*b.CreatedDateTime)
		}
		return ids[i] < ids[j]
	})

	report := &Report{}
	var blocks []string
	for _, id := range ids {
		if r.registry.HasRemoteID(id) {
			report.unchanged()
			continue
		}
		rec := task.FromRemote(lc.Tasks[id], r.cfg.Options.TimeZone)
		if rec.ListName == "" && lc.ListName != r.cfg.DefaultList {
			rec.ListName = lc.ListName
		}
		anchor, err := r.registry.Generate(id)
		if err != nil {
			report.fail("anchor for remote task %s: %v", id, err)
			continue
		}
		rec.Anchor = anchor
		blocks = append(blocks, task.Format(rec, false, r.cfg.Options))
		report.created()
	}

	if len(blocks) > 0 {
		if err := r.vault.Append(docID, blocks); err != nil {
			return report, fmt.Errorf("append to %s: %w", docID, err)
		}
	}
	return report, nil
}
