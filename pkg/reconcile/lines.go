package reconcile

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/okatz/anchorsync/pkg/task"
	"github.com/okatz/anchorsync/pkg/vault"
)

// Lines reconciles the given zero-based line numbers of one document.
// A nil lineNums means every candidate line in the document. Line
// processing fans out concurrently; the accumulated rewrites are then
// applied as one atomic whole-document write, so a crash mid-run never
// leaves a partially rewritten page.
func (r *Reconciler) Lines(ctx context.Context, docID string, lineNums []int) (*Report, error) {
	doc, err := r.vault.Read(docID)
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", docID, err)
	}

	r.refresh(ctx)

	lines := doc.Lines()
	if lineNums == nil {
		for i := 0; i < len(lines); i++ {
			if r.isCandidate(lines[i]) {
				lineNums = append(lineNums, i)
			}
			i += childSpan(lines, i)
		}
	}

	report := &Report{}
	changes := make(map[int]string)
	var changesMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, n := range lineNums {
		if n < 0 || n >= len(lines) {
			continue
		}
		n := n
		g.Go(func() error {
			newLine, changed := r.reconcileLine(gctx, doc, lines, n, report)
			if changed {
				changesMu.Lock()
				changes[n] = newLine
				changesMu.Unlock()
			}
			// Per-task errors are recorded in the report, never
			// propagated: one failing task must not abort the batch.
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	if err := r.vault.ReplaceLines(docID, changes); err != nil {
		return report, fmt.Errorf("apply rewrites to %s: %w", docID, err)
	}
	return report, nil
}

func (r *Reconciler) isCandidate(line string) bool {
	if task.HasCheckbox(line) {
		return true
	}
	rec := task.Parse(line, r.cfg.Options)
	return rec.Anchor != ""
}

// reconcileLine runs the per-task state machine. The state is fixed by
// two facts: does the line carry an anchor, and does that anchor
// resolve to a remote id with a cached snapshot. Back-reference upkeep
// is the whole-vault pass's job; a single-document push issues exactly
// one gateway write.
func (r *Reconciler) reconcileLine(ctx context.Context, doc *vault.Document, lines []string, n int, report *Report) (string, bool) {
	line := lines[n]
	rec := task.Parse(line, r.cfg.Options)
	if rec.Anchor == "" && !task.HasCheckbox(line) {
		return "", false
	}
	rec.Body, rec.Checklist = collectChildren(lines, n)

	if rec.Anchor == "" {
		return r.createTask(ctx, doc, rec, report)
	}

	remoteID, ok := r.registry.Resolve(rec.Anchor)
	if !ok {
		// Dangling anchor: a local edit stripped the id or the registry
		// lost the entry. Never silently re-create.
		r.warnf("dangling anchor, skipping", "anchor", rec.Anchor, "doc", doc.ID, "line", n)
		report.skip("dangling anchor %s in %s:%d", rec.Anchor, doc.ID, n)
		return "", false
	}
	rec.RemoteID = remoteID

	snapshot, listID, ok := r.cache.Find(remoteID)
	if !ok {
		// Tracked but absent from the cache. Soft condition: the next
		// refresh repopulates it; do not overwrite the remote.
		r.debugf("cache miss for tracked task, skipping", "anchor", rec.Anchor, "remoteId", remoteID)
		report.skip("cache miss for %s (task %s)", rec.Anchor, remoteID)
		return "", false
	}

	remoteRec := task.FromRemote(snapshot, r.cfg.Options.TimeZone)
	if task.Equal(rec, remoteRec) {
		report.unchanged()
		return "", false
	}

	if resolveDirection(snapshot.LastModifiedDateTime, doc.ModTime) == pullRemote {
		pullInto(&rec, remoteRec)
		report.pulled()
		return task.Format(rec, true, r.cfg.Options), true
	}

	if _, err := r.gw.UpdateTask(ctx, listID, remoteID, rec.Payload(false)); err != nil {
		r.warnf("remote update failed", "anchor", rec.Anchor, "error", err)
		report.fail("update %s: %v", rec.Anchor, err)
		return "", false
	}
	report.pushed()
	return "", false
}

// createTask handles the New state: resolve the target list, create the
// remote task, mint an anchor and rewrite the line with it.
func (r *Reconciler) createTask(ctx context.Context, doc *vault.Document, rec task.Record, report *Report) (string, bool) {
	listID, err := r.resolveList(ctx, rec.ListName)
	if err != nil {
		r.warnf("cannot resolve target list", "doc", doc.ID, "title", rec.Title, "error", err)
		report.fail("no list for %q: %v", rec.Title, err)
		return "", false
	}

	created, err := r.gw.CreateTask(ctx, listID, rec.Payload(true))
	if err != nil {
		report.fail("create %q: %v", rec.Title, err)
		return "", false
	}
	anchor, err := r.registry.Generate(created.ID)
	if err != nil {
		// The remote task exists but the anchor could not be persisted;
		// surfacing it beats minting a duplicate on retry.
		report.fail("anchor for %q: %v", rec.Title, err)
		return "", false
	}
	rec.Anchor = anchor
	rec.RemoteID = created.ID
	report.created()
	return task.Format(rec, true, r.cfg.Options), true
}
