package reconcile

import (
	"context"
	"strings"
	"time"

	"github.com/okatz/anchorsync/pkg/task"
)

// anchorBlock is one anchored line located somewhere in the vault.
type anchorBlock struct {
	docID   string
	lineNo  int
	lines   []string
	modTime time.Time
}

// Vault reconciles every tracked task across the whole vault. Unlike
// Lines, the outer loop iterates the identity registry, not the
// documents: each known anchor is looked up in the vault index and the
// cached remote state, and either side being unresolvable is a logged
// skip, never an error.
func (r *Reconciler) Vault(ctx context.Context) (*Report, error) {
	r.refresh(ctx)

	index, err := r.indexAnchors()
	if err != nil {
		return nil, err
	}

	report := &Report{}
	changes := make(map[string]map[int]string)

	for _, anchor := range r.registry.Anchors() {
		block, ok := index[anchor]
		if !ok {
			r.debugf("anchor has no local block", "anchor", anchor)
			report.skip("anchor %s not found in any document", anchor)
			continue
		}

		remoteID, ok := r.registry.Resolve(anchor)
		if !ok {
			report.skip("anchor %s lost its registry entry", anchor)
			continue
		}
		snapshot, listID, ok := r.cache.Find(remoteID)
		if !ok {
			r.debugf("no remote snapshot for anchor", "anchor", anchor, "remoteId", remoteID)
			report.skip("no remote snapshot for %s", anchor)
			continue
		}

		rec := task.Parse(block.lines[block.lineNo], r.cfg.Options)
		rec.RemoteID = remoteID
		rec.Body, rec.Checklist = collectChildren(block.lines, block.lineNo)

		remoteRec := task.FromRemote(snapshot, r.cfg.Options.TimeZone)
		if task.Equal(rec, remoteRec) {
			report.unchanged()
			continue
		}

		if resolveDirection(snapshot.LastModifiedDateTime, block.modTime) == pullRemote {
			pullInto(&rec, remoteRec)
			if changes[block.docID] == nil {
				changes[block.docID] = make(map[int]string)
			}
			changes[block.docID][block.lineNo] = task.Format(rec, true, r.cfg.Options)
			report.pulled()
			continue
		}

		if _, err := r.gw.UpdateTask(ctx, listID, remoteID, rec.Payload(true)); err != nil {
			r.warnf("remote update failed", "anchor", anchor, "error", err)
			report.fail("update %s: %v", anchor, err)
			continue
		}
		r.syncLinkedResource(ctx, listID, remoteID, snapshot, block.docID, report)
		report.pushed()
	}

	for docID, docChanges := range changes {
		if err := r.vault.ReplaceLines(docID, docChanges); err != nil {
			report.fail("apply rewrites to %s: %v", docID, err)
		}
	}
	return report, nil
}

// indexAnchors builds anchor → block over every document. When the same
// anchor appears in more than one place the copy from the most recently
// modified document wins; a heuristic, kept as designed.
func (r *Reconciler) indexAnchors() (map[string]anchorBlock, error) {
	docs, err := r.vault.Documents()
	if err != nil {
		return nil, err
	}

	index := make(map[string]anchorBlock)
	for _, info := range docs {
		doc, err := r.vault.Read(info.ID)
		if err != nil {
			r.warnf("failed to read document", "doc", info.ID, "error", err)
			continue
		}
		lines := doc.Lines()
		for n, line := range lines {
			rec := task.Parse(line, r.cfg.Options)
			if rec.Anchor == "" {
				continue
			}
			key := strings.ToLower(rec.Anchor)
			if prev, ok := index[key]; ok && !doc.ModTime.After(prev.modTime) {
				continue
			}
			index[key] = anchorBlock{docID: doc.ID, lineNo: n, lines: lines, modTime: doc.ModTime}
		}
	}
	return index, nil
}
