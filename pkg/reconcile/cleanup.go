package reconcile

import (
	"context"
	"strings"
)

// Cleanup forgets every registry anchor that no longer occurs literally
// (as ^anchor, case-insensitively) in any document. Pure garbage
// collection: no remote side effects.
func (r *Reconciler) Cleanup(ctx context.Context) (*Report, error) {
	docs, err := r.vault.Documents()
	if err != nil {
		return nil, err
	}

	var texts []string
	for _, info := range docs {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		doc, err := r.vault.Read(info.ID)
		if err != nil {
			r.warnf("failed to read document", "doc", info.ID, "error", err)
			continue
		}
		texts = append(texts, strings.ToLower(doc.Text))
	}

	report := &Report{}
	for _, anchor := range r.registry.Anchors() {
		needle := "^" + strings.ToLower(anchor)
		found := false
		for _, text := range texts {
			if strings.Contains(text, needle) {
				found = true
				break
			}
		}
		if found {
			report.unchanged()
			continue
		}
		if err := r.registry.Forget(anchor); err != nil {
			report.fail("forget %s: %v", anchor, err)
			continue
		}
		r.debugf("forgot orphaned anchor", "anchor", anchor)
		report.forgotten()
	}
	return report, nil
}
