package reconcile

import (
	"context"

	"github.com/google/uuid"

	"github.com/okatz/anchorsync/pkg/gateway"
)

const applicationName = "anchorsync"

// syncLinkedResource keeps the remote task's back-reference pointing at
// the originating document: created when absent, URL updated when it
// drifted. Failures degrade to a report note; the push itself already
// succeeded.
func (r *Reconciler) syncLinkedResource(ctx context.Context, listID, taskID string, snapshot gateway.Task, docID string, report *Report) {
	url := r.vault.DocumentURL(docID)

	var existing *gateway.LinkedResource
	for i := range snapshot.LinkedResources {
		if snapshot.LinkedResources[i].ApplicationName == applicationName {
			existing = &snapshot.LinkedResources[i]
			break
		}
	}

	if existing == nil {
		payload := gateway.LinkedResourcePayload{
			WebURL:          url,
			ApplicationName: applicationName,
			ExternalID:      uuid.NewString(),
			DisplayName:     docID,
		}
		if _, err := r.gw.CreateLinkedResource(ctx, listID, taskID, payload); err != nil {
			r.warnf("linked resource create failed", "task", taskID, "error", err)
			report.skip("linked resource for %s: %v", taskID, err)
		}
		return
	}

	if existing.WebURL == url && existing.DisplayName == docID {
		return
	}
	payload := gateway.LinkedResourcePayload{
		WebURL:          url,
		ApplicationName: applicationName,
		ExternalID:      existing.ExternalID,
		DisplayName:     docID,
	}
	if _, err := r.gw.UpdateLinkedResource(ctx, listID, taskID, existing.ID, payload); err != nil {
		r.warnf("linked resource update failed", "task", taskID, "error", err)
		report.skip("linked resource for %s: %v", taskID, err)
	}
}
