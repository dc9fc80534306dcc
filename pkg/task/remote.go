package task

import (
	"strings"

	"github.com/okatz/anchorsync/pkg/gateway"
)

// FromRemote builds a Record out of a remote task snapshot. The default
// timezone is attached to due dates whose wire form omits one.
func FromRemote(t gateway.Task, defaultTZ string) Record {
	rec := Record{
		RemoteID:   t.ID,
		Title:      strings.TrimSpace(t.Title),
		Status:     statusFromWire(t.Status),
		Importance: importanceFromWire(t.Importance),
	}
	if t.DueDateTime != nil {
		day := t.DueDateTime.Day()
		if !day.IsZero() {
			tz := t.DueDateTime.TimeZone
			if tz == "" {
				tz = defaultTZ
			}
			rec.Due = &Date{Time: day, TimeZone: tz}
		}
	}
	if t.CreatedDateTime != nil {
		created := *t.CreatedDateTime
		rec.Created = &created
	}
	if t.Body != nil {
		rec.Body = strings.TrimSpace(t.Body.Content)
	}
	for _, item := range t.ChecklistItems {
		rec.Checklist = append(rec.Checklist, ChecklistItem{Text: item.DisplayName, Checked: item.IsChecked})
	}
	if len(t.LinkedResources) > 0 {
		lr := t.LinkedResources[0]
		rec.Linked = &LinkedResource{
			ID:          lr.ID,
			ExternalRef: lr.ExternalID,
			URL:         lr.WebURL,
			DisplayName: lr.DisplayName,
		}
	}
	return rec
}

// Payload renders the record as a remote task payload. The body and
// checklist ride along only when withChildren is set; plain line-level
// reconciliation touches title, status, importance and due date.
func (r Record) Payload(withChildren bool) gateway.TaskPayload {
	p := gateway.TaskPayload{
		Title:      r.Title,
		Status:     statusToWire(r.Status),
		Importance: importanceToWire(r.Importance),
	}
	if r.Due != nil {
		tz := r.Due.TimeZone
		if tz == "" {
			tz = "UTC"
		}
		p.DueDateTime = &gateway.DateTimeTimeZone{
			DateTime: r.Due.Time.Format("2006-01-02T15:04:05.0000000"),
			TimeZone: tz,
		}
	}
	if !withChildren {
		return p
	}
	if r.Body != "" {
		p.Body = &gateway.ItemBody{Content: r.Body, ContentType: "text"}
	}
	for _, item := range r.Checklist {
		p.ChecklistItems = append(p.ChecklistItems, gateway.ChecklistItem{DisplayName: item.Text, IsChecked: item.Checked})
	}
	return p
}

func statusFromWire(s string) Status {
	switch s {
	case gateway.StatusCompleted:
		return StatusCompleted
	case gateway.StatusInProgress:
		return StatusInProgress
	}
	return StatusNotStarted
}

func statusToWire(s Status) string {
	switch s {
	case StatusCompleted:
		return gateway.StatusCompleted
	case StatusInProgress:
		return gateway.StatusInProgress
	}
	return gateway.StatusNotStarted
}

func importanceFromWire(s string) Importance {
	switch s {
	case gateway.ImportanceHigh:
		return ImportanceHigh
	case gateway.ImportanceLow:
		return ImportanceLow
	}
	return ImportanceNormal
}

func importanceToWire(i Importance) string {
	switch i {
	case ImportanceHigh:
		return gateway.ImportanceHigh
	case ImportanceLow:
		return gateway.ImportanceLow
	}
	return gateway.ImportanceNormal
}
