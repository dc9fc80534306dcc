package gateway

import "time"

// List is a remote task list.
type List struct {
	ID            string `json:"id"`
	DisplayName   string `json:"displayName"`
	WellKnownName string `json:"wellknownListName,omitempty"`
}

// ItemBody carries free-text task content.
type ItemBody struct {
	Content     string `json:"content"`
	ContentType string `json:"contentType,omitempty"`
}

// DateTimeTimeZone is the service's date representation: a local
// wall-clock string (no offset) plus an IANA timezone name.
type DateTimeTimeZone struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// Day parses the calendar-day portion of the wall-clock string. The
// zero time is returned for malformed values.
func (d DateTimeTimeZone) Day() time.Time {
	for _, layout := range []string{"2006-01-02T15:04:05.9999999", "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, d.DateTime); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ChecklistItem is one sub-item of a remote task.
type ChecklistItem struct {
	ID          string `json:"id,omitempty"`
	DisplayName string `json:"displayName"`
	IsChecked   bool   `json:"isChecked"`
}

// LinkedResource is a back-reference attached to a remote task.
type LinkedResource struct {
	ID              string `json:"id,omitempty"`
	WebURL          string `json:"webUrl"`
	ApplicationName string `json:"applicationName,omitempty"`
	ExternalID      string `json:"externalId,omitempty"`
	DisplayName     string `json:"displayName,omitempty"`
}

// RemovedInfo marks a task deleted on the remote side inside a delta
// response.
type RemovedInfo struct {
	Reason string `json:"reason"`
}

// Task is the remote task snapshot as the service returns it.
type Task struct {
	ID                   string            `json:"id"`
	Title                string            `json:"title"`
	Status               string            `json:"status,omitempty"`
	Importance           string            `json:"importance,omitempty"`
	Body                 *ItemBody         `json:"body,omitempty"`
	DueDateTime          *DateTimeTimeZone `json:"dueDateTime,omitempty"`
	CreatedDateTime      *time.Time        `json:"createdDateTime,omitempty"`
	LastModifiedDateTime *time.Time        `json:"lastModifiedDateTime,omitempty"`
	ChecklistItems       []ChecklistItem   `json:"checklistItems,omitempty"`
	LinkedResources      []LinkedResource  `json:"linkedResources,omitempty"`
	Removed              *RemovedInfo      `json:"@removed,omitempty"`
}

// TaskPayload is the request body for task creation and updates. One
// explicit schema per operation family, validated at the gateway
// boundary instead of duck-typed field bags.
type TaskPayload struct {
	Title          string            `json:"title"`
	Status         string            `json:"status,omitempty"`
	Importance     string            `json:"importance,omitempty"`
	Body           *ItemBody         `json:"body,omitempty"`
	DueDateTime    *DateTimeTimeZone `json:"dueDateTime,omitempty"`
	ChecklistItems []ChecklistItem   `json:"checklistItems,omitempty"`
}

// LinkedResourcePayload is the request body for linked-resource calls.
type LinkedResourcePayload struct {
	WebURL          string `json:"webUrl"`
	ApplicationName string `json:"applicationName,omitempty"`
	ExternalID      string `json:"externalId,omitempty"`
	DisplayName     string `json:"displayName,omitempty"`
}

// DeltaPage is one page of a delta query. NextLink points at the next
// page; DeltaLink is only present on the final page and becomes the
// continuation token for the next incremental fetch.
type DeltaPage struct {
	Tasks     []Task `json:"value"`
	NextLink  string `json:"@odata.nextLink,omitempty"`
	DeltaLink string `json:"@odata.deltaLink,omitempty"`
}

// Task status values on the wire.
const (
	StatusNotStarted = "notStarted"
	StatusInProgress = "inProgress"
	StatusCompleted  = "completed"
)

// Importance values on the wire.
const (
	ImportanceLow    = "low"
	ImportanceNormal = "normal"
	ImportanceHigh   = "high"
)
