package task

import "time"

// Status is the completion state of a task.
type Status int

const (
	StatusNotStarted Status = iota
	StatusInProgress
	StatusCompleted
)

// Importance is the priority level of a task.
type Importance int

const (
	ImportanceLow Importance = iota - 1
	ImportanceNormal
	ImportanceHigh
)

// Date is a calendar date with an associated IANA timezone name.
// Only the calendar date is significant for equality.
type Date struct {
	Time     time.Time
	TimeZone string
}

// NewDate builds a Date from a calendar day in the given timezone.
func NewDate(year int, month time.Month, day int, tz string) Date {
	loc := locationOrUTC(tz)
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, loc), TimeZone: tz}
}

// SameDay reports whether two dates fall on the same calendar day,
// after normalizing each to its own timezone.
func (d Date) SameDay(o Date) bool {
	a := d.Time.In(locationOrUTC(d.TimeZone))
	b := o.Time.In(locationOrUTC(o.TimeZone))
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func locationOrUTC(tz string) *time.Location {
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ChecklistItem is one sub-item below a task line.
type ChecklistItem struct {
	Text    string
	Checked bool
}

// LinkedResource is a back-reference from the remote task to the
// document location the task originated from.
type LinkedResource struct {
	ID          string
	ExternalRef string
	URL         string
	DisplayName string
}

// Record is the structured form of one checklist line. It is built fresh
// from document text on every read and never persisted as an object.
type Record struct {
	Title      string
	Status     Status
	Importance Importance
	Due        *Date
	Created    *time.Time
	ListName   string
	Anchor     string
	RemoteID   string
	Body       string
	Checklist  []ChecklistItem
	Linked     *LinkedResource
}

// Equal reports whether two records are equivalent for reconciliation
// purposes: title, status, importance and due date (calendar day only)
// all match. Body and checklist differences do not count; they only
// travel on explicit pushes.
func Equal(a, b Record) bool {
	if a.Title != b.Title || a.Status != b.Status || a.Importance != b.Importance {
		return false
	}
	if (a.Due == nil) != (b.Due == nil) {
		return false
	}
	if a.Due != nil && !a.Due.SameDay(*b.Due) {
		return false
	}
	return true
}
