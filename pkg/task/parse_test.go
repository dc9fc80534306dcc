package task

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	opts := DefaultOptions()

	tests := []struct {
		name       string
		line       string
		wantTitle  string
		wantStatus Status
		wantImp    Importance
		wantList   string
		wantAnchor string
		wantDue    string // YYYY-MM-DD, empty means none
	}{
		{
			name:       "Plain Open Task",
			line:       "- [ ] Buy milk",
			wantTitle:  "Buy milk",
			wantStatus: StatusNotStarted,
			wantImp:    ImportanceNormal,
		},
		{
			name:       "Completed With Anchor",
			line:       "- [x] Old task ^MSTD0001",
			wantTitle:  "Old task",
			wantStatus: StatusCompleted,
			wantAnchor: "MSTD0001",
		},
		{
			name:       "Uppercase X Completes",
			line:       "- [X] Shout",
			wantTitle:  "Shout",
			wantStatus: StatusCompleted,
		},
		{
			name:       "Quoted List And Due Date",
			line:       `- [ ] Task +"My List" 📅2025-01-10`,
			wantTitle:  "Task",
			wantStatus: StatusNotStarted,
			wantList:   "My List",
			wantDue:    "2025-01-10",
		},
		{
			name:      "Single Quoted List",
			line:      "- [ ] Task +'Other List'",
			wantTitle: "Task",
			wantList:  "Other List",
		},
		{
			name:      "Bare Word List",
			line:      "- [ ] Task +Work",
			wantTitle: "Task",
			wantList:  "Work",
		},
		{
			name:      "Wikilink Due Date",
			line:      "- [ ] Pay rent 📅[[2025-02-01]]",
			wantTitle: "Pay rent",
			wantDue:   "2025-02-01",
		},
		{
			name:      "Due Prefix Without Date Is Kept",
			line:      "- [ ] Check the 📅 calendar",
			wantTitle: "Check the 📅 calendar",
		},
		{
			name:      "High Importance Glyph",
			line:      "- [ ] Urgent thing ⏫",
			wantTitle: "Urgent thing",
			wantImp:   ImportanceHigh,
		},
		{
			name:      "Low Importance Glyph",
			line:      "- [ ] Someday 🔽",
			wantTitle: "Someday",
			wantImp:   ImportanceLow,
		},
		{
			name:       "Last Anchor Wins",
			line:       "- [ ] See ^ref1 later ^MSTDaa00002",
			wantTitle:  "See ^ref1 later",
			wantAnchor: "MSTDaa00002",
		},
		{
			name:       "Double Caret Is Not An Anchor",
			line:       "- [ ] Math a^^b",
			wantTitle:  "Math a^^b",
			wantAnchor: "",
		},
		{
			name:       "Blockquote And Heading Decorations",
			line:       "> # - [ ] Nested chores",
			wantTitle:  "Nested chores",
			wantStatus: StatusNotStarted,
		},
		{
			name:      "Malformed Date Left Alone",
			line:      "- [ ] Meet 📅2025-13-99",
			wantTitle: "Meet 📅2025-13-99",
		},
		{
			name:       "Everything At Once",
			line:       `- [x] Ship release ⏫ +"Team Work" 📅2025-03-04 ^MSTDzz00007`,
			wantTitle:  "Ship release",
			wantStatus: StatusCompleted,
			wantImp:    ImportanceHigh,
			wantList:   "Team Work",
			wantDue:    "2025-03-04",
			wantAnchor: "MSTDzz00007",
		},
		{
			name:       "Empty Line",
			line:       "",
			wantTitle:  "",
			wantStatus: StatusNotStarted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.line, opts)
			if got.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", got.Title, tt.wantTitle)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("Status = %v, want %v", got.Status, tt.wantStatus)
			}
			if got.Importance != tt.wantImp {
				t.Errorf("Importance = %v, want %v", got.Importance, tt.wantImp)
			}
			if got.ListName != tt.wantList {
				t.Errorf("ListName = %q, want %q", got.ListName, tt.wantList)
			}
			if got.Anchor != tt.wantAnchor {
				t.Errorf("Anchor = %q, want %q", got.Anchor, tt.wantAnchor)
			}
			if tt.wantDue == "" {
				if got.Due != nil {
					t.Errorf("Due = %v, want none", got.Due.Time)
				}
			} else {
				if got.Due == nil {
					t.Fatalf("Due = nil, want %s", tt.wantDue)
				}
				if got.Due.Time.Format("2006-01-02") != tt.wantDue {
					t.Errorf("Due = %s, want %s", got.Due.Time.Format("2006-01-02"), tt.wantDue)
				}
			}
		})
	}
}

func TestParse_CreatedDate(t *testing.T) {
	opts := DefaultOptions()
	got := Parse("- [ ] Task ➕2024-12-31 📅2025-01-02", opts)
	if got.Created == nil {
		t.Fatal("Created = nil, want 2024-12-31")
	}
	if got.Created.Format("2006-01-02") != "2024-12-31" {
		t.Errorf("Created = %s, want 2024-12-31", got.Created.Format("2006-01-02"))
	}
	if got.Due == nil || got.Due.Time.Format("2006-01-02") != "2025-01-02" {
		t.Errorf("Due = %v, want 2025-01-02", got.Due)
	}
	if got.Title != "Task" {
		t.Errorf("Title = %q, want %q", got.Title, "Task")
	}
}

func TestParse_CustomIndicatorAndStrip(t *testing.T) {
	opts := DefaultOptions()
	opts.ListIndicator = "#"
	opts.StripPattern = `\[todo\]`
	got := Parse("- [ ] [todo] File taxes #Finance", opts)
	if got.ListName != "Finance" {
		t.Errorf("ListName = %q, want Finance", got.ListName)
	}
	if got.Title != "File taxes" {
		t.Errorf("Title = %q, want %q", got.Title, "File taxes")
	}
}

func TestParse_InvalidStripPatternIgnored(t *testing.T) {
	opts := DefaultOptions()
	opts.StripPattern = `([`
	got := Parse("- [ ] Fine anyway", opts)
	if got.Title != "Fine anyway" {
		t.Errorf("Title = %q, want %q", got.Title, "Fine anyway")
	}
}

func TestParse_TimeZoneAttached(t *testing.T) {
	opts := DefaultOptions()
	opts.TimeZone = "Europe/Berlin"
	got := Parse("- [ ] Trip 📅2025-06-15", opts)
	if got.Due == nil {
		t.Fatal("Due = nil")
	}
	if got.Due.TimeZone != "Europe/Berlin" {
		t.Errorf("TimeZone = %q, want Europe/Berlin", got.Due.TimeZone)
	}
	loc, _ := time.LoadLocation("Europe/Berlin")
	want := time.Date(2025, 6, 15, 0, 0, 0, 0, loc)
	if !got.Due.Time.Equal(want) {
		t.Errorf("Due time = %v, want %v", got.Due.Time, want)
	}
}

func TestHasCheckbox(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"- [ ] Task", true},
		{"- [x] Task", true},
		{"* [ ] Task", true},
		{"> - [ ] Quoted", true},
		{"  - [ ] Indented", true},
		{"Plain text", false},
		{"- Bullet only", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := HasCheckbox(tt.line); got != tt.want {
			t.Errorf("HasCheckbox(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}
