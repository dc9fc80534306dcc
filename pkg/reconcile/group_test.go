package reconcile

import (
	"reflect"
	"testing"

	"github.com/okatz/anchorsync/pkg/task"
)

func TestCollectChildren(t *testing.T) {
	tests := []struct {
		name      string
		lines     []string
		start     int
		wantBody  string
		wantItems []task.ChecklistItem
	}{
		{
			name:  "body then checklist",
			lines: []string{"- [ ] Plan trip", "  look up trains", "  compare hotels", "  - [ ] passport", "  - [x] visa"},
			start: 0, wantBody: "look up trains\ncompare hotels",
			wantItems: []task.ChecklistItem{{Text: "passport"}, {Text: "visa", Checked: true}},
		},
		{
			name:  "stops at blank line",
			lines: []string{"- [ ] Task", "  note", "", "  orphan"},
			start: 0, wantBody: "note",
		},
		{
			name:  "stops at unindented line",
			lines: []string{"- [ ] Task", "  note", "- [ ] Other task"},
			start: 0, wantBody: "note",
		},
		{
			name:  "no children",
			lines: []string{"- [ ] Task", "- [ ] Other"},
			start: 0, wantBody: "",
		},
		{
			name:  "body line after checklist still collected as body",
			lines: []string{"- [ ] Task", "  - [ ] item", "  stray note"},
			start: 0, wantBody: "stray note",
			wantItems: []task.ChecklistItem{{Text: "item"}},
		},
		{
			name:  "tab indentation counts",
			lines: []string{"- [ ] Task", "\tnote"},
			start: 0, wantBody: "note",
		},
		{
			name:  "start at last line",
			lines: []string{"- [ ] Task"},
			start: 0, wantBody: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, items := collectChildren(tt.lines, tt.start)
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
			if !reflect.DeepEqual(items, tt.wantItems) {
				t.Errorf("items = %+v, want %+v", items, tt.wantItems)
			}
		})
	}
}

func TestChildSpan(t *testing.T) {
	lines := []string{"- [ ] Task", "  a", "  b", "", "  after blank"}
	if got := childSpan(lines, 0); got != 2 {
		t.Errorf("childSpan = %d, want 2", got)
	}
	if got := childSpan(lines, 3); got != 1 {
		t.Errorf("childSpan after blank = %d, want 1", got)
	}
	if got := childSpan(lines, 4); got != 0 {
		t.Errorf("childSpan at EOF = %d, want 0", got)
	}
}
