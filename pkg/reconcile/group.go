package reconcile

import (
	"regexp"
	"strings"

	"github.com/okatz/anchorsync/pkg/task"
)

// groupState drives the scan over the indented block below a task line.
type groupState int

const (
	groupInBody groupState = iota
	groupInChecklist
	groupDone
)

var childChecklistRegex = regexp.MustCompile(`^\s+[-*]\s+\[(.)\]\s*(.*)$`)

// collectChildren gathers the body text and checklist items from the
// contiguous indented lines below start. The grouping is textual, by
// indentation only: the scan transitions to done at the first blank
// line, the first unindented line, or end of document. Malformed
// indentation therefore truncates the group silently; intentional,
// not a defect.
func collectChildren(lines []string, start int) (string, []task.ChecklistItem) {
	var body []string
	var items []task.ChecklistItem

	state := groupInBody
	for i := start + 1; i < len(lines) && state != groupDone; i++ {
		line := lines[i]
		switch {
		case strings.TrimSpace(line) == "":
			state = groupDone
		case !isIndented(line):
			state = groupDone
		default:
			if m := childChecklistRegex.FindStringSubmatch(line); m != nil {
				state = groupInChecklist
				items = append(items, task.ChecklistItem{
					Text:    strings.TrimSpace(m[2]),
					Checked: strings.EqualFold(m[1], "x"),
				})
			} else {
				state = groupInBody
				body = append(body, strings.TrimSpace(line))
			}
		}
	}
	return strings.Join(body, "\n"), items
}

func isIndented(line string) bool {
	return strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
}

// childSpan reports how many lines below start belong to the group,
// so callers can skip them when scanning for further task lines.
func childSpan(lines []string, start int) int {
	n := 0
	for i := start + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" || !isIndented(lines[i]) {
			break
		}
		n++
	}
	return n
}
