package task

import (
	"strings"
	"time"
	"unicode"
)

// Format renders a Record back to document text by literal substitution
// into the configured template. It never fails; missing optional fields
// render as empty segments. When singleLine is false the body and
// checklist items are appended below, indented two spaces.
func Format(rec Record, singleLine bool, opts Options) string {
	tmpl := opts.Template
	if tmpl == "" {
		tmpl = DefaultOptions().Template
	}

	replacer := strings.NewReplacer(
		"{{status}}", statusSymbol(rec.Status),
		"{{task}}", rec.Title,
		"{{importance}}", importanceGlyph(rec.Importance, opts),
		"{{list}}", listTag(rec.ListName, opts),
		"{{due}}", dateToken(rec.Due, opts.DueDatePrefix, opts),
		"{{created}}", createdToken(rec.Created, opts),
	)
	line := replacer.Replace(tmpl)
	line = strings.TrimSpace(spaceRuns.ReplaceAllString(line, " "))

	if rec.Anchor != "" {
		line += " ^" + rec.Anchor
	}
	if singleLine {
		return line
	}

	var b strings.Builder
	b.WriteString(line)
	if rec.Body != "" {
		for _, bl := range strings.Split(rec.Body, "\n") {
			b.WriteString("\n  ")
			b.WriteString(bl)
		}
	}
	for _, item := range rec.Checklist {
		box := " "
		if item.Checked {
			box = "x"
		}
		b.WriteString("\n  - [")
		b.WriteString(box)
		b.WriteString("] ")
		b.WriteString(item.Text)
	}
	return b.String()
}

func statusSymbol(s Status) string {
	if s == StatusCompleted {
		return "x"
	}
	// In-progress only exists remotely; on the page it renders as an
	// open box.
	return " "
}

func importanceGlyph(i Importance, opts Options) string {
	switch i {
	case ImportanceHigh:
		return opts.HighGlyph
	case ImportanceLow:
		return opts.LowGlyph
	}
	return ""
}

// listTag renders the list-name tag, quoting only when the name
// contains whitespace. Quote style follows the configured option.
func listTag(name string, opts Options) string {
	if name == "" || opts.ListIndicator == "" {
		return ""
	}
	if strings.IndexFunc(name, unicode.IsSpace) < 0 {
		return opts.ListIndicator + name
	}
	quote := `"`
	if opts.UseSingleQuotes {
		quote = "'"
	}
	return opts.ListIndicator + quote + name + quote
}

func dateToken(d *Date, prefix string, opts Options) string {
	if d == nil || prefix == "" {
		return ""
	}
	raw := d.Time.Format("2006-01-02")
	if opts.WikilinkDates {
		return prefix + "[[" + raw + "]]"
	}
	return prefix + raw
}

func createdToken(t *time.Time, opts Options) string {
	if t == nil || opts.CreatedDatePrefix == "" {
		return ""
	}
	raw := t.Format("2006-01-02")
	if opts.WikilinkDates {
		return opts.CreatedDatePrefix + "[[" + raw + "]]"
	}
	return opts.CreatedDatePrefix + raw
}
