package task

import (
	"regexp"
	"strings"
	"time"
)

var (
	anchorRegex   = regexp.MustCompile(`\^[A-Za-z0-9]+`)
	statusRegex   = regexp.MustCompile(`\[(.)\]`)
	isoDate       = `(\d{4}-\d{2}-\d{2})`
	checkboxRegex = regexp.MustCompile(`^\s*(?:>\s*)*(?:#+\s+)?(?:[-*]\s+)?\[.\]`)
	spaceRuns     = regexp.MustCompile(` {2,}`)
	decorations   = regexp.MustCompile(`^[\s>#*-]+`)
)

// HasCheckbox reports whether a line carries a status box and is
// therefore a candidate task line.
func HasCheckbox(line string) bool {
	return checkboxRegex.MatchString(line)
}

// Parse converts one line of document text into a Record. It never
// fails: any token section that does not match leaves the corresponding
// field at its default. Extraction order matters; each step strips its
// token so later steps see a cleaner string.
func Parse(line string, opts Options) Record {
	rec := Record{Status: StatusNotStarted, Importance: ImportanceNormal}
	working := line

	working, rec.Anchor = extractAnchor(working)
	working, rec.Status = extractStatus(working)
	working, rec.ListName = extractListName(working, opts.ListIndicator)

	var created *Date
	working, created = extractDate(working, opts.CreatedDatePrefix, opts.TimeZone)
	if created != nil {
		t := created.Time
		rec.Created = &t
	}
	working, rec.Due = extractDate(working, opts.DueDatePrefix, opts.TimeZone)
	working, rec.Importance = extractImportance(working, opts)

	working = decorations.ReplaceAllString(working, "")
	if opts.StripPattern != "" {
		if re, err := regexp.Compile(opts.StripPattern); err == nil {
			working = re.ReplaceAllString(working, "")
		}
	}

	rec.Title = strings.TrimSpace(spaceRuns.ReplaceAllString(working, " "))
	return rec
}

// extractAnchor finds the last ^token occurrence that is not preceded by
// another caret and strips it from the line.
func extractAnchor(line string) (string, string) {
	matches := anchorRegex.FindAllStringIndex(line, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		start, end := matches[i][0], matches[i][1]
		if start > 0 && line[start-1] == '^' {
			continue
		}
		anchor := line[start+1 : end]
		return line[:start] + line[end:], anchor
	}
	return line, ""
}

// extractStatus consumes the first single-character bracket group.
// Only "x" means completed; in-progress never arrives from page text.
func extractStatus(line string) (string, Status) {
	loc := statusRegex.FindStringSubmatchIndex(line)
	if loc == nil {
		return line, StatusNotStarted
	}
	ch := line[loc[2]:loc[3]]
	status := StatusNotStarted
	if strings.EqualFold(ch, "x") {
		status = StatusCompleted
	}
	return line[:loc[0]] + line[loc[1]:], status
}

// extractListName consumes the list-name tag: the indicator character
// followed by a quoted phrase (either quote style) or a bare word.
// The first match wins when the line is ambiguous.
func extractListName(line, indicator string) (string, string) {
	if indicator == "" {
		return line, ""
	}
	ind := regexp.QuoteMeta(indicator)
	re := regexp.MustCompile(ind + `(?:"([^"]+)"|'([^']+)'|(\S+))`)
	loc := re.FindStringSubmatchIndex(line)
	if loc == nil {
		return line, ""
	}
	var name string
	for g := 1; g <= 3; g++ {
		if loc[2*g] >= 0 {
			name = line[loc[2*g]:loc[2*g+1]]
			break
		}
	}
	return line[:loc[0]] + line[loc[1]:], name
}

// extractDate consumes prefix+[[YYYY-MM-DD]] or prefix+YYYY-MM-DD. The
// prefix occurring elsewhere without a date must not trigger extraction,
// so the pattern matches the combined token only. Malformed calendar
// values are left in place per best-effort parsing.
func extractDate(line, prefix, tz string) (string, *Date) {
	if prefix == "" {
		return line, nil
	}
	p := regexp.QuoteMeta(prefix)
	re := regexp.MustCompile(p + `(?:\[\[` + isoDate + `\]\]|` + isoDate + `)`)
	loc := re.FindStringSubmatchIndex(line)
	if loc == nil {
		return line, nil
	}
	var raw string
	for g := 1; g <= 2; g++ {
		if loc[2*g] >= 0 {
			raw = line[loc[2*g]:loc[2*g+1]]
			break
		}
	}
	t, err := time.ParseInLocation("2006-01-02", raw, locationOrUTC(tz))
	if err != nil {
		return line, nil
	}
	d := Date{Time: t, TimeZone: tz}
	return line[:loc[0]] + line[loc[1]:], &d
}

func extractImportance(line string, opts Options) (string, Importance) {
	if opts.HighGlyph != "" && strings.Contains(line, opts.HighGlyph) {
		return strings.Replace(line, opts.HighGlyph, "", 1), ImportanceHigh
	}
	if opts.LowGlyph != "" && strings.Contains(line, opts.LowGlyph) {
		return strings.Replace(line, opts.LowGlyph, "", 1), ImportanceLow
	}
	return line, ImportanceNormal
}
