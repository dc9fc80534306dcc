package task

// Options controls the on-page syntax of task lines: which glyphs mark
// dates and importance, how list names are tagged and quoted, and the
// line template used when formatting.
type Options struct {
	// ListIndicator is the character introducing a list-name tag,
	// e.g. "+" in `+"My List"`.
	ListIndicator string `yaml:"listIndicator"`

	// DueDatePrefix and CreatedDatePrefix are the glyphs immediately
	// preceding a due/created date token.
	DueDatePrefix     string `yaml:"dueDatePrefix"`
	CreatedDatePrefix string `yaml:"createdDatePrefix"`

	// LowGlyph and HighGlyph mark importance. Absence of both means
	// normal importance.
	LowGlyph  string `yaml:"lowGlyph"`
	HighGlyph string `yaml:"highGlyph"`

	// Template is the single-line rendering with literal placeholders.
	// Supported placeholders: {{status}}, {{task}}, {{importance}},
	// {{list}}, {{due}}, {{created}}.
	Template string `yaml:"template"`

	// UseSingleQuotes selects ' instead of " when a list name needs
	// quoting (it needs quoting only when it contains whitespace).
	UseSingleQuotes bool `yaml:"useSingleQuotes"`

	// WikilinkDates renders dates as [[YYYY-MM-DD]] instead of bare ISO.
	WikilinkDates bool `yaml:"wikilinkDates"`

	// StripPattern is an optional user-supplied regexp removed from the
	// title after all tokens were extracted. Invalid patterns are ignored.
	StripPattern string `yaml:"stripPattern"`

	// TimeZone is the IANA zone attached to parsed due dates.
	TimeZone string `yaml:"timeZone"`
}

// DefaultOptions returns the stock syntax configuration.
func DefaultOptions() Options {
	return Options{
		ListIndicator:     "+",
		DueDatePrefix:     "📅",
		CreatedDatePrefix: "➕",
		LowGlyph:          "🔽",
		HighGlyph:         "⏫",
		Template:          "- [{{status}}] {{task}} {{importance}} {{list}} {{due}} {{created}}",
	}
}
