package match

// Settings controls how triggers are recognized.
//
// A Settings value is immutable for the duration of a matching session;
// changing behavior means swapping in a whole new value via
// Matcher.UpdateSettings, never mutating fields in place.
type Settings struct {
	// CaseSensitive requires the typed text to match the trigger's case.
	CaseSensitive bool

	// RequireDelimiter requires the character before the trigger to be a
	// word delimiter (or the trigger to start the buffer).
	RequireDelimiter bool

	// RequirePrefix requires PrefixChar to be typed before the trigger.
	RequirePrefix bool

	// PrefixChar is the prefix character when RequirePrefix is set.
	PrefixChar rune
}

// DefaultSettings returns the engine defaults: case-insensitive, no
// delimiter requirement, no prefix.
func DefaultSettings() Settings {
	return Settings{PrefixChar: ';'}
}

// fullTrigger returns the string the buffer must end with for this trigger.
func (s Settings) fullTrigger(trigger string) string {
	if s.RequirePrefix && s.PrefixChar != 0 {
		return string(s.PrefixChar) + trigger
	}
	return trigger
}

// delimiters is the fixed set of word-delimiter characters recognized when
// RequireDelimiter is set.
const delimiters = " \t\n.,!?;:'\"()[]{}<>/\\-_=+*&^%$#@~`|"

// isDelimiter reports whether r is a word delimiter.
func isDelimiter(r rune) bool {
	for _, d := range delimiters {
		if r == d {
			return true
		}
	}
	return false
}
