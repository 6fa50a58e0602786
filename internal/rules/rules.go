// Package rules provides per-language formatting-rule configuration for
// contained documents. Rule sets can be loaded from a Lua rules file or
// fall back to built-in defaults.
package rules

// IndentStyle selects the indentation character for a language.
type IndentStyle string

const (
	// IndentSpace indents with spaces.
	IndentSpace IndentStyle = "space"

	// IndentTab indents with tabs.
	IndentTab IndentStyle = "tab"
)

// Rules is the formatting-rule configuration applied to one contained document.
type Rules struct {
	// IndentSize is the number of columns per indentation level.
	IndentSize int

	// IndentStyle selects tabs or spaces.
	IndentStyle IndentStyle

	// TrimTrailingWhitespace enables trailing-whitespace diagnostics.
	TrimTrailingWhitespace bool

	// MaxLineLength is the maximum allowed line length in bytes.
	// Zero disables the check.
	MaxLineLength int
}

// Default returns the built-in rule set.
func Default() Rules {
	return Rules{
		IndentSize:             4,
		IndentStyle:            IndentSpace,
		TrimTrailingWhitespace: true,
		MaxLineLength:          120,
	}
}

// Set holds rule configurations keyed by language ID.
type Set struct {
	// Fallback applies to languages without an explicit entry.
	Fallback Rules

	// ByLanguage holds per-language overrides.
	ByLanguage map[string]Rules
}

// DefaultSet returns a set containing only the built-in defaults.
func DefaultSet() *Set {
	return &Set{
		Fallback:   Default(),
		ByLanguage: make(map[string]Rules),
	}
}

// ForLanguage returns the rules for a language ID.
func (s *Set) ForLanguage(languageID string) Rules {
	if r, ok := s.ByLanguage[languageID]; ok {
		return r
	}
	return s.Fallback
}
