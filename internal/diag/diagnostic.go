package diag

import "fmt"

// Severity is the severity level of a diagnostic.
// Lower values are more severe, matching editor-protocol conventions.
type Severity int

const (
	SeverityError   Severity = 1
	SeverityWarning Severity = 2
	SeverityInfo    Severity = 3
	SeverityHint    Severity = 4
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// Icon returns a single-character icon for the severity.
func (s Severity) Icon() string {
	switch s {
	case SeverityError:
		return "E"
	case SeverityWarning:
		return "W"
	case SeverityInfo:
		return "I"
	case SeverityHint:
		return "H"
	default:
		return "?"
	}
}

// ParseSeverity converts a severity name to a Severity.
func ParseSeverity(name string) (Severity, bool) {
	switch name {
	case "error":
		return SeverityError, true
	case "warning":
		return SeverityWarning, true
	case "info":
		return SeverityInfo, true
	case "hint":
		return SeverityHint, true
	default:
		return 0, false
	}
}

// Position is a zero-based line/character position within a document.
type Position struct {
	Line      int
	Character int
}

// Range is a position range within a document.
type Range struct {
	Start Position
	End   Position
}

// Diagnostic is a single analysis finding.
type Diagnostic struct {
	// Range locates the finding within the document.
	Range Range

	// Severity is the finding's severity level.
	Severity Severity

	// Source names the analyzer that produced the finding.
	Source string

	// Code is an optional analyzer-specific code.
	Code string

	// Message is the human-readable description.
	Message string
}

// Format renders a diagnostic for display, with 1-based positions.
func (d Diagnostic) Format() string {
	if d.Code != "" {
		return fmt.Sprintf("%d:%d %s [%s] %s (%s)",
			d.Range.Start.Line+1, d.Range.Start.Character+1,
			d.Severity.Icon(), d.Source, d.Message, d.Code)
	}
	return fmt.Sprintf("%d:%d %s [%s] %s",
		d.Range.Start.Line+1, d.Range.Start.Character+1,
		d.Severity.Icon(), d.Source, d.Message)
}
