package analyze

import (
	"context"
	"fmt"
	"strings"

	"github.com/dshills/inlay/internal/diag"
	"github.com/dshills/inlay/internal/rules"
	"github.com/dshills/inlay/internal/workspace"
)

// Style enforces the formatting-rule configuration: trailing whitespace,
// maximum line length, indentation style, and indentation width.
type Style struct {
	rules *rules.Set
}

// NewStyle creates a style analyzer over a rule set.
func NewStyle(set *rules.Set) *Style {
	if set == nil {
		set = rules.DefaultSet()
	}
	return &Style{rules: set}
}

// Name implements diag.Analyzer.
func (a *Style) Name() string { return "style" }

// Analyze implements diag.Analyzer.
func (a *Style) Analyze(_ context.Context, doc *workspace.Document) ([]diag.Diagnostic, error) {
	r := a.rules.ForLanguage(doc.LanguageID)

	var findings []diag.Diagnostic
	for i, line := range strings.Split(doc.Text, "\n") {
		findings = append(findings, a.checkLine(r, i, line)...)
	}
	return findings, nil
}

// checkLine applies the rule set to a single line.
func (a *Style) checkLine(r rules.Rules, lineNo int, line string) []diag.Diagnostic {
	var findings []diag.Diagnostic

	if r.TrimTrailingWhitespace {
		trimmed := strings.TrimRight(line, " \t")
		if len(trimmed) != len(line) {
			findings = append(findings, diag.Diagnostic{
				Range: diag.Range{
					Start: diag.Position{Line: lineNo, Character: len(trimmed)},
					End:   diag.Position{Line: lineNo, Character: len(line)},
				},
				Severity: diag.SeverityWarning,
				Source:   a.Name(),
				Code:     "trailing-whitespace",
				Message:  "trailing whitespace",
			})
		}
	}

	if r.MaxLineLength > 0 && len(line) > r.MaxLineLength {
		findings = append(findings, diag.Diagnostic{
			Range: diag.Range{
				Start: diag.Position{Line: lineNo, Character: r.MaxLineLength},
				End:   diag.Position{Line: lineNo, Character: len(line)},
			},
			Severity: diag.SeverityWarning,
			Source:   a.Name(),
			Code:     "line-length",
			Message:  fmt.Sprintf("line exceeds %d bytes (%d)", r.MaxLineLength, len(line)),
		})
	}

	if r.IndentStyle == rules.IndentSpace && r.IndentSize > 0 {
		if n := leadingSpaces(line); n > 0 && n < len(line) && n%r.IndentSize != 0 {
			findings = append(findings, diag.Diagnostic{
				Range: diag.Range{
					Start: diag.Position{Line: lineNo, Character: 0},
					End:   diag.Position{Line: lineNo, Character: n},
				},
				Severity: diag.SeverityInfo,
				Source:   a.Name(),
				Code:     "indent-size",
				Message:  fmt.Sprintf("indentation of %d spaces is not a multiple of %d", n, r.IndentSize),
			})
		}
	}

	if bad, col := wrongIndent(r.IndentStyle, line); bad {
		want := "spaces"
		if r.IndentStyle == rules.IndentTab {
			want = "tabs"
		}
		findings = append(findings, diag.Diagnostic{
			Range: diag.Range{
				Start: diag.Position{Line: lineNo, Character: col},
				End:   diag.Position{Line: lineNo, Character: col + 1},
			},
			Severity: diag.SeverityInfo,
			Source:   a.Name(),
			Code:     "indent-style",
			Message:  fmt.Sprintf("indentation should use %s", want),
		})
	}

	return findings
}

// leadingSpaces counts the leading space bytes of a line.
func leadingSpaces(line string) int {
	n := 0
	for n < len(line) && line[n] == ' ' {
		n++
	}
	return n
}

// wrongIndent reports the first leading whitespace byte that violates the
// configured indent style.
func wrongIndent(style rules.IndentStyle, line string) (bool, int) {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			if style == rules.IndentTab {
				return true, i
			}
		case '\t':
			if style == rules.IndentSpace {
				return true, i
			}
		default:
			return false, 0
		}
	}
	return false, 0
}
