package analyze

import (
	"context"
	"fmt"

	"github.com/dshills/inlay/internal/diag"
	"github.com/dshills/inlay/internal/workspace"
)

// Brackets reports unbalanced (), [], and {} pairs.
type Brackets struct{}

// NewBrackets creates a bracket-balance analyzer.
func NewBrackets() *Brackets {
	return &Brackets{}
}

// Name implements diag.Analyzer.
func (a *Brackets) Name() string { return "brackets" }

// open is a bracket waiting for its closer.
type open struct {
	ch   byte
	line int
	col  int
}

// Analyze implements diag.Analyzer.
func (a *Brackets) Analyze(_ context.Context, doc *workspace.Document) ([]diag.Diagnostic, error) {
	var findings []diag.Diagnostic
	var stack []open

	line, col := 0, 0
	for i := 0; i < len(doc.Text); i++ {
		ch := doc.Text[i]

		switch ch {
		case '\n':
			line++
			col = 0
			continue
		case '(', '[', '{':
			stack = append(stack, open{ch: ch, line: line, col: col})
		case ')', ']', '}':
			if len(stack) == 0 {
				findings = append(findings, unmatched(ch, line, col))
				break
			}
			top := stack[len(stack)-1]
			if closerFor(top.ch) != ch {
				findings = append(findings, mismatched(top, ch, line, col))
			}
			stack = stack[:len(stack)-1]
		}
		col++
	}

	for _, o := range stack {
		findings = append(findings, diag.Diagnostic{
			Range: diag.Range{
				Start: diag.Position{Line: o.line, Character: o.col},
				End:   diag.Position{Line: o.line, Character: o.col + 1},
			},
			Severity: diag.SeverityError,
			Source:   a.Name(),
			Code:     "unclosed",
			Message:  fmt.Sprintf("unclosed %q", string(o.ch)),
		})
	}

	return findings, nil
}

// closerFor returns the matching closer for an opening bracket.
func closerFor(ch byte) byte {
	switch ch {
	case '(':
		return ')'
	case '[':
		return ']'
	case '{':
		return '}'
	default:
		return 0
	}
}

// unmatched builds a finding for a closer with no opener.
func unmatched(ch byte, line, col int) diag.Diagnostic {
	return diag.Diagnostic{
		Range: diag.Range{
			Start: diag.Position{Line: line, Character: col},
			End:   diag.Position{Line: line, Character: col + 1},
		},
		Severity: diag.SeverityError,
		Source:   "brackets",
		Code:     "unmatched",
		Message:  fmt.Sprintf("unmatched %q", string(ch)),
	}
}

// mismatched builds a finding for a closer that does not match the opener.
func mismatched(o open, ch byte, line, col int) diag.Diagnostic {
	return diag.Diagnostic{
		Range: diag.Range{
			Start: diag.Position{Line: line, Character: col},
			End:   diag.Position{Line: line, Character: col + 1},
		},
		Severity: diag.SeverityError,
		Source:   "brackets",
		Code:     "mismatched",
		Message: fmt.Sprintf("expected %q to close %q opened at %d:%d, got %q",
			string(closerFor(o.ch)), string(o.ch), o.line+1, o.col+1, string(ch)),
	}
}
