package rules

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultSet(t *testing.T) {
	set := DefaultSet()

	r := set.ForLanguage("anything")
	if r.IndentSize != 4 || r.IndentStyle != IndentSpace {
		t.Errorf("unexpected defaults: %+v", r)
	}
	if !r.TrimTrailingWhitespace {
		t.Error("trailing whitespace trimming should default on")
	}
}

func TestLoadString(t *testing.T) {
	set, err := LoadString(`
		return {
			default = { indent_size = 2, max_line_length = 80 },
			languages = {
				go = { indent_style = "tab" },
				python = { indent_size = 4, trim_trailing_whitespace = false },
			},
		}
	`)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if set.Fallback.IndentSize != 2 {
		t.Errorf("expected fallback indent 2, got %d", set.Fallback.IndentSize)
	}
	if set.Fallback.MaxLineLength != 80 {
		t.Errorf("expected fallback max length 80, got %d", set.Fallback.MaxLineLength)
	}

	goRules := set.ForLanguage("go")
	if goRules.IndentStyle != IndentTab {
		t.Errorf("expected tab indent for go, got %v", goRules.IndentStyle)
	}
	// Language rules inherit the customized fallback.
	if goRules.IndentSize != 2 {
		t.Errorf("expected inherited indent 2, got %d", goRules.IndentSize)
	}

	pyRules := set.ForLanguage("python")
	if pyRules.IndentSize != 4 || pyRules.TrimTrailingWhitespace {
		t.Errorf("unexpected python rules: %+v", pyRules)
	}

	// Unlisted language falls back.
	if got := set.ForLanguage("rust"); got != set.Fallback {
		t.Errorf("expected fallback for unlisted language, got %+v", got)
	}
}

func TestLoadStringNotTable(t *testing.T) {
	if _, err := LoadString(`return 42`); !errors.Is(err, ErrNotTable) {
		t.Errorf("expected ErrNotTable, got %v", err)
	}
}

func TestLoadStringSyntaxError(t *testing.T) {
	if _, err := LoadString(`return {`); err == nil {
		t.Error("expected a syntax error")
	}
}

func TestLoadStringIgnoresInvalidValues(t *testing.T) {
	set, err := LoadString(`
		return {
			default = {
				indent_size = -1,
				indent_style = "banana",
			},
		}
	`)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if set.Fallback.IndentSize != 4 {
		t.Errorf("invalid indent size should be ignored, got %d", set.Fallback.IndentSize)
	}
	if set.Fallback.IndentStyle != IndentSpace {
		t.Errorf("invalid indent style should be ignored, got %v", set.Fallback.IndentStyle)
	}
}

func TestLoadFileMissing(t *testing.T) {
	set, err := LoadFile(filepath.Join(t.TempDir(), "absent.lua"))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}

	if set.Fallback != Default() {
		t.Errorf("expected defaults, got %+v", set.Fallback)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.lua")
	source := `return { default = { indent_size = 8 } }`
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	set, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if set.Fallback.IndentSize != 8 {
		t.Errorf("expected indent 8, got %d", set.Fallback.IndentSize)
	}
}
