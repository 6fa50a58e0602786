package app

import (
	"io"
	"log"
	"strings"
	"testing"

	"github.com/dshills/inlay/internal/config"
	"github.com/dshills/inlay/internal/diag"
)

const hostDoc = "# Notes\n\n```go\nfunc main() {\n}\n```\n\n```lua\nprint(\"x\")   \n```\n"

func newTestApp(t *testing.T, text string, cfg config.Config) *App {
	t.Helper()

	a, err := New("docs/host.md", text, Options{
		Config: cfg,
		Logger: log.New(io.Discard, "", 0),
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func TestNewBindsEnabledRegions(t *testing.T) {
	a := newTestApp(t, hostDoc, config.Config{})

	if got := a.AdapterCount(); got != 2 {
		t.Fatalf("expected 2 adapters, got %d", got)
	}

	results := a.Results()
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Region.Language != "go" || results[1].Region.Language != "lua" {
		t.Errorf("unexpected result order: %s, %s",
			results[0].Region.Language, results[1].Region.Language)
	}
}

func TestNewRespectsLanguageFilter(t *testing.T) {
	cfg := config.Default()
	cfg.Languages = []string{"go"}

	a := newTestApp(t, hostDoc, cfg)

	if got := a.AdapterCount(); got != 1 {
		t.Fatalf("expected 1 adapter, got %d", got)
	}
	if results := a.Results(); results[0].Region.Language != "go" {
		t.Errorf("expected go region, got %s", results[0].Region.Language)
	}
}

func TestInitialAnalysisRuns(t *testing.T) {
	a := newTestApp(t, hostDoc, config.Config{})

	// The lua region carries trailing whitespace; the style pass flags it.
	results := a.Results()
	var luaDiags []diag.Diagnostic
	for _, r := range results {
		if r.Region.Language == "lua" {
			luaDiags = r.Diagnostics
		}
	}

	found := false
	for _, d := range luaDiags {
		if d.Code == "trailing-whitespace" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected trailing-whitespace diagnostic, got %v", luaDiags)
	}
}

func TestApplyHostReconcilesRegions(t *testing.T) {
	a := newTestApp(t, hostDoc, config.Config{})

	// Drop the lua region, add a python one.
	edited := hostDoc[:strings.Index(hostDoc, "```lua")] + "```python\nx = 1\n```\n"
	if err := a.ApplyHost(edited); err != nil {
		t.Fatalf("ApplyHost failed: %v", err)
	}

	if got := a.AdapterCount(); got != 2 {
		t.Fatalf("expected 2 adapters after reconcile, got %d", got)
	}

	languages := make([]string, 0, 2)
	for _, r := range a.Results() {
		languages = append(languages, r.Region.Language)
	}
	if languages[0] != "go" || languages[1] != "python" {
		t.Errorf("unexpected languages after reconcile: %v", languages)
	}
}

func TestApplyHostReanalyzesSurvivors(t *testing.T) {
	a := newTestApp(t, hostDoc, config.Config{})

	// Break the go region: an unclosed brace is an error diagnostic.
	edited := strings.Replace(hostDoc, "func main() {\n}", "func main() {\n", 1)
	if err := a.ApplyHost(edited); err != nil {
		t.Fatalf("ApplyHost failed: %v", err)
	}

	if !a.HasErrors() {
		t.Error("expected error diagnostics after breaking the go region")
	}

	summary := a.Summary()
	if summary.TotalErrors == 0 {
		t.Errorf("expected errors in summary, got %+v", summary)
	}
}

func TestCloseDisconnectsAll(t *testing.T) {
	a := newTestApp(t, hostDoc, config.Config{})

	a.Close()
	if got := a.AdapterCount(); got != 0 {
		t.Errorf("expected 0 adapters after close, got %d", got)
	}

	a.Close() // second close is a no-op
}
