package app

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/dshills/inlay/internal/analyze"
	"github.com/dshills/inlay/internal/config"
	"github.com/dshills/inlay/internal/contained"
	"github.com/dshills/inlay/internal/diag"
	"github.com/dshills/inlay/internal/event"
	"github.com/dshills/inlay/internal/event/events"
	"github.com/dshills/inlay/internal/region"
	"github.com/dshills/inlay/internal/rules"
	"github.com/dshills/inlay/internal/workspace"
)

// Options configures an App.
type Options struct {
	// Config is the project configuration. Zero value means defaults.
	Config config.Config

	// Rules is the formatting-rule set. Nil means the built-in defaults.
	Rules *rules.Set

	// Bus, when set, receives pipeline lifecycle events.
	Bus *event.Bus

	// Logger receives non-fatal diagnostics. Defaults to log.Default().
	Logger *log.Logger
}

// App drives the contained-document pipeline for one host document.
type App struct {
	coordinator *contained.Coordinator
	workspace   *workspace.Workspace
	diagnostics *diag.Service
	bus         *event.Bus
	cfg         config.Config
	rules       *rules.Set
	logger      *log.Logger

	mu       sync.Mutex
	adapters map[string]*contained.Adapter
}

// New builds the pipeline for a host document and binds an adapter for
// every embedded region whose language is enabled.
func New(hostPath, hostText string, opts Options) (*App, error) {
	cfg := opts.Config
	defaults := config.Default()
	if cfg.MinSeverity == "" {
		cfg.MinSeverity = defaults.MinSeverity
	}
	if cfg.MaxDiagnostics <= 0 {
		cfg.MaxDiagnostics = defaults.MaxDiagnostics
	}
	if cfg.DebounceMs <= 0 {
		cfg.DebounceMs = defaults.DebounceMs
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	ruleSet := opts.Rules
	if ruleSet == nil {
		ruleSet = rules.DefaultSet()
	}

	ws := workspace.New()
	svc := diag.NewService(ws,
		diag.WithMinSeverity(cfg.Severity()),
		diag.WithMaxPerDocument(cfg.MaxDiagnostics),
	)
	svc.RegisterAnalyzer("", analyze.NewBrackets())
	svc.RegisterAnalyzer("", analyze.NewStyle(ruleSet))

	a := &App{
		coordinator: contained.NewCoordinator(hostPath, hostText),
		workspace:   ws,
		diagnostics: svc,
		bus:         opts.Bus,
		cfg:         cfg,
		rules:       ruleSet,
		logger:      logger,
		adapters:    make(map[string]*contained.Adapter),
	}

	if err := a.bindRegions(); err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

// bindRegions creates adapters for enabled regions that have none yet and
// runs their first analysis pass.
func (a *App) bindRegions() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, r := range a.coordinator.Regions() {
		if !a.cfg.LanguageEnabled(r.Language) {
			continue
		}
		if _, bound := a.adapters[r.Key]; bound {
			continue
		}

		adapter, err := contained.NewAdapter(contained.AdapterConfig{
			Coordinator: a.coordinator,
			Workspace:   a.workspace,
			Diagnostics: a.diagnostics,
			ItemKey:     r.Key,
			Rules:       a.rules,
			Bus:         a.bus,
			Logger:      a.logger,
		})
		if err != nil {
			return fmt.Errorf("bind region %s: %w", r.Key, err)
		}

		if err := adapter.Reanalyze(context.Background()); err != nil {
			adapter.Disconnect()
			return fmt.Errorf("analyze region %s: %w", r.Key, err)
		}

		a.adapters[r.Key] = adapter
	}

	return nil
}

// ApplyHost replaces the host document text. Regions that vanished are
// disconnected, surviving regions are re-analyzed through their adapters,
// and new regions get fresh adapters.
func (a *App) ApplyHost(text string) error {
	a.mu.Lock()
	current := make(map[string]region.Region)
	for _, r := range region.Scan(a.coordinator.HostPath(), text) {
		current[r.Key] = r
	}
	for key, adapter := range a.adapters {
		if _, alive := current[key]; !alive {
			adapter.Disconnect()
			delete(a.adapters, key)
		}
	}
	a.mu.Unlock()

	// Surviving adapters re-analyze synchronously from the data-buffer
	// change this triggers.
	a.coordinator.SetHostText(text)

	if a.bus != nil {
		err := a.bus.Publish(context.Background(), events.TopicHostChanged, events.HostChanged{
			Path:     a.coordinator.HostPath(),
			Revision: uint64(a.coordinator.DataBuffer().RevisionID()),
		})
		if err != nil {
			a.logger.Printf("app: publish host change: %v", err)
		}
	}

	return a.bindRegions()
}

// RegionResult pairs a region with its current diagnostics.
type RegionResult struct {
	Region      region.Region
	Diagnostics []diag.Diagnostic
}

// Results returns the analysis results for all bound regions in document
// order.
func (a *App) Results() []RegionResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	results := make([]RegionResult, 0, len(a.adapters))
	for _, r := range a.coordinator.Regions() {
		adapter, bound := a.adapters[r.Key]
		if !bound {
			continue
		}
		results = append(results, RegionResult{
			Region:      r,
			Diagnostics: a.diagnostics.Get(adapter.Handle()),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Region.Ordinal < results[j].Region.Ordinal
	})
	return results
}

// Summary returns the aggregate diagnostics counters.
func (a *App) Summary() diag.Summary {
	return a.diagnostics.Summary()
}

// HasErrors reports whether any bound region has error diagnostics.
func (a *App) HasErrors() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, adapter := range a.adapters {
		if a.diagnostics.HasErrors(adapter.Handle()) {
			return true
		}
	}
	return false
}

// HostPath returns the host document path.
func (a *App) HostPath() string {
	return a.coordinator.HostPath()
}

// AdapterCount returns the number of bound adapters.
func (a *App) AdapterCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.adapters)
}

// Close disconnects every bound adapter. It is safe to call more than once.
func (a *App) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	for key, adapter := range a.adapters {
		adapter.Disconnect()
		delete(a.adapters, key)
	}
}
