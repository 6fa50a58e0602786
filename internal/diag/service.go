package diag

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dshills/inlay/internal/workspace"
)

// Errors returned by the diagnostics service.
var (
	// ErrNoWorkspace indicates the service was created without a workspace.
	ErrNoWorkspace = errors.New("diagnostics service has no workspace")

	// ErrUntrackedDocument indicates the handle is not tracked by the workspace.
	ErrUntrackedDocument = errors.New("document not tracked by workspace")
)

// Analyzer produces diagnostics for a tracked document.
type Analyzer interface {
	// Name identifies the analyzer; it becomes the diagnostic Source.
	Name() string

	// Analyze inspects the document text and returns findings.
	Analyze(ctx context.Context, doc *workspace.Document) ([]Diagnostic, error)
}

// DocumentDiagnostics holds diagnostics for a single tracked document.
type DocumentDiagnostics struct {
	Handle      workspace.Handle
	Key         string
	Diagnostics []Diagnostic
	UpdatedAt   time.Time
	Version     int

	// DocumentVersion is the workspace document version the diagnostics
	// were computed from.
	DocumentVersion int

	// Aggregated counts by severity
	ErrorCount   int
	WarningCount int
	InfoCount    int
	HintCount    int
}

// ChangeHandler is notified when a document's diagnostics are replaced.
type ChangeHandler func(handle workspace.Handle, diagnostics []Diagnostic)

// Service runs analyzers against workspace documents and stores the results.
// All methods are thread-safe; Reanalyze runs synchronously on the caller's
// goroutine.
type Service struct {
	mu        sync.RWMutex
	workspace *workspace.Workspace

	// Analyzers by language ID; the empty key applies to every language.
	analyzers map[string][]Analyzer

	// Per-handle diagnostics
	results map[workspace.Handle]*DocumentDiagnostics

	// Configuration
	minSeverity Severity
	maxPerDoc   int
	onChange    ChangeHandler
}

// ServiceOption configures the diagnostics service.
type ServiceOption func(*Service)

// WithMinSeverity sets the minimum severity to retain.
func WithMinSeverity(severity Severity) ServiceOption {
	return func(s *Service) {
		s.minSeverity = severity
	}
}

// WithMaxPerDocument limits retained diagnostics per document.
func WithMaxPerDocument(max int) ServiceOption {
	return func(s *Service) {
		s.maxPerDoc = max
	}
}

// WithChangeHandler sets a callback invoked after each re-analysis.
func WithChangeHandler(handler ChangeHandler) ServiceOption {
	return func(s *Service) {
		s.onChange = handler
	}
}

// NewService creates a diagnostics service over a workspace.
func NewService(ws *workspace.Workspace, opts ...ServiceOption) *Service {
	s := &Service{
		workspace:   ws,
		analyzers:   make(map[string][]Analyzer),
		results:     make(map[workspace.Handle]*DocumentDiagnostics),
		minSeverity: SeverityHint, // retain everything by default
		maxPerDoc:   1000,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// RegisterAnalyzer adds an analyzer for a language ID.
// An empty language ID registers the analyzer for every language.
func (s *Service) RegisterAnalyzer(languageID string, a Analyzer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.analyzers[languageID] = append(s.analyzers[languageID], a)
}

// Reanalyze runs the configured analyzers for the document and replaces its
// stored diagnostics. The previous results are kept if any analyzer fails.
//
// Analyzers run against a snapshot of the document, outside the service
// lock, so two passes for the same handle can overlap. A pass whose
// snapshot is older than the stored results or the document's current
// version is stale: its results are discarded and the change handler is
// not invoked, so a slow pass never replaces diagnostics computed from
// newer text.
func (s *Service) Reanalyze(ctx context.Context, handle workspace.Handle) error {
	if s.workspace == nil {
		return ErrNoWorkspace
	}

	doc, ok := s.workspace.Get(handle)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUntrackedDocument, handle)
	}

	s.mu.RLock()
	analyzers := make([]Analyzer, 0, len(s.analyzers[doc.LanguageID])+len(s.analyzers[""]))
	analyzers = append(analyzers, s.analyzers[""]...)
	analyzers = append(analyzers, s.analyzers[doc.LanguageID]...)
	s.mu.RUnlock()

	var collected []Diagnostic
	for _, a := range analyzers {
		found, err := a.Analyze(ctx, doc)
		if err != nil {
			return fmt.Errorf("analyzer %s: %w", a.Name(), err)
		}
		collected = append(collected, found...)
	}

	s.mu.Lock()
	if s.isStale(handle, doc.Version) {
		s.mu.Unlock()
		return nil
	}

	filtered := s.filter(collected)
	sortByPosition(filtered)
	if s.maxPerDoc > 0 && len(filtered) > s.maxPerDoc {
		filtered = filtered[:s.maxPerDoc]
	}

	dd := &DocumentDiagnostics{
		Handle:          handle,
		Key:             doc.Key,
		Diagnostics:     filtered,
		UpdatedAt:       time.Now(),
		Version:         1,
		DocumentVersion: doc.Version,
	}
	if existing, ok := s.results[handle]; ok {
		dd.Version = existing.Version + 1
	}
	for _, d := range filtered {
		switch d.Severity {
		case SeverityError:
			dd.ErrorCount++
		case SeverityWarning:
			dd.WarningCount++
		case SeverityInfo:
			dd.InfoCount++
		case SeverityHint:
			dd.HintCount++
		}
	}
	s.results[handle] = dd

	handler := s.onChange
	notifyCopy := make([]Diagnostic, len(filtered))
	copy(notifyCopy, filtered)
	s.mu.Unlock()

	if handler != nil {
		handler(handle, notifyCopy)
	}

	return nil
}

// isStale reports whether an analysis pass for analyzedVersion has been
// superseded, either by stored results from a newer document version or by
// a text update that landed while the analyzers were running. Callers must
// hold s.mu.
func (s *Service) isStale(handle workspace.Handle, analyzedVersion int) bool {
	if existing, ok := s.results[handle]; ok && existing.DocumentVersion > analyzedVersion {
		return true
	}
	if cur, ok := s.workspace.Get(handle); ok && cur.Version > analyzedVersion {
		return true
	}
	return false
}

// filter drops diagnostics below the minimum severity. Callers must hold s.mu.
func (s *Service) filter(diagnostics []Diagnostic) []Diagnostic {
	filtered := make([]Diagnostic, 0, len(diagnostics))
	for _, d := range diagnostics {
		if d.Severity > s.minSeverity {
			continue
		}
		filtered = append(filtered, d)
	}
	return filtered
}

// sortByPosition orders diagnostics by start position.
func sortByPosition(diagnostics []Diagnostic) {
	sort.SliceStable(diagnostics, func(i, j int) bool {
		if diagnostics[i].Range.Start.Line != diagnostics[j].Range.Start.Line {
			return diagnostics[i].Range.Start.Line < diagnostics[j].Range.Start.Line
		}
		return diagnostics[i].Range.Start.Character < diagnostics[j].Range.Start.Character
	})
}

// Get returns the stored diagnostics for a handle.
func (s *Service) Get(handle workspace.Handle) []Diagnostic {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dd, ok := s.results[handle]
	if !ok {
		return nil
	}

	result := make([]Diagnostic, len(dd.Diagnostics))
	copy(result, dd.Diagnostics)
	return result
}

// GetDocument returns the full stored record for a handle.
func (s *Service) GetDocument(handle workspace.Handle) (*DocumentDiagnostics, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dd, ok := s.results[handle]
	if !ok {
		return nil, false
	}

	result := *dd
	result.Diagnostics = make([]Diagnostic, len(dd.Diagnostics))
	copy(result.Diagnostics, dd.Diagnostics)
	return &result, true
}

// HasErrors returns true if a document has error-severity diagnostics.
func (s *Service) HasErrors(handle workspace.Handle) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dd, ok := s.results[handle]
	return ok && dd.ErrorCount > 0
}

// Clear removes stored diagnostics for a handle.
func (s *Service) Clear(handle workspace.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.results, handle)
}

// SetMinSeverity updates the minimum severity filter for future analyses.
func (s *Service) SetMinSeverity(severity Severity) {
	s.mu.Lock()
	s.minSeverity = severity
	s.mu.Unlock()
}

// Summary provides an overview across all tracked documents.
type Summary struct {
	TotalDocuments int
	TotalErrors    int
	TotalWarnings  int
	TotalInfos     int
	TotalHints     int
	DocsWithErrors int
}

// Summary returns an overall diagnostic summary.
func (s *Service) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := Summary{TotalDocuments: len(s.results)}
	for _, dd := range s.results {
		summary.TotalErrors += dd.ErrorCount
		summary.TotalWarnings += dd.WarningCount
		summary.TotalInfos += dd.InfoCount
		summary.TotalHints += dd.HintCount
		if dd.ErrorCount > 0 {
			summary.DocsWithErrors++
		}
	}
	return summary
}
