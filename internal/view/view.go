// Package view renders watch-mode analysis results in the terminal.
package view

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/inlay/internal/app"
	"github.com/dshills/inlay/internal/diag"
)

// View is a full-screen diagnostics panel backed by a tcell screen.
// Update may be called from any goroutine; Run owns the screen.
type View struct {
	screen tcell.Screen

	mu       sync.Mutex
	hostPath string
	results  []app.RegionResult
	summary  diag.Summary
	scroll   int
}

// New creates a view over a screen. The caller keeps ownership of screen
// creation so tests can drive a simulation screen.
func New(screen tcell.Screen) *View {
	return &View{screen: screen}
}

// Update replaces the displayed results and requests a redraw.
func (v *View) Update(hostPath string, results []app.RegionResult, summary diag.Summary) {
	v.mu.Lock()
	v.hostPath = hostPath
	v.results = results
	v.summary = summary
	v.mu.Unlock()

	// Wake the event loop. Best effort: a full queue already has a redraw
	// pending.
	_ = v.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// Run initializes the screen and blocks until the user quits or the context
// is cancelled.
func (v *View) Run(ctx context.Context) error {
	if err := v.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer v.screen.Fini()

	go func() {
		<-ctx.Done()
		_ = v.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	for {
		v.draw()

		if ctx.Err() != nil {
			return nil
		}

		switch ev := v.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if v.handleKey(ev) {
				return nil
			}
		case *tcell.EventResize:
			v.screen.Sync()
		case *tcell.EventInterrupt:
			// Redraw on the next loop pass.
		case nil:
			return nil
		}
	}
}

// handleKey processes a key event and reports whether the view should quit.
func (v *View) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		v.scrollBy(-1)
	case tcell.KeyDown:
		v.scrollBy(1)
	case tcell.KeyPgUp:
		_, h := v.screen.Size()
		v.scrollBy(-h)
	case tcell.KeyPgDn:
		_, h := v.screen.Size()
		v.scrollBy(h)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'k':
			v.scrollBy(-1)
		case 'j':
			v.scrollBy(1)
		case 'g':
			v.mu.Lock()
			v.scroll = 0
			v.mu.Unlock()
		}
	}
	return false
}

func (v *View) scrollBy(delta int) {
	v.mu.Lock()
	v.scroll += delta
	if v.scroll < 0 {
		v.scroll = 0
	}
	v.mu.Unlock()
}

// Line is one rendered row. Severity zero means a non-diagnostic row.
type Line struct {
	Text     string
	Severity diag.Severity
}

// Lines renders the current results as display rows. The draw loop paints
// these; keeping the formatting separate makes it testable without a
// terminal.
func (v *View) Lines() []Line {
	v.mu.Lock()
	defer v.mu.Unlock()

	lines := []Line{
		{Text: fmt.Sprintf("%s  [%d errors, %d warnings]",
			v.hostPath, v.summary.TotalErrors, v.summary.TotalWarnings)},
		{},
	}

	for _, res := range v.results {
		lines = append(lines, Line{
			Text: fmt.Sprintf("%s (%s)", res.Region.Key, res.Region.Language),
		})
		if len(res.Diagnostics) == 0 {
			lines = append(lines, Line{Text: "  ok"})
			continue
		}
		for _, d := range res.Diagnostics {
			lines = append(lines, Line{Text: "  " + d.Format(), Severity: d.Severity})
		}
	}

	return lines
}

// draw repaints the whole screen.
func (v *View) draw() {
	v.screen.Clear()

	lines := v.Lines()

	v.mu.Lock()
	maxScroll := len(lines) - 1
	if v.scroll > maxScroll {
		v.scroll = maxScroll
	}
	if v.scroll < 0 {
		v.scroll = 0
	}
	offset := v.scroll
	v.mu.Unlock()

	width, height := v.screen.Size()

	for row := 0; row < height-1; row++ {
		idx := offset + row
		if idx >= len(lines) {
			break
		}
		v.drawText(0, row, width, lines[idx].Text, styleFor(lines[idx].Severity))
	}

	v.drawText(0, height-1, width, " q quit  j/k scroll ", tcell.StyleDefault.Reverse(true))
	v.screen.Show()
}

// drawText paints a string clipped to maxWidth.
func (v *View) drawText(x, y, maxWidth int, text string, style tcell.Style) {
	col := x
	for _, r := range text {
		if col >= x+maxWidth {
			return
		}
		v.screen.SetContent(col, y, r, nil, style)
		col++
	}
}

// styleFor picks a display style for a row's severity.
func styleFor(s diag.Severity) tcell.Style {
	switch s {
	case diag.SeverityError:
		return tcell.StyleDefault.Foreground(tcell.ColorRed)
	case diag.SeverityWarning:
		return tcell.StyleDefault.Foreground(tcell.ColorYellow)
	default:
		return tcell.StyleDefault
	}
}
