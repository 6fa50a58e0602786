// Package region extracts embedded-language regions from host documents.
// A region is the text of a fenced code block together with its location in
// the host and a stable key used to register the projection.
package region

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Region is a single embedded-language region within a host document.
type Region struct {
	// Key is the stable identifier: "<host base name>#<ordinal>-<language>".
	Key string

	// Language is the language identifier from the fence info string.
	Language string

	// Text is the embedded text, without the fence lines.
	Text string

	// StartLine is the zero-based host line of the first embedded line
	// (the line after the opening fence).
	StartLine int

	// EndLine is the zero-based host line after the last embedded line.
	EndLine int

	// Ordinal is the zero-based index of the region within the host.
	Ordinal int
}

// HostLine maps a zero-based line within the region to its host line.
func (r Region) HostLine(line int) int {
	return r.StartLine + line
}

// Scan extracts embedded regions from host document text.
//
// Regions are Markdown-style fenced code blocks opened by a line starting
// with ``` or ~~~ followed by an info string. Fences with an empty info
// string are skipped (there is nothing to analyze without a language).
// An unterminated fence extends to the end of the document.
func Scan(hostPath, text string) []Region {
	base := filepath.Base(hostPath)
	lines := splitLines(text)

	var regions []Region
	ordinal := 0

	for i := 0; i < len(lines); i++ {
		fence, lang := openFence(lines[i])
		if fence == "" {
			continue
		}

		start := i + 1
		end := len(lines)
		for j := start; j < len(lines); j++ {
			if isCloseFence(lines[j], fence) {
				end = j
				break
			}
		}

		if lang != "" {
			regions = append(regions, Region{
				Key:       fmt.Sprintf("%s#%d-%s", base, ordinal, lang),
				Language:  lang,
				Text:      joinLines(lines[start:end]),
				StartLine: start,
				EndLine:   end,
				Ordinal:   ordinal,
			})
			ordinal++
		}

		i = end // resume after the closing fence
	}

	return regions
}

// openFence returns the fence marker and language if the line opens a fence.
func openFence(line string) (marker, lang string) {
	trimmed := strings.TrimRight(line, "\r")

	for _, m := range []string{"```", "~~~"} {
		if strings.HasPrefix(trimmed, m) {
			info := strings.TrimSpace(strings.TrimPrefix(trimmed, m))
			if fields := strings.Fields(info); len(fields) > 0 {
				return m, fields[0]
			}
			return m, ""
		}
	}
	return "", ""
}

// isCloseFence returns true if the line closes a fence opened with marker.
func isCloseFence(line, marker string) bool {
	trimmed := strings.TrimSpace(strings.TrimRight(line, "\r"))
	return trimmed == marker
}

// splitLines splits text into lines without terminators.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// joinLines reassembles region lines with LF terminators.
func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
