// Package diff summarises how an AI result changed a script
package diff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Line kinds
const (
	LineContext = "context"
	LineAdded   = "added"
	LineRemoved = "removed"
)

// Line is one line of a line-level diff
type Line struct {
	Type    string `json:"type"`
	Text    string `json:"text"`
	OldLine int    `json:"oldLine,omitempty"`
	NewLine int    `json:"newLine,omitempty"`
}

// Summary is a line diff between two versions of a script
type Summary struct {
	Added   int    `json:"added"`
	Removed int    `json:"removed"`
	Lines   []Line `json:"lines,omitempty"`
}

// Summarize computes the line diff from before to after
func Summarize(before, after string) Summary {
	dmp := diffmatchpatch.New()
	beforeChars, afterChars, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(beforeChars, afterChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var s Summary
	oldLine, newLine := 1, 1
	for _, d := range diffs {
		chunk := strings.Split(d.Text, "\n")
		if len(chunk) > 0 && chunk[len(chunk)-1] == "" {
			chunk = chunk[:len(chunk)-1]
		}
		for _, text := range chunk {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				s.Lines = append(s.Lines, Line{Type: LineContext, Text: text, OldLine: oldLine, NewLine: newLine})
				oldLine++
				newLine++
			case diffmatchpatch.DiffDelete:
				s.Lines = append(s.Lines, Line{Type: LineRemoved, Text: text, OldLine: oldLine})
				s.Removed++
				oldLine++
			case diffmatchpatch.DiffInsert:
				s.Lines = append(s.Lines, Line{Type: LineAdded, Text: text, NewLine: newLine})
				s.Added++
				newLine++
			}
		}
	}
	return s
}

// Changed reports whether any line was added or removed
func (s Summary) Changed() bool {
	return s.Added > 0 || s.Removed > 0
}

// String returns a short "+N -M" form
func (s Summary) String() string {
	return fmt.Sprintf("+%d -%d", s.Added, s.Removed)
}

// Unified renders the diff with +, - and space prefixes
func (s Summary) Unified() string {
	var b strings.Builder
	for _, l := range s.Lines {
		switch l.Type {
		case LineAdded:
			b.WriteString("+ ")
		case LineRemoved:
			b.WriteString("- ")
		default:
			b.WriteString("  ")
		}
		b.WriteString(l.Text)
		b.WriteString("\n")
	}
	return b.String()
}
