package twsense

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffContext is the number of unchanged lines shown around each change.
const diffContext = 2

type diffLine struct {
	op      diffmatchpatch.Operation
	text    string
	oldLine int // 1-based line in before, 0 for insertions
	newLine int // 1-based line in after, 0 for deletions
}

// UnifiedDiff renders a line-level unified diff between before and after.
// It returns "" when the texts are equal.
func UnifiedDiff(path, before, after string, useColors bool) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var all []diffLine
	oldLine, newLine := 1, 1
	for _, d := range diffs {
		for _, text := range splitLines(d.Text) {
			l := diffLine{op: d.Type, text: text}
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				l.oldLine, l.newLine = oldLine, newLine
				oldLine++
				newLine++
			case diffmatchpatch.DiffDelete:
				l.oldLine = oldLine
				oldLine++
			case diffmatchpatch.DiffInsert:
				l.newLine = newLine
				newLine++
			}
			all = append(all, l)
		}
	}

	var sb strings.Builder
	sb.WriteString(RenderStyle(StyleRed, "--- a/"+path, useColors) + "\n")
	sb.WriteString(RenderStyle(StyleGreen, "+++ b/"+path, useColors) + "\n")
	for _, h := range diffHunks(all) {
		writeHunk(&sb, all[h[0]:h[1]], useColors)
	}
	return sb.String()
}

// diffHunks returns [start, end) ranges over lines that cover every change
// plus its context, merging ranges that touch.
func diffHunks(lines []diffLine) [][2]int {
	var hunks [][2]int
	for i, l := range lines {
		if l.op == diffmatchpatch.DiffEqual {
			continue
		}
		start := max(i-diffContext, 0)
		end := min(i+diffContext+1, len(lines))
		if n := len(hunks); n > 0 && start <= hunks[n-1][1] {
			hunks[n-1][1] = max(hunks[n-1][1], end)
			continue
		}
		hunks = append(hunks, [2]int{start, end})
	}
	return hunks
}

func writeHunk(sb *strings.Builder, lines []diffLine, useColors bool) {
	oldStart, newStart := 0, 0
	oldCount, newCount := 0, 0
	for _, l := range lines {
		if l.oldLine > 0 {
			if oldStart == 0 {
				oldStart = l.oldLine
			}
			oldCount++
		}
		if l.newLine > 0 {
			if newStart == 0 {
				newStart = l.newLine
			}
			newCount++
		}
	}

	header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", oldStart, oldCount, newStart, newCount)
	sb.WriteString(RenderStyle(StyleCyan, header, useColors) + "\n")
	for _, l := range lines {
		switch l.op {
		case diffmatchpatch.DiffEqual:
			sb.WriteString(" " + l.text + "\n")
		case diffmatchpatch.DiffDelete:
			sb.WriteString(RenderStyle(StyleRed, "-"+l.text, useColors) + "\n")
		case diffmatchpatch.DiffInsert:
			sb.WriteString(RenderStyle(StyleGreen, "+"+l.text, useColors) + "\n")
		}
	}
}

// splitLines splits s into lines without their terminators.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
