// Package truncate resolves line-range clauses against a file's lines and
// produces the subset to emit, inserting ellipsis markers where content is
// elided.
package truncate

import "fmt"

// Ellipsis is the literal line emitted in place of elided content.
const Ellipsis = "..."

// Range is one truncation clause from a path token's bracket suffix.
// Bounds are 1-based; negative values count from the end of the file and are
// resolved at apply time, not parse time.
type Range struct {
	Start, End       int
	HasStart, HasEnd bool
	// ElideAfter forces an ellipsis after this clause's content even when
	// the next clause is adjacent (the `...` clause suffix).
	ElideAfter bool
	// ElideOnly replaces the whole file with a single ellipsis (the `[..]`
	// form). It must be the only clause.
	ElideOnly bool
}

// RangeError reports a clause whose resolved bounds are invalid for the file
// it was applied to.
type RangeError struct {
	Start, End int // resolved, 1-based
	Lines      int
	Reason     string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid line range %d:%d for %d-line file: %s", e.Start, e.End, e.Lines, e.Reason)
}

// resolve maps a clause onto absolute 1-based bounds for an n-line file.
// Omitted bounds default to the full file; negative values are counted from
// the end (-1 is the last line) and clamped into [1, n].
func (r Range) resolve(n int) (start, end int) {
	start = 1
	if r.HasStart {
		start = r.Start
		if start < 0 {
			start = n + start + 1
		}
		if start < 1 {
			start = 1
		}
	}
	end = n
	if r.HasEnd {
		end = r.End
		if end < 0 {
			end = n + end + 1
			if end < 1 {
				end = 1
			}
		}
		if end > n {
			end = n
		}
	}
	return start, end
}

// Apply selects the lines requested by ranges, in clause order, separating
// non-contiguous clauses with a single ellipsis line. A nil or empty ranges
// slice selects the whole file.
func Apply(lines []string, ranges []Range) ([]string, error) {
	if len(ranges) == 0 {
		return lines, nil
	}
	if ranges[0].ElideOnly {
		return []string{Ellipsis}, nil
	}
	n := len(lines)
	if n == 0 {
		return nil, nil
	}

	type span struct {
		start, end int
		elideAfter bool
	}
	spans := make([]span, 0, len(ranges))
	for _, r := range ranges {
		start, end := r.resolve(n)
		if start > end {
			// Both bounds explicit and exactly abutting collapses to an
			// intentionally empty selection; anything else is a bad range.
			if !(r.HasStart && r.HasEnd && start == end+1) {
				return nil, &RangeError{Start: start, End: end, Lines: n, Reason: "start is past end"}
			}
		}
		spans = append(spans, span{start: start, end: end, elideAfter: r.ElideAfter})
	}

	for i := 1; i < len(spans); i++ {
		if spans[i].start <= spans[i-1].end {
			return nil, &RangeError{Start: spans[i].start, End: spans[i].end, Lines: n, Reason: "overlaps preceding clause"}
		}
	}

	var out []string
	for i, s := range spans {
		if s.start <= s.end {
			out = append(out, lines[s.start-1:s.end]...)
		}
		switch {
		case s.elideAfter:
			out = append(out, Ellipsis)
		case i+1 < len(spans) && spans[i+1].start != s.end+1:
			out = append(out, Ellipsis)
		}
	}
	return out, nil
}
