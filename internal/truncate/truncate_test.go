package truncate

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func numberedLines(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i+1)
	}
	return lines
}

func rng(start, end int, hasStart, hasEnd bool) Range {
	return Range{Start: start, End: end, HasStart: hasStart, HasEnd: hasEnd}
}

func TestApplyFullFile(t *testing.T) {
	lines := numberedLines(5)
	got, err := Apply(lines, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, lines) {
		t.Fatalf("Apply(nil ranges) = %v, want all lines", got)
	}
}

func TestApplyRanges(t *testing.T) {
	cases := []struct {
		name   string
		lines  int
		ranges []Range
		want   []string
	}{
		{
			name:   "head",
			lines:  20,
			ranges: []Range{rng(0, 5, false, true)},
			want:   []string{"line 1", "line 2", "line 3", "line 4", "line 5"},
		},
		{
			name:   "tail from 10",
			lines:  12,
			ranges: []Range{rng(10, 0, true, false)},
			want:   []string{"line 10", "line 11", "line 12"},
		},
		{
			name:   "negative start",
			lines:  20,
			ranges: []Range{rng(-5, 0, true, false)},
			want:   []string{"line 16", "line 17", "line 18", "line 19", "line 20"},
		},
		{
			name:   "negative end",
			lines:  5,
			ranges: []Range{rng(1, -2, true, true)},
			want:   []string{"line 1", "line 2", "line 3", "line 4"},
		},
		{
			name:  "gap gets one ellipsis",
			lines: 20,
			ranges: []Range{
				rng(0, 5, false, true),
				rng(15, 0, true, false),
			},
			want: []string{
				"line 1", "line 2", "line 3", "line 4", "line 5",
				Ellipsis,
				"line 15", "line 16", "line 17", "line 18", "line 19", "line 20",
			},
		},
		{
			name:  "adjacent clauses join without ellipsis",
			lines: 6,
			ranges: []Range{
				rng(1, 3, true, true),
				rng(4, 6, true, true),
			},
			want: []string{"line 1", "line 2", "line 3", "line 4", "line 5", "line 6"},
		},
		{
			name:  "elide-after forces ellipsis even when adjacent",
			lines: 6,
			ranges: []Range{
				{End: 3, HasEnd: true, ElideAfter: true},
				rng(4, 6, true, true),
			},
			want: []string{"line 1", "line 2", "line 3", Ellipsis, "line 4", "line 5", "line 6"},
		},
		{
			name:   "trailing elide-after",
			lines:  20,
			ranges: []Range{{End: 2, HasEnd: true, ElideAfter: true}},
			want:   []string{"line 1", "line 2", Ellipsis},
		},
		{
			name:   "elide only",
			lines:  100,
			ranges: []Range{{ElideOnly: true}},
			want:   []string{Ellipsis},
		},
		{
			name:  "explicit empty selection abutting",
			lines: 6,
			ranges: []Range{
				rng(1, 3, true, true),
				rng(4, 3, true, true),
				rng(4, 6, true, true),
			},
			want: []string{"line 1", "line 2", "line 3", "line 4", "line 5", "line 6"},
		},
		{
			name:   "clamped past end",
			lines:  3,
			ranges: []Range{rng(0, 10, false, true)},
			want:   []string{"line 1", "line 2", "line 3"},
		},
	}

	for _, tc := range cases {
		got, err := Apply(numberedLines(tc.lines), tc.ranges)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestApplyRangeErrors(t *testing.T) {
	cases := []struct {
		name   string
		lines  int
		ranges []Range
	}{
		{
			name:   "start past end",
			lines:  10,
			ranges: []Range{rng(8, 3, true, true)},
		},
		{
			name:  "overlapping clauses",
			lines: 20,
			ranges: []Range{
				rng(1, 10, true, true),
				rng(5, 15, true, true),
			},
		},
	}
	for _, tc := range cases {
		_, err := Apply(numberedLines(tc.lines), tc.ranges)
		var rangeErr *RangeError
		if !errors.As(err, &rangeErr) {
			t.Fatalf("%s: expected *RangeError, got %v", tc.name, err)
		}
	}
}

func TestApplyEmptyFile(t *testing.T) {
	got, err := Apply(nil, []Range{rng(0, 5, false, true)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no lines for empty file, got %v", got)
	}
}
