package selector

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"dir2md/internal/truncate"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("content\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func TestSplitSuffix(t *testing.T) {
	cases := []struct {
		token    string
		wantPath string
		want     []truncate.Range
	}{
		{
			token:    "a.py",
			wantPath: "a.py",
			want:     nil,
		},
		{
			token:    "a.py[:10]",
			wantPath: "a.py",
			want:     []truncate.Range{{End: 10, HasEnd: true}},
		},
		{
			token:    "a.py[10:]",
			wantPath: "a.py",
			want:     []truncate.Range{{Start: 10, HasStart: true}},
		},
		{
			token:    "a.py[-10:]",
			wantPath: "a.py",
			want:     []truncate.Range{{Start: -10, HasStart: true}},
		},
		{
			token:    "a.py[:10...]",
			wantPath: "a.py",
			want:     []truncate.Range{{End: 10, HasEnd: true, ElideAfter: true}},
		},
		{
			token:    "a.py[:5 15:]",
			wantPath: "a.py",
			want: []truncate.Range{
				{End: 5, HasEnd: true},
				{Start: 15, HasStart: true},
			},
		},
		{
			token:    "a.py[..]",
			wantPath: "a.py",
			want:     []truncate.Range{{ElideOnly: true}},
		},
		{
			token:    "a.py[3:-2]",
			wantPath: "a.py",
			want:     []truncate.Range{{Start: 3, End: -2, HasStart: true, HasEnd: true}},
		},
		{
			// A glob character class is not a truncation suffix.
			token:    "src/*.[ch]",
			wantPath: "src/*.[ch]",
			want:     nil,
		},
	}
	for _, tc := range cases {
		path, ranges, err := splitSuffix(tc.token)
		if err != nil {
			t.Fatalf("splitSuffix(%q): unexpected error: %v", tc.token, err)
		}
		if path != tc.wantPath {
			t.Fatalf("splitSuffix(%q) path = %q, want %q", tc.token, path, tc.wantPath)
		}
		if !reflect.DeepEqual(ranges, tc.want) {
			t.Fatalf("splitSuffix(%q) ranges = %+v, want %+v", tc.token, ranges, tc.want)
		}
	}
}

func TestSplitSuffixErrors(t *testing.T) {
	tokens := []string{
		"a.py[5]",       // bare numbers are reserved
		"a.py[1:2:3]",   // too many colons
		"a.py[x:y]",     // non-numeric bounds
		"a.py[.. 1:2]",  // [..] cannot be combined
		"a.py[1:2 ..]",  // same, other order
		"a.py[:5 10ab:]",
	}
	for _, token := range tokens {
		_, _, err := splitSuffix(token)
		var synErr *SyntaxError
		if !errors.As(err, &synErr) {
			t.Fatalf("splitSuffix(%q): expected *SyntaxError, got %v", token, err)
		}
	}
}

func TestExpandLiteral(t *testing.T) {
	targets, err := Expand([]string{"missing.py[:3]"}, Options{NoGlob: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(targets) != 1 {
		t.Fatalf("expected 1 target, got %d", len(targets))
	}
	if targets[0].Path != "missing.py" {
		t.Fatalf("expected literal path preserved, got %q", targets[0].Path)
	}
	if len(targets[0].Ranges) != 1 || !targets[0].Ranges[0].HasEnd {
		t.Fatalf("expected parsed range on target, got %+v", targets[0].Ranges)
	}
}

func TestExpandGlob(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "b.py", "a.py", "sub/c.py", "d.txt")

	targets, err := Expand([]string{filepath.Join(dir, "**/*.py") + "[:2]"}, Options{BaseDir: dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var paths []string
	for _, target := range targets {
		rel, err := filepath.Rel(dir, target.Path)
		if err != nil {
			t.Fatalf("rel: %v", err)
		}
		paths = append(paths, filepath.ToSlash(rel))
		if len(target.Ranges) != 1 {
			t.Fatalf("expected shared ranges on %s, got %+v", target.Path, target.Ranges)
		}
	}
	want := []string{"a.py", "b.py", "sub/c.py"}
	if !reflect.DeepEqual(paths, want) {
		t.Fatalf("glob targets = %v, want %v", paths, want)
	}
}

func TestExpandGlobZeroMatches(t *testing.T) {
	dir := t.TempDir()
	targets, err := Expand([]string{filepath.Join(dir, "*.nope")}, Options{})
	if err != nil {
		t.Fatalf("zero glob matches must not error: %v", err)
	}
	if len(targets) != 0 {
		t.Fatalf("expected no targets, got %v", targets)
	}
}

func TestExpandRespectsGitIgnore(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "keep.py", "secret.py")
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("secret.py\n"), 0o644); err != nil {
		t.Fatalf("write .gitignore: %v", err)
	}

	targets, err := Expand([]string{filepath.Join(dir, "*.py")}, Options{BaseDir: dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(targets) != 1 || filepath.Base(targets[0].Path) != "keep.py" {
		t.Fatalf("expected gitignored file filtered, got %+v", targets)
	}

	targets, err = Expand([]string{filepath.Join(dir, "*.py")}, Options{BaseDir: dir, IncludeIgnored: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(targets) != 2 {
		t.Fatalf("expected IncludeIgnored to keep both files, got %+v", targets)
	}
}

func TestExpandLiteralNeverFiltered(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "secret.py")
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("secret.py\n"), 0o644); err != nil {
		t.Fatalf("write .gitignore: %v", err)
	}

	literal := filepath.Join(dir, "secret.py")
	targets, err := Expand([]string{literal}, Options{BaseDir: dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(targets) != 1 || targets[0].Path != literal {
		t.Fatalf("explicit path must bypass the ignore filter, got %+v", targets)
	}
}
