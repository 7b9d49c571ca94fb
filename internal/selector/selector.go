// Package selector expands raw path tokens into concrete encode targets.
// A token is a path, optionally a glob pattern, optionally carrying a
// trailing bracketed truncation suffix such as `main.go[:20 40:...]`.
package selector

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"

	"dir2md/internal/truncate"
)

// MissingPolicy decides what the encoder does when a literal target's file
// does not exist.
type MissingPolicy int

const (
	MissingError MissingPolicy = iota
	MissingIgnore
)

// Target is one resolved file plus its requested line ranges.
type Target struct {
	Path          string
	Ranges        []truncate.Range
	MissingPolicy MissingPolicy
}

// Options control token expansion.
type Options struct {
	// NoGlob disables glob expansion; every token is a literal path.
	NoGlob bool
	// OnMissing is attached to each produced Target.
	OnMissing MissingPolicy
	// BaseDir is where the .gitignore filter is looked up. Empty means the
	// current directory.
	BaseDir string
	// IncludeIgnored disables the .gitignore filter on glob matches.
	IncludeIgnored bool
}

// SyntaxError reports a malformed truncation suffix on a path token.
type SyntaxError struct {
	Token  string
	Clause string
	Reason string
}

func (e *SyntaxError) Error() string {
	if e.Clause != "" {
		return fmt.Sprintf("invalid truncation suffix in %q: clause %q: %s", e.Token, e.Clause, e.Reason)
	}
	return fmt.Sprintf("invalid truncation suffix in %q: %s", e.Token, e.Reason)
}

// Expand parses every token and resolves globs. All tokens are parsed before
// any filesystem work so a syntax error aborts the whole call up front.
// Glob tokens that match nothing yield no targets; literal tokens always
// yield one, deferring the missing-file decision to the encoder.
func Expand(tokens []string, opts Options) ([]Target, error) {
	type parsed struct {
		token  string
		path   string
		ranges []truncate.Range
	}
	parsedTokens := make([]parsed, 0, len(tokens))
	for _, token := range tokens {
		path, ranges, err := splitSuffix(token)
		if err != nil {
			return nil, err
		}
		parsedTokens = append(parsedTokens, parsed{token: token, path: path, ranges: ranges})
	}

	var ignoreFilter *ignore.GitIgnore
	if !opts.NoGlob && !opts.IncludeIgnored {
		ignoreFilter = loadGitIgnore(opts.BaseDir)
	}

	var targets []Target
	for _, p := range parsedTokens {
		if opts.NoGlob || !isGlobPattern(p.path) {
			targets = append(targets, Target{Path: p.path, Ranges: p.ranges, MissingPolicy: opts.OnMissing})
			continue
		}
		matches, err := doublestar.FilepathGlob(p.path)
		if err != nil {
			return nil, &SyntaxError{Token: p.token, Reason: fmt.Sprintf("bad glob pattern: %v", err)}
		}
		sort.Strings(matches)
		for _, match := range matches {
			if info, err := os.Stat(match); err == nil && info.IsDir() {
				continue
			}
			if ignoreFilter != nil && matchesIgnore(ignoreFilter, opts.BaseDir, match) {
				continue
			}
			targets = append(targets, Target{Path: match, Ranges: p.ranges, MissingPolicy: opts.OnMissing})
		}
	}
	return targets, nil
}

// isGlobPattern reports whether path contains glob metacharacters. Literal
// paths bypass expansion entirely so a missing file can still be reported.
func isGlobPattern(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}

// splitSuffix separates a trailing truncation suffix from the path part of a
// token. A trailing bracket group is only treated as a suffix when its
// clauses use the range grammar; anything else (e.g. the glob class in
// `*.[ch]`) stays in the path.
func splitSuffix(token string) (string, []truncate.Range, error) {
	open := strings.LastIndex(token, "[")
	if open < 0 || !strings.HasSuffix(token, "]") {
		return token, nil, nil
	}
	body := token[open+1 : len(token)-1]
	if !looksLikeSuffix(body) {
		return token, nil, nil
	}
	path := token[:open]

	if body == ".." {
		return path, []truncate.Range{{ElideOnly: true}}, nil
	}
	clauses := strings.Fields(body)
	if len(clauses) == 0 {
		return "", nil, &SyntaxError{Token: token, Reason: "empty bracket suffix"}
	}
	ranges := make([]truncate.Range, 0, len(clauses))
	for _, clause := range clauses {
		if clause == ".." {
			return "", nil, &SyntaxError{Token: token, Clause: clause, Reason: "[..] cannot be combined with other clauses"}
		}
		r, err := parseClause(token, clause)
		if err != nil {
			return "", nil, err
		}
		ranges = append(ranges, r)
	}
	return path, ranges, nil
}

// looksLikeSuffix reports whether a bracket body is range syntax rather than
// a glob character class. Every whitespace-separated clause must be `..`,
// contain a `:`, or be a bare integer (reserved, rejected later with a
// pointed message).
func looksLikeSuffix(body string) bool {
	if body == ".." {
		return true
	}
	clauses := strings.Fields(body)
	if len(clauses) == 0 {
		return false
	}
	for _, clause := range clauses {
		if clause == ".." || strings.Contains(clause, ":") {
			continue
		}
		if _, err := strconv.Atoi(strings.TrimSuffix(clause, "...")); err != nil {
			return false
		}
	}
	return true
}

func parseClause(token, clause string) (truncate.Range, error) {
	var r truncate.Range
	spec := clause
	if strings.HasSuffix(spec, "...") {
		r.ElideAfter = true
		spec = strings.TrimSuffix(spec, "...")
	}
	colon := strings.Index(spec, ":")
	if colon < 0 {
		return r, &SyntaxError{Token: token, Clause: clause, Reason: "bare line numbers are not supported, use start:end"}
	}
	startStr, endStr := spec[:colon], spec[colon+1:]
	if strings.Contains(endStr, ":") {
		return r, &SyntaxError{Token: token, Clause: clause, Reason: "more than one ':' in clause"}
	}
	if startStr != "" {
		start, err := strconv.Atoi(startStr)
		if err != nil {
			return r, &SyntaxError{Token: token, Clause: clause, Reason: fmt.Sprintf("bad start line %q", startStr)}
		}
		r.Start = start
		r.HasStart = true
	}
	if endStr != "" {
		end, err := strconv.Atoi(endStr)
		if err != nil {
			return r, &SyntaxError{Token: token, Clause: clause, Reason: fmt.Sprintf("bad end line %q", endStr)}
		}
		r.End = end
		r.HasEnd = true
	}
	return r, nil
}

// loadGitIgnore compiles dir/.gitignore if it exists. Matching failures are
// treated as "no filter": ignore rules must never turn an encode into an
// error.
func loadGitIgnore(dir string) *ignore.GitIgnore {
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	gitIgnore, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gitIgnore
}

func matchesIgnore(filter *ignore.GitIgnore, baseDir, path string) bool {
	if baseDir == "" {
		baseDir = "."
	}
	rel, err := filepath.Rel(baseDir, path)
	if err != nil {
		rel = path
	}
	return filter.MatchesPath(filepath.ToSlash(rel))
}
