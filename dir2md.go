// Package dir2md converts a set of source files into a single markdown
// document of fenced code blocks, one per file with its path carried in a
// header comment, and converts such documents back into files.
package dir2md

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"dir2md/internal/markdown"
	"dir2md/internal/selector"
	"dir2md/internal/tokencount"
	"dir2md/internal/truncate"
)

// Ellipsis is the literal line standing in for elided content.
const Ellipsis = truncate.Ellipsis

// Error types surfaced by this package. Aliased so embedders can errors.As
// against them without reaching into internal packages.
type (
	// SyntaxError reports a malformed truncation suffix on a path token.
	SyntaxError = selector.SyntaxError
	// RangeError reports line-range bounds invalid for the file they were
	// applied to.
	RangeError = truncate.RangeError
	// ParseError reports a strict-mode decode failure.
	ParseError = markdown.ParseError
)

// MissingFileError reports a literal target whose file does not exist under
// the error missing-policy. It unwraps to fs.ErrNotExist.
type MissingFileError struct {
	Path string
	Err  error
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("file %s not found", e.Path)
}

func (e *MissingFileError) Unwrap() error { return e.Err }

// MissingPolicy decides what Encode does with a literal path that does not
// exist.
type MissingPolicy = selector.MissingPolicy

const (
	OnMissingError  = selector.MissingError
	OnMissingIgnore = selector.MissingIgnore
)

// PathLocation selects where Encode puts the path annotation.
type PathLocation = markdown.PathLocation

const (
	PathBelow = markdown.PathBelow
	PathAbove = markdown.PathAbove
)

// EncodeOptions configure Encode. The zero value means: glob expansion on,
// missing files are errors, paths relative to the working directory, fence
// language inferred per file, path header inside the fence, no token counts.
type EncodeOptions struct {
	// NoGlob treats every token as a literal path.
	NoGlob bool
	// OnMissing is the policy for literal paths that do not exist.
	OnMissing MissingPolicy
	// BaseDir, when set, is used to relativize paths in block headers and
	// is where the .gitignore filter for glob matches is looked up.
	BaseDir string
	// Language overrides the inferred fence language tag for all blocks.
	Language string
	// PathLocation places the path header below (inside) or above the
	// fence.
	PathLocation PathLocation
	// IncludeIgnored disables the .gitignore filter on glob matches.
	IncludeIgnored bool
	// TokenCounts emits a tokens=N attribute on every fence info line.
	TokenCounts bool
	// TokenModel selects the tokenizer for TokenCounts; empty means
	// gpt-4o.
	TokenModel string
}

// Encode expands tokens into targets, reads and truncates each file, and
// returns the assembled markdown document. It never returns a partial
// document: any syntax error, range error, or missing file under the error
// policy fails the whole call.
func Encode(tokens []string, opts EncodeOptions) (string, error) {
	targets, err := selector.Expand(tokens, selector.Options{
		NoGlob:         opts.NoGlob,
		OnMissing:      opts.OnMissing,
		BaseDir:        opts.BaseDir,
		IncludeIgnored: opts.IncludeIgnored,
	})
	if err != nil {
		return "", err
	}

	var countTokens func(string) int
	if opts.TokenCounts {
		counter, err := tokencount.New(opts.TokenModel)
		if err != nil {
			return "", err
		}
		countTokens = counter.Estimate
	}

	blocks := make([]markdown.Block, 0, len(targets))
	for _, target := range targets {
		data, err := os.ReadFile(target.Path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				if target.MissingPolicy == selector.MissingIgnore {
					continue
				}
				return "", &MissingFileError{Path: target.Path, Err: err}
			}
			return "", fmt.Errorf("failed to read file %s: %w", target.Path, err)
		}
		lines, err := truncate.Apply(splitLines(string(data)), target.Ranges)
		if err != nil {
			return "", fmt.Errorf("%s: %w", target.Path, err)
		}
		blocks = append(blocks, markdown.Block{
			Path:  headerPath(target.Path, opts.BaseDir),
			Lines: lines,
		})
	}

	return markdown.Render(blocks, markdown.RenderOptions{
		Language:     opts.Language,
		PathLocation: opts.PathLocation,
		CountTokens:  countTokens,
	}), nil
}

// splitLines breaks file content into lines, normalizing a missing final
// newline.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(content, "\n"), "\n")
}

// headerPath is the path written into a block header: relative to baseDir
// when that is set and contains the file, otherwise the path as given,
// always slash-separated.
func headerPath(path, baseDir string) string {
	if baseDir != "" {
		rel, err := filepath.Rel(baseDir, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(path)
}
