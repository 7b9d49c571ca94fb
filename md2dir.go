package dir2md

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dir2md/internal/markdown"
)

// File is one decoded (path, content) pair.
type File struct {
	Path    string
	Content string
}

// UnrecognizedPolicy decides what Decode does with a fenced block that has
// no recognizable path.
type UnrecognizedPolicy = markdown.UnrecognizedPolicy

const (
	UnrecognizedSkip  = markdown.UnrecognizedSkip
	UnrecognizedError = markdown.UnrecognizedError
)

// UnclosedPolicy decides what Decode does when the final fence runs to EOF
// unterminated.
type UnclosedPolicy = markdown.UnclosedPolicy

const (
	UnclosedOmitLastLine = markdown.UnclosedOmitLastLine
	UnclosedProceed      = markdown.UnclosedProceed
	UnclosedSkipBlock    = markdown.UnclosedSkipBlock
	UnclosedError        = markdown.UnclosedError
)

// DecodeOptions configure Decode. The zero value is lenient: unrecognized
// blocks are skipped and an unterminated final fence loses its last line.
type DecodeOptions struct {
	OnUnrecognized UnrecognizedPolicy
	OnUnclosed     UnclosedPolicy
}

// Decode scans a markdown document and returns its file blocks in document
// order. Blocks sharing a path are collapsed to a single entry holding the
// last block's content. Ellipsis lines are preserved literally; truncated
// round-trips are intentionally lossy.
func Decode(document string, opts DecodeOptions) ([]File, error) {
	blocks, err := markdown.Scan(document, markdown.ScanOptions{
		OnUnrecognized: opts.OnUnrecognized,
		OnUnclosed:     opts.OnUnclosed,
	})
	if err != nil {
		return nil, err
	}

	var files []File
	index := make(map[string]int, len(blocks))
	for _, block := range blocks {
		content := joinLines(block.Lines)
		if i, seen := index[block.Path]; seen {
			files[i].Content = content
			continue
		}
		index[block.Path] = len(files)
		files = append(files, File{Path: block.Path, Content: content})
	}
	return files, nil
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// OverwritePolicy decides whether an existing file blocks its write.
type OverwritePolicy int

const (
	OverwriteAlways OverwritePolicy = iota
	OverwriteNever
	OverwritePrompt
)

// SaveOptions configure Save and SaveFiles.
type SaveOptions struct {
	DecodeOptions
	Overwrite OverwritePolicy
	// Prompt is consulted per existing file under OverwritePrompt; nil
	// declines.
	Prompt func(path string) bool
}

// WriteFailure is one file that could not be written.
type WriteFailure struct {
	Path string
	Err  error
}

// SaveResult reports what Save did. A failed write never discards the other
// files; it lands in Failed instead.
type SaveResult struct {
	Written []string
	Skipped []string
	Failed  []WriteFailure
}

// Save decodes document and writes the resulting files under outputDir.
// Only decode failures return an error; per-file write failures are
// collected in the result.
func Save(document, outputDir string, opts SaveOptions) (*SaveResult, error) {
	files, err := Decode(document, opts.DecodeOptions)
	if err != nil {
		return nil, err
	}
	return SaveFiles(files, outputDir, opts)
}

// SaveFiles writes already-decoded files under outputDir, creating
// intermediate directories as needed.
func SaveFiles(files []File, outputDir string, opts SaveOptions) (*SaveResult, error) {
	if outputDir == "" {
		outputDir = "."
	}
	result := &SaveResult{}
	for _, file := range files {
		target, err := resolveOutputPath(outputDir, file.Path)
		if err != nil {
			result.Failed = append(result.Failed, WriteFailure{Path: file.Path, Err: err})
			continue
		}
		if _, err := os.Stat(target); err == nil {
			switch opts.Overwrite {
			case OverwriteNever:
				result.Skipped = append(result.Skipped, target)
				continue
			case OverwritePrompt:
				if opts.Prompt == nil || !opts.Prompt(target) {
					result.Skipped = append(result.Skipped, target)
					continue
				}
			}
		}
		if dir := filepath.Dir(target); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				result.Failed = append(result.Failed, WriteFailure{Path: file.Path, Err: err})
				continue
			}
		}
		if err := os.WriteFile(target, []byte(file.Content), 0o644); err != nil {
			result.Failed = append(result.Failed, WriteFailure{Path: file.Path, Err: err})
			continue
		}
		result.Written = append(result.Written, target)
	}
	return result, nil
}

// resolveOutputPath joins a decoded path onto outputDir, rejecting paths
// that would land outside it.
func resolveOutputPath(outputDir, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty file path")
	}
	if filepath.IsAbs(path) {
		return "", fmt.Errorf("refusing absolute path %q", path)
	}
	clean := filepath.Clean(filepath.FromSlash(path))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes the output directory", path)
	}
	return filepath.Join(outputDir, clean), nil
}
