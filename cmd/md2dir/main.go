package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"dir2md"
)

var outputDir string
var overwriteMode string
var paste bool
var strict bool
var onUnclosed string
var assumeYes bool

var rootCmd = &cobra.Command{
	Use:   "md2dir [input-file]",
	Short: "md2dir extracts files from a markdown document of code blocks",
	Long: `md2dir scans a markdown document for fenced code blocks whose first
line is a path comment (as written by dir2md) and recreates the files under
the output directory. The document is read from the given file, from the
clipboard with --paste, or from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		document, interactive, err := readDocument(args)
		if err != nil {
			return err
		}

		decodeOpts := dir2md.DecodeOptions{}
		if strict {
			decodeOpts.OnUnrecognized = dir2md.UnrecognizedError
		}
		switch onUnclosed {
		case "omit-last-line":
			decodeOpts.OnUnclosed = dir2md.UnclosedOmitLastLine
		case "proceed":
			decodeOpts.OnUnclosed = dir2md.UnclosedProceed
		case "skip":
			decodeOpts.OnUnclosed = dir2md.UnclosedSkipBlock
		case "error":
			decodeOpts.OnUnclosed = dir2md.UnclosedError
		default:
			return fmt.Errorf("invalid --on-unclosed %q (expected omit-last-line, proceed, skip, or error)", onUnclosed)
		}

		files, err := dir2md.Decode(document, decodeOpts)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			if strict {
				return fmt.Errorf("no code blocks with path headers found in input")
			}
			fmt.Println("No code blocks with path headers found. Nothing to do.")
			return nil
		}

		saveOpts := dir2md.SaveOptions{DecodeOptions: decodeOpts}
		switch overwriteMode {
		case "true":
			saveOpts.Overwrite = dir2md.OverwriteAlways
		case "false":
			saveOpts.Overwrite = dir2md.OverwriteNever
		case "prompt":
			saveOpts.Overwrite = dir2md.OverwritePrompt
			if interactive {
				saveOpts.Prompt = func(path string) bool {
					return confirm(fmt.Sprintf("Overwrite %s? (y/n) ", path))
				}
			}
		default:
			return fmt.Errorf("invalid --overwrite %q (expected true, false, or prompt)", overwriteMode)
		}

		if !assumeYes && interactive {
			if !confirmPlan(files, outputDir) {
				fmt.Println("Aborted.")
				return nil
			}
		}

		result, err := dir2md.SaveFiles(files, outputDir, saveOpts)
		if err != nil {
			return err
		}
		for _, path := range result.Written {
			fmt.Printf("Wrote %s\n", path)
		}
		for _, path := range result.Skipped {
			fmt.Printf("Skipped %s (already exists)\n", path)
		}
		for _, failure := range result.Failed {
			fmt.Fprintf(os.Stderr, "Failed %s: %v\n", failure.Path, failure.Err)
		}
		if len(result.Failed) > 0 {
			return fmt.Errorf("%d of %d files could not be written", len(result.Failed), len(files))
		}
		return nil
	},
}

// readDocument resolves the input source. The second return reports whether
// stdin is still free for confirmation prompts.
func readDocument(args []string) (string, bool, error) {
	if paste && len(args) > 0 {
		return "", false, fmt.Errorf("cannot combine --paste with an input file")
	}
	if paste {
		content, err := clipboard.ReadAll()
		if err != nil {
			return "", false, fmt.Errorf("failed to read from clipboard: %w", err)
		}
		return content, true, nil
	}
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", false, fmt.Errorf("failed to read input file: %w", err)
		}
		return string(data), true, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", false, fmt.Errorf("failed to read from stdin: %w", err)
	}
	return string(data), false, nil
}

// confirmPlan lists what the save will touch and asks for a y/n.
func confirmPlan(files []dir2md.File, outputDir string) bool {
	newDirs, newFiles, existing := planSummary(files, outputDir)
	if len(newDirs) > 0 {
		fmt.Println("The following directories will be created:")
		for _, dir := range newDirs {
			fmt.Printf("  %s\n", dir)
		}
	}
	if len(newFiles) > 0 {
		fmt.Println("The following files will be created:")
		for _, path := range newFiles {
			fmt.Printf("  %s\n", path)
		}
	}
	if len(existing) > 0 {
		fmt.Println("The following files will be overwritten:")
		for _, path := range existing {
			fmt.Printf("  %s\n", path)
		}
	}
	return confirm("Continue? (y/n) ")
}

func planSummary(files []dir2md.File, outputDir string) (newDirs, newFiles, existing []string) {
	seenDirs := make(map[string]bool)
	for _, file := range files {
		target := filepath.Join(outputDir, filepath.FromSlash(file.Path))
		dir := filepath.Dir(target)
		if dir != "." && !seenDirs[dir] {
			seenDirs[dir] = true
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				newDirs = append(newDirs, dir)
			}
		}
		if _, err := os.Stat(target); err == nil {
			existing = append(existing, target)
		} else {
			newFiles = append(newFiles, target)
		}
	}
	sort.Strings(newDirs)
	return newDirs, newFiles, existing
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(strings.ToLower(response)) == "y"
}

func init() {
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "Directory to write extracted files under")
	rootCmd.Flags().StringVar(&overwriteMode, "overwrite", "true", "Whether existing files are overwritten: true, false, or prompt")
	rootCmd.Flags().BoolVar(&paste, "paste", false, "Read the markdown document from the system clipboard")
	rootCmd.Flags().BoolVar(&strict, "strict", false, "Fail on code blocks without a recognizable path header")
	rootCmd.Flags().StringVar(&onUnclosed, "on-unclosed", "omit-last-line", "Handling of an unterminated final fence: omit-last-line, proceed, skip, or error")
	rootCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
