package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dir2md"
	"dir2md/internal/config"
)

var noGlob bool
var onMissing string
var baseDir string
var language string
var pathLocation string
var includeGitIgnore bool
var withTokens bool
var tokenModel string
var printFlag bool
var copyFlag bool
var sshCopyFlag bool
var setDefaultOutput string

var rootCmd = &cobra.Command{
	Use:   "dir2md [files...]",
	Short: "dir2md turns source files into a single markdown document",
	Long: `dir2md reads the given files (glob patterns allowed) and prints one
fenced code block per file, each labelled with the file's relative path, so
an entire change set can be pasted into a chat as a single document.

A path token may carry a trailing line-range suffix:

  main.go[:40]        first 40 lines
  main.go[40:]        line 40 to the end
  main.go[-20:]       last 20 lines
  main.go[:5 80:]     lines 1-5, an ellipsis, then 80 to the end
  main.go[:5...]      lines 1-5 followed by an ellipsis
  main.go[..]         the path with its content fully elided`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if setDefaultOutput != "" {
			path, err := config.DefaultPath()
			if err != nil {
				return fmt.Errorf("failed to locate config file: %w", err)
			}
			if err := config.WriteOutputMode(path, setDefaultOutput); err != nil {
				return err
			}
			fmt.Printf("Default output mode set to %s in %s\n", setDefaultOutput, path)
			return nil
		}
		if len(args) == 0 {
			return fmt.Errorf("requires at least one file argument")
		}

		defaults, err := config.Read()
		if err != nil {
			return err
		}
		mode, err := resolveOutputMode(defaults.Output, printFlag, copyFlag, sshCopyFlag)
		if err != nil {
			return err
		}

		opts := dir2md.EncodeOptions{
			NoGlob:         noGlob,
			BaseDir:        baseDir,
			Language:       language,
			IncludeIgnored: includeGitIgnore,
			TokenCounts:    withTokens,
			TokenModel:     tokenModel,
		}
		if opts.TokenModel == "" {
			opts.TokenModel = defaults.Model
		}
		switch onMissing {
		case "error":
			opts.OnMissing = dir2md.OnMissingError
		case "ignore":
			opts.OnMissing = dir2md.OnMissingIgnore
		default:
			return fmt.Errorf("invalid --on-missing %q (expected error or ignore)", onMissing)
		}
		switch pathLocation {
		case "below":
			opts.PathLocation = dir2md.PathBelow
		case "above":
			opts.PathLocation = dir2md.PathAbove
		default:
			return fmt.Errorf("invalid --path-location %q (expected below or above)", pathLocation)
		}

		document, err := dir2md.Encode(args, opts)
		if err != nil {
			return err
		}
		return emitOutput(document, mode)
	},
}

func init() {
	rootCmd.Flags().BoolVar(&noGlob, "no-glob", false, "Treat file arguments as literal paths, not glob patterns")
	rootCmd.Flags().StringVar(&onMissing, "on-missing", "error", "What to do when a file is missing: error or ignore")
	rootCmd.Flags().StringVar(&baseDir, "base-dir", "", "Directory used to relativize paths in block headers")
	rootCmd.Flags().StringVar(&language, "language", "", "Override the fence language tag for all blocks")
	rootCmd.Flags().StringVar(&pathLocation, "path-location", "below", "Where the path annotation goes: below (inside the fence) or above")
	rootCmd.Flags().BoolVarP(&includeGitIgnore, "include-gitignore", "i", false, "Include glob matches that .gitignore would exclude")
	rootCmd.Flags().BoolVar(&withTokens, "tokens", false, "Emit a tokens=N attribute on every fence")
	rootCmd.Flags().StringVar(&tokenModel, "model", "", "Tokenizer model for --tokens (default gpt-4o)")
	rootCmd.Flags().BoolVarP(&printFlag, "print", "p", false, "Print the document to stdout (default)")
	rootCmd.Flags().BoolVarP(&copyFlag, "copy", "c", false, "Copy the document to the system clipboard")
	rootCmd.Flags().BoolVar(&sshCopyFlag, "ssh-copy", false, "Copy via an OSC 52 escape sequence (works over SSH)")
	rootCmd.Flags().StringVar(&setDefaultOutput, "set-default-output", "", "Persist the default output mode (print, copy, or ssh-copy) and exit")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
