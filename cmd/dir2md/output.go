package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"dir2md/internal/config"
)

func resolveOutputMode(defaultMode string, printFlag, copyFlag, sshFlag bool) (string, error) {
	selected := 0
	if printFlag {
		selected++
	}
	if copyFlag {
		selected++
	}
	if sshFlag {
		selected++
	}
	if selected > 1 {
		return "", fmt.Errorf("only one of --print, --copy, or --ssh-copy may be set")
	}
	switch {
	case printFlag:
		return config.OutputModePrint, nil
	case copyFlag:
		return config.OutputModeCopy, nil
	case sshFlag:
		return config.OutputModeSSHCopy, nil
	case defaultMode != "":
		return defaultMode, nil
	default:
		return config.OutputModePrint, nil
	}
}

func emitOutput(document, mode string) error {
	switch mode {
	case config.OutputModeCopy:
		if err := clipboard.WriteAll(document); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		fmt.Fprintln(os.Stderr, "Copied to clipboard")
		return nil
	case config.OutputModeSSHCopy:
		if _, err := os.Stdout.WriteString(osc52Sequence(document)); err != nil {
			return fmt.Errorf("failed to write OSC 52 sequence: %w", err)
		}
		fmt.Fprintln(os.Stderr, "Copied via OSC 52")
		return nil
	default:
		fmt.Print(document)
		return nil
	}
}

// osc52Sequence wraps data in the OSC 52 clipboard escape, with the extra
// passthrough framing tmux and screen require.
func osc52Sequence(data string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(data))
	seq := fmt.Sprintf("\x1b]52;c;%s\x07", encoded)
	if os.Getenv("TMUX") != "" {
		return "\x1bPtmux;" + seq + "\x1b\\"
	}
	if strings.HasPrefix(os.Getenv("TERM"), "screen") {
		return "\x1bP" + seq + "\x1b\\"
	}
	return seq
}
