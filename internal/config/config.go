// Package config reads and writes the user's ~/.dir2md.yaml defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the user's home directory.
const FileName = ".dir2md.yaml"

const (
	OutputModePrint   = "print"
	OutputModeCopy    = "copy"
	OutputModeSSHCopy = "ssh-copy"
)

// NormalizeOutputMode canonicalizes an output mode, accepting common
// spellings.
func NormalizeOutputMode(mode string) (string, bool) {
	switch strings.TrimSpace(strings.ToLower(mode)) {
	case OutputModePrint:
		return OutputModePrint, true
	case OutputModeCopy:
		return OutputModeCopy, true
	case OutputModeSSHCopy, "sshcopy", "ssh", "osc52":
		return OutputModeSSHCopy, true
	default:
		return "", false
	}
}

// Defaults are the persisted user preferences. Zero values mean "not set".
type Defaults struct {
	// Output is the dir2md output mode: print, copy, or ssh-copy.
	Output string `yaml:"output,omitempty"`
	// Model is the tokenizer model for --tokens.
	Model string `yaml:"model,omitempty"`
}

// DefaultPath returns the config file path in the user's home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, FileName), nil
}

// ReadFile loads defaults from path. A missing or empty file yields zero
// defaults, not an error.
func ReadFile(path string) (Defaults, error) {
	var defaults Defaults
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaults, nil
		}
		return defaults, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return defaults, nil
	}
	if err := yaml.Unmarshal(data, &defaults); err != nil {
		return defaults, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if defaults.Output != "" {
		normalized, ok := NormalizeOutputMode(defaults.Output)
		if !ok {
			return Defaults{}, fmt.Errorf("invalid output mode %q in %s (expected print, copy, or ssh-copy)", defaults.Output, path)
		}
		defaults.Output = normalized
	}
	return defaults, nil
}

// Read loads defaults from the home-directory config file.
func Read() (Defaults, error) {
	path, err := DefaultPath()
	if err != nil {
		return Defaults{}, err
	}
	return ReadFile(path)
}

// WriteOutputMode persists mode as the default output mode at path, keeping
// any unrelated keys already in the file.
func WriteOutputMode(path, mode string) error {
	normalized, ok := NormalizeOutputMode(mode)
	if !ok {
		return fmt.Errorf("invalid output mode %q (expected print, copy, or ssh-copy)", mode)
	}

	var cfg map[string]any
	data, err := os.ReadFile(path)
	if err == nil {
		if len(strings.TrimSpace(string(data))) > 0 {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return fmt.Errorf("failed to parse %s: %w", path, err)
			}
		}
	} else if !os.IsNotExist(err) {
		return err
	}
	if cfg == nil {
		cfg = make(map[string]any)
	}
	cfg["output"] = normalized

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if len(out) == 0 || out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	return os.WriteFile(path, out, perm)
}
