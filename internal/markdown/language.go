package markdown

import (
	"path/filepath"
	"strings"
)

// languageByExt maps file extensions to fence language tags.
var languageByExt = map[string]string{
	".py":    "python",
	".rs":    "rust",
	".go":    "go",
	".js":    "javascript",
	".jsx":   "jsx",
	".ts":    "typescript",
	".tsx":   "tsx",
	".java":  "java",
	".c":     "c",
	".h":     "c",
	".cpp":   "cpp",
	".cc":    "cpp",
	".hpp":   "cpp",
	".cs":    "csharp",
	".rb":    "ruby",
	".php":   "php",
	".sh":    "bash",
	".bash":  "bash",
	".zsh":   "zsh",
	".fish":  "fish",
	".yaml":  "yaml",
	".yml":   "yaml",
	".json":  "json",
	".toml":  "toml",
	".md":    "markdown",
	".html":  "html",
	".css":   "css",
	".sql":   "sql",
	".hs":    "haskell",
	".kt":    "kotlin",
	".swift": "swift",
	".lua":   "lua",
	".pl":    "perl",
	".r":     "r",
	".scala": "scala",
	".zig":   "zig",
	".proto": "protobuf",
	".tf":    "hcl",
	".ex":    "elixir",
	".exs":   "elixir",
	".erl":   "erlang",
	".vim":   "vim",
}

// slashCommentLanguages use `//` as their single-line comment marker; every
// other language gets `#`, which doubles as a safe default for unknown tags.
var slashCommentLanguages = map[string]bool{
	"go":         true,
	"rust":       true,
	"c":          true,
	"cpp":        true,
	"csharp":     true,
	"java":       true,
	"javascript": true,
	"jsx":        true,
	"typescript": true,
	"tsx":        true,
	"kotlin":     true,
	"swift":      true,
	"scala":      true,
	"zig":        true,
	"php":        true,
	"protobuf":   true,
}

var dashCommentLanguages = map[string]bool{
	"sql":     true,
	"lua":     true,
	"haskell": true,
}

// InferLanguage guesses a fence language tag from the file extension.
// Unknown extensions yield an empty tag.
func InferLanguage(path string) string {
	return languageByExt[strings.ToLower(filepath.Ext(path))]
}

// CommentPrefix returns the single-line comment marker used for the path
// header inside a fence of the given language.
func CommentPrefix(language string) string {
	switch {
	case slashCommentLanguages[language]:
		return "//"
	case dashCommentLanguages[language]:
		return "--"
	default:
		return "#"
	}
}
