// Package markdown defines the fenced-block document format shared by the
// encoder and the decoder: one fenced code block per file, with the file's
// path carried in a comment header on the first fence line.
package markdown

import (
	"fmt"
	"strings"
)

// Block is one file's worth of fenced content. The encoder produces one per
// target; the decoder produces one per recognized fence.
type Block struct {
	Path     string
	Language string
	Lines    []string
}

// PathLocation selects where the encoder puts the path annotation.
type PathLocation int

const (
	// PathBelow writes the path as a comment on the first line inside the
	// fence.
	PathBelow PathLocation = iota
	// PathAbove writes the bare path as a paragraph above the fence.
	PathAbove
)

// RenderOptions control block serialization.
type RenderOptions struct {
	// Language overrides the per-file inferred fence tag.
	Language string
	// PathLocation defaults to PathBelow.
	PathLocation PathLocation
	// CountTokens, when set, is invoked per block and its result emitted as
	// a `tokens=N` attribute on the fence info line.
	CountTokens func(text string) int
}

// Render serializes blocks in order, separated by a blank line.
func Render(blocks []Block, opts RenderOptions) string {
	var b strings.Builder
	for i, block := range blocks {
		if i > 0 {
			b.WriteByte('\n')
		}
		renderBlock(&b, block, opts)
	}
	return b.String()
}

func renderBlock(b *strings.Builder, block Block, opts RenderOptions) {
	language := opts.Language
	if language == "" {
		language = block.Language
	}
	if language == "" {
		language = InferLanguage(block.Path)
	}

	ticks := fenceTicks(block.Lines)

	if opts.PathLocation == PathAbove {
		b.WriteString(block.Path)
		b.WriteString("\n\n")
	}

	b.WriteString(ticks)
	b.WriteString(language)
	if opts.CountTokens != nil {
		fmt.Fprintf(b, " tokens=%d", opts.CountTokens(strings.Join(block.Lines, "\n")))
	}
	b.WriteByte('\n')

	if opts.PathLocation == PathBelow {
		header := CommentPrefix(language) + " " + block.Path
		if len(block.Lines) == 0 || block.Lines[0] != header {
			b.WriteString(header)
			b.WriteByte('\n')
		}
	}

	for _, line := range block.Lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(ticks)
	b.WriteByte('\n')
}

// fenceTicks grows the fence until no content line could be mistaken for a
// closing fence.
func fenceTicks(lines []string) string {
	ticks := "```"
	for {
		collides := false
		for _, line := range lines {
			if strings.HasPrefix(strings.TrimLeft(line, " \t"), ticks) {
				collides = true
				break
			}
		}
		if !collides {
			return ticks
		}
		ticks += "`"
	}
}
