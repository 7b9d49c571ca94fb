package markdown

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// UnrecognizedPolicy decides what happens to a fenced block whose path
// cannot be determined.
type UnrecognizedPolicy int

const (
	// UnrecognizedSkip drops the block, tolerating prose code blocks in
	// mixed documents.
	UnrecognizedSkip UnrecognizedPolicy = iota
	UnrecognizedError
)

// UnclosedPolicy decides what happens when the final fence runs to EOF
// without a closing marker, which usually means the document was cut off.
type UnclosedPolicy int

const (
	// UnclosedOmitLastLine keeps the block but drops its last line, on the
	// assumption the cut happened mid-line.
	UnclosedOmitLastLine UnclosedPolicy = iota
	UnclosedProceed
	UnclosedSkipBlock
	UnclosedError
)

// ScanOptions control decoding tolerance.
type ScanOptions struct {
	OnUnrecognized UnrecognizedPolicy
	OnUnclosed     UnclosedPolicy
}

// ParseError reports a strict-mode decode failure.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	return e.Reason
}

// Scan walks the document's markdown AST and returns one Block per fenced
// code block with a recognizable path, in document order.
func Scan(document string, opts ScanOptions) ([]Block, error) {
	source := []byte(document)
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	type fence struct {
		block Block
		start int // byte offset of the first content line, for diagnostics
		end   int // byte offset just past the last content line, -1 if unknown
	}
	var fences []fence

	walker := func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fencedCodeBlock, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		f := fence{start: -1, end: -1}
		if fencedCodeBlock.Info != nil {
			info := string(fencedCodeBlock.Info.Text(source))
			if fields := strings.Fields(info); len(fields) > 0 {
				// Attributes like tokens=N follow the language tag.
				f.block.Language = fields[0]
			}
			seg := fencedCodeBlock.Info.Segment
			f.start, f.end = seg.Stop, seg.Stop
		}

		segments := fencedCodeBlock.Lines()
		lines := make([]string, 0, segments.Len())
		for i := 0; i < segments.Len(); i++ {
			seg := segments.At(i)
			lines = append(lines, strings.TrimRight(string(seg.Value(source)), "\r\n"))
			if i == 0 {
				f.start = seg.Start
			}
			f.end = seg.Stop
		}

		if len(lines) > 0 {
			if path := extractHeaderPath(lines[0]); path != "" {
				f.block.Path = path
				lines = lines[1:]
			}
		}
		if f.block.Path == "" {
			if p, ok := fencedCodeBlock.PreviousSibling().(*ast.Paragraph); ok {
				if pl := p.Lines(); pl.Len() > 0 {
					seg := pl.At(pl.Len() - 1)
					f.block.Path = pathFromHint(string(seg.Value(source)))
				}
			}
		}
		f.block.Lines = lines

		fences = append(fences, f)
		return ast.WalkSkipChildren, nil
	}
	if err := ast.Walk(root, walker); err != nil {
		return nil, err
	}

	// goldmark does not report fence termination, but an unclosed fence
	// always consumes the rest of the document: the final block is unclosed
	// iff nothing but whitespace follows its last content line.
	if len(fences) > 0 {
		last := fences[len(fences)-1]
		if last.end >= 0 && strings.TrimSpace(document[last.end:]) == "" {
			switch opts.OnUnclosed {
			case UnclosedOmitLastLine:
				if n := len(last.block.Lines); n > 0 {
					last.block.Lines = last.block.Lines[:n-1]
					fences[len(fences)-1] = last
				}
			case UnclosedSkipBlock:
				fences = fences[:len(fences)-1]
			case UnclosedError:
				return nil, &ParseError{Line: lineAt(document, last.start), Reason: "unterminated fence"}
			case UnclosedProceed:
			}
		}
	}

	blocks := make([]Block, 0, len(fences))
	for _, f := range fences {
		if f.block.Path == "" {
			if opts.OnUnrecognized == UnrecognizedError {
				return nil, &ParseError{Line: lineAt(document, f.start), Reason: "code block has no recognizable path header"}
			}
			continue
		}
		blocks = append(blocks, f.block)
	}
	return blocks, nil
}

func lineAt(document string, offset int) int {
	if offset < 0 || offset > len(document) {
		return 0
	}
	return 1 + strings.Count(document[:offset], "\n")
}
