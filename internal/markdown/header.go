package markdown

import "strings"

// headerMatcher extracts a file path from a candidate header line, returning
// "" when the line does not match. Matchers are tried in order, first match
// wins; extend the list to teach the decoder new header shapes without
// touching the scan loop.
type headerMatcher func(line string) string

var headerMatchers = []headerMatcher{
	matchCommentHeader,
	matchBarePath,
}

// extractHeaderPath runs the matcher list over the first line inside a
// fence.
func extractHeaderPath(line string) string {
	for _, match := range headerMatchers {
		if path := match(line); path != "" {
			return path
		}
	}
	return ""
}

var commentMarkers = []string{"//", "#", "--", ";", "%"}

// matchCommentHeader strips a leading single-line comment marker of any
// common style and accepts the remainder when it looks like a path.
func matchCommentHeader(line string) string {
	trimmed := strings.TrimSpace(line)
	if rest, ok := strings.CutPrefix(trimmed, "<!--"); ok {
		rest = strings.TrimSuffix(strings.TrimSpace(rest), "-->")
		return validPath(strings.TrimSpace(rest))
	}
	for _, marker := range commentMarkers {
		rest, ok := strings.CutPrefix(trimmed, marker)
		if !ok {
			continue
		}
		return validPath(strings.TrimSpace(rest))
	}
	return ""
}

// matchBarePath accepts an uncommented path line, as written by tools that
// skip the comment marker for languages without one. It is stricter than the
// comment form: the token must contain a path separator or an extension dot.
func matchBarePath(line string) string {
	trimmed := strings.TrimSpace(line)
	if !strings.ContainsAny(trimmed, "/.") {
		return ""
	}
	if strings.HasPrefix(trimmed, "-") {
		return ""
	}
	return validPath(trimmed)
}

// validPath filters out remainders that are clearly prose or code rather
// than a file path: internal whitespace, quoting, brackets, shebang lines.
func validPath(s string) string {
	if s == "" || len(s) > 512 {
		return ""
	}
	if strings.ContainsAny(s, " \t`\"'(){}<>|=") {
		return ""
	}
	if strings.HasPrefix(s, "!") {
		return ""
	}
	return s
}

// pathFromHint pulls a path out of the last raw line of the paragraph
// preceding a fence, with any backtick quoting stripped.
func pathFromHint(line string) string {
	trimmed := strings.Trim(strings.TrimSpace(strings.TrimRight(line, "\r\n")), "`")
	return matchBarePath(trimmed)
}
