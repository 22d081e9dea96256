package latex

import (
	"regexp"
	"strings"
)

// TextDecoder converts a raw LaTeX fragment into plain text. The title
// pipeline only needs titles rendered as readable text; anything beyond that
// is this collaborator's problem.
type TextDecoder interface {
	Decode(fragment string) string
}

// Pre-compiled patterns for the plain decoder.
var (
	// A control sequence such as \textbf or \emph*, not including its
	// arguments. Single non-letter control symbols are handled separately.
	controlSeqRegex = regexp.MustCompile(`\\[a-zA-Z]+\*?`)

	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// Escaped special characters and their literal replacements. Escaped braces
// map to placeholders so the grouping-brace strip below cannot eat them.
const (
	openBraceMark  = "\x00"
	closeBraceMark = "\x01"
)

var escapedSpecials = strings.NewReplacer(
	`\%`, "%",
	`\&`, "&",
	`\#`, "#",
	`\_`, "_",
	`\$`, "$",
	`\{`, openBraceMark,
	`\}`, closeBraceMark,
	`\\`, " ",
	"~", " ",
)

var braceMarks = strings.NewReplacer(openBraceMark, "{", closeBraceMark, "}")

// PlainDecoder is a minimal LaTeX-to-text decoder. It handles the constructs
// that realistically appear inside \title{...}: escaped specials, styling
// commands wrapping brace groups, inline math dollars, and grouping braces.
// It is intentionally not a LaTeX engine.
type PlainDecoder struct{}

// NewPlainDecoder creates a new plain-text decoder.
func NewPlainDecoder() *PlainDecoder {
	return &PlainDecoder{}
}

func (d *PlainDecoder) Decode(fragment string) string {
	s := escapedSpecials.Replace(fragment)

	// Drop command names; their brace-group text survives once the braces
	// are stripped below (\textbf{Bar} -> {Bar} -> Bar).
	s = controlSeqRegex.ReplaceAllString(s, "")

	s = strings.Map(func(r rune) rune {
		switch r {
		case '{', '}', '$':
			return -1
		}
		return r
	}, s)

	s = braceMarks.Replace(s)
	s = whitespaceRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
