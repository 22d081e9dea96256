// Package slug derives filesystem-safe identifiers from free text, in two
// separator styles. Unlike URL slugs, casing is preserved by default so a
// manuscript title stays recognizable as a directory name.
package slug

import (
	"fmt"
	"regexp"
	"strings"
)

// Style selects the separator used between words.
type Style string

const (
	// Kebab joins words with hyphens: "A-Study-of-Planck-Results".
	Kebab Style = "kebab"

	// Snake joins words with underscores: "A_Study_of_Planck_Results".
	Snake Style = "snake"
)

// Options control optional slug transformations.
type Options struct {
	// Lowercase lowercases the final slug.
	Lowercase bool

	// ASCIIOnly strips non-ASCII runes for maximum filesystem portability.
	ASCIIOnly bool
}

// UnknownStyleError reports an unrecognized slug style.
type UnknownStyleError struct {
	Style Style
}

func (e *UnknownStyleError) Error() string {
	return fmt.Sprintf("unknown slug style %q: expected %q or %q", string(e.Style), Kebab, Snake)
}

// Pre-compiled patterns (compiled once at package init).
var (
	// Everything that is not a letter, digit, underscore, whitespace, or
	// hyphen is punctuation to be removed.
	punctRegex = regexp.MustCompile(`[^\p{L}\p{N}_\s-]+`)

	whitespaceRegex    = regexp.MustCompile(`\s+`)
	hyphenRunRegex     = regexp.MustCompile(`-{2,}`)
	underscoreRunRegex = regexp.MustCompile(`_{2,}`)
)

// Slugify converts text into a slug in the given style with default options
// (case preserved, unicode allowed). Empty or whitespace-only input yields ""
// with no error. The transformation is idempotent per style.
func Slugify(text string, style Style) (string, error) {
	return SlugifyWithOptions(text, style, Options{})
}

// SlugifyWithOptions converts text into a slug in the given style.
func SlugifyWithOptions(text string, style Style, opts Options) (string, error) {
	var sep string
	var runRegex *regexp.Regexp
	switch style {
	case Kebab:
		sep, runRegex = "-", hyphenRunRegex
	case Snake:
		sep, runRegex = "_", underscoreRunRegex
	default:
		return "", &UnknownStyleError{Style: style}
	}

	s := strings.TrimSpace(text)
	if s == "" {
		return "", nil
	}

	if opts.ASCIIOnly {
		var b strings.Builder
		for _, r := range s {
			if r < 128 {
				b.WriteRune(r)
			}
		}
		s = b.String()
	}

	s = punctRegex.ReplaceAllString(s, "")
	s = strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
	if s == "" {
		return "", nil
	}

	s = strings.ReplaceAll(s, " ", sep)
	s = runRegex.ReplaceAllString(s, sep)
	s = strings.Trim(s, sep)

	if opts.Lowercase {
		s = strings.ToLower(s)
	}

	return s, nil
}
