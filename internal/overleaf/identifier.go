package overleaf

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/deyanmihaylov/OverleafToGitLab/internal/constants"
)

// Project keys are opaque alphanumeric tokens (in practice hex-like).
var keyRegex = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// ProjectIdentifier is the canonical form of an Overleaf project reference.
// All three fields are mutually derivable: the URLs are the key joined with
// the fixed Overleaf prefixes.
type ProjectIdentifier struct {
	WebURL string
	GitURL string
	Key    string
}

// InvalidIdentifierError reports an input that cannot be interpreted as an
// Overleaf project reference.
type InvalidIdentifierError struct {
	Input string
}

func (e *InvalidIdentifierError) Error() string {
	if e.Input == "" {
		return "empty Overleaf identifier"
	}
	return fmt.Sprintf("unrecognised Overleaf identifier: %q", e.Input)
}

// Resolve normalizes a user-supplied project reference into a
// ProjectIdentifier. The input may be an Overleaf web URL
// (https://www.overleaf.com/project/<key>), an Overleaf git URL
// (https://git.overleaf.com/<key>), or a bare project key.
//
// Pure function; no side effects.
func Resolve(input string) (ProjectIdentifier, error) {
	if input == "" {
		return ProjectIdentifier{}, &InvalidIdentifierError{Input: input}
	}

	value := strings.TrimSpace(input)
	value = strings.TrimRight(value, "/")

	var key string
	switch {
	case strings.HasPrefix(value, constants.OverleafWebPrefix):
		key = strings.TrimPrefix(value, constants.OverleafWebPrefix)
	case strings.HasPrefix(value, constants.OverleafGitPrefix):
		key = strings.TrimPrefix(value, constants.OverleafGitPrefix)
	default:
		key = value
	}

	if !keyRegex.MatchString(key) {
		return ProjectIdentifier{}, &InvalidIdentifierError{Input: input}
	}

	return ProjectIdentifier{
		WebURL: constants.OverleafWebPrefix + key,
		GitURL: constants.OverleafGitPrefix + key,
		Key:    key,
	}, nil
}
