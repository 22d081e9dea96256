package terminal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/deyanmihaylov/OverleafToGitLab/internal/constants"
)

// SecureToken wraps an access token with the ability to clear it from memory.
type SecureToken struct {
	data []byte
}

// String returns the token as a string.
func (s *SecureToken) String() string {
	if s.data == nil {
		return ""
	}
	return string(s.data)
}

// Clear zeros out the token data in memory.
// Should be called when the token is no longer needed.
func (s *SecureToken) Clear() {
	if s.data != nil {
		for i := range s.data {
			s.data[i] = 0
		}
		s.data = nil
	}
}

// Len returns the length of the token.
func (s *SecureToken) Len() int {
	return len(s.data)
}

// IsTerminal returns true if stdin is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(syscall.Stdin))
}

// ReadTokenSecure prompts for a token without echoing input.
func ReadTokenSecure(prompt string) (*SecureToken, error) {
	if !IsTerminal() {
		return nil, fmt.Errorf("cannot read token: not a terminal")
	}

	fmt.Print(prompt)
	token, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // newline after token entry
	if err != nil {
		return nil, fmt.Errorf("failed to read token: %w", err)
	}

	return &SecureToken{data: token}, nil
}

// ReadTokenFromEnvSecure reads the token from the GITLAB_OVERLEAF environment
// variable. Returns nil if not set.
func ReadTokenFromEnvSecure() *SecureToken {
	env := os.Getenv(constants.TokenEnvVar)
	if env == "" {
		return nil
	}
	return &SecureToken{data: []byte(env)}
}

// ReadTokenFromFileSecure reads the token from a secret file.
// Returns nil if the file does not exist or is empty.
func ReadTokenFromFileSecure(path string) *SecureToken {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return nil
	}
	return &SecureToken{data: []byte(trimmed)}
}

// ResolveTokenSecure attempts to read the GitLab access token from multiple
// sources in order:
//  1. GITLAB_OVERLEAF environment variable
//  2. secret.txt in dir
//  3. Interactive masked terminal prompt
//
// The resolved token is returned to the caller rather than cached in the
// process environment; the caller must call Clear() when done.
func ResolveTokenSecure(dir string) (*SecureToken, error) {
	if token := ReadTokenFromEnvSecure(); token != nil {
		return token, nil
	}

	if token := ReadTokenFromFileSecure(filepath.Join(dir, constants.SecretFileName)); token != nil {
		return token, nil
	}

	return ReadTokenSecure("Enter GitLab access token: ")
}
