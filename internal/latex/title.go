package latex

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/deyanmihaylov/OverleafToGitLab/internal/constants"
)

// titleToken marks the start of the LaTeX title command.
const titleToken = `\title`

// ParseError reports structurally invalid LaTeX around a title command,
// such as unbalanced braces or a missing brace group.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "latex parse error: " + e.Reason
}

// ExtractProjectTitle extracts the first \title{...} command from the LaTeX
// sources in dir and returns it as a raw fragment including the braces.
//
// If main.tex exists it is the only file scanned. Otherwise every *.tex file
// in dir is scanned in lexicographic filename order and the first non-empty
// fragment wins. A project without any title command returns "" with no
// error; structural errors (unreadable files, unbalanced braces) are
// reported.
func ExtractProjectTitle(dir string) (string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("failed to stat project directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", dir)
	}

	mainPath := filepath.Join(dir, constants.MainTeXFile)
	if fi, err := os.Stat(mainPath); err == nil && !fi.IsDir() {
		return ExtractTitleCommand(mainPath)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read project directory: %w", err)
	}

	var texFiles []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), constants.TeXExtension) {
			texFiles = append(texFiles, entry.Name())
		}
	}
	sort.Strings(texFiles)

	for _, name := range texFiles {
		fragment, err := ExtractTitleCommand(filepath.Join(dir, name))
		if err != nil {
			return "", err
		}
		if fragment != "" {
			return fragment, nil
		}
	}

	return "", nil
}

// ExtractTitleCommand extracts the first \title{...} command from a single
// TeX file, ignoring comments. Returns "" when the file has no title command.
func ExtractTitleCommand(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open TeX file: %w", err)
	}
	defer f.Close()

	// Comments must be stripped per physical line, before joining, so a
	// backslash at the end of one line cannot escape a % on the next.
	var parts []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := StripComment(scanner.Text())
		line = strings.TrimSpace(line)
		if line != "" {
			parts = append(parts, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read TeX file: %w", err)
	}

	// Join with a space so tokens never concatenate across line boundaries.
	buf := strings.Join(parts, " ")
	loc := strings.Index(buf, titleToken)
	if loc < 0 {
		return "", nil
	}

	return ExtractFirstCommand(buf[loc:])
}

// StripComment removes the comment portion of one line of TeX source. A
// comment begins at the first % not escaped by a preceding backslash; a % at
// column 0 comments out the whole line. \% is a literal percent sign.
func StripComment(line string) string {
	if !strings.Contains(line, "%") {
		return line
	}

	for i := 0; i < len(line); i++ {
		if line[i] != '%' {
			continue
		}
		if i == 0 {
			return ""
		}
		if line[i-1] == '\\' {
			continue
		}
		return line[:i]
	}

	return line
}

// ExtractFirstCommand returns the LaTeX command starting at the beginning of
// text, through the closing brace matching the first unescaped opening brace.
//
//	ExtractFirstCommand(`\title{A {nested} title} more`)
//	  -> `\title{A {nested} title}`
//
// Escaped braces (\{ and \}) do not affect depth counting.
func ExtractFirstCommand(text string) (string, error) {
	if text == "" {
		return "", &ParseError{Reason: "empty command text"}
	}

	if !strings.Contains(text, "{") {
		return "", &ParseError{Reason: "no '{' found after command token"}
	}

	depth := 0
	for i := 0; i < len(text); i++ {
		escaped := i > 0 && text[i-1] == '\\'
		switch text[i] {
		case '{':
			if !escaped {
				depth++
			}
		case '}':
			if !escaped {
				depth--
				if depth == 0 {
					return text[:i+1], nil
				}
			}
		}
	}

	return "", &ParseError{Reason: "unbalanced braces in command"}
}

// CommandArgument returns the contents of the outermost brace group of a
// command fragment, e.g. `\title{My Title}` -> "My Title". An empty fragment
// returns "".
func CommandArgument(fragment string) (string, error) {
	if fragment == "" {
		return "", nil
	}

	s := strings.TrimSpace(fragment)
	lb := strings.Index(s, "{")
	rb := strings.LastIndex(s, "}")
	if lb < 0 || rb < 0 || rb <= lb {
		return "", &ParseError{Reason: fmt.Sprintf("malformed command: %q", fragment)}
	}

	return s[lb+1 : rb], nil
}
