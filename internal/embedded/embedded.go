package embedded

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/deyanmihaylov/OverleafToGitLab/internal/constants"
)

// GitLabCI is the CI configuration template published into every synced
// project: compiles the manuscript with latexmk and deploys the PDF to Pages.
//
//go:embed gitlab-ci.yml
var GitLabCI []byte

// WriteCI writes the CI configuration into the project directory as
// .gitlab-ci.yml and returns the written path.
func WriteCI(dir string) (string, error) {
	path := filepath.Join(dir, constants.CIFileName)
	if err := os.WriteFile(path, GitLabCI, constants.FilePermissions); err != nil {
		return "", fmt.Errorf("failed to write CI configuration: %w", err)
	}
	return path, nil
}
