package constants

import "os"

// Overleaf locator prefixes. A project is addressable through the web UI,
// through its git endpoint, or by the bare project key; all three are
// derivable from one another.
const (
	// OverleafWebPrefix is the prefix of an Overleaf project web URL.
	OverleafWebPrefix = "https://www.overleaf.com/project/"

	// OverleafGitPrefix is the prefix of an Overleaf project git URL.
	OverleafGitPrefix = "https://git.overleaf.com/"
)

// LaTeX project constants
const (
	// MainTeXFile is the canonical entry file scanned first for \title{...}.
	MainTeXFile = "main.tex"

	// TeXExtension is the extension of LaTeX source files.
	TeXExtension = ".tex"
)

// Git-related constants
const (
	// OriginRemoteName is the remote created by the initial clone.
	OriginRemoteName = "origin"

	// MirrorRemoteName is the remote pointing at the GitLab mirror.
	MirrorRemoteName = "gitlab"

	// CICommitMessage is the commit message for the CI configuration.
	CICommitMessage = "Add GitLab CI"

	// ReadmeCommitMessage is the commit message for the README.
	ReadmeCommitMessage = "Add README.md"
)

// GitLab-related constants
const (
	// GitLabBaseURL is the GitLab instance hosting the mirrors.
	GitLabBaseURL = "https://gitlab.com"

	// TokenEnvVar is the environment variable holding the GitLab access token.
	TokenEnvVar = "GITLAB_OVERLEAF"

	// SecretFileName is the local fallback file holding the access token.
	SecretFileName = "secret.txt"

	// PagesURLPattern is the published-artifact URL for a synced project;
	// the single %s is the project key.
	PagesURLPattern = "https://deyanmihaylov.gitlab.io/%s/main.pdf"
)

// Generated artifact names
const (
	// CIFileName is the GitLab CI configuration file written into the tree.
	CIFileName = ".gitlab-ci.yml"

	// ReadmeFileName is the README file written into the tree.
	ReadmeFileName = "README.md"
)

// File permissions
const (
	// DirPermissions is the default permission mode for directories.
	DirPermissions os.FileMode = 0755

	// FilePermissions is the default permission mode for generated files.
	FilePermissions os.FileMode = 0644
)
