package sync

import "github.com/deyanmihaylov/OverleafToGitLab/internal/overleaf"

// Session is the mutable state of one sync run. It is created by Run, mutated
// by each stage in sequence, and discarded at process exit — never persisted.
type Session struct {
	// Input is the raw project reference supplied by the user.
	Input string

	// Project is the resolved canonical identifier.
	Project overleaf.ProjectIdentifier

	// ParentDir is the directory under which the project is cloned.
	ParentDir string

	// Dir is the current local path of the project; it changes once when the
	// directory is renamed after title extraction.
	Dir string

	// DownloadSuccess is set once the clone completes.
	DownloadSuccess bool

	// RawTitle is the extracted \title{...} fragment, "" when none was found.
	RawTitle string

	// Title is the decoded plain-text title, falling back to the project key.
	Title string

	// KebabSlug and SnakeSlug are the two derived directory-safe titles.
	KebabSlug string
	SnakeSlug string

	// MirrorWebURL and MirrorSSHURL locate the created GitLab mirror.
	MirrorWebURL string
	MirrorSSHURL string
}
