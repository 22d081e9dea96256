package state

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/deyanmihaylov/OverleafToGitLab/internal/constants"
	"github.com/deyanmihaylov/OverleafToGitLab/internal/git"
)

// Timeout for state detection commands
const stateCheckTimeout = 10 * time.Second

// SyncState represents how far a local project tree has been synced.
type SyncState struct {
	Dir                string
	DirExists          bool
	IsGitRepo          bool
	Remotes            []string
	MirrorLinked       bool
	DualPushConfigured bool
	CIPresent          bool
	ReadmePresent      bool
}

// Detector checks the sync state of a project directory. It is read-only and
// never mutates the tree.
type Detector struct {
	dir string
	git git.Client
}

// NewDetector creates a state detector for the given project directory.
func NewDetector(dir string, gitClient git.Client) *Detector {
	return &Detector{dir: dir, git: gitClient}
}

// Detect checks all aspects of the project's sync state.
func (d *Detector) Detect() *SyncState {
	state := &SyncState{Dir: d.dir}

	info, err := os.Stat(d.dir)
	if err != nil || !info.IsDir() {
		return state
	}
	state.DirExists = true

	if fi, err := os.Stat(filepath.Join(d.dir, ".git")); err != nil || !fi.IsDir() {
		return state
	}
	state.IsGitRepo = true

	ctx, cancel := context.WithTimeout(context.Background(), stateCheckTimeout)
	defer cancel()

	if remotes, err := d.git.Remotes(ctx, d.dir); err == nil {
		state.Remotes = remotes
		for _, remote := range remotes {
			if remote == constants.MirrorRemoteName {
				state.MirrorLinked = true
			}
		}
	}

	// Dual-push means origin fans out to at least two push URLs.
	if urls, err := d.git.PushURLs(ctx, d.dir, constants.OriginRemoteName); err == nil {
		state.DualPushConfigured = len(urls) >= 2
	}

	if _, err := os.Stat(filepath.Join(d.dir, constants.CIFileName)); err == nil {
		state.CIPresent = true
	}
	if _, err := os.Stat(filepath.Join(d.dir, constants.ReadmeFileName)); err == nil {
		state.ReadmePresent = true
	}

	return state
}
