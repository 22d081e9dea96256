package git

import "context"

// CommitResult is the outcome of a commit attempt. A repository with nothing
// staged is a modeled outcome, not an error, so re-running the pipeline never
// fails on an already-committed stage.
type CommitResult int

const (
	// Committed means a new commit was created.
	Committed CommitResult = iota

	// NothingToCommit means the working tree had no staged changes.
	NothingToCommit
)

// Client is the version-control collaborator contract. Every operation takes
// the repository directory explicitly; implementations must never change the
// process working directory.
type Client interface {
	// Clone clones url into dir.
	Clone(ctx context.Context, url, dir string) error

	// AddRemote adds a named remote pointing at url.
	AddRemote(ctx context.Context, dir, name, url string) error

	// AddPushURL appends url to the push URL list of the named remote.
	AddPushURL(ctx context.Context, dir, remote, url string) error

	// Push pushes to the named remote, or to the default when remote is "".
	Push(ctx context.Context, dir, remote string) error

	// Add stages a path.
	Add(ctx context.Context, dir, path string) error

	// Commit commits staged changes with the given message. An empty working
	// tree yields NothingToCommit rather than an error.
	Commit(ctx context.Context, dir, message string) (CommitResult, error)

	// Remotes lists the configured remote names.
	Remotes(ctx context.Context, dir string) ([]string, error)

	// PushURLs lists the configured push URLs of the named remote.
	PushURLs(ctx context.Context, dir, remote string) ([]string, error)
}
