package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandError reports a failed git invocation, carrying the command's
// combined output for diagnosis.
type CommandError struct {
	Args   []string
	Output string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("git %s failed: %v", strings.Join(e.Args, " "), e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Phrases git prints when a commit has nothing staged. Checked against the
// combined output of a failed commit.
var nothingToCommitPhrases = []string{
	"nothing to commit",
	"nothing added to commit",
	"no changes added to commit",
}

// ExecClient implements Client using the git CLI.
type ExecClient struct{}

// NewClient creates a new git client.
func NewClient() *ExecClient {
	return &ExecClient{}
}

func (c *ExecClient) Clone(ctx context.Context, url, dir string) error {
	// Clone runs without a working directory; dir does not exist yet.
	return c.run(ctx, "", "clone", url, dir)
}

func (c *ExecClient) AddRemote(ctx context.Context, dir, name, url string) error {
	return c.run(ctx, dir, "remote", "add", name, url)
}

func (c *ExecClient) AddPushURL(ctx context.Context, dir, remote, url string) error {
	return c.run(ctx, dir, "remote", "set-url", remote, "--add", "--push", url)
}

func (c *ExecClient) Push(ctx context.Context, dir, remote string) error {
	if remote == "" {
		return c.run(ctx, dir, "push")
	}
	return c.run(ctx, dir, "push", remote)
}

func (c *ExecClient) Add(ctx context.Context, dir, path string) error {
	return c.run(ctx, dir, "add", path)
}

func (c *ExecClient) Commit(ctx context.Context, dir, message string) (CommitResult, error) {
	args := []string{"commit", "-m", message}
	output, err := c.output(ctx, dir, args...)
	if err == nil {
		return Committed, nil
	}
	if isNothingToCommit(string(output)) {
		return NothingToCommit, nil
	}
	return Committed, &CommandError{Args: args, Output: string(output), Err: err}
}

func (c *ExecClient) Remotes(ctx context.Context, dir string) ([]string, error) {
	output, err := c.output(ctx, dir, "remote")
	if err != nil {
		return nil, &CommandError{Args: []string{"remote"}, Output: string(output), Err: err}
	}
	return splitLines(string(output)), nil
}

func (c *ExecClient) PushURLs(ctx context.Context, dir, remote string) ([]string, error) {
	args := []string{"remote", "get-url", "--push", "--all", remote}
	output, err := c.output(ctx, dir, args...)
	if err != nil {
		return nil, &CommandError{Args: args, Output: string(output), Err: err}
	}
	return splitLines(string(output)), nil
}

// run executes a git command, discarding output on success. The working
// directory is passed explicitly; ambient process state is never mutated.
func (c *ExecClient) run(ctx context.Context, dir string, args ...string) error {
	output, err := c.output(ctx, dir, args...)
	if err != nil {
		return &CommandError{Args: args, Output: string(output), Err: err}
	}
	return nil
}

// output executes a git command and returns its combined output.
func (c *ExecClient) output(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// isNothingToCommit reports whether a failed commit's output indicates an
// empty working tree rather than a genuine failure.
func isNothingToCommit(output string) bool {
	lower := strings.ToLower(output)
	for _, phrase := range nothingToCommitPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
