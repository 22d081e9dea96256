package sync

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/deyanmihaylov/OverleafToGitLab/internal/git"
	"github.com/deyanmihaylov/OverleafToGitLab/internal/gitlab"
	"github.com/deyanmihaylov/OverleafToGitLab/internal/latex"
)

const testKey = "5cfacaa5a39cd676c26e6332"

// fakeGit implements git.Client with an in-memory call log. Clone materializes
// a fake working tree containing the configured main.tex content.
type fakeGit struct {
	calls        []string
	mainTeX      string
	cloneErr     error
	pushErr      error
	commitResult git.CommitResult
	commitErr    error
}

func (f *fakeGit) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeGit) Clone(_ context.Context, url, dir string) error {
	f.record("clone %s %s", url, dir)
	if f.cloneErr != nil {
		return f.cloneErr
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "main.tex"), []byte(f.mainTeX), 0644)
}

func (f *fakeGit) AddRemote(_ context.Context, dir, name, url string) error {
	f.record("remote-add %s %s", name, url)
	return nil
}

func (f *fakeGit) AddPushURL(_ context.Context, dir, remote, url string) error {
	f.record("push-url %s %s", remote, url)
	return nil
}

func (f *fakeGit) Push(_ context.Context, dir, remote string) error {
	if remote == "" {
		remote = "<default>"
	}
	f.record("push %s", remote)
	return f.pushErr
}

func (f *fakeGit) Add(_ context.Context, dir, path string) error {
	f.record("add %s", path)
	return nil
}

func (f *fakeGit) Commit(_ context.Context, dir, message string) (git.CommitResult, error) {
	f.record("commit %s", message)
	return f.commitResult, f.commitErr
}

func (f *fakeGit) Remotes(_ context.Context, dir string) ([]string, error) {
	return []string{"origin", "gitlab"}, nil
}

func (f *fakeGit) PushURLs(_ context.Context, dir, remote string) ([]string, error) {
	return nil, nil
}

// fakeAPI implements gitlab.API.
type fakeAPI struct {
	created   []string
	authErr   error
	createErr error
	sshURL    string
	webURL    string
}

func (f *fakeAPI) Authenticate(_ context.Context) error {
	return f.authErr
}

func (f *fakeAPI) CreateProject(_ context.Context, name, path string) (*gitlab.Project, error) {
	f.created = append(f.created, name+"|"+path)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &gitlab.Project{
		Name:         name,
		Path:         path,
		WebURL:       f.webURL,
		SSHURLToRepo: f.sshURL,
	}, nil
}

func newTestPipeline(g *fakeGit, api *fakeAPI) *Pipeline {
	return New(g, api, nil, zap.NewNop())
}

func TestPipeline_Run_EndToEnd(t *testing.T) {
	parent := t.TempDir()
	fg := &fakeGit{
		mainTeX: "\\documentclass{article}\n\\title{A Study of Planck Results}\n\\begin{document}\\maketitle\\end{document}\n",
	}
	api := &fakeAPI{
		webURL: "https://gitlab.com/author/" + testKey,
		sshURL: "git@gitlab.com:author/" + testKey + ".git",
	}

	session, err := newTestPipeline(fg, api).Run(context.Background(), testKey, parent)
	require.NoError(t, err)

	assert.True(t, session.DownloadSuccess)
	assert.Equal(t, "A Study of Planck Results", session.Title)
	assert.Equal(t, "A_Study_of_Planck_Results", session.SnakeSlug)
	assert.Equal(t, "A-Study-of-Planck-Results", session.KebabSlug)

	// Directory renamed to the snake slug under the same parent.
	assert.Equal(t, filepath.Join(parent, "A_Study_of_Planck_Results"), session.Dir)
	assert.DirExists(t, session.Dir)
	assert.NoDirExists(t, filepath.Join(parent, testKey))

	// Mirror created with title as name and key as path.
	require.Len(t, api.created, 1)
	assert.Equal(t, "A Study of Planck Results|"+testKey, api.created[0])
	assert.Equal(t, api.webURL, session.MirrorWebURL)
	assert.Equal(t, api.sshURL, session.MirrorSSHURL)

	// README embeds the key in the published-artifact URL.
	readme, err := os.ReadFile(filepath.Join(session.Dir, "README.md"))
	require.NoError(t, err)
	assert.Contains(t, string(readme), testKey)
	assert.Contains(t, string(readme), "https://deyanmihaylov.gitlab.io/"+testKey+"/main.pdf")

	// CI configuration copied into the tree.
	assert.FileExists(t, filepath.Join(session.Dir, ".gitlab-ci.yml"))

	wantCalls := []string{
		"clone https://git.overleaf.com/" + testKey + " " + filepath.Join(parent, testKey),
		"remote-add gitlab " + api.sshURL,
		"push-url origin https://git.overleaf.com/" + testKey,
		"push-url origin " + api.sshURL,
		"push gitlab",
		"add .gitlab-ci.yml",
		"commit Add GitLab CI",
		"push <default>",
		"add README.md",
		"commit Add README.md",
		"push <default>",
	}
	assert.Equal(t, wantCalls, fg.calls)
}

func TestPipeline_Run_TitleFallsBackToKey(t *testing.T) {
	parent := t.TempDir()
	fg := &fakeGit{mainTeX: "\\documentclass{article}\n\\begin{document}hi\\end{document}\n"}
	api := &fakeAPI{webURL: "w", sshURL: "s"}

	session, err := newTestPipeline(fg, api).Run(context.Background(), testKey, parent)
	require.NoError(t, err)

	assert.Equal(t, testKey, session.Title)
	assert.Equal(t, testKey, session.SnakeSlug)
	assert.Equal(t, filepath.Join(parent, testKey), session.Dir)
}

func TestPipeline_Run_NothingToCommitIsTolerated(t *testing.T) {
	parent := t.TempDir()
	fg := &fakeGit{
		mainTeX:      `\title{Rerun}`,
		commitResult: git.NothingToCommit,
	}
	api := &fakeAPI{webURL: "w", sshURL: "s"}

	_, err := newTestPipeline(fg, api).Run(context.Background(), testKey, parent)
	require.NoError(t, err)

	// Both commits reported nothing to commit, so the default-remote pushes
	// are skipped; only the mirror push happens.
	joined := strings.Join(fg.calls, "\n")
	assert.Contains(t, joined, "commit Add GitLab CI")
	assert.Contains(t, joined, "commit Add README.md")
	assert.NotContains(t, joined, "push <default>")
	assert.Contains(t, joined, "push gitlab")
}

func TestPipeline_Run_CommitFailureIsFatal(t *testing.T) {
	parent := t.TempDir()
	fg := &fakeGit{
		mainTeX:   `\title{Broken}`,
		commitErr: &git.CommandError{Args: []string{"commit"}, Err: errors.New("exit status 1")},
	}
	api := &fakeAPI{webURL: "w", sshURL: "s"}

	_, err := newTestPipeline(fg, api).Run(context.Background(), testKey, parent)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stage add-ci")
}

func TestPipeline_Run_CloneFailureAbortsBeforeAPI(t *testing.T) {
	parent := t.TempDir()
	fg := &fakeGit{cloneErr: &git.CommandError{Args: []string{"clone"}, Err: errors.New("exit status 128")}}
	api := &fakeAPI{}

	session, err := newTestPipeline(fg, api).Run(context.Background(), testKey, parent)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stage clone")
	assert.False(t, session.DownloadSuccess)
	assert.Empty(t, api.created, "no API call may happen after a clone failure")
}

func TestPipeline_Run_ParseErrorIsFatal(t *testing.T) {
	parent := t.TempDir()
	fg := &fakeGit{mainTeX: `\title{Oops`}
	api := &fakeAPI{}

	_, err := newTestPipeline(fg, api).Run(context.Background(), testKey, parent)
	require.Error(t, err)

	var parseErr *latex.ParseError
	assert.ErrorAs(t, err, &parseErr)
	assert.Empty(t, api.created)
}

func TestPipeline_Run_CreateMirrorFailureIsFatal(t *testing.T) {
	parent := t.TempDir()
	fg := &fakeGit{mainTeX: `\title{Collision}`}
	api := &fakeAPI{createErr: &gitlab.APIError{StatusCode: 400, Message: "has already been taken"}}

	_, err := newTestPipeline(fg, api).Run(context.Background(), testKey, parent)
	require.Error(t, err)

	var apiErr *gitlab.APIError
	assert.ErrorAs(t, err, &apiErr)

	// Fail-fast: no remote linking or pushes after the API failure.
	joined := strings.Join(fg.calls, "\n")
	assert.NotContains(t, joined, "remote-add")
	assert.NotContains(t, joined, "push")
}

func TestPipeline_Run_RenameOntoExistingNameIsNoOp(t *testing.T) {
	parent := t.TempDir()
	// Pre-create the target directory name, as a previous partial run would.
	require.NoError(t, os.Mkdir(filepath.Join(parent, "Rerun"), 0755))

	fg := &fakeGit{mainTeX: `\title{Rerun}`}
	api := &fakeAPI{webURL: "w", sshURL: "s"}

	session, err := newTestPipeline(fg, api).Run(context.Background(), testKey, parent)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(parent, "Rerun"), session.Dir)
}

func TestPipeline_Run_InvalidInputs(t *testing.T) {
	fg := &fakeGit{}
	api := &fakeAPI{}
	pipeline := newTestPipeline(fg, api)

	t.Run("bad identifier", func(t *testing.T) {
		_, err := pipeline.Run(context.Background(), "not a key!", t.TempDir())
		require.Error(t, err)
		assert.Empty(t, fg.calls)
	})

	t.Run("missing parent directory", func(t *testing.T) {
		_, err := pipeline.Run(context.Background(), testKey, filepath.Join(t.TempDir(), "missing"))
		require.Error(t, err)
	})

	t.Run("empty parent directory", func(t *testing.T) {
		_, err := pipeline.Run(context.Background(), testKey, "")
		require.Error(t, err)
	})
}
