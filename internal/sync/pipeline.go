// Package sync drives the Overleaf-to-GitLab mirroring pipeline: a strictly
// linear sequence of stages over the git, hosting-API, and filesystem
// collaborators. Every stage failure aborts the run; the single idempotency
// concession is tolerating commits with nothing to commit, so a partially
// failed run can be re-run safely past its completed stages.
package sync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/deyanmihaylov/OverleafToGitLab/internal/constants"
	"github.com/deyanmihaylov/OverleafToGitLab/internal/embedded"
	"github.com/deyanmihaylov/OverleafToGitLab/internal/fsutil"
	"github.com/deyanmihaylov/OverleafToGitLab/internal/git"
	"github.com/deyanmihaylov/OverleafToGitLab/internal/gitlab"
	"github.com/deyanmihaylov/OverleafToGitLab/internal/latex"
	"github.com/deyanmihaylov/OverleafToGitLab/internal/overleaf"
	"github.com/deyanmihaylov/OverleafToGitLab/internal/slug"
)

// Pipeline mirrors one Overleaf project into a newly created GitLab
// repository. All collaborators are injected at construction; the pipeline
// itself holds no mutable state between runs.
type Pipeline struct {
	git     git.Client
	api     gitlab.API
	decoder latex.TextDecoder
	logger  *zap.Logger
}

// New creates a pipeline over the given collaborators. A nil decoder defaults
// to the plain LaTeX decoder; a nil logger defaults to a no-op logger.
func New(gitClient git.Client, api gitlab.API, decoder latex.TextDecoder, logger *zap.Logger) *Pipeline {
	if decoder == nil {
		decoder = latex.NewPlainDecoder()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		git:     gitClient,
		api:     api,
		decoder: decoder,
		logger:  logger,
	}
}

// Run executes the full sync for one project reference. parentDir must be an
// existing directory; the project is cloned beneath it and later renamed in
// place. The returned session reflects however far the run progressed.
func (p *Pipeline) Run(ctx context.Context, input, parentDir string) (*Session, error) {
	if parentDir == "" {
		return nil, fmt.Errorf("target directory cannot be empty")
	}
	info, err := os.Stat(parentDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", parentDir)
	}

	project, err := overleaf.Resolve(input)
	if err != nil {
		return nil, err
	}

	session := &Session{
		Input:     input,
		Project:   project,
		ParentDir: parentDir,
		Dir:       filepath.Join(parentDir, project.Key),
	}

	stages := []struct {
		name string
		run  func(context.Context, *Session) error
	}{
		{"clone", p.clone},
		{"title", p.extractTitle},
		{"rename", p.renameDirectory},
		{"create-mirror", p.createMirror},
		{"link-remotes", p.linkRemotes},
		{"push-mirror", p.pushMirror},
		{"add-ci", p.addCI},
		{"add-readme", p.addReadme},
	}

	for _, stage := range stages {
		p.logger.Info("Running stage", zap.String("stage", stage.name), zap.String("key", project.Key))
		if err := stage.run(ctx, session); err != nil {
			return session, fmt.Errorf("stage %s: %w", stage.name, err)
		}
	}

	p.logger.Info("Sync complete",
		zap.String("key", project.Key),
		zap.String("dir", session.Dir),
		zap.String("mirror", session.MirrorWebURL))
	return session, nil
}

// clone clones the Overleaf git repository into parentDir/<key>.
func (p *Pipeline) clone(ctx context.Context, s *Session) error {
	p.logger.Info("Cloning Overleaf repository", zap.String("url", s.Project.GitURL), zap.String("dir", s.Dir))
	if err := p.git.Clone(ctx, s.Project.GitURL, s.Dir); err != nil {
		return err
	}
	s.DownloadSuccess = true
	return nil
}

// extractTitle extracts the LaTeX title, decodes it, and derives the slug
// variants. A project without a title command falls back to the project key
// so the pipeline can proceed.
func (p *Pipeline) extractTitle(_ context.Context, s *Session) error {
	fragment, err := latex.ExtractProjectTitle(s.Dir)
	if err != nil {
		return err
	}
	s.RawTitle = fragment

	title := ""
	if fragment != "" {
		argument, err := latex.CommandArgument(fragment)
		if err != nil {
			return err
		}
		title = p.decoder.Decode(argument)
	}
	if title == "" {
		p.logger.Info("No title found, falling back to project key", zap.String("key", s.Project.Key))
		title = s.Project.Key
	}
	s.Title = title

	if s.KebabSlug, err = slug.Slugify(title, slug.Kebab); err != nil {
		return err
	}
	if s.SnakeSlug, err = slug.Slugify(title, slug.Snake); err != nil {
		return err
	}

	p.logger.Info("Extracted title",
		zap.String("title", s.Title),
		zap.String("snake", s.SnakeSlug),
		zap.String("kebab", s.KebabSlug))
	return nil
}

// renameDirectory renames the cloned directory to the snake-style slug within
// the same parent. An already-correctly-named target is a no-op.
func (p *Pipeline) renameDirectory(_ context.Context, s *Session) error {
	if s.SnakeSlug == "" {
		return fmt.Errorf("no directory name could be derived from title %q", s.Title)
	}

	newDir := filepath.Join(s.ParentDir, s.SnakeSlug)
	p.logger.Info("Renaming project directory", zap.String("from", s.Dir), zap.String("to", newDir))
	if err := fsutil.RenameDir(s.Dir, newDir, true); err != nil {
		return err
	}
	s.Dir = newDir
	return nil
}

// createMirror creates the empty GitLab repository, named by the title and
// pathed by the project key.
func (p *Pipeline) createMirror(ctx context.Context, s *Session) error {
	p.logger.Info("Creating GitLab repository", zap.String("name", s.Title), zap.String("path", s.Project.Key))
	if err := p.api.Authenticate(ctx); err != nil {
		return err
	}

	project, err := p.api.CreateProject(ctx, s.Title, s.Project.Key)
	if err != nil {
		return err
	}
	s.MirrorWebURL = project.WebURL
	s.MirrorSSHURL = project.SSHURLToRepo
	return nil
}

// linkRemotes adds the mirror as a named remote and configures dual-push on
// origin: one generic push then fans out to both Overleaf and GitLab.
func (p *Pipeline) linkRemotes(ctx context.Context, s *Session) error {
	p.logger.Info("Linking local repository to mirror", zap.String("remote", constants.MirrorRemoteName))
	if err := p.git.AddRemote(ctx, s.Dir, constants.MirrorRemoteName, s.MirrorSSHURL); err != nil {
		return err
	}
	if err := p.git.AddPushURL(ctx, s.Dir, constants.OriginRemoteName, s.Project.GitURL); err != nil {
		return err
	}
	return p.git.AddPushURL(ctx, s.Dir, constants.OriginRemoteName, s.MirrorSSHURL)
}

// pushMirror performs the initial push to the mirror remote.
func (p *Pipeline) pushMirror(ctx context.Context, s *Session) error {
	p.logger.Info("Pushing to mirror", zap.String("remote", constants.MirrorRemoteName))
	return p.git.Push(ctx, s.Dir, constants.MirrorRemoteName)
}

// addCI publishes the CI template into the tree, then commits and pushes.
func (p *Pipeline) addCI(ctx context.Context, s *Session) error {
	p.logger.Info("Adding GitLab CI configuration")
	if _, err := embedded.WriteCI(s.Dir); err != nil {
		return err
	}
	if err := p.git.Add(ctx, s.Dir, constants.CIFileName); err != nil {
		return err
	}
	return p.commitAndPush(ctx, s, constants.CICommitMessage)
}

// addReadme writes the README referencing the published manuscript, then
// commits and pushes.
func (p *Pipeline) addReadme(ctx context.Context, s *Session) error {
	p.logger.Info("Adding README")
	content := fmt.Sprintf("[Latest manuscript](%s)\n", fmt.Sprintf(constants.PagesURLPattern, s.Project.Key))
	readmePath := filepath.Join(s.Dir, constants.ReadmeFileName)
	if err := os.WriteFile(readmePath, []byte(content), constants.FilePermissions); err != nil {
		return fmt.Errorf("failed to write README: %w", err)
	}
	if err := p.git.Add(ctx, s.Dir, constants.ReadmeFileName); err != nil {
		return err
	}
	return p.commitAndPush(ctx, s, constants.ReadmeCommitMessage)
}

// commitAndPush commits staged changes and pushes to the default remote. A
// commit with nothing staged is treated as already done; the push is skipped.
func (p *Pipeline) commitAndPush(ctx context.Context, s *Session, message string) error {
	result, err := p.git.Commit(ctx, s.Dir, message)
	if err != nil {
		return err
	}
	if result == git.NothingToCommit {
		p.logger.Info("Nothing to commit, skipping push", zap.String("message", message))
		return nil
	}
	return p.git.Push(ctx, s.Dir, "")
}
