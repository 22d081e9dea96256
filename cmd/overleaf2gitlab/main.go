package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/deyanmihaylov/OverleafToGitLab/internal/constants"
	"github.com/deyanmihaylov/OverleafToGitLab/internal/git"
	"github.com/deyanmihaylov/OverleafToGitLab/internal/gitlab"
	"github.com/deyanmihaylov/OverleafToGitLab/internal/state"
	syncpipe "github.com/deyanmihaylov/OverleafToGitLab/internal/sync"
	"github.com/deyanmihaylov/OverleafToGitLab/internal/terminal"
)

var version = "0.1.0"

var (
	verbose bool
	logger  *zap.Logger
)

func main() {
	rootCmd := newRootCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overleaf2gitlab <project>",
		Short: "Mirror an Overleaf project into a new GitLab repository",
		Long: `Clones an Overleaf project, names it after its LaTeX title, creates a
GitLab mirror repository, configures dual-push remotes, and publishes CI and
README scaffolding.

The project may be given as an Overleaf web URL, an Overleaf git URL, or a
bare project key.`,
		Args: cobra.ExactArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: runSync,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.Flags().String("dir", "", "Parent directory for the cloned project (defaults to current directory)")

	cmd.AddCommand(
		newStatusCmd(),
		newVersionCmd(),
	)

	return cmd
}

func runSync(cmd *cobra.Command, args []string) error {
	parentDir, err := resolveDirFlag(cmd)
	if err != nil {
		return err
	}

	// Resolve the token up front so auth problems surface before any clone.
	token, err := terminal.ResolveTokenSecure(parentDir)
	if err != nil {
		return fmt.Errorf("token error: %w", err)
	}
	defer token.Clear()

	api := gitlab.NewClient(constants.GitLabBaseURL, token.String())
	pipeline := syncpipe.New(git.NewClient(), api, nil, logger)

	session, err := pipeline.Run(context.Background(), args[0], parentDir)
	if err != nil {
		return err
	}

	fmt.Printf("Synced %q\n", session.Title)
	fmt.Printf("  Local directory: %s\n", session.Dir)
	fmt.Printf("  GitLab mirror:   %s\n", session.MirrorWebURL)
	return nil
}

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <project-dir>",
		Short: "Show the sync state of a local project directory",
		Args:  cobra.ExactArgs(1),
		RunE:  runStatus,
	}

	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	dir, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("invalid project directory: %w", err)
	}

	detector := state.NewDetector(dir, git.NewClient())
	syncState := detector.Detect()

	fmt.Println("Overleaf Sync Status")
	fmt.Println("====================")
	fmt.Println()

	if !syncState.DirExists {
		fmt.Printf("Directory:  %s (not found)\n", dir)
		return nil
	}
	fmt.Printf("Directory:  %s\n", dir)

	if !syncState.IsGitRepo {
		fmt.Println("Git repo:   No")
		return nil
	}
	fmt.Println("Git repo:   Yes")

	if syncState.MirrorLinked {
		fmt.Printf("Mirror:     Linked (remote %q)\n", constants.MirrorRemoteName)
	} else {
		fmt.Println("Mirror:     Not linked")
	}

	if syncState.DualPushConfigured {
		fmt.Println("Dual-push:  Configured")
	} else {
		fmt.Println("Dual-push:  Not configured")
	}

	if syncState.CIPresent {
		fmt.Println("CI config:  Present")
	} else {
		fmt.Println("CI config:  Missing")
	}

	if syncState.ReadmePresent {
		fmt.Println("README:     Present")
	} else {
		fmt.Println("README:     Missing")
	}

	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("overleaf2gitlab version %s\n", version)
		},
	}
}

// resolveDirFlag reads the --dir flag, defaulting to the current working
// directory, and returns it as an absolute path.
func resolveDirFlag(cmd *cobra.Command) (string, error) {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return "", fmt.Errorf("invalid dir flag: %w", err)
	}

	if dir == "" {
		dir, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
	}

	dir, err = filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("invalid target directory: %w", err)
	}
	return dir, nil
}
