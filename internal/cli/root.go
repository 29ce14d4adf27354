// Package cli provides the command-line interface for wait-for-vercel-preview.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coprime/wait-for-vercel-preview/internal/action"
	"github.com/coprime/wait-for-vercel-preview/internal/config"
	"github.com/coprime/wait-for-vercel-preview/internal/errors"
	"github.com/coprime/wait-for-vercel-preview/internal/signal"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// newRootCmd creates the root command. The tool is single purpose, so the
// root command runs the wait itself instead of dispatching to subcommands.
func newRootCmd(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wait-for-vercel-preview",
		Short: "Wait for Vercel preview deployments to answer",
		Long: `wait-for-vercel-preview blocks a CI pipeline until the Vercel preview
deployments for the commit under test are built and their URLs respond.

The tool polls the Vercel API until no deployment in the team is queued or
building, resolves the preview URL of every project deployed from the
commit, and then polls each URL until it answers. Password-protected
previews are entered through the bypass handshake. Preview URLs and the
bypass token are published as step outputs for later workflow steps.`,
		Version: formatVersion(info),
		// SilenceUsage prevents printing usage on error
		// (we handle our own error messages)
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWait(cmd.Context(), flags)
		},
	}

	AddGlobalFlags(cmd, flags)

	return cmd
}

// runWait loads configuration and executes the wait under signal handling.
func runWait(ctx context.Context, flags *GlobalFlags) error {
	logger := InitLogger(flags.Verbose, flags.Quiet)

	// A canceled workflow delivers SIGTERM; polling must stop promptly
	// rather than sleep out its interval.
	handler := signal.NewHandler(ctx)
	defer handler.Stop()
	ctx = handler.Context()

	cfg, err := config.LoadFromFile(logger.WithContext(ctx), flags.ConfigFile)
	if err != nil {
		logger.Error().Err(err).Msg(errors.UserMessage(err))
		return err
	}

	if cfg.LogFile != "" {
		logger = AttachLogFile(logger, cfg.LogFile)
		defer CloseLogFile()
	}

	runner, err := action.NewRunner(cfg, action.WithRunnerLogger(logger))
	if err != nil {
		logger.Error().Err(err).Msg(errors.UserMessage(err))
		return err
	}

	if err := runner.Run(ctx); err != nil {
		select {
		case <-handler.Interrupted():
			logger.Warn().Msg("run canceled by the runner")
		default:
			message, hint := errors.Actionable(err)
			event := logger.Error().Err(err)
			if hint != "" {
				event = event.Str("action", hint)
			}
			event.Msg(message)
		}
		return err
	}

	return nil
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command with the provided context and build info.
func Execute(ctx context.Context, info BuildInfo) error {
	flags := &GlobalFlags{}
	cmd := newRootCmd(flags, info)
	return cmd.ExecuteContext(ctx)
}
