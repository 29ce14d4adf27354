// Package action orchestrates a full wait-for-preview run: commit
// resolution, deployment polling, URL health checks, and step outputs.
package action

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/coprime/wait-for-vercel-preview/internal/config"
	"github.com/coprime/wait-for-vercel-preview/internal/ctxutil"
	"github.com/coprime/wait-for-vercel-preview/internal/errors"
	"github.com/coprime/wait-for-vercel-preview/internal/github"
	"github.com/coprime/wait-for-vercel-preview/internal/vercel"
	"github.com/coprime/wait-for-vercel-preview/internal/watch"
)

// CommitResolver resolves the commit whose previews are awaited.
type CommitResolver interface {
	ResolveCommitSHA(ctx context.Context, opts github.ResolveOptions) (string, error)
}

// DeploymentWaiter blocks until the team's pipeline is idle and the commit's
// previews are resolved.
type DeploymentWaiter interface {
	Wait(ctx context.Context, opts watch.DeploymentOptions) (*watch.DeploymentResult, error)
}

// HealthWaiter blocks until a preview URL responds.
type HealthWaiter interface {
	Wait(ctx context.Context, target watch.Target, opts watch.HealthOptions) (*watch.HealthResult, error)
}

// Runner wires commit resolution, deployment polling, and URL health
// polling into one run against a loaded configuration.
type Runner struct {
	cfg         *config.Config
	resolver    CommitResolver
	deployments DeploymentWaiter
	health      HealthWaiter
	outputs     *OutputWriter
	logger      zerolog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithCommitResolver replaces the GitHub-backed commit resolver.
func WithCommitResolver(resolver CommitResolver) RunnerOption {
	return func(r *Runner) { r.resolver = resolver }
}

// WithDeploymentWaiter replaces the deployment resolution poller.
func WithDeploymentWaiter(waiter DeploymentWaiter) RunnerOption {
	return func(r *Runner) { r.deployments = waiter }
}

// WithHealthWaiter replaces the URL health poller.
func WithHealthWaiter(waiter HealthWaiter) RunnerOption {
	return func(r *Runner) { r.health = waiter }
}

// WithOutputWriter replaces the step output writer.
func WithOutputWriter(writer *OutputWriter) RunnerOption {
	return func(r *Runner) { r.outputs = writer }
}

// WithRunnerLogger sets the logger for the run and its default collaborators.
func WithRunnerLogger(logger zerolog.Logger) RunnerOption {
	return func(r *Runner) { r.logger = logger }
}

// NewRunner creates a Runner for the given configuration. Collaborators not
// replaced by options are built from the configuration.
func NewRunner(cfg *config.Config, opts ...RunnerOption) (*Runner, error) {
	if cfg == nil {
		return nil, errors.ErrConfigNil
	}

	r := &Runner{cfg: cfg, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}

	if r.resolver == nil {
		ghClient, err := github.NewClient(cfg.GitHub.Token,
			github.WithAPIURL(cfg.GitHub.APIURL),
			github.WithLogger(r.logger),
		)
		if err != nil {
			return nil, err
		}
		r.resolver = ghClient
	}

	if r.deployments == nil || r.health == nil {
		vercelClient := vercel.NewClient(cfg.Vercel.Token,
			vercel.WithBaseURL(cfg.Vercel.APIURL),
			vercel.WithRequestTimeout(cfg.Checks.RequestTimeout),
			vercel.WithLogger(r.logger),
		)
		if r.deployments == nil {
			r.deployments = watch.NewDeploymentWatcher(vercelClient,
				watch.WithDeploymentLogger(r.logger))
		}
		if r.health == nil {
			r.health = watch.NewHealthWatcher(vercelClient,
				watch.WithHealthLogger(r.logger),
				watch.WithHealthRequestTimeout(cfg.Checks.RequestTimeout),
			)
		}
	}

	if r.outputs == nil {
		r.outputs = NewOutputWriter(cfg.GitHub.OutputPath, r.logger)
	}

	return r, nil
}

// targetOutcome pairs a target with its health check result. Exactly one of
// result and err is set.
type targetOutcome struct {
	target watch.Target
	result *watch.HealthResult
	err    error
}

// Run executes the full wait: resolve the commit, wait out the deployment
// pipeline, health-check every resolved preview, and publish step outputs.
// Outputs are written only when every target responded.
func (r *Runner) Run(ctx context.Context) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return fmt.Errorf("%w: %s", errors.ErrCanceled, err.Error())
	}

	start := time.Now()

	r.logger.Info().
		Str("team_id", r.cfg.Vercel.TeamID).
		Str("event", r.cfg.GitHub.EventName).
		Str("repository", r.cfg.GitHub.Repository).
		Bool("protected", r.cfg.Vercel.Password != "").
		Msg("waiting for vercel preview")

	if r.cfg.Checks.Environment != "" {
		r.logger.Debug().
			Str("environment", r.cfg.Checks.Environment).
			Msg("environment input is informational only")
	}
	if r.cfg.Checks.AllowInactive {
		r.logger.Warn().Msg("allow_inactive no longer affects polling and is ignored")
	}

	sha, err := r.resolver.ResolveCommitSHA(ctx, github.ResolveOptions{
		EventName:   r.cfg.GitHub.EventName,
		EventPath:   r.cfg.GitHub.EventPath,
		Repository:  r.cfg.GitHub.Repository,
		FallbackSHA: r.cfg.GitHub.SHA,
	})
	if err != nil {
		return err
	}

	// A bad checks file should fail the run before any polling starts.
	checksFile, err := r.loadChecksFile()
	if err != nil {
		return err
	}

	resolution, err := r.deployments.Wait(ctx, watch.DeploymentOptions{
		TeamID:    r.cfg.Vercel.TeamID,
		CommitSHA: sha,
		Budget: watch.Budget{
			MaxWait:  r.cfg.Checks.MaxTimeout,
			Interval: r.cfg.Checks.CheckInterval,
		},
	})
	if err != nil {
		return err
	}
	if len(resolution.Targets) == 0 {
		return fmt.Errorf("%w: commit %s has no preview in team %s",
			errors.ErrNoDeployment, sha, r.cfg.Vercel.TeamID)
	}

	outcomes, err := r.checkTargets(ctx, resolution.Targets, checksFile)
	if err != nil {
		return err
	}

	if err := r.outputs.WriteAll(collectOutputs(outcomes)); err != nil {
		return err
	}

	r.logger.Info().
		Int("targets", len(resolution.Targets)).
		Dur("elapsed", time.Since(start)).
		Msg("all preview urls responded")

	return nil
}

// loadChecksFile reads the optional per-project check paths file.
func (r *Runner) loadChecksFile() (*config.ChecksFile, error) {
	if r.cfg.Checks.ChecksFile == "" {
		return nil, nil
	}

	file, err := config.LoadChecksFile(r.cfg.Checks.ChecksFile)
	if err != nil {
		return nil, err
	}

	r.logger.Info().
		Str("path", r.cfg.Checks.ChecksFile).
		Int("projects", len(file.Projects)).
		Msg("per-project check paths loaded")
	return file, nil
}

// checkTargets polls every target concurrently and joins all of them.
// Every goroutine keeps the parent context so one failing target cannot
// cancel the others; errors are collected per target and aggregated after
// the join.
func (r *Runner) checkTargets(ctx context.Context, targets []watch.Target, checksFile *config.ChecksFile) ([]targetOutcome, error) {
	outcomes := make([]targetOutcome, len(targets))

	var g errgroup.Group
	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			result, err := r.health.Wait(ctx, target, watch.HealthOptions{
				Path:     checksFile.PathFor(target.Name, r.cfg.Checks.Path),
				Password: r.cfg.Vercel.Password,
				Budget: watch.Budget{
					MaxWait:  r.cfg.Checks.HealthTimeout,
					Interval: r.cfg.Checks.CheckInterval,
				},
			})
			outcomes[i] = targetOutcome{target: target, result: result, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var failed []string
	for _, outcome := range outcomes {
		if outcome.err != nil {
			r.logger.Error().
				Err(outcome.err).
				Str("name", outcome.target.Name).
				Str("url", outcome.target.URL).
				Msg("preview url failed its health check")
			failed = append(failed, outcome.target.Name)
			continue
		}

		r.logger.Info().
			Str("name", outcome.target.Name).
			Str("check_url", outcome.result.CheckURL).
			Int("status_code", outcome.result.StatusCode).
			Int("attempts", outcome.result.Attempts).
			Dur("elapsed", outcome.result.Elapsed).
			Msg("preview url summary")
	}

	if len(failed) > 0 {
		return outcomes, fmt.Errorf("%w: %s", errors.ErrHealthChecksFailed, strings.Join(failed, ", "))
	}

	return outcomes, nil
}

// collectOutputs assembles the published outputs from successful checks.
// The bypass token output keeps the last token obtained in resolution order.
func collectOutputs(outcomes []targetOutcome) Outputs {
	outputs := Outputs{URLs: make([]TargetOutput, 0, len(outcomes))}
	for _, outcome := range outcomes {
		outputs.URLs = append(outputs.URLs, TargetOutput{
			URL:  "https://" + outcome.target.URL,
			Name: outcome.target.Name,
		})
		if outcome.result != nil && outcome.result.BypassToken != "" {
			outputs.VercelJWT = outcome.result.BypassToken
		}
	}
	return outputs
}
