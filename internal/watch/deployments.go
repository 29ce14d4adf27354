// Package watch implements the bounded polling loops that gate a preview
// check run.
// This file implements deployment resolution polling.
package watch

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/coprime/wait-for-vercel-preview/internal/ctxutil"
	apperrors "github.com/coprime/wait-for-vercel-preview/internal/errors"
	"github.com/coprime/wait-for-vercel-preview/internal/vercel"
)

// API is the slice of the deployment platform client the watcher consumes.
type API interface {
	// ListDeployments returns the team's recent deployments.
	ListDeployments(ctx context.Context, teamID string) ([]vercel.Deployment, error)

	// ListProjects returns the team's projects with their latest deployments.
	ListProjects(ctx context.Context, teamID string) ([]vercel.Project, error)
}

// Target is a preview deployment resolved for a commit.
type Target struct {
	// Name is the deployment name, which matches the owning project.
	Name string

	// URL is the preview host, the last automatic alias the platform
	// assigned to the deployment. Carries no scheme.
	URL string
}

// DeploymentOptions configures one deployment resolution run.
type DeploymentOptions struct {
	// TeamID scopes the listing calls (required).
	TeamID string

	// CommitSHA selects which latest deployments resolve to targets (required).
	CommitSHA string

	// Budget bounds the polling loop.
	Budget Budget
}

// DeploymentResult contains the outcome of deployment resolution.
type DeploymentResult struct {
	// Targets are the preview deployments resolved for the commit.
	// Empty when no project deployed the commit.
	Targets []Target

	// Attempts is the number of listing polls performed.
	Attempts int

	// Elapsed is the total time spent polling.
	Elapsed time.Duration
}

// DeploymentWatcher polls the team deployment listing until the build
// pipeline is idle, then resolves preview targets for a commit.
type DeploymentWatcher struct {
	api    API
	logger zerolog.Logger
}

// DeploymentWatcherOption configures a DeploymentWatcher.
type DeploymentWatcherOption func(*DeploymentWatcher)

// WithDeploymentLogger sets the logger for deployment polling.
func WithDeploymentLogger(logger zerolog.Logger) DeploymentWatcherOption {
	return func(w *DeploymentWatcher) {
		w.logger = logger
	}
}

// NewDeploymentWatcher creates a watcher backed by the given platform client.
func NewDeploymentWatcher(api API, opts ...DeploymentWatcherOption) *DeploymentWatcher {
	w := &DeploymentWatcher{
		api:    api,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Wait polls until no team deployment is queued, building, or initializing,
// then resolves preview targets for the commit from the project listing.
//
// Any in-progress deployment anywhere in the team defers resolution, not just
// deployments for this commit, so a stale alias is never resolved while the
// platform is still reassigning it. API errors are transient: logged and
// retried until the budget runs out. An empty target list is a valid result;
// only exhausting the budget is an error (ErrDeploymentTimeout).
func (w *DeploymentWatcher) Wait(ctx context.Context, opts DeploymentOptions) (*DeploymentResult, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrCanceled, err.Error())
	}
	if err := validateDeploymentOptions(opts); err != nil {
		return nil, err
	}

	iterations := opts.Budget.Iterations()
	start := time.Now()

	w.logger.Info().
		Str("team_id", opts.TeamID).
		Str("commit_sha", opts.CommitSHA).
		Dur("interval", opts.Budget.Interval).
		Dur("max_wait", opts.Budget.MaxWait).
		Int("max_attempts", iterations).
		Msg("waiting for team deployments to finish")

	for attempt := 1; attempt <= iterations; attempt++ {
		targets, resolved := w.poll(ctx, attempt, iterations, opts)
		if resolved {
			result := &DeploymentResult{
				Targets:  targets,
				Attempts: attempt,
				Elapsed:  time.Since(start),
			}
			w.logger.Info().
				Int("targets", len(targets)).
				Int("attempts", attempt).
				Dur("elapsed", result.Elapsed).
				Msg("deployment resolution complete")
			return result, nil
		}

		if err := ctxutil.Sleep(ctx, opts.Budget.Interval); err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrCanceled, err.Error())
		}
	}

	return nil, fmt.Errorf("%w: team %s still building after %d attempts over %s",
		apperrors.ErrDeploymentTimeout, opts.TeamID, iterations,
		time.Since(start).Round(time.Millisecond))
}

// validateDeploymentOptions validates deployment resolution options.
func validateDeploymentOptions(opts DeploymentOptions) error {
	if opts.TeamID == "" {
		return fmt.Errorf("%w: team id is required for deployment resolution", apperrors.ErrMissingInput)
	}
	if opts.CommitSHA == "" {
		return fmt.Errorf("%w: commit sha is required for deployment resolution", apperrors.ErrMissingInput)
	}
	return nil
}

// poll performs a single resolution attempt. resolved reports whether the
// pipeline was idle and both listings succeeded; transient failures return
// false and the caller retries.
func (w *DeploymentWatcher) poll(ctx context.Context, attempt, total int, opts DeploymentOptions) ([]Target, bool) {
	deployments, err := w.api.ListDeployments(ctx, opts.TeamID)
	if err != nil {
		w.logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Int("max_attempts", total).
			Msg("deployment listing failed")
		return nil, false
	}

	if busy := inProgressNames(deployments); len(busy) > 0 {
		w.logger.Info().
			Strs("in_progress", busy).
			Int("attempt", attempt).
			Int("max_attempts", total).
			Msg("deployments still in progress")
		return nil, false
	}

	projects, err := w.api.ListProjects(ctx, opts.TeamID)
	if err != nil {
		w.logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Int("max_attempts", total).
			Msg("project listing failed")
		return nil, false
	}

	return w.resolveTargets(projects, opts.CommitSHA), true
}

// resolveTargets collects one target per latest deployment built from the
// commit. A matching deployment without aliases has no address to check and
// is skipped with a warning.
func (w *DeploymentWatcher) resolveTargets(projects []vercel.Project, commitSHA string) []Target {
	var targets []Target
	for _, project := range projects {
		for _, dep := range project.LatestDeployments {
			if dep.Meta.GitHubCommitSHA != commitSHA {
				continue
			}

			previewURL := dep.PreviewURL()
			if previewURL == "" {
				w.logger.Warn().
					Str("project", project.Name).
					Str("deployment", dep.Name).
					Msg("deployment matches commit but has no aliases")
				continue
			}

			w.logger.Debug().
				Str("deployment", dep.Name).
				Str("url", previewURL).
				Msg("resolved preview target")
			targets = append(targets, Target{Name: dep.Name, URL: previewURL})
		}
	}
	return targets
}

// inProgressNames returns the names of deployments still occupying the
// build pipeline.
func inProgressNames(deployments []vercel.Deployment) []string {
	var names []string
	for _, d := range deployments {
		if d.State.InProgress() {
			names = append(names, d.Name)
		}
	}
	return names
}
