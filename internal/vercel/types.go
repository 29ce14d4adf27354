// Package vercel provides a minimal client for the Vercel REST API and the
// password-bypass handshake used by protected preview deployments.
//
// API payloads are decoded into explicit types carrying only the fields this
// tool consumes; everything else in the platform's responses is ignored.
package vercel

// DeploymentState is the build state reported by the deployments API.
type DeploymentState string

// Deployment states returned by the platform.
const (
	// StateQueued indicates the deployment is waiting for a build slot.
	StateQueued DeploymentState = "QUEUED"

	// StateBuilding indicates the build is running.
	StateBuilding DeploymentState = "BUILDING"

	// StateInitializing indicates the deployment is being provisioned.
	StateInitializing DeploymentState = "INITIALIZING"

	// StateReady indicates the deployment is live.
	StateReady DeploymentState = "READY"

	// StateError indicates the build or provisioning failed.
	StateError DeploymentState = "ERROR"

	// StateCanceled indicates the deployment was canceled.
	StateCanceled DeploymentState = "CANCELED"
)

// InProgress reports whether the deployment still occupies the team's build
// pipeline. Any in-progress deployment anywhere in the team defers URL
// resolution, because the commit's own deployment may not be listed yet.
func (s DeploymentState) InProgress() bool {
	switch s {
	case StateQueued, StateBuilding, StateInitializing:
		return true
	case StateReady, StateError, StateCanceled:
		return false
	default:
		return false
	}
}

// Deployment is a single record from the team deployments listing (v6).
type Deployment struct {
	// UID is the deployment identifier.
	UID string `json:"uid"`

	// Name is the deployment name, which matches the owning project.
	Name string `json:"name"`

	// State is the current build state.
	State DeploymentState `json:"state"`
}

// DeploymentMeta carries the commit metadata the git integration attaches
// to a deployment.
type DeploymentMeta struct {
	// GitHubCommitSHA is the commit that produced the deployment.
	GitHubCommitSHA string `json:"githubCommitSha"`
}

// ProjectDeployment is a latest-deployment record embedded in a project (v9).
type ProjectDeployment struct {
	// Name is the deployment name, which matches the owning project.
	Name string `json:"name"`

	// Meta carries the commit the deployment was built from.
	Meta DeploymentMeta `json:"meta"`

	// AutomaticAliases are the hosts the platform assigned to the
	// deployment, most specific last.
	AutomaticAliases []string `json:"automaticAliases"`
}

// PreviewURL returns the preview host for this deployment: the last entry of
// its automatic alias list. Returns the empty string when the deployment has
// no aliases.
func (d ProjectDeployment) PreviewURL() string {
	if len(d.AutomaticAliases) == 0 {
		return ""
	}
	return d.AutomaticAliases[len(d.AutomaticAliases)-1]
}

// Project is a single record from the team projects listing (v9).
type Project struct {
	// Name is the project name.
	Name string `json:"name"`

	// LatestDeployments are the most recent deployments per target.
	LatestDeployments []ProjectDeployment `json:"latestDeployments"`
}
