package constants

// Step input environment variables. The runner exposes every `with:` input
// to the step process as INPUT_<UPPERCASED NAME>.
const (
	// EnvInputToken is the GitHub token input.
	EnvInputToken = "INPUT_TOKEN"

	// EnvInputVercelToken is the Vercel API token input.
	EnvInputVercelToken = "INPUT_VERCEL_TOKEN"

	// EnvInputVercelPassword is the shared preview password input.
	EnvInputVercelPassword = "INPUT_VERCEL_PASSWORD"

	// EnvInputTeamID is the Vercel team identifier input.
	EnvInputTeamID = "INPUT_TEAM_ID"

	// EnvInputEnvironment is the declared-but-unused environment input.
	EnvInputEnvironment = "INPUT_ENVIRONMENT"

	// EnvInputMaxTimeout is the polling budget input, in seconds.
	EnvInputMaxTimeout = "INPUT_MAX_TIMEOUT"

	// EnvInputHealthTimeout is the URL health polling budget input, in seconds.
	EnvInputHealthTimeout = "INPUT_HEALTH_TIMEOUT"

	// EnvInputCheckInterval is the pause between attempts, in seconds.
	EnvInputCheckInterval = "INPUT_CHECK_INTERVAL"

	// EnvInputRequestTimeout is the per-request cap, in seconds.
	EnvInputRequestTimeout = "INPUT_REQUEST_TIMEOUT"

	// EnvInputPath is the health-check path input.
	EnvInputPath = "INPUT_PATH"

	// EnvInputAllowInactive is a legacy input kept for workflow compatibility.
	EnvInputAllowInactive = "INPUT_ALLOW_INACTIVE"

	// EnvInputChecksFile is the optional per-project checks file input.
	EnvInputChecksFile = "INPUT_CHECKS_FILE"

	// EnvInputLogFile is the optional debug log file input.
	EnvInputLogFile = "INPUT_LOG_FILE"

	// EnvInputVercelAPIURL overrides the Vercel API base URL.
	EnvInputVercelAPIURL = "INPUT_VERCEL_API_URL"

	// EnvInputGitHubAPIURL overrides the GitHub API base URL.
	EnvInputGitHubAPIURL = "INPUT_GITHUB_API_URL"
)

// Workflow context environment variables provided by the runner.
const (
	// EnvGitHubToken is the runner-provided token fallback.
	EnvGitHubToken = "GITHUB_TOKEN"

	// EnvGitHubRepository is the owner/repo slug of the current repository.
	EnvGitHubRepository = "GITHUB_REPOSITORY"

	// EnvGitHubEventName names the event that triggered the workflow.
	EnvGitHubEventName = "GITHUB_EVENT_NAME"

	// EnvGitHubEventPath locates the JSON payload of the triggering event.
	EnvGitHubEventPath = "GITHUB_EVENT_PATH"

	// EnvGitHubSHA is the commit that triggered the workflow.
	EnvGitHubSHA = "GITHUB_SHA"

	// EnvGitHubOutput locates the file step outputs are appended to.
	EnvGitHubOutput = "GITHUB_OUTPUT"
)
