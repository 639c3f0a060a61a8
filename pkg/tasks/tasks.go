// Package tasks exposes the dbt Cloud operations as plain functions an
// orchestration framework can wrap: creating a job and triggering a run
// with an optional wait for completion. Credentials and identifiers are
// taken from the parameters first and fall back to environment variables.
package tasks

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pipelinehq/dbtcloud-go/internal/constants"
	"github.com/pipelinehq/dbtcloud-go/internal/logger"
	"github.com/pipelinehq/dbtcloud-go/pkg/dbtcloud"
)

// ConfigurationError indicates a required parameter was neither passed
// explicitly nor found in the environment.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return e.Msg
}

func configErrorf(format string, args ...interface{}) error {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

// CreateJobParams are the inputs for CreateJob
type CreateJobParams struct {
	// ExecuteSteps is the ordered list of dbt commands the job will execute
	ExecuteSteps []string

	// EnvironmentID is the environment the job will run in
	EnvironmentID int64

	// ProjectID is the project the job belongs to
	ProjectID int64

	// Name is the display name of the job
	Name string

	// GenerateDocs controls whether `dbt docs generate` runs after the job
	GenerateDocs bool

	// BaseURL overrides the API base URL. Defaults to the hosted
	// dbt Cloud endpoint.
	BaseURL string

	// AccountID is the dbt Cloud account ID. Falls back to the
	// AccountIDEnvVar environment variable when zero.
	AccountID int64

	// Token is the dbt Cloud API token. Falls back to the TokenEnvVar
	// environment variable when empty.
	Token string

	// AccountIDEnvVar names the env var consulted when AccountID is zero.
	// Defaults to ACCOUNT_ID.
	AccountIDEnvVar string

	// TokenEnvVar names the env var consulted when Token is empty.
	// Defaults to DBT_CLOUD_TOKEN.
	TokenEnvVar string

	// DbtVersion overrides the dbt version configured on the environment
	DbtVersion string

	// Triggers describes which trigger types are enabled for the job
	Triggers *dbtcloud.JobTriggers

	// Settings are execution settings applied when the job runs
	Settings *dbtcloud.JobSettings

	// Schedule is the run schedule specification for the job
	Schedule *dbtcloud.JobSchedule
}

// RunJobParams are the inputs for RunJob
type RunJobParams struct {
	// Cause describes the reason for triggering the run
	Cause string

	// BaseURL overrides the API base URL. Defaults to the hosted
	// dbt Cloud endpoint.
	BaseURL string

	// AccountID is the dbt Cloud account ID. Falls back to the
	// AccountIDEnvVar environment variable when zero.
	AccountID int64

	// JobID is the job to trigger. Falls back to the JobIDEnvVar
	// environment variable when zero.
	JobID int64

	// Token is the dbt Cloud API token. Falls back to the TokenEnvVar
	// environment variable when empty.
	Token string

	// Overrides carries optional per-run overrides passed through to the
	// trigger endpoint. The Cause field of the overrides is ignored.
	Overrides *dbtcloud.TriggerRunRequest

	// AccountIDEnvVar names the env var consulted when AccountID is zero.
	// Defaults to ACCOUNT_ID.
	AccountIDEnvVar string

	// JobIDEnvVar names the env var consulted when JobID is zero.
	// Defaults to JOB_ID.
	JobIDEnvVar string

	// TokenEnvVar names the env var consulted when Token is empty.
	// Defaults to DBT_CLOUD_TOKEN.
	TokenEnvVar string

	// WaitForCompletion makes RunJob poll the run until it reaches a
	// terminal status
	WaitForCompletion bool

	// PollInterval is the fixed delay between status checks while
	// waiting. Defaults to dbtcloud.DefaultPollInterval.
	PollInterval time.Duration

	// MaxWait bounds the total wait for completion. Zero means no bound.
	MaxWait time.Duration
}

// CreateJob creates a dbt Cloud job and returns the created job record
// with its API-assigned identifier.
func CreateJob(ctx context.Context, params CreateJobParams) (*dbtcloud.Job, error) {
	accountID, err := resolveID(params.AccountID, params.AccountIDEnvVar, constants.EnvAccountID, "account ID")
	if err != nil {
		return nil, err
	}
	token, err := resolveToken(params.Token, params.TokenEnvVar)
	if err != nil {
		return nil, err
	}

	if len(params.ExecuteSteps) == 0 {
		return nil, configErrorf("execute steps cannot be empty")
	}
	if params.ProjectID == 0 {
		return nil, configErrorf("project ID is required")
	}
	if params.EnvironmentID == 0 {
		return nil, configErrorf("environment ID is required")
	}
	if params.Name == "" {
		return nil, configErrorf("job name is required")
	}

	client, err := newClient(params.BaseURL, accountID, token)
	if err != nil {
		return nil, err
	}

	return client.CreateJob(ctx, dbtcloud.CreateJobRequest{
		ProjectID:     params.ProjectID,
		EnvironmentID: params.EnvironmentID,
		Name:          params.Name,
		ExecuteSteps:  params.ExecuteSteps,
		GenerateDocs:  params.GenerateDocs,
		DbtVersion:    params.DbtVersion,
		Triggers:      params.Triggers,
		Settings:      params.Settings,
		Schedule:      params.Schedule,
	})
}

// RunJob triggers a run of a dbt Cloud job.
//
// When WaitForCompletion is false the trigger response is returned as-is.
// When it is true, the run is polled until it reaches a terminal status:
// a successful run is returned with its artifact links attached, a failed
// or cancelled run yields a *dbtcloud.RunFailureError.
func RunJob(ctx context.Context, params RunJobParams) (*dbtcloud.Run, error) {
	accountID, err := resolveID(params.AccountID, params.AccountIDEnvVar, constants.EnvAccountID, "account ID")
	if err != nil {
		return nil, err
	}
	jobID, err := resolveID(params.JobID, params.JobIDEnvVar, constants.EnvJobID, "job ID")
	if err != nil {
		return nil, err
	}
	token, err := resolveToken(params.Token, params.TokenEnvVar)
	if err != nil {
		return nil, err
	}

	if params.Cause == "" {
		return nil, configErrorf("cause is required to trigger a run")
	}

	client, err := newClient(params.BaseURL, accountID, token)
	if err != nil {
		return nil, err
	}

	req := dbtcloud.TriggerRunRequest{}
	if params.Overrides != nil {
		req = *params.Overrides
	}
	req.Cause = params.Cause

	run, err := client.TriggerRun(ctx, jobID, req)
	if err != nil {
		return nil, err
	}

	if !params.WaitForCompletion {
		return run, nil
	}

	final, err := client.WaitForRun(ctx, run.ID, dbtcloud.WaitOptions{
		Interval: params.PollInterval,
		MaxWait:  params.MaxWait,
	})
	if err != nil {
		return nil, err
	}

	// Artifact links are a best-effort enrichment of the final record;
	// failing to list them does not fail the task.
	paths, err := client.ListRunArtifacts(ctx, run.ID)
	if err != nil {
		logger.Warnf("unable to retrieve artifacts generated by run %d: %v", run.ID, err)
		return final, nil
	}
	final.ArtifactURLs = client.RunArtifactURLs(run.ID, paths)

	return final, nil
}

// resolveID returns the explicit value when non-zero, otherwise parses the
// named environment variable.
func resolveID(explicit int64, envVar, defaultEnvVar, what string) (int64, error) {
	if explicit != 0 {
		return explicit, nil
	}

	if envVar == "" {
		envVar = defaultEnvVar
	}
	if value, ok := os.LookupEnv(envVar); ok {
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, configErrorf("invalid %s in env var %s: %v", what, envVar, err)
		}
		return id, nil
	}

	return 0, configErrorf("%s is required: pass it explicitly or set %s", what, envVar)
}

// resolveToken returns the explicit token when set, otherwise reads the
// named environment variable.
func resolveToken(explicit, envVar string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	if envVar == "" {
		envVar = constants.EnvToken
	}
	if value, ok := os.LookupEnv(envVar); ok && value != "" {
		return value, nil
	}

	return "", configErrorf("API token is required: pass it explicitly or set %s", envVar)
}

func newClient(baseURL string, accountID int64, token string) (*dbtcloud.APIClient, error) {
	opts := dbtcloud.DefaultOptions()
	if baseURL != "" {
		opts.BaseURL = baseURL
	}
	opts.AccountID = accountID
	opts.Token = token

	return dbtcloud.NewClient(opts)
}
