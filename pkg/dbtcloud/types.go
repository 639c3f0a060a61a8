package dbtcloud

import (
	"encoding/json"
	"fmt"
	"time"
)

// RunStatus represents the current state of a job run as reported by the
// dbt Cloud API. The wire format is the numeric code used by the API.
type RunStatus int

// Run status codes used by the dbt Cloud API
const (
	// RunStatusQueued indicates the run is waiting to be scheduled
	RunStatusQueued RunStatus = 1
	// RunStatusStarting indicates the run environment is being prepared
	RunStatusStarting RunStatus = 2
	// RunStatusRunning indicates the run is executing its steps
	RunStatusRunning RunStatus = 3
	// RunStatusSuccess indicates the run finished successfully
	RunStatusSuccess RunStatus = 10
	// RunStatusError indicates the run finished with an error
	RunStatusError RunStatus = 20
	// RunStatusCancelled indicates the run was cancelled
	RunStatusCancelled RunStatus = 30
)

var runStatusNames = map[RunStatus]string{
	RunStatusQueued:    "queued",
	RunStatusStarting:  "starting",
	RunStatusRunning:   "running",
	RunStatusSuccess:   "success",
	RunStatusError:     "error",
	RunStatusCancelled: "cancelled",
}

// ParseRunStatus converts a string representation of a run status to RunStatus type
func ParseRunStatus(str string) (RunStatus, error) {
	for status, name := range runStatusNames {
		if name == str {
			return status, nil
		}
	}
	return RunStatus(0), fmt.Errorf("invalid run status: %s", str)
}

func (s RunStatus) String() string {
	if name, ok := runStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// Terminal reports whether no further state transitions can occur
func (s RunStatus) Terminal() bool {
	switch s {
	case RunStatusSuccess, RunStatusError, RunStatusCancelled:
		return true
	}
	return false
}

// MarshalJSON implements the json.Marshaler interface for RunStatus
func (s RunStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(s))
}

// UnmarshalJSON implements the json.Unmarshaler interface for RunStatus
func (s *RunStatus) UnmarshalJSON(data []byte) error {
	var code int
	if err := json.Unmarshal(data, &code); err != nil {
		return err
	}
	*s = RunStatus(code)
	return nil
}

// JobTriggers describes which trigger types are enabled for a job
type JobTriggers struct {
	GithubWebhook    bool `json:"github_webhook"`
	Schedule         bool `json:"schedule"`
	CustomBranchOnly bool `json:"custom_branch_only"`
}

// JobSettings contains execution settings applied to a job when running
type JobSettings struct {
	Threads    int    `json:"threads,omitempty"`
	TargetName string `json:"target_name,omitempty"`
}

// JobSchedule contains the run schedule specification for a job.
// The fields are passed through to the API untouched.
type JobSchedule struct {
	Cron string                 `json:"cron,omitempty"`
	Date map[string]interface{} `json:"date,omitempty"`
	Time map[string]interface{} `json:"time,omitempty"`
}

// CreateJobRequest is the payload for creating a dbt Cloud job
type CreateJobRequest struct {
	// ID must be null on creation; the API assigns it
	ID *int64 `json:"id"`

	AccountID     int64    `json:"account_id"`
	ProjectID     int64    `json:"project_id"`
	EnvironmentID int64    `json:"environment_id"`
	Name          string   `json:"name"`
	ExecuteSteps  []string `json:"execute_steps"`
	GenerateDocs  bool     `json:"generate_docs"`

	// DbtVersion overrides the version configured on the environment
	DbtVersion string       `json:"dbt_version,omitempty"`
	Triggers   *JobTriggers `json:"triggers,omitempty"`
	Settings   *JobSettings `json:"settings,omitempty"`
	Schedule   *JobSchedule `json:"schedule,omitempty"`

	// State is 1 for active jobs
	State int `json:"state"`
}

// Job represents a dbt Cloud job definition
type Job struct {
	ID            int64        `json:"id"`
	AccountID     int64        `json:"account_id"`
	ProjectID     int64        `json:"project_id"`
	EnvironmentID int64        `json:"environment_id"`
	Name          string       `json:"name"`
	ExecuteSteps  []string     `json:"execute_steps"`
	GenerateDocs  bool         `json:"generate_docs"`
	DbtVersion    string       `json:"dbt_version,omitempty"`
	Triggers      *JobTriggers `json:"triggers,omitempty"`
	Settings      *JobSettings `json:"settings,omitempty"`
	Schedule      *JobSchedule `json:"schedule,omitempty"`
	State         int          `json:"state"`
	CreatedAt     string       `json:"created_at,omitempty"`
	UpdatedAt     string       `json:"updated_at,omitempty"`
}

// TriggerRunRequest is the payload for triggering a run of a job.
// Cause is required; the remaining fields override the job definition
// for this run only.
type TriggerRunRequest struct {
	Cause string `json:"cause"`

	GitSha                 string   `json:"git_sha,omitempty"`
	GitBranch              string   `json:"git_branch,omitempty"`
	SchemaOverride         string   `json:"schema_override,omitempty"`
	DbtVersionOverride     string   `json:"dbt_version_override,omitempty"`
	TargetNameOverride     string   `json:"target_name_override,omitempty"`
	ThreadsOverride        int      `json:"threads_override,omitempty"`
	TimeoutSecondsOverride int      `json:"timeout_seconds_override,omitempty"`
	GenerateDocsOverride   *bool    `json:"generate_docs_override,omitempty"`
	StepsOverride          []string `json:"steps_override,omitempty"`
}

// Run represents one triggered execution instance of a job
type Run struct {
	ID              int64     `json:"id"`
	TriggerID       int64     `json:"trigger_id,omitempty"`
	AccountID       int64     `json:"account_id"`
	ProjectID       int64     `json:"project_id,omitempty"`
	EnvironmentID   int64     `json:"environment_id,omitempty"`
	JobDefinitionID int64     `json:"job_definition_id"`
	Status          RunStatus `json:"status"`
	StatusMessage   string    `json:"status_message,omitempty"`
	DbtVersion      string    `json:"dbt_version,omitempty"`
	GitBranch       string    `json:"git_branch,omitempty"`
	GitSha          string    `json:"git_sha,omitempty"`
	Href            string    `json:"href,omitempty"`
	Duration        string    `json:"duration,omitempty"`
	QueuedDuration  string    `json:"queued_duration,omitempty"`
	RunDuration     string    `json:"run_duration,omitempty"`
	CreatedAt       string    `json:"created_at,omitempty"`
	UpdatedAt       string    `json:"updated_at,omitempty"`
	DequeuedAt      string    `json:"dequeued_at,omitempty"`
	StartedAt       string    `json:"started_at,omitempty"`
	FinishedAt      string    `json:"finished_at,omitempty"`
	IsComplete      bool      `json:"is_complete"`
	IsSuccess       bool      `json:"is_success"`
	IsError         bool      `json:"is_error"`
	IsCancelled     bool      `json:"is_cancelled"`

	// ArtifactURLs holds links to the artifacts generated by the run.
	// It is populated locally after a successful waited run and is not
	// part of the API payload.
	ArtifactURLs []string `json:"artifact_urls,omitempty"`
}

// ResponseStatus is the status block every dbt Cloud API response carries
type ResponseStatus struct {
	Code             int    `json:"code"`
	IsSuccess        bool   `json:"is_success"`
	UserMessage      string `json:"user_message,omitempty"`
	DeveloperMessage string `json:"developer_message,omitempty"`
}

// envelope is the generic response wrapper used by the dbt Cloud API:
// the payload of interest always lives under the "data" key.
type envelope[T any] struct {
	Status ResponseStatus `json:"status"`
	Data   T              `json:"data"`
}

// WaitOptions configures the polling loop of WaitForRun
type WaitOptions struct {
	// Interval is the fixed delay between status checks.
	// Defaults to DefaultPollInterval when zero.
	Interval time.Duration

	// MaxWait bounds the total time spent waiting for the run to reach a
	// terminal status. Zero means no bound.
	MaxWait time.Duration
}
