package dbtcloud

import (
	"fmt"
)

// API base configuration
const (
	// APIv2Prefix is the prefix for all dbt Cloud Administrative API v2 endpoints
	APIv2Prefix = "/api/v2"

	// DefaultBaseURL is the base URL of the hosted dbt Cloud API
	DefaultBaseURL = "https://cloud.getdbt.com"
)

// JobsURL returns the URL for the jobs collection of an account
func JobsURL(accountID int64) string {
	return fmt.Sprintf("%s/accounts/%d/jobs/", APIv2Prefix, accountID)
}

// JobURL returns the URL for a single job
func JobURL(accountID, jobID int64) string {
	return fmt.Sprintf("%s/accounts/%d/jobs/%d/", APIv2Prefix, accountID, jobID)
}

// TriggerRunURL returns the URL for triggering a run of a job
func TriggerRunURL(accountID, jobID int64) string {
	return fmt.Sprintf("%s/accounts/%d/jobs/%d/run/", APIv2Prefix, accountID, jobID)
}

// RunURL returns the URL for fetching a single run
func RunURL(accountID, runID int64) string {
	return fmt.Sprintf("%s/accounts/%d/runs/%d/", APIv2Prefix, accountID, runID)
}

// RunArtifactsURL returns the URL for listing the artifact paths of a run
func RunArtifactsURL(accountID, runID int64) string {
	return fmt.Sprintf("%s/accounts/%d/runs/%d/artifacts/", APIv2Prefix, accountID, runID)
}

// RunArtifactURL returns the URL for fetching a single run artifact by path.
// Artifact paths may contain slashes and are used verbatim as path segments.
func RunArtifactURL(accountID, runID int64, path string) string {
	return fmt.Sprintf("%s/accounts/%d/runs/%d/artifacts/%s", APIv2Prefix, accountID, runID, path)
}
