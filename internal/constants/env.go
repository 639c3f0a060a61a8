// Package constants provides centralized definitions of constants used throughout the application
package constants

// Environment variable names
const (
	// EnvAccountID is the environment variable containing the dbt Cloud account ID
	EnvAccountID = "ACCOUNT_ID"

	// EnvJobID is the environment variable containing the dbt Cloud job ID
	EnvJobID = "JOB_ID"

	// EnvToken is the environment variable containing the dbt Cloud API token
	EnvToken = "DBT_CLOUD_TOKEN"

	// EnvBaseURL is the environment variable overriding the dbt Cloud API base URL
	EnvBaseURL = "DBT_CLOUD_BASE_URL"
)
