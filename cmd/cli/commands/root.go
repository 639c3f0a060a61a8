package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pipelinehq/dbtcloud-go/config"
	"github.com/pipelinehq/dbtcloud-go/internal/constants"
	"github.com/pipelinehq/dbtcloud-go/pkg/dbtcloud"
)

// flag names
const (
	flagBaseURL   = "base-url"
	flagAccountID = "account-id"
	flagToken     = "token"
)

var (
	// apiClient is the shared API client instance
	apiClient *dbtcloud.APIClient

	// connection settings, filled by flag parsing
	baseURL   string
	accountID int64
	token     string
)

// initClient initializes the shared API client
func initClient() error {
	opts := dbtcloud.DefaultOptions()
	opts.BaseURL = baseURL
	opts.AccountID = accountID
	opts.Token = token

	var err error
	apiClient, err = dbtcloud.NewClient(opts)
	return err
}

func init() {
	RootCmd.PersistentFlags().StringVar(&baseURL, flagBaseURL, dbtcloud.DefaultBaseURL, "Base URL of the dbt Cloud API (env: DBT_CLOUD_BASE_URL)")
	RootCmd.PersistentFlags().Int64Var(&accountID, flagAccountID, 0, "dbt Cloud account ID (env: ACCOUNT_ID)")
	RootCmd.PersistentFlags().StringVar(&token, flagToken, "", "dbt Cloud API token (env: DBT_CLOUD_TOKEN)")

	RootCmd.AddCommand(GetJobsCmd())
	RootCmd.AddCommand(GetRunsCmd())
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "dbtcloud",
	Short: "dbtcloud - A command line interface for the dbt Cloud API",
	Long: `dbtcloud is a command line tool for creating dbt Cloud jobs and
triggering job runs through the dbt Cloud Administrative API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Flag > env var > default
		if !cmd.Flags().Changed(flagBaseURL) {
			baseURL = config.GetEnv(constants.EnvBaseURL, baseURL)
		}
		if !cmd.Flags().Changed(flagAccountID) {
			if envAccount := config.GetEnv(constants.EnvAccountID, ""); envAccount != "" {
				id, err := strconv.ParseInt(envAccount, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid account ID in env var %s: %w", constants.EnvAccountID, err)
				}
				accountID = id
			}
		}
		if !cmd.Flags().Changed(flagToken) {
			token = config.GetEnv(constants.EnvToken, token)
		}

		return initClient()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}
