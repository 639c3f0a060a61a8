package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipelinehq/dbtcloud-go/pkg/dbtcloud"
	"github.com/pipelinehq/dbtcloud-go/pkg/tasks"
)

// jobOutput represents the filtered output for a job
type jobOutput struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	ProjectID    int64    `json:"project_id"`
	ExecuteSteps []string `json:"execute_steps"`
}

func init() {
	jobsCmd.AddCommand(createJobCmd)
	jobsCmd.AddCommand(getJobCmd)

	// Add flags
	createJobCmd.Flags().StringP("name", "n", "", "Name of the job")
	createJobCmd.Flags().Int64P("project-id", "p", 0, "Project the job belongs to")
	createJobCmd.Flags().Int64P("environment-id", "e", 0, "Environment the job runs in")
	createJobCmd.Flags().StringSliceP("step", "x", nil, "dbt command to execute (repeatable, in order)")
	createJobCmd.Flags().Bool("generate-docs", false, "Run `dbt docs generate` after the job")
	createJobCmd.Flags().String("dbt-version", "", "Override the dbt version of the environment")
	createJobCmd.Flags().String("target-name", "", "Target name setting for the job")
	createJobCmd.Flags().Int("threads", 0, "Thread count setting for the job")
	_ = createJobCmd.MarkFlagRequired("name")
	_ = createJobCmd.MarkFlagRequired("project-id")
	_ = createJobCmd.MarkFlagRequired("environment-id")
	_ = createJobCmd.MarkFlagRequired("step")

	getJobCmd.Flags().Int64P("id", "i", 0, "Job ID to fetch")
	_ = getJobCmd.MarkFlagRequired("id")
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage dbt Cloud jobs",
}

var createJobCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		name, _ := cmd.Flags().GetString("name")
		projectID, _ := cmd.Flags().GetInt64("project-id")
		environmentID, _ := cmd.Flags().GetInt64("environment-id")
		steps, _ := cmd.Flags().GetStringSlice("step")
		generateDocs, _ := cmd.Flags().GetBool("generate-docs")
		dbtVersion, _ := cmd.Flags().GetString("dbt-version")
		targetName, _ := cmd.Flags().GetString("target-name")
		threads, _ := cmd.Flags().GetInt("threads")

		params := tasks.CreateJobParams{
			Name:          name,
			ProjectID:     projectID,
			EnvironmentID: environmentID,
			ExecuteSteps:  steps,
			GenerateDocs:  generateDocs,
			DbtVersion:    dbtVersion,
			BaseURL:       baseURL,
			AccountID:     accountID,
			Token:         token,
		}
		if targetName != "" || threads > 0 {
			params.Settings = &dbtcloud.JobSettings{
				TargetName: targetName,
				Threads:    threads,
			}
		}

		job, err := tasks.CreateJob(context.Background(), params)
		if err != nil {
			return fmt.Errorf("error creating job: %w", err)
		}

		return printJob(job)
	},
}

var getJobCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a specific job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobID, _ := cmd.Flags().GetInt64("id")

		job, err := apiClient.GetJob(context.Background(), jobID)
		if err != nil {
			return fmt.Errorf("error fetching job: %w", err)
		}

		return printJob(job)
	},
}

func printJob(job *dbtcloud.Job) error {
	output := jobOutput{
		ID:           job.ID,
		Name:         job.Name,
		ProjectID:    job.ProjectID,
		ExecuteSteps: job.ExecuteSteps,
	}

	prettyJSON, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("error formatting response: %w", err)
	}
	fmt.Println(string(prettyJSON))
	return nil
}

// GetJobsCmd returns the jobs command
func GetJobsCmd() *cobra.Command {
	return jobsCmd
}
