package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pipelinehq/dbtcloud-go/pkg/dbtcloud"
	"github.com/pipelinehq/dbtcloud-go/pkg/tasks"
)

// runOutput represents the filtered output for a run
type runOutput struct {
	ID           int64    `json:"id"`
	JobID        int64    `json:"job_id"`
	Status       string   `json:"status"`
	FinishedAt   string   `json:"finished_at,omitempty"`
	ArtifactURLs []string `json:"artifact_urls,omitempty"`
}

func init() {
	runsCmd.AddCommand(triggerRunCmd)
	runsCmd.AddCommand(getRunCmd)
	runsCmd.AddCommand(runArtifactsCmd)

	// Add flags
	triggerRunCmd.Flags().Int64P("job-id", "j", 0, "Job to trigger")
	triggerRunCmd.Flags().StringP("cause", "c", "", "Reason for triggering the run")
	triggerRunCmd.Flags().BoolP("wait", "w", false, "Wait for the run to reach a terminal status")
	triggerRunCmd.Flags().Duration("interval", dbtcloud.DefaultPollInterval, "Delay between status checks while waiting")
	triggerRunCmd.Flags().Duration("max-wait", time.Hour, "Maximum time to wait for completion (0 = no bound)")
	triggerRunCmd.Flags().String("git-branch", "", "Git branch override for this run")
	triggerRunCmd.Flags().String("git-sha", "", "Git SHA override for this run")
	triggerRunCmd.Flags().StringSlice("step-override", nil, "dbt command overriding the job steps (repeatable)")
	_ = triggerRunCmd.MarkFlagRequired("job-id")
	_ = triggerRunCmd.MarkFlagRequired("cause")

	getRunCmd.Flags().Int64P("id", "i", 0, "Run ID to fetch")
	_ = getRunCmd.MarkFlagRequired("id")

	runArtifactsCmd.Flags().Int64P("id", "i", 0, "Run ID to list artifacts for")
	_ = runArtifactsCmd.MarkFlagRequired("id")
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Trigger and inspect job runs",
}

var triggerRunCmd = &cobra.Command{
	Use:   "trigger",
	Short: "Trigger a run of a job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobID, _ := cmd.Flags().GetInt64("job-id")
		cause, _ := cmd.Flags().GetString("cause")
		wait, _ := cmd.Flags().GetBool("wait")
		interval, _ := cmd.Flags().GetDuration("interval")
		maxWait, _ := cmd.Flags().GetDuration("max-wait")
		gitBranch, _ := cmd.Flags().GetString("git-branch")
		gitSha, _ := cmd.Flags().GetString("git-sha")
		stepsOverride, _ := cmd.Flags().GetStringSlice("step-override")

		params := tasks.RunJobParams{
			Cause:             cause,
			JobID:             jobID,
			BaseURL:           baseURL,
			AccountID:         accountID,
			Token:             token,
			WaitForCompletion: wait,
			PollInterval:      interval,
			MaxWait:           maxWait,
		}
		if gitBranch != "" || gitSha != "" || len(stepsOverride) > 0 {
			params.Overrides = &dbtcloud.TriggerRunRequest{
				GitBranch:     gitBranch,
				GitSha:        gitSha,
				StepsOverride: stepsOverride,
			}
		}

		run, err := tasks.RunJob(context.Background(), params)
		if err != nil {
			return fmt.Errorf("error running job: %w", err)
		}

		return printRun(run)
	},
}

var getRunCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a specific run",
	RunE: func(cmd *cobra.Command, _ []string) error {
		runID, _ := cmd.Flags().GetInt64("id")

		run, err := apiClient.GetRun(context.Background(), runID)
		if err != nil {
			return fmt.Errorf("error fetching run: %w", err)
		}

		return printRun(run)
	},
}

var runArtifactsCmd = &cobra.Command{
	Use:   "artifacts",
	Short: "List the artifact links of a run",
	RunE: func(cmd *cobra.Command, _ []string) error {
		runID, _ := cmd.Flags().GetInt64("id")

		paths, err := apiClient.ListRunArtifacts(context.Background(), runID)
		if err != nil {
			return fmt.Errorf("error listing run artifacts: %w", err)
		}

		for _, url := range apiClient.RunArtifactURLs(runID, paths) {
			fmt.Println(url)
		}
		return nil
	},
}

func printRun(run *dbtcloud.Run) error {
	output := runOutput{
		ID:           run.ID,
		JobID:        run.JobDefinitionID,
		Status:       run.Status.String(),
		FinishedAt:   run.FinishedAt,
		ArtifactURLs: run.ArtifactURLs,
	}

	prettyJSON, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("error formatting response: %w", err)
	}
	fmt.Println(string(prettyJSON))
	return nil
}

// GetRunsCmd returns the runs command
func GetRunsCmd() *cobra.Command {
	return runsCmd
}
