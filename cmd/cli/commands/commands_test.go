package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCommand(cmds []*cobra.Command, name string) *cobra.Command {
	for _, c := range cmds {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

func TestRootCommand(t *testing.T) {
	subCmds := RootCmd.Commands()

	var subCmdNames []string
	for _, c := range subCmds {
		subCmdNames = append(subCmdNames, c.Name())
	}

	assert.Contains(t, subCmdNames, "jobs")
	assert.Contains(t, subCmdNames, "runs")

	// Connection flags live on the root
	assert.NotNil(t, RootCmd.PersistentFlags().Lookup(flagBaseURL))
	assert.NotNil(t, RootCmd.PersistentFlags().Lookup(flagAccountID))
	assert.NotNil(t, RootCmd.PersistentFlags().Lookup(flagToken))
}

func TestJobsCommand(t *testing.T) {
	subCmds := jobsCmd.Commands()
	assert.Equal(t, 2, len(subCmds), "Expected 2 subcommands")

	createCmd := findCommand(subCmds, "create")
	require.NotNil(t, createCmd)
	assert.NotNil(t, createCmd.Flags().Lookup("name"))
	assert.NotNil(t, createCmd.Flags().Lookup("project-id"))
	assert.NotNil(t, createCmd.Flags().Lookup("environment-id"))
	assert.NotNil(t, createCmd.Flags().Lookup("step"))
	assert.NotNil(t, createCmd.Flags().Lookup("generate-docs"))

	getCmd := findCommand(subCmds, "get")
	require.NotNil(t, getCmd)
	assert.NotNil(t, getCmd.Flags().Lookup("id"))
}

func TestRunsCommand(t *testing.T) {
	subCmds := runsCmd.Commands()
	assert.Equal(t, 3, len(subCmds), "Expected 3 subcommands")

	triggerCmd := findCommand(subCmds, "trigger")
	require.NotNil(t, triggerCmd)
	assert.NotNil(t, triggerCmd.Flags().Lookup("job-id"))
	assert.NotNil(t, triggerCmd.Flags().Lookup("cause"))
	assert.NotNil(t, triggerCmd.Flags().Lookup("wait"))
	assert.NotNil(t, triggerCmd.Flags().Lookup("interval"))
	assert.NotNil(t, triggerCmd.Flags().Lookup("max-wait"))

	getCmd := findCommand(subCmds, "get")
	require.NotNil(t, getCmd)
	assert.NotNil(t, getCmd.Flags().Lookup("id"))

	artifactsCmd := findCommand(subCmds, "artifacts")
	require.NotNil(t, artifactsCmd)
	assert.NotNil(t, artifactsCmd.Flags().Lookup("id"))
}
