package dbtcloud

import (
	"context"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockDbtCloud simulates the subset of the dbt Cloud API the client uses,
// backed by a Fiber app so the full request path is exercised.
type mockDbtCloud struct {
	mu      sync.Mutex
	nextJob int64
	jobs    map[int64]Job
	runs    map[int64]*Run
	nextRun int64
	polls   map[int64]int
}

func newMockDbtCloud(t *testing.T) (*mockDbtCloud, *httptest.Server) {
	t.Helper()

	m := &mockDbtCloud{
		nextJob: 100,
		nextRun: 9000,
		jobs:    make(map[int64]Job),
		runs:    make(map[int64]*Run),
		polls:   make(map[int64]int),
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	accounts := app.Group("/api/v2/accounts/:account")

	accounts.Post("/jobs/", func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) != "Bearer "+testToken {
			return c.Status(fiber.StatusUnauthorized).SendString("invalid token")
		}

		var req CreateJobRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		}

		m.mu.Lock()
		m.nextJob++
		job := Job{
			ID:            m.nextJob,
			AccountID:     req.AccountID,
			ProjectID:     req.ProjectID,
			EnvironmentID: req.EnvironmentID,
			Name:          req.Name,
			ExecuteSteps:  req.ExecuteSteps,
			GenerateDocs:  req.GenerateDocs,
			State:         req.State,
		}
		m.jobs[job.ID] = job
		m.mu.Unlock()

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"status": fiber.Map{"code": fiber.StatusCreated, "is_success": true},
			"data":   job,
		})
	})

	accounts.Post("/jobs/:job/run/", func(c *fiber.Ctx) error {
		jobID, err := strconv.ParseInt(c.Params("job"), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		}

		var req TriggerRunRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		}
		if req.Cause == "" {
			return c.Status(fiber.StatusBadRequest).SendString("cause is required")
		}

		m.mu.Lock()
		m.nextRun++
		run := &Run{
			ID:              m.nextRun,
			AccountID:       testAccountID,
			JobDefinitionID: jobID,
			Status:          RunStatusQueued,
		}
		m.runs[run.ID] = run
		m.mu.Unlock()

		return c.JSON(fiber.Map{
			"status": fiber.Map{"code": fiber.StatusOK, "is_success": true},
			"data":   run,
		})
	})

	accounts.Get("/runs/:run/", func(c *fiber.Ctx) error {
		runID, err := strconv.ParseInt(c.Params("run"), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		}

		m.mu.Lock()
		run, ok := m.runs[runID]
		if ok {
			// Advance queued -> running -> success, one step per poll
			m.polls[runID]++
			switch m.polls[runID] {
			case 1:
				run.Status = RunStatusQueued
			case 2:
				run.Status = RunStatusRunning
			default:
				run.Status = RunStatusSuccess
				run.IsComplete = true
				run.IsSuccess = true
			}
		}
		m.mu.Unlock()

		if !ok {
			return c.Status(fiber.StatusNotFound).SendString("run not found")
		}
		return c.JSON(fiber.Map{
			"status": fiber.Map{"code": fiber.StatusOK, "is_success": true},
			"data":   run,
		})
	})

	accounts.Get("/runs/:run/artifacts/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": fiber.Map{"code": fiber.StatusOK, "is_success": true},
			"data":   []string{"manifest.json", "run_results.json"},
		})
	})

	server := httptest.NewServer(adaptor.FiberApp(app))
	t.Cleanup(server.Close)

	return m, server
}

func TestClientAgainstMockServer(t *testing.T) {
	mock, server := newMockDbtCloud(t)

	client := newTestClient(t, server.URL)
	client.sleep = func(context.Context, time.Duration) error { return nil }

	ctx := context.Background()

	// Create a job
	job, err := client.CreateJob(ctx, CreateJobRequest{
		ProjectID:     7,
		EnvironmentID: 12,
		Name:          "nightly build",
		ExecuteSteps:  []string{"dbt run", "dbt test"},
		GenerateDocs:  true,
	})
	require.NoError(t, err)
	assert.NotZero(t, job.ID)
	assert.Equal(t, testAccountID, job.AccountID)

	// Trigger a run of it
	run, err := client.TriggerRun(ctx, job.ID, TriggerRunRequest{Cause: "integration test"})
	require.NoError(t, err)
	assert.Equal(t, job.ID, run.JobDefinitionID)
	assert.Equal(t, RunStatusQueued, run.Status)

	// Wait for completion; the mock advances one status per poll
	final, err := client.WaitForRun(ctx, run.ID, WaitOptions{Interval: time.Millisecond})
	require.NoError(t, err)
	assert.Equal(t, RunStatusSuccess, final.Status)
	assert.True(t, final.IsSuccess)

	mock.mu.Lock()
	polls := mock.polls[run.ID]
	mock.mu.Unlock()
	assert.Equal(t, 3, polls)

	// Collect artifact links
	paths, err := client.ListRunArtifacts(ctx, run.ID)
	require.NoError(t, err)
	urls := client.RunArtifactURLs(run.ID, paths)
	require.Len(t, urls, 2)
	assert.Contains(t, urls[0], "/artifacts/manifest.json")
}
