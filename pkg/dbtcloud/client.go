// Package dbtcloud provides a typed client for the dbt Cloud
// Administrative API: creating jobs, triggering job runs, and polling
// runs until they reach a terminal status.
package dbtcloud

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	fiber "github.com/gofiber/fiber/v2"
)

// DefaultTimeout is the default timeout for API requests
const DefaultTimeout = 30 * time.Second

// DefaultPollInterval is the default delay between run status checks
const DefaultPollInterval = 10 * time.Second

// Client is the interface for the dbt Cloud API client
type Client interface {
	// Job endpoints
	CreateJob(ctx context.Context, req CreateJobRequest) (*Job, error)
	GetJob(ctx context.Context, jobID int64) (*Job, error)

	// Run endpoints
	TriggerRun(ctx context.Context, jobID int64, req TriggerRunRequest) (*Run, error)
	GetRun(ctx context.Context, runID int64) (*Run, error)
	ListRunArtifacts(ctx context.Context, runID int64) ([]string, error)

	// WaitForRun polls the run status at a fixed interval until the run
	// reaches a terminal status or the wait is cancelled
	WaitForRun(ctx context.Context, runID int64, opts WaitOptions) (*Run, error)
}

var _ Client = &APIClient{}

// Options contains configuration options for the API client
type Options struct {
	// BaseURL is the base URL of the API. Defaults to the hosted
	// dbt Cloud endpoint.
	BaseURL string

	// AccountID is the dbt Cloud account every request is scoped to
	AccountID int64

	// Token is the API token attached to every request
	Token string

	// Timeout is the request timeout
	Timeout time.Duration
}

// DefaultOptions returns the default client options
func DefaultOptions() *Options {
	return &Options{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// APIClient implements the Client interface
type APIClient struct {
	baseURL   string
	accountID int64
	token     string
	timeout   time.Duration

	// sleep waits between poll attempts; overridable in tests
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a new API client with the given options
func NewClient(opts *Options) (*APIClient, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	// Validate the base URL
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	if opts.AccountID == 0 {
		return nil, fmt.Errorf("account ID is required")
	}
	if opts.Token == "" {
		return nil, fmt.Errorf("API token is required")
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &APIClient{
		baseURL:   baseURL,
		accountID: opts.AccountID,
		token:     opts.Token,
		timeout:   timeout,
		sleep:     sleepWithContext,
	}, nil
}

// AccountID returns the account the client is scoped to
func (c *APIClient) AccountID() int64 {
	return c.accountID
}

// createAgent creates a new Fiber Agent for the given method and endpoint
func (c *APIClient) createAgent(ctx context.Context, method, endpoint string, body interface{}) (*fiber.Agent, error) {
	// Resolve the endpoint URL
	fullURL := c.baseURL + endpoint

	// Create a new agent based on the HTTP method
	var agent *fiber.Agent
	switch method {
	case http.MethodGet:
		agent = fiber.Get(fullURL)
	case http.MethodPost:
		agent = fiber.Post(fullURL)
	case http.MethodDelete:
		agent = fiber.Delete(fullURL)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s", method)
	}

	// Set timeout from context or client default
	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	} else {
		agent.Timeout(c.timeout)
	}

	// Set common headers
	agent.Set(fiber.HeaderAuthorization, "Bearer "+c.token)
	agent.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)

	// Add body if provided
	if body != nil {
		agent.JSON(body)
	}

	return agent, nil
}

// doRequest sends the HTTP request and processes the response
func (c *APIClient) doRequest(agent *fiber.Agent, v interface{}) error {
	// Execute the request
	statusCode, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("error sending request: %w", errs[0])
	}

	// Check for non-success status codes. The raw body is kept as the
	// error message so callers see what the API reported.
	if statusCode < 200 || statusCode >= 300 {
		return &fiber.Error{
			Code:    statusCode,
			Message: string(body),
		}
	}

	// Decode the response body if a target is provided
	if v != nil && len(body) > 0 {
		if err := json.Unmarshal(body, v); err != nil {
			return fmt.Errorf("error decoding response: %w", err)
		}
	}

	return nil
}

// executeRequest creates an agent, sends the request, and processes the response
func (c *APIClient) executeRequest(ctx context.Context, method, endpoint string, body, response interface{}) error {
	agent, err := c.createAgent(ctx, method, endpoint, body)
	if err != nil {
		return err
	}

	return c.doRequest(agent, response)
}

// Job methods implementation

// CreateJob creates a new job scoped to the client's account.
// The API assigns the job its identifier.
func (c *APIClient) CreateJob(ctx context.Context, req CreateJobRequest) (*Job, error) {
	req.ID = nil
	req.AccountID = c.accountID
	if req.State == 0 {
		req.State = 1 // active
	}

	var response envelope[Job]
	if err := c.executeRequest(ctx, http.MethodPost, JobsURL(c.accountID), req, &response); err != nil {
		return nil, err
	}
	return &response.Data, nil
}

// GetJob retrieves a job by ID
func (c *APIClient) GetJob(ctx context.Context, jobID int64) (*Job, error) {
	var response envelope[Job]
	if err := c.executeRequest(ctx, http.MethodGet, JobURL(c.accountID, jobID), nil, &response); err != nil {
		return nil, err
	}
	return &response.Data, nil
}

// Run methods implementation

// TriggerRun triggers a new run of the given job. Triggering is not
// idempotent: calling it twice creates two runs.
func (c *APIClient) TriggerRun(ctx context.Context, jobID int64, req TriggerRunRequest) (*Run, error) {
	if req.Cause == "" {
		return nil, fmt.Errorf("cause is required to trigger a run")
	}

	var response envelope[Run]
	if err := c.executeRequest(ctx, http.MethodPost, TriggerRunURL(c.accountID, jobID), req, &response); err != nil {
		return nil, err
	}
	return &response.Data, nil
}

// GetRun retrieves a run by ID
func (c *APIClient) GetRun(ctx context.Context, runID int64) (*Run, error) {
	var response envelope[Run]
	if err := c.executeRequest(ctx, http.MethodGet, RunURL(c.accountID, runID), nil, &response); err != nil {
		return nil, err
	}
	return &response.Data, nil
}

// ListRunArtifacts lists the artifact paths generated by a run
func (c *APIClient) ListRunArtifacts(ctx context.Context, runID int64) ([]string, error) {
	var response envelope[[]string]
	if err := c.executeRequest(ctx, http.MethodGet, RunArtifactsURL(c.accountID, runID), nil, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// RunArtifactURLs builds the download links for the given artifact paths
func (c *APIClient) RunArtifactURLs(runID int64, paths []string) []string {
	urls := make([]string, len(paths))
	for i, path := range paths {
		urls[i] = c.baseURL + RunArtifactURL(c.accountID, runID, path)
	}
	return urls
}
