package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/adamavenir/noci/internal/state"
	"github.com/adamavenir/noci/internal/types"
)

// ListJobs returns up to limit recent jobs.
func (c *Client) ListJobs(ctx context.Context, inst *state.Instance, limit int) ([]types.Job, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var jobs []types.Job
	if err := c.Do(ctx, inst, http.MethodGet, "/jobs", query, nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// GetJob fetches a job with its params.
func (c *Client) GetJob(ctx context.Context, inst *state.Instance, key string) (types.Job, error) {
	query := url.Values{}
	query.Set("full", "true")
	var job types.Job
	if err := c.Do(ctx, inst, http.MethodGet, jobPath(key), query, nil, &job); err != nil {
		return types.Job{}, err
	}
	return job, nil
}

// JobLog fetches a job with the log lines starting at offset start.
func (c *Client) JobLog(ctx context.Context, inst *state.Instance, key string, start int) (types.Job, error) {
	query := url.Values{}
	query.Set("start", strconv.Itoa(start))
	var job types.Job
	if err := c.Do(ctx, inst, http.MethodGet, jobPath(key), query, nil, &job); err != nil {
		return types.Job{}, err
	}
	return job, nil
}

// StartJob starts a job from an arbitrary JSON payload.
func (c *Client) StartJob(ctx context.Context, inst *state.Instance, payload json.RawMessage) (types.Job, error) {
	var job types.Job
	if err := c.Do(ctx, inst, http.MethodPost, "/jobs", nil, payload, &job); err != nil {
		return types.Job{}, err
	}
	return job, nil
}

// JobAction performs a named action on a job.
func (c *Client) JobAction(ctx context.Context, inst *state.Instance, key, action string, req types.ActionRequest) (types.Job, error) {
	var job types.Job
	path := jobPath(key) + "/actions/" + url.PathEscape(action)
	if err := c.Do(ctx, inst, http.MethodPut, path, nil, req, &job); err != nil {
		return types.Job{}, err
	}
	return job, nil
}

func jobPath(key string) string {
	return "/jobs/" + url.PathEscape(key)
}
