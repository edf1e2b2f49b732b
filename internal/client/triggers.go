package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"

	"github.com/adamavenir/noci/internal/state"
	"github.com/adamavenir/noci/internal/types"
)

// ListTriggers returns all triggers sorted by name.
func (c *Client) ListTriggers(ctx context.Context, inst *state.Instance, ongoing bool) ([]types.Trigger, error) {
	var query url.Values
	if ongoing {
		query = url.Values{}
		query.Set("ongoing", "true")
	}
	var raw map[string]json.RawMessage
	if err := c.Do(ctx, inst, http.MethodGet, "/triggers", query, nil, &raw); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)
	triggers := make([]types.Trigger, 0, len(names))
	for _, name := range names {
		triggers = append(triggers, types.Trigger{Name: name, Payload: raw[name]})
	}
	return triggers, nil
}

// GetTrigger returns the description of a trigger.
func (c *Client) GetTrigger(ctx context.Context, inst *state.Instance, name string) (types.Trigger, error) {
	var raw json.RawMessage
	if err := c.Do(ctx, inst, http.MethodGet, triggerPath(name), nil, nil, &raw); err != nil {
		return types.Trigger{}, err
	}
	return types.Trigger{Name: name, Payload: raw}, nil
}

// CreateTrigger creates (or replaces) a trigger.
func (c *Client) CreateTrigger(ctx context.Context, inst *state.Instance, name string, payload json.RawMessage) (types.Trigger, error) {
	var raw json.RawMessage
	if err := c.Do(ctx, inst, http.MethodPost, triggerPath(name), nil, payload, &raw); err != nil {
		return types.Trigger{}, err
	}
	return types.Trigger{Name: name, Payload: raw}, nil
}

// DeleteTrigger removes a trigger.
func (c *Client) DeleteTrigger(ctx context.Context, inst *state.Instance, name string) error {
	return c.Do(ctx, inst, http.MethodDelete, triggerPath(name), nil, nil, nil)
}

// RunTrigger starts a job from a trigger with optional query parameters.
func (c *Client) RunTrigger(ctx context.Context, inst *state.Instance, name string, params map[string]string) (types.Job, error) {
	query := url.Values{}
	for k, v := range params {
		query.Set(k, v)
	}
	var job types.Job
	if err := c.Do(ctx, inst, http.MethodPost, triggerPath(name)+"/job", query, struct{}{}, &job); err != nil {
		return types.Job{}, err
	}
	return job, nil
}

func triggerPath(name string) string {
	return "/triggers/" + url.PathEscape(name)
}
