package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/adamavenir/noci/internal/state"
	"github.com/adamavenir/noci/internal/types"
)

// Login exchanges credentials for a token. The token is returned verbatim.
func (c *Client) Login(ctx context.Context, inst *state.Instance, username, password string) (string, error) {
	var resp types.AuthResponse
	req := types.AuthRequest{Username: username, Password: password}
	if err := c.Do(ctx, inst, http.MethodPost, "/auth", nil, req, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("server returned no token")
	}
	return resp.Token, nil
}

// SealStatus reports whether the secrets subsystem is unsealed.
func (c *Client) SealStatus(ctx context.Context, inst *state.Instance) (bool, error) {
	var resp types.UnsealStatus
	if err := c.Do(ctx, inst, http.MethodGet, "/unseal", nil, nil, &resp); err != nil {
		return false, err
	}
	return resp.Status, nil
}

// Unseal submits the unseal secret and reports whether unsealing succeeded.
func (c *Client) Unseal(ctx context.Context, inst *state.Instance, secret string) (bool, error) {
	var resp types.UnsealStatus
	req := types.UnsealRequest{Secret: secret}
	if err := c.Do(ctx, inst, http.MethodPost, "/unseal", nil, req, &resp); err != nil {
		return false, err
	}
	return resp.Status, nil
}
