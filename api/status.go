package api

import (
	"context"
	"encoding/json"
	"strings"
)

// Health checks that the indexer is up and returns its status string
func (c *Client) Health(ctx context.Context, opts ...CallOption) (string, error) {
	raw, err := c.execute(ctx, EndpointHealth, map[string]any(nil), opts)
	if err != nil {
		return "", err
	}

	// some deployments answer with plain text rather than a JSON string
	var status string
	if err := json.Unmarshal(raw, &status); err != nil {
		return strings.TrimSpace(string(raw)), nil
	}
	return status, nil
}

// GetFeePerKb fetches the indexer's fee schedule
func (c *Client) GetFeePerKb(ctx context.Context, opts ...CallOption) (Fees, error) {
	return call[map[string]any, Fees](ctx, c, EndpointFees, nil, opts)
}

// BestBlock returns the header of the indexer's best block
func (c *Client) BestBlock(ctx context.Context, opts ...CallOption) (BlockHeader, error) {
	return call[emptyRequest, BlockHeader](ctx, c, EndpointBestHeader, emptyRequest{}, opts)
}
