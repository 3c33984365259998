package api

import (
	"context"
	"encoding/json"
	"fmt"
)

// call runs ep with req as its payload and decodes the response into Resp.
// Every typed method goes through here, so they share one retry contract.
func call[Req, Resp any](ctx context.Context, c *Client, ep Endpoint, req Req, opts []CallOption) (Resp, error) {
	var result Resp

	raw, err := c.execute(ctx, ep, req, opts)
	if err != nil {
		return result, err
	}

	if err := json.Unmarshal(raw, &result); err != nil {
		return result, fmt.Errorf("failed to parse %s response: %w", ep.Path, err)
	}
	return result, nil
}
