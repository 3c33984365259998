package api

import "context"

// Tx fetches a transaction by id
func (c *Client) Tx(ctx context.Context, txID string, opts ...CallOption) (Transaction, error) {
	return call[TxRequest, Transaction](ctx, c, EndpointTx, TxRequest{TxID: txID}, opts)
}

// Txo fetches a single output of a transaction
func (c *Client) Txo(ctx context.Context, txID string, outputIndex uint32, opts ...CallOption) (TxOutput, error) {
	return call[TxoRequest, TxOutput](ctx, c, EndpointTxo, TxoRequest{TxID: txID, OutputIndex: outputIndex}, opts)
}

// Broadcast sends a signed raw transaction through the indexer.
// Like every other call it is retried on failure, so callers that need
// at-most-once submission should pass WithMaxAttempts(1).
func (c *Client) Broadcast(ctx context.Context, rawHex string, opts ...CallOption) (BroadcastResult, error) {
	return call[BroadcastRequest, BroadcastResult](ctx, c, EndpointBroadcast, BroadcastRequest{RawHex: rawHex}, opts)
}
