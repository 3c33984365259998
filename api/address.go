package api

import "context"

// Balance returns the confirmed and unconfirmed balance of a script hash
func (c *Client) Balance(ctx context.Context, scriptHash string, opts ...CallOption) (Balance, error) {
	return call[ScriptHashRequest, Balance](ctx, c, EndpointBalance, ScriptHashRequest{ScriptHash: scriptHash}, opts)
}

// Utxos lists unspent outputs for the given script hashes. minSatoshis is
// optional and omitted from the request when nil.
func (c *Client) Utxos(ctx context.Context, scriptHashes []string, minSatoshis *uint64, opts ...CallOption) ([]Utxo, error) {
	req := UtxosRequest{ScriptHashes: scriptHashes, MinSatoshis: minSatoshis}
	return call[UtxosRequest, []Utxo](ctx, c, EndpointUtxos, req, opts)
}

// Refresh asks the indexer to fetch the history of a script hash again
func (c *Client) Refresh(ctx context.Context, scriptHash string, opts ...CallOption) (StatusMessage, error) {
	return call[ScriptHashRequest, StatusMessage](ctx, c, EndpointRefresh, ScriptHashRequest{ScriptHash: scriptHash}, opts)
}

// Reset drops what the indexer holds for a script hash
func (c *Client) Reset(ctx context.Context, scriptHash string, opts ...CallOption) (StatusMessage, error) {
	return call[ScriptHashRequest, StatusMessage](ctx, c, EndpointReset, ScriptHashRequest{ScriptHash: scriptHash}, opts)
}

// Txos lists outputs of the given type for an address
func (c *Client) Txos(ctx context.Context, address, outputType string, opts ...CallOption) ([]TxOutput, error) {
	return call[TxosRequest, []TxOutput](ctx, c, EndpointTxos, TxosRequest{Address: address, Type: outputType}, opts)
}
