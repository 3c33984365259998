package api

import "context"

// TokenBalance returns the balance of one token held by a script hash
func (c *Client) TokenBalance(ctx context.Context, scriptHash, tick string, opts ...CallOption) (Balance, error) {
	req := TokenBalanceRequest{ScriptHash: scriptHash, Tick: tick}
	return call[TokenBalanceRequest, Balance](ctx, c, EndpointTokenBalance, req, opts)
}

// TokenList lists the tokens held by a script hash
func (c *Client) TokenList(ctx context.Context, scriptHash string, opts ...CallOption) ([]Token, error) {
	return call[ScriptHashRequest, []Token](ctx, c, EndpointTokenList, ScriptHashRequest{ScriptHash: scriptHash}, opts)
}

// AllTokens returns the indexer's token directory
func (c *Client) AllTokens(ctx context.Context, opts ...CallOption) ([]TokenInfo, error) {
	return call[emptyRequest, []TokenInfo](ctx, c, EndpointAllTokens, emptyRequest{}, opts)
}

// TokenInfo describes a token by ticker
func (c *Client) TokenInfo(ctx context.Context, tick string, opts ...CallOption) (TokenInfo, error) {
	return call[TokenInfoRequest, TokenInfo](ctx, c, EndpointTokenInfo, TokenInfoRequest{Tick: tick}, opts)
}
