package api

import (
	"net/http"
	"time"
)

// retry defaults
const (
	// DefaultMaxAttempts keeps retrying for roughly 83 minutes at the default delay
	DefaultMaxAttempts uint          = 1000
	DefaultRetryDelay  time.Duration = 5 * time.Second
)

// transport defaults
const (
	DefaultHTTPTimeout = 30 * time.Second
)

// placeholderAPIKey is the key older clients shipped as a built-in default.
const placeholderAPIKey = "1234567890"

// Endpoint is one indexer command: the path relative to the base host and the verb.
type Endpoint struct {
	Path   string
	Method string
}

// indexer endpoints
var (
	EndpointHealth       = Endpoint{Path: "health", Method: http.MethodGet}
	EndpointFees         = Endpoint{Path: "fees", Method: http.MethodGet}
	EndpointBalance      = Endpoint{Path: "balance", Method: http.MethodPost}
	EndpointTokenBalance = Endpoint{Path: "token-balance", Method: http.MethodPost}
	EndpointTokenList    = Endpoint{Path: "token-list", Method: http.MethodPost}
	EndpointUtxos        = Endpoint{Path: "utxos", Method: http.MethodPost}
	EndpointTx           = Endpoint{Path: "tx", Method: http.MethodPost}
	EndpointRefresh      = Endpoint{Path: "fetch-history", Method: http.MethodPost}
	EndpointReset        = Endpoint{Path: "reset", Method: http.MethodPost}
	EndpointTxo          = Endpoint{Path: "txo", Method: http.MethodPost}
	EndpointTxos         = Endpoint{Path: "txos", Method: http.MethodPost}
	EndpointBroadcast    = Endpoint{Path: "broadcast", Method: http.MethodPost}
	EndpointBestHeader   = Endpoint{Path: "best-header", Method: http.MethodPost}
	EndpointAllTokens    = Endpoint{Path: "all-n20-tokens", Method: http.MethodPost}
	EndpointTokenInfo    = Endpoint{Path: "token-info", Method: http.MethodPost}
)

// Endpoints lists every command the client knows about.
var Endpoints = []Endpoint{
	EndpointHealth,
	EndpointFees,
	EndpointBalance,
	EndpointTokenBalance,
	EndpointTokenList,
	EndpointUtxos,
	EndpointTx,
	EndpointRefresh,
	EndpointReset,
	EndpointTxo,
	EndpointTxos,
	EndpointBroadcast,
	EndpointBestHeader,
	EndpointAllTokens,
	EndpointTokenInfo,
}
