package api

// API Client-
//
// Files:
//   config.go       - retry defaults and the indexer endpoint table
//   types.go        - request/response structs for every endpoint
//   errors.go       - ServerError, NetworkError and error classification
//   base.go         - Client struct, NewClient, options, Get/Post
//   retry.go        - retry policy, per-call options and the retry loop
//   endpoints.go    - generic typed call helper
//   status.go       - health, fees, best block header
//   address.go      - balance, utxos, history refresh/reset, txos
//   transactions.go - tx, txo, broadcast
//   tokens.go       - token balance, token list, token directory, token info
//
// Usage:
//   client, err := api.NewClient("https://indexer.example", apiKey)
//   balance, err := client.Balance(ctx, scriptHash)
//   utxos, err := client.Utxos(ctx, []string{scriptHash}, nil, api.WithMaxAttempts(5))
//   result, err := client.Broadcast(ctx, rawHex)
