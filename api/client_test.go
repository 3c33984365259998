package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name    string
		host    string
		apiKey  string
		wantErr error
	}{
		{name: "valid", host: "https://indexer.example", apiKey: "secret"},
		{name: "missing scheme", host: "indexer.example", apiKey: "secret", wantErr: ErrInvalidHost},
		{name: "unsupported scheme", host: "ftp://indexer.example", apiKey: "secret", wantErr: ErrInvalidHost},
		{name: "unparsable", host: "http://[::1", apiKey: "secret", wantErr: ErrInvalidHost},
		{name: "missing key", host: "https://indexer.example", apiKey: "", wantErr: ErrMissingAPIKey},
		{name: "placeholder key", host: "https://indexer.example", apiKey: "1234567890", wantErr: ErrPlaceholderAPIKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.host, tt.apiKey)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, client)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.host, client.Host())
		})
	}
}

func TestClient_JoinsBasePath(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`"ok"`))
	}))
	defer server.Close()

	client, _, _ := newTestClient(t, server.URL+"/api/v1/")

	status, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", status)
	assert.Equal(t, "/api/v1/health", gotPath)
}

func TestClient_GetSendsQueryParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/fees", r.URL.Path)
		query := r.URL.Query()
		assert.Equal(t, "fast", query.Get("priority"))
		assert.Equal(t, "6", query.Get("blocks"))
		assert.Equal(t, "true", query.Get("mempool"))
		assert.False(t, query.Has("skipped"))
		assert.Empty(t, r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"fast":12}`))
	}))
	defer server.Close()

	client, _, _ := newTestClient(t, server.URL)

	raw, err := client.Get(context.Background(), "fees", map[string]any{
		"priority": "fast",
		"blocks":   6,
		"mempool":  true,
		"skipped":  nil,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"fast":12}`, string(raw))
}

func TestClient_FeesWithNonNumericEntries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"fast":"20.5","slow":5,"unit":"sat/kB","tiers":{"low":1}}`))
	}))
	defer server.Close()

	client, _, _ := newTestClient(t, server.URL)

	fees, err := client.GetFeePerKb(context.Background())
	require.NoError(t, err)
	assert.Len(t, fees, 4)

	fast, ok := fees.Rate("fast")
	require.True(t, ok)
	assert.True(t, decimal.RequireFromString("20.5").Equal(fast))

	_, ok = fees.Rate("unit")
	assert.False(t, ok)
	_, ok = fees.Rate("missing")
	assert.False(t, ok)
	assert.JSONEq(t, `{"low":1}`, string(fees["tiers"]))

	rates := fees.Rates()
	assert.Len(t, rates, 2)
	assert.True(t, decimal.NewFromInt(5).Equal(rates["slow"]))
}

func TestClient_HealthPlainText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("healthy\n"))
	}))
	defer server.Close()

	client, _, _ := newTestClient(t, server.URL)

	status, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", status)
}

func TestClient_PostNilBodyIsEmptyObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "{}", string(body))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, _, _ := newTestClient(t, server.URL)

	_, err := client.Post(context.Background(), "best-header", nil)
	require.NoError(t, err)
}

func TestClient_UndecodableResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client, _, _ := newTestClient(t, server.URL)

	_, err := client.Tx(context.Background(), "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse tx response")
}

// Each typed method must hit its endpoint with its verb and wire fields.
func TestClient_TypedMethods(t *testing.T) {
	minSats := uint64(546)

	tests := []struct {
		name     string
		endpoint Endpoint
		call     func(ctx context.Context, c *Client) error
		wantBody string
		response string
	}{
		{
			name:     "health",
			endpoint: EndpointHealth,
			call:     func(ctx context.Context, c *Client) error { _, err := c.Health(ctx); return err },
			response: `"ok"`,
		},
		{
			name:     "fees",
			endpoint: EndpointFees,
			call:     func(ctx context.Context, c *Client) error { _, err := c.GetFeePerKb(ctx); return err },
			response: `{"fast":20,"slow":5}`,
		},
		{
			name:     "balance",
			endpoint: EndpointBalance,
			call:     func(ctx context.Context, c *Client) error { _, err := c.Balance(ctx, "sh1"); return err },
			wantBody: `{"scriptHash":"sh1"}`,
			response: `{"confirmed":1,"unconfirmed":2}`,
		},
		{
			name:     "token balance",
			endpoint: EndpointTokenBalance,
			call:     func(ctx context.Context, c *Client) error { _, err := c.TokenBalance(ctx, "sh1", "nova"); return err },
			wantBody: `{"scriptHash":"sh1","tick":"nova"}`,
			response: `{"confirmed":"5","unconfirmed":"0"}`,
		},
		{
			name:     "token list",
			endpoint: EndpointTokenList,
			call:     func(ctx context.Context, c *Client) error { _, err := c.TokenList(ctx, "sh1"); return err },
			wantBody: `{"scriptHash":"sh1"}`,
			response: `[{"tick":"nova","confirmed":1,"unconfirmed":0}]`,
		},
		{
			name:     "utxos without minimum",
			endpoint: EndpointUtxos,
			call: func(ctx context.Context, c *Client) error {
				_, err := c.Utxos(ctx, []string{"sh1", "sh2"}, nil)
				return err
			},
			wantBody: `{"scriptHashs":["sh1","sh2"]}`,
			response: `[{"txId":"aa","outputIndex":1,"satoshis":1000}]`,
		},
		{
			name:     "utxos with minimum",
			endpoint: EndpointUtxos,
			call: func(ctx context.Context, c *Client) error {
				_, err := c.Utxos(ctx, []string{"sh1"}, &minSats)
				return err
			},
			wantBody: `{"scriptHashs":["sh1"],"satoshis":546}`,
			response: `[]`,
		},
		{
			name:     "tx",
			endpoint: EndpointTx,
			call:     func(ctx context.Context, c *Client) error { _, err := c.Tx(ctx, "aa"); return err },
			wantBody: `{"txId":"aa"}`,
			response: `{"txId":"aa"}`,
		},
		{
			name:     "refresh",
			endpoint: EndpointRefresh,
			call:     func(ctx context.Context, c *Client) error { _, err := c.Refresh(ctx, "sh1"); return err },
			wantBody: `{"scriptHash":"sh1"}`,
			response: `{"message":"queued","code":"OK"}`,
		},
		{
			name:     "reset",
			endpoint: EndpointReset,
			call:     func(ctx context.Context, c *Client) error { _, err := c.Reset(ctx, "sh1"); return err },
			wantBody: `{"scriptHash":"sh1"}`,
			response: `{"message":"done","code":1}`,
		},
		{
			name:     "txo",
			endpoint: EndpointTxo,
			call:     func(ctx context.Context, c *Client) error { _, err := c.Txo(ctx, "aa", 2); return err },
			wantBody: `{"txId":"aa","outputIndex":2}`,
			response: `{"txId":"aa","outputIndex":2,"satoshis":10}`,
		},
		{
			name:     "txos",
			endpoint: EndpointTxos,
			call:     func(ctx context.Context, c *Client) error { _, err := c.Txos(ctx, "addr", "n20"); return err },
			wantBody: `{"address":"addr","type":"n20"}`,
			response: `[]`,
		},
		{
			name:     "broadcast",
			endpoint: EndpointBroadcast,
			call:     func(ctx context.Context, c *Client) error { _, err := c.Broadcast(ctx, "0100"); return err },
			wantBody: `{"rawHex":"0100"}`,
			response: `{"txId":"bb"}`,
		},
		{
			name:     "best block",
			endpoint: EndpointBestHeader,
			call:     func(ctx context.Context, c *Client) error { _, err := c.BestBlock(ctx); return err },
			wantBody: `{}`,
			response: `{"height":10,"hash":"00"}`,
		},
		{
			name:     "all tokens",
			endpoint: EndpointAllTokens,
			call:     func(ctx context.Context, c *Client) error { _, err := c.AllTokens(ctx); return err },
			wantBody: `{}`,
			response: `[{"tick":"nova","max":"21000000","lim":"1000","dec":8}]`,
		},
		{
			name:     "token info",
			endpoint: EndpointTokenInfo,
			call:     func(ctx context.Context, c *Client) error { _, err := c.TokenInfo(ctx, "nova"); return err },
			wantBody: `{"tick":"nova"}`,
			response: `{"tick":"nova","max":21000000,"dec":8}`,
		},
	}

	covered := make(map[Endpoint]bool)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.endpoint.Method, r.Method)
				assert.Equal(t, "/"+tt.endpoint.Path, r.URL.Path)

				body, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				if tt.wantBody == "" {
					assert.Empty(t, body)
				} else {
					assert.JSONEq(t, tt.wantBody, string(body))
				}
				_, _ = w.Write([]byte(tt.response))
			}))
			defer server.Close()

			client, _, _ := newTestClient(t, server.URL)
			require.NoError(t, tt.call(context.Background(), client))
		})
		covered[tt.endpoint] = true
	}

	for _, ep := range Endpoints {
		assert.True(t, covered[ep], "no typed method test for %s", ep.Path)
	}
}

func TestResultCode_StringOrNumber(t *testing.T) {
	var msg StatusMessage
	require.NoError(t, json.Unmarshal([]byte(`{"message":"a","code":200}`), &msg))
	assert.Equal(t, ResultCode("200"), msg.Code)

	require.NoError(t, json.Unmarshal([]byte(`{"message":"a","code":"E_BUSY"}`), &msg))
	assert.Equal(t, ResultCode("E_BUSY"), msg.Code)

	assert.Error(t, json.Unmarshal([]byte(`{"code":{}}`), &msg))
}
