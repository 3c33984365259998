package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// recordingTimer fires immediately and remembers every requested wait
type recordingTimer struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (t *recordingTimer) After(d time.Duration) <-chan time.Time {
	t.mu.Lock()
	t.delays = append(t.delays, d)
	t.mu.Unlock()

	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

func (t *recordingTimer) Delays() []time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]time.Duration(nil), t.delays...)
}

// blockingTimer never fires and signals when a wait starts
type blockingTimer struct {
	waiting chan struct{}
	once    sync.Once
}

func (t *blockingTimer) After(time.Duration) <-chan time.Time {
	t.once.Do(func() { close(t.waiting) })
	return make(chan time.Time)
}

func newTestClient(t *testing.T, host string, opts ...ClientOption) (*Client, *recordingTimer, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	timer := &recordingTimer{}
	opts = append([]ClientOption{WithLogger(zap.New(core)), WithTimer(timer)}, opts...)

	client, err := NewClient(host, "test-key", opts...)
	require.NoError(t, err)
	return client, timer, logs
}

func TestBalance_FirstAttemptSuccess(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/balance", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"scriptHash":"abc123"}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"confirmed":100,"unconfirmed":0}`))
	}))
	defer server.Close()

	client, timer, _ := newTestClient(t, server.URL)

	balance, err := client.Balance(context.Background(), "abc123")
	require.NoError(t, err)
	assert.True(t, balance.Confirmed.Equal(decimal.NewFromInt(100)))
	assert.True(t, balance.Unconfirmed.IsZero())
	assert.Equal(t, int32(1), calls.Load())
	assert.Empty(t, timer.Delays())
}

func TestBroadcast_ServerErrorExhaustsAttempts(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "mempool full"})
	}))
	defer server.Close()

	client, timer, logs := newTestClient(t, server.URL)

	_, err := client.Broadcast(context.Background(), "0x00", WithMaxAttempts(3))
	require.Error(t, err)
	assert.Equal(t, `{"error":"mempool full"}`, err.Error())
	assert.Equal(t, KindServer, Classify(err))

	var serverErr *ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, http.StatusInternalServerError, serverErr.StatusCode)
	assert.Equal(t, server.URL+"/broadcast", serverErr.URL)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(err.Error()), &decoded))
	assert.Equal(t, map[string]string{"error": "mempool full"}, decoded)

	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, []time.Duration{DefaultRetryDelay, DefaultRetryDelay}, timer.Delays())

	assert.Equal(t, 2, logs.FilterMessage("request failed, retrying").Len())
	errorLogs := logs.FilterMessage("indexer returned an error").All()
	require.Len(t, errorLogs, 1)
	assert.Equal(t, int64(http.StatusInternalServerError), errorLogs[0].ContextMap()["status"])
}

func TestTx_TimeoutsThenSuccess(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
			return
		}
		_, _ = w.Write([]byte(`{"txId":"deadbeef","height":120,"txHex":"0100","blockHash":"00ab","indexInBlock":3}`))
	}))
	defer server.Close()

	client, timer, logs := newTestClient(t, server.URL)

	tx, err := client.Tx(context.Background(), "deadbeef", WithAttemptTimeout(50*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", tx.TxID)
	assert.Equal(t, int64(120), tx.Height)
	assert.Equal(t, 3, tx.IndexInBlock)
	assert.True(t, tx.Confirmed())

	assert.Equal(t, int32(3), calls.Load())
	assert.Len(t, timer.Delays(), 2)
	assert.Equal(t, 1, logs.FilterMessage("request succeeded after retries").Len())
}

func TestRetry_SucceedsAfterFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 4 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"message":"ok","code":0}`))
	}))
	defer server.Close()

	client, timer, _ := newTestClient(t, server.URL)

	status, err := client.Refresh(context.Background(), "abc", WithMaxAttempts(10), WithDelay(time.Second))
	require.NoError(t, err)
	assert.Equal(t, "ok", status.Message)
	assert.Equal(t, ResultCode("0"), status.Code)
	assert.Equal(t, int32(4), calls.Load())
	assert.Equal(t, []time.Duration{time.Second, time.Second, time.Second}, timer.Delays())
}

func TestRetry_ClientErrorsAreRetriedToo(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad script hash"}`))
	}))
	defer server.Close()

	client, timer, _ := newTestClient(t, server.URL)

	_, err := client.Reset(context.Background(), "zz", WithMaxAttempts(5))
	require.Error(t, err)
	assert.Equal(t, KindServer, Classify(err))
	assert.Equal(t, int32(5), calls.Load())
	assert.Len(t, timer.Delays(), 4)
}

func TestRetry_NetworkErrorExhaustsAttempts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	host := server.URL
	server.Close()

	client, timer, _ := newTestClient(t, host)

	_, err := client.Health(context.Background(), WithMaxAttempts(4))
	require.Error(t, err)
	assert.Equal(t, KindNetwork, Classify(err))

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.NotEmpty(t, netErr.Message)
	assert.Equal(t, netErr.Err.Error(), err.Error())
	assert.Len(t, timer.Delays(), 3)
}

func TestRetry_UnknownErrorPassesThrough(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client, timer, _ := newTestClient(t, server.URL)

	_, err := client.Post(context.Background(), "broadcast", map[string]any{"bad": make(chan int)}, WithMaxAttempts(3))
	require.Error(t, err)

	var typeErr *json.UnsupportedTypeError
	assert.True(t, errors.As(err, &typeErr))
	assert.Equal(t, KindUnknown, Classify(err))
	assert.Equal(t, int32(0), calls.Load())
	assert.Len(t, timer.Delays(), 2)
}

func TestRetry_ContextCancelStopsWaiting(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	timer := &blockingTimer{waiting: make(chan struct{})}
	client, err := NewClient(server.URL, "test-key", WithTimer(timer))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-timer.waiting
		cancel()
	}()

	_, err = client.BestBlock(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, int32(1), calls.Load())
}

func TestRetry_ContextCancelDuringAttempt(t *testing.T) {
	arrived := make(chan struct{}, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		arrived <- struct{}{}
		<-r.Context().Done()
	}))
	defer server.Close()

	client, timer, _ := newTestClient(t, server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-arrived
		cancel()
	}()

	_, err := client.Tx(ctx, "ff")
	assert.Equal(t, context.Canceled, err)
	assert.Empty(t, timer.Delays())
}

func TestRetry_InvalidPolicy(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client, _, _ := newTestClient(t, server.URL)

	_, err := client.AllTokens(context.Background(), WithMaxAttempts(0))
	assert.ErrorIs(t, err, ErrInvalidPolicy)
	assert.Equal(t, int32(0), calls.Load())

	_, err = NewClient(server.URL, "test-key", WithRetryPolicy(RetryPolicy{}))
	assert.ErrorIs(t, err, ErrInvalidPolicy)
}

func TestRetry_ConcurrentCallsAreIndependent(t *testing.T) {
	var balanceCalls, broadcastCalls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/balance":
			balanceCalls.Add(1)
			_, _ = w.Write([]byte(`{"confirmed":"7","unconfirmed":"1"}`))
		case "/broadcast":
			broadcastCalls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"mempool full"}`))
		}
	}))
	defer server.Close()

	client, _, _ := newTestClient(t, server.URL)

	const workers = 8
	var wg sync.WaitGroup
	balanceErrs := make([]error, workers)
	broadcastErrs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			b, err := client.Balance(context.Background(), "abc")
			if err == nil && !b.Total().Equal(decimal.NewFromInt(8)) {
				err = errors.New("unexpected total " + b.Total().String())
			}
			balanceErrs[i] = err
		}(i)
		go func(i int) {
			defer wg.Done()
			_, broadcastErrs[i] = client.Broadcast(context.Background(), "00", WithMaxAttempts(3))
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		assert.NoError(t, balanceErrs[i])
		assert.EqualError(t, broadcastErrs[i], `{"error":"mempool full"}`)
	}
	assert.Equal(t, int32(workers), balanceCalls.Load())
	assert.Equal(t, int32(workers*3), broadcastCalls.Load())
}
