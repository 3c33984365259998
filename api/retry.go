package api

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"
)

// RetryPolicy controls how many times a call is attempted and how long the
// client waits between attempts. The wait is constant; every failure is
// retried the same way regardless of its kind.
type RetryPolicy struct {
	MaxAttempts    uint          // total attempts including the first, at least 1
	Delay          time.Duration // fixed wait between attempts
	AttemptTimeout time.Duration // per-attempt deadline, 0 leaves it to the transport
}

// DefaultRetryPolicy retries up to 1000 times, 5 seconds apart
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: DefaultMaxAttempts,
		Delay:       DefaultRetryDelay,
	}
}

func (p RetryPolicy) validate() error {
	if p.MaxAttempts < 1 {
		return ErrInvalidPolicy
	}
	return nil
}

// CallOption overrides the retry policy for a single call
type CallOption func(*RetryPolicy)

// WithMaxAttempts caps the number of attempts for one call
func WithMaxAttempts(n uint) CallOption {
	return func(p *RetryPolicy) {
		p.MaxAttempts = n
	}
}

// WithDelay sets the wait between attempts for one call
func WithDelay(d time.Duration) CallOption {
	return func(p *RetryPolicy) {
		p.Delay = d
	}
}

// WithAttemptTimeout bounds each attempt of one call
func WithAttemptTimeout(d time.Duration) CallOption {
	return func(p *RetryPolicy) {
		p.AttemptTimeout = d
	}
}

// execute runs ep until it succeeds, the attempts run out or ctx is done.
func (c *Client) execute(ctx context.Context, ep Endpoint, payload any, opts []CallOption) (json.RawMessage, error) {
	policy := c.policy
	for _, opt := range opts {
		opt(&policy)
	}
	if err := policy.validate(); err != nil {
		return nil, err
	}

	logger := c.logger.With(zap.String("command", ep.Path), zap.String("method", ep.Method))
	newRequest := c.newRequestFunc(ep, payload)

	retryOpts := []retry.Option{
		retry.Context(ctx),
		retry.Attempts(policy.MaxAttempts),
		retry.Delay(policy.Delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		// a cancelled caller stops the loop, anything else is retried
		retry.RetryIf(func(error) bool {
			return ctx.Err() == nil
		}),
		retry.OnRetry(func(n uint, err error) {
			attempt := n + 1
			if attempt >= policy.MaxAttempts {
				return
			}
			logger.Warn("request failed, retrying",
				zap.Uint("attempt", attempt),
				zap.Uint("max_attempts", policy.MaxAttempts),
				zap.Duration("delay", policy.Delay),
				zap.Error(err),
			)
		}),
	}
	if c.timer != nil {
		retryOpts = append(retryOpts, retry.WithTimer(c.timer))
	}

	var attempts uint
	body, err := retry.DoWithData(func() (json.RawMessage, error) {
		attempts++
		return c.attempt(ctx, newRequest, policy.AttemptTimeout)
	}, retryOpts...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			logger.Debug("call abandoned", zap.Uint("attempts", attempts), zap.Error(err))
			return nil, ctxErr
		}
		return nil, c.terminalError(logger, err, attempts)
	}

	if attempts > 1 {
		logger.Info("request succeeded after retries", zap.Uint("attempts", attempts))
	}
	return body, nil
}

// terminalError turns the last attempt's failure into the error handed to the
// caller: ServerError when the server answered, NetworkError when the request
// went out without an answer, and the error unchanged otherwise.
func (c *Client) terminalError(logger *zap.Logger, err error, attempts uint) error {
	var failure *attemptFailure
	if !errors.As(err, &failure) {
		return err
	}

	switch {
	case failure.answered:
		serverErr := &ServerError{
			URL:        failure.url,
			StatusCode: failure.status,
			Header:     failure.header,
			Body:       json.RawMessage(failure.body),
		}
		logger.Error("indexer returned an error",
			zap.String("url", failure.url),
			zap.Int("status", failure.status),
			zap.Any("headers", failure.header),
			zap.ByteString("body", failure.body),
			zap.Uint("attempts", attempts),
		)
		return serverErr
	case failure.sent:
		logger.Debug("no response from indexer", zap.Uint("attempts", attempts), zap.Error(failure.err))
		return &NetworkError{Message: failure.err.Error(), Err: failure.err}
	default:
		return failure.err
	}
}
