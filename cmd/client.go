package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/chinmay1088/urchain/api"
	"github.com/chinmay1088/urchain/chains/bitcoin"
	"github.com/chinmay1088/urchain/profile"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// environment overrides
const (
	envHost       = "URCHAIN_HOST"
	envAPIKey     = "URCHAIN_API_KEY"
	envPassphrase = "URCHAIN_PASSPHRASE"
)

// session bundles what every indexer command needs
type session struct {
	client  *api.Client
	manager *profile.Manager
	params  *chaincfg.Params
	logger  *zap.Logger
}

func (s *session) Close() {
	_ = s.logger.Sync()
}

// newSession resolves host, api key, retry policy and logger from flags,
// environment and the stored profile.
func newSession() (*session, error) {
	manager, err := profile.NewManager()
	if err != nil {
		return nil, err
	}

	host, err := resolveHost(manager)
	if err != nil {
		return nil, err
	}

	apiKey, err := resolveAPIKey(manager, host)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(verboseFlag, quietFlag)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	policy := api.RetryPolicy{
		MaxAttempts:    maxAttemptsFlag,
		Delay:          retryDelayFlag,
		AttemptTimeout: attemptTimeoutFlag,
	}

	client, err := api.NewClient(host, apiKey,
		api.WithLogger(logger),
		api.WithRetryPolicy(policy),
	)
	if err != nil {
		return nil, err
	}

	return &session{
		client:  client,
		manager: manager,
		params:  bitcoin.ParamsFor(manager.Network()),
		logger:  logger,
	}, nil
}

// resolveHost picks the indexer host from --host, URCHAIN_HOST or the profile.
// The result is normalized so unlock sessions match whichever source was used.
func resolveHost(manager *profile.Manager) (string, error) {
	if hostFlag != "" {
		return normalizeHost(hostFlag), nil
	}
	if host := os.Getenv(envHost); host != "" {
		return normalizeHost(host), nil
	}
	host, err := manager.Host()
	if err != nil {
		return "", err
	}
	return normalizeHost(host), nil
}

func normalizeHost(host string) string {
	return strings.TrimRight(strings.TrimSpace(host), "/")
}

// resolveAPIKey prefers an explicit key, then an unlocked session, then the
// vault opened with URCHAIN_PASSPHRASE.
func resolveAPIKey(manager *profile.Manager, host string) (string, error) {
	if apiKeyFlag != "" {
		return apiKeyFlag, nil
	}
	if key := os.Getenv(envAPIKey); key != "" {
		return key, nil
	}

	key, err := manager.SessionAPIKey(host)
	if err == nil {
		return key, nil
	}

	if !manager.VaultExists() {
		return "", fmt.Errorf("no api key: pass --api-key, set %s or run 'urchain login'", envAPIKey)
	}
	if passphrase := os.Getenv(envPassphrase); passphrase != "" {
		return manager.Decrypt(passphrase)
	}
	return "", profile.ErrLocked
}

// newLogger builds the console logger used for retry diagnostics
func newLogger(verbose, quiet bool) (*zap.Logger, error) {
	if quiet {
		return zap.NewNop(), nil
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = true
	cfg.DisableCaller = !verbose
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// withSpinner runs fn while a spinner turns on stderr
func withSpinner[T any](description string, fn func() (T, error)) (T, error) {
	if jsonFlag || quietFlag || !term.IsTerminal(int(os.Stderr.Fd())) {
		return fn()
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetDescription("[cyan]"+description+"[reset]"),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()

	result, err := fn()
	close(done)
	_ = bar.Finish()
	return result, err
}

// printJSON writes v as indented JSON to stdout
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// describeError adds the failure kind to errors coming back from the indexer
func describeError(err error) error {
	if err == nil {
		return nil
	}

	var serverErr *api.ServerError
	if errors.As(err, &serverErr) {
		return fmt.Errorf("indexer returned %s: %w", color.RedString("%d", serverErr.StatusCode), err)
	}
	if api.Classify(err) == api.KindNetwork {
		return fmt.Errorf("indexer unreachable: %w", err)
	}
	return err
}
