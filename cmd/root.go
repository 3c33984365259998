package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chinmay1088/urchain/api"
	"github.com/spf13/cobra"
)

var (
	version = "0.3.0"
)

// global flags
var (
	hostFlag           string
	apiKeyFlag         string
	maxAttemptsFlag    uint
	retryDelayFlag     time.Duration
	attemptTimeoutFlag time.Duration
	jsonFlag           bool
	verboseFlag        bool
	quietFlag          bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "urchain",
	Short: "Command-line client for the urchain indexer",
	Long: `urchain talks to an urchain blockchain indexer: balances, UTXOs,
transactions, broadcasting and n20 token queries.

Every request is retried on failure with a fixed delay between attempts
(1000 attempts, 5s apart by default). Press Ctrl-C to give up early.

Configuration:
  --host / URCHAIN_HOST          indexer base URL (or 'urchain host <url>')
  --api-key / URCHAIN_API_KEY    bearer token (or 'urchain login' + 'urchain unlock')
  URCHAIN_PASSPHRASE             opens the stored api key without a prompt

Examples:
  urchain host https://indexer.example   # Save the indexer host
  urchain login                          # Store your api key encrypted
  urchain unlock                         # Unlock it for 30 minutes
  urchain balance bc1q...                # Balance of an address
  urchain utxos bc1q... --min-sats 546   # Spendable outputs
  urchain broadcast 0200...              # Send a signed transaction
  urchain token-info nova --json         # Raw JSON output`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&hostFlag, "host", "", "indexer base URL")
	flags.StringVar(&apiKeyFlag, "api-key", "", "indexer api key")
	flags.UintVar(&maxAttemptsFlag, "max-attempts", api.DefaultMaxAttempts, "attempts per request before giving up")
	flags.DurationVar(&retryDelayFlag, "retry-delay", api.DefaultRetryDelay, "wait between attempts")
	flags.DurationVar(&attemptTimeoutFlag, "attempt-timeout", 0, "deadline for each attempt (0 = transport default)")
	flags.BoolVar(&jsonFlag, "json", false, "print raw JSON")
	flags.BoolVarP(&verboseFlag, "verbose", "v", false, "verbose output")
	flags.BoolVarP(&quietFlag, "quiet", "q", false, "suppress diagnostics")

	// Add subcommands
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(feesCmd)
	rootCmd.AddCommand(bestBlockCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(tokenBalanceCmd)
	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(utxosCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(txosCmd)
	rootCmd.AddCommand(txCmd)
	rootCmd.AddCommand(txoCmd)
	rootCmd.AddCommand(broadcastCmd)
	rootCmd.AddCommand(allTokensCmd)
	rootCmd.AddCommand(tokenInfoCmd)
	rootCmd.AddCommand(scriptHashCmd)
	rootCmd.AddCommand(hostCmd)
	rootCmd.AddCommand(networkCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(unlockCmd)
	rootCmd.AddCommand(lockCmd)
	rootCmd.AddCommand(versionCmd)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("urchain v%s\n", version)
	},
}
