package cmd

import (
	"context"
	"fmt"

	"github.com/chinmay1088/urchain/api"
	"github.com/chinmay1088/urchain/chains/bitcoin"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var utxosCmd = &cobra.Command{
	Use:   "utxos <address|scripthash>...",
	Short: "List unspent outputs",
	Long: `List unspent outputs for one or more addresses or script hashes.

Examples:
  urchain utxos bc1q...                  # All outputs
  urchain utxos bc1q... --min-sats 546   # Ask for at least 546 satoshis
  urchain utxos bc1q... --min 0.001      # Same, in coins`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUtxos,
}

var refreshCmd = &cobra.Command{
	Use:   "refresh <address|scripthash>",
	Short: "Ask the indexer to fetch an address's history again",
	Args:  cobra.ExactArgs(1),
	RunE:  runRefresh,
}

var resetCmd = &cobra.Command{
	Use:   "reset <address|scripthash>",
	Short: "Drop what the indexer holds for an address",
	Args:  cobra.ExactArgs(1),
	RunE:  runReset,
}

var txosCmd = &cobra.Command{
	Use:   "txos <address>",
	Short: "List outputs of a given type for an address",
	Args:  cobra.ExactArgs(1),
	RunE:  runTxos,
}

var (
	minSatsFlag  uint64
	minCoinsFlag string
	txosTypeFlag string
)

func init() {
	utxosCmd.Flags().Uint64Var(&minSatsFlag, "min-sats", 0, "minimum amount in satoshis")
	utxosCmd.Flags().StringVar(&minCoinsFlag, "min", "", "minimum amount in coins")
	utxosCmd.MarkFlagsMutuallyExclusive("min-sats", "min")

	txosCmd.Flags().StringVarP(&txosTypeFlag, "type", "t", "", "output type to list")
	_ = txosCmd.MarkFlagRequired("type")
}

func runUtxos(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	scriptHashes := make([]string, 0, len(args))
	for _, arg := range args {
		hash, err := bitcoin.ResolveScriptHash(arg, s.params)
		if err != nil {
			return err
		}
		scriptHashes = append(scriptHashes, hash)
	}

	var minimum *uint64
	switch {
	case cmd.Flags().Changed("min-sats"):
		minimum = &minSatsFlag
	case minCoinsFlag != "":
		sats, err := bitcoin.ParseCoins(minCoinsFlag)
		if err != nil {
			return err
		}
		v := uint64(sats)
		minimum = &v
	}

	utxos, err := withSpinner("fetching utxos", func() ([]api.Utxo, error) {
		return s.client.Utxos(cmd.Context(), scriptHashes, minimum)
	})
	if err != nil {
		return describeError(err)
	}

	if jsonFlag {
		return printJSON(utxos)
	}
	if len(utxos) == 0 {
		fmt.Println("No unspent outputs")
		return nil
	}

	total := decimal.Zero
	for _, utxo := range utxos {
		total = total.Add(utxo.Satoshis)
		fmt.Printf("   %s:%d  %s\n", utxo.TxID, utxo.OutputIndex, color.GreenString(bitcoin.FormatBalance(utxo.Satoshis)))
	}
	fmt.Printf("📦 %d output(s), total %s\n", len(utxos), color.GreenString(bitcoin.FormatBalance(total)))
	return nil
}

func runRefresh(cmd *cobra.Command, args []string) error {
	return runHistoryCommand(cmd, args[0], "refreshing history", (*api.Client).Refresh)
}

func runReset(cmd *cobra.Command, args []string) error {
	return runHistoryCommand(cmd, args[0], "resetting history", (*api.Client).Reset)
}

type historyFunc func(c *api.Client, ctx context.Context, scriptHash string, opts ...api.CallOption) (api.StatusMessage, error)

func runHistoryCommand(cmd *cobra.Command, arg, description string, fn historyFunc) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	scriptHash, err := bitcoin.ResolveScriptHash(arg, s.params)
	if err != nil {
		return err
	}

	status, err := withSpinner(description, func() (api.StatusMessage, error) {
		return fn(s.client, cmd.Context(), scriptHash)
	})
	if err != nil {
		return describeError(err)
	}

	if jsonFlag {
		return printJSON(status)
	}
	fmt.Printf("✅ %s (code %s)\n", status.Message, status.Code)
	return nil
}

func runTxos(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if _, err := bitcoin.ParseAddress(args[0], s.params); err != nil {
		return err
	}

	outputs, err := withSpinner("fetching outputs", func() ([]api.TxOutput, error) {
		return s.client.Txos(cmd.Context(), args[0], txosTypeFlag)
	})
	if err != nil {
		return describeError(err)
	}

	if jsonFlag {
		return printJSON(outputs)
	}
	if len(outputs) == 0 {
		fmt.Println("No outputs found")
		return nil
	}
	for _, out := range outputs {
		printOutput(out)
	}
	return nil
}

func printOutput(out api.TxOutput) {
	state := color.GreenString("unspent")
	if out.Spent {
		state = color.RedString("spent")
	}
	fmt.Printf("   %s:%d  %s  %s\n", out.TxID, out.OutputIndex, bitcoin.FormatBalance(out.Satoshis), state)
}
