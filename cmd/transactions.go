package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/chinmay1088/urchain/api"
	"github.com/chinmay1088/urchain/chains/bitcoin"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var txCmd = &cobra.Command{
	Use:   "tx <txid>",
	Short: "Show a transaction",
	Args:  cobra.ExactArgs(1),
	RunE:  runTx,
}

var txoCmd = &cobra.Command{
	Use:   "txo <txid> <index>",
	Short: "Show one output of a transaction",
	Args:  cobra.ExactArgs(2),
	RunE:  runTxo,
}

var broadcastCmd = &cobra.Command{
	Use:   "broadcast <raw-hex>",
	Short: "Submit a signed transaction",
	Long: `Decode a signed raw transaction, show what it does and submit it
through the indexer.

Broadcasts are retried like every other request. Pass --once to send it a
single time and report the failure instead.

Examples:
  urchain broadcast 0200000001...
  urchain broadcast 0200000001... --once`,
	Args: cobra.ExactArgs(1),
	RunE: runBroadcast,
}

var broadcastOnceFlag bool

func init() {
	broadcastCmd.Flags().BoolVar(&broadcastOnceFlag, "once", false, "send a single attempt without retrying")
}

func runTx(cmd *cobra.Command, args []string) error {
	txID := args[0]
	if err := bitcoin.ValidateTxID(txID); err != nil {
		return err
	}

	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	tx, err := withSpinner("fetching transaction", func() (api.Transaction, error) {
		return s.client.Tx(cmd.Context(), txID)
	})
	if err != nil {
		return describeError(err)
	}

	if jsonFlag {
		return printJSON(tx)
	}

	fmt.Printf("🧾 Transaction %s\n", tx.TxID)
	if tx.Confirmed() {
		fmt.Printf("   Status: %s (block %d)\n", color.GreenString("confirmed"), tx.Height)
		fmt.Printf("   Block:  %s\n", tx.BlockHash)
		if tx.BlockTime > 0 {
			fmt.Printf("   Time:   %s\n", time.Unix(tx.BlockTime, 0).UTC().Format(time.RFC3339))
		}
	} else {
		fmt.Printf("   Status: %s\n", color.YellowString("unconfirmed"))
	}

	if tx.TxHex != "" {
		if summary, err := bitcoin.Summarize(tx.TxHex); err == nil {
			printSummary(summary)
		}
	}
	return nil
}

func runTxo(cmd *cobra.Command, args []string) error {
	txID := args[0]
	if err := bitcoin.ValidateTxID(txID); err != nil {
		return err
	}
	index, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid output index %q: %w", args[1], err)
	}

	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	out, err := withSpinner("fetching output", func() (api.TxOutput, error) {
		return s.client.Txo(cmd.Context(), txID, uint32(index))
	})
	if err != nil {
		return describeError(err)
	}

	if jsonFlag {
		return printJSON(out)
	}
	printOutput(out)
	if out.Address != "" {
		fmt.Printf("   Address: %s\n", out.Address)
	}
	return nil
}

func runBroadcast(cmd *cobra.Command, args []string) error {
	rawHex := args[0]
	summary, err := bitcoin.Summarize(rawHex)
	if err != nil {
		return err
	}

	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if !jsonFlag {
		fmt.Printf("📤 Broadcasting %s\n", summary.TxID)
		printSummary(summary)
	}

	var opts []api.CallOption
	if broadcastOnceFlag {
		opts = append(opts, api.WithMaxAttempts(1))
	}

	result, err := withSpinner("broadcasting", func() (api.BroadcastResult, error) {
		return s.client.Broadcast(cmd.Context(), rawHex, opts...)
	})
	if err != nil {
		return describeError(err)
	}

	if jsonFlag {
		return printJSON(result)
	}

	txID := result.TxID
	if txID == "" {
		txID = summary.TxID
	}
	fmt.Printf("✅ Sent %s\n", color.GreenString(txID))
	if result.Message != "" {
		fmt.Printf("   %s\n", result.Message)
	}
	return nil
}

func printSummary(summary *bitcoin.TxSummary) {
	fmt.Printf("   Inputs: %d  Outputs: %d  Size: %d bytes\n", summary.Inputs, summary.Outputs, summary.Size)
	fmt.Printf("   Output total: %s\n", bitcoin.FormatBalance(summary.Total))
}
