package cmd

import (
	"fmt"
	"strings"

	"github.com/chinmay1088/urchain/api"
	"github.com/chinmay1088/urchain/chains/bitcoin"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var balanceCmd = &cobra.Command{
	Use:   "balance <address|scripthash>...",
	Short: "Show the balance of an address",
	Long: `Show the confirmed and unconfirmed balance of one or more addresses.

The argument may be an address on the current network or a 64-character
script hash.

Examples:
  urchain balance bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4
  urchain balance 9623df75239b5daa7f5f03042d325b51498c4bb7059c7748b17049bf96f73888`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBalance,
}

var tokenBalanceCmd = &cobra.Command{
	Use:   "token-balance <address|scripthash> <tick>",
	Short: "Show the balance of one token",
	Args:  cobra.ExactArgs(2),
	RunE:  runTokenBalance,
}

var tokensCmd = &cobra.Command{
	Use:   "tokens <address|scripthash>",
	Short: "List the tokens held by an address",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokens,
}

// balanceConcurrency bounds the lookups in flight when several addresses are given
const balanceConcurrency = 4

type addressBalance struct {
	Address    string      `json:"address"`
	ScriptHash string      `json:"scriptHash"`
	Balance    api.Balance `json:"balance"`
}

func runBalance(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	results := make([]addressBalance, len(args))
	for i, arg := range args {
		scriptHash, err := bitcoin.ResolveScriptHash(arg, s.params)
		if err != nil {
			return err
		}
		results[i] = addressBalance{Address: arg, ScriptHash: scriptHash}
	}

	_, err = withSpinner("fetching balance", func() (struct{}, error) {
		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(balanceConcurrency)
		for i := range results {
			g.Go(func() error {
				balance, err := s.client.Balance(ctx, results[i].ScriptHash)
				if err != nil {
					return err
				}
				results[i].Balance = balance
				return nil
			})
		}
		return struct{}{}, g.Wait()
	})
	if err != nil {
		return describeError(err)
	}

	if jsonFlag {
		if len(results) == 1 {
			return printJSON(results[0].Balance)
		}
		return printJSON(results)
	}

	total := decimal.Zero
	for _, r := range results {
		if len(results) > 1 {
			fmt.Printf("💰 %s\n", r.Address)
		} else {
			fmt.Println("💰 Balance")
		}
		fmt.Printf("   Confirmed:   %s\n", color.GreenString(bitcoin.FormatBalance(r.Balance.Confirmed)))
		fmt.Printf("   Unconfirmed: %s\n", color.YellowString(bitcoin.FormatBalance(r.Balance.Unconfirmed)))
		fmt.Printf("   📍 Script hash: %s\n", r.ScriptHash)
		total = total.Add(r.Balance.Total())
	}
	if len(results) > 1 {
		fmt.Printf("Σ Total: %s\n", color.GreenString(bitcoin.FormatBalance(total)))
	}
	return nil
}

func runTokenBalance(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	scriptHash, err := bitcoin.ResolveScriptHash(args[0], s.params)
	if err != nil {
		return err
	}
	tick := args[1]

	balance, err := withSpinner("fetching token balance", func() (api.Balance, error) {
		return s.client.TokenBalance(cmd.Context(), scriptHash, tick)
	})
	if err != nil {
		return describeError(err)
	}

	if jsonFlag {
		return printJSON(balance)
	}

	fmt.Printf("🪙 %s\n", color.CyanString(strings.ToUpper(tick)))
	fmt.Printf("   Confirmed:   %s\n", color.GreenString(balance.Confirmed.String()))
	fmt.Printf("   Unconfirmed: %s\n", color.YellowString(balance.Unconfirmed.String()))
	return nil
}

func runTokens(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	scriptHash, err := bitcoin.ResolveScriptHash(args[0], s.params)
	if err != nil {
		return err
	}

	tokens, err := withSpinner("fetching tokens", func() ([]api.Token, error) {
		return s.client.TokenList(cmd.Context(), scriptHash)
	})
	if err != nil {
		return describeError(err)
	}

	if jsonFlag {
		return printJSON(tokens)
	}
	if len(tokens) == 0 {
		fmt.Println("No tokens found")
		return nil
	}

	fmt.Printf("🪙 %d token(s)\n", len(tokens))
	for _, token := range tokens {
		fmt.Printf("   %-10s confirmed %s  unconfirmed %s\n",
			color.CyanString(strings.ToUpper(token.Tick)),
			color.GreenString(token.Confirmed.String()),
			color.YellowString(token.Unconfirmed.String()))
	}
	return nil
}
