package cmd

import (
	"fmt"

	"github.com/chinmay1088/urchain/api"
	"github.com/chinmay1088/urchain/chains/bitcoin"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var allTokensCmd = &cobra.Command{
	Use:   "all-tokens",
	Short: "List every token the indexer knows",
	Args:  cobra.NoArgs,
	RunE:  runAllTokens,
}

var tokenInfoCmd = &cobra.Command{
	Use:   "token-info <tick>",
	Short: "Show a token's deployment details",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenInfo,
}

func runAllTokens(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	tokens, err := withSpinner("fetching tokens", func() ([]api.TokenInfo, error) {
		return s.client.AllTokens(cmd.Context())
	})
	if err != nil {
		return describeError(err)
	}

	if jsonFlag {
		return printJSON(tokens)
	}
	if len(tokens) == 0 {
		fmt.Println("No tokens deployed")
		return nil
	}

	fmt.Printf("🪙 %d token(s)\n", len(tokens))
	for _, token := range tokens {
		fmt.Printf("   %-8s minted %s of %s\n",
			color.CyanString(token.Tick),
			bitcoin.FormatTokenAmount(token.Minted, token.Decimals),
			bitcoin.FormatTokenAmount(token.Max, token.Decimals))
	}
	return nil
}

func runTokenInfo(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	info, err := withSpinner("fetching token", func() (api.TokenInfo, error) {
		return s.client.TokenInfo(cmd.Context(), args[0])
	})
	if err != nil {
		return describeError(err)
	}

	if jsonFlag {
		return printJSON(info)
	}

	fmt.Printf("🪙 %s\n", color.CyanString(info.Tick))
	fmt.Printf("   Max supply: %s\n", bitcoin.FormatTokenAmount(info.Max, info.Decimals))
	fmt.Printf("   Mint limit: %s\n", bitcoin.FormatTokenAmount(info.Limit, info.Decimals))
	fmt.Printf("   Minted:     %s\n", bitcoin.FormatTokenAmount(info.Minted, info.Decimals))
	fmt.Printf("   Decimals:   %d\n", info.Decimals)
	if info.DeployTxID != "" {
		fmt.Printf("   Deployed:   %s (block %d)\n", info.DeployTxID, info.Height)
	}
	return nil
}
