package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/chinmay1088/urchain/api"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the indexer is up",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

var feesCmd = &cobra.Command{
	Use:   "fees",
	Short: "Show the indexer's fee schedule",
	Args:  cobra.NoArgs,
	RunE:  runFees,
}

var bestBlockCmd = &cobra.Command{
	Use:   "best-block",
	Short: "Show the best block header known to the indexer",
	Args:  cobra.NoArgs,
	RunE:  runBestBlock,
}

func runHealth(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	status, err := withSpinner("checking health", func() (string, error) {
		return s.client.Health(cmd.Context())
	})
	if err != nil {
		return describeError(err)
	}

	if jsonFlag {
		return printJSON(map[string]string{"status": status})
	}
	fmt.Printf("🩺 %s: %s\n", s.client.Host(), color.GreenString(status))
	return nil
}

func runFees(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	fees, err := withSpinner("fetching fees", func() (api.Fees, error) {
		return s.client.GetFeePerKb(cmd.Context())
	})
	if err != nil {
		return describeError(err)
	}

	if jsonFlag {
		return printJSON(fees)
	}

	names := make([]string, 0, len(fees))
	for name := range fees {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("⛽ Fee schedule (sat/kB)")
	for _, name := range names {
		if rate, ok := fees.Rate(name); ok {
			fmt.Printf("   %-12s %s\n", name, color.CyanString(rate.String()))
			continue
		}
		fmt.Printf("   %-12s %s\n", name, string(fees[name]))
	}
	return nil
}

func runBestBlock(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	header, err := withSpinner("fetching best block", func() (api.BlockHeader, error) {
		return s.client.BestBlock(cmd.Context())
	})
	if err != nil {
		return describeError(err)
	}

	if jsonFlag {
		return printJSON(header)
	}
	fmt.Printf("🧱 Height: %s\n", color.GreenString("%d", header.Height))
	fmt.Printf("   Hash: %s\n", header.Hash)
	if header.PrevHash != "" {
		fmt.Printf("   Previous: %s\n", header.PrevHash)
	}
	if header.Time > 0 {
		fmt.Printf("   Time: %s\n", time.Unix(header.Time, 0).UTC().Format(time.RFC3339))
	}
	return nil
}
