package cmd

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/chinmay1088/urchain/profile"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var hostCmd = &cobra.Command{
	Use:   "host [url]",
	Short: "Show or change the indexer host",
	Long: `Show the stored indexer host or save a new one.

Examples:
  urchain host                            # Show current host
  urchain host https://indexer.example    # Save a new host`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHost,
}

var networkCmd = &cobra.Command{
	Use:   "network [mainnet|testnet]",
	Short: "Show or change network",
	Long: `Show the current network or switch between mainnet and testnet.

The network decides how addresses are decoded into script hashes.

Examples:
  urchain network            # Show current network
  urchain network mainnet    # Switch to mainnet
  urchain network testnet    # Switch to testnet`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNetwork,
}

func runHost(cmd *cobra.Command, args []string) error {
	manager, err := profile.NewManager()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		host, err := resolveHost(manager)
		if err != nil {
			return err
		}
		fmt.Printf("🔗 Indexer host: %s\n", color.CyanString(host))
		if manager.IsUnlocked(host) {
			if expiry, ok := manager.SessionExpiry(); ok {
				fmt.Printf("🔓 Unlocked until %s\n", expiry.Local().Format("15:04"))
			}
		} else if manager.VaultExists() {
			fmt.Println("🔒 Api key is locked")
		}
		return nil
	}

	host := normalizeHost(args[0])
	u, err := url.Parse(host)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid host %q: expected http(s)://host[:port][/path]", args[0])
	}

	if err := manager.SetHost(host); err != nil {
		return err
	}
	fmt.Printf("🔗 Indexer host set to %s\n", color.CyanString(host))
	if manager.VaultExists() && !manager.IsUnlocked(host) {
		fmt.Println("💡 Run 'urchain unlock' to use your stored api key with this host")
	}
	return nil
}

func runNetwork(cmd *cobra.Command, args []string) error {
	manager, err := profile.NewManager()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		if manager.IsTestnet() {
			fmt.Printf("🌐 Current network: %s\n", color.YellowString("Testnet"))
		} else {
			fmt.Printf("🌐 Current network: %s\n", color.GreenString("Mainnet"))
		}
		return nil
	}

	if err := manager.SetNetwork(args[0]); err != nil {
		return err
	}

	fmt.Printf("🌐 Switched to %s network\n", strings.ToUpper(manager.Network()))
	if manager.IsTestnet() {
		fmt.Println()
		fmt.Println("⚠️  You are now on TESTNET mode")
		fmt.Println("   Addresses are decoded with testnet parameters")
	}
	return nil
}
