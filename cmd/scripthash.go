package cmd

import (
	"errors"
	"fmt"

	"github.com/chinmay1088/urchain/chains/bitcoin"
	"github.com/chinmay1088/urchain/profile"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var scriptHashCmd = &cobra.Command{
	Use:   "scripthash [address]",
	Short: "Compute the indexer script hash of an address",
	Long: `Compute the script hash the indexer keys addresses by. Works offline.

Examples:
  urchain scripthash bc1q...
  urchain scripthash --pubkey 0279be66...`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScriptHash,
}

var pubKeyFlag string

func init() {
	scriptHashCmd.Flags().StringVar(&pubKeyFlag, "pubkey", "", "compressed public key (hex) of a P2WPKH address")
}

func runScriptHash(cmd *cobra.Command, args []string) error {
	if (len(args) == 0) == (pubKeyFlag == "") {
		return errors.New("pass either an address or --pubkey")
	}

	manager, err := profile.NewManager()
	if err != nil {
		return err
	}
	params := bitcoin.ParamsFor(manager.Network())

	var address, scriptHash string
	if pubKeyFlag != "" {
		scriptHash, address, err = bitcoin.ScriptHashFromPubKey(pubKeyFlag, params)
	} else {
		address = args[0]
		scriptHash, err = bitcoin.ScriptHash(address, params)
	}
	if err != nil {
		return err
	}

	if jsonFlag {
		return printJSON(map[string]string{"address": address, "scriptHash": scriptHash})
	}
	fmt.Printf("📍 %s\n", address)
	fmt.Printf("   %s\n", color.CyanString(scriptHash))
	return nil
}
