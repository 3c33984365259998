package bitcoin

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
)

// Network type constants
const (
	NetworkMainnet = "mainnet"
	NetworkTestnet = "testnet"
)

// ParamsFor returns the chain parameters for a network name.
// Unknown names fall back to mainnet.
func ParamsFor(network string) *chaincfg.Params {
	if network == NetworkTestnet {
		return &chaincfg.TestNet3Params
	}
	return &chaincfg.MainNetParams
}

// ParseAddress parses an address for the given network
func ParseAddress(address string, params *chaincfg.Params) (btcutil.Address, error) {
	addr, err := btcutil.DecodeAddress(address, params)
	if err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", address, err)
	}
	if !addr.IsForNet(params) {
		return nil, fmt.Errorf("address %q is not valid on %s", address, params.Name)
	}
	return addr, nil
}

// ScriptHash returns the indexer lookup key for an address: the sha256 of
// its output script, hex encoded in reversed byte order.
func ScriptHash(address string, params *chaincfg.Params) (string, error) {
	addr, err := ParseAddress(address, params)
	if err != nil {
		return "", err
	}

	script, err := txscript.PayToAddrScript(addr)
	if err != nil {
		return "", fmt.Errorf("failed to create output script: %w", err)
	}
	return ScriptHashFromScript(script), nil
}

// ScriptHashFromScript hashes a raw output script
func ScriptHashFromScript(script []byte) string {
	// chainhash prints in reversed byte order
	return chainhash.HashH(script).String()
}

// ScriptHashFromPubKey derives the P2WPKH address of a compressed public key
// and returns its script hash along with the address.
func ScriptHashFromPubKey(pubKeyHex string, params *chaincfg.Params) (string, string, error) {
	raw, err := hex.DecodeString(pubKeyHex)
	if err != nil {
		return "", "", fmt.Errorf("invalid public key hex: %w", err)
	}

	pubKey, err := btcec.ParsePubKey(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid public key: %w", err)
	}

	addr, err := CreateP2WPKHAddress(pubKey, params)
	if err != nil {
		return "", "", err
	}

	hash, err := ScriptHash(addr.EncodeAddress(), params)
	if err != nil {
		return "", "", err
	}
	return hash, addr.EncodeAddress(), nil
}

// CreateP2WPKHAddress creates a P2WPKH address from public key
func CreateP2WPKHAddress(publicKey *btcec.PublicKey, params *chaincfg.Params) (btcutil.Address, error) {
	pubKeyHash := btcutil.Hash160(publicKey.SerializeCompressed())
	return btcutil.NewAddressWitnessPubKeyHash(pubKeyHash, params)
}

// IsScriptHash reports whether s already looks like a script hash
func IsScriptHash(s string) bool {
	if len(s) != chainhash.MaxHashStringSize {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

// ResolveScriptHash accepts either a script hash or an address and returns
// the script hash.
func ResolveScriptHash(arg string, params *chaincfg.Params) (string, error) {
	arg = strings.TrimSpace(arg)
	if IsScriptHash(arg) {
		return strings.ToLower(arg), nil
	}
	return ScriptHash(arg, params)
}
