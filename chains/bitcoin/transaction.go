package bitcoin

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/shopspring/decimal"
)

// TxSummary is what the CLI shows about a raw transaction before it is sent
type TxSummary struct {
	TxID     string
	Version  int32
	Inputs   int
	Outputs  int
	Total    decimal.Decimal // sum of output values in satoshis
	Size     int
	LockTime uint32
}

// DecodeRawTx parses a hex encoded transaction. A leading 0x is ignored.
func DecodeRawTx(rawHex string) (*wire.MsgTx, error) {
	rawHex = strings.TrimPrefix(strings.TrimSpace(rawHex), "0x")

	raw, err := hex.DecodeString(rawHex)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction hex: %w", err)
	}

	tx := wire.NewMsgTx(wire.TxVersion)
	if err := tx.Deserialize(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to decode transaction: %w", err)
	}
	return tx, nil
}

// Summarize decodes a raw transaction and reports its id and shape
func Summarize(rawHex string) (*TxSummary, error) {
	tx, err := DecodeRawTx(rawHex)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, out := range tx.TxOut {
		total = total.Add(decimal.NewFromInt(out.Value))
	}

	return &TxSummary{
		TxID:     tx.TxHash().String(),
		Version:  tx.Version,
		Inputs:   len(tx.TxIn),
		Outputs:  len(tx.TxOut),
		Total:    total,
		Size:     tx.SerializeSize(),
		LockTime: tx.LockTime,
	}, nil
}

// ValidateTxID checks that id is a 32-byte hex transaction hash
func ValidateTxID(id string) error {
	if len(id) != chainhash.MaxHashStringSize {
		return fmt.Errorf("invalid transaction id %q: expected %d hex characters", id, chainhash.MaxHashStringSize)
	}
	if _, err := chainhash.NewHashFromStr(id); err != nil {
		return fmt.Errorf("invalid transaction id %q: %w", id, err)
	}
	return nil
}
