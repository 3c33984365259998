package api

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ScriptHashRequest is the body of every command keyed by a single script hash
type ScriptHashRequest struct {
	ScriptHash string `json:"scriptHash"`
}

// TokenBalanceRequest asks for the balance of one token held by a script hash
type TokenBalanceRequest struct {
	ScriptHash string `json:"scriptHash"`
	Tick       string `json:"tick"`
}

// UtxosRequest lists unspent outputs for several script hashes. The indexer
// spells the field "scriptHashs".
type UtxosRequest struct {
	ScriptHashes []string `json:"scriptHashs"`
	MinSatoshis  *uint64  `json:"satoshis,omitempty"`
}

// TxRequest identifies a transaction
type TxRequest struct {
	TxID string `json:"txId"`
}

// TxoRequest identifies one output of a transaction
type TxoRequest struct {
	TxID        string `json:"txId"`
	OutputIndex uint32 `json:"outputIndex"`
}

// TxosRequest lists outputs of a given type for an address
type TxosRequest struct {
	Address string `json:"address"`
	Type    string `json:"type"`
}

// BroadcastRequest carries a signed raw transaction
type BroadcastRequest struct {
	RawHex string `json:"rawHex"`
}

// TokenInfoRequest identifies a token by ticker
type TokenInfoRequest struct {
	Tick string `json:"tick"`
}

type emptyRequest struct{}

// Balance holds confirmed and unconfirmed amounts in base units
type Balance struct {
	Confirmed   decimal.Decimal `json:"confirmed"`
	Unconfirmed decimal.Decimal `json:"unconfirmed"`
}

// Total returns confirmed plus unconfirmed
func (b Balance) Total() decimal.Decimal {
	return b.Confirmed.Add(b.Unconfirmed)
}

// Fees is the indexer's fee schedule. Numeric entries are rates keyed by
// priority name; anything else (units, nested tiers) is kept as raw JSON.
type Fees map[string]json.RawMessage

// Rate returns the numeric rate stored under name
func (f Fees) Rate(name string) (decimal.Decimal, bool) {
	raw, ok := f[name]
	if !ok {
		return decimal.Zero, false
	}
	var rate decimal.Decimal
	if err := json.Unmarshal(raw, &rate); err != nil {
		return decimal.Zero, false
	}
	return rate, true
}

// Rates returns every numeric entry of the schedule
func (f Fees) Rates() map[string]decimal.Decimal {
	rates := make(map[string]decimal.Decimal, len(f))
	for name := range f {
		if rate, ok := f.Rate(name); ok {
			rates[name] = rate
		}
	}
	return rates
}

// Token is one entry of an address's token list
type Token struct {
	Tick        string          `json:"tick"`
	Confirmed   decimal.Decimal `json:"confirmed"`
	Unconfirmed decimal.Decimal `json:"unconfirmed"`
}

// Utxo represents an unspent output known to the indexer
type Utxo struct {
	TxID        string          `json:"txId"`
	OutputIndex uint32          `json:"outputIndex"`
	Satoshis    decimal.Decimal `json:"satoshis"`
	Script      string          `json:"script"`
	Height      int64           `json:"height"`
}

// Transaction is the indexer's view of a transaction
type Transaction struct {
	TxID         string `json:"txId"`
	Height       int64  `json:"height"`
	TxHex        string `json:"txHex"`
	Address      string `json:"address"`
	Time         int64  `json:"time"`
	BlockHash    string `json:"blockHash"`
	BlockTime    int64  `json:"blockTime"`
	IndexInBlock int    `json:"indexInBlock"`
}

// Confirmed reports whether the transaction is in a block
func (t Transaction) Confirmed() bool {
	return t.Height > 0 && t.BlockHash != ""
}

// StatusMessage is returned by history refresh and reset
type StatusMessage struct {
	Message string     `json:"message"`
	Code    ResultCode `json:"code"`
}

// ResultCode accepts both string and numeric codes
type ResultCode string

func (c *ResultCode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = ResultCode(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = ResultCode(n.String())
	return nil
}

// TxOutput describes a single transaction output
type TxOutput struct {
	TxID        string          `json:"txId"`
	OutputIndex uint32          `json:"outputIndex"`
	Satoshis    decimal.Decimal `json:"satoshis"`
	Script      string          `json:"script"`
	Address     string          `json:"address"`
	Height      int64           `json:"height"`
	Spent       bool            `json:"spent"`
}

// BroadcastResult is the indexer's answer to a broadcast
type BroadcastResult struct {
	TxID    string     `json:"txId"`
	Message string     `json:"message"`
	Code    ResultCode `json:"code"`
}

// BlockHeader is the best block header known to the indexer
type BlockHeader struct {
	Height   int64  `json:"height"`
	Hash     string `json:"hash"`
	PrevHash string `json:"prevHash"`
	Time     int64  `json:"time"`
	Hex      string `json:"hex"`
}

// TokenInfo describes a deployed token
type TokenInfo struct {
	Tick       string          `json:"tick"`
	Max        decimal.Decimal `json:"max"`
	Limit      decimal.Decimal `json:"lim"`
	Decimals   int32           `json:"dec"`
	Minted     decimal.Decimal `json:"minted"`
	DeployTxID string          `json:"deployTxId"`
	Height     int64           `json:"height"`
}
