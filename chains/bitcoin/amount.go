package bitcoin

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/shopspring/decimal"
)

// SatoshisToCoins converts base units to whole coins
func SatoshisToCoins(satoshis decimal.Decimal) decimal.Decimal {
	return satoshis.Shift(-8)
}

// CoinsToSatoshis converts whole coins to base units, truncating dust
func CoinsToSatoshis(coins decimal.Decimal) decimal.Decimal {
	return coins.Shift(8).Truncate(0)
}

// FormatBalance formats an amount of satoshis with 8 decimals
func FormatBalance(satoshis decimal.Decimal) string {
	return SatoshisToCoins(satoshis).StringFixed(8)
}

// FormatTokenAmount formats a token amount using the token's decimals
func FormatTokenAmount(amount decimal.Decimal, decimals int32) string {
	if decimals <= 0 {
		return amount.String()
	}
	return amount.Shift(-decimals).StringFixed(decimals)
}

// ParseCoins parses a coin amount such as "0.0001" into satoshis
func ParseCoins(s string) (int64, error) {
	coins, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if coins.IsNegative() {
		return 0, fmt.Errorf("invalid amount %q: must not be negative", s)
	}

	sats := CoinsToSatoshis(coins)
	if sats.GreaterThan(decimal.NewFromInt(btcutil.MaxSatoshi)) {
		return 0, fmt.Errorf("invalid amount %q: exceeds the maximum supply", s)
	}
	return sats.IntPart(), nil
}
