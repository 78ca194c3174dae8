package request

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Amount is a non-negative bid value in integer minor units. One whole unit
// of a stablecoin equals AmountScale minor units.
type Amount int64

const (
	// AmountDecimals is the number of fractional digits an Amount can carry.
	AmountDecimals = 6
	// AmountScale is the number of minor units per whole unit.
	AmountScale Amount = 1_000_000
)

var (
	errAmountEmpty     = errors.New("amount is empty")
	errAmountSyntax    = errors.New("amount must be a non-negative decimal number")
	errAmountPrecision = fmt.Errorf("amount has more than %d decimal places", AmountDecimals)
	errAmountRange     = errors.New("amount is too large")
)

// ParseAmount converts a decimal string such as "12.5" into minor units.
// Signs, exponents, and more than AmountDecimals fractional digits are rejected.
func ParseAmount(value string) (Amount, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, errAmountEmpty
	}
	whole, frac, _ := strings.Cut(value, ".")
	if whole == "" && frac == "" {
		return 0, errAmountSyntax
	}
	if !isDigits(whole) || !isDigits(frac) {
		return 0, errAmountSyntax
	}
	if len(frac) > AmountDecimals {
		return 0, errAmountPrecision
	}
	if whole == "" {
		whole = "0"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units > math.MaxInt64/int64(AmountScale)-1 {
		return 0, errAmountRange
	}
	var minor int64
	if frac != "" {
		minor, err = strconv.ParseInt(frac+strings.Repeat("0", AmountDecimals-len(frac)), 10, 64)
		if err != nil {
			return 0, errAmountSyntax
		}
	}
	return Amount(units*int64(AmountScale) + minor), nil
}

func isDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// String renders the amount as a minimal decimal string ("12", "12.5").
func (a Amount) String() string {
	sign := ""
	if a < 0 {
		sign = "-"
		a = -a
	}
	whole := a / AmountScale
	frac := a % AmountScale
	if frac == 0 {
		return fmt.Sprintf("%s%d", sign, whole)
	}
	digits := strings.TrimRight(fmt.Sprintf("%0*d", AmountDecimals, int64(frac)), "0")
	return fmt.Sprintf("%s%d.%s", sign, whole, digits)
}

// Currency is the stablecoin a bid is denominated in.
type Currency string

const (
	CurrencyUSDT Currency = "USDT"
	CurrencyUSDC Currency = "USDC"
)

var currencies = []Currency{CurrencyUSDT, CurrencyUSDC}

// Currencies lists the accepted bid currencies.
func Currencies() []Currency {
	return append([]Currency(nil), currencies...)
}

// ParseCurrency matches value case-insensitively against the known currencies.
func ParseCurrency(value string) (Currency, bool) {
	value = strings.TrimSpace(value)
	for _, c := range currencies {
		if strings.EqualFold(value, string(c)) {
			return c, true
		}
	}
	return "", false
}

// Network is the chain a bid payment settles on.
type Network string

const (
	NetworkCamp Network = "Camp Network"
	NetworkBSC  Network = "BSC"
	NetworkBase Network = "Base"
)

var networks = []Network{NetworkCamp, NetworkBSC, NetworkBase}

// Networks lists the accepted bid networks.
func Networks() []Network {
	return append([]Network(nil), networks...)
}

// ParseNetwork matches value against the known networks, ignoring case and
// separators, so "camp-network" and "CampNetwork" both resolve.
func ParseNetwork(value string) (Network, bool) {
	key := networkKey(value)
	if key == "" {
		return "", false
	}
	for _, n := range networks {
		if networkKey(string(n)) == key {
			return n, true
		}
	}
	return "", false
}

func networkKey(value string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(value) {
		switch r {
		case ' ', '-', '_', '\t':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Bid is an optional monetary offer attached to a request. Currency and
// Network are informational and never affect ranking.
type Bid struct {
	Amount   Amount
	Currency Currency
	Network  Network
}

// String formats the bid for display, e.g. "25 USDT (Base)".
func (b Bid) String() string {
	out := b.Amount.String()
	if b.Currency != "" {
		out += " " + string(b.Currency)
	}
	if b.Network != "" {
		out += " (" + string(b.Network) + ")"
	}
	return out
}
