package request_test

import (
	"testing"

	"vibeline/internal/request"
)

func TestParseAmount(t *testing.T) {
	valid := []struct {
		in   string
		want request.Amount
		text string
	}{
		{"0", 0, "0"},
		{"10", 10 * request.AmountScale, "10"},
		{"12.5", 12_500_000, "12.5"},
		{" .25 ", 250_000, "0.25"},
		{"7.", 7 * request.AmountScale, "7"},
		{"0.000001", 1, "0.000001"},
		{"3.140000", 3_140_000, "3.14"},
	}
	for _, tc := range valid {
		got, err := request.ParseAmount(tc.in)
		if err != nil {
			t.Fatalf("ParseAmount(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseAmount(%q) = %d, want %d", tc.in, got, tc.want)
		}
		if got.String() != tc.text {
			t.Fatalf("Amount(%d).String() = %q, want %q", got, got.String(), tc.text)
		}
	}

	invalid := []string{"", "-1", "+2", "1e3", "abc", "1.2.3", ".", "0.0000001", "99999999999999999999"}
	for _, in := range invalid {
		if _, err := request.ParseAmount(in); err == nil {
			t.Fatalf("ParseAmount(%q) expected error", in)
		}
	}
}

func TestParseCurrencyAndNetwork(t *testing.T) {
	if c, ok := request.ParseCurrency("usdc"); !ok || c != request.CurrencyUSDC {
		t.Fatalf("ParseCurrency(usdc) = %q %v", c, ok)
	}
	if _, ok := request.ParseCurrency("DAI"); ok {
		t.Fatal("expected DAI to be rejected")
	}
	for in, want := range map[string]request.Network{
		"camp network": request.NetworkCamp,
		"Camp-Network": request.NetworkCamp,
		"bsc":          request.NetworkBSC,
		"BASE":         request.NetworkBase,
	} {
		got, ok := request.ParseNetwork(in)
		if !ok || got != want {
			t.Fatalf("ParseNetwork(%q) = %q %v, want %q", in, got, ok, want)
		}
	}
	if _, ok := request.ParseNetwork("solana"); ok {
		t.Fatal("expected solana to be rejected")
	}
}

func TestBidString(t *testing.T) {
	bid := request.Bid{Amount: 25 * request.AmountScale, Currency: request.CurrencyUSDT, Network: request.NetworkBase}
	if got := bid.String(); got != "25 USDT (Base)" {
		t.Fatalf("unexpected bid string %q", got)
	}
}
