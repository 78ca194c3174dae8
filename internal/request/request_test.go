package request_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"vibeline/internal/request"
)

func TestRequestJSONShape(t *testing.T) {
	r := request.Request{
		ID:        "abc",
		SongName:  "Windowlicker",
		Artist:    "Aphex Twin",
		UserID:    "u1",
		UserName:  "Guest",
		Status:    request.StatusAccepted,
		Timestamp: time.UnixMilli(1_700_000_000_123).UTC(),
		Bid:       &request.Bid{Amount: 5_500_000, Currency: request.CurrencyUSDC, Network: request.NetworkBSC},
	}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	text := string(data)
	for _, fragment := range []string{
		`"songName":"Windowlicker"`,
		`"userId":"u1"`,
		`"status":"accepted"`,
		`"timestamp":1700000000123`,
		`"bidAmount":"5.5"`,
		`"bidCurrency":"USDC"`,
		`"bidNetwork":"BSC"`,
	} {
		if !strings.Contains(text, fragment) {
			t.Fatalf("expected %s in %s", fragment, text)
		}
	}

	var decoded request.Request
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !decoded.Timestamp.Equal(r.Timestamp) || decoded.BidAmount() != r.BidAmount() || decoded.Bid.Network != request.NetworkBSC {
		t.Fatalf("decoded request differs: %+v", decoded)
	}
}

func TestRequestJSONWithoutBid(t *testing.T) {
	data, err := json.Marshal(request.Request{ID: "x", Status: request.StatusPending})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "bidAmount") {
		t.Fatalf("expected bid fields to be omitted: %s", data)
	}
}

func TestRequestJSONLegacyBadBid(t *testing.T) {
	raw := `{"id":"1","songName":"a","artist":"b","status":"pending","timestamp":1,"bidAmount":"lots","bidCurrency":"USDT"}`
	var r request.Request
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.Bid != nil {
		t.Fatalf("expected unparseable bid to be dropped, got %+v", r.Bid)
	}
	if r.BidAmount() != 0 {
		t.Fatalf("expected zero bid amount")
	}
}

func TestRequestJSONUnknownStatus(t *testing.T) {
	raw := `{"id":"1","songName":"a","artist":"b","status":"playing","timestamp":1}`
	var r request.Request
	if err := json.Unmarshal([]byte(raw), &r); err == nil {
		t.Fatal("expected unknown status to fail decoding")
	}
}

func TestRequestClone(t *testing.T) {
	r := request.Request{Bid: &request.Bid{Amount: 1}}
	c := r.Clone()
	c.Bid.Amount = 2
	if r.Bid.Amount != 1 {
		t.Fatal("clone shares bid pointer")
	}
}

func TestHasBidDistinguishesZeroFromAbsent(t *testing.T) {
	absent := request.Request{SongName: "a", Artist: "b"}
	zero := request.Request{SongName: "a", Artist: "b", Bid: &request.Bid{Amount: 0, Currency: request.CurrencyUSDT, Network: request.NetworkBase}}
	if absent.HasBid() {
		t.Fatal("request without a bid reported one")
	}
	if !zero.HasBid() {
		t.Fatal("zero bid should still count as a bid")
	}
	if zero.BidAmount() != absent.BidAmount() {
		t.Fatal("zero and absent bids should rank the same")
	}
}
