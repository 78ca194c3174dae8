package api_test

import (
	"context"
	"errors"
	"testing"

	"vibeline/internal/api"
	"vibeline/internal/kv"
	"vibeline/internal/queue"
	"vibeline/internal/request"
	"vibeline/internal/services"
	"vibeline/internal/services/shoutout"
)

type fixedShoutouts struct{ text string }

func (f fixedShoutouts) Generate(_ context.Context, r request.Request) shoutout.Result {
	return shoutout.Result{Text: f.text + " " + r.SongName}
}

func newService(t *testing.T, shout api.Shoutouts) *api.QueueService {
	t.Helper()
	return api.NewQueueService(queue.Open(kv.NewMemory(), nil), shout)
}

func TestNewQueueServiceNil(t *testing.T) {
	if svc := api.NewQueueService(nil, nil); svc != nil {
		t.Fatal("expected nil service for nil queue")
	}
}

func TestQueueServiceSubmitAndList(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, nil)

	if _, err := svc.AddTag(ctx, api.TagRequest{Tag: "dub"}); err != nil {
		t.Fatalf("AddTag: %v", err)
	}
	low, err := svc.Submit(ctx, api.SubmitRequest{SongName: "King Tubby Meets", Artist: "Augustus Pablo", Vibe: "Dub", BidAmount: "2", BidCurrency: "usdc", BidNetwork: "bsc"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !low.Match || low.BidAmount != "2" || low.BidCurrency != "USDC" || low.BidNetwork != "BSC" {
		t.Fatalf("unexpected submitted item %+v", low)
	}
	high, err := svc.Submit(ctx, api.SubmitRequest{SongName: "Windowlicker", Artist: "Aphex Twin", UserID: "u9", BidAmount: "10.5"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if high.Match {
		t.Fatalf("request without a dub tag should not match: %+v", high)
	}

	list, err := svc.List(ctx, api.ListRequest{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list.Items) != 2 || list.Items[0].ID != high.ID || list.Items[1].ID != low.ID {
		t.Fatalf("unexpected ranked order %+v", list.Items)
	}
	mine, err := svc.List(ctx, api.ListRequest{UserID: "u9"})
	if err != nil || len(mine.Items) != 1 || mine.Items[0].ID != high.ID {
		t.Fatalf("unexpected user list %+v %v", mine, err)
	}
}

func TestQueueServiceTransitionErrors(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, nil)
	item, err := svc.Submit(ctx, api.SubmitRequest{SongName: "a", Artist: "b"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Transition(ctx, api.TransitionRequest{ID: item.ID, Status: "maybe"}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Transition(ctx, api.TransitionRequest{ID: "missing", Status: "accepted"}); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.Transition(ctx, api.TransitionRequest{ID: item.ID, Status: "paid"}); !errors.Is(err, services.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	updated, err := svc.Transition(ctx, api.TransitionRequest{ID: item.ID, Status: " Accepted "})
	if err != nil || updated.Status != "accepted" || updated.Bucket != 1 || updated.Match {
		t.Fatalf("Transition: %+v %v", updated, err)
	}
}

func TestQueueServiceTransitionReportsMatch(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, nil)
	if _, err := svc.AddTag(ctx, api.TagRequest{Tag: "acid"}); err != nil {
		t.Fatalf("AddTag: %v", err)
	}
	item, err := svc.Submit(ctx, api.SubmitRequest{SongName: "Acid Tracks", Artist: "Phuture"})
	if err != nil {
		t.Fatal(err)
	}
	updated, err := svc.Transition(ctx, api.TransitionRequest{ID: item.ID, Status: "accepted"})
	if err != nil || !updated.Match {
		t.Fatalf("expected match flag on transitioned item: %+v %v", updated, err)
	}
}

func TestQueueServiceTags(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, nil)
	resp, err := svc.AddTag(ctx, api.TagRequest{Tag: "  "})
	if err != nil || resp.Changed || len(resp.Tags) != 0 {
		t.Fatalf("empty tag should be a no-op: %+v %v", resp, err)
	}
	resp, err = svc.AddTag(ctx, api.TagRequest{Tag: "Techno"})
	if err != nil || !resp.Changed || len(resp.Tags) != 1 || resp.Tags[0] != "techno" {
		t.Fatalf("AddTag: %+v %v", resp, err)
	}
	resp, err = svc.RemoveTag(ctx, api.TagRequest{Tag: "house"})
	if err != nil || resp.Changed {
		t.Fatalf("RemoveTag of missing tag: %+v %v", resp, err)
	}
	prefs, err := svc.Preferences(ctx)
	if err != nil || len(prefs.Genres) != 1 || prefs.Artists == nil {
		t.Fatalf("Preferences: %+v %v", prefs, err)
	}
}

func TestQueueServiceShoutout(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, fixedShoutouts{text: "up next:"})
	item, err := svc.Submit(ctx, api.SubmitRequest{SongName: "Xtal", Artist: "Aphex Twin"})
	if err != nil {
		t.Fatal(err)
	}
	resp, err := svc.Shoutout(ctx, item.ID)
	if err != nil || resp.Text != "up next: Xtal" || resp.Fallback {
		t.Fatalf("Shoutout: %+v %v", resp, err)
	}

	bare := newService(t, nil)
	item, err = bare.Submit(ctx, api.SubmitRequest{SongName: "Xtal", Artist: "Aphex Twin", UserName: "Ana"})
	if err != nil {
		t.Fatal(err)
	}
	resp, err = bare.Shoutout(ctx, item.ID)
	if err != nil || !resp.Fallback || resp.Text != "Next up: Xtal for Ana!" {
		t.Fatalf("fallback Shoutout: %+v %v", resp, err)
	}
	if _, err := bare.Shoutout(ctx, "missing"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestQueueServiceClearAndStats(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, nil)
	for _, song := range []string{"a", "b", "c"} {
		if _, err := svc.Submit(ctx, api.SubmitRequest{SongName: song, Artist: "x", BidAmount: "1.5"}); err != nil {
			t.Fatal(err)
		}
	}
	stats, err := svc.Stats(ctx)
	if err != nil || stats.Total != 3 || stats.Pending != 3 || stats.TopBid != "1.5" || stats.Counts["paid"] != 0 {
		t.Fatalf("Stats: %+v %v", stats, err)
	}
	cleared, err := svc.Clear(ctx)
	if err != nil || cleared.Removed != 3 {
		t.Fatalf("Clear: %+v %v", cleared, err)
	}
}
