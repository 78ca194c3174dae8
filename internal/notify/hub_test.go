package notify

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestHubPublishAssignsSequence(t *testing.T) {
	hub := NewHub(10)
	first := hub.Publish(Event{Kind: KindRequestSubmitted, RequestID: "a"})
	second := hub.Publish(Event{Kind: KindRequestUpdated, RequestID: "a", Status: "accepted"})
	if first.Sequence != 1 || second.Sequence != 2 {
		t.Fatalf("unexpected sequences %d %d", first.Sequence, second.Sequence)
	}
	if first.Timestamp.IsZero() {
		t.Fatal("expected timestamp to be stamped")
	}
}

func TestHubRingBufferEvictsOldest(t *testing.T) {
	hub := NewHub(3)
	for range 5 {
		hub.Publish(Event{Kind: KindPreferencesUpdated})
	}
	events, next := hub.Tail(10)
	if len(events) != 3 || next != 5 {
		t.Fatalf("expected 3 buffered events and next=5, got %d and %d", len(events), next)
	}
	if hub.FirstSequence() != 3 {
		t.Fatalf("expected first sequence 3, got %d", hub.FirstSequence())
	}
}

func TestHubFetchSince(t *testing.T) {
	hub := NewHub(10)
	for range 4 {
		hub.Publish(Event{Kind: KindRequestSubmitted})
	}
	events, next, err := hub.Fetch(context.Background(), 2, 0, false)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(events) != 2 || events[0].Sequence != 3 || next != 4 {
		t.Fatalf("unexpected fetch result %+v next=%d", events, next)
	}
	events, _, _ = hub.Fetch(context.Background(), 4, 0, false)
	if len(events) != 0 {
		t.Fatalf("expected no events after latest sequence, got %d", len(events))
	}
}

func TestHubFetchWaitsForPublish(t *testing.T) {
	hub := NewHub(10)
	done := make(chan []Event, 1)
	go func() {
		events, _, _ := hub.Fetch(context.Background(), 0, 0, true)
		done <- events
	}()
	time.Sleep(20 * time.Millisecond)
	hub.Publish(Event{Kind: KindRequestsCleared})
	select {
	case events := <-done:
		if len(events) != 1 || events[0].Kind != KindRequestsCleared {
			t.Fatalf("unexpected events %+v", events)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("fetch did not wake on publish")
	}
}

func TestHubFetchHonorsCancellation(t *testing.T) {
	hub := NewHub(10)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, _, err := hub.Fetch(ctx, 0, 0, true)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestSubscriptionDelivery(t *testing.T) {
	hub := NewHub(10)
	sub := hub.Subscribe(1)
	hub.Publish(Event{Kind: KindRequestSubmitted, RequestID: "a"})
	hub.Publish(Event{Kind: KindRequestSubmitted, RequestID: "b"})

	evt := <-sub.C()
	if evt.RequestID != "a" {
		t.Fatalf("unexpected event %+v", evt)
	}
	if sub.Dropped() != 1 {
		t.Fatalf("expected one dropped event, got %d", sub.Dropped())
	}

	sub.Close()
	sub.Close()
	if _, ok := <-sub.C(); ok {
		t.Fatal("expected channel to be closed")
	}
	if hub.Subscribers() != 0 {
		t.Fatalf("expected no subscribers, got %d", hub.Subscribers())
	}
	hub.Publish(Event{Kind: KindRequestSubmitted})
}
