package stream

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestHubBroadcastLocal(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("trip-1")
	defer hub.Unregister(client)

	hub.Broadcast("trip-1", []byte("hello"))

	select {
	case msg := <-client.Send:
		if string(msg) != "hello" {
			t.Fatalf("unexpected message")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for message")
	}
}

func TestBroadcastSnapshotPayload(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("trip-1")
	defer hub.Unregister(client)

	hub.BroadcastSnapshot("trip-1", "expenses", json.RawMessage(`[{"id":"e1"}]`))

	select {
	case msg := <-client.Send:
		var event Event
		if err := json.Unmarshal(msg, &event); err != nil {
			t.Fatalf("unmarshal error: %v", err)
		}
		if event.Collection != "expenses" || event.TripID != "trip-1" {
			t.Fatalf("unexpected event: %+v", event)
		}
		if string(event.Items) != `[{"id":"e1"}]` {
			t.Fatalf("unexpected items: %s", event.Items)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for snapshot")
	}
}

func TestHubHelpers(t *testing.T) {
	ch := redisChannel("abc")
	if ch != "trip:abc:events" {
		t.Fatalf("unexpected channel %q", ch)
	}
	if tripIDFromChannel(ch) != "abc" {
		t.Fatalf("unexpected trip id")
	}
	if tripIDFromChannel("bad") != "" {
		t.Fatalf("expected empty trip id")
	}
}

func TestUnregisterCloses(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("trip-2")
	hub.Unregister(client)
	_, ok := <-client.Send
	if ok {
		t.Fatalf("expected channel closed")
	}
}

func TestHubRedisFanout(t *testing.T) {
	server := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer redisClient.Close()

	hub := NewHub(redisClient)
	client := hub.Register("trip-redis")
	defer hub.Unregister(client)

	// give the pattern subscription time to attach
	time.Sleep(20 * time.Millisecond)

	hub.BroadcastSnapshot("trip-redis", "messages", json.RawMessage(`[]`))

	select {
	case msg := <-client.Send:
		var event Event
		if err := json.Unmarshal(msg, &event); err != nil {
			t.Fatalf("unmarshal error: %v", err)
		}
		if event.Collection != "messages" || event.TripID != "trip-redis" {
			t.Fatalf("unexpected event: %+v", event)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("timeout waiting for fanout")
	}
}

func TestHubRedisPublishErrorFallsBackLocal(t *testing.T) {
	server := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	server.Close()
	defer redisClient.Close()

	hub := NewHub(redisClient)
	client := hub.Register("trip-bad")
	defer hub.Unregister(client)

	hub.Broadcast("trip-bad", []byte("ping"))

	select {
	case msg := <-client.Send:
		if string(msg) != "ping" {
			t.Fatalf("unexpected message")
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("timeout waiting for local fallback")
	}
}
