package stream

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// SnapshotSource returns the current full contents of one collection of a
// trip, already JSON-encoded.
type SnapshotSource func(ctx context.Context, tripID, collection string) (json.RawMessage, error)

// RegisterRoutes wires the websocket endpoint. Every connected client first
// receives one snapshot per collection, then a fresh snapshot of a
// collection whenever it changes. With pollInterval > 0 the snapshots come
// from per-collection pollers instead of hub broadcasts; the pollers also
// handle the initial delivery.
func RegisterRoutes(r fiber.Router, hub *Hub, collections []string, source SnapshotSource, pollInterval time.Duration) {
	r.Get("/ws/:tripID", websocket.New(func(c *websocket.Conn) {
		tripID := c.Params("tripID")
		client := hub.Register(tripID)
		defer hub.Unregister(client)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if pollInterval > 0 {
			for _, collection := range collections {
				collection := collection
				poller := &Poller{
					Interval: pollInterval,
					Fetch: func(ctx context.Context) ([]byte, error) {
						items, err := source(ctx, tripID, collection)
						if err != nil {
							return nil, err
						}
						return json.Marshal(Event{Collection: collection, TripID: tripID, Items: items})
					},
					Deliver: func(payload []byte) {
						select {
						case client.Send <- payload:
						default:
						}
					},
				}
				go poller.Run(ctx)
			}
		} else {
			for _, collection := range collections {
				items, err := source(ctx, tripID, collection)
				if err != nil {
					continue
				}
				payload, err := json.Marshal(Event{Collection: collection, TripID: tripID, Items: items})
				if err != nil {
					continue
				}
				select {
				case client.Send <- payload:
				default:
				}
			}
		}

		// Single writer: everything reaches the conn through client.Send.
		done := make(chan struct{})
		go func() {
			for msg := range client.Send {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					break
				}
			}
			close(done)
		}()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
		<-done
	}))
}
