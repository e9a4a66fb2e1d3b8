package stream

import (
	"bytes"
	"context"
	"time"
)

// Poller repeatedly fetches a snapshot and delivers it when it changes.
// It is the change feed of last resort for deployments without redis
// fanout: same wire format, higher latency.
type Poller struct {
	Interval time.Duration
	Fetch    func(ctx context.Context) ([]byte, error)
	Deliver  func(payload []byte)
}

// Run blocks until ctx is done. The first successful fetch is always
// delivered; later fetches are delivered only when the payload differs
// from the previous one. Fetch errors skip the cycle.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	var last []byte
	delivered := false

	poll := func() {
		payload, err := p.Fetch(ctx)
		if err != nil {
			return
		}
		if delivered && bytes.Equal(payload, last) {
			return
		}
		last = payload
		delivered = true
		p.Deliver(payload)
	}

	poll()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			poll()
		}
	}
}
