package notify

import (
	"context"
	"log"
	"time"

	"apprenticetrack-engine/internal/domain"
	"apprenticetrack-engine/internal/taxonomy"
)

const (
	batchSize  = 10 // also the webhook embed-per-message cap
	batchDelay = time.Second
)

// Batcher fans new listings out to channels in fixed-size batches with a
// fixed pause between sends so the platform's rate limiter is never burst.
type Batcher struct {
	sender Sender
	tax    *taxonomy.Taxonomy

	pause func(context.Context, time.Duration)
}

func NewBatcher(sender Sender, tax *taxonomy.Taxonomy) *Batcher {
	return &Batcher{sender: sender, tax: tax, pause: sleepCtx}
}

// Send is best-effort: a failed batch is logged and the next batch or
// channel proceeds. Nothing is retried and nothing propagates.
func (b *Batcher) Send(ctx context.Context, listings []*domain.Listing, channels []Channel) {
	if len(listings) == 0 || len(channels) == 0 {
		return
	}

	for ci, ch := range channels {
		for start := 0; start < len(listings); start += batchSize {
			end := start + batchSize
			if end > len(listings) {
				end = len(listings)
			}

			msg := Message{Content: ch.Ping}
			for _, l := range listings[start:end] {
				msg.Embeds = append(msg.Embeds, Card(l, b.tax))
			}

			if err := b.sender.Send(ctx, ch, msg); err != nil {
				log.Printf("[notify] channel=%q batch=%d-%d err=%v", ch.Name, start, end, err)
			}

			if end < len(listings) {
				b.pause(ctx, batchDelay)
			}
		}
		if ci < len(channels)-1 {
			b.pause(ctx, batchDelay)
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
