package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/vmihailenco/msgpack/v5"

	"greenspark-backend/internal/logging"
	"greenspark-backend/internal/models"
	"greenspark-backend/internal/natsbus"
)

const (
	durableName  = "campaign-notifier"
	maxDeliver   = 5
	retryDelay   = 30 * time.Second
	deliverLimit = 2 * time.Minute
)

type Deliverer interface {
	Deliver(ctx context.Context, ev models.CampaignCreatedEvent) error
}

// acker is the part of *nats.Msg the consumer needs.
type acker interface {
	Ack(opts ...nats.AckOpt) error
	NakWithDelay(delay time.Duration, opts ...nats.AckOpt) error
	Term(opts ...nats.AckOpt) error
}

// Consumer pulls campaign events from JetStream and hands them to a Deliverer.
type Consumer struct {
	js      nats.JetStreamContext
	deliver Deliverer
	log     logging.Logger
	sub     *nats.Subscription
	wg      sync.WaitGroup
}

func NewConsumer(js nats.JetStreamContext, deliver Deliverer, log logging.Logger) *Consumer {
	return &Consumer{js: js, deliver: deliver, log: log.With("component", "notify-consumer")}
}

// Start begins consuming events from JetStream.
func (c *Consumer) Start(ctx context.Context) error {
	sub, err := c.js.PullSubscribe(
		natsbus.SubjectCampaignCreated,
		durableName,
		nats.BindStream(natsbus.StreamName),
		nats.ManualAck(),
		nats.AckWait(deliverLimit+10*time.Second),
		nats.MaxDeliver(maxDeliver),
		nats.MaxAckPending(100),
	)
	if err != nil {
		return err
	}
	c.sub = sub

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.consumeLoop(ctx)
	}()
	c.log.Info(ctx, "notification consumer started", "durable", durableName)
	return nil
}

func (c *Consumer) consumeLoop(ctx context.Context) {
	const (
		minFetch = 1
		maxFetch = 32
	)
	fetchSize := 8

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msgs, err := c.sub.Fetch(fetchSize, nats.MaxWait(5*time.Second))
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, nats.ErrBadSubscription) || errors.Is(err, nats.ErrConnectionClosed) {
				return
			}
			if !errors.Is(err, nats.ErrTimeout) {
				c.log.Warn(ctx, "fetch error", "error", err)
			}
			if fetchSize > minFetch {
				fetchSize /= 2
			}
			continue
		}

		if len(msgs) == fetchSize && fetchSize < maxFetch {
			fetchSize *= 2
		}

		for _, msg := range msgs {
			c.handle(ctx, msg.Data, msg)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, data []byte, msg acker) {
	var ev models.CampaignCreatedEvent
	if err := msgpack.Unmarshal(data, &ev); err != nil {
		c.log.Error(ctx, "undecodable campaign event, terminating", "error", err)
		_ = msg.Term()
		return
	}

	dctx, cancel := context.WithTimeout(ctx, deliverLimit)
	defer cancel()

	if err := c.deliver.Deliver(dctx, ev); err != nil {
		c.log.Warn(ctx, "delivery failed, will retry", "campaign_id", ev.CampaignID, "error", err)
		_ = msg.NakWithDelay(retryDelay)
		return
	}
	_ = msg.Ack()
}

// Stop drains the subscription and waits for the loop to exit.
func (c *Consumer) Stop() error {
	var err error
	if c.sub != nil {
		err = c.sub.Drain()
	}
	c.wg.Wait()
	return err
}
