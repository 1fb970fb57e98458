package natsbus

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/vmihailenco/msgpack/v5"

	"greenspark-backend/internal/models"
)

const publishTimeout = 5 * time.Second

type jsPublisher interface {
	Publish(subj string, data []byte, opts ...nats.PubOpt) (*nats.PubAck, error)
}

// Publisher puts campaign events on JetStream for the notification consumer.
type Publisher struct {
	js jsPublisher
}

func NewPublisher(js nats.JetStreamContext) *Publisher {
	return &Publisher{js: js}
}

func (p *Publisher) CampaignCreated(ctx context.Context, c models.Campaign) error {
	data, err := msgpack.Marshal(models.NewCampaignCreatedEvent(c))
	if err != nil {
		return fmt.Errorf("encode campaign event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	// MsgId lets the stream drop a duplicate if the publish is retried.
	if _, err := p.js.Publish(SubjectCampaignCreated, data, nats.Context(ctx), nats.MsgId(c.ID)); err != nil {
		return fmt.Errorf("publish campaign event: %w", err)
	}
	return nil
}
