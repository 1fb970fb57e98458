// Package notify delivers the side effects of a new campaign: the organizer
// confirmation email and the Slack alert.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"greenspark-backend/internal/logging"
	"greenspark-backend/internal/mailer"
	"greenspark-backend/internal/models"
)

type Alerter interface {
	CampaignAlert(ctx context.Context, ev models.CampaignCreatedEvent) error
}

type Dispatcher struct {
	mail  mailer.Mailer
	alert Alerter
	log   logging.Logger
}

// NewDispatcher builds a Dispatcher. alert may be nil.
func NewDispatcher(mail mailer.Mailer, alert Alerter, log logging.Logger) *Dispatcher {
	return &Dispatcher{mail: mail, alert: alert, log: log.With("component", "notify")}
}

// Deliver sends the confirmation email and then the Slack alert. Only a mail
// failure is returned, so a redelivery never repeats a sent email because
// Slack was down.
func (d *Dispatcher) Deliver(ctx context.Context, ev models.CampaignCreatedEvent) error {
	msg, err := mailer.CampaignConfirmation(ev)
	if err != nil {
		return err
	}
	if err := d.mail.Send(ctx, msg); err != nil {
		return fmt.Errorf("send confirmation to %s: %w", ev.OrganizerEmail, err)
	}
	d.log.Info(ctx, "confirmation email sent", "campaign_id", ev.CampaignID)

	if d.alert != nil {
		if err := d.alert.CampaignAlert(ctx, ev); err != nil {
			d.log.Warn(ctx, "slack alert failed", "campaign_id", ev.CampaignID, "error", err)
		}
	}
	return nil
}

// Inline runs the Dispatcher on a goroutine per campaign. It is used when no
// message bus is configured.
type Inline struct {
	d       *Dispatcher
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewInline(d *Dispatcher, timeout time.Duration) *Inline {
	return &Inline{d: d, timeout: timeout}
}

func (in *Inline) CampaignCreated(ctx context.Context, c models.Campaign) error {
	ev := models.NewCampaignCreatedEvent(c)
	ctx = context.WithoutCancel(ctx)

	in.wg.Add(1)
	go func() {
		defer in.wg.Done()
		ctx, cancel := context.WithTimeout(ctx, in.timeout)
		defer cancel()
		if err := in.d.Deliver(ctx, ev); err != nil {
			in.d.log.Error(ctx, "campaign notification failed", "campaign_id", ev.CampaignID, "error", err)
		}
	}()
	return nil
}

// Wait blocks until in-flight deliveries finish.
func (in *Inline) Wait() {
	in.wg.Wait()
}
