// Package worker runs the background loops: outbox delivery and the
// periodic sweeps for overdue invoices and abandoned checkouts.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"legacy_portal/internal/domain/entities"
	"legacy_portal/internal/infrastructure/notification"
	"legacy_portal/internal/usecase"
	"legacy_portal/internal/usecase/interfaces"
)

// errNoRecipient marks an email effect whose recipient is not known yet,
// such as a PM email before any PM was assigned.
var errNoRecipient = errors.New("no recipient address")

type DispatcherConfig struct {
	Interval    time.Duration
	Batch       int
	MaxAttempts int
	AdminEmail  string
	ResponseURL func(token, action string) string
}

// OutboxDispatcher delivers outbox events at least once. An event is marked
// processed only after its effect succeeded; failures are recorded and
// retried on the next tick until MaxAttempts is reached, then the event is
// abandoned and leaves the pending set.
type OutboxDispatcher struct {
	cfg    DispatcherConfig
	outbox interfaces.IOutboxRepository
	orders usecase.IOrderUseCase
	email  interfaces.IEmailSender
	tms    interfaces.ITMSClient
	now    func() time.Time
}

func NewOutboxDispatcher(
	cfg DispatcherConfig,
	outbox interfaces.IOutboxRepository,
	orders usecase.IOrderUseCase,
	email interfaces.IEmailSender,
	tms interfaces.ITMSClient,
) *OutboxDispatcher {
	if cfg.Batch <= 0 {
		cfg.Batch = 50
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 10
	}
	return &OutboxDispatcher{
		cfg:    cfg,
		outbox: outbox,
		orders: orders,
		email:  email,
		tms:    tms,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (d *OutboxDispatcher) Run(ctx context.Context) {
	log.Printf("[worker][outbox] started interval=%s batch=%d", d.cfg.Interval, d.cfg.Batch)
	ticker := time.NewTicker(d.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			d.Dispatch(ctx)
		case <-ctx.Done():
			log.Printf("[worker][outbox] stopped")
			return
		}
	}
}

// Dispatch handles one batch of pending events and returns how many were
// delivered.
func (d *OutboxDispatcher) Dispatch(ctx context.Context) int {
	events, err := d.outbox.ListPending(ctx, d.cfg.Batch)
	if err != nil {
		log.Printf("[worker][outbox] list pending failed err=%v", err)
		return 0
	}

	delivered := 0
	for _, e := range events {
		if e.Attempts >= d.cfg.MaxAttempts {
			d.abandon(ctx, e)
			continue
		}
		if err := d.handle(ctx, e); err != nil {
			log.Printf("[worker][outbox] event failed id=%s effect=%s order_id=%s attempt=%d err=%v", e.ID, e.Effect, e.OrderID, e.Attempts+1, err)
			if rerr := d.outbox.RecordFailure(ctx, e.ID, err.Error()); rerr != nil {
				log.Printf("[worker][outbox] record failure failed id=%s err=%v", e.ID, rerr)
				continue
			}
			if e.Attempts+1 >= d.cfg.MaxAttempts {
				d.abandon(ctx, e)
			}
			continue
		}
		if err := d.outbox.MarkProcessed(ctx, e.ID, d.now()); err != nil && !errors.Is(err, interfaces.ErrConditionFailed) {
			log.Printf("[worker][outbox] mark processed failed id=%s err=%v", e.ID, err)
			continue
		}
		delivered++
	}
	return delivered
}

// abandon settles an event that ran out of attempts. If the write fails the
// event stays pending and is abandoned again on the next tick.
func (d *OutboxDispatcher) abandon(ctx context.Context, e entities.OutboxEvent) {
	log.Printf("[worker][outbox] giving up id=%s effect=%s order_id=%s", e.ID, e.Effect, e.OrderID)
	if err := d.outbox.MarkAbandoned(ctx, e.ID, d.now()); err != nil && !errors.Is(err, interfaces.ErrConditionFailed) {
		log.Printf("[worker][outbox] mark abandoned failed id=%s err=%v", e.ID, err)
	}
}

func (d *OutboxDispatcher) handle(ctx context.Context, e entities.OutboxEvent) error {
	o, err := d.orders.Get(ctx, e.OrderID)
	if err != nil {
		return err
	}
	if e.Effect == entities.EffectTMSCreateProject {
		return d.createTMSProject(ctx, o)
	}

	err = d.sendEmail(ctx, e, o)
	if errors.Is(err, errNoRecipient) {
		log.Printf("[worker][outbox] skipping effect=%s order_id=%s recipient=%s: %v", e.Effect, o.ID, e.Recipient, err)
		return nil
	}
	return err
}

func (d *OutboxDispatcher) createTMSProject(ctx context.Context, o entities.Order) error {
	if o.TMSProjectID != "" {
		return nil
	}
	if d.tms == nil {
		return errors.New("tms client not configured")
	}
	deadline := o.CreatedAt
	if o.Deadline != nil {
		deadline = *o.Deadline
	}
	projectID, err := d.tms.CreateProject(ctx, interfaces.TMSProjectRequest{
		Name:           o.Reference,
		ClientName:     o.ClientName,
		ClientEmail:    o.ClientEmail,
		SourceLanguage: o.TranslateFrom,
		TargetLanguage: o.TranslateTo,
		WordCount:      o.WordCount,
		Urgency:        string(o.Urgency),
		Deadline:       deadline,
		Price:          o.TotalPrice,
	})
	if err != nil {
		return err
	}
	_, err = d.orders.AttachTMSProject(ctx, o.ID, projectID)
	return err
}

func (d *OutboxDispatcher) sendEmail(ctx context.Context, e entities.OutboxEvent, o entities.Order) error {
	to, name := d.recipient(e.Recipient, o)
	if to == "" {
		return errNoRecipient
	}

	data := notification.EmailData{Order: o, RecipientName: name}
	if e.Effect == entities.EffectEmailTranslatorAssignment {
		if o.AssignmentStatus != entities.AssignmentPending || o.AssignmentToken == "" {
			return fmt.Errorf("assignment no longer pending: %w", errNoRecipient)
		}
		data.AcceptURL = d.cfg.ResponseURL(o.AssignmentToken, "accept")
		data.DeclineURL = d.cfg.ResponseURL(o.AssignmentToken, "decline")
	}

	subject, html, err := notification.RenderEmail(e.Effect, data)
	if err != nil {
		return err
	}
	return d.email.Send(ctx, interfaces.EmailMessage{To: to, Subject: subject, HTML: html})
}

func (d *OutboxDispatcher) recipient(r entities.Recipient, o entities.Order) (email, name string) {
	switch r {
	case entities.RecipientClient:
		return o.ClientEmail, o.ClientName
	case entities.RecipientAdmin:
		return d.cfg.AdminEmail, ""
	case entities.RecipientPM:
		return o.PM.Email, o.PM.Name
	case entities.RecipientTranslator:
		return o.Translator.Email, o.Translator.Name
	}
	return "", ""
}
