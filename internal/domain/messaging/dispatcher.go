package messaging

import (
	"context"
	"time"

	"github.com/google/uuid"

	"dairy-herd-manager/internal/platform/logger"
	"dairy-herd-manager/internal/platform/metrics"
	"dairy-herd-manager/internal/ports/sms"
)

const (
	DefaultSMSTimeout = 15 * time.Second

	// Failed messages older than this are not picked up by the re-send sweep.
	DefaultResendMaxAge = 24 * time.Hour
)

// Dispatcher turns intents into rendered messages, sends them through the
// SMS gateway and records every attempt in the ledger. Dispatch failures
// are recorded and logged, never returned: notification problems must not
// affect the reproductive-event write that produced the intent.
type Dispatcher struct {
	ledger   Repository
	gateway  sms.Gateway
	contacts ContactDirectory

	smsTimeout time.Duration
	now        func() time.Time
	log        logger.Logger
}

func NewDispatcher(ledger Repository, gateway sms.Gateway, contacts ContactDirectory, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		ledger:     ledger,
		gateway:    gateway,
		contacts:   contacts,
		smsTimeout: DefaultSMSTimeout,
		now:        time.Now,
		log:        log,
	}
}

// Dispatch processes each intent independently: one gateway attempt per
// intent, every attempt recorded. The returned messages reflect their final
// ledger state.
func (d *Dispatcher) Dispatch(ctx context.Context, intents []Intent) []Message {
	out := make([]Message, 0, len(intents))
	for _, it := range intents {
		out = append(out, d.dispatchOne(ctx, it))
	}
	return out
}

func (d *Dispatcher) dispatchOne(ctx context.Context, it Intent) Message {
	m := Message{
		ID:     uuid.NewString(),
		FarmID: it.FarmID,
		CowID:  it.CowID,
		Type:   it.Type,
		Role:   it.Role,
		SentAt: d.now(),
	}

	m.Recipient = it.Recipient
	if m.Recipient == "" {
		contacts, err := d.contacts.FarmContacts(ctx, it.FarmID)
		if err != nil {
			return d.recordUndeliverable(ctx, m, "missing recipient: "+err.Error())
		}
		m.Recipient = contacts.PhoneFor(it.Role)
	}
	if m.Recipient == "" {
		return d.recordUndeliverable(ctx, m, "missing recipient: no "+string(it.Role)+" for farm "+it.FarmID)
	}

	body, err := Render(it.Type, it.Params)
	if err != nil {
		return d.recordUndeliverable(ctx, m, err.Error())
	}
	m.Body = body

	m.Status = StatusPending
	if err := d.ledger.Append(ctx, m); err != nil {
		d.log.Error("ledger append failed", logger.Fields{"farm_id": m.FarmID, "cow_id": m.CowID, "type": m.Type, "err": err.Error()})
		m.Status = StatusFailed
		m.Error = err.Error()
		return m
	}

	callCtx, cancel := context.WithTimeout(ctx, d.smsTimeout)
	res, err := d.gateway.Send(callCtx, m.Recipient, m.Body)
	cancel()

	switch {
	case err != nil:
		m.Status = StatusFailed
		m.Error = err.Error()
	case res.Status == sms.StatusSent:
		m.Status = StatusSent
		m.ProviderRef = res.ProviderRef
	default:
		m.Status = StatusFailed
		m.Error = res.Err
	}

	if err := d.ledger.Finalize(ctx, m.ID, m.Status, m.Error, m.ProviderRef); err != nil {
		d.log.Error("ledger finalize failed", logger.Fields{"message_id": m.ID, "err": err.Error()})
	}

	if m.Status == StatusSent {
		d.log.Info("sms sent", logger.Fields{"farm_id": m.FarmID, "cow_id": m.CowID, "type": m.Type, "to": m.Recipient})
	} else {
		d.log.Warn("sms failed", logger.Fields{"farm_id": m.FarmID, "cow_id": m.CowID, "type": m.Type, "err": m.Error})
	}
	metrics.MessagesDispatched.WithLabelValues(string(m.Type), string(m.Status)).Inc()

	return m
}

// recordUndeliverable writes a failed ledger row without touching the
// gateway. Used for unresolved recipients and template misses.
func (d *Dispatcher) recordUndeliverable(ctx context.Context, m Message, reason string) Message {
	m.Status = StatusFailed
	m.Error = reason

	if err := d.ledger.Append(ctx, m); err != nil {
		d.log.Error("ledger append failed", logger.Fields{"farm_id": m.FarmID, "type": m.Type, "err": err.Error()})
	}
	d.log.Warn("message not dispatched", logger.Fields{"farm_id": m.FarmID, "cow_id": m.CowID, "type": m.Type, "reason": reason})
	metrics.MessagesDispatched.WithLabelValues(string(m.Type), string(StatusFailed)).Inc()
	return m
}

// ResendFailed re-attempts failed messages younger than maxAge, once each.
// A message that already has a resend, or is itself a resend, is skipped.
// Returns the number of re-attempts made.
func (d *Dispatcher) ResendFailed(ctx context.Context, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		maxAge = DefaultResendMaxAge
	}
	cutoff := d.now().Add(-maxAge)

	failed, err := d.ledger.ListFailedSince(ctx, cutoff, 0)
	if err != nil {
		return 0, err
	}

	resent := 0
	for _, orig := range failed {
		if ctx.Err() != nil {
			return resent, ctx.Err()
		}
		if orig.ResendOf != "" || orig.Recipient == "" || orig.Body == "" {
			continue
		}
		done, err := d.ledger.HasResend(ctx, orig.ID)
		if err != nil {
			d.log.Warn("resend check failed", logger.Fields{"message_id": orig.ID, "err": err.Error()})
			continue
		}
		if done {
			continue
		}

		m := Message{
			ID:        uuid.NewString(),
			FarmID:    orig.FarmID,
			CowID:     orig.CowID,
			Type:      orig.Type,
			Role:      orig.Role,
			Recipient: orig.Recipient,
			Body:      orig.Body,
			Status:    StatusPending,
			ResendOf:  orig.ID,
			SentAt:    d.now(),
		}
		if err := d.ledger.Append(ctx, m); err != nil {
			d.log.Error("ledger append failed", logger.Fields{"message_id": m.ID, "err": err.Error()})
			continue
		}

		callCtx, cancel := context.WithTimeout(ctx, d.smsTimeout)
		res, err := d.gateway.Send(callCtx, m.Recipient, m.Body)
		cancel()

		status, errText, ref := StatusFailed, "", ""
		switch {
		case err != nil:
			errText = err.Error()
		case res.Status == sms.StatusSent:
			status, ref = StatusSent, res.ProviderRef
		default:
			errText = res.Err
		}
		if err := d.ledger.Finalize(ctx, m.ID, status, errText, ref); err != nil {
			d.log.Error("ledger finalize failed", logger.Fields{"message_id": m.ID, "err": err.Error()})
		}
		metrics.MessagesDispatched.WithLabelValues(string(m.Type), string(status)).Inc()
		resent++
	}
	return resent, nil
}
