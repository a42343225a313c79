package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"legacy_portal/internal/domain/entities"
	"legacy_portal/internal/usecase/interfaces"
)

type QuoteRepository struct{ s *Store }

var _ interfaces.IQuoteRepository = (*QuoteRepository)(nil)

func (r *QuoteRepository) Create(_ context.Context, q entities.Quote) (entities.Quote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.quotes[q.ID]; ok {
		return entities.Quote{}, interfaces.ErrConditionFailed
	}
	r.s.quotes[q.ID] = q
	return q, nil
}

func (r *QuoteRepository) GetByID(_ context.Context, id string) (entities.Quote, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.quotes[id], nil
}

type CouponRepository struct{ s *Store }

var _ interfaces.ICouponRepository = (*CouponRepository)(nil)

func (r *CouponRepository) Create(_ context.Context, c entities.Coupon) (entities.Coupon, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.coupons[c.Code]; ok {
		return entities.Coupon{}, interfaces.ErrConditionFailed
	}
	r.s.coupons[c.Code] = c
	return c, nil
}

func (r *CouponRepository) GetByCode(_ context.Context, code string) (entities.Coupon, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.coupons[code], nil
}

func (r *CouponRepository) List(_ context.Context) ([]entities.Coupon, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entities.Coupon, 0, len(r.s.coupons))
	for _, c := range r.s.coupons {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *CouponRepository) Redeem(_ context.Context, code, quoteID string, now time.Time) (entities.Coupon, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.coupons[code]
	if !ok || !c.IsActive || c.TimesUsed >= c.MaxUses || c.RedeemedFor(quoteID) {
		return entities.Coupon{}, interfaces.ErrConditionFailed
	}
	c.TimesUsed++
	if quoteID != "" {
		c.RedeemedBy = append(append([]string(nil), c.RedeemedBy...), quoteID)
	}
	c.UpdatedAt = now
	r.s.coupons[code] = c
	return c, nil
}

func (r *CouponRepository) Release(_ context.Context, code, quoteID string, now time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.coupons[code]
	if !ok || c.TimesUsed == 0 || (quoteID != "" && !c.RedeemedFor(quoteID)) {
		return interfaces.ErrConditionFailed
	}
	c.TimesUsed--
	kept := make([]string, 0, len(c.RedeemedBy))
	for _, q := range c.RedeemedBy {
		if q != quoteID {
			kept = append(kept, q)
		}
	}
	c.RedeemedBy = kept
	c.UpdatedAt = now
	r.s.coupons[code] = c
	return nil
}

func (r *CouponRepository) Deactivate(_ context.Context, code string, now time.Time) (entities.Coupon, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.coupons[code]
	if !ok {
		return entities.Coupon{}, nil
	}
	c.IsActive = false
	c.UpdatedAt = now
	r.s.coupons[code] = c
	return c, nil
}

type OrderRepository struct{ s *Store }

var _ interfaces.IOrderRepository = (*OrderRepository)(nil)

func (r *OrderRepository) Create(_ context.Context, o entities.Order, events []entities.OutboxEvent) (entities.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[o.ID]; ok {
		return entities.Order{}, interfaces.ErrConditionFailed
	}
	r.s.orders[o.ID] = cloneOrder(o)
	r.s.putEvents(events)
	return cloneOrder(o), nil
}

func (r *OrderRepository) GetByID(_ context.Context, id string) (entities.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[id]
	if !ok {
		return entities.Order{}, nil
	}
	return cloneOrder(o), nil
}

func (r *OrderRepository) GetByAssignmentToken(_ context.Context, token string) (entities.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if token == "" {
		return entities.Order{}, nil
	}
	for _, o := range r.s.orders {
		if o.AssignmentToken == token {
			return cloneOrder(o), nil
		}
	}
	return entities.Order{}, nil
}

func (r *OrderRepository) List(_ context.Context, filter entities.OrderFilter) ([]entities.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entities.Order, 0)
	for _, o := range r.s.orders {
		if filter.Matches(o) {
			out = append(out, cloneOrder(o))
		}
	}
	sortOrders(out)
	return out, nil
}

func (r *OrderRepository) CountByClientEmail(_ context.Context, email string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, o := range r.s.orders {
		if strings.EqualFold(o.ClientEmail, email) {
			n++
		}
	}
	return n, nil
}

func (r *OrderRepository) Save(_ context.Context, o entities.Order, expectedVersion int, events []entities.OutboxEvent) (entities.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.orders[o.ID]
	if !ok || current.Version != expectedVersion {
		return entities.Order{}, interfaces.ErrConditionFailed
	}
	r.s.orders[o.ID] = cloneOrder(o)
	r.s.putEvents(events)
	return cloneOrder(o), nil
}

type PaymentTransactionRepository struct{ s *Store }

var _ interfaces.IPaymentTransactionRepository = (*PaymentTransactionRepository)(nil)

func (r *PaymentTransactionRepository) Create(_ context.Context, t entities.PaymentTransaction) (entities.PaymentTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.transactions[t.ID]; ok {
		return entities.PaymentTransaction{}, interfaces.ErrConditionFailed
	}
	r.s.transactions[t.ID] = t
	return t, nil
}

func (r *PaymentTransactionRepository) GetByID(_ context.Context, id string) (entities.PaymentTransaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.transactions[id], nil
}

func (r *PaymentTransactionRepository) Complete(_ context.Context, t entities.PaymentTransaction, o entities.Order, events []entities.OutboxEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.transactions[t.ID]
	if !ok || current.PaymentStatus == entities.PaymentStatusPaid {
		return interfaces.ErrConditionFailed
	}
	if _, exists := r.s.orders[o.ID]; exists {
		return interfaces.ErrConditionFailed
	}
	r.s.transactions[t.ID] = t
	r.s.orders[o.ID] = cloneOrder(o)
	r.s.putEvents(events)
	return nil
}

// transition applies fn when the stored status is one of from.
func (r *PaymentTransactionRepository) transition(id string, from []entities.TransactionStatus, fn func(*entities.PaymentTransaction)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.transactions[id]
	if !ok || t.PaymentStatus == entities.PaymentStatusPaid {
		return interfaces.ErrConditionFailed
	}
	allowed := false
	for _, f := range from {
		if t.Status == f {
			allowed = true
			break
		}
	}
	if !allowed {
		return interfaces.ErrConditionFailed
	}
	fn(&t)
	r.s.transactions[id] = t
	return nil
}

func (r *PaymentTransactionRepository) MarkPending(_ context.Context, id, gatewayPaymentID string, now time.Time) error {
	return r.transition(id, []entities.TransactionStatus{entities.TransactionInitiated}, func(t *entities.PaymentTransaction) {
		t.Status = entities.TransactionPending
		t.GatewayPaymentID = gatewayPaymentID
		t.UpdatedAt = now
	})
}

func (r *PaymentTransactionRepository) MarkFailed(_ context.Context, id, gatewayPaymentID string, now time.Time) error {
	return r.transition(id, []entities.TransactionStatus{entities.TransactionInitiated, entities.TransactionPending}, func(t *entities.PaymentTransaction) {
		t.PaymentStatus = entities.PaymentStatusFailed
		t.GatewayPaymentID = gatewayPaymentID
		t.UpdatedAt = now
	})
}

func (r *PaymentTransactionRepository) MarkExpired(_ context.Context, id string, now time.Time) error {
	return r.transition(id, []entities.TransactionStatus{entities.TransactionInitiated, entities.TransactionPending}, func(t *entities.PaymentTransaction) {
		t.PaymentStatus = entities.PaymentStatusExpired
		t.Status = entities.TransactionExpired
		t.UpdatedAt = now
	})
}

func (r *PaymentTransactionRepository) ListOpenCreatedBefore(_ context.Context, cutoff time.Time) ([]entities.PaymentTransaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entities.PaymentTransaction, 0)
	for _, t := range r.s.transactions {
		open := t.Status == entities.TransactionInitiated || t.Status == entities.TransactionPending
		if open && t.PaymentStatus != entities.PaymentStatusPaid && t.CreatedAt.Before(cutoff) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *PaymentTransactionRepository) SetTMSProject(_ context.Context, id, projectID string, now time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.transactions[id]
	if !ok {
		return interfaces.ErrConditionFailed
	}
	t.TMSProjectID = projectID
	t.UpdatedAt = now
	r.s.transactions[id] = t
	return nil
}

type CertificationRepository struct{ s *Store }

var _ interfaces.ICertificationRepository = (*CertificationRepository)(nil)

func (r *CertificationRepository) Create(_ context.Context, c entities.Certification) (entities.Certification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.certifications[c.ID]; ok {
		return entities.Certification{}, interfaces.ErrConditionFailed
	}
	r.s.certifications[c.ID] = c
	return c, nil
}

func (r *CertificationRepository) GetByID(_ context.Context, id string) (entities.Certification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.certifications[id], nil
}

func (r *CertificationRepository) Revoke(_ context.Context, id, reason string, now time.Time) (entities.Certification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.certifications[id]
	if !ok || !c.IsValid {
		return entities.Certification{}, interfaces.ErrConditionFailed
	}
	revokedAt := now
	c.IsValid = false
	c.RevokedAt = &revokedAt
	c.RevocationReason = reason
	r.s.certifications[id] = c
	return c, nil
}

type OutboxRepository struct{ s *Store }

var _ interfaces.IOutboxRepository = (*OutboxRepository)(nil)

func (r *OutboxRepository) ListPending(_ context.Context, limit int) ([]entities.OutboxEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entities.OutboxEvent, 0)
	for _, e := range r.s.outbox {
		if !e.Settled() {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *OutboxRepository) MarkProcessed(_ context.Context, id string, now time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.outbox[id]
	if !ok || e.Settled() {
		return interfaces.ErrConditionFailed
	}
	processed := now
	e.ProcessedAt = &processed
	r.s.outbox[id] = e
	return nil
}

func (r *OutboxRepository) RecordFailure(_ context.Context, id, reason string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.outbox[id]
	if !ok {
		return interfaces.ErrConditionFailed
	}
	e.Attempts++
	e.LastError = reason
	r.s.outbox[id] = e
	return nil
}

func (r *OutboxRepository) MarkAbandoned(_ context.Context, id string, now time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.outbox[id]
	if !ok || e.Settled() {
		return interfaces.ErrConditionFailed
	}
	abandoned := now
	e.AbandonedAt = &abandoned
	r.s.outbox[id] = e
	return nil
}

// Events returns every outbox event for an order, processed or not.
func (r *OutboxRepository) Events(orderID string) []entities.OutboxEvent {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entities.OutboxEvent, 0)
	for _, e := range r.s.outbox {
		if e.OrderID == orderID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}
