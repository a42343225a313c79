// Package memory is an in-process implementation of every repository.
//
// All repositories share one Store and one mutex, so the conditional writes
// the DynamoDB repositories express as condition expressions hold here too.
// Values are copied on the way in and out; callers never share state with
// the store.
package memory

import (
	"sort"
	"sync"
	"time"

	"legacy_portal/internal/domain/entities"
)

type Store struct {
	mu             sync.RWMutex
	quotes         map[string]entities.Quote
	coupons        map[string]entities.Coupon
	orders         map[string]entities.Order
	transactions   map[string]entities.PaymentTransaction
	certifications map[string]entities.Certification
	outbox         map[string]entities.OutboxEvent
}

func NewStore() *Store {
	return &Store{
		quotes:         make(map[string]entities.Quote),
		coupons:        make(map[string]entities.Coupon),
		orders:         make(map[string]entities.Order),
		transactions:   make(map[string]entities.PaymentTransaction),
		certifications: make(map[string]entities.Certification),
		outbox:         make(map[string]entities.OutboxEvent),
	}
}

func (s *Store) Quotes() *QuoteRepository { return &QuoteRepository{s: s} }
func (s *Store) Coupons() *CouponRepository { return &CouponRepository{s: s} }
func (s *Store) Orders() *OrderRepository { return &OrderRepository{s: s} }
func (s *Store) Transactions() *PaymentTransactionRepository { return &PaymentTransactionRepository{s: s} }
func (s *Store) Certifications() *CertificationRepository { return &CertificationRepository{s: s} }
func (s *Store) Outbox() *OutboxRepository { return &OutboxRepository{s: s} }

// putEvents must be called with mu held.
func (s *Store) putEvents(events []entities.OutboxEvent) {
	for _, e := range events {
		s.outbox[e.ID] = e
	}
}

func cloneOrder(o entities.Order) entities.Order {
	if o.AssignmentHistory != nil {
		o.AssignmentHistory = append([]entities.AssignmentRecord(nil), o.AssignmentHistory...)
	}
	o.DueDate = cloneTime(o.DueDate)
	o.Deadline = cloneTime(o.Deadline)
	o.AssignmentRespondedAt = cloneTime(o.AssignmentRespondedAt)
	o.DeliveredAt = cloneTime(o.DeliveredAt)
	return o
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func sortOrders(list []entities.Order) {
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
}
