package worker

import (
	"context"
	"log"
	"time"

	"legacy_portal/internal/usecase"
)

// Scheduler periodically flags overdue invoices and expires checkouts that
// were abandoned before payment.
type Scheduler struct {
	interval time.Duration
	orders   usecase.IOrderUseCase
	checkout usecase.ICheckoutUseCase
}

func NewScheduler(interval time.Duration, orders usecase.IOrderUseCase, checkout usecase.ICheckoutUseCase) *Scheduler {
	return &Scheduler{interval: interval, orders: orders, checkout: checkout}
}

func (s *Scheduler) Run(ctx context.Context) {
	log.Printf("[worker][scheduler] started interval=%s", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Tick(ctx)
	for {
		select {
		case <-ticker.C:
			s.Tick(ctx)
		case <-ctx.Done():
			log.Printf("[worker][scheduler] stopped")
			return
		}
	}
}

func (s *Scheduler) Tick(ctx context.Context) {
	if n, err := s.orders.MarkOverdueDue(ctx); err != nil {
		log.Printf("[worker][scheduler] overdue sweep failed err=%v", err)
	} else if n > 0 {
		log.Printf("[worker][scheduler] marked overdue count=%d", n)
	}

	if s.checkout == nil {
		return
	}
	if _, err := s.checkout.ExpireStale(ctx); err != nil {
		log.Printf("[worker][scheduler] checkout expiry failed err=%v", err)
	}
}
