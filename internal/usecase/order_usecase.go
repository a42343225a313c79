package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"strings"
	"time"

	"legacy_portal/internal/domain/entities"
	"legacy_portal/internal/domain/orderflow"
	"legacy_portal/internal/usecase/interfaces"
	"legacy_portal/pkg/validation"

	"github.com/google/uuid"
)

// maxSaveAttempts bounds re-read and retry on version conflicts for writes
// that are safe to replay (token responses, TMS linkage).
const maxSaveAttempts = 3

type CreateOrderInput struct {
	QuoteID     string
	ClientEmail string
	ClientName  string
	DueDate     *time.Time
}

// IOrderUseCase drives orders through their statuses.
//
// Every write goes through orderflow and persists the order together with
// the outbox events its transition declared.
type IOrderUseCase interface {
	CreateFromQuote(ctx context.Context, in CreateOrderInput) (entities.Order, error)
	Get(ctx context.Context, id string) (entities.Order, error)
	List(ctx context.Context, filter entities.OrderFilter) ([]entities.Order, error)
	AdvanceTranslation(ctx context.Context, id string, to entities.TranslationStatus) (entities.Order, error)
	MarkPaid(ctx context.Context, id string) (entities.Order, error)
	MarkOverdue(ctx context.Context, id string) (entities.Order, error)
	MarkOverdueDue(ctx context.Context) (int, error)
	AssignPM(ctx context.Context, id string, pm entities.Person) (entities.Order, error)
	AssignTranslator(ctx context.Context, id string, translator entities.Person) (entities.Order, error)
	RespondToAssignment(ctx context.Context, token, action string) (entities.Order, error)
	AttachTMSProject(ctx context.Context, id, projectID string) (entities.Order, error)
}

type OrderUseCase struct {
	repo           interfaces.IOrderRepository
	quotes         interfaces.IQuoteRepository
	transactions   interfaces.IPaymentTransactionRepository
	invoiceDueDays int
	now            func() time.Time
	newToken       func() (string, error)
}

var _ IOrderUseCase = (*OrderUseCase)(nil)

func NewOrderUseCase(repo interfaces.IOrderRepository, quotes interfaces.IQuoteRepository, transactions interfaces.IPaymentTransactionRepository, invoiceDueDays int) *OrderUseCase {
	return &OrderUseCase{
		repo:           repo,
		quotes:         quotes,
		transactions:   transactions,
		invoiceDueDays: invoiceDueDays,
		now:            utcNow,
		newToken:       newAssignmentToken,
	}
}

// newAssignmentToken mints 32 random bytes, hex encoded.
func newAssignmentToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// orderFromQuote copies the priced job onto a new order.
// quoteOrderSpace namespaces the order ids derived from quote ids.
var quoteOrderSpace = uuid.MustParse("6f1c0e2a-3b4d-5e6f-8a9b-0c1d2e3f4a5b")

// orderIDForQuote gives every quote a single possible order id, so the
// conditional create of a second order for the same quote fails.
func orderIDForQuote(quoteID string) string {
	return uuid.NewSHA1(quoteOrderSpace, []byte(quoteID)).String()
}

func orderFromQuote(q entities.Quote, email, name string, now time.Time) entities.Order {
	if email == "" {
		email = q.CustomerEmail
	}
	if name == "" {
		name = q.CustomerName
	}
	deadline := orderflow.Deadline(now, q.Urgency)
	return entities.Order{
		ID:            orderIDForQuote(q.ID),
		QuoteID:       q.ID,
		Reference:     q.Reference,
		ClientEmail:   strings.ToLower(strings.TrimSpace(email)),
		ClientName:    strings.TrimSpace(name),
		PartnerID:     q.PartnerID,
		ServiceType:   q.ServiceType,
		TranslateFrom: q.TranslateFrom,
		TranslateTo:   q.TranslateTo,
		WordCount:     q.WordCount,
		Urgency:       q.Urgency,
		TotalPrice:    q.TotalPrice,
		Deadline:      &deadline,
	}
}

func outboxEvents(orderID string, effects []entities.DeclaredEffect, now time.Time) []entities.OutboxEvent {
	events := make([]entities.OutboxEvent, 0, len(effects))
	for _, e := range effects {
		events = append(events, entities.OutboxEvent{
			ID:        uuid.NewString(),
			OrderID:   orderID,
			Effect:    e.Effect,
			Recipient: e.Recipient,
			CreatedAt: now,
		})
	}
	return events
}

func (u *OrderUseCase) CreateFromQuote(ctx context.Context, in CreateOrderInput) (entities.Order, error) {
	v := validation.Violations{}
	validation.Required("quote_id", in.QuoteID, v)
	validation.Email("client_email", in.ClientEmail, v)
	if err := newValidationError(v); err != nil {
		return entities.Order{}, err
	}

	q, err := u.quotes.GetByID(ctx, strings.TrimSpace(in.QuoteID))
	if err != nil {
		return entities.Order{}, err
	}
	if q.ID == "" {
		return entities.Order{}, ErrQuoteNotFound
	}

	now := u.now()
	o := orderFromQuote(q, in.ClientEmail, in.ClientName, now)
	if o.ClientEmail == "" {
		return entities.Order{}, newValidationError(validation.Violations{"client_email": "required"})
	}
	due := now.AddDate(0, 0, u.invoiceDueDays)
	if in.DueDate != nil {
		due = in.DueDate.UTC()
	}
	o.DueDate = &due

	effects := orderflow.NewOrder(&o, now)
	created, err := u.repo.Create(ctx, o, outboxEvents(o.ID, effects, now))
	if errors.Is(err, interfaces.ErrConditionFailed) {
		log.Printf("[order][usecase] quote already converted quote_id=%s order_id=%s", q.ID, o.ID)
		return entities.Order{}, ErrQuoteAlreadyConverted
	}
	if err != nil {
		log.Printf("[order][usecase] create failed quote_id=%s err=%v", q.ID, err)
		return entities.Order{}, err
	}
	log.Printf("[order][usecase] created order_id=%s quote_id=%s due=%s", created.ID, q.ID, due.Format(time.RFC3339))
	return created, nil
}

func (u *OrderUseCase) Get(ctx context.Context, id string) (entities.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Order{}, ErrOrderNotFound
	}
	o, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Order{}, err
	}
	if o.ID == "" {
		return entities.Order{}, ErrOrderNotFound
	}
	return o, nil
}

func (u *OrderUseCase) List(ctx context.Context, filter entities.OrderFilter) ([]entities.Order, error) {
	return u.repo.List(ctx, filter)
}

// mutate loads the order, applies a transition and stores it with its
// events. With retry set a version conflict is re-read and replayed, so the
// transition sees the winner's state; otherwise it is ErrConcurrentUpdate.
func (u *OrderUseCase) mutate(
	ctx context.Context,
	load func(ctx context.Context) (entities.Order, error),
	apply func(o *entities.Order, now time.Time) ([]entities.DeclaredEffect, error),
	retry bool,
) (entities.Order, error) {
	attempts := 1
	if retry {
		attempts = maxSaveAttempts
	}
	for i := 0; i < attempts; i++ {
		o, err := load(ctx)
		if err != nil {
			return entities.Order{}, err
		}

		now := u.now()
		expected := o.Version
		effects, err := apply(&o, now)
		if err != nil {
			return entities.Order{}, err
		}
		o.Version = expected + 1

		saved, err := u.repo.Save(ctx, o, expected, outboxEvents(o.ID, effects, now))
		if errors.Is(err, interfaces.ErrConditionFailed) {
			log.Printf("[order][usecase] version conflict order_id=%s expected=%d attempt=%d", o.ID, expected, i+1)
			continue
		}
		if err != nil {
			return entities.Order{}, err
		}
		return saved, nil
	}
	return entities.Order{}, ErrConcurrentUpdate
}

func (u *OrderUseCase) byID(id string) func(ctx context.Context) (entities.Order, error) {
	return func(ctx context.Context) (entities.Order, error) {
		return u.Get(ctx, id)
	}
}

func (u *OrderUseCase) AdvanceTranslation(ctx context.Context, id string, to entities.TranslationStatus) (entities.Order, error) {
	o, err := u.mutate(ctx, u.byID(id), func(o *entities.Order, now time.Time) ([]entities.DeclaredEffect, error) {
		return orderflow.AdvanceTranslation(o, to, now)
	}, false)
	if err != nil {
		log.Printf("[order][usecase] advance translation failed order_id=%s to=%s err=%v", id, to, err)
		return entities.Order{}, err
	}
	log.Printf("[order][usecase] translation advanced order_id=%s status=%s", o.ID, o.TranslationStatus)
	return o, nil
}

func (u *OrderUseCase) MarkPaid(ctx context.Context, id string) (entities.Order, error) {
	return u.mutate(ctx, u.byID(id), orderflow.MarkPaid, false)
}

func (u *OrderUseCase) MarkOverdue(ctx context.Context, id string) (entities.Order, error) {
	return u.mutate(ctx, u.byID(id), orderflow.MarkOverdue, false)
}

// MarkOverdueDue flags every pending order whose due date has passed. Orders
// that changed concurrently are skipped and picked up on the next run.
func (u *OrderUseCase) MarkOverdueDue(ctx context.Context) (int, error) {
	now := u.now()
	pending := entities.OrderPaymentPending
	candidates, err := u.repo.List(ctx, entities.OrderFilter{PaymentStatus: &pending, DueBefore: &now})
	if err != nil {
		return 0, err
	}

	marked := 0
	for _, c := range candidates {
		if _, err := u.MarkOverdue(ctx, c.ID); err != nil {
			log.Printf("[order][usecase] mark overdue skipped order_id=%s err=%v", c.ID, err)
			continue
		}
		marked++
	}
	return marked, nil
}

func (u *OrderUseCase) AssignPM(ctx context.Context, id string, pm entities.Person) (entities.Order, error) {
	if err := validatePerson("pm", pm); err != nil {
		return entities.Order{}, err
	}
	return u.mutate(ctx, u.byID(id), func(o *entities.Order, now time.Time) ([]entities.DeclaredEffect, error) {
		return orderflow.AssignPM(o, pm, now)
	}, false)
}

func (u *OrderUseCase) AssignTranslator(ctx context.Context, id string, translator entities.Person) (entities.Order, error) {
	if err := validatePerson("translator", translator); err != nil {
		return entities.Order{}, err
	}
	token, err := u.newToken()
	if err != nil {
		return entities.Order{}, err
	}
	o, err := u.mutate(ctx, u.byID(id), func(o *entities.Order, now time.Time) ([]entities.DeclaredEffect, error) {
		return orderflow.AssignTranslator(o, translator, token, now)
	}, false)
	if err != nil {
		return entities.Order{}, err
	}
	log.Printf("[order][usecase] translator assigned order_id=%s translator_id=%s", o.ID, translator.ID)
	return o, nil
}

// RespondToAssignment records the translator's answer. Two concurrent
// responses race on the order version; the loser re-reads, finds the token
// consumed and gets ErrTokenAlreadyUsed.
func (u *OrderUseCase) RespondToAssignment(ctx context.Context, token, action string) (entities.Order, error) {
	token = strings.TrimSpace(token)
	action = strings.ToLower(strings.TrimSpace(action))

	v := validation.Violations{}
	validation.Required("token", token, v)
	validation.OneOf("action", action, []string{"accept", "decline"}, v)
	if err := newValidationError(v); err != nil {
		return entities.Order{}, err
	}

	load := func(ctx context.Context) (entities.Order, error) {
		o, err := u.repo.GetByAssignmentToken(ctx, token)
		if err != nil {
			return entities.Order{}, err
		}
		if o.ID == "" {
			return entities.Order{}, ErrInvalidToken
		}
		return o, nil
	}
	o, err := u.mutate(ctx, load, func(o *entities.Order, now time.Time) ([]entities.DeclaredEffect, error) {
		return orderflow.RespondToAssignment(o, token, action == "accept", now)
	}, true)
	if err != nil {
		log.Printf("[order][usecase] assignment response rejected action=%s err=%v", action, err)
		return entities.Order{}, err
	}
	log.Printf("[order][usecase] assignment %s order_id=%s translator_id=%s", o.AssignmentStatus, o.ID, o.Translator.ID)
	return o, nil
}

func (u *OrderUseCase) AttachTMSProject(ctx context.Context, id, projectID string) (entities.Order, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return entities.Order{}, newValidationError(validation.Violations{"tms_project_id": "required"})
	}
	o, err := u.mutate(ctx, u.byID(id), func(o *entities.Order, now time.Time) ([]entities.DeclaredEffect, error) {
		o.TMSProjectID = projectID
		o.UpdatedAt = now
		return nil, nil
	}, true)
	if err != nil {
		return entities.Order{}, err
	}
	if o.TransactionID != "" && u.transactions != nil {
		if err := u.transactions.SetTMSProject(ctx, o.TransactionID, projectID, u.now()); err != nil {
			log.Printf("[order][usecase] transaction tms link failed transaction_id=%s err=%v", o.TransactionID, err)
		}
	}
	log.Printf("[order][usecase] tms project attached order_id=%s tms_project_id=%s", o.ID, projectID)
	return o, nil
}

func validatePerson(prefix string, p entities.Person) error {
	v := validation.Violations{}
	validation.Required(prefix+"_id", p.ID, v)
	validation.Required(prefix+"_email", p.Email, v)
	validation.Email(prefix+"_email", p.Email, v)
	return newValidationError(v)
}
