package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"legacy_portal/internal/adapter/http/handlers/mocks"
	"legacy_portal/internal/domain/entities"
	"legacy_portal/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func TestOrderHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	setup := func(t *testing.T) (*gin.Engine, *mocks.MockIOrderUseCase) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIOrderUseCase(ctrl)
		h := NewOrderHandler(uc)
		r := gin.New()
		r.POST("/v1/orders", h.CreateOrder)
		r.GET("/v1/orders", h.ListOrders)
		r.GET("/v1/orders/:id", h.GetOrder)
		r.PATCH("/v1/orders/:id/translation-status", h.AdvanceTranslation)
		r.POST("/v1/orders/:id/mark-paid", h.MarkPaid)
		r.POST("/v1/orders/:id/assign-translator", h.AssignTranslator)
		r.GET("/v1/assignments/respond", h.RespondToAssignment)
		return r, uc
	}

	t.Run("create", func(t *testing.T) {
		r, uc := setup(t)
		uc.EXPECT().CreateFromQuote(gomock.Any(), gomock.Any()).Return(entities.Order{ID: "o-1", QuoteID: "q-1"}, nil)
		w := perform(r, http.MethodPost, "/v1/orders", `{"quote_id":"q-1","client_email":"a@b.test"}`, nil)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
	})

	t.Run("list lowercases email filter", func(t *testing.T) {
		r, uc := setup(t)
		uc.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, f entities.OrderFilter) ([]entities.Order, error) {
				if f.ClientEmail != "ana@client.test" {
					t.Fatalf("unexpected filter: %+v", f)
				}
				return []entities.Order{{ID: "o-1"}, {ID: "o-2"}}, nil
			},
		)
		w := perform(r, http.MethodGet, "/v1/orders?client_email=Ana@Client.test", "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body []map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || len(body) != 2 {
			t.Fatalf("expected two orders, got %s", w.Body.String())
		}
	})

	t.Run("status requires body", func(t *testing.T) {
		r, _ := setup(t)
		w := perform(r, http.MethodPatch, "/v1/orders/o-1/translation-status", `{}`, nil)
		if w.Code != http.StatusBadRequest || decodeError(t, w).Code != "INVALID_REQUEST" {
			t.Fatalf("expected 400 INVALID_REQUEST, got %d", w.Code)
		}
	})

	t.Run("invalid transition", func(t *testing.T) {
		r, uc := setup(t)
		uc.EXPECT().AdvanceTranslation(gomock.Any(), "o-1", entities.TranslationDelivered).Return(entities.Order{}, usecase.ErrInvalidTransition)
		w := perform(r, http.MethodPatch, "/v1/orders/o-1/translation-status", `{"status":"delivered"}`, nil)
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("mark paid not found", func(t *testing.T) {
		r, uc := setup(t)
		uc.EXPECT().MarkPaid(gomock.Any(), "missing").Return(entities.Order{}, usecase.ErrOrderNotFound)
		w := perform(r, http.MethodPost, "/v1/orders/missing/mark-paid", "", nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("assign translator validation", func(t *testing.T) {
		r, uc := setup(t)
		uc.EXPECT().AssignTranslator(gomock.Any(), "o-1", entities.Person{Name: "T"}).
			Return(entities.Order{}, &usecase.ValidationError{Violations: map[string]string{"email": "required"}})
		w := perform(r, http.MethodPost, "/v1/orders/o-1/assign-translator", `{"name":"T"}`, nil)
		body := decodeError(t, w)
		if w.Code != http.StatusBadRequest || body.Details["email"] != "required" {
			t.Fatalf("expected 400 with details, got %d %+v", w.Code, body)
		}
	})

	t.Run("respond accept", func(t *testing.T) {
		r, uc := setup(t)
		uc.EXPECT().RespondToAssignment(gomock.Any(), "tok", "accept").
			Return(entities.Order{Reference: "REF-1", AssignmentStatus: entities.AssignmentAccepted}, nil)
		w := perform(r, http.MethodGet, "/v1/assignments/respond?token=tok&action=accept", "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body map[string]string
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["assignment_status"] != "accepted" || body["order_reference"] != "REF-1" {
			t.Fatalf("unexpected body %v", body)
		}
	})

	t.Run("respond reused token", func(t *testing.T) {
		r, uc := setup(t)
		uc.EXPECT().RespondToAssignment(gomock.Any(), "tok", "decline").Return(entities.Order{}, usecase.ErrTokenAlreadyUsed)
		w := perform(r, http.MethodGet, "/v1/assignments/respond?token=tok&action=decline", "", nil)
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})
}
