package handlers

import (
	"context"
	"net/http"
	"testing"

	"legacy_portal/internal/adapter/http/handlers/mocks"
	"legacy_portal/internal/domain/entities"
	"legacy_portal/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func TestQuoteHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	setup := func(t *testing.T) (*gin.Engine, *mocks.MockIQuoteUseCase) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIQuoteUseCase(ctrl)
		h := NewQuoteHandler(uc)
		r := gin.New()
		r.POST("/v1/quotes", h.CreateQuote)
		r.GET("/v1/quotes/:id", h.GetQuote)
		return r, uc
	}

	t.Run("invalid json", func(t *testing.T) {
		r, _ := setup(t)
		w := perform(r, http.MethodPost, "/v1/quotes", "{", nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("created", func(t *testing.T) {
		r, uc := setup(t)
		uc.EXPECT().CreateQuote(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, in usecase.CreateQuoteInput) (entities.Quote, error) {
				if in.Reference != "R-1" || in.WordCount != 300 || !in.PhysicalCopy {
					t.Fatalf("unexpected input: %+v", in)
				}
				return entities.Quote{ID: "q-1", TotalPrice: decimal.RequireFromString("40")}, nil
			},
		)
		w := perform(r, http.MethodPost, "/v1/quotes", `{"reference":"R-1","service_type":"standard","translate_from":"pt","translate_to":"en","word_count":300,"physical_copy":true}`, nil)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("invalid service type", func(t *testing.T) {
		r, uc := setup(t)
		uc.EXPECT().CreateQuote(gomock.Any(), gomock.Any()).Return(entities.Quote{}, usecase.ErrInvalidServiceType)
		w := perform(r, http.MethodPost, "/v1/quotes", `{"service_type":"specialist"}`, nil)
		if w.Code != http.StatusUnprocessableEntity || decodeError(t, w).Code != "INVALID_SERVICE_TYPE" {
			t.Fatalf("expected 422 INVALID_SERVICE_TYPE, got %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("not found", func(t *testing.T) {
		r, uc := setup(t)
		uc.EXPECT().GetQuote(gomock.Any(), "nope").Return(entities.Quote{}, usecase.ErrQuoteNotFound)
		w := perform(r, http.MethodGet, "/v1/quotes/nope", "", nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})
}
