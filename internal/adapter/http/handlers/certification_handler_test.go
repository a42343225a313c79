package handlers

import (
	"context"
	"net/http"
	"testing"

	"legacy_portal/internal/adapter/http/handlers/mocks"
	"legacy_portal/internal/domain/entities"
	"legacy_portal/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func TestCertificationHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	setup := func(t *testing.T) (*gin.Engine, *mocks.MockICertificationUseCase) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockICertificationUseCase(ctrl)
		h := NewCertificationHandler(uc)
		r := gin.New()
		r.POST("/v1/certifications", h.Issue)
		r.GET("/v1/certifications/:id/verify", h.Verify)
		r.PATCH("/v1/certifications/:id/revoke", h.Revoke)
		return r, uc
	}

	t.Run("issue decodes document", func(t *testing.T) {
		r, uc := setup(t)
		uc.EXPECT().Issue(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, in usecase.IssueCertificationInput) (entities.Certification, error) {
				if in.OrderID != "o-1" || string(in.Document) != "hello" {
					t.Fatalf("unexpected input: %+v", in)
				}
				return entities.Certification{ID: "c-1", OrderID: "o-1"}, nil
			},
		)
		w := perform(r, http.MethodPost, "/v1/certifications", `{"order_id":"o-1","document":"aGVsbG8="}`, nil)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("issue before delivery", func(t *testing.T) {
		r, uc := setup(t)
		uc.EXPECT().Issue(gomock.Any(), gomock.Any()).Return(entities.Certification{}, usecase.ErrOrderNotDelivered)
		w := perform(r, http.MethodPost, "/v1/certifications", `{"order_id":"o-1"}`, nil)
		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", w.Code)
		}
	})

	t.Run("verify passes hash", func(t *testing.T) {
		r, uc := setup(t)
		uc.EXPECT().Verify(gomock.Any(), "c-1", "abc").Return(usecase.VerificationResult{ID: "c-1", IsValid: true}, nil)
		w := perform(r, http.MethodGet, "/v1/certifications/c-1/verify?hash=abc", "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("revoke twice", func(t *testing.T) {
		r, uc := setup(t)
		uc.EXPECT().Revoke(gomock.Any(), "c-1", "typo").Return(entities.Certification{}, usecase.ErrCertificationRevoked)
		w := perform(r, http.MethodPatch, "/v1/certifications/c-1/revoke", `{"reason":"typo"}`, nil)
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})
}
