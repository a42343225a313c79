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

func TestCouponHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	setup := func(t *testing.T) (*gin.Engine, *mocks.MockICouponUseCase) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockICouponUseCase(ctrl)
		h := NewCouponHandler(uc)
		r := gin.New()
		r.POST("/v1/coupons/validate", h.ValidateCoupon)
		r.POST("/v1/coupons/:code/apply", h.ApplyCoupon)
		r.POST("/v1/coupons", h.CreateCoupon)
		r.PATCH("/v1/coupons/:code/deactivate", h.DeactivateCoupon)
		return r, uc
	}

	t.Run("preview ok", func(t *testing.T) {
		r, uc := setup(t)
		uc.EXPECT().Preview(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, in usecase.CouponInput) (usecase.CouponResult, error) {
				if in.Code != "SAVE" || !in.Subtotal.Equal(decimal.RequireFromString("30")) {
					t.Fatalf("unexpected input: %+v", in)
				}
				return usecase.CouponResult{Coupon: entities.Coupon{Code: "SAVE"}, DiscountAmount: decimal.NewFromInt(3)}, nil
			},
		)
		w := perform(r, http.MethodPost, "/v1/coupons/validate", `{"code":"SAVE","subtotal":"30.00"}`, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("rejected carries reason", func(t *testing.T) {
		r, uc := setup(t)
		uc.EXPECT().Preview(gomock.Any(), gomock.Any()).Return(usecase.CouponResult{}, &usecase.CouponRejectedError{Code: "OLD", Reason: entities.RejectionExpired})
		w := perform(r, http.MethodPost, "/v1/coupons/validate", `{"code":"OLD","subtotal":10}`, nil)
		body := decodeError(t, w)
		if w.Code != http.StatusUnprocessableEntity || body.Code != "COUPON_REJECTED" || body.Details["reason"] != "EXPIRED" {
			t.Fatalf("unexpected response %d %+v", w.Code, body)
		}
	})

	t.Run("apply uses path code", func(t *testing.T) {
		r, uc := setup(t)
		uc.EXPECT().Apply(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, in usecase.CouponInput) (usecase.CouponResult, error) {
				if in.Code != "PATHCODE" {
					t.Fatalf("expected path code, got %s", in.Code)
				}
				return usecase.CouponResult{Coupon: entities.Coupon{Code: "PATHCODE", TimesUsed: 1}}, nil
			},
		)
		w := perform(r, http.MethodPost, "/v1/coupons/PATHCODE/apply", `{"code":"ignored","subtotal":10}`, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("create conflict", func(t *testing.T) {
		r, uc := setup(t)
		uc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.Coupon{}, usecase.ErrCouponAlreadyExists)
		w := perform(r, http.MethodPost, "/v1/coupons", `{"code":"A","discount_type":"fixed","discount_value":5,"max_uses":1}`, nil)
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("deactivate unknown", func(t *testing.T) {
		r, uc := setup(t)
		uc.EXPECT().Deactivate(gomock.Any(), "NOPE").Return(entities.Coupon{}, usecase.ErrCouponNotFound)
		w := perform(r, http.MethodPatch, "/v1/coupons/NOPE/deactivate", "", nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})
}
