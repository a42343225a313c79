package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"legacy_portal/internal/adapter/http/handlers"
	"legacy_portal/internal/adapter/http/handlers/mocks"
	"legacy_portal/internal/adapter/http/middleware"
	"legacy_portal/internal/domain/entities"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testSecret = "routes-secret"

func newTestRouter(t *testing.T) (*gin.Engine, *mocks.MockIOrderUseCase) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	orders := mocks.NewMockIOrderUseCase(ctrl)
	h := Handlers{
		Quote:         handlers.NewQuoteHandler(mocks.NewMockIQuoteUseCase(ctrl)),
		Coupon:        handlers.NewCouponHandler(mocks.NewMockICouponUseCase(ctrl)),
		Checkout:      handlers.NewCheckoutHandler(mocks.NewMockICheckoutUseCase(ctrl)),
		Order:         handlers.NewOrderHandler(orders),
		Certification: handlers.NewCertificationHandler(mocks.NewMockICertificationUseCase(ctrl)),
	}
	return NewRouter(h, testSecret), orders
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	claims := middleware.Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func TestRouter(t *testing.T) {
	t.Run("ping is public", func(t *testing.T) {
		r, _ := newTestRouter(t)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
	})

	t.Run("back office needs a token", func(t *testing.T) {
		r, _ := newTestRouter(t)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/orders", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("back office with pm token", func(t *testing.T) {
		r, orders := newTestRouter(t)
		orders.EXPECT().List(gomock.Any(), gomock.Any()).Return([]entities.Order{}, nil)
		req := httptest.NewRequest(http.MethodGet, "/v1/orders", nil)
		req.Header.Set("Authorization", bearer(t, middleware.RolePM))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown role is forbidden", func(t *testing.T) {
		r, _ := newTestRouter(t)
		req := httptest.NewRequest(http.MethodGet, "/v1/orders", nil)
		req.Header.Set("Authorization", bearer(t, "translator"))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("assignment link stays public", func(t *testing.T) {
		r, orders := newTestRouter(t)
		orders.EXPECT().RespondToAssignment(gomock.Any(), "tok", "accept").
			Return(entities.Order{Reference: "REF-1", AssignmentStatus: entities.AssignmentAccepted}, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/assignments/respond?token=tok&action=accept", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
