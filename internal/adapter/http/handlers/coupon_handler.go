package handlers

import (
	"context"
	request "legacy_portal/internal/adapter/http/dto/request"
	response "legacy_portal/internal/adapter/http/dto/response"
	"legacy_portal/internal/usecase"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	usecase usecase.ICouponUseCase
}

func NewCouponHandler(uc usecase.ICouponUseCase) *CouponHandler {
	return &CouponHandler{usecase: uc}
}

// ValidateCoupon godoc
// @Summary     Preview a discount code
// @Description Runs every coupon check without consuming a use.
// @Tags        coupons
// @Accept      json
// @Produce     json
// @Param       request body request.ValidateCouponRequest true "Code and order context"
// @Success     200 {object} response.CouponValidationResponse
// @Failure     422 {object} pkg.HTTPError
// @Router      /coupons/validate [post]
func (h *CouponHandler) ValidateCoupon(c *gin.Context) {
	h.evaluate(c, "", h.usecase.Preview)
}

// ApplyCoupon redeems the code in the path; the body carries the order context.
func (h *CouponHandler) ApplyCoupon(c *gin.Context) {
	h.evaluate(c, c.Param("code"), h.usecase.Apply)
}

func (h *CouponHandler) evaluate(
	c *gin.Context,
	code string,
	run func(ctx context.Context, in usecase.CouponInput) (usecase.CouponResult, error),
) {
	var payload request.ValidateCouponRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeAppError(c, errInvalidPayload)
		return
	}
	in := payload.ToInput()
	if code != "" {
		in.Code = code
	}

	res, err := run(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromCouponResult(res))
}

func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var payload request.CreateCouponRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeAppError(c, errInvalidPayload)
		return
	}
	created, err := h.usecase.Create(c.Request.Context(), payload.ToInput())
	if err != nil {
		log.Printf("[coupon][handler] create failed code=%s err=%v", payload.Code, err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.FromCoupon(created))
}

func (h *CouponHandler) ListCoupons(c *gin.Context) {
	list, err := h.usecase.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromCoupons(list))
}

func (h *CouponHandler) GetCoupon(c *gin.Context) {
	coupon, err := h.usecase.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromCoupon(coupon))
}

func (h *CouponHandler) DeactivateCoupon(c *gin.Context) {
	coupon, err := h.usecase.Deactivate(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromCoupon(coupon))
}
