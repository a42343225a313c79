package handlers

import (
	request "legacy_portal/internal/adapter/http/dto/request"
	response "legacy_portal/internal/adapter/http/dto/response"
	"legacy_portal/internal/domain/entities"
	"legacy_portal/internal/usecase"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// OrderHandler exposes the order back office and the public assignment link.
type OrderHandler struct {
	usecase usecase.IOrderUseCase
}

func NewOrderHandler(uc usecase.IOrderUseCase) *OrderHandler {
	return &OrderHandler{usecase: uc}
}

// CreateOrder godoc
// @Summary     Create an invoiced order from a quote
// @Tags        orders
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body request.CreateOrderRequest true "Order input"
// @Success     201 {object} response.OrderResponse
// @Failure     400 {object} pkg.HTTPError
// @Failure     404 {object} pkg.HTTPError
// @Router      /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var payload request.CreateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeAppError(c, errInvalidPayload)
		return
	}
	o, err := h.usecase.CreateFromQuote(c.Request.Context(), payload.ToInput())
	if err != nil {
		log.Printf("[order][handler] create failed quote_id=%s err=%v", payload.QuoteID, err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.FromOrder(o))
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	var q request.OrderListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeAppError(c, errInvalidPayload)
		return
	}
	list, err := h.usecase.List(c.Request.Context(), q.ToFilter())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromOrders(list))
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	o, err := h.usecase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromOrder(o))
}

// AdvanceTranslation godoc
// @Summary     Move the translation status
// @Tags        orders
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       id path string true "Order ID"
// @Param       request body request.TranslationStatusRequest true "Target status"
// @Success     200 {object} response.OrderResponse
// @Failure     409 {object} pkg.HTTPError
// @Router      /orders/{id}/translation-status [patch]
func (h *OrderHandler) AdvanceTranslation(c *gin.Context) {
	var payload request.TranslationStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeAppError(c, errInvalidPayload)
		return
	}
	o, err := h.usecase.AdvanceTranslation(c.Request.Context(), c.Param("id"), entities.TranslationStatus(payload.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromOrder(o))
}

func (h *OrderHandler) MarkPaid(c *gin.Context) {
	o, err := h.usecase.MarkPaid(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromOrder(o))
}

func (h *OrderHandler) AssignPM(c *gin.Context) {
	var payload request.PersonRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeAppError(c, errInvalidPayload)
		return
	}
	o, err := h.usecase.AssignPM(c.Request.Context(), c.Param("id"), payload.ToPerson())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromOrder(o))
}

func (h *OrderHandler) AssignTranslator(c *gin.Context) {
	var payload request.PersonRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeAppError(c, errInvalidPayload)
		return
	}
	o, err := h.usecase.AssignTranslator(c.Request.Context(), c.Param("id"), payload.ToPerson())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromOrder(o))
}

// RespondToAssignment godoc
// @Summary     Accept or decline a translation assignment
// @Description Target of the links in the assignment email. Each link works once.
// @Tags        assignments
// @Produce     json
// @Param       token query string true "Assignment token"
// @Param       action query string true "accept or decline"
// @Success     200 {object} response.AssignmentResponse
// @Failure     404 {object} pkg.HTTPError
// @Failure     409 {object} pkg.HTTPError
// @Router      /assignments/respond [get]
func (h *OrderHandler) RespondToAssignment(c *gin.Context) {
	o, err := h.usecase.RespondToAssignment(c.Request.Context(), c.Query("token"), c.Query("action"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromAssignment(o))
}
