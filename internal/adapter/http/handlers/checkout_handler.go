package handlers

import (
	request "legacy_portal/internal/adapter/http/dto/request"
	response "legacy_portal/internal/adapter/http/dto/response"
	"legacy_portal/internal/usecase"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CheckoutHandler serves the hosted checkout flow and the gateway webhook.
type CheckoutHandler struct {
	usecase usecase.ICheckoutUseCase
}

func NewCheckoutHandler(uc usecase.ICheckoutUseCase) *CheckoutHandler {
	return &CheckoutHandler{usecase: uc}
}

// CreateCheckout godoc
// @Summary     Open a hosted checkout for a quote
// @Tags        checkout
// @Accept      json
// @Produce     json
// @Param       request body request.CreateCheckoutRequest true "Checkout input"
// @Success     201 {object} response.CheckoutResponse
// @Failure     400 {object} pkg.HTTPError
// @Failure     404 {object} pkg.HTTPError
// @Failure     422 {object} pkg.HTTPError
// @Failure     502 {object} pkg.HTTPError
// @Router      /checkout [post]
func (h *CheckoutHandler) CreateCheckout(c *gin.Context) {
	var payload request.CreateCheckoutRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeAppError(c, errInvalidPayload)
		return
	}

	res, err := h.usecase.CreateCheckout(c.Request.Context(), payload.ToInput())
	if err != nil {
		log.Printf("[checkout][handler] create failed quote_id=%s err=%v", payload.QuoteID, err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.FromCheckoutResult(res))
}

// GetStatus godoc
// @Summary     Checkout status
// @Description Returns the transaction, polling the gateway first while payment is pending.
// @Tags        checkout
// @Produce     json
// @Param       transaction_id path string true "Transaction ID"
// @Success     200 {object} response.TransactionResponse
// @Failure     404 {object} pkg.HTTPError
// @Router      /checkout/{transaction_id}/status [get]
func (h *CheckoutHandler) GetStatus(c *gin.Context) {
	tx, err := h.usecase.SyncTransaction(c.Request.Context(), c.Param("transaction_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromTransaction(tx))
}

// PaymentWebhook godoc
// @Summary     Mercado Pago notification
// @Tags        webhooks
// @Accept      json
// @Produce     json
// @Param       x-signature header string true "ts=...,v1=..."
// @Param       x-request-id header string true "Request id"
// @Success     200 {object} map[string]string
// @Failure     401 {object} pkg.HTTPError
// @Router      /webhooks/payments [post]
func (h *CheckoutHandler) PaymentWebhook(c *gin.Context) {
	var body request.PaymentNotification
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			log.Printf("[checkout][webhook] unreadable body err=%v", err)
		}
	}
	topic, dataID := request.ResolveWebhook(body, c.Query("type"), c.Query("topic"), c.Query("data.id"), c.Query("id"))

	err := h.usecase.HandleWebhook(c.Request.Context(), usecase.WebhookInput{
		Signature: c.GetHeader("x-signature"),
		RequestID: c.GetHeader("x-request-id"),
		Type:      topic,
		DataID:    dataID,
	})
	if err != nil {
		log.Printf("[checkout][webhook] failed topic=%s data_id=%s err=%v", topic, dataID, err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "received"})
}
