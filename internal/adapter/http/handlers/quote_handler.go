package handlers

import (
	request "legacy_portal/internal/adapter/http/dto/request"
	response "legacy_portal/internal/adapter/http/dto/response"
	"legacy_portal/internal/usecase"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type QuoteHandler struct {
	usecase usecase.IQuoteUseCase
}

func NewQuoteHandler(uc usecase.IQuoteUseCase) *QuoteHandler {
	return &QuoteHandler{usecase: uc}
}

// CreateQuote godoc
// @Summary     Price a translation request
// @Tags        quotes
// @Accept      json
// @Produce     json
// @Param       request body request.CreateQuoteRequest true "Quote input"
// @Success     201 {object} response.QuoteResponse
// @Failure     400 {object} pkg.HTTPError
// @Failure     422 {object} pkg.HTTPError
// @Router      /quotes [post]
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	var payload request.CreateQuoteRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeAppError(c, errInvalidPayload)
		return
	}

	q, err := h.usecase.CreateQuote(c.Request.Context(), payload.ToInput())
	if err != nil {
		log.Printf("[quote][handler] create failed reference=%s err=%v", payload.Reference, err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.FromQuote(q))
}

// GetQuote godoc
// @Summary     Get a quote
// @Tags        quotes
// @Produce     json
// @Param       id path string true "Quote ID"
// @Success     200 {object} response.QuoteResponse
// @Failure     404 {object} pkg.HTTPError
// @Router      /quotes/{id} [get]
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	q, err := h.usecase.GetQuote(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromQuote(q))
}
