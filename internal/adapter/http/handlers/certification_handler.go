package handlers

import (
	request "legacy_portal/internal/adapter/http/dto/request"
	response "legacy_portal/internal/adapter/http/dto/response"
	"legacy_portal/internal/usecase"
	"net/http"

	"github.com/gin-gonic/gin"
)

type CertificationHandler struct {
	usecase usecase.ICertificationUseCase
}

func NewCertificationHandler(uc usecase.ICertificationUseCase) *CertificationHandler {
	return &CertificationHandler{usecase: uc}
}

func (h *CertificationHandler) Issue(c *gin.Context) {
	var payload request.IssueCertificationRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeAppError(c, errInvalidPayload)
		return
	}
	cert, err := h.usecase.Issue(c.Request.Context(), payload.ToInput())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.FromCertification(cert))
}

// Verify godoc
// @Summary     Verify a certified translation
// @Description Anyone holding the certificate id can check it. Pass hash to also check the document content.
// @Tags        certifications
// @Produce     json
// @Param       id path string true "Certification ID"
// @Param       hash query string false "SHA-256 hex of the document"
// @Success     200 {object} response.VerificationResponse
// @Failure     404 {object} pkg.HTTPError
// @Router      /certifications/{id}/verify [get]
func (h *CertificationHandler) Verify(c *gin.Context) {
	res, err := h.usecase.Verify(c.Request.Context(), c.Param("id"), c.Query("hash"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromVerification(res))
}

func (h *CertificationHandler) Revoke(c *gin.Context) {
	var payload request.RevokeCertificationRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeAppError(c, errInvalidPayload)
		return
	}
	cert, err := h.usecase.Revoke(c.Request.Context(), c.Param("id"), payload.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromCertification(cert))
}
