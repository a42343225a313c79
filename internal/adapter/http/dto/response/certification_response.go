package response

import (
	"legacy_portal/internal/domain/entities"
	"legacy_portal/internal/usecase"
	"time"
)

type CertificationResponse struct {
	ID               string     `json:"id"`
	OrderID          string     `json:"order_id"`
	ContentHash      string     `json:"content_hash"`
	DocumentType     string     `json:"document_type"`
	SourceLanguage   string     `json:"source_language"`
	TargetLanguage   string     `json:"target_language"`
	CertifierName    string     `json:"certifier_name"`
	CertifierTitle   string     `json:"certifier_title,omitempty"`
	CertifiedAt      time.Time  `json:"certified_at"`
	IsValid          bool       `json:"is_valid"`
	RevokedAt        *time.Time `json:"revoked_at,omitempty"`
	RevocationReason string     `json:"revocation_reason,omitempty"`
}

func FromCertification(c entities.Certification) CertificationResponse {
	return CertificationResponse{
		ID:               c.ID,
		OrderID:          c.OrderID,
		ContentHash:      c.ContentHash,
		DocumentType:     c.DocumentType,
		SourceLanguage:   c.SourceLanguage,
		TargetLanguage:   c.TargetLanguage,
		CertifierName:    c.CertifierName,
		CertifierTitle:   c.CertifierTitle,
		CertifiedAt:      c.CertifiedAt,
		IsValid:          c.IsValid,
		RevokedAt:        c.RevokedAt,
		RevocationReason: c.RevocationReason,
	}
}

// VerificationResponse is the public verification view. It never exposes
// the order or the stored hash.
type VerificationResponse struct {
	ID             string    `json:"id"`
	IsValid        bool      `json:"is_valid"`
	CertifiedAt    time.Time `json:"certified_at"`
	DocumentType   string    `json:"document_type"`
	SourceLanguage string    `json:"source_language"`
	TargetLanguage string    `json:"target_language"`
	CertifierName  string    `json:"certifier_name"`
	CertifierTitle string    `json:"certifier_title,omitempty"`
	Message        string    `json:"message"`
}

func FromVerification(r usecase.VerificationResult) VerificationResponse {
	return VerificationResponse{
		ID:             r.ID,
		IsValid:        r.IsValid,
		CertifiedAt:    r.CertifiedAt,
		DocumentType:   r.DocumentType,
		SourceLanguage: r.SourceLanguage,
		TargetLanguage: r.TargetLanguage,
		CertifierName:  r.CertifierName,
		CertifierTitle: r.CertifierTitle,
		Message:        r.Message,
	}
}
