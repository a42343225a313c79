package request

import "legacy_portal/internal/usecase"

// IssueCertificationRequest carries either the document itself (base64 in
// JSON) or its SHA-256 hex digest.
type IssueCertificationRequest struct {
	OrderID        string `json:"order_id"`
	ContentHash    string `json:"content_hash"`
	Document       []byte `json:"document"`
	DocumentType   string `json:"document_type"`
	CertifierName  string `json:"certifier_name"`
	CertifierTitle string `json:"certifier_title"`
}

func (r IssueCertificationRequest) ToInput() usecase.IssueCertificationInput {
	return usecase.IssueCertificationInput{
		OrderID:        r.OrderID,
		ContentHash:    r.ContentHash,
		Document:       r.Document,
		DocumentType:   r.DocumentType,
		CertifierName:  r.CertifierName,
		CertifierTitle: r.CertifierTitle,
	}
}

type RevokeCertificationRequest struct {
	Reason string `json:"reason"`
}
