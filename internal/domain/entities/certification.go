package entities

import "time"

// Certification binds a delivered translation to a content hash.
//
// Storage model (DynamoDB):
//   - PK: id
//
// Records are append-only: revocation flips IsValid and stores the reason,
// nothing is ever deleted.
type Certification struct {
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
