package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"strings"
	"time"

	"legacy_portal/internal/domain/entities"
	"legacy_portal/internal/usecase/interfaces"
	"legacy_portal/pkg/validation"

	"github.com/google/uuid"
)

type IssueCertificationInput struct {
	OrderID        string
	ContentHash    string
	Document       []byte
	DocumentType   string
	CertifierName  string
	CertifierTitle string
}

// VerificationResult is the public view of a certification.
type VerificationResult struct {
	ID             string
	IsValid        bool
	CertifiedAt    time.Time
	DocumentType   string
	SourceLanguage string
	TargetLanguage string
	CertifierName  string
	CertifierTitle string
	Message        string
}

// ICertificationUseCase issues and verifies translation certifications.
type ICertificationUseCase interface {
	Issue(ctx context.Context, in IssueCertificationInput) (entities.Certification, error)
	Verify(ctx context.Context, id, hash string) (VerificationResult, error)
	Revoke(ctx context.Context, id, reason string) (entities.Certification, error)
}

type CertificationUseCase struct {
	repo   interfaces.ICertificationRepository
	orders interfaces.IOrderRepository
	now    func() time.Time
}

var _ ICertificationUseCase = (*CertificationUseCase)(nil)

func NewCertificationUseCase(repo interfaces.ICertificationRepository, orders interfaces.IOrderRepository) *CertificationUseCase {
	return &CertificationUseCase{repo: repo, orders: orders, now: utcNow}
}

// HashDocument is the content hash stored on a certification.
func HashDocument(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func isSHA256Hex(s string) bool {
	if len(s) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

func (u *CertificationUseCase) Issue(ctx context.Context, in IssueCertificationInput) (entities.Certification, error) {
	hash := strings.ToLower(strings.TrimSpace(in.ContentHash))
	if len(in.Document) > 0 {
		hash = HashDocument(in.Document)
	}

	v := validation.Violations{}
	validation.Required("order_id", in.OrderID, v)
	validation.Required("document_type", in.DocumentType, v)
	validation.Required("certifier_name", in.CertifierName, v)
	if !isSHA256Hex(hash) {
		v["content_hash"] = "invalid_sha256"
	}
	if err := newValidationError(v); err != nil {
		return entities.Certification{}, err
	}

	o, err := u.orders.GetByID(ctx, strings.TrimSpace(in.OrderID))
	if err != nil {
		return entities.Certification{}, err
	}
	if o.ID == "" {
		return entities.Certification{}, ErrOrderNotFound
	}
	if o.TranslationStatus != entities.TranslationDelivered {
		return entities.Certification{}, ErrOrderNotDelivered
	}

	c := entities.Certification{
		ID:             uuid.NewString(),
		OrderID:        o.ID,
		ContentHash:    hash,
		DocumentType:   strings.TrimSpace(in.DocumentType),
		SourceLanguage: o.TranslateFrom,
		TargetLanguage: o.TranslateTo,
		CertifierName:  strings.TrimSpace(in.CertifierName),
		CertifierTitle: strings.TrimSpace(in.CertifierTitle),
		CertifiedAt:    u.now(),
		IsValid:        true,
	}
	created, err := u.repo.Create(ctx, c)
	if err != nil {
		return entities.Certification{}, err
	}
	log.Printf("[certification][usecase] issued certification_id=%s order_id=%s", created.ID, created.OrderID)
	return created, nil
}

func (u *CertificationUseCase) Verify(ctx context.Context, id, hash string) (VerificationResult, error) {
	c, err := u.get(ctx, id)
	if err != nil {
		return VerificationResult{}, err
	}

	res := VerificationResult{
		ID:             c.ID,
		IsValid:        c.IsValid,
		CertifiedAt:    c.CertifiedAt,
		DocumentType:   c.DocumentType,
		SourceLanguage: c.SourceLanguage,
		TargetLanguage: c.TargetLanguage,
		CertifierName:  c.CertifierName,
		CertifierTitle: c.CertifierTitle,
		Message:        "Certification is valid",
	}
	hash = strings.ToLower(strings.TrimSpace(hash))
	switch {
	case !c.IsValid:
		res.Message = "Certification has been revoked"
		if c.RevocationReason != "" {
			res.Message += ": " + c.RevocationReason
		}
	case hash != "" && hash != c.ContentHash:
		res.IsValid = false
		res.Message = "Document does not match this certification"
	}
	return res, nil
}

func (u *CertificationUseCase) Revoke(ctx context.Context, id, reason string) (entities.Certification, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return entities.Certification{}, newValidationError(validation.Violations{"reason": "required"})
	}
	c, err := u.get(ctx, id)
	if err != nil {
		return entities.Certification{}, err
	}
	if !c.IsValid {
		return entities.Certification{}, ErrCertificationRevoked
	}

	revoked, err := u.repo.Revoke(ctx, c.ID, reason, u.now())
	if errors.Is(err, interfaces.ErrConditionFailed) {
		return entities.Certification{}, ErrCertificationRevoked
	}
	if err != nil {
		return entities.Certification{}, err
	}
	log.Printf("[certification][usecase] revoked certification_id=%s", revoked.ID)
	return revoked, nil
}

func (u *CertificationUseCase) get(ctx context.Context, id string) (entities.Certification, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Certification{}, ErrCertificationNotFound
	}
	c, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Certification{}, err
	}
	if c.ID == "" {
		return entities.Certification{}, ErrCertificationNotFound
	}
	return c, nil
}
