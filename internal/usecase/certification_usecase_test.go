package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"legacy_portal/internal/adapter/persistence/memory"
	"legacy_portal/internal/domain/entities"
	mock_interfaces "legacy_portal/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func newCertificationFixture(t *testing.T) (*memory.Store, *CertificationUseCase) {
	s := memory.NewStore()
	ctx := context.Background()
	orders := []entities.Order{
		{ID: "delivered", TranslationStatus: entities.TranslationDelivered, TranslateFrom: "pt", TranslateTo: "en"},
		{ID: "ready", TranslationStatus: entities.TranslationReady},
	}
	for _, o := range orders {
		if _, err := s.Orders().Create(ctx, o, nil); err != nil {
			t.Fatalf("seed order: %v", err)
		}
	}
	uc := NewCertificationUseCase(s.Certifications(), s.Orders())
	uc.now = clock(fixedNow)
	return s, uc
}

func TestCertificationUseCase_Issue(t *testing.T) {
	ctx := context.Background()
	doc := []byte("certified translation body")

	t.Run("order must be delivered", func(t *testing.T) {
		_, uc := newCertificationFixture(t)
		_, err := uc.Issue(ctx, IssueCertificationInput{OrderID: "ready", Document: doc, DocumentType: "birth_certificate", CertifierName: "Ana"})
		if !errors.Is(err, ErrOrderNotDelivered) {
			t.Fatalf("expected ErrOrderNotDelivered, got %v", err)
		}
	})

	t.Run("order not found", func(t *testing.T) {
		_, uc := newCertificationFixture(t)
		_, err := uc.Issue(ctx, IssueCertificationInput{OrderID: "nope", Document: doc, DocumentType: "x", CertifierName: "Ana"})
		if !errors.Is(err, ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})

	t.Run("invalid hash", func(t *testing.T) {
		_, uc := newCertificationFixture(t)
		_, err := uc.Issue(ctx, IssueCertificationInput{OrderID: "delivered", ContentHash: "abc", DocumentType: "x", CertifierName: "Ana"})
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Violations["content_hash"] != "invalid_sha256" {
			t.Fatalf("expected content_hash violation, got %v", err)
		}
	})

	t.Run("issues from document bytes", func(t *testing.T) {
		_, uc := newCertificationFixture(t)
		c, err := uc.Issue(ctx, IssueCertificationInput{OrderID: "delivered", Document: doc, DocumentType: "diploma", CertifierName: " Ana Lima "})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.ContentHash != HashDocument(doc) || !c.IsValid || c.CertifierName != "Ana Lima" {
			t.Fatalf("unexpected certification: %+v", c)
		}
		if c.SourceLanguage != "pt" || c.TargetLanguage != "en" || !c.CertifiedAt.Equal(fixedNow) {
			t.Fatalf("expected order languages and timestamp: %+v", c)
		}
	})

	t.Run("repo error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockICertificationRepository(ctrl)
		orders := mock_interfaces.NewMockIOrderRepository(ctrl)
		uc := NewCertificationUseCase(repo, orders)

		orders.EXPECT().GetByID(gomock.Any(), "o-1").Return(entities.Order{ID: "o-1", TranslationStatus: entities.TranslationDelivered}, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.Certification{}, errors.New("db"))

		_, err := uc.Issue(ctx, IssueCertificationInput{OrderID: "o-1", Document: doc, DocumentType: "x", CertifierName: "Ana"})
		if err == nil || err.Error() != "db" {
			t.Fatalf("expected db error, got %v", err)
		}
	})
}

func TestCertificationUseCase_VerifyAndRevoke(t *testing.T) {
	ctx := context.Background()
	doc := []byte("original")
	_, uc := newCertificationFixture(t)

	c, err := uc.Issue(ctx, IssueCertificationInput{OrderID: "delivered", Document: doc, DocumentType: "diploma", CertifierName: "Ana"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	t.Run("valid without hash", func(t *testing.T) {
		res, err := uc.Verify(ctx, c.ID, "")
		if err != nil || !res.IsValid || res.Message != "Certification is valid" {
			t.Fatalf("unexpected result: %+v %v", res, err)
		}
	})

	t.Run("matching hash is case insensitive", func(t *testing.T) {
		res, _ := uc.Verify(ctx, c.ID, " "+strings.ToUpper(HashDocument(doc))+" ")
		if !res.IsValid {
			t.Fatalf("expected valid, got %+v", res)
		}
	})

	t.Run("tampered document", func(t *testing.T) {
		res, _ := uc.Verify(ctx, c.ID, HashDocument([]byte("edited")))
		if res.IsValid || res.Message != "Document does not match this certification" {
			t.Fatalf("expected mismatch, got %+v", res)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		if _, err := uc.Verify(ctx, "nope", ""); !errors.Is(err, ErrCertificationNotFound) {
			t.Fatalf("expected ErrCertificationNotFound, got %v", err)
		}
	})

	t.Run("revoke", func(t *testing.T) {
		if _, err := uc.Revoke(ctx, c.ID, " "); err == nil {
			t.Fatalf("expected reason to be required")
		}
		revoked, err := uc.Revoke(ctx, c.ID, "issued in error")
		if err != nil || revoked.IsValid || revoked.RevocationReason != "issued in error" {
			t.Fatalf("unexpected revoke result: %+v %v", revoked, err)
		}
		res, _ := uc.Verify(ctx, c.ID, HashDocument(doc))
		if res.IsValid || res.Message != "Certification has been revoked: issued in error" {
			t.Fatalf("expected revoked result, got %+v", res)
		}
		if _, err := uc.Revoke(ctx, c.ID, "again"); !errors.Is(err, ErrCertificationRevoked) {
			t.Fatalf("expected ErrCertificationRevoked, got %v", err)
		}
	})
}
