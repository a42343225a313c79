package interfaces

import (
	"context"
	"time"

	"legacy_portal/internal/domain/entities"
)

// ICertificationRepository abstracts persistence for Certification.
// Records are never deleted; Revoke is guarded by is_valid = true.
type ICertificationRepository interface {
	Create(ctx context.Context, c entities.Certification) (entities.Certification, error)
	GetByID(ctx context.Context, id string) (entities.Certification, error)
	Revoke(ctx context.Context, id, reason string, now time.Time) (entities.Certification, error)
}
