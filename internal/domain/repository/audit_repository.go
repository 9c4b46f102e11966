package repository

import (
	"context"

	"github.com/sanikant20/bookMandala-Server/internal/domain/entity"
)

// AuditRepository persists account audit events.
type AuditRepository interface {
	Insert(ctx context.Context, e *entity.AuditEvent) error
}
