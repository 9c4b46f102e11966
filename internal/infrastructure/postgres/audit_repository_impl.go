package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sanikant20/bookMandala-Server/internal/domain/entity"
	"github.com/sanikant20/bookMandala-Server/internal/domain/repository"
)

// AuditRepository writes account audit events to Postgres.
type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func (r *AuditRepository) Insert(ctx context.Context, e *entity.AuditEvent) error {
	md, err := json.Marshal(e.Metadata)
	if err != nil {
		md = []byte("{}")
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO audit_logs (user_id, email, action, ip, user_agent, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, nullable(e.UserID), nullable(e.Email), e.Action, nullable(e.IP), nullable(e.UserAgent), md)
	return err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ repository.AuditRepository = (*AuditRepository)(nil)
