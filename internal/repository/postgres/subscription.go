package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ignite/welcome-mailer/internal/domain"
	"github.com/ignite/welcome-mailer/internal/service/subscription"
	"github.com/lib/pq"
)

// uniqueViolation is the SQLSTATE Postgres raises for a unique constraint.
const uniqueViolation pq.ErrorCode = "23505"

// SubscriptionRepo implements subscription.Repository against PostgreSQL.
type SubscriptionRepo struct {
	db    *sql.DB
	table string
}

// NewSubscriptionRepo creates a Postgres-backed subscription repository
// writing to table (domain.SubscriptionTable when empty).
func NewSubscriptionRepo(db *sql.DB, table string) *SubscriptionRepo {
	if table == "" {
		table = domain.SubscriptionTable
	}
	return &SubscriptionRepo{db: db, table: table}
}

// Insert writes only the email column. The table assigns id and created_at,
// so both uuid and bigint identity keys work.
func (r *SubscriptionRepo) Insert(ctx context.Context, s *domain.Subscription) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (email) VALUES ($1) RETURNING id::text, created_at`,
		pq.QuoteIdentifier(r.table),
	)
	err := r.db.QueryRowContext(ctx, query, s.Email).Scan(&s.ID, &s.CreatedAt)
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", subscription.ErrDuplicate, pqErr.Message)
	}
	return fmt.Errorf("insert subscription: %w", err)
}

// Ping reports whether the database is reachable.
func (r *SubscriptionRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
