package subscription

import (
	"context"

	"github.com/ignite/welcome-mailer/internal/domain"
)

// Repository defines the data access contract for subscriber records.
type Repository interface {
	// Insert records a new subscription. On success the store-assigned
	// fields (ID, CreatedAt) are written back into s. If the address is
	// already present the returned error wraps ErrDuplicate.
	Insert(ctx context.Context, s *domain.Subscription) error
}

// Mailer delivers the welcome message and returns the transport's message id.
type Mailer interface {
	SendWelcome(ctx context.Context, to string) (string, error)
}
