package domain

import "time"

// SubscriptionTable is the store table holding subscriber addresses.
const SubscriptionTable = "user_emails"

// Subscription is a single address recorded by the subscribe endpoint.
// The email is opaque: it is stored exactly as submitted, and uniqueness is
// left to the store.
type Subscription struct {
	ID        string    `json:"id,omitempty" db:"id"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at,omitempty" db:"created_at"`
}
