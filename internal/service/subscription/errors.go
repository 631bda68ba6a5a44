package subscription

import "errors"

// Sentinel errors for the subscription service layer.
var (
	// ErrEmailRequired is returned when the request carries no address.
	ErrEmailRequired = errors.New("email is required")

	// ErrDuplicate is wrapped by repositories when the store rejects an
	// insert on its unique email constraint.
	ErrDuplicate = errors.New("email already subscribed")
)

// PersistenceError reports a store failure other than a duplicate key.
// Mail is never attempted after one.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return "database save failed: " + e.Err.Error() }

func (e *PersistenceError) Unwrap() error { return e.Err }

// DispatchError reports a failed welcome send. The store write that
// preceded it is kept.
type DispatchError struct {
	Err error
}

func (e *DispatchError) Error() string { return "welcome email failed: " + e.Err.Error() }

func (e *DispatchError) Unwrap() error { return e.Err }
