package subscription

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/ignite/welcome-mailer/internal/domain"
	"github.com/ignite/welcome-mailer/internal/pkg/logger"
)

// State is the terminal state a subscribe request ends in.
type State string

const (
	StateRejected      State = "rejected"
	StatePersistFailed State = "persist_failed"
	StateSent          State = "sent"
	StateSendFailed    State = "send_failed"
)

// Result describes how a single Subscribe call ended. It is returned
// alongside the error for every terminal state.
type Result struct {
	Email     string
	State     State
	Duplicate bool
	MessageID string
}

// Observer is told about every finished Subscribe call. Used for metrics.
type Observer func(r Result)

// Option configures a Service.
type Option func(*Service)

// WithObserver registers a callback invoked once per Subscribe call.
func WithObserver(o Observer) Option {
	return func(s *Service) { s.observe = o }
}

// Service implements the subscribe workflow. It holds no per-request state
// and is safe for concurrent use as long as its collaborators are.
type Service struct {
	repo    Repository
	mailer  Mailer
	observe Observer
}

// NewService creates a subscription service backed by the given store and
// mailer.
func NewService(repo Repository, mailer Mailer, opts ...Option) *Service {
	s := &Service{repo: repo, mailer: mailer}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe records email and sends it the welcome mail.
//
// Errors: ErrEmailRequired when email is empty, *PersistenceError when the
// store fails for any reason other than a duplicate, *DispatchError when the
// mail transport fails. The returned Result is never nil.
func (s *Service) Subscribe(ctx context.Context, email string) (*Result, error) {
	res := &Result{Email: email}
	err := s.subscribe(ctx, res)
	if s.observe != nil {
		s.observe(*res)
	}
	return res, err
}

func (s *Service) subscribe(ctx context.Context, res *Result) error {
	logger.Info("incoming subscription", "email", res.Email)

	// Presence only: the address is opaque and syntax is not checked.
	if err := validation.Validate(res.Email, validation.Required); err != nil {
		logger.Warn("email missing in request body")
		res.State = StateRejected
		return ErrEmailRequired
	}

	sub := &domain.Subscription{Email: res.Email}
	if err := s.repo.Insert(ctx, sub); err != nil {
		if !errors.Is(err, ErrDuplicate) {
			logger.Error("subscription insert failed", "email", res.Email, "error", err)
			res.State = StatePersistFailed
			return &PersistenceError{Err: err}
		}
		// The welcome mail still goes out for repeat subscriptions.
		res.Duplicate = true
		logger.Warn("email already subscribed, sending welcome anyway", "email", res.Email)
	} else {
		logger.Info("subscription stored", "email", sub.Email, "id", sub.ID)
	}

	messageID, err := s.mailer.SendWelcome(ctx, res.Email)
	if err != nil {
		logger.Error("welcome email failed", "email", res.Email, "error", err)
		res.State = StateSendFailed
		return &DispatchError{Err: err}
	}

	res.MessageID = messageID
	res.State = StateSent
	logger.Info("welcome email sent", "email", res.Email, "message_id", messageID)
	return nil
}
