package subscription

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/ignite/welcome-mailer/internal/domain"
)

// mockRepo is an in-memory store that enforces unique addresses.
type mockRepo struct {
	mu      sync.Mutex
	rows    map[string]*domain.Subscription
	inserts int
	err     error
}

func newMockRepo() *mockRepo {
	return &mockRepo{rows: make(map[string]*domain.Subscription)}
}

func (m *mockRepo) Insert(_ context.Context, s *domain.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inserts++
	if m.err != nil {
		return m.err
	}
	if _, exists := m.rows[s.Email]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, s.Email)
	}
	s.ID = fmt.Sprintf("id-%d", len(m.rows)+1)
	m.rows[s.Email] = s
	return nil
}

// mockMailer records every welcome it is asked to send.
type mockMailer struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (m *mockMailer) SendWelcome(_ context.Context, to string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	if m.err != nil {
		return "", m.err
	}
	return fmt.Sprintf("<msg-%d@example.com>", len(m.sent)), nil
}

func TestSubscribe_NewEmail(t *testing.T) {
	repo, mailer := newMockRepo(), &mockMailer{}
	svc := NewService(repo, mailer)

	res, err := svc.Subscribe(context.Background(), "a@b.com")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if res.State != StateSent {
		t.Errorf("expected state %q, got %q", StateSent, res.State)
	}
	if res.Duplicate {
		t.Error("new address reported as duplicate")
	}
	if res.MessageID == "" {
		t.Error("expected message id from mailer")
	}
	if repo.inserts != 1 {
		t.Errorf("expected 1 insert, got %d", repo.inserts)
	}
	if len(mailer.sent) != 1 || mailer.sent[0] != "a@b.com" {
		t.Errorf("expected one send to a@b.com, got %v", mailer.sent)
	}
	if _, ok := repo.rows["a@b.com"]; !ok {
		t.Error("expected store to hold a@b.com")
	}
}

func TestSubscribe_EmptyEmail_NoDownstreamCalls(t *testing.T) {
	repo, mailer := newMockRepo(), &mockMailer{}
	svc := NewService(repo, mailer)

	res, err := svc.Subscribe(context.Background(), "")
	if !errors.Is(err, ErrEmailRequired) {
		t.Fatalf("expected ErrEmailRequired, got %v", err)
	}
	if res.State != StateRejected {
		t.Errorf("expected state %q, got %q", StateRejected, res.State)
	}
	if repo.inserts != 0 || len(mailer.sent) != 0 {
		t.Errorf("expected no downstream calls, got %d inserts, %d sends", repo.inserts, len(mailer.sent))
	}
}

func TestSubscribe_NoSyntaxValidation(t *testing.T) {
	repo, mailer := newMockRepo(), &mockMailer{}
	svc := NewService(repo, mailer)

	// Only presence is checked; the address is otherwise opaque.
	if _, err := svc.Subscribe(context.Background(), "not-an-address"); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if repo.inserts != 1 || len(mailer.sent) != 1 {
		t.Errorf("expected insert and send, got %d inserts, %d sends", repo.inserts, len(mailer.sent))
	}
}

func TestSubscribe_DuplicateStillSends(t *testing.T) {
	repo, mailer := newMockRepo(), &mockMailer{}
	svc := NewService(repo, mailer)
	ctx := context.Background()

	if _, err := svc.Subscribe(ctx, "dup@example.com"); err != nil {
		t.Fatalf("first Subscribe: %v", err)
	}
	res, err := svc.Subscribe(ctx, "dup@example.com")
	if err != nil {
		t.Fatalf("second Subscribe: %v", err)
	}

	if !res.Duplicate {
		t.Error("expected second subscribe to be flagged duplicate")
	}
	if res.State != StateSent {
		t.Errorf("expected state %q, got %q", StateSent, res.State)
	}
	if len(mailer.sent) != 2 {
		t.Errorf("expected 2 sends for repeated address, got %d", len(mailer.sent))
	}
	if len(repo.rows) != 1 {
		t.Errorf("expected store to hold 1 row, got %d", len(repo.rows))
	}
}

func TestSubscribe_StoreFailure_SkipsMail(t *testing.T) {
	repo, mailer := newMockRepo(), &mockMailer{}
	repo.err = errors.New("connection refused")
	svc := NewService(repo, mailer)

	res, err := svc.Subscribe(context.Background(), "a@b.com")

	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *PersistenceError, got %T %v", err, err)
	}
	if perr.Err.Error() != "connection refused" {
		t.Errorf("unexpected cause: %v", perr.Err)
	}
	if res.State != StatePersistFailed {
		t.Errorf("expected state %q, got %q", StatePersistFailed, res.State)
	}
	if len(mailer.sent) != 0 {
		t.Errorf("expected no sends after store failure, got %d", len(mailer.sent))
	}
}

func TestSubscribe_SendFailure_KeepsRecord(t *testing.T) {
	repo := newMockRepo()
	mailer := &mockMailer{err: errors.New("535 authentication failed")}
	svc := NewService(repo, mailer)

	res, err := svc.Subscribe(context.Background(), "a@b.com")

	var derr *DispatchError
	if !errors.As(err, &derr) {
		t.Fatalf("expected *DispatchError, got %T %v", err, err)
	}
	if res.State != StateSendFailed {
		t.Errorf("expected state %q, got %q", StateSendFailed, res.State)
	}
	if _, ok := repo.rows["a@b.com"]; !ok {
		t.Error("store record should survive a failed send")
	}
}

func TestSubscribe_ObserverSeesEveryOutcome(t *testing.T) {
	repo, mailer := newMockRepo(), &mockMailer{}
	var seen []Result
	svc := NewService(repo, mailer, WithObserver(func(r Result) { seen = append(seen, r) }))
	ctx := context.Background()

	_, _ = svc.Subscribe(ctx, "")
	_, _ = svc.Subscribe(ctx, "x@example.com")
	_, _ = svc.Subscribe(ctx, "x@example.com")

	if len(seen) != 3 {
		t.Fatalf("expected 3 observations, got %d", len(seen))
	}
	if seen[0].State != StateRejected {
		t.Errorf("first: expected %q, got %q", StateRejected, seen[0].State)
	}
	if seen[1].State != StateSent || seen[1].Duplicate {
		t.Errorf("second: unexpected %+v", seen[1])
	}
	if seen[2].State != StateSent || !seen[2].Duplicate {
		t.Errorf("third: unexpected %+v", seen[2])
	}
}

func TestErrorMessages(t *testing.T) {
	cause := errors.New("boom")
	if got := (&PersistenceError{Err: cause}).Error(); got != "database save failed: boom" {
		t.Errorf("PersistenceError.Error() = %q", got)
	}
	if got := (&DispatchError{Err: cause}).Error(); got != "welcome email failed: boom" {
		t.Errorf("DispatchError.Error() = %q", got)
	}
	if !errors.Is(&DispatchError{Err: cause}, cause) {
		t.Error("DispatchError should unwrap to its cause")
	}
}
