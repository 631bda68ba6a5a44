package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ignite/welcome-mailer/internal/config"
	"github.com/ignite/welcome-mailer/internal/domain"
	"github.com/ignite/welcome-mailer/internal/service/subscription"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.StoreConfig{
		SupabaseURL:    srv.URL + "/",
		ServiceKey:     "service-key",
		TimeoutSeconds: 5,
	})
}

func TestClient_Insert(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/user_emails", r.URL.Path)
		assert.Equal(t, "service-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))

		body, _ := io.ReadAll(r.Body)
		var rows []map[string]string
		require.NoError(t, json.Unmarshal(body, &rows))
		assert.Equal(t, []map[string]string{{"email": "a@b.com"}}, rows)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`[{"id":42,"email":"a@b.com","created_at":"2026-03-01T12:00:00.123456+00:00"}]`))
	})

	sub := &domain.Subscription{Email: "a@b.com"}
	require.NoError(t, client.Insert(context.Background(), sub))
	assert.Equal(t, "42", sub.ID)
	assert.Equal(t, 2026, sub.CreatedAt.Year())
}

func TestClient_Insert_UUIDKey(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`[{"id":"3f1c9a52-0a4b-4c8e-9a57-1d2f3e4a5b6c","email":"a@b.com"}]`))
	})

	sub := &domain.Subscription{Email: "a@b.com"}
	require.NoError(t, client.Insert(context.Background(), sub))
	assert.Equal(t, "3f1c9a52-0a4b-4c8e-9a57-1d2f3e4a5b6c", sub.ID)
	assert.True(t, sub.CreatedAt.IsZero())
}

func TestClient_Insert_Duplicate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"code":"23505","details":"Key (email)=(a@b.com) already exists.","hint":null,"message":"duplicate key value violates unique constraint \"user_emails_email_key\""}`))
	})

	err := client.Insert(context.Background(), &domain.Subscription{Email: "a@b.com"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, subscription.ErrDuplicate))
}

func TestClient_Insert_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":"PGRST301","details":null,"hint":null,"message":"JWT expired"}`))
	})

	err := client.Insert(context.Background(), &domain.Subscription{Email: "a@b.com"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, subscription.ErrDuplicate))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "PGRST301", apiErr.Code)
	assert.Equal(t, "JWT expired", err.Error())
}

func TestClient_Insert_NonJSONError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	})

	err := client.Insert(context.Background(), &domain.Subscription{Email: "a@b.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
	assert.Contains(t, err.Error(), "upstream unavailable")
}

func TestClient_Ping(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "email", r.URL.Query().Get("select"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		w.Write([]byte(`[]`))
	})

	assert.NoError(t, client.Ping(context.Background()))
}

type failingDoer struct{}

func (failingDoer) Do(*http.Request) (*http.Response, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func TestClient_TransportError(t *testing.T) {
	client := NewClientWithHTTP(config.StoreConfig{SupabaseURL: "https://x.supabase.co", Table: "subs"}, failingDoer{})

	err := client.Insert(context.Background(), &domain.Subscription{Email: "a@b.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, "https://x.supabase.co/rest/v1/subs", client.tableURL(nil))
}
