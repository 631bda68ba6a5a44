// Package supabase implements subscription.Repository against a hosted
// Supabase project through its PostgREST endpoint (/rest/v1).
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ignite/welcome-mailer/internal/config"
	"github.com/ignite/welcome-mailer/internal/domain"
	"github.com/ignite/welcome-mailer/internal/service/subscription"
)

// uniqueViolation is the Postgres SQLSTATE PostgREST passes through in the
// "code" field when an insert hits a unique constraint.
const uniqueViolation = "23505"

// HTTPDoer is the interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a minimal PostgREST client scoped to one table.
type Client struct {
	baseURL    string
	serviceKey string
	table      string
	httpClient HTTPDoer
}

// NewClient creates a Supabase client from store configuration.
func NewClient(cfg config.StoreConfig) *Client {
	return NewClientWithHTTP(cfg, &http.Client{Timeout: cfg.Timeout()})
}

// NewClientWithHTTP is NewClient with an injected transport.
func NewClientWithHTTP(cfg config.StoreConfig, doer HTTPDoer) *Client {
	table := cfg.Table
	if table == "" {
		table = domain.SubscriptionTable
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.SupabaseURL, "/"),
		serviceKey: cfg.ServiceKey,
		table:      table,
		httpClient: doer,
	}
}

// APIError is the error body PostgREST returns for failed requests.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("supabase request failed with status %d", e.Status)
}

// row mirrors a user_emails row. id may be a uuid or a bigint depending on
// how the table was created, so it is kept raw.
type row struct {
	ID        json.RawMessage `json:"id"`
	Email     string          `json:"email"`
	CreatedAt *time.Time      `json:"created_at"`
}

// Insert posts {email} to the table and copies the returned row into s.
func (c *Client) Insert(ctx context.Context, s *domain.Subscription) error {
	body, err := json.Marshal([]map[string]string{{"email": s.Email}})
	if err != nil {
		return fmt.Errorf("encoding insert: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.tableURL(nil), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "return=representation")

	data, err := c.do(req)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", subscription.ErrDuplicate, apiErr.Message)
		}
		return err
	}

	var rows []row
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("decoding insert response: %w", err)
	}
	if len(rows) > 0 {
		s.ID = strings.Trim(string(rows[0].ID), `"`)
		if rows[0].CreatedAt != nil {
			s.CreatedAt = *rows[0].CreatedAt
		}
	}
	return nil
}

// Ping issues a one-row select to confirm the project and key are usable.
func (c *Client) Ping(ctx context.Context) error {
	q := url.Values{}
	q.Set("select", "email")
	q.Set("limit", "1")
	req, err := c.newRequest(ctx, http.MethodGet, c.tableURL(q), nil)
	if err != nil {
		return err
	}
	_, err = c.do(req)
	return err
}

func (c *Client) tableURL(q url.Values) string {
	u := c.baseURL + "/rest/v1/" + url.PathEscape(c.table)
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (c *Client) newRequest(ctx context.Context, method, u string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do executes req and returns the body of a 2xx response, or an *APIError.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		if jsonErr := json.Unmarshal(data, apiErr); jsonErr != nil || apiErr.Message == "" {
			apiErr.Message = fmt.Sprintf("supabase request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
		}
		return nil, apiErr
	}
	return data, nil
}
