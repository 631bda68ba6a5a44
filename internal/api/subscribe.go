package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ignite/welcome-mailer/internal/pkg/httputil"
	"github.com/ignite/welcome-mailer/internal/service/subscription"
)

const subscribeSuccessMessage = "Subscribed and email sent successfully!"

// Subscriber is the subscribe workflow as seen by the HTTP layer.
type Subscriber interface {
	Subscribe(ctx context.Context, email string) (*subscription.Result, error)
}

// SubscribeHandler serves POST /api/subscribe.
type SubscribeHandler struct {
	svc Subscriber
}

// NewSubscribeHandler creates a new SubscribeHandler.
func NewSubscribeHandler(svc Subscriber) *SubscribeHandler {
	return &SubscribeHandler{svc: svc}
}

type subscribeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HandleSubscribe stores the posted address and sends the welcome email.
//
//	POST /api/subscribe  {"email": "..."}
func (h *SubscribeHandler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	// Exact key match only; struct decoding folds case.
	var body map[string]json.RawMessage
	if !httputil.Decode(w, r, &body) {
		return
	}
	var email string
	if raw, ok := body["email"]; ok {
		var v *string
		if err := json.Unmarshal(raw, &v); err != nil {
			httputil.BadRequest(w, "invalid JSON: "+err.Error())
			return
		}
		if v != nil {
			email = *v
		}
	}

	_, err := h.svc.Subscribe(r.Context(), email)

	var perr *subscription.PersistenceError
	switch {
	case err == nil:
		httputil.OK(w, subscribeResponse{Success: true, Message: subscribeSuccessMessage})
	case errors.Is(err, subscription.ErrEmailRequired):
		httputil.BadRequest(w, "Email is required")
	case errors.As(err, &perr):
		httputil.InternalError(w, "Database save failed: ", perr.Err)
	default:
		var derr *subscription.DispatchError
		if errors.As(err, &derr) {
			err = derr.Err
		}
		httputil.InternalError(w, "Internal Server Error: ", err)
	}
}
