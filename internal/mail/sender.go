package mail

import (
	"context"
	"net/mail"
	"strings"
)

// Address is a mailbox with an optional display name.
type Address struct {
	Name  string
	Email string
}

// String formats the address as `"Name" <email>`, or just the email when no
// name is set.
func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return (&mail.Address{Name: a.Name, Address: a.Email}).String()
}

// domain returns the part after the last "@", or "localhost".
func (a Address) domain() string {
	if i := strings.LastIndex(a.Email, "@"); i >= 0 && i < len(a.Email)-1 {
		return a.Email[i+1:]
	}
	return "localhost"
}

// Message is a single outbound HTML email.
type Message struct {
	From    Address
	To      string
	Subject string
	HTML    string
}

// Sender delivers a Message and returns the transport's message id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
	Provider() string
}
