package ports

import (
	"context"

	"github.com/greenhaven/storefront/internal/core/domain"
)

// FlowView is what the UI may see of a flow. The password and the exchange
// token never leave the service.
type FlowView struct {
	Mode        domain.FlowMode `json:"mode"`
	Step        domain.FlowStep `json:"step"`
	PhoneNumber string          `json:"phoneNumber,omitempty"`
	FirstName   string          `json:"firstName,omitempty"`
	LastName    string          `json:"lastName,omitempty"`
	Countdown   int             `json:"countdown"`
	CanResend   bool            `json:"canResend"`
	Pending     bool            `json:"pending"`
	Error       string          `json:"error,omitempty"`
}

// SessionView is the public state of a session.
type SessionView struct {
	Authenticated bool            `json:"authenticated"`
	User          *domain.Profile `json:"user,omitempty"`
	HasCart       bool            `json:"hasCart"`
	Locale        string          `json:"locale"`
}

// AuthFlowService drives the two-step phone verification flow.
type AuthFlowService interface {
	Open(ctx context.Context, sid string, mode domain.FlowMode) (*FlowView, error)
	State(ctx context.Context, sid string) (*FlowView, error)
	SubmitCredentials(ctx context.Context, sid string, creds domain.Credentials) (*FlowView, error)
	ConfirmOTP(ctx context.Context, sid, otp string) (*SessionView, error)
	Resend(ctx context.Context, sid string) (*FlowView, error)
	Back(ctx context.Context, sid string) (*FlowView, error)
	Cancel(ctx context.Context, sid string) error
}

type SessionService interface {
	Current(ctx context.Context, sid string) (*SessionView, error)
	Logout(ctx context.Context, sid string) error
	Locale(ctx context.Context, sid string) (string, error)
	SetLocale(ctx context.Context, sid, locale string) error
}
