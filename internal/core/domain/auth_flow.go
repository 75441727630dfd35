package domain

import (
	"math"
	"strings"
	"time"
	"unicode"
)

// FlowMode selects which credential exchange step 1 performs.
type FlowMode string

const (
	FlowLogin    FlowMode = "login"
	FlowRegister FlowMode = "register"
)

// Valid reports whether m is a known mode.
func (m FlowMode) Valid() bool {
	return m == FlowLogin || m == FlowRegister
}

// FlowStep is the state of a phone verification flow.
type FlowStep string

const (
	StepCredentials   FlowStep = "credentials"
	StepOTPPending    FlowStep = "otp_pending"
	StepAuthenticated FlowStep = "authenticated"
)

// DefaultResendCooldown is the OTP resend countdown start.
const DefaultResendCooldown = 30 * time.Second

const emptyFieldMessage = "This field cannot be empty"

// Cancel is not a transition: it discards the flow.
var flowTransitions = map[FlowStep][]FlowStep{
	StepCredentials: {StepOTPPending},
	StepOTPPending:  {StepCredentials, StepAuthenticated},
}

// CanTransitionTo reports whether the flow may move from s to next.
func (s FlowStep) CanTransitionTo(next FlowStep) bool {
	for _, allowed := range flowTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Credentials are the step 1 form values. Names are only used by register.
type Credentials struct {
	PhoneNumber string
	Password    string
	FirstName   string
	LastName    string
}

// Validate checks required-field non-emptiness for the given mode. It returns
// nil when the form may be submitted.
func (c Credentials) Validate(mode FlowMode) *ValidationError {
	fields := map[string]string{}
	if mode == FlowRegister {
		if blank(c.FirstName) {
			fields["firstName"] = emptyFieldMessage
		}
		if blank(c.LastName) {
			fields["lastName"] = emptyFieldMessage
		}
	}
	if blank(c.PhoneNumber) {
		fields["phoneNumber"] = emptyFieldMessage
	}
	if blank(c.Password) {
		fields["password"] = emptyFieldMessage
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// ValidateOTP checks the step 2 code is present.
func ValidateOTP(otp string) *ValidationError {
	if blank(otp) {
		return &ValidationError{Fields: map[string]string{"otp": emptyFieldMessage}}
	}
	return nil
}

// AuthFlow is the in-memory state of one login or register form.
type AuthFlow struct {
	SessionID     string
	Mode          FlowMode
	Step          FlowStep
	Credentials   Credentials
	ExchangeToken string
	Provisional   *User
	CountdownFrom time.Time
	LastError     string
	UpdatedAt     time.Time
}

// NewAuthFlow opens a fresh flow in the credentials step.
func NewAuthFlow(sessionID string, mode FlowMode, now time.Time) *AuthFlow {
	return &AuthFlow{
		SessionID: sessionID,
		Mode:      mode,
		Step:      StepCredentials,
		UpdatedAt: now,
	}
}

// Countdown returns the whole seconds left before a resend is allowed.
func (f *AuthFlow) Countdown(now time.Time, cooldown time.Duration) int {
	if f.Step != StepOTPPending || f.CountdownFrom.IsZero() {
		return 0
	}
	left := cooldown - now.Sub(f.CountdownFrom)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Seconds()))
}

// CanResend reports whether the countdown has reached zero.
func (f *AuthFlow) CanResend(now time.Time, cooldown time.Duration) bool {
	return f.Step == StepOTPPending && f.Countdown(now, cooldown) == 0
}

// NormalizePhone strips everything but digits.
func NormalizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MaskPhone keeps the last four digits.
func MaskPhone(phone string) string {
	digits := NormalizePhone(phone)
	if len(digits) <= 4 {
		return strings.Repeat("*", len(digits))
	}
	return strings.Repeat("*", len(digits)-4) + digits[len(digits)-4:]
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Audit event names for flow transitions.
const (
	EventCredentialsAccepted = "credentials_accepted"
	EventCredentialsRejected = "credentials_rejected"
	EventOTPConfirmed        = "otp_confirmed"
	EventOTPRejected         = "otp_rejected"
	EventResend              = "resend"
	EventCancel              = "cancel"
)

// AuthEvent is one entry of the auth audit trail. Phone is always masked.
type AuthEvent struct {
	SessionID string
	Mode      FlowMode
	Event     string
	Phone     string
	Reason    string
	At        time.Time
}
