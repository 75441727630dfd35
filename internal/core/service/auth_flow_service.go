package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/greenhaven/storefront/internal/api/metrics"
	"github.com/greenhaven/storefront/internal/core/domain"
	"github.com/greenhaven/storefront/internal/core/ports"
)

// AuthFlowConfig tunes the phone verification flow.
type AuthFlowConfig struct {
	ResendCooldown time.Duration
	DefaultLocale  string
	// Now is the clock; time.Now when nil.
	Now func() time.Time
}

// AuthFlowService implements the two-step login and registration flow:
// credentials exchange, then OTP confirmation.
type AuthFlowService struct {
	backend  ports.AuthBackend
	sessions ports.SessionStore
	flows    ports.FlowStore
	guard    ports.InFlightGuard
	audit    ports.AuthAuditLog
	cooldown time.Duration
	locale   string
	now      func() time.Time
	log      zerolog.Logger
}

func NewAuthFlowService(
	backend ports.AuthBackend,
	sessions ports.SessionStore,
	flows ports.FlowStore,
	guard ports.InFlightGuard,
	audit ports.AuthAuditLog,
	cfg AuthFlowConfig,
	log zerolog.Logger,
) *AuthFlowService {
	if cfg.ResendCooldown <= 0 {
		cfg.ResendCooldown = domain.DefaultResendCooldown
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.DefaultLocale == "" {
		cfg.DefaultLocale = domain.LocaleEN
	}
	return &AuthFlowService{
		backend:  backend,
		sessions: sessions,
		flows:    flows,
		guard:    guard,
		audit:    audit,
		cooldown: cfg.ResendCooldown,
		locale:   cfg.DefaultLocale,
		now:      cfg.Now,
		log:      log,
	}
}

// Open starts a fresh flow, discarding whatever the session had open.
func (s *AuthFlowService) Open(ctx context.Context, sid string, mode domain.FlowMode) (*ports.FlowView, error) {
	if !mode.Valid() {
		return nil, &domain.ValidationError{Fields: map[string]string{"mode": "mode must be one of: login register"}}
	}
	flow := domain.NewAuthFlow(sid, mode, s.now())
	if err := s.flows.Save(ctx, flow); err != nil {
		return nil, fmt.Errorf("open flow: %w", err)
	}
	return s.view(ctx, flow), nil
}

// State returns the current flow as the UI should render it.
func (s *AuthFlowService) State(ctx context.Context, sid string) (*ports.FlowView, error) {
	flow, err := s.flows.Load(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("flow state: %w", err)
	}
	return s.view(ctx, flow), nil
}

// SubmitCredentials performs step 1. Empty fields are rejected before any
// backend request. On success the flow waits for the OTP and the resend
// countdown starts.
func (s *AuthFlowService) SubmitCredentials(ctx context.Context, sid string, creds domain.Credentials) (*ports.FlowView, error) {
	flow, err := s.flows.Load(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("submit credentials: %w", err)
	}
	if flow.Step != domain.StepCredentials {
		return nil, fmt.Errorf("submit credentials: %w", domain.ErrInvalidFlowStep)
	}
	if verr := creds.Validate(flow.Mode); verr != nil {
		return nil, verr
	}

	release, err := s.acquire(ctx, sid)
	if err != nil {
		return nil, err
	}
	flow.Credentials = creds
	result, err := s.exchange(ctx, sid, flow)
	release()
	if err != nil {
		flow.LastError = errorMessage(err)
		s.save(ctx, flow)
		s.record(ctx, flow, domain.EventCredentialsRejected, flow.LastError)
		return nil, fmt.Errorf("submit credentials: %w", err)
	}

	s.acceptExchange(flow, result)
	flow.Step = domain.StepOTPPending
	flow.CountdownFrom = s.now()
	flow.LastError = ""
	if err := s.flows.Save(ctx, flow); err != nil {
		return nil, fmt.Errorf("submit credentials: save flow: %w", err)
	}
	s.record(ctx, flow, domain.EventCredentialsAccepted, "")

	return s.view(ctx, flow), nil
}

// ConfirmOTP performs step 2. Only a {success: true} answer touches the
// persisted session; any other outcome keeps the flow waiting for a code.
func (s *AuthFlowService) ConfirmOTP(ctx context.Context, sid, otp string) (*ports.SessionView, error) {
	flow, err := s.flows.Load(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("confirm otp: %w", err)
	}
	if !flow.Step.CanTransitionTo(domain.StepAuthenticated) {
		return nil, fmt.Errorf("confirm otp: %w", domain.ErrInvalidFlowStep)
	}
	if verr := domain.ValidateOTP(otp); verr != nil {
		return nil, verr
	}

	phone := flow.Credentials.PhoneNumber
	if flow.Provisional != nil && flow.Provisional.PhoneNumber != "" {
		phone = flow.Provisional.PhoneNumber
	}

	release, err := s.acquire(ctx, sid)
	if err != nil {
		return nil, err
	}
	ok, err := s.backend.CheckPhone(ctx, sid, ports.CheckPhoneInput{
		Token:       flow.ExchangeToken,
		PhoneNumber: domain.NormalizePhone(phone),
		OTP:         strings.TrimSpace(otp),
	})
	release()
	if err == nil && !ok {
		err = domain.ErrOTPRejected
	}
	if err != nil {
		flow.LastError = errorMessage(err)
		s.save(ctx, flow)
		s.record(ctx, flow, domain.EventOTPRejected, flow.LastError)
		return nil, fmt.Errorf("confirm otp: %w", err)
	}

	profile := flow.Provisional.Profile()
	if err := s.persistLogin(ctx, sid, flow.ExchangeToken, profile); err != nil {
		return nil, fmt.Errorf("confirm otp: %w", err)
	}

	flow.Step = domain.StepAuthenticated
	if err := s.flows.Delete(ctx, sid); err != nil {
		s.log.Warn().Err(err).Str("session_id", sid).Msg("failed to close auth flow")
	}
	s.record(ctx, flow, domain.EventOTPConfirmed, "")

	s.log.Info().Str("session_id", sid).Str("mode", string(flow.Mode)).Msg("session authenticated")

	return &ports.SessionView{
		Authenticated: true,
		User:          profile,
		Locale:        s.sessionLocale(ctx, sid),
	}, nil
}

// persistLogin writes the token, profile and flag slots. When a later write
// fails the earlier ones are cleared, so a session never holds a token it is
// not authenticated with.
func (s *AuthFlowService) persistLogin(ctx context.Context, sid, token string, profile *domain.Profile) error {
	if err := s.sessions.SetToken(ctx, sid, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	if err := s.sessions.SetUser(ctx, sid, profile); err != nil {
		s.rollbackLogin(ctx, sid)
		return fmt.Errorf("persist user: %w", err)
	}
	if err := s.sessions.SetAuthenticated(ctx, sid, true); err != nil {
		s.rollbackLogin(ctx, sid)
		return fmt.Errorf("persist auth flag: %w", err)
	}
	return nil
}

func (s *AuthFlowService) rollbackLogin(ctx context.Context, sid string) {
	if err := s.sessions.ClearCredentials(ctx, sid); err != nil {
		s.log.Error().Err(err).Str("session_id", sid).Msg("failed to roll back partial login")
	}
}

// Resend re-issues step 1 with the retained form values once the countdown
// reached zero. The countdown restarts whatever the outcome; the last OTP
// error is left as is.
func (s *AuthFlowService) Resend(ctx context.Context, sid string) (*ports.FlowView, error) {
	flow, err := s.flows.Load(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("resend: %w", err)
	}
	if flow.Step != domain.StepOTPPending {
		return nil, fmt.Errorf("resend: %w", domain.ErrInvalidFlowStep)
	}
	now := s.now()
	if !flow.CanResend(now, s.cooldown) {
		return nil, &domain.ResendNotReadyError{RetryAfter: flow.Countdown(now, s.cooldown)}
	}

	release, err := s.acquire(ctx, sid)
	if err != nil {
		return nil, err
	}
	flow.CountdownFrom = now
	result, err := s.exchange(ctx, sid, flow)
	release()
	if err != nil {
		flow.LastError = errorMessage(err)
		s.save(ctx, flow)
		s.record(ctx, flow, domain.EventCredentialsRejected, flow.LastError)
		return nil, fmt.Errorf("resend: %w", err)
	}

	s.acceptExchange(flow, result)
	if err := s.flows.Save(ctx, flow); err != nil {
		return nil, fmt.Errorf("resend: save flow: %w", err)
	}
	s.record(ctx, flow, domain.EventResend, "")

	return s.view(ctx, flow), nil
}

// Back returns to the credentials step keeping the entered values.
func (s *AuthFlowService) Back(ctx context.Context, sid string) (*ports.FlowView, error) {
	flow, err := s.flows.Load(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("back: %w", err)
	}
	if flow.Step != domain.StepOTPPending {
		return nil, fmt.Errorf("back: %w", domain.ErrInvalidFlowStep)
	}
	flow.Step = domain.StepCredentials
	if err := s.flows.Save(ctx, flow); err != nil {
		return nil, fmt.Errorf("back: save flow: %w", err)
	}
	return s.view(ctx, flow), nil
}

// Cancel discards the flow entirely: exchange token, provisional user and
// form values. The backend is not told; the exchange token simply expires.
func (s *AuthFlowService) Cancel(ctx context.Context, sid string) error {
	flow, err := s.flows.Load(ctx, sid)
	if errors.Is(err, domain.ErrFlowNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cancel: %w", err)
	}
	if err := s.flows.Delete(ctx, sid); err != nil {
		return fmt.Errorf("cancel: %w", err)
	}
	s.record(ctx, flow, domain.EventCancel, "")
	return nil
}

func (s *AuthFlowService) exchange(ctx context.Context, sid string, flow *domain.AuthFlow) (*ports.AuthResult, error) {
	creds := flow.Credentials
	phone := domain.NormalizePhone(creds.PhoneNumber)

	var (
		result *ports.AuthResult
		err    error
	)
	switch flow.Mode {
	case domain.FlowRegister:
		result, err = s.backend.Register(ctx, sid, ports.RegisterInput{
			FirstName:   strings.TrimSpace(creds.FirstName),
			LastName:    strings.TrimSpace(creds.LastName),
			PhoneNumber: phone,
			Password:    creds.Password,
		})
	default:
		result, err = s.backend.Login(ctx, sid, ports.LoginInput{
			PhoneNumber: phone,
			Password:    creds.Password,
		})
	}
	if err != nil {
		return nil, err
	}
	if result.Token == "" {
		msg := result.Message
		if msg == "" {
			msg = "credential exchange failed"
		}
		return nil, &domain.BackendError{Status: http.StatusUnprocessableEntity, Message: msg}
	}
	return result, nil
}

func (s *AuthFlowService) acceptExchange(flow *domain.AuthFlow, result *ports.AuthResult) {
	user := result.User
	flow.ExchangeToken = result.Token
	flow.Provisional = &user
}

// acquire takes the in-flight mark for the session's flow. A guard failure is
// logged and the request goes ahead: the mark only mirrors a disabled button.
func (s *AuthFlowService) acquire(ctx context.Context, sid string) (func(), error) {
	ok, err := s.guard.Acquire(ctx, sid)
	if err != nil {
		s.log.Warn().Err(err).Str("session_id", sid).Msg("in-flight guard unavailable, proceeding")
		return func() {}, nil
	}
	if !ok {
		return nil, domain.ErrRequestPending
	}
	return func() {
		if err := s.guard.Release(context.WithoutCancel(ctx), sid); err != nil {
			s.log.Warn().Err(err).Str("session_id", sid).Msg("failed to release in-flight guard")
		}
	}, nil
}

// save persists flow after a failed request. The request error wins over a
// storage error, which is only logged.
func (s *AuthFlowService) save(ctx context.Context, flow *domain.AuthFlow) {
	flow.UpdatedAt = s.now()
	if err := s.flows.Save(ctx, flow); err != nil {
		s.log.Warn().Err(err).Str("session_id", flow.SessionID).Msg("failed to save auth flow")
	}
}

func (s *AuthFlowService) record(ctx context.Context, flow *domain.AuthFlow, event, reason string) {
	metrics.AuthFlowEventsTotal.WithLabelValues(string(flow.Mode), event).Inc()

	err := s.audit.Record(ctx, domain.AuthEvent{
		SessionID: flow.SessionID,
		Mode:      flow.Mode,
		Event:     event,
		Phone:     domain.MaskPhone(flow.Credentials.PhoneNumber),
		Reason:    reason,
		At:        s.now().UTC(),
	})
	if err != nil {
		s.log.Warn().Err(err).Str("session_id", flow.SessionID).Str("event", event).Msg("failed to record auth event")
	}
}

func (s *AuthFlowService) view(ctx context.Context, flow *domain.AuthFlow) *ports.FlowView {
	now := s.now()
	pending, err := s.guard.Pending(ctx, flow.SessionID)
	if err != nil {
		pending = false
	}
	return &ports.FlowView{
		Mode:        flow.Mode,
		Step:        flow.Step,
		PhoneNumber: flow.Credentials.PhoneNumber,
		FirstName:   flow.Credentials.FirstName,
		LastName:    flow.Credentials.LastName,
		Countdown:   flow.Countdown(now, s.cooldown),
		CanResend:   flow.CanResend(now, s.cooldown),
		Pending:     pending,
		Error:       flow.LastError,
	}
}

func (s *AuthFlowService) sessionLocale(ctx context.Context, sid string) string {
	sess, err := loadSession(ctx, s.sessions, sid)
	if err != nil || sess.Locale == "" {
		return s.locale
	}
	return sess.Locale
}

// errorMessage is the text shown to the user for a failed request. Backend
// messages pass through verbatim.
func errorMessage(err error) string {
	var be *domain.BackendError
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	if errors.Is(err, domain.ErrBackendUnavailable) {
		return domain.ErrBackendUnavailable.Error()
	}
	if errors.Is(err, domain.ErrOTPRejected) {
		return domain.ErrOTPRejected.Error()
	}
	return "request failed"
}
