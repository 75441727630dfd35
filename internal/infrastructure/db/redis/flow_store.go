package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/greenhaven/storefront/internal/core/domain"
)

// DefaultFlowTTL bounds how long an abandoned login form survives.
const DefaultFlowTTL = 15 * time.Minute

// Sealer encrypts the retained password.
type Sealer interface {
	Seal(plaintext, aad string) (string, error)
	Open(sealed, aad string) (string, error)
}

// flowRecord is the stored shape of a pending flow. The password is sealed
// with the session id as associated data.
type flowRecord struct {
	Mode           domain.FlowMode `json:"mode"`
	Step           domain.FlowStep `json:"step"`
	PhoneNumber    string          `json:"phone_number"`
	SealedPassword string          `json:"sealed_password,omitempty"`
	FirstName      string          `json:"first_name,omitempty"`
	LastName       string          `json:"last_name,omitempty"`
	ExchangeToken  string          `json:"exchange_token,omitempty"`
	Provisional    *domain.User    `json:"provisional,omitempty"`
	CountdownFrom  time.Time       `json:"countdown_from,omitempty"`
	LastError      string          `json:"last_error,omitempty"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// FlowStore keeps pending auth flows.
// Key format: flow:<sid>
type FlowStore struct {
	client *redis.Client
	sealer Sealer
	ttl    time.Duration
}

func NewFlowStore(client *redis.Client, sealer Sealer, ttl time.Duration) *FlowStore {
	if ttl <= 0 {
		ttl = DefaultFlowTTL
	}
	return &FlowStore{client: client, sealer: sealer, ttl: ttl}
}

func (s *FlowStore) Load(ctx context.Context, sid string) (*domain.AuthFlow, error) {
	raw, err := s.client.Get(ctx, s.key(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrFlowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("flow load: %w", err)
	}

	var rec flowRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("flow decode: %w", err)
	}

	var password string
	if rec.SealedPassword != "" {
		password, err = s.sealer.Open(rec.SealedPassword, sid)
		if err != nil {
			return nil, fmt.Errorf("flow password: %w", err)
		}
	}

	return &domain.AuthFlow{
		SessionID: sid,
		Mode:      rec.Mode,
		Step:      rec.Step,
		Credentials: domain.Credentials{
			PhoneNumber: rec.PhoneNumber,
			Password:    password,
			FirstName:   rec.FirstName,
			LastName:    rec.LastName,
		},
		ExchangeToken: rec.ExchangeToken,
		Provisional:   rec.Provisional,
		CountdownFrom: rec.CountdownFrom,
		LastError:     rec.LastError,
		UpdatedAt:     rec.UpdatedAt,
	}, nil
}

// Save writes the flow and restarts its TTL.
func (s *FlowStore) Save(ctx context.Context, flow *domain.AuthFlow) error {
	rec := flowRecord{
		Mode:          flow.Mode,
		Step:          flow.Step,
		PhoneNumber:   flow.Credentials.PhoneNumber,
		FirstName:     flow.Credentials.FirstName,
		LastName:      flow.Credentials.LastName,
		ExchangeToken: flow.ExchangeToken,
		Provisional:   flow.Provisional,
		CountdownFrom: flow.CountdownFrom,
		LastError:     flow.LastError,
		UpdatedAt:     flow.UpdatedAt,
	}
	if flow.Credentials.Password != "" {
		sealed, err := s.sealer.Seal(flow.Credentials.Password, flow.SessionID)
		if err != nil {
			return fmt.Errorf("flow save: %w", err)
		}
		rec.SealedPassword = sealed
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("flow encode: %w", err)
	}
	if err := s.client.Set(ctx, s.key(flow.SessionID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("flow save: %w", err)
	}
	return nil
}

func (s *FlowStore) Delete(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, s.key(sid)).Err(); err != nil {
		return fmt.Errorf("flow delete: %w", err)
	}
	return nil
}

func (s *FlowStore) key(sid string) string {
	return buildKey("flow", sid)
}
