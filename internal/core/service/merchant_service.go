package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/greenhaven/storefront/internal/core/domain"
	"github.com/greenhaven/storefront/internal/core/ports"
)

type MerchantService struct {
	backend ports.MerchantBackend
	log     zerolog.Logger
}

func NewMerchantService(backend ports.MerchantBackend, log zerolog.Logger) *MerchantService {
	return &MerchantService{backend: backend, log: log}
}

// Apply submits a "become a seller" request. The phone is sent as digits only.
func (s *MerchantService) Apply(ctx context.Context, sid string, in domain.MerchantApplication) (*domain.MerchantApplication, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.BrandName = strings.TrimSpace(in.BrandName)
	in.Business = strings.TrimSpace(in.Business)
	in.PhoneNumber = domain.NormalizePhone(in.PhoneNumber)

	out, err := s.backend.CreateMerchant(ctx, sid, in)
	if err != nil {
		return nil, fmt.Errorf("merchant application: %w", err)
	}
	s.log.Info().Str("session_id", sid).Str("brand", in.BrandName).Msg("merchant application submitted")
	return out, nil
}

// SignUp completes an invited merchant account.
func (s *MerchantService) SignUp(ctx context.Context, sid, token string, in domain.MerchantSignup) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return &domain.ValidationError{Fields: map[string]string{"token": "This field cannot be empty"}}
	}
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.PhoneNumber = domain.NormalizePhone(in.PhoneNumber)

	if err := s.backend.SignUpMerchant(ctx, sid, token, in); err != nil {
		return fmt.Errorf("merchant signup: %w", err)
	}
	s.log.Info().Str("session_id", sid).Msg("merchant account created")
	return nil
}
