package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/greenhaven/storefront/internal/core/domain"
)

func TestMerchantService_ApplyNormalizesPhone(t *testing.T) {
	backend := &stubMerchantBackend{}
	svc := NewMerchantService(backend, zerolog.Nop())

	_, err := svc.Apply(context.Background(), testSID, domain.MerchantApplication{
		Name: " Ali ", PhoneNumber: "+998 (90) 111-22-33", BrandName: "Fern & Co", Business: "Plants",
	})
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if backend.application.PhoneNumber != "998901112233" || backend.application.Name != "Ali" {
		t.Fatalf("unexpected application: %+v", backend.application)
	}
}

func TestMerchantService_SignUp(t *testing.T) {
	backend := &stubMerchantBackend{}
	svc := NewMerchantService(backend, zerolog.Nop())
	ctx := context.Background()

	err := svc.SignUp(ctx, testSID, " ", domain.MerchantSignup{})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error for missing token, got %v", err)
	}

	if err := svc.SignUp(ctx, testSID, "invite-1", domain.MerchantSignup{FirstName: "A", PhoneNumber: "90 123", Password: "pw"}); err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}
	if backend.signupToken != "invite-1" || backend.signup.PhoneNumber != "90123" {
		t.Fatalf("unexpected signup call: %s %+v", backend.signupToken, backend.signup)
	}
}
