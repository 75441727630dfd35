package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/greenhaven/storefront/internal/core/domain"
)

func testNow() time.Time {
	return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
}

func TestProfileService_PurchasesPaging(t *testing.T) {
	backend := &stubProfileBackend{}
	svc := NewProfileService(backend, newMemCache(), &syncInvalidator{}, 0, zerolog.Nop())
	ctx := context.Background()

	page, err := svc.Purchases(ctx, testSID, domain.ListParams{Search: " fern "})
	if err != nil {
		t.Fatalf("Purchases returned error: %v", err)
	}
	if page.Count != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if backend.lastParams.Page != 1 || backend.lastParams.Limit != DefaultRowsPerPage || backend.lastParams.Search != "fern" {
		t.Fatalf("unexpected paging: %+v", backend.lastParams)
	}

	_, _ = svc.Purchases(ctx, testSID, domain.ListParams{Page: 1, Search: "fern"})
	if backend.purchaseCalls != 1 {
		t.Fatalf("expected same page served from cache, got %d calls", backend.purchaseCalls)
	}
	_, _ = svc.Purchases(ctx, testSID, domain.ListParams{Page: 2})
	if backend.purchaseCalls != 2 {
		t.Fatalf("expected new page fetched, got %d calls", backend.purchaseCalls)
	}
}

func TestProfileService_PostReview(t *testing.T) {
	backend := &stubProfileBackend{}
	inv := &syncInvalidator{}
	svc := NewProfileService(backend, newMemCache(), inv, 0, zerolog.Nop())
	ctx := context.Background()

	err := svc.PostReview(ctx, testSID, domain.ReviewInput{Product: "p1", Rating: 0})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Fields["rating"] == "" || verr.Fields["review"] == "" {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(backend.reviews) != 0 {
		t.Fatalf("invalid review must not reach the backend")
	}

	in := domain.ReviewInput{Product: "p1", Title: "Nice", Rating: 5, Review: "Grows fast", IsRecommended: true}
	if err := svc.PostReview(ctx, testSID, in); err != nil {
		t.Fatalf("PostReview returned error: %v", err)
	}
	for _, key := range []domain.QueryKey{domain.KeyReviews, domain.ProductReviewsKey("p1"), domain.ProductKey("p1")} {
		if !inv.invalidated(key) {
			t.Fatalf("expected %v invalidated", key)
		}
	}
}

func TestProfileService_Addresses(t *testing.T) {
	backend := &stubProfileBackend{}
	inv := &syncInvalidator{}
	svc := NewProfileService(backend, newMemCache(), inv, 5, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.Addresses(ctx, testSID, domain.ListParams{}); err != nil {
		t.Fatalf("Addresses returned error: %v", err)
	}
	if backend.lastParams.Limit != 5 {
		t.Fatalf("expected configured page size, got %d", backend.lastParams.Limit)
	}
	if err := svc.CreateAddress(ctx, testSID, domain.AddressInput{Address: "1 Main", City: "Tashkent"}); err != nil {
		t.Fatalf("CreateAddress returned error: %v", err)
	}
	if err := svc.SetDefaultAddress(ctx, testSID, "a1", true); err != nil {
		t.Fatalf("SetDefaultAddress returned error: %v", err)
	}
	if err := svc.DeleteAddress(ctx, testSID, "a1"); err != nil {
		t.Fatalf("DeleteAddress returned error: %v", err)
	}
	if !backend.defaults["a1"] || len(backend.deleted) != 1 || len(backend.addresses) != 1 {
		t.Fatalf("unexpected backend calls: %+v", backend)
	}
	if len(inv.keys) != 3 {
		t.Fatalf("expected three [addresses] invalidations, got %v", inv.keys)
	}

	backend.err = &domain.BackendError{Status: 404, Message: "Address not found"}
	if err := svc.DeleteAddress(ctx, testSID, "zz"); err == nil {
		t.Fatalf("expected backend error")
	}
	if len(inv.keys) != 3 {
		t.Fatalf("failed mutation must not invalidate")
	}
}
