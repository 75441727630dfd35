package ports

import (
	"context"

	"github.com/greenhaven/storefront/internal/core/domain"
)

// FlowStore keeps pending login/register flows.
type FlowStore interface {
	// Load returns domain.ErrFlowNotFound when the session has no open flow.
	Load(ctx context.Context, sid string) (*domain.AuthFlow, error)
	Save(ctx context.Context, flow *domain.AuthFlow) error
	Delete(ctx context.Context, sid string) error
}

// InFlightGuard marks a flow request as pending. It is a soft guard: the mark
// expires on its own if the holder never releases it.
type InFlightGuard interface {
	Acquire(ctx context.Context, sid string) (bool, error)
	Release(ctx context.Context, sid string) error
	Pending(ctx context.Context, sid string) (bool, error)
}

// AuthAuditLog appends flow transitions to the audit trail.
type AuthAuditLog interface {
	Record(ctx context.Context, event domain.AuthEvent) error
}
