package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/oilslickpad/storeops/internal/domain"
)

// AuditRepository records every write a tool performs against the store
type AuditRepository interface {
	Record(ctx context.Context, event *domain.AuditEvent) error
	ListByRun(ctx context.Context, runID uuid.UUID) ([]*domain.AuditEvent, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.AuditEvent, error)
}

// RunRepository records tool invocations and their summary counts
type RunRepository interface {
	Start(ctx context.Context, run *domain.Run) error
	Finish(ctx context.Context, id uuid.UUID, summary map[string]interface{}) error
	ListRecent(ctx context.Context, limit int) ([]*domain.Run, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Audit AuditRepository
	Run   RunRepository
}
