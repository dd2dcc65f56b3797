// Package memory keeps the audit trail in process when no database is configured.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oilslickpad/storeops/internal/domain"
	"github.com/oilslickpad/storeops/internal/repository"
	"github.com/oilslickpad/storeops/pkg/errors"
)

type auditEventRepository struct {
	mu     sync.RWMutex
	events []*domain.AuditEvent
}

// NewAuditEventRepository creates an in-process audit event store
func NewAuditEventRepository() *auditEventRepository {
	return &auditEventRepository{}
}

func (r *auditEventRepository) Record(_ context.Context, event *domain.AuditEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	copied := *event
	r.mu.Lock()
	r.events = append(r.events, &copied)
	r.mu.Unlock()
	return nil
}

func (r *auditEventRepository) ListByRun(_ context.Context, runID uuid.UUID) ([]*domain.AuditEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.AuditEvent
	for _, e := range r.events {
		if e.RunID == runID {
			copied := *e
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *auditEventRepository) ListRecent(_ context.Context, limit int) ([]*domain.AuditEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.AuditEvent, 0, len(r.events))
	for i := len(r.events) - 1; i >= 0; i-- {
		copied := *r.events[i]
		out = append(out, &copied)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type runRepository struct {
	mu   sync.RWMutex
	runs []*domain.Run
}

// NewRunRepository creates an in-process tool run store
func NewRunRepository() *runRepository {
	return &runRepository{}
}

func (r *runRepository) Start(_ context.Context, run *domain.Run) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	copied := *run
	r.mu.Lock()
	r.runs = append(r.runs, &copied)
	r.mu.Unlock()
	return nil
}

func (r *runRepository) Finish(_ context.Context, id uuid.UUID, summary map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, run := range r.runs {
		if run.ID == id {
			now := time.Now()
			run.FinishedAt = &now
			run.Summary = summary
			return nil
		}
	}
	return &errors.ErrNotFound{Resource: "tool run", ID: id.String()}
}

func (r *runRepository) ListRecent(_ context.Context, limit int) ([]*domain.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Run, 0, len(r.runs))
	for i := len(r.runs) - 1; i >= 0; i-- {
		copied := *r.runs[i]
		out = append(out, &copied)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// NewRepositories creates a set of in-process repositories
func NewRepositories() *repository.Repositories {
	return &repository.Repositories{
		Audit: NewAuditEventRepository(),
		Run:   NewRunRepository(),
	}
}
