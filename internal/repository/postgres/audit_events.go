package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oilslickpad/storeops/internal/domain"
)

type auditEventRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAuditEventRepository creates a new audit event repository
func NewAuditEventRepository(db *sql.DB, logger *zap.Logger) *auditEventRepository {
	return &auditEventRepository{
		db:     db,
		logger: logger,
	}
}

func (r *auditEventRepository) Record(ctx context.Context, event *domain.AuditEvent) error {
	query := `
		INSERT INTO audit_events (id, run_id, tool, subject, action, before_state, after_state, success, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	before, err := marshalState(event.Before)
	if err != nil {
		return err
	}
	after, err := marshalState(event.After)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query,
		event.ID,
		event.RunID,
		event.Tool,
		event.Subject,
		event.Action,
		before,
		after,
		event.Success,
		event.Error,
		event.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to record audit event", zap.Error(err), zap.String("subject", event.Subject))
		return err
	}
	return nil
}

func (r *auditEventRepository) ListByRun(ctx context.Context, runID uuid.UUID) ([]*domain.AuditEvent, error) {
	query := `
		SELECT id, run_id, tool, subject, action, before_state, after_state, success, error, created_at
		FROM audit_events
		WHERE run_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		r.logger.Error("Failed to list audit events by run", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *auditEventRepository) ListRecent(ctx context.Context, limit int) ([]*domain.AuditEvent, error) {
	query := `
		SELECT id, run_id, tool, subject, action, before_state, after_state, success, error, created_at
		FROM audit_events
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		r.logger.Error("Failed to list recent audit events", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]*domain.AuditEvent, error) {
	var events []*domain.AuditEvent
	for rows.Next() {
		var event domain.AuditEvent
		var before, after []byte
		var errMsg sql.NullString

		err := rows.Scan(
			&event.ID,
			&event.RunID,
			&event.Tool,
			&event.Subject,
			&event.Action,
			&before,
			&after,
			&event.Success,
			&errMsg,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if event.Before, err = unmarshalState(before); err != nil {
			return nil, err
		}
		if event.After, err = unmarshalState(after); err != nil {
			return nil, err
		}
		if errMsg.Valid {
			event.Error = &errMsg.String
		}
		events = append(events, &event)
	}
	return events, rows.Err()
}

func marshalState(state map[string]interface{}) ([]byte, error) {
	if state == nil {
		return nil, nil
	}
	return json.Marshal(state)
}

func unmarshalState(data []byte) (map[string]interface{}, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var state map[string]interface{}
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return state, nil
}
