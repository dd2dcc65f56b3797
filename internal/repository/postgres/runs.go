package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oilslickpad/storeops/internal/domain"
	"github.com/oilslickpad/storeops/pkg/errors"
)

type runRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRunRepository creates a new tool run repository
func NewRunRepository(db *sql.DB, logger *zap.Logger) *runRepository {
	return &runRepository{
		db:     db,
		logger: logger,
	}
}

func (r *runRepository) Start(ctx context.Context, run *domain.Run) error {
	query := `
		INSERT INTO tool_runs (id, tool, dry_run, started_at)
		VALUES ($1, $2, $3, $4)
	`
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query, run.ID, run.Tool, run.DryRun, run.StartedAt)
	if err != nil {
		r.logger.Error("Failed to record tool run", zap.Error(err), zap.String("tool", run.Tool))
		return err
	}
	return nil
}

func (r *runRepository) Finish(ctx context.Context, id uuid.UUID, summary map[string]interface{}) error {
	query := `
		UPDATE tool_runs
		SET finished_at = $2, summary = $3
		WHERE id = $1
	`
	data, err := marshalState(summary)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query, id, time.Now(), data)
	if err != nil {
		r.logger.Error("Failed to finish tool run", zap.Error(err))
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &errors.ErrNotFound{Resource: "tool run", ID: id.String()}
	}
	return nil
}

func (r *runRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Run, error) {
	query := `
		SELECT id, tool, dry_run, started_at, finished_at, summary
		FROM tool_runs
		ORDER BY started_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		r.logger.Error("Failed to list tool runs", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var runs []*domain.Run
	for rows.Next() {
		var run domain.Run
		var finished sql.NullTime
		var summary []byte
		if err := rows.Scan(&run.ID, &run.Tool, &run.DryRun, &run.StartedAt, &finished, &summary); err != nil {
			return nil, err
		}
		if finished.Valid {
			run.FinishedAt = &finished.Time
		}
		if run.Summary, err = unmarshalState(summary); err != nil {
			return nil, err
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}
