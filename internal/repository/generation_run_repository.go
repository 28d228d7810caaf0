package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/horarios/sgh-api/internal/models"
)

const generationRunColumns = "id, executed_by, executed_at, status, total_generated, message, period_start, period_end, dry_run, force_flag, params"

// GenerationRunRepository persists the schedule_history audit trail.
type GenerationRunRepository struct {
	db *sqlx.DB
}

// NewGenerationRunRepository constructs the repository.
func NewGenerationRunRepository(db *sqlx.DB) *GenerationRunRepository {
	return &GenerationRunRepository{db: db}
}

func (r *GenerationRunRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// AcquireLock blocks until the transaction-scoped advisory lock is held. It is
// released automatically on commit or rollback.
func (r *GenerationRunRepository) AcquireLock(ctx context.Context, exec sqlx.ExtContext, key int64) error {
	if _, err := r.exec(exec).ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, key); err != nil {
		return fmt.Errorf("acquire generation lock: %w", err)
	}
	return nil
}

// Savepoint marks a point the transaction can roll back to.
func (r *GenerationRunRepository) Savepoint(ctx context.Context, exec sqlx.ExtContext, name string) error {
	if _, err := r.exec(exec).ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return fmt.Errorf("create savepoint %s: %w", name, err)
	}
	return nil
}

// RollbackToSavepoint discards work done after the savepoint.
func (r *GenerationRunRepository) RollbackToSavepoint(ctx context.Context, exec sqlx.ExtContext, name string) error {
	if _, err := r.exec(exec).ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); err != nil {
		return fmt.Errorf("rollback to savepoint %s: %w", name, err)
	}
	return nil
}

// Create inserts a run, assigning id and execution time when absent.
func (r *GenerationRunRepository) Create(ctx context.Context, exec sqlx.ExtContext, run *models.GenerationRun) error {
	if run == nil {
		return fmt.Errorf("generation run payload is nil")
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.ExecutedAt.IsZero() {
		run.ExecutedAt = time.Now().UTC()
	}
	if run.Status == "" {
		run.Status = models.GenerationStatusRunning
	}

	const query = `INSERT INTO schedule_history (id, executed_by, executed_at, status, total_generated, message, period_start, period_end, dry_run, force_flag, params)
VALUES (:id, :executed_by, :executed_at, :status, :total_generated, :message, :period_start, :period_end, :dry_run, :force_flag, :params)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, run); err != nil {
		return fmt.Errorf("insert generation run: %w", err)
	}
	return nil
}

// Finalize writes the terminal status, count and message. Only RUNNING rows move.
func (r *GenerationRunRepository) Finalize(ctx context.Context, exec sqlx.ExtContext, run *models.GenerationRun) error {
	if run == nil {
		return fmt.Errorf("generation run payload is nil")
	}
	if !run.Status.Terminal() {
		return fmt.Errorf("finalize generation run: status %s is not terminal", run.Status)
	}

	const query = `UPDATE schedule_history SET status = $1, total_generated = $2, message = $3 WHERE id = $4 AND status = $5`
	result, err := r.exec(exec).ExecContext(ctx, query, run.Status, run.TotalGenerated, run.Message, run.ID, models.GenerationStatusRunning)
	if err != nil {
		return fmt.Errorf("finalize generation run: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("generation run rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List returns a page of runs, newest first, with the total count.
func (r *GenerationRunRepository) List(ctx context.Context, page, size int) ([]models.GenerationRun, int, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 10
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s FROM schedule_history ORDER BY executed_at DESC LIMIT %d OFFSET %d", generationRunColumns, size, offset)
	var runs []models.GenerationRun
	if err := r.db.SelectContext(ctx, &runs, query); err != nil {
		return nil, 0, fmt.Errorf("list generation runs: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM schedule_history"); err != nil {
		return nil, 0, fmt.Errorf("count generation runs: %w", err)
	}
	return runs, total, nil
}
