package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/lotline/internal/db"
	"github.com/alexanderramin/lotline/internal/domain"
)

// SQLiteStageRepo implements StageRepo using a SQLite database.
type SQLiteStageRepo struct {
	db db.DBTX
}

// NewSQLiteStageRepo creates a new SQLiteStageRepo.
func NewSQLiteStageRepo(conn db.DBTX) *SQLiteStageRepo {
	return &SQLiteStageRepo{db: conn}
}

const stageColumns = `id, project_id, name, key, order_index, is_protected, is_terminal`

// Create inserts the stage. A name, key or order collision inside the project
// is reported as domain.ErrDuplicateStage.
func (r *SQLiteStageRepo) Create(ctx context.Context, s *domain.Stage) error {
	query := `INSERT INTO stages (` + stageColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.ProjectID, s.Name, s.Key, s.Order,
		boolToInt(s.IsProtected), boolToInt(s.IsTerminal),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("stage %q at order %d: %w", s.Name, s.Order, domain.ErrDuplicateStage)
		}
		return fmt.Errorf("inserting stage: %w", err)
	}
	return nil
}

func (r *SQLiteStageRepo) GetByID(ctx context.Context, id string) (*domain.Stage, error) {
	query := `SELECT ` + stageColumns + ` FROM stages WHERE id = ?`
	return scanStage(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteStageRepo) GetByKey(ctx context.Context, projectID, key string) (*domain.Stage, error) {
	query := `SELECT ` + stageColumns + ` FROM stages WHERE project_id = ? AND key = ?`
	return scanStage(r.db.QueryRowContext(ctx, query, projectID, domain.StageKey(key)))
}

func (r *SQLiteStageRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Stage, error) {
	query := `SELECT ` + stageColumns + ` FROM stages WHERE project_id = ? ORDER BY order_index`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing stages: %w", err)
	}
	defer rows.Close()

	var stages []*domain.Stage
	for rows.Next() {
		s, err := scanStage(rows)
		if err != nil {
			return nil, err
		}
		stages = append(stages, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stages: %w", err)
	}
	return stages, nil
}

// Delete removes the stage; issues at it are removed by ON DELETE CASCADE.
func (r *SQLiteStageRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM stages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting stage: %w", err)
	}
	return nil
}

func scanStage(row scanner) (*domain.Stage, error) {
	var s domain.Stage
	var protected, terminal int
	err := row.Scan(&s.ID, &s.ProjectID, &s.Name, &s.Key, &s.Order, &protected, &terminal)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("stage: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning stage: %w", err)
	}
	s.IsProtected = intToBool(protected)
	s.IsTerminal = intToBool(terminal)
	return &s, nil
}
