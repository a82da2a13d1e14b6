package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/Mahmoudshahin94/webhook-event-service/internal/domain"
)

// ProcessRepo implements store.ProcessStore on Postgres.
type ProcessRepo struct {
	db  *sql.DB
	log *zap.Logger
}

// NewProcessRepo creates a new process repository.
func NewProcessRepo(client *Client, log *zap.Logger) *ProcessRepo {
	return &ProcessRepo{db: client.DB(), log: log}
}

// Upsert inserts the process or updates name and script if the code exists.
// Returns true if a new row was created.
func (r *ProcessRepo) Upsert(ctx context.Context, p *domain.Process) (bool, error) {
	const q = `
INSERT INTO processes (code, name, script)
VALUES ($1, $2, $3)
ON CONFLICT (code) DO UPDATE
SET name = EXCLUDED.name,
    script = EXCLUDED.script,
    updated_at = now()
RETURNING (xmax = 0);
`
	var created bool
	if err := r.db.QueryRowContext(ctx, q, p.Code, p.Name, p.Script).Scan(&created); err != nil {
		return false, fmt.Errorf("failed to upsert process: %w", err)
	}
	return created, nil
}

// List returns all processes ordered by code.
func (r *ProcessRepo) List(ctx context.Context) ([]*domain.Process, error) {
	const q = `
SELECT code, name, script, created_at, updated_at
FROM processes
ORDER BY code;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query processes: %w", err)
	}
	defer rows.Close()

	var processes []*domain.Process
	for rows.Next() {
		var p domain.Process
		if err := rows.Scan(&p.Code, &p.Name, &p.Script, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan process: %w", err)
		}
		processes = append(processes, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate processes: %w", err)
	}
	return processes, nil
}
