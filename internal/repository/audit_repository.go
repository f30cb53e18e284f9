package repository

import (
	"context"
	"fmt"

	"github.com/caicai-studio/atelier/internal/domain"
	"github.com/caicai-studio/atelier/internal/port"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type auditRepository struct {
	db DBTX
}

func NewAudit(pool *pgxpool.Pool) port.AuditRepository {
	return &auditRepository{db: pool}
}

func NewAuditWithTx(tx pgx.Tx) port.AuditRepository {
	return &auditRepository{db: tx}
}

func (r *auditRepository) Record(ctx context.Context, name, email, action string) error {
	if action == "" {
		return fmt.Errorf("action is empty")
	}

	if _, err := r.db.Exec(ctx,
		`INSERT INTO audit_log (name, email, action) VALUES ($1, $2, $3)`,
		name, email, action); err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	return nil
}

func (r *auditRepository) ListEntries(ctx context.Context, name string) ([]domain.AuditEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, email, action, created_at
		 FROM audit_log
		 WHERE ($1 = '' OR name = $1)
		 ORDER BY created_at DESC, id DESC`, name)
	if err != nil {
		return nil, fmt.Errorf("db.Query: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var entry domain.AuditEntry
		if err := rows.Scan(&entry.ID, &entry.Name, &entry.Email, &entry.Action, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return entries, nil
}
