package port

import (
	"context"

	"github.com/caicai-studio/atelier/internal/domain"
)

// AuditRepository is an append-only sink, there is no update or delete.
type AuditRepository interface {
	Record(ctx context.Context, name, email, action string) error

	ListEntries(ctx context.Context, name string) ([]domain.AuditEntry, error)
}
