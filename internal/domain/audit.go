package domain

import "time"

// AuditEntry is an append-only record of a state-changing action. Entries are
// never updated or deleted.
type AuditEntry struct {
	ID        int64
	Name      string
	Email     string
	Action    string
	CreatedAt time.Time
}
