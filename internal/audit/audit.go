// Package audit records who did what, when, into the append-only audit log.
package audit

import (
	"context"
	"log/slog"

	"invtrack/internal/domain"
	"invtrack/internal/store"
)

// Recorder appends audit records and mirrors them to the structured logger.
//
// Order creation does not go through the Recorder: the storage gateway writes
// those audit rows inside the order transaction so the record commits
// atomically with the ledger row.
type Recorder struct {
	store store.AuditStore
	log   *slog.Logger
}

// NewRecorder creates a Recorder backed by the given audit store.
func NewRecorder(s store.AuditStore, log *slog.Logger) *Recorder {
	return &Recorder{store: s, log: log}
}

// Record appends one audit record.
func (r *Recorder) Record(ctx context.Context, actor, action, details string) error {
	e := &domain.AuditEntry{Actor: actor, Action: action, Details: details}
	if err := r.store.AppendAudit(ctx, e); err != nil {
		r.log.Error("appending audit record", "action", action, "actor", actor, "error", err)
		return err
	}
	r.log.Info("audit", "action", action, "actor", actor, "details", details)
	return nil
}

// Recent returns the most recent audit records, up to limit.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	return r.store.RecentAudit(ctx, limit)
}
