package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ddaazzz/qr-restaurant-sub000/models"
)

// defaultOpTimeout bounds how long an engine operation may wait on row
// locks before failing with ErrBusy.
const defaultOpTimeout = 5 * time.Second

// withDeadline returns ctx unchanged when the caller already set a
// deadline, otherwise applies the engine default.
func withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, defaultOpTimeout)
}

// lockForUpdate adds FOR UPDATE to the query. SQLite has no row locks;
// its single-writer transactions already serialize, so the clause is
// skipped there (it would be a syntax error).
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// mapStoreErr folds driver-specific contention failures into ErrBusy and
// missing rows into ErrNotFound. Everything else passes through for the
// caller to wrap.
func mapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrBusy
	}
	msg := err.Error()
	if strings.Contains(msg, "Lock wait timeout") ||
		strings.Contains(msg, "Deadlock found") ||
		strings.Contains(msg, "database is locked") {
		return ErrBusy
	}
	return err
}

// activeSessionPax sums the pax of a table's active sessions, optionally
// excluding one session (used when re-validating a pax change).
func activeSessionPax(tx *gorm.DB, tableID uint, excludeSessionID uint) (int64, error) {
	var used int64
	q := tx.Model(&models.TableSession{}).
		Where("table_id = ? AND ended_at IS NULL", tableID)
	if excludeSessionID != 0 {
		q = q.Where("id <> ?", excludeSessionID)
	}
	if err := q.Select("COALESCE(SUM(pax), 0)").Scan(&used).Error; err != nil {
		return 0, err
	}
	return used, nil
}

// refreshTableAvailability recomputes the Available convenience flag
// from the presence of active sessions. It is never consulted for
// allocation decisions.
func refreshTableAvailability(tx *gorm.DB, tableID uint) error {
	var active int64
	if err := tx.Model(&models.TableSession{}).
		Where("table_id = ? AND ended_at IS NULL", tableID).
		Count(&active).Error; err != nil {
		return err
	}
	return tx.Model(&models.Table{}).
		Where("id = ?", tableID).
		Update("available", active == 0).Error
}
