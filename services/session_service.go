package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ddaazzz/qr-restaurant-sub000/models"
	"github.com/ddaazzz/qr-restaurant-sub000/utils"
)

// SessionService owns the session lifecycle outside of allocation and
// billed closure: party-size changes and staff-forced termination.
type SessionService struct {
	db *gorm.DB
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{db: db}
}

// GetSession loads one session with its orders.
func (s *SessionService) GetSession(ctx context.Context, sessionID uint) (*models.TableSession, error) {
	var session models.TableSession
	err := s.db.WithContext(ctx).
		Preload("Orders.Items").
		First(&session, sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", mapStoreErr(err))
	}
	return &session, nil
}

// ModifyPax changes an active session's party size, re-validating table
// capacity without the session's own previous contribution.
func (s *SessionService) ModifyPax(ctx context.Context, sessionID uint, newPax int) (*models.TableSession, error) {
	if newPax <= 0 {
		return nil, fmt.Errorf("%w: pax must be positive", ErrInvalidInput)
	}

	ctx, cancel := withDeadline(ctx)
	defer cancel()

	var session models.TableSession

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&session, sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		// Same lock order as the allocator: table row first.
		var table models.Table
		if err := lockForUpdate(tx).First(&table, session.TableID).Error; err != nil {
			return err
		}

		// Re-read under the table lock; the session may have been
		// closed while we waited.
		if err := lockForUpdate(tx).First(&session, sessionID).Error; err != nil {
			return err
		}
		if !session.IsActive() {
			return ErrAlreadyClosed
		}

		used, err := activeSessionPax(tx, table.ID, session.ID)
		if err != nil {
			return err
		}
		if used+int64(newPax) > int64(table.SeatCount) {
			return ErrCapacityExceeded
		}

		session.Pax = newPax
		return tx.Model(&models.TableSession{}).
			Where("id = ?", session.ID).
			Update("pax", newPax).Error
	})
	if err != nil {
		if isEngineErr(err) {
			return nil, err
		}
		return nil, fmt.Errorf("pax update failed: %w", mapStoreErr(err))
	}

	return &session, nil
}

// EndSession force-terminates a session without billing (no-show or
// abandoned table). Payment fields stay untouched and no closure audit
// record is written.
func (s *SessionService) EndSession(ctx context.Context, sessionID uint, staffID uint) (*models.TableSession, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	var session models.TableSession

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&session, sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var table models.Table
		if err := lockForUpdate(tx).First(&table, session.TableID).Error; err != nil {
			return err
		}

		if err := lockForUpdate(tx).First(&session, sessionID).Error; err != nil {
			return err
		}
		if !session.IsActive() {
			return ErrAlreadyClosed
		}

		now := time.Now()
		session.EndedAt = &now
		if staffID != 0 {
			session.ClosedByStaffID = &staffID
		}

		updates := map[string]interface{}{
			"ended_at":           now,
			"closed_by_staff_id": session.ClosedByStaffID,
		}
		if err := tx.Model(&models.TableSession{}).
			Where("id = ?", session.ID).
			Updates(updates).Error; err != nil {
			return err
		}

		return refreshTableAvailability(tx, table.ID)
	})
	if err != nil {
		if isEngineErr(err) {
			return nil, err
		}
		return nil, fmt.Errorf("end session failed: %w", mapStoreErr(err))
	}

	utils.InfoLogger.Printf("Session %d force-ended by staff %d", session.ID, staffID)

	return &session, nil
}
