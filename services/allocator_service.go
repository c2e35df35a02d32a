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

// AllocatorService assigns a free unit on a table to an arriving party.
// Capacity accounting and unit exclusivity are enforced inside a single
// transaction with the table row locked, so two concurrent requests for
// the same table serialize on that lock.
type AllocatorService struct {
	db *gorm.DB
}

func NewAllocatorService(db *gorm.DB) *AllocatorService {
	return &AllocatorService{db: db}
}

// Allocate seats a party of pax on any free unit of the table.
func (s *AllocatorService) Allocate(ctx context.Context, restaurantID, tableID uint, pax int) (*models.TableUnit, *models.TableSession, error) {
	return s.allocate(ctx, restaurantID, tableID, 0, pax)
}

// AllocateByToken resolves a scanned unit credential and seats the party
// on that unit's table, preferring the scanned unit if it is still free.
func (s *AllocatorService) AllocateByToken(ctx context.Context, token string, pax int) (*models.TableUnit, *models.TableSession, error) {
	if token == "" {
		return nil, nil, fmt.Errorf("%w: empty token", ErrInvalidInput)
	}

	var unit models.TableUnit
	if err := s.db.WithContext(ctx).
		Where("qr_token = ?", token).First(&unit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to resolve token: %w", mapStoreErr(err))
	}

	var table models.Table
	if err := s.db.WithContext(ctx).First(&table, unit.TableID).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load table: %w", mapStoreErr(err))
	}

	return s.allocate(ctx, table.RestaurantID, unit.TableID, unit.ID, pax)
}

func (s *AllocatorService) allocate(ctx context.Context, restaurantID, tableID, preferredUnitID uint, pax int) (*models.TableUnit, *models.TableSession, error) {
	if pax <= 0 {
		return nil, nil, fmt.Errorf("%w: pax must be positive", ErrInvalidInput)
	}

	ctx, cancel := withDeadline(ctx)
	defer cancel()

	var (
		unit    models.TableUnit
		session models.TableSession
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The table row lock serializes every allocation, pax change
		// and closure touching this table.
		var table models.Table
		if err := lockForUpdate(tx).
			Where("id = ? AND restaurant_id = ?", tableID, restaurantID).
			First(&table).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		used, err := activeSessionPax(tx, table.ID, 0)
		if err != nil {
			return err
		}
		if used+int64(pax) > int64(table.SeatCount) {
			return ErrCapacityExceeded
		}

		if err := s.pickFreeUnit(tx, table.ID, preferredUnitID, &unit); err != nil {
			return err
		}

		var restaurant models.Restaurant
		if err := tx.First(&restaurant, table.RestaurantID).Error; err != nil {
			return err
		}

		// Dynamic policy: rotate the credential in the same transaction
		// that creates the session, invalidating the previous diner's
		// token the moment the new session exists. Static policy keeps
		// the token fixed at its table-creation value.
		if restaurant.RegenerateQRPerSession {
			token, err := utils.GenerateQRToken()
			if err != nil {
				return err
			}
			if err := tx.Model(&models.TableUnit{}).
				Where("id = ?", unit.ID).
				Update("qr_token", token).Error; err != nil {
				return err
			}
			unit.QRToken = &token
		}

		session = models.TableSession{
			TableID:   table.ID,
			UnitID:    unit.ID,
			Pax:       pax,
			StartedAt: time.Now(),
		}
		if err := tx.Create(&session).Error; err != nil {
			return err
		}

		return tx.Model(&models.Table{}).
			Where("id = ?", table.ID).
			Update("available", false).Error
	})
	if err != nil {
		if isEngineErr(err) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("allocation failed: %w", mapStoreErr(err))
	}

	utils.InfoLogger.Printf("Session %d started on unit %s (table %d, pax=%d)",
		session.ID, unit.UnitCode, session.TableID, pax)

	return &unit, &session, nil
}

// pickFreeUnit selects the first unit with no active session, ordered by
// unit code so the choice is deterministic. A preferred unit wins when
// it is still free.
func (s *AllocatorService) pickFreeUnit(tx *gorm.DB, tableID, preferredUnitID uint, unit *models.TableUnit) error {
	occupied := tx.Model(&models.TableSession{}).
		Select("unit_id").
		Where("table_id = ? AND ended_at IS NULL", tableID)

	if preferredUnitID != 0 {
		err := tx.Where("id = ? AND table_id = ? AND id NOT IN (?)", preferredUnitID, tableID, occupied).
			First(unit).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		// Scanned unit is taken; fall through to any free unit.
		occupied = tx.Model(&models.TableSession{}).
			Select("unit_id").
			Where("table_id = ? AND ended_at IS NULL", tableID)
	}

	err := tx.Where("table_id = ? AND id NOT IN (?)", tableID, occupied).
		Order("unit_code ASC").
		First(unit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNoFreeUnit
	}
	return err
}

// isEngineErr reports whether err is one of the engine sentinels that
// must pass through to the caller unwrapped.
func isEngineErr(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrCapacityExceeded) ||
		errors.Is(err, ErrNoFreeUnit) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAlreadyClosed) ||
		errors.Is(err, ErrBusy)
}
