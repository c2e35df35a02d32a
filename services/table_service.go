package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ddaazzz/qr-restaurant-sub000/models"
	"github.com/ddaazzz/qr-restaurant-sub000/utils"
)

// UnitInput describes one occupancy slot on a new table.
type UnitInput struct {
	UnitCode    string `json:"unit_code" binding:"required"`
	DisplayName string `json:"display_name"`
}

// TableService creates tables with their units and applies the initial
// credential policy: static restaurants get a token per unit right away,
// dynamic restaurants leave it empty until the first allocation rotates
// one in.
type TableService struct {
	db *gorm.DB
}

func NewTableService(db *gorm.DB) *TableService {
	return &TableService{db: db}
}

func (s *TableService) CreateTable(ctx context.Context, restaurantID uint, name, category string, seatCount int, units []UnitInput) (*models.Table, error) {
	if name == "" || seatCount <= 0 || len(units) == 0 {
		return nil, fmt.Errorf("%w: table needs a name, positive seat count and at least one unit", ErrInvalidInput)
	}
	seen := make(map[string]bool, len(units))
	for _, u := range units {
		if u.UnitCode == "" || seen[u.UnitCode] {
			return nil, fmt.Errorf("%w: unit codes must be unique and non-empty", ErrInvalidInput)
		}
		seen[u.UnitCode] = true
	}

	ctx, cancel := withDeadline(ctx)
	defer cancel()

	var table models.Table

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var restaurant models.Restaurant
		if err := tx.First(&restaurant, restaurantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		table = models.Table{
			RestaurantID: restaurantID,
			Name:         name,
			Category:     category,
			SeatCount:    seatCount,
			Available:    true,
		}
		if err := tx.Create(&table).Error; err != nil {
			return err
		}

		for _, u := range units {
			unit := models.TableUnit{
				TableID:     table.ID,
				UnitCode:    u.UnitCode,
				DisplayName: u.DisplayName,
			}
			if !restaurant.RegenerateQRPerSession {
				token, err := utils.GenerateQRToken()
				if err != nil {
					return err
				}
				unit.QRToken = &token
			}
			if err := tx.Create(&unit).Error; err != nil {
				return err
			}
			table.Units = append(table.Units, unit)
		}
		return nil
	})
	if err != nil {
		if isEngineErr(err) {
			return nil, err
		}
		return nil, fmt.Errorf("create table failed: %w", mapStoreErr(err))
	}

	utils.InfoLogger.Printf("Table %s created for restaurant %d with %d units", table.Name, restaurantID, len(table.Units))

	return &table, nil
}
