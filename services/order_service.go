package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ddaazzz/qr-restaurant-sub000/models"
)

// OrderItemInput is one line of an incoming order. UnitPrice is cents
// and is stored as-is; the engine does not consult any menu.
type OrderItemInput struct {
	Name      string `json:"name" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
	UnitPrice int64  `json:"unit_price"`
	Notes     string `json:"notes"`
}

// OrderService is the minimal session-scoped order ledger the bill
// aggregator reads from.
type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// PlaceOrder appends an order with its items to an active session.
func (s *OrderService) PlaceOrder(ctx context.Context, sessionID uint, items []OrderItemInput) (*models.Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: order needs at least one item", ErrInvalidInput)
	}
	for _, item := range items {
		if item.Name == "" || item.Quantity <= 0 || item.UnitPrice < 0 {
			return nil, fmt.Errorf("%w: bad order item", ErrInvalidInput)
		}
	}

	ctx, cancel := withDeadline(ctx)
	defer cancel()

	var order models.Order

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session models.TableSession
		if err := tx.First(&session, sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !session.IsActive() {
			return ErrAlreadyClosed
		}

		order = models.Order{
			SessionID: sessionID,
			Status:    models.OrderStatusActive,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, item := range items {
			order.Items = append(order.Items, models.OrderItem{
				OrderID:   order.ID,
				Name:      item.Name,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
				Notes:     item.Notes,
			})
		}
		return tx.Create(&order.Items).Error
	})
	if err != nil {
		if isEngineErr(err) {
			return nil, err
		}
		return nil, fmt.Errorf("place order failed: %w", mapStoreErr(err))
	}

	return &order, nil
}

// CancelOrder marks an order cancelled; its items drop out of every
// later bill computation.
func (s *OrderService) CancelOrder(ctx context.Context, orderID uint) error {
	result := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("status", models.OrderStatusCancelled)
	if result.Error != nil {
		return fmt.Errorf("cancel order failed: %w", mapStoreErr(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
