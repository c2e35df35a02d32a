package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ddaazzz/qr-restaurant-sub000/models"
)

// BillLine is one order item as it appears on the bill.
type BillLine struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	LineTotal int64  `json:"line_total"`
}

// Bill is a read-only preview of what the party owes right now. All
// amounts are cents. Discounts are applied at closure, not here.
type Bill struct {
	SessionID            uint            `json:"session_id"`
	Lines                []BillLine      `json:"lines"`
	Subtotal             int64           `json:"subtotal"`
	ServiceChargePercent decimal.Decimal `json:"service_charge_percent"`
	ServiceCharge        int64           `json:"service_charge"`
	Total                int64           `json:"total"`
}

// BillingService aggregates a session's non-cancelled order items into
// totals. It never mutates state and gives no snapshot guarantee against
// orders arriving concurrently.
type BillingService struct {
	db *gorm.DB
}

func NewBillingService(db *gorm.DB) *BillingService {
	return &BillingService{db: db}
}

// ComputeBill totals the session's current non-cancelled items. The
// service charge percent is fetched fresh from the restaurant row each
// call; it may change between ordering and closure.
func (s *BillingService) ComputeBill(ctx context.Context, sessionID uint) (*Bill, error) {
	db := s.db.WithContext(ctx)

	var session models.TableSession
	if err := db.First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", mapStoreErr(err))
	}

	var table models.Table
	if err := db.First(&table, session.TableID).Error; err != nil {
		return nil, fmt.Errorf("failed to load table: %w", mapStoreErr(err))
	}

	var restaurant models.Restaurant
	if err := db.First(&restaurant, table.RestaurantID).Error; err != nil {
		return nil, fmt.Errorf("failed to load restaurant: %w", mapStoreErr(err))
	}

	lines, subtotal, err := billableLines(db, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate order items: %w", mapStoreErr(err))
	}

	charge := serviceCharge(subtotal, restaurant.ServiceChargePercent)

	return &Bill{
		SessionID:            sessionID,
		Lines:                lines,
		Subtotal:             subtotal,
		ServiceChargePercent: restaurant.ServiceChargePercent,
		ServiceCharge:        charge,
		Total:                subtotal + charge,
	}, nil
}

// billableLines loads the session's items whose parent order is not
// cancelled. Prices were captured at insertion; the current menu never
// enters the sum.
func billableLines(tx *gorm.DB, sessionID uint) ([]BillLine, int64, error) {
	var items []models.OrderItem
	err := tx.
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.session_id = ? AND orders.status <> ?", sessionID, models.OrderStatusCancelled).
		Order("order_items.id ASC").
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}

	lines := make([]BillLine, 0, len(items))
	var subtotal int64
	for _, item := range items {
		lineTotal := int64(item.Quantity) * item.UnitPrice
		subtotal += lineTotal
		lines = append(lines, BillLine{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: lineTotal,
		})
	}
	return lines, subtotal, nil
}

// serviceCharge rounds subtotal × percent / 100 to whole cents, half
// away from zero.
func serviceCharge(subtotal int64, percent decimal.Decimal) int64 {
	return decimal.NewFromInt(subtotal).
		Mul(percent).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}
