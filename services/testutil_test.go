package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ddaazzz/qr-restaurant-sub000/database"
	"github.com/ddaazzz/qr-restaurant-sub000/models"
	"github.com/ddaazzz/qr-restaurant-sub000/utils"
)

func init() {
	utils.InitLogger()
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	// One pooled connection, otherwise every new connection sees its
	// own empty :memory: database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedRestaurant(t *testing.T, db *gorm.DB, dynamicQR bool, chargePercent string) *models.Restaurant {
	t.Helper()
	restaurant := &models.Restaurant{
		Name:                   "Warung Tengah",
		RegenerateQRPerSession: dynamicQR,
		ServiceChargePercent:   decimal.RequireFromString(chargePercent),
	}
	if err := db.Create(restaurant).Error; err != nil {
		t.Fatalf("failed to seed restaurant: %v", err)
	}
	return restaurant
}

func seedTable(t *testing.T, db *gorm.DB, restaurantID uint, seatCount int, unitCodes ...string) *models.Table {
	t.Helper()
	svc := NewTableService(db)
	units := make([]UnitInput, 0, len(unitCodes))
	for _, code := range unitCodes {
		units = append(units, UnitInput{UnitCode: code})
	}
	table, err := svc.CreateTable(context.Background(), restaurantID, "T-"+unitCodes[0], "indoor", seatCount, units)
	if err != nil {
		t.Fatalf("failed to seed table: %v", err)
	}
	return table
}

func seedOrder(t *testing.T, db *gorm.DB, sessionID uint, items ...OrderItemInput) *models.Order {
	t.Helper()
	order, err := NewOrderService(db).PlaceOrder(context.Background(), sessionID, items)
	if err != nil {
		t.Fatalf("failed to seed order: %v", err)
	}
	return order
}

// fakeNotifier records POS notifications and can be told to fail.
type fakeNotifier struct {
	calls    int
	lastURL  string
	lastCred string
	lastPay  POSPayload
	err      error
}

func (f *fakeNotifier) Notify(_ context.Context, endpoint, credential string, payload POSPayload) error {
	f.calls++
	f.lastURL = endpoint
	f.lastCred = credential
	f.lastPay = payload
	return f.err
}
