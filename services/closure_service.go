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

// CloseBillParams carries everything staff supply when settling a bill.
// DiscountApplied is a flat cent amount decided by the caller; no coupon
// arithmetic happens here.
type CloseBillParams struct {
	SessionID       uint
	RestaurantID    uint
	PaymentMethod   string
	AmountPaid      int64
	DiscountApplied int64
	Notes           string
	StaffID         uint
	SendToPOS       bool
}

// ClosureResult reports a committed closure. WebhookSent/WebhookError
// describe the post-commit POS notification and never affect the
// closure itself.
type ClosureResult struct {
	SessionID       uint      `json:"session_id"`
	POSReference    string    `json:"pos_reference"`
	Subtotal        int64     `json:"subtotal"`
	ServiceCharge   int64     `json:"service_charge"`
	DiscountApplied int64     `json:"discount_applied"`
	Total           int64     `json:"total"`
	AmountPaid      int64     `json:"amount_paid"`
	ClosedAt        time.Time `json:"closed_at"`
	WebhookSent     bool      `json:"webhook_sent"`
	WebhookError    string    `json:"webhook_error,omitempty"`
}

// ClosureService commits a billed closure atomically, then fires the POS
// notification outside the transaction boundary.
type ClosureService struct {
	db       *gorm.DB
	notifier POSNotifier
}

func NewClosureService(db *gorm.DB, notifier POSNotifier) *ClosureService {
	return &ClosureService{db: db, notifier: notifier}
}

// CloseBill settles the session's bill in one transaction: tenant and
// liveness checks, subtotal recomputation from current non-cancelled
// items, closure fields on the session, the BillClosure audit row and
// the table availability flag all commit together or not at all. After
// commit the POS system is notified best-effort; a failed notification
// is recorded in the result but never reverses the closure.
func (s *ClosureService) CloseBill(ctx context.Context, params CloseBillParams) (*ClosureResult, error) {
	if params.PaymentMethod == "" {
		return nil, fmt.Errorf("%w: payment method required", ErrInvalidInput)
	}
	if params.AmountPaid < 0 || params.DiscountApplied < 0 {
		return nil, fmt.Errorf("%w: negative amount", ErrInvalidInput)
	}

	txCtx, cancel := withDeadline(ctx)
	defer cancel()

	var (
		result     ClosureResult
		restaurant models.Restaurant
		session    models.TableSession
		lines      []BillLine
	)

	err := s.db.WithContext(txCtx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&session, params.SessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var table models.Table
		if err := lockForUpdate(tx).First(&table, session.TableID).Error; err != nil {
			return err
		}
		if table.RestaurantID != params.RestaurantID {
			return ErrNotFound
		}

		if err := lockForUpdate(tx).First(&session, params.SessionID).Error; err != nil {
			return err
		}
		if !session.IsActive() {
			return ErrAlreadyClosed
		}

		if err := tx.First(&restaurant, table.RestaurantID).Error; err != nil {
			return err
		}

		var (
			subtotal int64
			err      error
		)
		lines, subtotal, err = billableLines(tx, session.ID)
		if err != nil {
			return err
		}

		charge := serviceCharge(subtotal, restaurant.ServiceChargePercent)
		total := subtotal + charge - params.DiscountApplied

		now := time.Now()
		posRef := fmt.Sprintf("POS-%d-%d", session.ID, now.UnixNano())

		var staffID *uint
		if params.StaffID != 0 {
			staffID = &params.StaffID
		}

		updates := map[string]interface{}{
			"ended_at":           now,
			"payment_method":     params.PaymentMethod,
			"amount_paid":        params.AmountPaid,
			"discount_applied":   params.DiscountApplied,
			"notes":              params.Notes,
			"closed_by_staff_id": staffID,
			"pos_reference":      posRef,
		}
		if err := tx.Model(&models.TableSession{}).
			Where("id = ?", session.ID).
			Updates(updates).Error; err != nil {
			return err
		}

		closure := models.BillClosure{
			SessionID:       session.ID,
			ClosedAt:        now,
			Subtotal:        subtotal,
			ServiceCharge:   charge,
			DiscountApplied: params.DiscountApplied,
			Total:           total,
			AmountPaid:      params.AmountPaid,
			PaymentMethod:   params.PaymentMethod,
			POSReference:    posRef,
		}
		if err := tx.Create(&closure).Error; err != nil {
			return err
		}

		if err := refreshTableAvailability(tx, table.ID); err != nil {
			return err
		}

		result = ClosureResult{
			SessionID:       session.ID,
			POSReference:    posRef,
			Subtotal:        subtotal,
			ServiceCharge:   charge,
			DiscountApplied: params.DiscountApplied,
			Total:           total,
			AmountPaid:      params.AmountPaid,
			ClosedAt:        now,
		}
		return nil
	})
	if err != nil {
		if isEngineErr(err) {
			return nil, err
		}
		return nil, fmt.Errorf("close bill failed: %w", mapStoreErr(err))
	}

	utils.InfoLogger.Printf("Session %d closed, ref=%s total=%d", result.SessionID, result.POSReference, result.Total)

	// The closure is committed; from here on nothing may fail the call.
	if params.SendToPOS && restaurant.HasPOSConfig() {
		session.PaymentMethod = params.PaymentMethod
		s.notifyPOS(ctx, &restaurant, &session, lines, &result)
	}

	return &result, nil
}

// notifyPOS delivers the closure payload and records the outcome on the
// result and, best-effort, on the BillClosure audit row. Failures here
// are logged and swallowed.
func (s *ClosureService) notifyPOS(ctx context.Context, restaurant *models.Restaurant, session *models.TableSession, lines []BillLine, result *ClosureResult) {
	credential := ""
	if restaurant.POSCredential != nil {
		credential = *restaurant.POSCredential
	}

	payload := POSPayload{
		Reference:       result.POSReference,
		SessionID:       result.SessionID,
		TableID:         session.TableID,
		RestaurantID:    restaurant.ID,
		Subtotal:        result.Subtotal,
		ServiceCharge:   result.ServiceCharge,
		DiscountApplied: result.DiscountApplied,
		Total:           result.Total,
		AmountPaid:      result.AmountPaid,
		PaymentMethod:   session.PaymentMethod,
		Items:           lines,
		StartedAt:       session.StartedAt,
		ClosedAt:        result.ClosedAt,
	}
	err := s.notifier.Notify(ctx, *restaurant.POSEndpoint, credential, payload)
	if err != nil {
		result.WebhookSent = false
		result.WebhookError = err.Error()
		utils.ErrorLogger.Printf("POS notify failed for session %d: %v", result.SessionID, err)
	} else {
		result.WebhookSent = true
	}

	updates := map[string]interface{}{
		"webhook_sent": result.WebhookSent,
	}
	if result.WebhookError != "" {
		updates["webhook_error"] = result.WebhookError
	}
	if dbErr := s.db.Model(&models.BillClosure{}).
		Where("session_id = ?", result.SessionID).
		Updates(updates).Error; dbErr != nil {
		utils.ErrorLogger.Printf("failed to record webhook outcome for session %d: %v", result.SessionID, dbErr)
	}
}
