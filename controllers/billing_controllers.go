package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ddaazzz/qr-restaurant-sub000/services"
	"github.com/ddaazzz/qr-restaurant-sub000/utils"
)

type BillingController struct {
	Billing *services.BillingService
	Closure *services.ClosureService
}

func NewBillingController(db *gorm.DB, notifier services.POSNotifier) *BillingController {
	return &BillingController{
		Billing: services.NewBillingService(db),
		Closure: services.NewClosureService(db, notifier),
	}
}

// GetBill -> read-only bill preview for the session
func (bc *BillingController) GetBill(c *gin.Context) {
	sessionID, err := paramUint(c, "session_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	bill, err := bc.Billing.ComputeBill(c.Request.Context(), sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Bill preview", bill)
}

// CloseBill -> settle and terminate the session atomically
func (bc *BillingController) CloseBill(c *gin.Context) {
	restaurantID, err := paramUint(c, "restaurant_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	sessionID, err := paramUint(c, "session_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var req struct {
		PaymentMethod   string `json:"payment_method" binding:"required"`
		AmountPaid      int64  `json:"amount_paid"`
		DiscountApplied int64  `json:"discount_applied"`
		Notes           string `json:"notes"`
		StaffID         uint   `json:"staff_id"`
		SendToPOS       bool   `json:"send_to_pos"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := bc.Closure.CloseBill(c.Request.Context(), services.CloseBillParams{
		SessionID:       sessionID,
		RestaurantID:    restaurantID,
		PaymentMethod:   req.PaymentMethod,
		AmountPaid:      req.AmountPaid,
		DiscountApplied: req.DiscountApplied,
		Notes:           req.Notes,
		StaffID:         req.StaffID,
		SendToPOS:       req.SendToPOS,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Bill closed", result)
}
