package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ddaazzz/qr-restaurant-sub000/services"
	"github.com/ddaazzz/qr-restaurant-sub000/utils"
)

type SessionController struct {
	Allocator *services.AllocatorService
	Sessions  *services.SessionService
}

func NewSessionController(db *gorm.DB) *SessionController {
	return &SessionController{
		Allocator: services.NewAllocatorService(db),
		Sessions:  services.NewSessionService(db),
	}
}

// StartSession -> seat a party on any free unit of the table
func (sc *SessionController) StartSession(c *gin.Context) {
	restaurantID, err := paramUint(c, "restaurant_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	tableID, err := paramUint(c, "table_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var req struct {
		Pax int `json:"pax" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	unit, session, err := sc.Allocator.Allocate(c.Request.Context(), restaurantID, tableID, req.Pax)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Session started", gin.H{
		"unit":    unit,
		"session": session,
	})
}

// Scan -> diner scanned a unit QR; open a session on that unit's table
func (sc *SessionController) Scan(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
		Pax   int    `json:"pax" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	unit, session, err := sc.Allocator.AllocateByToken(c.Request.Context(), req.Token, req.Pax)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Session started", gin.H{
		"unit":    unit,
		"session": session,
	})
}

// GetSession -> session detail with its orders
func (sc *SessionController) GetSession(c *gin.Context) {
	sessionID, err := paramUint(c, "session_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	session, err := sc.Sessions.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Session detail", session)
}

// UpdatePax -> party size changed after seating
func (sc *SessionController) UpdatePax(c *gin.Context) {
	sessionID, err := paramUint(c, "session_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var req struct {
		Pax int `json:"pax" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	session, err := sc.Sessions.ModifyPax(c.Request.Context(), sessionID, req.Pax)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Session updated", session)
}

// EndSession -> staff force-ends a session without billing (no-show)
func (sc *SessionController) EndSession(c *gin.Context) {
	sessionID, err := paramUint(c, "session_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var req struct {
		StaffID uint `json:"staff_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	session, err := sc.Sessions.EndSession(c.Request.Context(), sessionID, req.StaffID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Session ended", session)
}
