package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ddaazzz/qr-restaurant-sub000/models"
	"github.com/ddaazzz/qr-restaurant-sub000/services"
	"github.com/ddaazzz/qr-restaurant-sub000/utils"
)

type TableController struct {
	DB     *gorm.DB
	Tables *services.TableService
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{
		DB:     db,
		Tables: services.NewTableService(db),
	}
}

// CreateTable -> register a table with its units
func (tc *TableController) CreateTable(c *gin.Context) {
	restaurantID, err := paramUint(c, "restaurant_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var req struct {
		Name      string               `json:"name" binding:"required"`
		Category  string               `json:"category"`
		SeatCount int                  `json:"seat_count" binding:"required"`
		Units     []services.UnitInput `json:"units" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Tables.CreateTable(c.Request.Context(), restaurantID, req.Name, req.Category, req.SeatCount, req.Units)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> list a restaurant's tables with their units
func (tc *TableController) GetAllTables(c *gin.Context) {
	restaurantID, err := paramUint(c, "restaurant_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var tables []models.Table
	if err := tc.DB.Preload("Units").
		Where("restaurant_id = ?", restaurantID).
		Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetUnitQR -> render the unit's current credential as a PNG
func (tc *TableController) GetUnitQR(c *gin.Context) {
	unitID, err := paramUint(c, "unit_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var unit models.TableUnit
	if err := tc.DB.First(&unit, unitID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if unit.QRToken == nil || *unit.QRToken == "" {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("unit has no credential yet"))
		return
	}

	png, err := utils.GenerateQRCode(*unit.QRToken, 256)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

func paramUint(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return uint(v), nil
}
