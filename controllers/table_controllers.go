package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/floor-service/models"
	"github.com/yeremiapane/floor-service/services"
	"github.com/yeremiapane/floor-service/utils"
	"gorm.io/gorm"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

type tableRequest struct {
	TableNumber *string `json:"table_number"`
	Capacity    *int    `json:"capacity"`
	IsOccupied  *bool   `json:"is_occupied"`
	QRCode      *string `json:"qr_code"`
}

// CreateTable -> menambahkan meja baru
func (tc *TableController) CreateTable(c *gin.Context) {
	var req tableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if req.TableNumber == nil || strings.TrimSpace(*req.TableNumber) == "" || req.Capacity == nil {
		respondServiceError(c, &services.ServiceError{Kind: services.KindValidation, Message: "table_number and capacity are required"})
		return
	}
	if *req.Capacity <= 0 {
		respondServiceError(c, &services.ServiceError{Kind: services.KindValidation, Message: "capacity must be positive"})
		return
	}

	table := models.Table{
		TableNumber: strings.TrimSpace(*req.TableNumber),
		Capacity:    *req.Capacity,
		QRCode:      req.QRCode,
	}
	if req.IsOccupied != nil {
		table.IsOccupied = *req.IsOccupied
	}

	if err := tc.ensureUniqueNumber(table.TableNumber, 0); err != nil {
		respondServiceError(c, err)
		return
	}
	if err := tc.DB.Create(&table).Error; err != nil {
		respondServiceError(c, &services.ServiceError{Kind: services.KindStorage, Message: "create table", Err: err})
		return
	}

	utils.InfoLogger.Printf("New table created: %s (capacity=%d)", table.TableNumber, table.Capacity)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> menampilkan seluruh meja
func (tc *TableController) GetAllTables(c *gin.Context) {
	var tables []models.Table
	q := tc.DB.Order("table_number ASC")
	switch c.Query("occupied") {
	case "true":
		q = q.Where("is_occupied = ?", true)
	case "false":
		q = q.Where("is_occupied = ?", false)
	}
	if err := q.Find(&tables).Error; err != nil {
		respondServiceError(c, &services.ServiceError{Kind: services.KindStorage, Message: "list tables", Err: err})
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByID -> detail satu meja
func (tc *TableController) GetTableByID(c *gin.Context) {
	table, ok := tc.loadTable(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// UpdateTable -> update sebagian field meja
func (tc *TableController) UpdateTable(c *gin.Context) {
	table, ok := tc.loadTable(c)
	if !ok {
		return
	}

	var req tableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if req.TableNumber != nil {
		number := strings.TrimSpace(*req.TableNumber)
		if number == "" {
			respondServiceError(c, &services.ServiceError{Kind: services.KindValidation, Message: "table_number must not be empty"})
			return
		}
		if err := tc.ensureUniqueNumber(number, table.ID); err != nil {
			respondServiceError(c, err)
			return
		}
		table.TableNumber = number
	}
	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			respondServiceError(c, &services.ServiceError{Kind: services.KindValidation, Message: "capacity must be positive"})
			return
		}
		table.Capacity = *req.Capacity
	}
	if req.IsOccupied != nil {
		table.IsOccupied = *req.IsOccupied
	}
	if req.QRCode != nil {
		table.QRCode = req.QRCode
	}

	if err := tc.DB.Save(table).Error; err != nil {
		respondServiceError(c, &services.ServiceError{Kind: services.KindStorage, Message: "update table", Err: err})
		return
	}

	utils.InfoLogger.Printf("Table %d updated", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// ToggleOccupancy membalik status terisi meja
func (tc *TableController) ToggleOccupancy(c *gin.Context) {
	table, ok := tc.loadTable(c)
	if !ok {
		return
	}

	table.IsOccupied = !table.IsOccupied
	if err := tc.DB.Model(table).Update("is_occupied", table.IsOccupied).Error; err != nil {
		respondServiceError(c, &services.ServiceError{Kind: services.KindStorage, Message: "toggle occupancy", Err: err})
		return
	}

	utils.InfoLogger.Printf("Table %s occupancy changed to %t", table.TableNumber, table.IsOccupied)
	utils.RespondJSON(c, http.StatusOK, "Table occupancy updated", table)
}

// DeleteTable -> menghapus meja beserta request-nya
func (tc *TableController) DeleteTable(c *gin.Context) {
	table, ok := tc.loadTable(c)
	if !ok {
		return
	}

	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		requestIDs := tx.Model(&models.ServiceRequest{}).Select("id").Where("table_id = ?", table.ID)
		if err := tx.Where("service_request_id IN (?)", requestIDs).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("table_id = ?", table.ID).Delete(&models.ServiceRequest{}).Error; err != nil {
			return err
		}
		return tx.Delete(table).Error
	})
	if err != nil {
		respondServiceError(c, &services.ServiceError{Kind: services.KindStorage, Message: "delete table", Err: err})
		return
	}

	utils.InfoLogger.Printf("Table %d deleted", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{
		"id": table.ID,
	})
}

func (tc *TableController) loadTable(c *gin.Context) (*models.Table, bool) {
	id, ok := uintParam(c, "table_id", "Table")
	if !ok {
		return nil, false
	}
	var table models.Table
	if err := tc.DB.First(&table, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondServiceError(c, services.ErrTableNotFound)
		} else {
			respondServiceError(c, &services.ServiceError{Kind: services.KindStorage, Message: "load table", Err: err})
		}
		return nil, false
	}
	return &table, true
}

func (tc *TableController) ensureUniqueNumber(number string, exceptID uint) error {
	var count int64
	if err := tc.DB.Model(&models.Table{}).
		Where("table_number = ? AND id <> ?", number, exceptID).
		Count(&count).Error; err != nil {
		return &services.ServiceError{Kind: services.KindStorage, Message: "check table number", Err: err}
	}
	if count > 0 {
		return &services.ServiceError{Kind: services.KindConflict, Message: "Table number " + number + " already exists"}
	}
	return nil
}
