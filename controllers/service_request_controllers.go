package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/floor-service/services"
	"github.com/yeremiapane/floor-service/utils"
	"gorm.io/gorm"
)

type ServiceRequestController struct {
	Service *services.ServiceRequestService
}

func NewServiceRequestController(db *gorm.DB) *ServiceRequestController {
	return &ServiceRequestController{Service: services.NewServiceRequestService(db)}
}

// GetAllRequests lists the requests the caller may see. Query filters only
// narrow that set.
func (rc *ServiceRequestController) GetAllRequests(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}

	filter := services.RequestFilter{
		Status:      c.Query("status"),
		RequestType: c.Query("request_type"),
	}
	if raw := c.Query("table_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondServiceError(c, &services.ServiceError{Kind: services.KindValidation, Message: "table_id must be a positive integer"})
			return
		}
		filter.TableID = uint(id)
	}

	requests, err := rc.Service.ListRequests(c.Request.Context(), p, filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of service requests", requests)
}

// CreateRequest -> customer memanggil pelayan / minta bill / dll
func (rc *ServiceRequestController) CreateRequest(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var body struct {
		TableID     uint    `json:"table_id" binding:"required"`
		RequestType string  `json:"request_type" binding:"required"`
		Notes       *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}

	request, err := rc.Service.CreateRequest(c.Request.Context(), p, services.CreateRequestInput{
		TableID:     body.TableID,
		RequestType: body.RequestType,
		Notes:       body.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Service request created", request)
}

// GetRequestByID -> detail satu request (404 jika bukan milik caller)
func (rc *ServiceRequestController) GetRequestByID(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "request_id", "Service request")
	if !ok {
		return
	}

	request, err := rc.Service.GetRequest(c.Request.Context(), p, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Service request detail", request)
}

// UpdateStatus -> ubah status request dan beri tahu customer
func (rc *ServiceRequestController) UpdateStatus(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "request_id", "Service request")
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondServiceError(c, services.ErrInvalidStatus)
		return
	}

	request, err := rc.Service.UpdateStatus(c.Request.Context(), p, id, body.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Service request status updated", request)
}

// GetPendingRequests -> semua request PENDING untuk staff
func (rc *ServiceRequestController) GetPendingRequests(c *gin.Context) {
	requests, err := rc.Service.PendingRequests(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Pending service requests", requests)
}
