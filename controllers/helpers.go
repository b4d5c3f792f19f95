package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/floor-service/middlewares"
	"github.com/yeremiapane/floor-service/services"
	"github.com/yeremiapane/floor-service/utils"
)

var kindStatus = map[services.ErrorKind]int{
	services.KindNotFound:       http.StatusNotFound,
	services.KindNoActiveDevice: http.StatusBadRequest,
	services.KindInvalidStatus:  http.StatusBadRequest,
	services.KindValidation:     http.StatusBadRequest,
	services.KindUnauthorized:   http.StatusUnauthorized,
	services.KindForbidden:      http.StatusForbidden,
	services.KindConflict:       http.StatusConflict,
	services.KindStorage:        http.StatusInternalServerError,
}

// respondServiceError writes err with the HTTP status of its kind. Storage
// failures are logged in full and reported generically.
func respondServiceError(c *gin.Context, err error) {
	_ = c.Error(err)

	kind := services.KindOf(err)
	code, ok := kindStatus[kind]
	if !ok {
		code = http.StatusInternalServerError
	}

	message := err.Error()
	if kind == services.KindStorage {
		utils.ErrorLogger.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		message = "Internal storage error"
	}
	utils.RespondErrorKind(c, code, string(kind), message)
}

// principalFromContext reads the caller set by AuthMiddleware.
func principalFromContext(c *gin.Context) (services.Principal, bool) {
	uid, ok := c.Get(middlewares.ContextUserID)
	if !ok {
		return services.Principal{}, false
	}
	userID, ok := uid.(uint)
	if !ok || userID == 0 {
		return services.Principal{}, false
	}
	role, _ := c.Get(middlewares.ContextRole)
	roleStr, _ := role.(string)
	return services.Principal{UserID: userID, Role: roleStr}, true
}

// mustPrincipal aborts with 401 when no caller is attached.
func mustPrincipal(c *gin.Context) (services.Principal, bool) {
	p, ok := principalFromContext(c)
	if !ok {
		respondServiceError(c, services.ErrUnauthorized)
		return services.Principal{}, false
	}
	return p, true
}

// uintParam parses a positive path parameter; a malformed id is reported as
// not found.
func uintParam(c *gin.Context, name string, what string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondServiceError(c, &services.ServiceError{Kind: services.KindNotFound, Message: what + " not found"})
		return 0, false
	}
	return uint(id), true
}

func bindError(c *gin.Context, err error) {
	respondServiceError(c, &services.ServiceError{Kind: services.KindValidation, Message: err.Error()})
}
