package utils

import (
	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Kind    string      `json:"kind,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Error:   err.Error(),
	})
}

// RespondErrorKind is RespondError with a stable machine-readable kind.
func RespondErrorKind(c *gin.Context, code int, kind string, message string) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: message,
		Error:   message,
		Kind:    kind,
	})
}
