package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSONResponse is the uniform envelope for API responses.
// Status is "success" for 2xx, "fail" for 4xx and "error" for 5xx.
type JSONResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// Success writes a success envelope with the given HTTP status.
func Success(ctx *gin.Context, status int, message string, data interface{}) {
	ctx.JSON(status, JSONResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// Fail writes a client error envelope (4xx).
func Fail(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, JSONResponse{
		Status:  "fail",
		Message: message,
	})
}

// FailWith writes a client error envelope carrying field level details.
func FailWith(ctx *gin.Context, status int, message string, errs interface{}) {
	ctx.JSON(status, JSONResponse{
		Status:  "fail",
		Message: message,
		Errors:  errs,
	})
}

// Error writes a sanitized server error envelope (500).
func Error(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusInternalServerError, JSONResponse{
		Status:  "error",
		Message: message,
	})
}

// SuccessPage writes a success envelope for a paginated window, surfacing the
// window metadata next to the data array.
func SuccessPage(ctx *gin.Context, message string, page *Pagination) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"message":    message,
		"data":       page.Data,
		"total":      page.Total,
		"page":       page.Page,
		"limit":      page.Limit,
		"totalPages": page.TotalPages,
	})
}
