package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nexus/internal/shared/errors"
)

// envelope is the wire shape of every API response.
type envelope struct {
	Success bool          `json:"success"`
	Data    interface{}   `json:"data,omitempty"`
	Error   *errorPayload `json:"error,omitempty"`
	Message string        `json:"message,omitempty"`
}

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ListResponse wraps paginated list data.
type ListResponse struct {
	Items      interface{} `json:"items"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// SuccessResponse writes a success envelope with the given status code.
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, envelope{Success: true, Data: data, Message: message})
}

// CreatedResponse writes a 201 envelope.
func CreatedResponse(c *gin.Context, data interface{}, message ...string) {
	msg := "Resource created successfully"
	if len(message) > 0 {
		msg = message[0]
	}
	c.JSON(http.StatusCreated, envelope{Success: true, Data: data, Message: msg})
}

// ListSuccessResponse writes a paginated list envelope.
func ListSuccessResponse(c *gin.Context, items interface{}, total int64, page, pageSize int, message ...string) {
	msg := ""
	if len(message) > 0 {
		msg = message[0]
	}
	c.JSON(http.StatusOK, envelope{
		Success: true,
		Message: msg,
		Data: ListResponse{
			Items:      items,
			Total:      total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: TotalPages(total, pageSize),
		},
	})
}

// ErrorResponse writes a plain error envelope with the given status code.
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, envelope{
		Success: false,
		Error:   &errorPayload{Type: "error", Message: message},
	})
}

// ErrorResponseWithError maps an error to its HTTP representation.
// Non-AppError values collapse to a generic 500 so internal details
// never reach the client.
func ErrorResponseWithError(c *gin.Context, err error) {
	statusCode := http.StatusInternalServerError
	payload := errorPayload{
		Type:    string(errors.ErrorTypeInternal),
		Message: "Internal server error occurred",
	}

	if appErr := errors.GetAppError(err); appErr != nil {
		statusCode = appErr.Code
		payload = errorPayload{
			Type:    string(appErr.Type),
			Message: appErr.Message,
			Details: appErr.Details,
		}
	}

	c.JSON(statusCode, envelope{Success: false, Error: &payload})
}

// NoContentResponse writes an empty 204.
func NoContentResponse(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
