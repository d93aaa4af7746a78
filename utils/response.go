package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard/apperrors"
)

// StandardResponse represents a standard API response
type StandardResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse represents an error response. Kind carries the stable error
// category so clients can branch without parsing the message. Raw backend
// bodies are logged, never returned here.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
	Code    int    `json:"code"`
}

// SuccessResponse sends a successful response
func SuccessResponse(c *gin.Context, statusCode int, message string, data any) {
	c.JSON(statusCode, StandardResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RespondError classifies err and sends the matching status code and
// user-facing message
func RespondError(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	status := statusForKind(kind)
	LogError("request failed", err, map[string]any{
		"kind":   string(kind),
		"path":   c.Request.URL.Path,
		"status": status,
	})
	c.JSON(status, ErrorResponse{
		Success: false,
		Message: apperrors.MessageOf(err),
		Kind:    string(kind),
		Code:    status,
	})
}

func statusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindAuth, apperrors.KindSessionExpired:
		return http.StatusUnauthorized
	case apperrors.KindPermission:
		return http.StatusForbidden
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindValidation, apperrors.KindMissingPrecondition, apperrors.KindInvalidFileFormat:
		return http.StatusBadRequest
	case apperrors.KindFileSizeExceeded:
		return http.StatusRequestEntityTooLarge
	case apperrors.KindTimeout:
		return http.StatusGatewayTimeout
	case apperrors.KindSchemaMismatch, apperrors.KindUpload, apperrors.KindNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponseWithCode sends an error response with custom status code
func ErrorResponseWithCode(c *gin.Context, statusCode int, message string, err error) {
	if err != nil {
		LogError(message, err, map[string]any{"path": c.Request.URL.Path})
	}
	c.JSON(statusCode, ErrorResponse{
		Success: false,
		Message: message,
		Code:    statusCode,
	})
}

// BadRequestError sends a 400 error response
func BadRequestError(c *gin.Context, message string, err error) {
	ErrorResponseWithCode(c, http.StatusBadRequest, message, err)
}

// UnauthorizedError sends a 401 error response
func UnauthorizedError(c *gin.Context, message string) {
	ErrorResponseWithCode(c, http.StatusUnauthorized, message, nil)
}

// ForbiddenError sends a 403 error response
func ForbiddenError(c *gin.Context, message string) {
	ErrorResponseWithCode(c, http.StatusForbidden, message, nil)
}

// NotFoundError sends a 404 error response
func NotFoundError(c *gin.Context, message string) {
	ErrorResponseWithCode(c, http.StatusNotFound, message, nil)
}
