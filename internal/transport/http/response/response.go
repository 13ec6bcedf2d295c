package response

import "github.com/gin-gonic/gin"

// Error codes surfaced in the error_code field.
const (
	CodeValidationError    = "validation_error"
	CodeQuotaExceeded      = "quota_exceeded"
	CodeDuplicateConfig    = "duplicate_config"
	CodeProtectedReference = "protected_reference"
	CodeNotFound           = "not_found"
	CodeUnauthorized       = "unauthorized"
	CodeInternalError      = "internal_error"
)

type SuccessEnvelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Meta    interface{} `json:"meta,omitempty"`
}

type ErrorEnvelope struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors"`
	ErrorCode string            `json:"error_code,omitempty"`
}

func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(200, SuccessEnvelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func OKWithMeta(c *gin.Context, message string, data, meta interface{}) {
	c.JSON(200, SuccessEnvelope{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(201, SuccessEnvelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Error(c *gin.Context, httpStatus int, message, errorCode string) {
	ErrorWithFields(c, httpStatus, message, errorCode, nil)
}

func ErrorWithFields(c *gin.Context, httpStatus int, message, errorCode string, fields map[string]string) {
	if fields == nil {
		fields = map[string]string{}
	}
	c.JSON(httpStatus, ErrorEnvelope{
		Success:   false,
		Message:   message,
		Errors:    fields,
		ErrorCode: errorCode,
	})
}
