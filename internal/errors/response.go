package errors

import (
	"errors"
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse 표준 에러 응답 구조
type ErrorResponse struct {
	Error     string `json:"error"`                // 에러 코드 (프론트엔드에서 매핑용)
	Message   string `json:"message"`              // 사용자 친화적 메시지
	RequestID string `json:"request_id,omitempty"` // 로그 추적용
}

// RespondWithError 에러 응답 헬퍼
// statusCode: HTTP 상태 코드
// errorCode: 에러 코드 상수 (codes.go 참조)
// message: 사용자에게 보여질 메시지
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:     errorCode,
		Message:   message,
		RequestID: c.GetString("request_id"),
	})
}

// 자주 사용하는 에러 응답 단축 함수들

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "You do not have access to this resource"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Something went wrong. Please try again later"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// ConfigError 설정 오류 (기본 카테고리 누락 등 운영자 조치 필요)
func ConfigError(c *gin.Context, message string) {
	RespondWithError(c, http.StatusInternalServerError, InternalConfigError, message)
}

func Unavailable(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusServiceUnavailable, errorCode, message)
}

// ValidationError 검증 에러 (여러 필드 검증 오류)
type ValidationError struct {
	Error     string            `json:"error"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"` // 필드별 실패한 규칙
	RequestID string            `json:"request_id,omitempty"`
}

func RespondWithValidationError(c *gin.Context, message string, fields map[string]string) {
	c.JSON(http.StatusBadRequest, ValidationError{
		Error:     ValidationInvalidInput,
		Message:   message,
		Fields:    fields,
		RequestID: c.GetString("request_id"),
	})
}

// BindingError answers a failed ShouldBindJSON. Struct tag failures are listed per field,
// anything else (malformed JSON, wrong types) gets the plain message.
func BindingError(c *gin.Context, err error, message string) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		BadRequest(c, ValidationInvalidInput, message)
		return
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[snakeCase(fe.Field())] = fe.Tag()
	}
	RespondWithValidationError(c, message, fields)
}

// PhoneNumber -> phone_number, CategoryID -> category_id
func snakeCase(s string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range s {
		if unicode.IsUpper(r) {
			if prevLower {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
			prevLower = false
		} else {
			prevLower = true
		}
		b.WriteRune(r)
	}
	return b.String()
}
