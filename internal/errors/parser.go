package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo 에러 정보 구조
type ErrorInfo struct {
	Code    string // 에러 코드 (codes.go 참조)
	Message string // 사용자 친화적 메시지
}

// ParseError 에러를 파싱하여 사용자 친화적인 메시지와 코드로 변환
// 보안상 민감한 정보는 숨기되, 사용자가 문제를 해결할 수 있는 정보 제공
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Something went wrong",
		}
	}

	errStrLower := strings.ToLower(err.Error())

	// 1. GORM 기본 에러
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return parseNotFound(context)
	}

	// 2. DB 제약 조건 에러 (PostgreSQL / SQLite)

	// 2-1. Unique constraint violation (23505)
	if strings.Contains(errStrLower, "duplicate key") ||
		strings.Contains(errStrLower, "unique constraint") ||
		errors.Is(err, gorm.ErrDuplicatedKey) {
		return parseDuplicateKeyError(errStrLower, context)
	}

	// 2-2. Foreign key constraint violation (23503)
	if strings.Contains(errStrLower, "foreign key constraint") || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return parseForeignKeyError(errStrLower, context)
	}

	// 2-3. Not null constraint violation (23502)
	if strings.Contains(errStrLower, "not-null constraint") || strings.Contains(errStrLower, "not null constraint") {
		return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing"}
	}

	// 3. 네트워크/연결 에러
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "A backing service is unavailable. Please try again later",
		}
	}

	// 4. 기본 내부 서버 오류
	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

// parseDuplicateKeyError Unique constraint 위반 에러 파싱
func parseDuplicateKeyError(errLower string, context string) ErrorInfo {
	contextLower := strings.ToLower(context)

	// 카테고리 이름 중복
	if strings.Contains(errLower, "categories") || strings.Contains(contextLower, "category") {
		return ErrorInfo{
			Code:    CategoryAlreadyExists,
			Message: "A category with this name already exists",
		}
	}

	// 키워드 중복
	if strings.Contains(errLower, "keyword_rules") || strings.Contains(contextLower, "keyword") {
		return ErrorInfo{
			Code:    KeywordAlreadyExists,
			Message: "This keyword is already defined for the category and region",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "This record already exists",
	}
}

// parseForeignKeyError Foreign key constraint 위반 에러 파싱
func parseForeignKeyError(errLower string, context string) ErrorInfo {
	// 삭제 시 참조 중인 데이터가 있는 경우
	if strings.Contains(errLower, "still referenced") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "The record is still referenced and cannot be deleted",
		}
	}

	if strings.Contains(errLower, "category_id") || strings.Contains(errLower, "fk_categories") {
		return ErrorInfo{Code: CategoryNotFound, Message: "Category not found"}
	}
	if strings.Contains(errLower, "business_id") || strings.Contains(errLower, "fk_businesses") {
		return ErrorInfo{Code: BusinessNotFound, Message: "Business not found"}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "A referenced record was not found",
	}
}

// parseNotFound context에 따른 Not Found 코드/메시지
func parseNotFound(context string) ErrorInfo {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "business"):
		return ErrorInfo{Code: BusinessNotFound, Message: "Business not found"}
	case strings.Contains(contextLower, "category"):
		return ErrorInfo{Code: CategoryNotFound, Message: "Category not found"}
	case strings.Contains(contextLower, "keyword"):
		return ErrorInfo{Code: KeywordNotFound, Message: "Keyword not found"}
	}
	return ErrorInfo{Code: ResourceNotFound, Message: "The requested record was not found"}
}

// getDefaultErrorMessage context에 따른 기본 에러 메시지
func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "create") {
		return "Failed to create the record. Please try again later"
	}
	if strings.Contains(contextLower, "update") {
		return "Failed to update the record. Please try again later"
	}
	if strings.Contains(contextLower, "delete") {
		return "Failed to delete the record. Please try again later"
	}

	return "Something went wrong. Please try again later"
}

// ParseAndRespond 에러를 파싱하여 응답 반환 (헬퍼 함수)
// controller에서 간편하게 사용할 수 있도록
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
