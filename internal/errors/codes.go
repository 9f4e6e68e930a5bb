package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 프론트엔드에서 이 코드를 기반으로 메시지를 매핑함

const (
	// ==================== 인증 (AUTH_) ====================
	AuthUnauthorized = "AUTH_UNAUTHORIZED"  // 로그인 필요
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED" // 토큰 만료
	AuthTokenInvalid = "AUTH_TOKEN_INVALID" // 잘못된 토큰

	// ==================== 인가/권한 (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // 접근 권한 없음
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // 권한 정보 없음
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"     // 관리자만 가능

	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // 잘못된 입력
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // 잘못된 ID
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // 잘못된 형식
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"  // 범위 초과
	ValidationRequired      = "VALIDATION_REQUIRED"       // 필수 항목

	// ==================== 리소스 (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // 리소스 없음
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // 이미 존재
	ResourceConflict      = "RESOURCE_CONFLICT"       // 충돌

	// ==================== 업체 (BUSINESS_) ====================
	BusinessNotFound      = "BUSINESS_NOT_FOUND"      // 업체 없음
	BusinessInvalidStatus = "BUSINESS_INVALID_STATUS" // 잘못된 상태 값

	// ==================== 카테고리 (CATEGORY_) ====================
	CategoryNotFound      = "CATEGORY_NOT_FOUND"      // 카테고리 없음
	CategoryAlreadyExists = "CATEGORY_ALREADY_EXISTS" // 이름 중복
	CategoryInUse         = "CATEGORY_IN_USE"         // 기본 카테고리는 삭제/비활성화 불가

	// ==================== 키워드 (KEYWORD_) ====================
	KeywordNotFound        = "KEYWORD_NOT_FOUND"        // 키워드 없음
	KeywordAlreadyExists   = "KEYWORD_ALREADY_EXISTS"   // 같은 카테고리·지역에 중복
	KeywordInvalidPriority = "KEYWORD_INVALID_PRIORITY" // 우선순위 1~5 위반

	// ==================== 검색/분류 (DISCOVERY_) ====================
	DiscoveryUnavailable  = "DISCOVERY_UNAVAILABLE"   // 검색 저장소 장애
	DiscoveryJobRunning   = "DISCOVERY_JOB_RUNNING"   // 재분류 작업 진행 중
	DiscoveryExportFailed = "DISCOVERY_EXPORT_FAILED" // 리포트 생성 실패

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // 서버 오류
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB 오류
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // 외부 API 오류
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"   // 설정 오류 (기본 카테고리 누락 등)
)
