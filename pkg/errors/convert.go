package errors

import "net/http"

// 에러 코드 -> HTTP 상태 코드 매핑 테이블
var codeMapping = map[string]int{
	ErrInternal:        http.StatusInternalServerError,
	ErrNotFound:        http.StatusNotFound,
	ErrInvalidArgument: http.StatusBadRequest,
	ErrUnauthenticated: http.StatusUnauthorized,
	ErrUnauthorized:    http.StatusForbidden,
	ErrConflict:        http.StatusConflict,
	ErrUnavailable:     http.StatusServiceUnavailable,
}

// ToHTTPStatus는 에러 코드를 HTTP 상태 코드로 변환합니다
func ToHTTPStatus(code string) int {
	if status, ok := codeMapping[code]; ok {
		return status
	}
	return http.StatusInternalServerError // 알 수 없는 코드는 500
}

// httpStatusToCode는 HTTP 상태 코드를 내부 에러 코드로 변환합니다.
// 매핑에 없는 4xx는 INVALID_ARGUMENT, 나머지는 INTERNAL입니다.
func httpStatusToCode(status int) string {
	for code, s := range codeMapping {
		if s == status {
			return code
		}
	}
	if status >= 400 && status < 500 {
		return ErrInvalidArgument
	}
	return ErrInternal
}
