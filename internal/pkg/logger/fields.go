package logger

import (
	"time"

	"go.uber.org/zap"
)

// 일관된 로그 필드를 위한 헬퍼 함수들

// RequestID는 요청 ID 필드를 반환합니다
func RequestID(id string) zap.Field {
	return zap.String("request_id", id)
}

// Actor는 요청 주체 필드를 반환합니다
func Actor(id string) zap.Field {
	return zap.String("actor", id)
}

// ResourceName은 리소스명 필드를 반환합니다
func ResourceName(name string) zap.Field {
	return zap.String("resource", name)
}

// RowID는 행 ID 필드를 반환합니다
func RowID(id string) zap.Field {
	return zap.String("row_id", id)
}

// Operation은 작업명 필드를 반환합니다
func Operation(op string) zap.Field {
	return zap.String("operation", op)
}

// Duration은 작업 시간 필드를 반환합니다
func Duration(d time.Duration) zap.Field {
	return zap.Duration("duration", d)
}

// DurationMs는 작업 시간을 밀리초로 반환합니다
func DurationMs(d time.Duration) zap.Field {
	return zap.Float64("duration_ms", float64(d.Milliseconds()))
}

// HTTPMethod는 HTTP 메서드 필드를 반환합니다
func HTTPMethod(method string) zap.Field {
	return zap.String("http_method", method)
}

// HTTPPath는 HTTP 경로 필드를 반환합니다
func HTTPPath(path string) zap.Field {
	return zap.String("http_path", path)
}

// HTTPStatus는 HTTP 상태 코드 필드를 반환합니다
func HTTPStatus(status int) zap.Field {
	return zap.Int("http_status", status)
}

// RemoteAddr는 원격 주소 필드를 반환합니다
func RemoteAddr(addr string) zap.Field {
	return zap.String("remote_addr", addr)
}

// Count는 카운트 필드를 반환합니다
func Count(n int) zap.Field {
	return zap.Int("count", n)
}

// CacheKey는 캐시 키 필드를 반환합니다
func CacheKey(key string) zap.Field {
	return zap.String("cache_key", key)
}

// CacheHit는 캐시 히트 여부 필드를 반환합니다
func CacheHit(hit bool) zap.Field {
	return zap.Bool("cache_hit", hit)
}

// Field는 임의의 값 필드를 반환합니다
func Field(key string, value interface{}) zap.Field {
	return zap.Any(key, value)
}
