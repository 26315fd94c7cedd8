package entity

import "errors"

var (
	// ErrUnknownResource는 등록되지 않은 리소스를 요청했을 때 발생합니다
	ErrUnknownResource = errors.New("unknown resource")

	// ErrRowNotFound는 해당 id의 행을 찾을 수 없을 때 발생합니다
	ErrRowNotFound = errors.New("row not found")

	// ErrUnknownField는 디스크립터에 선언되지 않은 필드가 들어왔을 때 발생합니다
	ErrUnknownField = errors.New("unknown field")

	// ErrInvalidFieldValue는 필드 값이 선언된 타입과 맞지 않을 때 발생합니다
	ErrInvalidFieldValue = errors.New("invalid field value")

	// ErrMissingRequiredField는 필수 필드가 빠졌을 때 발생합니다
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrInvalidID는 id 형식이 리소스의 id 종류와 맞지 않을 때 발생합니다
	ErrInvalidID = errors.New("invalid id")

	// ErrInvalidBulkAction은 지원하지 않는 bulk action을 요청했을 때 발생합니다
	ErrInvalidBulkAction = errors.New("invalid bulk action")

	// ErrMissingToggleValue는 toggle action에 플래그 값이 빠졌을 때 발생합니다
	ErrMissingToggleValue = errors.New("missing toggle value")

	// ErrEmptyPatch는 업데이트할 필드가 하나도 없을 때 발생합니다
	ErrEmptyPatch = errors.New("empty patch")
)
