package codec

import (
	"errors"

	"hashids.local/hashids"
)

// 领域错误，httpapi 按这些错误映射状态码
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileDisabled = errors.New("profile disabled")
	ErrProfileExists   = errors.New("profile already exists")
	ErrBuiltinProfile  = errors.New("builtin profile cannot be changed")
	ErrInvalidName     = errors.New("invalid profile name")
	ErrInvalidProfile  = errors.New("invalid profile")
	ErrNoMasterSecret  = errors.New("master secret not configured")

	ErrEmptyNumbers   = errors.New("no numbers to encode")
	ErrTooManyNumbers = errors.New("too many numbers")
	ErrNotIssued      = errors.New("hash was not issued by this service")
	ErrUnsupported    = errors.New("operation not supported by codec")

	// 和核心库共用，errors.Is 两边都能匹配
	ErrInvalidHash   = hashids.ErrInvalidHash
	ErrInvalidNumber = hashids.ErrInvalidNumber
)
