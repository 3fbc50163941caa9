package hashids

import (
	"errors"
	"fmt"
)

var (
	// ErrAlphabetTooShort 去重后的字母表不足 MinAlphabetLength 个字符。
	ErrAlphabetTooShort = errors.New("hashids: alphabet is too short")

	// ErrAlphabetHasSpace 字母表包含空格或制表符。
	ErrAlphabetHasSpace = errors.New("hashids: alphabet contains whitespace characters")

	// ErrInvalidSeparators 自定义分隔符把字母表拆得不可用（可用字符 < 2 或分隔符/guard 为空）。
	ErrInvalidSeparators = errors.New("hashids: separators leave no usable alphabet")

	// ErrInvalidHash 待解码的字符串不是当前配置能产生的 hash。
	ErrInvalidHash = errors.New("hashids: invalid hash")

	// ErrInvalidNumber EncodeHex 的输入不是合法的十六进制数字串。
	ErrInvalidNumber = errors.New("hashids: invalid number")
)

// HashError 描述解码失败的位置，errors.Is(err, ErrInvalidHash) 为 true。
type HashError struct {
	Offset int    // 出错字符在原始 hash 中的下标，-1 表示整体不合法
	Char   byte   // 出错字符（Offset < 0 时无意义）
	Reason string
}

func (e *HashError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("hashids: invalid hash: %s", e.Reason)
	}
	return fmt.Sprintf("hashids: invalid hash at offset %d (%q): %s", e.Offset, e.Char, e.Reason)
}

func (e *HashError) Unwrap() error {
	return ErrInvalidHash
}
