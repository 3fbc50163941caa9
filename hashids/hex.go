package hashids

import (
	"strconv"
	"strings"
)

// EncodeHex 编码一个十六进制数字串（大小写均可）。
// 前面补一个 "1" 以保留前导零，所以最多 15 位十六进制数字。
func (h *Hashids) EncodeHex(hex string) (string, error) {
	if hex == "" {
		return "", ErrInvalidNumber
	}
	n, err := strconv.ParseUint("1"+hex, 16, 64)
	if err != nil {
		return "", ErrInvalidNumber
	}
	return h.EncodeOne(n), nil
}

// DecodeHex 是 EncodeHex 的逆操作，返回大写十六进制。
func (h *Hashids) DecodeHex(hash string) (string, error) {
	numbers, err := h.Decode(hash)
	if err != nil {
		return "", err
	}
	if len(numbers) != 1 {
		return "", &HashError{Offset: -1, Reason: "hex hash must hold exactly one number"}
	}
	s := strings.ToUpper(strconv.FormatUint(numbers[0], 16))
	if len(s) < 2 || s[0] != '1' {
		return "", &HashError{Offset: -1, Reason: "missing hex marker"}
	}
	return s[1:], nil
}
