package main

import "strconv"

// parseNumber 按 C 的习惯识别进制：0x 前缀十六进制，前导 0 八进制，其余十进制。
func parseNumber(s string) (uint64, error) {
	digits, base := s, 10
	switch {
	case len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X'):
		digits, base = s[2:], 16
	case len(s) > 1 && s[0] == '0':
		digits, base = s[1:], 8
	}
	n, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return 0, &invalidNumberError{arg: s}
	}
	return n, nil
}
