package hashids

import (
	"bytes"
	"math/bits"
)

// Decode 还原 hash 中的数字。
// 不是当前配置产生的字符串返回的错误满足 errors.Is(err, ErrInvalidHash)。
func (h *Hashids) Decode(hash string) ([]uint64, error) {
	body, offset, err := h.body(hash)
	if err != nil {
		return nil, err
	}

	size := uint64(len(h.alphabet))
	work := clip(h.alphabet)
	isalt, fillFrom := h.iterationSalt(body[0])
	copy(isalt[fillFrom:], work)
	shuffle(work, isalt)

	numbers := make([]uint64, 0, 1)
	var n uint64
	for i := 1; i < len(body); i++ {
		c := body[i]
		switch h.class[c] {
		case classGuard:
			return append(numbers, n), nil
		case classSeparator:
			numbers = append(numbers, n)
			n = 0
			copy(isalt[fillFrom:], work)
			shuffle(work, isalt)
		case classAlphabet:
			hi, lo := bits.Mul64(n, size)
			sum, carry := bits.Add64(lo, uint64(bytes.IndexByte(work, c)), 0)
			if hi != 0 || carry != 0 {
				return nil, &HashError{Offset: offset + i, Char: c, Reason: "number overflows uint64"}
			}
			n = sum
		default:
			return nil, &HashError{Offset: offset + i, Char: c, Reason: "character not in alphabet"}
		}
	}
	return append(numbers, n), nil
}

// CountNumbers 返回 hash 中编码的数字个数，不做还原。
// 对非法字符的判定与 Decode 一致。
func (h *Hashids) CountNumbers(hash string) (int, error) {
	body, offset, err := h.body(hash)
	if err != nil {
		return 0, err
	}

	count := 1
	for i := 1; i < len(body); i++ {
		switch h.class[body[i]] {
		case classGuard:
			return count, nil
		case classSeparator:
			count++
		case classAlphabet:
		default:
			return 0, &HashError{Offset: offset + i, Char: body[i], Reason: "character not in alphabet"}
		}
	}
	return count, nil
}

// body 去掉前导 guard，返回以 lottery 开头的部分及其在 hash 中的偏移。
func (h *Hashids) body(hash string) (string, int, error) {
	offset := 0
	if h.minLength > 0 {
		for i := 0; i < len(hash); i++ {
			if h.class[hash[i]] == classGuard {
				offset = i + 1
				break
			}
		}
	}
	body := hash[offset:]
	if body == "" {
		return "", 0, &HashError{Offset: -1, Reason: "empty"}
	}
	if h.class[body[0]] != classAlphabet {
		return "", 0, &HashError{Offset: offset, Char: body[0], Reason: "lottery character not in alphabet"}
	}
	return body, offset, nil
}
