package hashids

// EstimateEncodedSize 返回 Encode(numbers) 结果长度的上界再加 1，
// 与 C 风格的缓冲区大小约定一致（末尾留一个终止符的位置）。
//
// 数字位数按实际除法计算，填充部分逐轮模拟，因此上界是精确的。
func (h *Hashids) EstimateEncodedSize(numbers []uint64) int {
	if len(numbers) == 0 {
		return 1
	}

	size := uint64(len(h.alphabet))
	n := 1 + len(numbers) - 1 // lottery + 分隔符
	for _, x := range numbers {
		n += digitCount(x, size)
	}

	if n < h.minLength {
		n++
		if n < h.minLength {
			n++
		}
		for n < h.minLength {
			left, right := padSplit(h.minLength-n, len(h.alphabet))
			n += left + right
		}
	}
	return n + 1
}

// digitCount x 在 base 进制下的位数，0 占一位。
func digitCount(x, base uint64) int {
	d := 1
	for x >= base {
		x /= base
		d++
	}
	return d
}
