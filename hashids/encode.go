package hashids

// Encode 把 numbers 编码成字符串，空切片返回 ""。
func (h *Hashids) Encode(numbers []uint64) string {
	if len(numbers) == 0 {
		return ""
	}
	buf := make([]byte, 0, h.EstimateEncodedSize(numbers)-1)
	return string(h.AppendEncode(buf, numbers))
}

// EncodeOne is shorthand for Encode([]uint64{n}).
func (h *Hashids) EncodeOne(n uint64) string {
	return h.Encode([]uint64{n})
}

// AppendEncode 把编码结果追加到 dst 并返回扩展后的切片。
func (h *Hashids) AppendEncode(dst []byte, numbers []uint64) []byte {
	if len(numbers) == 0 {
		return dst
	}

	size := uint64(len(h.alphabet))
	work := clip(h.alphabet)

	var numbersHash uint64
	for i, n := range numbers {
		numbersHash += n % uint64(i+100)
	}

	lottery := work[numbersHash%size]
	start := len(dst)
	out := append(dst, lottery)

	isalt, fillFrom := h.iterationSalt(lottery)

	var digits [64]byte
	for i, n := range numbers {
		copy(isalt[fillFrom:], work)
		shuffle(work, isalt)

		k := len(digits)
		for x := n; ; {
			k--
			digits[k] = work[x%size]
			x /= size
			if x == 0 {
				break
			}
		}
		out = append(out, digits[k:]...)

		if i+1 < len(numbers) {
			// 以该数字的最高位字符选分隔符
			m := signed(digits[k]) + uint64(i)
			x := n
			if m != 0 {
				x %= m
			}
			out = append(out, h.seps[x%uint64(len(h.seps))])
		}
	}

	if len(out)-start >= h.minLength {
		return out
	}
	return h.pad(dst[:start], out[start:], work, numbersHash)
}

// iterationSalt 返回 lottery + salt 开头、长度等于字母表的缓冲，
// 以及每轮用工作字母表填充的起始下标。
func (h *Hashids) iterationSalt(lottery byte) ([]byte, int) {
	isalt := make([]byte, len(h.alphabet))
	isalt[0] = lottery
	return isalt, 1 + copy(isalt[1:], h.salt)
}

// pad 用 guard 和反复洗牌的工作字母表把 hash 填充到 minLength。
func (h *Hashids) pad(dst, hash, work []byte, numbersHash uint64) []byte {
	guardLen := uint64(len(h.guards))
	buf := make([]byte, 0, h.minLength+len(work))

	buf = append(buf, h.guards[(numbersHash+signed(hash[0]))%guardLen])
	buf = append(buf, hash...)

	if len(buf) < h.minLength {
		buf = append(buf, h.guards[(numbersHash+signed(buf[2]))%guardLen])
	}

	size := len(work)
	salt := make([]byte, size)
	for len(buf) < h.minLength {
		copy(salt, work)
		shuffle(work, salt)

		left, right := padSplit(h.minLength-len(buf), size)
		next := make([]byte, 0, len(buf)+left+right)
		next = append(next, work[size-left:]...)
		next = append(next, buf...)
		next = append(next, work[:right]...)
		buf = next
	}
	return append(dst, buf...)
}

// padSplit 一轮填充从工作字母表尾部取 left 个、头部取 right 个字符。
func padSplit(deficit, size int) (left, right int) {
	left = min((deficit+1)/2, (size+1)/2)
	right = min(deficit/2, size/2)
	if left == 1 && right == 1 {
		left, right = 2, 0
	}
	return left, right
}
