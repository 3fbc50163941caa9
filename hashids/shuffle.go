package hashids

// shuffle 按 salt 对 subject 做确定性的原地置换。
//
// salt 字节按有符号 8 位解释并符号扩展到 uint64，所有运算在 uint64 上回绕，
// 这样含 0x80 以上字节的 salt/字母表也能和已有的编码结果逐字节一致。
// salt 为空时不做任何事。
func shuffle(subject, salt []byte) {
	if len(salt) == 0 {
		return
	}

	saltLen := uint64(len(salt))
	var v, p uint64
	for i := len(subject) - 1; i > 0; i-- {
		if v == saltLen {
			v = 0
		}
		s := signed(salt[v])
		p += s
		j := (s + v + p) % uint64(i)
		subject[i], subject[j] = subject[j], subject[i]
		v++
	}
}

// signed 把字节当作 int8 再符号扩展成 uint64。
func signed(b byte) uint64 {
	return uint64(int64(int8(b)))
}
