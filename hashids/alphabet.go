package hashids

// charsets 一次划分得到的三组互不相交的字符。
type charsets struct {
	alphabet []byte
	seps     []byte
	guards   []byte
}

// partition 把原始字母表拆成 alphabet / separators / guards。
//
//	seps   ≈ ceil(len(alphabet) / 3.5)，调整后至少 2 个
//	guards = ceil(len(alphabet) / 12)
func partition(raw, sepSet, salt []byte) (charsets, error) {
	var seen [256]bool
	uniq := make([]byte, 0, len(raw))
	for _, c := range raw {
		if !seen[c] {
			seen[c] = true
			uniq = append(uniq, c)
		}
	}
	if len(uniq) < MinAlphabetLength {
		return charsets{}, ErrAlphabetTooShort
	}
	if seen[' '] || seen['\t'] {
		return charsets{}, ErrAlphabetHasSpace
	}

	// 分隔符按候选集自身的顺序取
	var isSep [256]bool
	seps := make([]byte, 0, len(sepSet))
	for _, c := range sepSet {
		if seen[c] && !isSep[c] {
			isSep[c] = true
			seps = append(seps, c)
		}
	}
	alphabet := make([]byte, 0, len(uniq))
	for _, c := range uniq {
		if !isSep[c] {
			alphabet = append(alphabet, c)
		}
	}

	shuffle(seps, salt)

	// len(alphabet)/len(seps) > 3.5
	if len(seps) == 0 || 2*len(alphabet) > 7*len(seps) {
		target := (2*len(alphabet) + 6) / 7
		if target == 1 {
			target = 2
		}
		if target > len(seps) {
			diff := min(target-len(seps), len(alphabet))
			seps = append(seps, alphabet[:diff]...)
			alphabet = alphabet[diff:]
		} else {
			seps = seps[:target]
		}
	}

	shuffle(alphabet, salt)

	n := (len(alphabet) + 11) / 12
	var guards []byte
	if len(alphabet) < 3 {
		n = min(n, len(seps))
		guards, seps = seps[:n], seps[n:]
	} else {
		guards, alphabet = alphabet[:n], alphabet[n:]
	}

	if len(alphabet) < 2 || len(seps) == 0 || len(guards) == 0 {
		return charsets{}, ErrInvalidSeparators
	}
	return charsets{
		alphabet: clip(alphabet),
		seps:     clip(seps),
		guards:   clip(guards),
	}, nil
}

func clip(b []byte) []byte {
	return append([]byte(nil), b...)
}
