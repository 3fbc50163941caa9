package hashids

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

const (
	// Version 与编码结果兼容的 hashids 算法版本。
	Version = "1.0.1"

	// DefaultAlphabet 默认字母表。
	DefaultAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890"

	// DefaultSeparators 默认分隔符候选集，只有出现在字母表里的才会被使用。
	DefaultSeparators = "cfhistuCFHISTU"

	// MinAlphabetLength 去重后字母表的最小长度。
	MinAlphabetLength = 16
)

// Options 构造 Hashids 的参数。零值可用：空 salt、默认字母表、不填充。
type Options struct {
	Salt string

	// Alphabet 为空时使用 DefaultAlphabet。重复字符按首次出现保留。
	Alphabet string

	// MinLength 编码结果的最小长度，负数按 0 处理。
	MinLength int

	// Separators 为空时使用 DefaultSeparators。
	Separators string
}

const (
	classNone byte = iota
	classAlphabet
	classSeparator
	classGuard
)

// Hashids 一份不可变的编码配置。
type Hashids struct {
	salt      []byte
	alphabet  []byte
	seps      []byte
	guards    []byte
	minLength int

	class       [256]byte
	fingerprint uint64
}

// New 按 opts 派生字母表、分隔符和 guard。
func New(opts Options) (*Hashids, error) {
	raw := opts.Alphabet
	if raw == "" {
		raw = DefaultAlphabet
	}
	sepSet := opts.Separators
	if sepSet == "" {
		sepSet = DefaultSeparators
	}

	h := &Hashids{
		salt:      []byte(opts.Salt),
		minLength: max(opts.MinLength, 0),
	}
	set, err := partition([]byte(raw), []byte(sepSet), h.salt)
	if err != nil {
		return nil, err
	}
	h.alphabet, h.seps, h.guards = set.alphabet, set.seps, set.guards

	for _, c := range h.alphabet {
		h.class[c] = classAlphabet
	}
	for _, c := range h.seps {
		h.class[c] = classSeparator
	}
	for _, c := range h.guards {
		h.class[c] = classGuard
	}
	h.fingerprint = fingerprint(h)
	return h, nil
}

// NewWithSalt 默认字母表，不填充。
func NewWithSalt(salt string) (*Hashids, error) {
	return New(Options{Salt: salt})
}

// NewWithMinLength 默认字母表，结果至少 minLength 个字符。
func NewWithMinLength(salt string, minLength int) (*Hashids, error) {
	return New(Options{Salt: salt, MinLength: minLength})
}

// Must panics if err is non-nil. Intended for package-level variables.
func Must(h *Hashids, err error) *Hashids {
	if err != nil {
		panic(err)
	}
	return h
}

// Alphabet 返回洗牌后用于数字的字符。
func (h *Hashids) Alphabet() string { return string(h.alphabet) }

// Separators 返回数字之间使用的分隔符。
func (h *Hashids) Separators() string { return string(h.seps) }

// Guards 返回填充时使用的 guard 字符。
func (h *Hashids) Guards() string { return string(h.guards) }

func (h *Hashids) MinLength() int { return h.minLength }

// Fingerprint 标识一份配置，不泄露 salt。
// 两个 Hashids 的 Fingerprint 相同，编码结果就相同。
func (h *Hashids) Fingerprint() uint64 { return h.fingerprint }

func fingerprint(h *Hashids) uint64 {
	d := xxhash.New()
	var n [8]byte
	for _, part := range [][]byte{h.salt, h.alphabet, h.seps, h.guards} {
		binary.BigEndian.PutUint64(n[:], uint64(len(part)))
		_, _ = d.Write(n[:])
		_, _ = d.Write(part)
	}
	binary.BigEndian.PutUint64(n[:], uint64(h.minLength))
	_, _ = d.Write(n[:])
	return d.Sum64()
}
