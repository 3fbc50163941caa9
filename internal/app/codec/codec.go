package codec

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/sqids/sqids-go"
	"golang.org/x/crypto/hkdf"

	"hashids.local/hashids"
)

// Codec 把一组数字编码成短字符串，Decode 只接受 Encode 会产生的规范形式
type Codec interface {
	Encode(numbers []uint64) (string, error)
	Decode(hash string) ([]uint64, error)
	// Fingerprint 标识一组参数，不泄露 salt
	Fingerprint() uint64
}

// HexCodec 支持十六进制串编码的 codec
type HexCodec interface {
	EncodeHex(hex string) (string, error)
	DecodeHex(hash string) (string, error)
}

// Build 按 profile 构建 codec，构建好的 codec 可以并发使用
func Build(p Profile) (Codec, error) {
	switch p.Kind {
	case KindHashids, "":
		h, err := hashids.New(hashids.Options{
			Salt:      p.Salt,
			Alphabet:  p.Alphabet,
			MinLength: p.MinLength,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidProfile, err)
		}
		return hashidsCodec{h: h}, nil
	case KindSqids:
		return newSqidsCodec(p)
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidProfile, p.Kind)
	}
}

type hashidsCodec struct {
	h *hashids.Hashids
}

func (c hashidsCodec) Encode(numbers []uint64) (string, error) {
	if len(numbers) == 0 {
		return "", ErrEmptyNumbers
	}
	return c.h.Encode(numbers), nil
}

func (c hashidsCodec) Decode(hash string) ([]uint64, error) {
	numbers, err := c.h.Decode(hash)
	if err != nil {
		return nil, err
	}
	// 重新编码必须得到原串，拒绝手工拼出来的非规范 hash
	if c.h.Encode(numbers) != hash {
		return nil, &hashids.HashError{Offset: -1, Reason: "not a canonical hash"}
	}
	return numbers, nil
}

func (c hashidsCodec) EncodeHex(hex string) (string, error) {
	return c.h.EncodeHex(hex)
}

func (c hashidsCodec) DecodeHex(hash string) (string, error) {
	hex, err := c.h.DecodeHex(hash)
	if err != nil {
		return "", err
	}
	if again, err := c.h.EncodeHex(hex); err != nil || again != hash {
		return "", &hashids.HashError{Offset: -1, Reason: "not a canonical hash"}
	}
	return hex, nil
}

func (c hashidsCodec) Fingerprint() uint64 {
	return c.h.Fingerprint()
}

type sqidsCodec struct {
	s           *sqids.Sqids
	fingerprint uint64
}

func newSqidsCodec(p Profile) (Codec, error) {
	alphabet, err := permuteAlphabet(p.Alphabet, p.Salt)
	if err != nil {
		return nil, err
	}
	s, err := sqids.New(sqids.Options{
		Alphabet:  alphabet,
		MinLength: uint8(p.MinLength),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}

	d := xxhash.New()
	_, _ = d.WriteString("sqids\x00")
	_, _ = d.WriteString(alphabet)
	_, _ = d.Write([]byte{0, byte(p.MinLength)})
	return &sqidsCodec{s: s, fingerprint: d.Sum64()}, nil
}

func (c *sqidsCodec) Encode(numbers []uint64) (string, error) {
	if len(numbers) == 0 {
		return "", ErrEmptyNumbers
	}
	id, err := c.s.Encode(numbers)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidNumber, err)
	}
	return id, nil
}

func (c *sqidsCodec) Decode(hash string) ([]uint64, error) {
	if hash == "" {
		return nil, &hashids.HashError{Offset: -1, Reason: "empty hash"}
	}
	numbers := c.s.Decode(hash)
	if len(numbers) == 0 {
		return nil, &hashids.HashError{Offset: -1, Reason: "no numbers"}
	}
	if again, err := c.s.Encode(numbers); err != nil || again != hash {
		return nil, &hashids.HashError{Offset: -1, Reason: "not a canonical hash"}
	}
	return numbers, nil
}

func (c *sqidsCodec) Fingerprint() uint64 {
	return c.fingerprint
}

const alphabetInfo = "hashids.local/sqids-alphabet/v1"

// permuteAlphabet 用 salt 派生的 HKDF 字节流做 Fisher-Yates 洗牌，
// 让同一字母表在不同 salt 下得到不同的 sqids 输出
func permuteAlphabet(alphabet, salt string) (string, error) {
	b := []byte(alphabet)
	if len(b) < 2 {
		return "", fmt.Errorf("%w: alphabet too short", ErrInvalidProfile)
	}
	if salt == "" {
		return alphabet, nil
	}
	r := hkdf.New(sha256.New, []byte(salt), nil, []byte(alphabetInfo))
	var word [8]byte
	for i := len(b) - 1; i > 0; i-- {
		if _, err := io.ReadFull(r, word[:]); err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
				return "", fmt.Errorf("%w: alphabet too long", ErrInvalidProfile)
			}
			return "", err
		}
		j := binary.BigEndian.Uint64(word[:]) % uint64(i+1)
		b[i], b[j] = b[j], b[i]
	}
	return string(b), nil
}
