package codec

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"

	"hashids.local/hashids"
)

// Kind 决定 profile 用哪种编码
type Kind string

const (
	KindHashids Kind = "hashids"
	KindSqids   Kind = "sqids"
)

// DefaultProfile 是由配置生成的内置 profile，不存数据库
const DefaultProfile = "default"

// MaxMinLength 受 sqids 的 uint8 限制，两种编码统一
const MaxMinLength = 255

// Profile 一组编码参数。Salt 只在服务端使用，不对外返回。
type Profile struct {
	Name      string
	Kind      Kind
	Salt      string
	Alphabet  string
	MinLength int
	Disabled  bool
	CreatedBy string
	CreatedAt time.Time
}

// ProfileInput 是创建 profile 的输入，空字段用默认值
type ProfileInput struct {
	Name      string
	Kind      string
	Salt      string
	Alphabet  string
	MinLength int
}

func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindHashids:
		return KindHashids, nil
	case KindSqids:
		return KindSqids, nil
	default:
		return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidProfile, s)
	}
}

var nameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{1,31}$`)

var reservedNames = map[string]struct{}{
	DefaultProfile: {},
	"admin":        {},
	"api":          {},
	"healthz":      {},
	"metrics":      {},
}

// ValidateName 校验 profile 名：小写字母数字开头，2~32 位，不能用保留名
func ValidateName(name string) error {
	if !nameRe.MatchString(name) {
		return ErrInvalidName
	}
	if _, ok := reservedNames[name]; ok {
		return ErrInvalidName
	}
	return nil
}

const saltInfo = "hashids.local/profile-salt/v1"

// DeriveSalt 用 HKDF-SHA256 从主密钥派生 profile 的 salt，同名同密钥结果固定
func DeriveSalt(master, name string) (string, error) {
	if master == "" {
		return "", ErrNoMasterSecret
	}
	r := hkdf.New(sha256.New, []byte(master), []byte(saltInfo), []byte(name))
	buf := make([]byte, 24)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("derive salt: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// NewProfile 把输入补全成可用的 Profile，并确认能构建出 codec
func NewProfile(in ProfileInput, master string) (Profile, error) {
	name := strings.TrimSpace(in.Name)
	if err := ValidateName(name); err != nil {
		return Profile{}, err
	}
	kind, err := ParseKind(in.Kind)
	if err != nil {
		return Profile{}, err
	}
	if in.MinLength < 0 || in.MinLength > MaxMinLength {
		return Profile{}, fmt.Errorf("%w: min_length must be within 0..%d", ErrInvalidProfile, MaxMinLength)
	}

	p := Profile{
		Name:      name,
		Kind:      kind,
		Salt:      in.Salt,
		Alphabet:  in.Alphabet,
		MinLength: in.MinLength,
	}
	if p.Alphabet == "" {
		p.Alphabet = hashids.DefaultAlphabet
	}
	if p.Salt == "" {
		if p.Salt, err = DeriveSalt(master, name); err != nil {
			return Profile{}, err
		}
	}
	if _, err := Build(p); err != nil {
		return Profile{}, err
	}
	return p, nil
}
