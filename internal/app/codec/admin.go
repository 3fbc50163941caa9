package codec

import (
	"context"
	"errors"
	"time"
)

// CreateProfile 管理员创建 profile，没给 salt 时用主密钥派生
func (s *Service) CreateProfile(ctx context.Context, in ProfileInput, createdBy string) (Profile, error) {
	if s.store == nil {
		return Profile{}, ErrUnsupported
	}
	p, err := NewProfile(in, s.masterSecret)
	if err != nil {
		return Profile{}, err
	}
	p.CreatedBy = createdBy
	p.CreatedAt = s.now().UTC()

	created, err := s.store.Create(ctx, p)
	if err != nil {
		return Profile{}, err
	}
	s.registry.Invalidate(created.Name)
	return created, nil
}

// ListProfiles 内置 profile 排在最前
func (s *Service) ListProfiles(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	out := []*Entry{s.registry.Default()}
	if s.store == nil {
		return out, nil
	}
	profiles, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		c, err := Build(p)
		if err != nil {
			return nil, err
		}
		out = append(out, &Entry{Profile: p, Codec: c})
	}
	return out, nil
}

// DisableProfile 停用后该 profile 的编解码都返回 ErrProfileDisabled，
// 其它实例最多在 registry ttl 之后生效
func (s *Service) DisableProfile(ctx context.Context, name string) error {
	if name == DefaultProfile {
		return ErrBuiltinProfile
	}
	if ValidateName(name) != nil {
		return ErrProfileNotFound
	}
	if s.store == nil {
		return ErrProfileNotFound
	}
	if err := s.store.Disable(ctx, name); err != nil {
		return err
	}
	s.registry.Invalidate(name)
	return nil
}

// Usage 最近一段时间的用量汇总
func (s *Service) Usage(ctx context.Context, name string, window time.Duration) ([]UsageTotal, error) {
	if name != DefaultProfile {
		if _, err := s.registry.Lookup(ctx, name); err != nil && !errors.Is(err, ErrProfileDisabled) {
			return nil, err
		}
	}
	if s.usage == nil {
		return nil, ErrUnsupported
	}
	if window <= 0 {
		window = 24 * time.Hour
	}
	return s.usage.UsageSummary(ctx, name, s.now().Add(-window))
}
