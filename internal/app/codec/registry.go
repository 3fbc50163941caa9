package codec

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ProfileStore 持久化的 profile，repo.ProfilesRepo 实现
type ProfileStore interface {
	Get(ctx context.Context, name string) (Profile, error)
	Create(ctx context.Context, p Profile) (Profile, error)
	List(ctx context.Context, limit int) ([]Profile, error)
	Disable(ctx context.Context, name string) error
}

// Entry 是已经构建好的 profile，Codec 可以被所有请求共享
type Entry struct {
	Profile Profile
	Codec   Codec
}

// FingerprintHex 对外展示用
func (e *Entry) FingerprintHex() string {
	return fmt.Sprintf("%016x", e.Codec.Fingerprint())
}

type registryItem struct {
	entry   *Entry
	expires time.Time
}

// Registry 缓存 name -> codec。store 里的 profile 按 ttl 过期重新加载，
// 同名的并发加载合并成一次。
type Registry struct {
	store   ProfileStore
	builtin *Entry
	ttl     time.Duration
	now     func() time.Time

	mu    sync.RWMutex
	items map[string]registryItem
	gens  map[string]uint64 // Invalidate 每次加一，加载期间变了就不回写
	group singleflight.Group
}

// NewRegistry store 为 nil 时只有内置的 default profile
func NewRegistry(store ProfileStore, builtin Profile, ttl time.Duration) (*Registry, error) {
	builtin.Name = DefaultProfile
	if builtin.Kind == "" {
		builtin.Kind = KindHashids
	}
	c, err := Build(builtin)
	if err != nil {
		return nil, fmt.Errorf("build default profile: %w", err)
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Registry{
		store:   store,
		builtin: &Entry{Profile: builtin, Codec: c},
		ttl:     ttl,
		now:     time.Now,
		items:   make(map[string]registryItem),
		gens:    make(map[string]uint64),
	}, nil
}

// Lookup 返回可用的 profile，停用的返回 ErrProfileDisabled
func (r *Registry) Lookup(ctx context.Context, name string) (*Entry, error) {
	if name == DefaultProfile {
		return r.builtin, nil
	}
	if ValidateName(name) != nil || r.store == nil {
		return nil, ErrProfileNotFound
	}

	r.mu.RLock()
	it, ok := r.items[name]
	r.mu.RUnlock()
	if ok && r.now().Before(it.expires) {
		return checkDisabled(it.entry)
	}

	v, err, _ := r.group.Do(name, func() (any, error) {
		// 调用方取消不应该影响合并进来的其它请求
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		return r.load(loadCtx, name)
	})
	if err != nil {
		return nil, err
	}
	return checkDisabled(v.(*Entry))
}

func (r *Registry) load(ctx context.Context, name string) (*Entry, error) {
	r.mu.RLock()
	gen := r.gens[name]
	r.mu.RUnlock()

	p, err := r.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	c, err := Build(p)
	if err != nil {
		return nil, err
	}
	e := &Entry{Profile: p, Codec: c}

	r.mu.Lock()
	if r.gens[name] == gen {
		r.items[name] = registryItem{entry: e, expires: r.now().Add(r.ttl)}
	}
	r.mu.Unlock()
	return e, nil
}

// Invalidate 删掉本地缓存，下次 Lookup 重新从 store 读
func (r *Registry) Invalidate(name string) {
	r.mu.Lock()
	delete(r.items, name)
	r.gens[name]++
	r.mu.Unlock()
	r.group.Forget(name)
}

// Default 内置 profile
func (r *Registry) Default() *Entry {
	return r.builtin
}

func checkDisabled(e *Entry) (*Entry, error) {
	if e.Profile.Disabled {
		return nil, ErrProfileDisabled
	}
	return e, nil
}

