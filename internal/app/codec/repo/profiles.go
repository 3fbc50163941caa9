package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"hashids.local/internal/app/codec"
)

const profileColumns = `name, kind, salt, alphabet, min_length, disabled, created_by, created_at`

type ProfilesRepo struct {
	db *pgxpool.Pool
}

func NewProfilesRepo(db *pgxpool.Pool) *ProfilesRepo {
	return &ProfilesRepo{db: db}
}

func scanProfile(row pgx.Row) (codec.Profile, error) {
	var p codec.Profile
	var kind string
	if err := row.Scan(&p.Name, &kind, &p.Salt, &p.Alphabet, &p.MinLength, &p.Disabled, &p.CreatedBy, &p.CreatedAt); err != nil {
		return codec.Profile{}, err
	}
	p.Kind = codec.Kind(kind)
	return p, nil
}

func (r *ProfilesRepo) Get(ctx context.Context, name string) (codec.Profile, error) {
	dbctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	p, err := scanProfile(r.db.QueryRow(dbctx, `SELECT `+profileColumns+` FROM codec_profiles WHERE name=$1`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return codec.Profile{}, codec.ErrProfileNotFound
		}
		slog.Error("get profile failed", "name", name, "err", err)
		return codec.Profile{}, err
	}
	return p, nil
}

// Create 同名已存在返回 codec.ErrProfileExists
func (r *ProfilesRepo) Create(ctx context.Context, p codec.Profile) (codec.Profile, error) {
	dbctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	created, err := scanProfile(r.db.QueryRow(dbctx,
		`INSERT INTO codec_profiles (name, kind, salt, alphabet, min_length, created_by, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 RETURNING `+profileColumns,
		p.Name, string(p.Kind), p.Salt, p.Alphabet, p.MinLength, p.CreatedBy, p.CreatedAt,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return codec.Profile{}, codec.ErrProfileExists
		}
		slog.Error("create profile failed", "name", p.Name, "err", err)
		return codec.Profile{}, err
	}
	return created, nil
}

func (r *ProfilesRepo) List(ctx context.Context, limit int) ([]codec.Profile, error) {
	dbctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.db.Query(dbctx, `SELECT `+profileColumns+` FROM codec_profiles ORDER BY created_at DESC, name LIMIT $1`, limit)
	if err != nil {
		slog.Error("list profiles failed", "err", err)
		return nil, err
	}
	defer rows.Close()

	var out []codec.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		slog.Error("list profiles failed", "err", err)
		return nil, err
	}
	return out, nil
}

// Disable 已停用的再次停用是幂等的
func (r *ProfilesRepo) Disable(ctx context.Context, name string) error {
	dbctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	tag, err := r.db.Exec(dbctx,
		`UPDATE codec_profiles SET disabled=true, disabled_at=COALESCE(disabled_at, now()) WHERE name=$1`, name)
	if err != nil {
		slog.Error("disable profile failed", "name", name, "err", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return codec.ErrProfileNotFound
	}
	return nil
}

func (r *ProfilesRepo) UsageSummary(ctx context.Context, name string, since time.Time) ([]codec.UsageTotal, error) {
	dbctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.db.Query(dbctx, `
		SELECT op, COUNT(*), COALESCE(SUM(numbers), 0)
		FROM codec_usage
		WHERE profile=$1 AND occurred_at >= $2
		GROUP BY op
		ORDER BY op`, name, since)
	if err != nil {
		return nil, fmt.Errorf("usage summary: %w", err)
	}
	defer rows.Close()

	var out []codec.UsageTotal
	for rows.Next() {
		var t codec.UsageTotal
		if err := rows.Scan(&t.Op, &t.Requests, &t.Numbers); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
