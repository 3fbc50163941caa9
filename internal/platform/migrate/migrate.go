package migrate

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB 是迁移需要的最小连接能力，*pgxpool.Pool 满足
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Options struct {
	// Dir 不为空时从磁盘目录读取，优先于 FS
	Dir string
	// FS 内置迁移文件（migrations.FS）
	FS fs.FS
}

type Result struct {
	Source       string
	AppliedFiles []string
	SkippedFiles []string
}

func Up(ctx context.Context, db DB, opts Options) (*Result, error) {
	src, name, err := resolveSource(opts)
	if err != nil {
		return nil, err
	}

	if err := ensureTable(ctx, db); err != nil {
		return nil, err
	}

	files, err := listSQLFiles(src)
	if err != nil {
		return nil, err
	}

	res := &Result{Source: name}
	for _, file := range files {
		applied, err := isApplied(ctx, db, file)
		if err != nil {
			return nil, err
		}
		if applied {
			res.SkippedFiles = append(res.SkippedFiles, file)
			continue
		}
		if err := applyFile(ctx, db, src, file); err != nil {
			return nil, err
		}
		slog.Info("migration applied", "file", file)
		res.AppliedFiles = append(res.AppliedFiles, file)
	}

	return res, nil
}

func ensureTable(ctx context.Context, db DB) error {
	_, err := db.Exec(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`)
	return err
}

// listSQLFiles 只取顶层的 .sql 文件，按文件名排序
func listSQLFiles(src fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(src, ".")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(path.Ext(e.Name()), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func isApplied(ctx context.Context, db DB, version string) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version=$1)`, version).Scan(&exists)
	return exists, err
}

func applyFile(ctx context.Context, db DB, src fs.FS, filename string) error {
	sqlBytes, err := fs.ReadFile(src, filename)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", filename, err)
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, string(sqlBytes)); err != nil {
		return fmt.Errorf("apply migration %s: %w", filename, err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES ($1,$2)`, filename, time.Now()); err != nil {
		return fmt.Errorf("record migration %s: %w", filename, err)
	}

	return tx.Commit(ctx)
}

func resolveSource(opts Options) (fs.FS, string, error) {
	if dir := strings.TrimSpace(opts.Dir); dir != "" {
		dir = filepath.Clean(dir)
		st, err := os.Stat(dir)
		if err != nil || !st.IsDir() {
			return nil, "", fmt.Errorf("migrations dir not found: %s", dir)
		}
		return os.DirFS(dir), dir, nil
	}
	if opts.FS != nil {
		return opts.FS, "embedded", nil
	}
	return nil, "", fmt.Errorf("no migrations source configured")
}
