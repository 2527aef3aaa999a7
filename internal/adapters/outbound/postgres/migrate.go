package postgres

import (
	"cmp"
	"context"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io/fs"
	"slices"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const migrationLockKey = "return_app_migrations"

// Migration is one forward-only schema step, named NNNN_name.up.sql.
type Migration struct {
	Version  int64
	Name     string
	SQL      string
	Checksum string
}

// RunMigrations applies the *.up.sql files of fsys that schema_migrations
// does not list yet, in version order, one transaction each. An applied file
// whose content changed afterwards stops the run.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS, log *zap.Logger) error {
	migs, err := loadMigrations(fsys, ".")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	if len(migs) == 0 {
		return nil
	}

	// Replicas starting together serialize here.
	lockID := advisoryLockID(migrationLockKey)
	if _, err := pool.Exec(ctx, `SELECT pg_advisory_lock($1)`, lockID); err != nil {
		return fmt.Errorf("advisory lock: %w", err)
	}
	defer func() { _, _ = pool.Exec(context.WithoutCancel(ctx), `SELECT pg_advisory_unlock($1)`, lockID) }()

	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    BIGINT PRIMARY KEY,
			name       TEXT NOT NULL,
			checksum   TEXT NOT NULL DEFAULT '',
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied, err := appliedChecksums(ctx, pool)
	if err != nil {
		return err
	}

	pending := 0
	for _, m := range migs {
		if sum, ok := applied[m.Version]; ok {
			if sum != "" && sum != m.Checksum {
				return fmt.Errorf("migration %s was edited after it was applied", m.Name)
			}
			continue
		}

		err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, m.SQL); err != nil {
				return fmt.Errorf("exec %s: %w", m.Name, err)
			}
			_, err := tx.Exec(ctx,
				`INSERT INTO schema_migrations (version, name, checksum) VALUES ($1, $2, $3)`,
				m.Version, m.Name, m.Checksum)
			return err
		})
		if err != nil {
			return fmt.Errorf("migration v%d: %w", m.Version, err)
		}
		pending++
		log.Info("migration applied", zap.Int64("version", m.Version), zap.String("name", m.Name))
	}

	log.Info("schema up to date", zap.Int("applied", pending), zap.Int("known", len(migs)))
	return nil
}

func appliedChecksums(ctx context.Context, pool *pgxpool.Pool) (map[int64]string, error) {
	rows, err := pool.Query(ctx, `SELECT version, checksum FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("query schema_migrations: %w", err)
	}
	out := make(map[int64]string)
	var (
		v   int64
		sum string
	)
	_, err = pgx.ForEachRow(rows, []any{&v, &sum}, func() error {
		out[v] = sum
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan schema_migrations: %w", err)
	}
	return out, nil
}

// loadMigrations reads the *.up.sql files directly under dir. Other files,
// down scripts included, are ignored.
func loadMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	names, err := fs.Glob(fsys, globPattern(dir))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", dir, err)
	}

	migs := make([]Migration, 0, len(names))
	for _, p := range names {
		name := p[strings.LastIndex(p, "/")+1:]
		version, ok := parseVersion(name)
		if !ok {
			return nil, fmt.Errorf("invalid migration filename %s, want NNNN_name.up.sql", name)
		}
		b, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		sum := sha256.Sum256(b)
		migs = append(migs, Migration{
			Version:  version,
			Name:     name,
			SQL:      string(b),
			Checksum: hex.EncodeToString(sum[:]),
		})
	}

	slices.SortFunc(migs, func(a, b Migration) int { return cmp.Compare(a.Version, b.Version) })
	for i := 1; i < len(migs); i++ {
		if migs[i].Version == migs[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d: %s and %s", migs[i].Version, migs[i-1].Name, migs[i].Name)
		}
	}
	return migs, nil
}

func globPattern(dir string) string {
	if dir == "" || dir == "." {
		return "*.up.sql"
	}
	return strings.TrimSuffix(dir, "/") + "/*.up.sql"
}

func parseVersion(filename string) (int64, bool) {
	prefix, _, found := strings.Cut(filename, "_")
	if !found {
		return 0, false
	}
	v, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func advisoryLockID(key string) int64 {
	sum := sha1.Sum([]byte(key))
	return int64(binary.BigEndian.Uint64(sum[:8]))
}
