package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/vaheed/coursenova/pkg/types"
)

const pgUniqueViolation = "23505"

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Postgres is a Store backed by PostgreSQL through the pgx stdlib driver.
type Postgres struct {
	db    *sql.DB
	q     dbtx
	owned bool
}

// NewPostgres opens the pool, checks connectivity and applies pending migrations.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(1 * time.Hour)

	st := &Postgres{db: db, q: db, owned: true}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if err := st.init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return st, nil
}

// BeginTx returns a store whose statements all run inside tx. Committing or
// rolling back is up to the caller; Close on the returned store is a no-op.
func (p *Postgres) BeginTx(ctx context.Context) (*Postgres, *sql.Tx, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	return &Postgres{db: p.db, q: tx}, tx, nil
}

func (p *Postgres) init(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (id TEXT PRIMARY KEY, applied_at TIMESTAMPTZ NOT NULL)`); err != nil {
		return err
	}
	for _, m := range migrations {
		applied, err := p.isApplied(ctx, m.ID)
		if err != nil {
			return err
		}
		if applied {
			continue
		}
		if err := p.applyMigration(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (p *Postgres) Close(ctx context.Context) error {
	if !p.owned {
		return nil
	}
	return p.db.Close()
}

func (p *Postgres) Health(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func handleSQLError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrConflict
	}
	return err
}

const courseColumns = `id, name, description, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (*types.Course, error) {
	var c types.Course
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return &c, nil
}

// whereClause renders the filter as a WHERE clause with numbered placeholders.
func whereClause(f types.CourseFilter) (string, []any) {
	var conds []string
	var args []any
	if f.ID != nil {
		args = append(args, *f.ID)
		conds = append(conds, fmt.Sprintf("id=$%d", len(args)))
	}
	if f.Name != nil {
		args = append(args, *f.Name)
		conds = append(conds, fmt.Sprintf("name=$%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (p *Postgres) CreateCourse(ctx context.Context, c *types.Course) error {
	c.CreatedAt = stamp(c.CreatedAt)
	c.UpdatedAt = c.CreatedAt
	err := p.q.QueryRowContext(ctx, `
		INSERT INTO courses (name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, c.Name, c.Description, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	return handleSQLError(err)
}

func (p *Postgres) GetCourse(ctx context.Context, id int64) (*types.Course, error) {
	c, err := scanCourse(p.q.QueryRowContext(ctx, `SELECT `+courseColumns+` FROM courses WHERE id=$1`, id))
	if err != nil {
		return nil, handleSQLError(err)
	}
	return c, nil
}

func (p *Postgres) ListCourses(ctx context.Context, f types.CourseFilter) ([]*types.Course, error) {
	where, args := whereClause(f)
	rows, err := p.q.QueryContext(ctx, `SELECT `+courseColumns+` FROM courses`+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*types.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (p *Postgres) UpdateCourse(ctx context.Context, c *types.Course) error {
	c.UpdatedAt = time.Now().UTC()
	err := p.q.QueryRowContext(ctx, `
		UPDATE courses SET name=$1, description=$2, updated_at=$3 WHERE id=$4
		RETURNING created_at
	`, c.Name, c.Description, c.UpdatedAt, c.ID).Scan(&c.CreatedAt)
	if err != nil {
		return handleSQLError(err)
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return nil
}

func (p *Postgres) DeleteCourse(ctx context.Context, id int64) error {
	res, err := p.q.ExecContext(ctx, `DELETE FROM courses WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) CourseExists(ctx context.Context, f types.CourseFilter) (bool, error) {
	where, args := whereClause(f)
	var ok bool
	if err := p.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM courses`+where+`)`, args...).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

type migration struct {
	ID  string
	SQL string
}

var migrations = []migration{
	{
		ID: "0001_courses",
		SQL: `
CREATE TABLE IF NOT EXISTS courses (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
`,
	},
	{
		ID:  "0002_courses_name_idx",
		SQL: `CREATE INDEX IF NOT EXISTS courses_name_idx ON courses (name);`,
	},
}

func (p *Postgres) isApplied(ctx context.Context, id string) (bool, error) {
	var count int
	err := p.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM schema_migrations WHERE id=$1`, id).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (p *Postgres) applyMigration(ctx context.Context, m migration) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("migration %s: %w", m.ID, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (id, applied_at) VALUES ($1, $2)`, m.ID, time.Now().UTC()); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("migration %s: %w", m.ID, err)
	}
	return tx.Commit()
}
