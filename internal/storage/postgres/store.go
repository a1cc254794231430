// Package postgres implements the persistence gateway on PostgreSQL,
// for multi-instance deployments where SQLite's single writer is not
// enough. Documents are stored as JSONB, same whole-document semantics
// as the other backends.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/felixgeelhaar/lernpfad/internal/domain"
	"github.com/felixgeelhaar/lernpfad/internal/study"
)

// Store implements the persistence gateway using a pgx connection pool
type Store struct {
	pool *pgxpool.Pool
}

var _ study.Gateway = (*Store)(nil)

// NewStore creates a PostgreSQL-backed gateway
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Connect opens a pool and verifies connectivity
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the tables when they do not exist yet
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS courses (
			id         TEXT PRIMARY KEY,
			position   INTEGER NOT NULL,
			document   JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS user_stats (
			id         TEXT PRIMARY KEY CHECK (id = 'default'),
			document   JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// LoadCourses reads all stored courses in their saved order
func (s *Store) LoadCourses(ctx context.Context) ([]*domain.Course, error) {
	rows, err := s.pool.Query(ctx, `SELECT document FROM courses ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	defer rows.Close()

	courses := []*domain.Course{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		var course domain.Course
		if err := json.Unmarshal(doc, &course); err != nil {
			return nil, fmt.Errorf("decode course: %w", err)
		}
		courses = append(courses, &course)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courses: %w", err)
	}
	return courses, nil
}

// SaveCourses replaces the whole stored collection in one transaction
func (s *Store) SaveCourses(ctx context.Context, courses []*domain.Course) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM courses`); err != nil {
		return fmt.Errorf("clear courses: %w", err)
	}

	for i, course := range courses {
		doc, err := json.Marshal(course)
		if err != nil {
			return fmt.Errorf("encode course %s: %w", course.ID, err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO courses (id, position, document, updated_at)
			VALUES ($1, $2, $3, now())`,
			course.ID, i, doc)
		if err != nil {
			return fmt.Errorf("insert course %s: %w", course.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit courses: %w", err)
	}
	return nil
}

// LoadUserStats reads the single stats record, returning the zero-value
// record on first use.
func (s *Store) LoadUserStats(ctx context.Context) (domain.UserStats, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx,
		`SELECT document FROM user_stats WHERE id = 'default'`).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NewUserStats(), nil
	}
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("query stats: %w", err)
	}

	var stats domain.UserStats
	if err := json.Unmarshal(doc, &stats); err != nil {
		return domain.UserStats{}, fmt.Errorf("decode stats: %w", err)
	}
	if stats.Purchased == nil {
		stats.Purchased = []string{}
	}
	return stats, nil
}

// SaveUserStats upserts the single stats record
func (s *Store) SaveUserStats(ctx context.Context, stats domain.UserStats) error {
	doc, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO user_stats (id, document, updated_at)
		VALUES ('default', $1, now())
		ON CONFLICT (id) DO UPDATE SET
			document = EXCLUDED.document,
			updated_at = EXCLUDED.updated_at`,
		doc)
	if err != nil {
		return fmt.Errorf("upsert stats: %w", err)
	}
	return nil
}
