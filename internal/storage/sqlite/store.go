package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/lernpfad/internal/domain"
	"github.com/felixgeelhaar/lernpfad/internal/study"
)

// Store implements the persistence gateway on SQLite. Courses and stats
// are stored as whole JSON documents; saving replaces the complete
// collection in one transaction, matching the last-writer-wins contract.
type Store struct {
	db *DB
}

var _ study.Gateway = (*Store)(nil)

// NewStore creates a SQLite-backed gateway
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// LoadCourses reads all stored courses in their saved order
func (s *Store) LoadCourses(ctx context.Context) ([]*domain.Course, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT document FROM courses ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	defer rows.Close()

	courses := []*domain.Course{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		var course domain.Course
		if err := json.Unmarshal([]byte(doc), &course); err != nil {
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
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM courses`); err != nil {
		return fmt.Errorf("clear courses: %w", err)
	}

	for i, course := range courses {
		doc, err := json.Marshal(course)
		if err != nil {
			return fmt.Errorf("encode course %s: %w", course.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO courses (id, position, document, updated_at)
			VALUES (?, ?, ?, datetime('now'))`,
			course.ID, i, string(doc))
		if err != nil {
			return fmt.Errorf("insert course %s: %w", course.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit courses: %w", err)
	}
	return nil
}

// LoadUserStats reads the single stats record, returning the zero-value
// record on first use.
func (s *Store) LoadUserStats(ctx context.Context) (domain.UserStats, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM user_stats WHERE id = 'default'`).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewUserStats(), nil
	}
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("query stats: %w", err)
	}

	var stats domain.UserStats
	if err := json.Unmarshal([]byte(doc), &stats); err != nil {
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

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_stats (id, document, updated_at)
		VALUES ('default', ?, datetime('now'))
		ON CONFLICT(id) DO UPDATE SET
			document=excluded.document,
			updated_at=excluded.updated_at`,
		string(doc))
	if err != nil {
		return fmt.Errorf("upsert stats: %w", err)
	}
	return nil
}
