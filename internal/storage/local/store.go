// Package local implements the persistence gateway on plain JSON files,
// the default backend for single-user installs.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/felixgeelhaar/lernpfad/internal/domain"
)

const (
	coursesFile = "courses.json"
	statsFile   = "stats.json"
)

// Store persists the course collection and user stats as two JSON
// documents under a base directory. Each save rewrites the whole
// document through a temp file rename, so a crash mid-write never
// leaves a truncated file behind.
type Store struct {
	basePath string
	mu       sync.RWMutex
}

// NewStore creates a local JSON store rooted at basePath
func NewStore(basePath string) (*Store, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &Store{basePath: basePath}, nil
}

// LoadCourses reads the stored course collection. A missing file means
// nothing has been imported yet and yields an empty collection.
func (s *Store) LoadCourses(ctx context.Context) ([]*domain.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var courses []*domain.Course
	if err := s.load(coursesFile, &courses); err != nil {
		if os.IsNotExist(err) {
			return []*domain.Course{}, nil
		}
		return nil, fmt.Errorf("load courses: %w", err)
	}
	return courses, nil
}

// SaveCourses replaces the stored course collection
func (s *Store) SaveCourses(ctx context.Context, courses []*domain.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.save(coursesFile, courses); err != nil {
		return fmt.Errorf("save courses: %w", err)
	}
	return nil
}

// LoadUserStats reads the stats document, returning the zero-value
// record on first use.
func (s *Store) LoadUserStats(ctx context.Context) (domain.UserStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats domain.UserStats
	if err := s.load(statsFile, &stats); err != nil {
		if os.IsNotExist(err) {
			return domain.NewUserStats(), nil
		}
		return domain.UserStats{}, fmt.Errorf("load stats: %w", err)
	}
	if stats.Purchased == nil {
		stats.Purchased = []string{}
	}
	return stats, nil
}

// SaveUserStats replaces the stats document
func (s *Store) SaveUserStats(ctx context.Context, stats domain.UserStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.save(statsFile, stats); err != nil {
		return fmt.Errorf("save stats: %w", err)
	}
	return nil
}

func (s *Store) load(name string, data interface{}) error {
	file, err := os.Open(filepath.Join(s.basePath, name))
	if err != nil {
		return err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(data); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

func (s *Store) save(name string, data interface{}) error {
	path := filepath.Join(s.basePath, name)
	tmp, err := os.CreateTemp(s.basePath, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		tmp.Close()
		return fmt.Errorf("encode json: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace file: %w", err)
	}
	return nil
}
