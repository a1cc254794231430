package local

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/felixgeelhaar/lernpfad/internal/domain"
)

func TestNewStore_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	newDir := filepath.Join(tmpDir, "subdir", "nested")

	store, err := NewStore(newDir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if store == nil {
		t.Fatal("NewStore() returned nil")
	}

	info, err := os.Stat(newDir)
	if err != nil {
		t.Fatalf("directory not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("expected directory, got file")
	}
}

func TestStore_Courses_SaveLoad(t *testing.T) {
	store, _ := NewStore(t.TempDir())
	ctx := context.Background()

	courses := []*domain.Course{
		{ID: "c-1", Title: "Spanish A1", Units: []domain.Unit{
			{ID: "u-1", Title: "Greetings", Levels: []domain.Level{
				{ID: "l-1", Title: "Hola", Type: domain.LevelTheory, Status: domain.StatusUnlocked},
			}},
		}},
		{ID: "c-2", Title: "French A1"},
	}

	if err := store.SaveCourses(ctx, courses); err != nil {
		t.Fatalf("SaveCourses() error = %v", err)
	}

	loaded, err := store.LoadCourses(ctx)
	if err != nil {
		t.Fatalf("LoadCourses() error = %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("len(loaded) = %d, want 2", len(loaded))
	}
	if loaded[0].ID != "c-1" || loaded[0].Units[0].Levels[0].Status != domain.StatusUnlocked {
		t.Errorf("loaded[0] = %+v", loaded[0])
	}
}

func TestStore_Courses_EmptyOnFirstUse(t *testing.T) {
	store, _ := NewStore(t.TempDir())

	courses, err := store.LoadCourses(context.Background())
	if err != nil {
		t.Fatalf("LoadCourses() error = %v", err)
	}
	if len(courses) != 0 {
		t.Errorf("len(courses) = %d, want 0", len(courses))
	}
}

func TestStore_Stats_SaveLoad(t *testing.T) {
	store, _ := NewStore(t.TempDir())
	ctx := context.Background()

	day, _ := domain.ParseDate("2026-01-04")
	stats := domain.UserStats{
		TotalXP:       150,
		Coins:         60,
		CurrentStreak: 2,
		LastStudyDate: day,
		Purchased:     []string{"dark_mode"},
		ActiveAvatar:  "🧙",
		DarkMode:      true,
	}

	if err := store.SaveUserStats(ctx, stats); err != nil {
		t.Fatalf("SaveUserStats() error = %v", err)
	}

	loaded, err := store.LoadUserStats(ctx)
	if err != nil {
		t.Fatalf("LoadUserStats() error = %v", err)
	}
	if loaded.TotalXP != 150 || loaded.CurrentStreak != 2 || !loaded.DarkMode {
		t.Errorf("loaded = %+v", loaded)
	}
	if !loaded.LastStudyDate.Equal(day) {
		t.Errorf("LastStudyDate = %v, want %v", loaded.LastStudyDate, day)
	}
	if !loaded.Owns("dark_mode") {
		t.Error("purchased items not persisted")
	}
}

func TestStore_Stats_ZeroValueOnFirstUse(t *testing.T) {
	store, _ := NewStore(t.TempDir())

	stats, err := store.LoadUserStats(context.Background())
	if err != nil {
		t.Fatalf("LoadUserStats() error = %v", err)
	}
	if stats.TotalXP != 0 || stats.CurrentStreak != 0 {
		t.Errorf("stats = %+v, want zero record", stats)
	}
	if !stats.LastStudyDate.IsZero() {
		t.Error("LastStudyDate should start unset")
	}
	if stats.ActiveAvatar != domain.DefaultAvatar {
		t.Errorf("ActiveAvatar = %q, want default", stats.ActiveAvatar)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store, _ := NewStore(t.TempDir())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.SaveUserStats(ctx, domain.NewUserStats())
		}()
		go func() {
			defer wg.Done()
			_, _ = store.LoadUserStats(ctx)
		}()
	}
	wg.Wait()
}
