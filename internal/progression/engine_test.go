package progression

import (
	"errors"
	"testing"

	"github.com/felixgeelhaar/lernpfad/internal/domain"
)

// threeLevel builds a course with two units (2 + 1 levels) where only
// the first level is unlocked.
func threeLevel() *domain.Course {
	return &domain.Course{
		ID:    "c-1",
		Title: "Course",
		Units: []domain.Unit{
			{ID: "u-1", Title: "One", Levels: []domain.Level{
				{ID: "l-1", Title: "A", Type: domain.LevelTheory, Status: domain.StatusUnlocked},
				{ID: "l-2", Title: "B", Type: domain.LevelQuiz, Status: domain.StatusLocked},
			}},
			{ID: "u-2", Title: "Two", Levels: []domain.Level{
				{ID: "l-3", Title: "C", Type: domain.LevelSummary, Status: domain.StatusLocked},
			}},
		},
	}
}

func TestCompleteLevel(t *testing.T) {
	course := threeLevel()

	res, err := CompleteLevel(course, "l-1", 2)
	if err != nil {
		t.Fatalf("CompleteLevel() error = %v", err)
	}

	ref, _ := res.Course.FindLevel("l-1")
	lvl := res.Course.LevelAt(ref)
	if lvl.Status != domain.StatusCompleted {
		t.Errorf("status = %q, want COMPLETED", lvl.Status)
	}
	if lvl.Stars != 2 {
		t.Errorf("stars = %d, want 2", lvl.Stars)
	}
	if !res.FirstCompletion {
		t.Error("FirstCompletion = false, want true")
	}
	if res.UnlockedLevelID != "l-2" {
		t.Errorf("UnlockedLevelID = %q, want l-2", res.UnlockedLevelID)
	}
	if res.Course.TotalProgress != 33 {
		t.Errorf("TotalProgress = %d, want 33", res.Course.TotalProgress)
	}
}

func TestCompleteLevel_InputUntouched(t *testing.T) {
	course := threeLevel()

	if _, err := CompleteLevel(course, "l-1", 3); err != nil {
		t.Fatalf("CompleteLevel() error = %v", err)
	}

	if course.Units[0].Levels[0].Status != domain.StatusUnlocked {
		t.Error("input course was mutated")
	}
	if course.Units[0].Levels[1].Status != domain.StatusLocked {
		t.Error("input course successor was mutated")
	}
	if course.TotalProgress != 0 {
		t.Errorf("input TotalProgress = %d, want 0", course.TotalProgress)
	}
}

func TestCompleteLevel_UnlocksAcrossUnitBoundary(t *testing.T) {
	course := threeLevel()
	course.Units[0].Levels[0].Status = domain.StatusCompleted
	course.Units[0].Levels[1].Status = domain.StatusUnlocked

	res, err := CompleteLevel(course, "l-2", 1)
	if err != nil {
		t.Fatalf("CompleteLevel() error = %v", err)
	}

	if res.UnlockedLevelID != "l-3" {
		t.Errorf("UnlockedLevelID = %q, want l-3 in the next unit", res.UnlockedLevelID)
	}
}

func TestCompleteLevel_LastLevel(t *testing.T) {
	course := threeLevel()
	course.Units[0].Levels[0].Status = domain.StatusCompleted
	course.Units[0].Levels[1].Status = domain.StatusCompleted
	course.Units[1].Levels[0].Status = domain.StatusUnlocked

	res, err := CompleteLevel(course, "l-3", 3)
	if err != nil {
		t.Fatalf("completing the final level must not fail, got %v", err)
	}
	if res.UnlockedLevelID != "" {
		t.Errorf("UnlockedLevelID = %q, want empty", res.UnlockedLevelID)
	}
	if res.Course.TotalProgress != 100 {
		t.Errorf("TotalProgress = %d, want 100", res.Course.TotalProgress)
	}
}

func TestCompleteLevel_ReplayKeepsBestStars(t *testing.T) {
	course := threeLevel()

	first, err := CompleteLevel(course, "l-1", 3)
	if err != nil {
		t.Fatalf("first CompleteLevel() error = %v", err)
	}

	second, err := CompleteLevel(first.Course, "l-1", 1)
	if err != nil {
		t.Fatalf("replay CompleteLevel() error = %v", err)
	}

	ref, _ := second.Course.FindLevel("l-1")
	if got := second.Course.LevelAt(ref).Stars; got != 3 {
		t.Errorf("stars after worse replay = %d, want 3", got)
	}
	if second.FirstCompletion {
		t.Error("FirstCompletion on replay = true, want false")
	}
	if second.UnlockedLevelID != "" {
		t.Errorf("replay unlocked %q, want nothing", second.UnlockedLevelID)
	}
}

func TestCompleteLevel_ReplayUpgradesStars(t *testing.T) {
	course := threeLevel()

	first, _ := CompleteLevel(course, "l-1", 1)
	second, err := CompleteLevel(first.Course, "l-1", 3)
	if err != nil {
		t.Fatalf("CompleteLevel() error = %v", err)
	}

	ref, _ := second.Course.FindLevel("l-1")
	if got := second.Course.LevelAt(ref).Stars; got != 3 {
		t.Errorf("stars after better replay = %d, want 3", got)
	}
}

func TestCompleteLevel_ClampsStars(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{-2, 0},
		{0, 0},
		{3, 3},
		{7, 3},
	}

	for _, tt := range tests {
		res, err := CompleteLevel(threeLevel(), "l-1", tt.in)
		if err != nil {
			t.Fatalf("CompleteLevel(%d) error = %v", tt.in, err)
		}
		if res.Stars != tt.want {
			t.Errorf("Stars for input %d = %d, want %d", tt.in, res.Stars, tt.want)
		}
	}
}

func TestCompleteLevel_UnknownLevel(t *testing.T) {
	_, err := CompleteLevel(threeLevel(), "nope", 2)
	if !errors.Is(err, domain.ErrLevelNotFound) {
		t.Errorf("error = %v, want ErrLevelNotFound", err)
	}
}

func TestCompleteLevel_OnlyOneUnlockPerCompletion(t *testing.T) {
	res, err := CompleteLevel(threeLevel(), "l-1", 2)
	if err != nil {
		t.Fatalf("CompleteLevel() error = %v", err)
	}

	unlocked := 0
	for _, ref := range res.Course.OrderedRefs() {
		if res.Course.LevelAt(ref).Status == domain.StatusUnlocked {
			unlocked++
		}
	}
	if unlocked != 1 {
		t.Errorf("unlocked levels = %d, want 1", unlocked)
	}
}
