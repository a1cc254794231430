// Package progression advances course state when a level is completed.
// All transitions are pure: callers hand in a course snapshot and receive
// a new one, which makes every step replayable and trivially testable.
package progression

import (
	"fmt"

	"github.com/felixgeelhaar/lernpfad/internal/domain"
)

// Result describes the outcome of a level completion
type Result struct {
	// Course is the new snapshot. The input course is never mutated.
	Course *domain.Course

	// Stars is the clamped rating that was applied
	Stars int

	// FirstCompletion is true when the level moved to COMPLETED on this
	// call rather than being replayed.
	FirstCompletion bool

	// UnlockedLevelID names the level opened by this completion, or is
	// empty when nothing new was unlocked (replay, or last level).
	UnlockedLevelID string
}

// CompleteLevel marks a level completed with the given star rating and
// unlocks its successor in document order. The transition is monotonic:
// status never moves backwards and stars never decrease, so replaying a
// completion with a lower rating is a safe no-op on both.
//
// An unknown level id fails with domain.ErrLevelNotFound before any
// state is touched. Completing the final level is valid and simply has
// nothing left to unlock.
func CompleteLevel(course *domain.Course, levelID string, stars int) (*Result, error) {
	ref, ok := course.FindLevel(levelID)
	if !ok {
		return nil, fmt.Errorf("complete level %q: %w", levelID, domain.ErrLevelNotFound)
	}

	next := course.Clone()
	lvl := next.LevelAt(ref)

	result := &Result{
		Course: next,
		Stars:  domain.ClampStars(stars),
	}

	if lvl.Status != domain.StatusCompleted {
		lvl.Status = domain.StatusCompleted
		result.FirstCompletion = true
	}
	if result.Stars > lvl.Stars {
		lvl.Stars = result.Stars
	}

	if nextRef, ok := next.NextRef(ref); ok {
		successor := next.LevelAt(nextRef)
		if successor.Status == domain.StatusLocked {
			successor.Status = domain.StatusUnlocked
			result.UnlockedLevelID = successor.ID
		}
	}

	next.TotalProgress = next.ComputeProgress()
	return result, nil
}
