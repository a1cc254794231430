package study

import (
	"context"

	"github.com/felixgeelhaar/lernpfad/internal/domain"
)

// Gateway is the persistence boundary. Implementations load and save
// whole documents; there is no partial update and no compare-and-swap,
// so the controller serializes writes and last writer wins.
type Gateway interface {
	LoadCourses(ctx context.Context) ([]*domain.Course, error)
	SaveCourses(ctx context.Context, courses []*domain.Course) error
	LoadUserStats(ctx context.Context) (domain.UserStats, error)
	SaveUserStats(ctx context.Context, stats domain.UserStats) error
}
