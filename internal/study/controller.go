// Package study composes the normalizer, progression engine, ledger and
// shop behind a single controller. The controller owns the clock and the
// persistence gateway; the packages it composes stay pure.
package study

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/lernpfad/internal/domain"
	"github.com/felixgeelhaar/lernpfad/internal/ingest"
	"github.com/felixgeelhaar/lernpfad/internal/ledger"
	"github.com/felixgeelhaar/lernpfad/internal/progression"
	"github.com/felixgeelhaar/lernpfad/internal/shop"
)

// Controller orchestrates all study operations against the gateway.
// Writes are serialized with a mutex so two concurrent completions can
// never race against a stale snapshot.
type Controller struct {
	mu         sync.Mutex
	gateway    Gateway
	dispatcher *domain.EventDispatcher
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Controller
type Option func(*Controller)

// WithClock overrides the time source, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithDispatcher attaches an event dispatcher
func WithDispatcher(d *domain.EventDispatcher) Option {
	return func(c *Controller) { c.dispatcher = d }
}

// NewController creates a study controller on top of a gateway
func NewController(gateway Gateway, logger *slog.Logger, opts ...Option) *Controller {
	c := &Controller{
		gateway:    gateway,
		dispatcher: domain.NewEventDispatcher(),
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dispatcher exposes the event dispatcher for subscribers
func (c *Controller) Dispatcher() *domain.EventDispatcher {
	return c.dispatcher
}

func (c *Controller) today() domain.Date {
	return domain.DateOf(c.now())
}

// -----------------------------------------------------------------------------
// Courses
// -----------------------------------------------------------------------------

// ImportCourse normalizes raw course JSON, appends the result to the
// stored collection and persists it.
func (c *Controller) ImportCourse(ctx context.Context, raw []byte) (*domain.Course, error) {
	course, err := ingest.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("import course: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	courses, err := c.gateway.LoadCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("import course: %w", err)
	}
	courses = append(courses, course)
	if err := c.gateway.SaveCourses(ctx, courses); err != nil {
		return nil, fmt.Errorf("import course: %w", err)
	}

	c.logger.Info("course imported",
		"course_id", course.ID,
		"title", course.Title,
		"levels", course.LevelCount())
	c.dispatcher.Publish(domain.NewCourseImportedEvent(course, c.now()))

	return course, nil
}

// ImportTranslation merges a translation document onto a stored course
// and persists the merged result.
func (c *Controller) ImportTranslation(ctx context.Context, courseID string, raw []byte) (*domain.Course, error) {
	tr, err := ingest.ParseTranslation(raw)
	if err != nil {
		return nil, fmt.Errorf("import translation: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	courses, err := c.gateway.LoadCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("import translation: %w", err)
	}

	idx := findCourse(courses, courseID)
	if idx < 0 {
		return nil, fmt.Errorf("import translation for %q: %w", courseID, domain.ErrCourseNotFound)
	}

	merged := ingest.MergeTranslations(courses[idx], tr)
	courses[idx] = merged
	if err := c.gateway.SaveCourses(ctx, courses); err != nil {
		return nil, fmt.Errorf("import translation: %w", err)
	}

	c.logger.Info("translation merged", "course_id", courseID)
	return merged, nil
}

// TranslationTemplate returns the positional skeleton for translating a
// stored course.
func (c *Controller) TranslationTemplate(ctx context.Context, courseID string) (*ingest.Translation, error) {
	course, err := c.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return ingest.TranslationTemplate(course), nil
}

// ListCourses returns all stored courses
func (c *Controller) ListCourses(ctx context.Context) ([]*domain.Course, error) {
	return c.gateway.LoadCourses(ctx)
}

// GetCourse returns one course by id
func (c *Controller) GetCourse(ctx context.Context, courseID string) (*domain.Course, error) {
	courses, err := c.gateway.LoadCourses(ctx)
	if err != nil {
		return nil, err
	}
	idx := findCourse(courses, courseID)
	if idx < 0 {
		return nil, fmt.Errorf("get course %q: %w", courseID, domain.ErrCourseNotFound)
	}
	return courses[idx], nil
}

// DeleteCourse removes a course from the stored collection
func (c *Controller) DeleteCourse(ctx context.Context, courseID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	courses, err := c.gateway.LoadCourses(ctx)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	idx := findCourse(courses, courseID)
	if idx < 0 {
		return fmt.Errorf("delete course %q: %w", courseID, domain.ErrCourseNotFound)
	}

	courses = append(courses[:idx], courses[idx+1:]...)
	if err := c.gateway.SaveCourses(ctx, courses); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}

	c.logger.Info("course deleted", "course_id", courseID)
	return nil
}

// -----------------------------------------------------------------------------
// Progression
// -----------------------------------------------------------------------------

// CompletionOutcome bundles everything a single completion changed
type CompletionOutcome struct {
	Course *domain.Course   `json:"course"`
	Stats  domain.UserStats `json:"stats"`
	Reward ledger.Reward    `json:"reward"`
}

// CompleteLevel applies a completion event end to end: it advances the
// course through the progression engine, feeds the same event to the
// ledger, persists both snapshots and publishes the resulting events.
// Course and stats are saved together; a failure before the saves leaves
// everything untouched.
func (c *Controller) CompleteLevel(ctx context.Context, courseID, levelID string, stars int) (*CompletionOutcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	courses, err := c.gateway.LoadCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("complete level: %w", err)
	}
	idx := findCourse(courses, courseID)
	if idx < 0 {
		return nil, fmt.Errorf("complete level in %q: %w", courseID, domain.ErrCourseNotFound)
	}

	result, err := progression.CompleteLevel(courses[idx], levelID, stars)
	if err != nil {
		return nil, fmt.Errorf("complete level: %w", err)
	}

	stats, err := c.gateway.LoadUserStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("complete level: %w", err)
	}
	today := c.today()
	newStats, reward := ledger.RecordCompletion(stats, result.Stars, today)

	courses[idx] = result.Course
	if err := c.gateway.SaveCourses(ctx, courses); err != nil {
		return nil, fmt.Errorf("complete level: %w", err)
	}
	if err := c.gateway.SaveUserStats(ctx, newStats); err != nil {
		return nil, fmt.Errorf("complete level: %w", err)
	}

	c.logger.Info("level completed",
		"course_id", courseID,
		"level_id", levelID,
		"stars", result.Stars,
		"progress", result.Course.TotalProgress,
		"xp", reward.XP,
		"streak", reward.Streak)

	now := c.now()
	c.dispatcher.Publish(domain.NewLevelCompletedEvent(courseID, levelID, result.Stars, result.Course.TotalProgress, now))
	if reward.XP > 0 {
		c.dispatcher.Publish(domain.NewRewardGrantedEvent(reward.XP, reward.Coins, reward.Streak, now))
	}

	return &CompletionOutcome{
		Course: result.Course,
		Stats:  newStats,
		Reward: reward,
	}, nil
}

// -----------------------------------------------------------------------------
// Stats and shop
// -----------------------------------------------------------------------------

// Stats returns the current stats snapshot with the streak decayed at
// read time. The correction is not written back; the next regular write
// persists it.
func (c *Controller) Stats(ctx context.Context) (domain.UserStats, error) {
	stats, err := c.gateway.LoadUserStats(ctx)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("load stats: %w", err)
	}
	return ledger.DecayOnLoad(stats, c.today()), nil
}

// Catalog returns the shop catalog
func (c *Controller) Catalog() []domain.ShopItem {
	return shop.Catalog
}

// PurchaseItem buys a shop item and persists the new stats
func (c *Controller) PurchaseItem(ctx context.Context, itemID string) (domain.UserStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats, err := c.gateway.LoadUserStats(ctx)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("purchase item: %w", err)
	}

	next, err := shop.Purchase(stats, itemID)
	if err != nil {
		return domain.UserStats{}, err
	}
	if err := c.gateway.SaveUserStats(ctx, next); err != nil {
		return domain.UserStats{}, fmt.Errorf("purchase item: %w", err)
	}

	item, _ := shop.Find(itemID)
	c.logger.Info("item purchased", "item_id", itemID, "price", item.Price, "balance", next.Coins)
	c.dispatcher.Publish(domain.NewItemPurchasedEvent(itemID, item.Price, c.now()))

	return next, nil
}

// SelectAvatar activates an owned avatar and persists the change
func (c *Controller) SelectAvatar(ctx context.Context, itemID string) (domain.UserStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats, err := c.gateway.LoadUserStats(ctx)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("select avatar: %w", err)
	}

	next, err := shop.SelectAvatar(stats, itemID)
	if err != nil {
		return domain.UserStats{}, err
	}
	if err := c.gateway.SaveUserStats(ctx, next); err != nil {
		return domain.UserStats{}, fmt.Errorf("select avatar: %w", err)
	}
	return next, nil
}

func findCourse(courses []*domain.Course, id string) int {
	for i, course := range courses {
		if course.ID == id {
			return i
		}
	}
	return -1
}
