package domain

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Event Interface and Base Event
// -----------------------------------------------------------------------------

// Event represents a domain event
type Event interface {
	// EventID returns the unique identifier for this event
	EventID() uuid.UUID
	// EventType returns the type name of this event
	EventType() string
	// OccurredAt returns when this event occurred
	OccurredAt() time.Time
}

// Event type names
const (
	EventTypeCourseImported = "course.imported"
	EventTypeLevelCompleted = "level.completed"
	EventTypeRewardGranted  = "reward.granted"
	EventTypeItemPurchased  = "item.purchased"
)

// BaseEvent provides common event fields
type BaseEvent struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// NewBaseEvent creates a new BaseEvent
func NewBaseEvent(eventType string, at time.Time) BaseEvent {
	return BaseEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: at,
	}
}

func (e BaseEvent) EventID() uuid.UUID    { return e.ID }
func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// -----------------------------------------------------------------------------
// Concrete Events
// -----------------------------------------------------------------------------

// CourseImportedEvent fires when the normalizer accepts a raw course
type CourseImportedEvent struct {
	BaseEvent
	CourseID   string `json:"course_id"`
	Title      string `json:"title"`
	UnitCount  int    `json:"unit_count"`
	LevelCount int    `json:"level_count"`
}

// NewCourseImportedEvent creates a CourseImportedEvent for a course
func NewCourseImportedEvent(c *Course, at time.Time) CourseImportedEvent {
	return CourseImportedEvent{
		BaseEvent:  NewBaseEvent(EventTypeCourseImported, at),
		CourseID:   c.ID,
		Title:      c.Title,
		UnitCount:  len(c.Units),
		LevelCount: c.LevelCount(),
	}
}

// LevelCompletedEvent fires after the progression engine applies a
// completion. TotalProgress is the course progress after the update.
type LevelCompletedEvent struct {
	BaseEvent
	CourseID      string `json:"course_id"`
	LevelID       string `json:"level_id"`
	Stars         int    `json:"stars"`
	TotalProgress int    `json:"total_progress"`
}

// NewLevelCompletedEvent creates a LevelCompletedEvent
func NewLevelCompletedEvent(courseID, levelID string, stars, totalProgress int, at time.Time) LevelCompletedEvent {
	return LevelCompletedEvent{
		BaseEvent:     NewBaseEvent(EventTypeLevelCompleted, at),
		CourseID:      courseID,
		LevelID:       levelID,
		Stars:         stars,
		TotalProgress: totalProgress,
	}
}

// RewardGrantedEvent fires when the ledger pays out XP and coins
type RewardGrantedEvent struct {
	BaseEvent
	XP     int `json:"xp"`
	Coins  int `json:"coins"` // includes any streak bonus
	Streak int `json:"streak"`
}

// NewRewardGrantedEvent creates a RewardGrantedEvent
func NewRewardGrantedEvent(xp, coins, streak int, at time.Time) RewardGrantedEvent {
	return RewardGrantedEvent{
		BaseEvent: NewBaseEvent(EventTypeRewardGranted, at),
		XP:        xp,
		Coins:     coins,
		Streak:    streak,
	}
}

// ItemPurchasedEvent fires when a shop purchase succeeds
type ItemPurchasedEvent struct {
	BaseEvent
	ItemID string `json:"item_id"`
	Price  int    `json:"price"`
}

// NewItemPurchasedEvent creates an ItemPurchasedEvent
func NewItemPurchasedEvent(itemID string, price int, at time.Time) ItemPurchasedEvent {
	return ItemPurchasedEvent{
		BaseEvent: NewBaseEvent(EventTypeItemPurchased, at),
		ItemID:    itemID,
		Price:     price,
	}
}

// -----------------------------------------------------------------------------
// Event Handler and Dispatcher
// -----------------------------------------------------------------------------

// EventHandler processes domain events
type EventHandler func(event Event)

// EventDispatcher manages event subscriptions and publishing. Dispatch is
// synchronous; handlers run on the publishing goroutine.
type EventDispatcher struct {
	mu          sync.RWMutex
	handlers    map[string][]EventHandler
	allHandlers []EventHandler // handlers for all events
}

// NewEventDispatcher creates a new event dispatcher
func NewEventDispatcher() *EventDispatcher {
	return &EventDispatcher{
		handlers: make(map[string][]EventHandler),
	}
}

// Subscribe registers a handler for a specific event type
func (d *EventDispatcher) Subscribe(eventType string, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventType] = append(d.handlers[eventType], handler)
}

// SubscribeAll registers a handler for all event types
func (d *EventDispatcher) SubscribeAll(handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.allHandlers = append(d.allHandlers, handler)
}

// Publish dispatches an event to all registered handlers
func (d *EventDispatcher) Publish(event Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if handlers, ok := d.handlers[event.EventType()]; ok {
		for _, h := range handlers {
			h(event)
		}
	}
	for _, h := range d.allHandlers {
		h(event)
	}
}
