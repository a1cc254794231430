package queue_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/felixgeelhaar/lernpfad/internal/domain"
	"github.com/felixgeelhaar/lernpfad/internal/queue"
)

func TestEnvelope_Serialization(t *testing.T) {
	event := domain.NewLevelCompletedEvent("c-1", "l-2", 3, 67, time.Now())
	payload, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("Marshal(event) error = %v", err)
	}

	envelope := queue.Envelope{
		ID:         event.EventID(),
		Type:       event.EventType(),
		OccurredAt: event.OccurredAt(),
		Payload:    payload,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		t.Fatalf("Marshal(envelope) error = %v", err)
	}

	var decoded queue.Envelope
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if decoded.Type != domain.EventTypeLevelCompleted {
		t.Errorf("Type = %q, want %q", decoded.Type, domain.EventTypeLevelCompleted)
	}
	if decoded.ID != event.EventID() {
		t.Errorf("ID = %v, want %v", decoded.ID, event.EventID())
	}

	var inner domain.LevelCompletedEvent
	if err := json.Unmarshal(decoded.Payload, &inner); err != nil {
		t.Fatalf("Unmarshal(payload) error = %v", err)
	}
	if inner.CourseID != "c-1" || inner.Stars != 3 {
		t.Errorf("payload = %+v", inner)
	}
}
