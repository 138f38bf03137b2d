package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewEvent(t *testing.T) {
	before := time.Now().UTC()
	event := NewEvent(EventResultRecorded, ResultRecordedEvent{UserID: 7, TestID: 1, Score: 3, Total: 5})

	if _, err := uuid.Parse(event.ID); err != nil {
		t.Errorf("event ID %q is not a uuid: %v", event.ID, err)
	}
	if event.Type != EventResultRecorded {
		t.Errorf("type = %s, want %s", event.Type, EventResultRecorded)
	}
	if event.Source != "examportal-service" {
		t.Errorf("source = %s", event.Source)
	}
	if event.Version != "1.0" {
		t.Errorf("version = %s", event.Version)
	}
	if event.Timestamp.Before(before) || event.Timestamp.After(time.Now().UTC()) {
		t.Errorf("timestamp %v outside expected window", event.Timestamp)
	}
}

func TestEventJSONShape(t *testing.T) {
	event := NewEvent(EventPasswordChanged, PasswordChangedEvent{UserID: 7, ChangedAt: time.Now().UTC()})

	payload, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	for _, field := range []string{"id", "type", "source", "version", "timestamp", "data"} {
		if _, ok := decoded[field]; !ok {
			t.Errorf("envelope is missing %q", field)
		}
	}

	data, ok := decoded["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("data is not an object: %T", decoded["data"])
	}
	if data["user_id"] != float64(7) {
		t.Errorf("data.user_id = %v, want 7", data["user_id"])
	}
}

func TestMockEventPublisher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	publisher := NewMockEventPublisher(logger)
	ctx := context.Background()

	if err := publisher.Publish(ctx, NewEvent(EventQuizSubmitted, QuizSubmittedEvent{UserID: 1, QuizID: 2})); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if err := publisher.Publish(ctx, NewEvent(EventPasswordChanged, PasswordChangedEvent{UserID: 1})); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	recorded := publisher.GetPublishedEvents()
	if len(recorded) != 2 {
		t.Fatalf("expected 2 events, got %d", len(recorded))
	}
	if recorded[0].Type != EventQuizSubmitted || recorded[1].Type != EventPasswordChanged {
		t.Errorf("events out of order: %s, %s", recorded[0].Type, recorded[1].Type)
	}

	// The snapshot is detached from the internal slice.
	publisher.ClearEvents()
	if len(recorded) != 2 {
		t.Error("snapshot should survive ClearEvents")
	}
	if len(publisher.GetPublishedEvents()) != 0 {
		t.Error("ClearEvents should drop recorded events")
	}
}
