package eventlog_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ashvale/sentrygate-core/internal/eventlog"
	"github.com/ashvale/sentrygate-core/internal/infrastructure/database"
	_ "github.com/ashvale/sentrygate-core/migrations" // register embedded migrations
)

// setupRepo opens a temp-dir SQLite database with migrations applied and
// returns a repository backed by it.
func setupRepo(t *testing.T) *eventlog.SQLiteRepository {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "events.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	return eventlog.NewSQLiteRepository(db.DB)
}

func testEvent(name string, status eventlog.Status, occurredAt time.Time) eventlog.SecurityEvent {
	return eventlog.NewEvent(occurredAt, name, status, "", "gate-test")
}

func TestRecordAndGet(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	event := testEvent("alice", eventlog.StatusAuthorized, time.Now())
	event.ImageURL = "https://storage.example/captures/abc.jpg"

	if err := repo.Record(ctx, &event); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	got, err := repo.Get(ctx, event.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if got.Name != "alice" {
		t.Errorf("Name = %q, want %q", got.Name, "alice")
	}
	if got.Status != eventlog.StatusAuthorized {
		t.Errorf("Status = %q, want %q", got.Status, eventlog.StatusAuthorized)
	}
	if got.ImageURL != event.ImageURL {
		t.Errorf("ImageURL = %q, want %q", got.ImageURL, event.ImageURL)
	}
	if got.Source != "gate-test" {
		t.Errorf("Source = %q, want %q", got.Source, "gate-test")
	}
	if !got.OccurredAt.Equal(event.OccurredAt) {
		t.Errorf("OccurredAt = %v, want %v", got.OccurredAt, event.OccurredAt)
	}
}

func TestRecordDuplicate(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	event := testEvent("bob", eventlog.StatusIntruder, time.Now())
	if err := repo.Record(ctx, &event); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	err := repo.Record(ctx, &event)
	if !errors.Is(err, eventlog.ErrEventExists) {
		t.Errorf("Record() duplicate error = %v, want ErrEventExists", err)
	}
}

func TestRecordInvalid(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	event := testEvent("carol", eventlog.Status("lurking"), time.Now())
	err := repo.Record(ctx, &event)
	if !errors.Is(err, eventlog.ErrInvalidEvent) {
		t.Errorf("Record() invalid status error = %v, want ErrInvalidEvent", err)
	}
}

func TestGetNotFound(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.Get(context.Background(), "no-such-id")
	if !errors.Is(err, eventlog.ErrEventNotFound) {
		t.Errorf("Get() error = %v, want ErrEventNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	names := []string{"first", "second", "third"}
	for i, name := range names {
		event := testEvent(name, eventlog.StatusIntruder, base.Add(time.Duration(i)*time.Minute))
		if err := repo.Record(ctx, &event); err != nil {
			t.Fatalf("Record(%s) error = %v", name, err)
		}
	}

	events, err := repo.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if len(events) != 3 {
		t.Fatalf("List() returned %d events, want 3", len(events))
	}
	if events[0].Name != "third" || events[2].Name != "first" {
		t.Errorf("List() order = [%s %s %s], want newest first",
			events[0].Name, events[1].Name, events[2].Name)
	}
}

func TestListLimit(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		event := testEvent("visitor", eventlog.StatusAuthorized, base.Add(time.Duration(i)*time.Second))
		if err := repo.Record(ctx, &event); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	events, err := repo.List(ctx, 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(events) != 2 {
		t.Errorf("List(2) returned %d events, want 2", len(events))
	}
}

func TestDelete(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	event := testEvent("dave", eventlog.StatusIntruder, time.Now())
	if err := repo.Record(ctx, &event); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if err := repo.Delete(ctx, event.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err := repo.Get(ctx, event.ID)
	if !errors.Is(err, eventlog.ErrEventNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrEventNotFound", err)
	}

	if err := repo.Delete(ctx, event.ID); !errors.Is(err, eventlog.ErrEventNotFound) {
		t.Errorf("Delete() repeated error = %v, want ErrEventNotFound", err)
	}
}

func TestStats(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() on empty log error = %v", err)
	}
	if stats.Total != 0 || !stats.LastEventAt.IsZero() {
		t.Errorf("empty log stats = %+v, want zeros", stats)
	}

	base := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	statuses := []eventlog.Status{
		eventlog.StatusAuthorized,
		eventlog.StatusAuthorized,
		eventlog.StatusIntruder,
	}
	for i, status := range statuses {
		event := testEvent("visitor", status, base.Add(time.Duration(i)*time.Minute))
		if err := repo.Record(ctx, &event); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	stats, err = repo.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	if stats.Total != 3 {
		t.Errorf("Total = %d, want 3", stats.Total)
	}
	if stats.Authorized != 2 {
		t.Errorf("Authorized = %d, want 2", stats.Authorized)
	}
	if stats.Intruders != 1 {
		t.Errorf("Intruders = %d, want 1", stats.Intruders)
	}
	want := base.Add(2 * time.Minute)
	if !stats.LastEventAt.Equal(want) {
		t.Errorf("LastEventAt = %v, want %v", stats.LastEventAt, want)
	}
}

func TestNewEventDefaults(t *testing.T) {
	event := eventlog.NewEvent(time.Now(), "", eventlog.StatusIntruder, "", "gate-test")

	if event.ID == "" {
		t.Error("NewEvent() should assign an ID")
	}
	if event.Name != eventlog.UnknownName {
		t.Errorf("Name = %q, want %q for empty identity", event.Name, eventlog.UnknownName)
	}
	if event.OccurredAt.Location() != time.UTC {
		t.Error("OccurredAt should be UTC")
	}
	if err := event.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}
