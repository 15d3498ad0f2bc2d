package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/Hossain-2402/class-routine-reminder/internal/domain"
)

func openTestRepo(t *testing.T) *SQLiteRepo {
	t.Helper()
	repo, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestRoutineUpsertReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	first, err := repo.UpsertRoutine(ctx, "u1", "Monday\nMath", domain.Parse("Monday\nMath"))
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second, err := repo.UpsertRoutine(ctx, "u1", "Tuesday\nPhysics", domain.Parse("Tuesday\nPhysics"))
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if second.RawText != "Tuesday\nPhysics" {
		t.Errorf("raw text not replaced: %q", second.RawText)
	}
	if second.Schedule.Mentioned(domain.Monday) {
		t.Error("old schedule survived the overwrite")
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("created_at changed on update: %v -> %v", first.CreatedAt, second.CreatedAt)
	}

	got, err := repo.GetRoutine(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Schedule.Classes(domain.Tuesday)) != 1 {
		t.Errorf("schedule round trip: %+v", got.Schedule)
	}
}

func TestGetRoutineAbsent(t *testing.T) {
	repo := openTestRepo(t)
	if _, err := repo.GetRoutine(context.Background(), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestPreferenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	p := &domain.Preference{UserID: "u1", Enabled: true, NotifyTime: "06:00"}
	if err := repo.UpsertPreference(ctx, p); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, err := repo.GetPreference(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Enabled || got.NotifyTime != "06:00" || got.LastSentDate != "" {
		t.Fatalf("round trip: %+v", got)
	}

	if err := repo.SetEnabled(ctx, "u1", false); err != nil {
		t.Fatalf("set enabled: %v", err)
	}
	got, _ = repo.GetPreference(ctx, "u1")
	if got.Enabled {
		t.Fatal("disable did not stick")
	}
}

func TestOncePerDayGuard(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	p := &domain.Preference{UserID: "u1", Enabled: true, NotifyTime: "06:00"}
	if err := repo.UpsertPreference(ctx, p); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	due, err := repo.ListDue(ctx, "06:00", "2025-05-05")
	if err != nil || len(due) != 1 {
		t.Fatalf("want 1 due, got %d err %v", len(due), err)
	}

	won, err := repo.MarkSent(ctx, "u1", "2025-05-05")
	if err != nil || !won {
		t.Fatalf("first claim should win: won=%v err=%v", won, err)
	}
	won, err = repo.MarkSent(ctx, "u1", "2025-05-05")
	if err != nil || won {
		t.Fatalf("second claim same day should lose: won=%v err=%v", won, err)
	}

	if due, _ = repo.ListDue(ctx, "06:00", "2025-05-05"); len(due) != 0 {
		t.Fatalf("already-sent user still listed due: %+v", due)
	}

	// Date rollover re-arms implicitly.
	if won, _ = repo.MarkSent(ctx, "u1", "2025-05-06"); !won {
		t.Fatal("next day's claim should win")
	}

	// Explicit reset re-arms the same day.
	if err := repo.ClearLastSent(ctx, "u1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if won, _ = repo.MarkSent(ctx, "u1", "2025-05-06"); !won {
		t.Fatal("claim after reset should win")
	}
}

func TestSubscriptionLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	sub := &domain.PushSubscription{
		ID:       uuid.New(),
		UserID:   "u1",
		Endpoint: "https://push.example.com/ep1",
		P256dh:   "key",
		Auth:     "auth",
	}
	if err := repo.AddSubscription(ctx, sub); err != nil {
		t.Fatalf("add: %v", err)
	}

	// Same endpoint again replaces keys instead of duplicating the row.
	again := *sub
	again.ID = uuid.New()
	again.P256dh = "rotated"
	if err := repo.AddSubscription(ctx, &again); err != nil {
		t.Fatalf("re-add: %v", err)
	}

	subs, err := repo.ListSubscriptions(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("want 1 subscription, got %d", len(subs))
	}
	if subs[0].P256dh != "rotated" {
		t.Errorf("keys not replaced: %+v", subs[0])
	}

	if err := repo.RemoveSubscription(ctx, "u1", subs[0].ID.String()); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if subs, _ = repo.ListSubscriptions(ctx, "u1"); len(subs) != 0 {
		t.Fatalf("subscription not removed: %+v", subs)
	}
}
