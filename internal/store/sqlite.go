package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/Hossain-2402/class-routine-reminder/internal/domain"
)

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct{ db *sql.DB }

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns a repository.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Reasonable pooling for SQLite; it's a single-writer engine.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteRepo{db: db}, nil
}

// applyPragmas configures the SQLite connection for durability and concurrency.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// --- Routines ---

// UpsertRoutine stores a user's routine. The first save sets created_at;
// every save replaces raw_text and schedule_json and refreshes updated_at.
func (r *SQLiteRepo) UpsertRoutine(ctx context.Context, userID, rawText string, schedule domain.Schedule) (*domain.RoutineRecord, error) {
	if userID == "" {
		return nil, errors.New("empty user id")
	}

	scheduleJSON, err := json.Marshal(schedule)
	if err != nil {
		return nil, fmt.Errorf("marshal schedule: %w", err)
	}

	now := time.Now().UTC().Unix()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO routines (user_id, raw_text, schedule_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			raw_text      = excluded.raw_text,
			schedule_json = excluded.schedule_json,
			updated_at    = excluded.updated_at`,
		userID, rawText, string(scheduleJSON), now, now,
	)
	if err != nil {
		return nil, err
	}
	return r.GetRoutine(ctx, userID)
}

// GetRoutine returns the user's routine or ErrNotFound.
func (r *SQLiteRepo) GetRoutine(ctx context.Context, userID string) (*domain.RoutineRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, raw_text, schedule_json, created_at, updated_at
		FROM routines
		WHERE user_id = ?`,
		userID,
	)

	var (
		uid          string
		rawText      string
		scheduleJSON string
		createdAt    int64
		updatedAt    int64
	)
	if err := row.Scan(&uid, &rawText, &scheduleJSON, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var schedule domain.Schedule
	if err := json.Unmarshal([]byte(scheduleJSON), &schedule); err != nil {
		return nil, fmt.Errorf("unmarshal schedule: %w", err)
	}

	return &domain.RoutineRecord{
		UserID:    uid,
		RawText:   rawText,
		Schedule:  schedule,
		CreatedAt: time.Unix(createdAt, 0).UTC(),
		UpdatedAt: time.Unix(updatedAt, 0).UTC(),
	}, nil
}

// --- Preferences ---

// UpsertPreference inserts or replaces a user's reminder settings.
func (r *SQLiteRepo) UpsertPreference(ctx context.Context, p *domain.Preference) error {
	if p == nil {
		return errors.New("nil preference")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO preferences (user_id, enabled, notify_time, last_sent_date, telegram_chat_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			enabled          = excluded.enabled,
			notify_time      = excluded.notify_time,
			last_sent_date   = excluded.last_sent_date,
			telegram_chat_id = excluded.telegram_chat_id`,
		p.UserID, boolToInt(p.Enabled), p.NotifyTime,
		toNullString(p.LastSentDate), toNullInt64(p.TelegramChatID),
	)
	return err
}

// GetPreference returns a user's reminder settings or ErrNotFound.
func (r *SQLiteRepo) GetPreference(ctx context.Context, userID string) (*domain.Preference, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, enabled, notify_time, last_sent_date, telegram_chat_id
		FROM preferences
		WHERE user_id = ?`,
		userID,
	)
	p, err := scanPreference(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

// SetEnabled toggles the reminder without touching the other settings.
func (r *SQLiteRepo) SetEnabled(ctx context.Context, userID string, enabled bool) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE preferences
		SET enabled = ?
		WHERE user_id = ?`,
		boolToInt(enabled), userID,
	)
	return err
}

// ListDue returns enabled preferences targeting hhmm that have not yet
// fired today.
func (r *SQLiteRepo) ListDue(ctx context.Context, hhmm, today string) ([]domain.Preference, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, enabled, notify_time, last_sent_date, telegram_chat_id
		FROM preferences
		WHERE enabled = 1
		  AND notify_time = ?
		  AND (last_sent_date IS NULL OR last_sent_date != ?)`,
		hhmm, today,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Preference
	for rows.Next() {
		p, err := scanPreference(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// MarkSent claims today's send in a single conditional update, so two
// concurrent pollers sharing this store cannot both win.
func (r *SQLiteRepo) MarkSent(ctx context.Context, userID, today string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE preferences
		SET last_sent_date = ?
		WHERE user_id = ?
		  AND enabled = 1
		  AND (last_sent_date IS NULL OR last_sent_date != ?)`,
		today, userID, today,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ClearLastSent re-arms the once-per-day guard without sending anything.
func (r *SQLiteRepo) ClearLastSent(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE preferences
		SET last_sent_date = NULL
		WHERE user_id = ?`,
		userID,
	)
	return err
}

// --- Push subscriptions ---

// AddSubscription registers a push endpoint. Re-registering the same
// endpoint for the same user replaces the stored keys.
func (r *SQLiteRepo) AddSubscription(ctx context.Context, sub *domain.PushSubscription) error {
	if sub == nil {
		return errors.New("nil subscription")
	}
	created := sub.CreatedAt.UTC().Unix()
	if sub.CreatedAt.IsZero() {
		created = time.Now().UTC().Unix()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO push_subscriptions (id, user_id, endpoint, p256dh, auth, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, endpoint) DO UPDATE SET
			p256dh = excluded.p256dh,
			auth   = excluded.auth`,
		sub.ID.String(), sub.UserID, sub.Endpoint, sub.P256dh, sub.Auth, created,
	)
	return err
}

// ListSubscriptions returns all push endpoints registered by the user.
func (r *SQLiteRepo) ListSubscriptions(ctx context.Context, userID string) ([]domain.PushSubscription, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, endpoint, p256dh, auth, created_at
		FROM push_subscriptions
		WHERE user_id = ?
		ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.PushSubscription
	for rows.Next() {
		var (
			id        string
			uid       string
			endpoint  string
			p256dh    string
			auth      string
			createdAt int64
		)
		if err := rows.Scan(&id, &uid, &endpoint, &p256dh, &auth, &createdAt); err != nil {
			return nil, err
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("bad subscription id %q: %w", id, err)
		}
		res = append(res, domain.PushSubscription{
			ID:        parsed,
			UserID:    uid,
			Endpoint:  endpoint,
			P256dh:    p256dh,
			Auth:      auth,
			CreatedAt: time.Unix(createdAt, 0).UTC(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// RemoveSubscription deletes one of the user's push endpoints.
func (r *SQLiteRepo) RemoveSubscription(ctx context.Context, userID, id string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM push_subscriptions
		WHERE user_id = ? AND id = ?`,
		userID, id,
	)
	return err
}

// scanPreference reads one preferences row through the given scan func.
func scanPreference(scan func(...any) error) (*domain.Preference, error) {
	var (
		uid        string
		enabledInt int
		notifyTime string
		lastSent   sql.NullString
		chatID     sql.NullInt64
	)
	if err := scan(&uid, &enabledInt, &notifyTime, &lastSent, &chatID); err != nil {
		return nil, err
	}
	return &domain.Preference{
		UserID:         uid,
		Enabled:        enabledInt != 0,
		NotifyTime:     notifyTime,
		LastSentDate:   lastSent.String,
		TelegramChatID: chatID.Int64,
	}, nil
}

// boolToInt converts a boolean to 1/0 for SQLite.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
