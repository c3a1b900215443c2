package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/kazipo/geo-reminder/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// CreateUser inserts a new user profile. If the user has no ID,
// a new UUID is generated.
func (s *SQLiteStore) CreateUser(ctx context.Context, user model.UserProfile) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	var notifyKm sql.NullFloat64
	if user.NotifyDistanceKm != nil {
		notifyKm = sql.NullFloat64{Float64: *user.NotifyDistanceKm, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, full_name, email, date_of_birth, password_hash, created_at, notify_distance_km)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.FullName, user.Email, user.DateOfBirth,
		user.PasswordHash, time.Now().UTC(), notifyKm,
	)
	if err != nil {
		return fmt.Errorf("creating user %s: %w", user.ID, err)
	}

	return nil
}

// GetUser retrieves a user profile by ID. Returns ErrNotFound when no
// such user exists.
func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*model.UserProfile, error) {
	row := s.db.QueryRowxContext(ctx, `
		SELECT id, full_name, email, date_of_birth, password_hash, notify_distance_km
		FROM users WHERE id = ?`, id)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting user %s: %w", id, err)
	}

	return &user, nil
}

// GetUserByEmail retrieves a user profile by email address. Returns
// ErrNotFound when no such user exists.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*model.UserProfile, error) {
	row := s.db.QueryRowxContext(ctx, `
		SELECT id, full_name, email, date_of_birth, password_hash, notify_distance_km
		FROM users WHERE email = ?`, email)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting user by email %s: %w", email, err)
	}

	return &user, nil
}

// UpdateNotifyDistance sets the user's configured notification
// threshold in kilometers.
func (s *SQLiteStore) UpdateNotifyDistance(ctx context.Context, userID string, km float64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET notify_distance_km = ? WHERE id = ?", km, userID,
	)
	if err != nil {
		return fmt.Errorf("updating notify distance for user %s: %w", userID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateTaskLocation inserts a new pinned task location. If the
// location has no ID, a new UUID is generated.
func (s *SQLiteStore) CreateTaskLocation(ctx context.Context, loc model.TaskLocation) error {
	if loc.ID == "" {
		loc.ID = uuid.New().String()
	}
	if loc.CreatedAt.IsZero() {
		loc.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO locations (id, owner_id, place, task_description, latitude, longitude, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		loc.ID, loc.OwnerID, loc.Place, loc.TaskDescription,
		loc.Coordinate.Latitude, loc.Coordinate.Longitude, loc.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("creating task location %s: %w", loc.ID, err)
	}

	return nil
}

// ListTaskLocations retrieves all task locations pinned by the given
// user. This is the snapshot read performed once per evaluation cycle.
func (s *SQLiteStore) ListTaskLocations(ctx context.Context, ownerID string) ([]model.TaskLocation, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, owner_id, place, task_description, latitude, longitude, created_at
		FROM locations WHERE owner_id = ? ORDER BY created_at`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying task locations: %w", err)
	}
	defer rows.Close()

	var locations []model.TaskLocation
	for rows.Next() {
		var (
			loc       model.TaskLocation
			createdAt time.Time
		)
		err := rows.Scan(
			&loc.ID, &loc.OwnerID, &loc.Place, &loc.TaskDescription,
			&loc.Coordinate.Latitude, &loc.Coordinate.Longitude, &createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning task location row: %w", err)
		}
		loc.CreatedAt = createdAt
		locations = append(locations, loc)
	}

	return locations, rows.Err()
}

// DeleteTaskLocation removes a pinned task location by ID.
func (s *SQLiteStore) DeleteTaskLocation(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM locations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting task location %s: %w", id, err)
	}
	return nil
}

// CreateTask inserts a new task. If the task has no ID, a new UUID is
// generated; an unset priority defaults to medium.
func (s *SQLiteStore) CreateTask(ctx context.Context, task model.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.Priority == 0 {
		task.Priority = model.PriorityMedium
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, owner_id, description, progress, priority, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		task.ID, task.OwnerID, task.Description,
		task.Progress, task.Priority, task.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("creating task %s: %w", task.ID, err)
	}

	return nil
}

// ListTasks retrieves all tasks owned by the given user, newest first.
func (s *SQLiteStore) ListTasks(ctx context.Context, ownerID string) ([]model.Task, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, owner_id, description, progress, priority, created_at
		FROM tasks WHERE owner_id = ? ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var (
			task      model.Task
			createdAt time.Time
		)
		err := rows.Scan(
			&task.ID, &task.OwnerID, &task.Description,
			&task.Progress, &task.Priority, &createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		task.CreatedAt = createdAt
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

// UpdateTaskProgress sets the completion percentage of a task.
func (s *SQLiteStore) UpdateTaskProgress(ctx context.Context, id string, progress int) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET progress = ? WHERE id = ?", progress, id,
	)
	if err != nil {
		return fmt.Errorf("updating progress for task %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateTaskPriority sets the priority of a task.
func (s *SQLiteStore) UpdateTaskPriority(ctx context.Context, id string, priority int) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET priority = ? WHERE id = ?", priority, id,
	)
	if err != nil {
		return fmt.Errorf("updating priority for task %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTask removes a task by ID.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	return nil
}

// CreateNotification appends a notification record. If the record has
// no ID, a new UUID is generated.
func (s *SQLiteStore) CreateNotification(ctx context.Context, rec model.NotificationRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, body, date)
		VALUES (?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.Body, rec.Date.UTC(),
	)
	if err != nil {
		return fmt.Errorf("creating notification: %w", err)
	}

	return nil
}

// ListNotifications retrieves all notification records for a user,
// newest first.
func (s *SQLiteStore) ListNotifications(ctx context.Context, userID string) ([]model.NotificationRecord, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, user_id, body, date
		FROM notifications WHERE user_id = ? ORDER BY date DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying notifications: %w", err)
	}
	defer rows.Close()

	var records []model.NotificationRecord
	for rows.Next() {
		var (
			rec  model.NotificationRecord
			date time.Time
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Body, &date); err != nil {
			return nil, fmt.Errorf("scanning notification row: %w", err)
		}
		rec.Date = date
		records = append(records, rec)
	}

	return records, rows.Err()
}

// DeleteNotification removes a notification record by ID.
func (s *SQLiteStore) DeleteNotification(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM notifications WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting notification %s: %w", id, err)
	}
	return nil
}

// scanUser scans a user row from a sqlx.Row.
func scanUser(row *sqlx.Row) (model.UserProfile, error) {
	var (
		user     model.UserProfile
		notifyKm sql.NullFloat64
	)

	err := row.Scan(
		&user.ID, &user.FullName, &user.Email, &user.DateOfBirth,
		&user.PasswordHash, &notifyKm,
	)
	if err != nil {
		return model.UserProfile{}, err
	}

	if notifyKm.Valid {
		km := notifyKm.Float64
		user.NotifyDistanceKm = &km
	}

	return user, nil
}
