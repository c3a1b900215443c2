package store

import (
	"context"

	"github.com/kazipo/geo-reminder/internal/model"
)

// Store defines the persistence interface for users, tasks, pinned
// task locations, and notification records.
//
// ListTaskLocations is the snapshot read consumed by the proximity
// engine once per evaluation cycle; every other method backs the
// application's CRUD surface. Any error from a read is treated by the
// engine as "store unavailable for this cycle" — the engine skips the
// cycle and re-evaluates on the next one.
type Store interface {
	// === Users ===

	CreateUser(ctx context.Context, user model.UserProfile) error
	GetUser(ctx context.Context, id string) (*model.UserProfile, error)
	GetUserByEmail(ctx context.Context, email string) (*model.UserProfile, error)
	UpdateNotifyDistance(ctx context.Context, userID string, km float64) error

	// === Task locations ===

	CreateTaskLocation(ctx context.Context, loc model.TaskLocation) error
	ListTaskLocations(ctx context.Context, ownerID string) ([]model.TaskLocation, error)
	DeleteTaskLocation(ctx context.Context, id string) error

	// === Tasks ===

	CreateTask(ctx context.Context, task model.Task) error
	ListTasks(ctx context.Context, ownerID string) ([]model.Task, error)
	UpdateTaskProgress(ctx context.Context, id string, progress int) error
	UpdateTaskPriority(ctx context.Context, id string, priority int) error
	DeleteTask(ctx context.Context, id string) error

	// === Notifications ===

	CreateNotification(ctx context.Context, rec model.NotificationRecord) error
	ListNotifications(ctx context.Context, userID string) ([]model.NotificationRecord, error)
	DeleteNotification(ctx context.Context, id string) error
}
