package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/kazipo/geo-reminder/internal/clock"
	"github.com/kazipo/geo-reminder/internal/model"
	"github.com/kazipo/geo-reminder/internal/store"
)

// Dispatcher turns proximity events into user-visible notifications:
// it asks the platform to present a push notification and appends a
// NotificationRecord to the store.
//
// Both side effects are best-effort and independent: a presentation
// failure does not block the store append and vice versa. A failed
// dispatch is never retried; the location notifies again only after it
// leaves range and re-enters it.
type Dispatcher struct {
	presenter Presenter
	store     store.Store
	clock     clock.Clock
	title     string
	delay     time.Duration
	logger    *log.Logger
}

// NewDispatcher creates a Dispatcher. A nil clk defaults to the real
// clock and a nil logger to log.Default().
func NewDispatcher(presenter Presenter, s store.Store, clk clock.Clock, title string, delay time.Duration, logger *log.Logger) *Dispatcher {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{
		presenter: presenter,
		store:     s,
		clock:     clk,
		title:     title,
		delay:     delay,
		logger:    logger,
	}
}

// ComposeBody builds the notification text from the user's display
// name, the location label, and the task description.
func ComposeBody(fullName, place, task string) string {
	return fmt.Sprintf("Hey, %s You are Almost at %s\nFor this Job: %s", fullName, place, task)
}

// Dispatch presents a notification for the event and appends the audit
// record. The returned record is populated even when a side effect
// failed; the returned error reports the store append failure, which
// the caller logs without aborting its cycle.
func (d *Dispatcher) Dispatch(ctx context.Context, user model.UserProfile, event model.ProximityEvent) (model.NotificationRecord, error) {
	body := ComposeBody(user.FullName, event.Place, event.TaskDescription)

	if err := d.presenter.Schedule(d.title, body, d.delay); err != nil {
		d.logger.Printf("notify: presenting notification for location %s: %v", event.TaskLocationID, err)
	}

	rec := model.NotificationRecord{
		ID:     uuid.New().String(),
		UserID: event.UserID,
		Body:   body,
		Date:   d.clock.Now().UTC(),
	}
	if err := d.store.CreateNotification(ctx, rec); err != nil {
		d.logger.Printf("notify: persisting notification for location %s: %v", event.TaskLocationID, err)
		return rec, fmt.Errorf("persisting notification: %w", err)
	}

	return rec, nil
}
