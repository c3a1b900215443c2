package notify

import "time"

// Presenter abstracts the platform push-notification API.
// Schedule is fire-and-forget: once accepted, presentation is the
// platform's responsibility.
type Presenter interface {
	Schedule(title, body string, delay time.Duration) error
}
