package model

import "time"

// NotificationRecord is the audit row appended for every dispatched
// proximity notification. Records are append-only; the engine never
// mutates or deletes them.
type NotificationRecord struct {
	// ID is the unique identifier for this record.
	ID string `json:"id"`

	// UserID is the user the notification was presented to.
	UserID string `json:"user_id"`

	// Body is the full notification text as presented.
	Body string `json:"body"`

	// Date is the client-generated dispatch timestamp.
	Date time.Time `json:"date"`
}
