package location

import (
	"context"
	"errors"

	"github.com/kazipo/geo-reminder/internal/model"
)

// ErrPermissionDenied is returned by RequestPermission when the user
// refuses location access. Sampling never starts after a denial.
var ErrPermissionDenied = errors.New("location permission denied")

// Provider abstracts the platform geolocation API.
type Provider interface {
	// RequestPermission asks the platform for location access.
	// Returns ErrPermissionDenied when the user refuses.
	RequestPermission(ctx context.Context) error

	// CurrentPosition returns the device's current coordinates.
	// Errors are transient: a failed read does not invalidate the
	// provider.
	CurrentPosition(ctx context.Context) (model.Coordinate, error)
}
