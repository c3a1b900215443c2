package model

// DefaultThresholdKm is the notification distance used when a user has
// not configured one in their profile.
const DefaultThresholdKm = 1.0

// UserProfile holds the per-user record from the users collection.
type UserProfile struct {
	// ID is the unique identifier for this user.
	ID string `json:"id"`

	// FullName is the display name used in notification bodies.
	FullName string `json:"full_name"`

	// Email is the sign-in address, unique across users.
	Email string `json:"email"`

	// DateOfBirth is the free-form birth date captured at sign-up.
	DateOfBirth string `json:"date_of_birth"`

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string `json:"-"`

	// NotifyDistanceKm is the user-configured notification threshold
	// in kilometers. Nil means unset; see ResolveThreshold.
	NotifyDistanceKm *float64 `json:"notify_distance_km,omitempty"`
}

// ResolveThreshold returns the distance (km) at which a task location
// counts as "arrived at" for this user. An unset threshold resolves to
// fallback; a configured value is used as-is, however large — an
// oversized threshold makes every location in range, which is a
// configuration hazard, not an error.
func (u UserProfile) ResolveThreshold(fallback float64) float64 {
	if u.NotifyDistanceKm == nil {
		return fallback
	}
	return *u.NotifyDistanceKm
}
