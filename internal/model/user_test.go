package model

import "testing"

func TestResolveThreshold(t *testing.T) {
	configured := 3.5
	zero := 0.0

	tests := []struct {
		name string
		user UserProfile
		want float64
	}{
		{name: "unset falls back", user: UserProfile{}, want: 1.0},
		{name: "configured value wins", user: UserProfile{NotifyDistanceKm: &configured}, want: 3.5},
		{name: "explicit zero is honored", user: UserProfile{NotifyDistanceKm: &zero}, want: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.ResolveThreshold(DefaultThresholdKm); got != tt.want {
				t.Errorf("ResolveThreshold = %v, want %v", got, tt.want)
			}
		})
	}
}
