package triage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreached(t *testing.T) {
	maxAction := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		site time.Time
		want bool
	}{
		{"exactly eight hours", maxAction.Add(8 * time.Hour), false},
		{"one second over", maxAction.Add(8*time.Hour + time.Second), true},
		{"ten hours", maxAction.Add(10 * time.Hour), true},
		{"before max action", maxAction.Add(-time.Hour), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Breached(tc.site, maxAction, true, DefaultSLAWindow))
		})
	}
}

func TestBreached_NoMaxAction(t *testing.T) {
	site := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.False(t, Breached(site, time.Time{}, false, DefaultSLAWindow))
}
