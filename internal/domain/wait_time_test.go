package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyWaitTime(t *testing.T) {
	tests := []struct {
		minutes int
		want    WaitTier
	}{
		{minutes: 0, want: WaitTierShort},
		{minutes: 15, want: WaitTierShort},
		{minutes: 16, want: WaitTierMedium},
		{minutes: 30, want: WaitTierMedium},
		{minutes: 31, want: WaitTierLong},
		{minutes: 240, want: WaitTierLong},
		{minutes: -5, want: WaitTierShort},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyWaitTime(tt.minutes), "minutes=%d", tt.minutes)
	}
}

func TestWaitTier_Presentation(t *testing.T) {
	assert.Equal(t, "Kurze Wartezeit", WaitTierShort.Label())
	assert.Equal(t, "Mittlere Wartezeit", WaitTierMedium.Label())
	assert.Equal(t, "Lange Wartezeit", WaitTierLong.Label())
	assert.Equal(t, "#10b981", WaitTierShort.Color())
	assert.Equal(t, "#f59e0b", WaitTierMedium.Color())
	assert.Equal(t, "#ef4444", WaitTierLong.Color())

	w := &WaitTime{CurrentWaitMinutes: 20}
	assert.Equal(t, WaitTierMedium, w.Tier())
}
