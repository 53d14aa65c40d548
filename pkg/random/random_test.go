package random

import (
	"testing"
	"time"
)

func TestRandomize(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		percent float64
		wantMin float64
		wantMax float64
	}{
		{
			name:    "1% randomization of 100",
			value:   100,
			percent: 1.0,
			wantMin: 99,
			wantMax: 101,
		},
		{
			name:    "5% randomization of 80",
			value:   80,
			percent: 5.0,
			wantMin: 76,
			wantMax: 84,
		},
		{
			name:    "0% randomization (no change)",
			value:   50,
			percent: 0,
			wantMin: 50,
			wantMax: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Run multiple times to check range
			for i := 0; i < 100; i++ {
				result := Randomize(tt.value, tt.percent)

				if result < tt.wantMin || result > tt.wantMax {
					t.Errorf("Randomize(%v, %v) = %v, want range [%v, %v]",
						tt.value, tt.percent, result, tt.wantMin, tt.wantMax)
				}
			}
		})
	}
}

func TestJitter(t *testing.T) {
	for i := 0; i < 100; i++ {
		result := Jitter(time.Second, 10)

		if result < 900*time.Millisecond || result > 1100*time.Millisecond {
			t.Errorf("Jitter(1s, 10) = %v, want range [900ms, 1.1s]", result)
		}
	}

	if got := Jitter(0, 10); got != 0 {
		t.Errorf("Jitter(0, 10) = %v, want 0", got)
	}
}

func TestBackoff(t *testing.T) {
	tests := []struct {
		name    string
		attempt int
		wantMin time.Duration
		wantMax time.Duration
	}{
		{"first attempt", 1, 800 * time.Millisecond, 1200 * time.Millisecond},
		{"second attempt", 2, 1600 * time.Millisecond, 2400 * time.Millisecond},
		{"zero attempt treated as first", 0, 800 * time.Millisecond, 1200 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 50; i++ {
				result := Backoff(tt.attempt, time.Second, 20)

				if result < tt.wantMin || result > tt.wantMax {
					t.Errorf("Backoff(%d, 1s, 20) = %v, want range [%v, %v]",
						tt.attempt, result, tt.wantMin, tt.wantMax)
				}
			}
		})
	}
}
