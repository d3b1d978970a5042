package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous float64
		expected float64
	}{
		{"growth", 150, 100, 50.0},
		{"decline", 50, 100, -50.0},
		{"total drop", 0, 100, -100.0},
		{"flat", 100, 100, 0.0},
		{"negative previous", 50, -100, -150.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			change := PercentChange(tc.current, tc.previous)
			require.NotNil(t, change)
			assert.InDelta(t, tc.expected, *change, 1e-9)
		})
	}
}

func TestPercentChange_ZeroPrevious(t *testing.T) {
	for _, current := range []float64{0, 1, 150, -20} {
		assert.Nil(t, PercentChange(current, 0), "current=%v", current)
	}
}
