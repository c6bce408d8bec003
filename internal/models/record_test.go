package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCounterSnapshot_Rates(t *testing.T) {
	tests := []struct {
		name        string
		snap        CounterSnapshot
		successRate float64
		errorRate   float64
	}{
		{"zero scanned", CounterSnapshot{}, 0, 0},
		{"all good", CounterSnapshot{TotalScanned: 4, TotalGood: 4}, 100, 0},
		{"all defect", CounterSnapshot{TotalScanned: 4, TotalDefect: 4}, 0, 100},
		{"half and half", CounterSnapshot{TotalScanned: 2, TotalGood: 1, TotalDefect: 1}, 50, 50},
		{"thirds round to 2 decimals", CounterSnapshot{TotalScanned: 3, TotalGood: 1, TotalDefect: 2}, 33.33, 66.67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			successRate, errorRate := tt.snap.Rates()
			require.Equal(t, tt.successRate, successRate)
			require.Equal(t, tt.errorRate, errorRate)
		})
	}
}

func TestRound3(t *testing.T) {
	require.Equal(t, 0.913, Round3(0.912777))
	require.Equal(t, 0.91, Round3(0.91))
	require.Equal(t, 1.0, Round3(0.9999))
}
