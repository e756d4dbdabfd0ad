package polygon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	ts := time.Date(2024, 1, 5, 23, 59, 0, 0, time.UTC)
	ny := time.FixedZone("EST", -5*3600)
	late := time.Date(2024, 1, 5, 22, 0, 0, 0, ny)

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"plain date", "2024-01-05", "2024-01-05"},
		{"padded", "  2024-01-05 ", "2024-01-05"},
		{"iso datetime", "2024-01-05T09:30:00", "2024-01-05"},
		{"rfc3339", "2024-01-05T23:00:00Z", "2024-01-05"},
		{"slashes", "2024/01/05", "2024-01-05"},
		{"time value", ts, "2024-01-05"},
		{"time pointer", &ts, "2024-01-05"},
		{"zone kept as written", late, "2024-01-05"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeDate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeDateErrors(t *testing.T) {
	var nilTime *time.Time
	tests := []struct {
		name string
		in   any
	}{
		{"nil", nil},
		{"empty string", "   "},
		{"zero time", time.Time{}},
		{"nil pointer", nilTime},
		{"garbage", "not a date"},
		{"unsupported type", 20240105},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeDate(tt.in)
			assert.Error(t, err)
		})
	}
}
