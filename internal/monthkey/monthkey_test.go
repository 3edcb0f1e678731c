package monthkey

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "2025-04", Format(time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)))
}

func TestParse(t *testing.T) {
	got, err := Parse("2025-04")
	require.NoError(t, err)
	assert.Equal(t, 2025, got.Year())
	assert.Equal(t, time.April, got.Month())

	_, err = Parse("April 2025")
	require.Error(t, err)
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "April 2025", Display("2025-04"))
	assert.Equal(t, "not-a-key", Display("not-a-key"))
}

func TestFromEndDate(t *testing.T) {
	got, err := FromEndDate("04/30/2025")
	require.NoError(t, err)
	assert.Equal(t, "2025-04", got)

	_, err = FromEndDate("30/04/2025") // month out of range
	require.Error(t, err)
	_, err = FromEndDate("2025-04-30")
	require.Error(t, err)
}

func TestFromFilename(t *testing.T) {
	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"statement_2025-04-30.pdf", "2025-04", true},
		{"statement_20250430.pdf", "2025-04", true},
		{"chase_04_2025.pdf", "2025-04", true},
		{"eStatement-2025_12.pdf", "2025-12", true},
		{"statement.pdf", "", false},
		{"ref-123456789012.pdf", "", false}, // digits, but no plausible year/month
	}
	for _, tt := range tests {
		got, ok := FromFilename(tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}
}
