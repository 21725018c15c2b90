package timeutil_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chronograph-db/chronograph/internal/timeutil"
)

func TestParseAtRFC3339(t *testing.T) {
	now := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	got, err := timeutil.ParseAt("2026-01-02T15:04:05Z", now)
	require.NoError(t, err)
	require.True(t, got.Equal(time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)))
}

func TestParseAtNaturalLanguage(t *testing.T) {
	now := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	got, err := timeutil.ParseAt("yesterday", now)
	require.NoError(t, err)
	require.Equal(t, now.AddDate(0, 0, -1).Day(), got.Day())
}

func TestParseAtUnresolvable(t *testing.T) {
	_, err := timeutil.ParseAt("gibberish not a time", time.Now())
	require.Error(t, err)
}
