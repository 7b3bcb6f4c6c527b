package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationIsJST(t *testing.T) {
	loc := Location()
	_, offset := time.Date(2030, 6, 10, 12, 0, 0, 0, loc).Zone()
	assert.Equal(t, 9*3600, offset)
}

func TestParseDateTime(t *testing.T) {
	got, err := ParseDateTime("2030-06-10", "10:00")
	require.NoError(t, err)

	want := time.Date(2030, 6, 10, 10, 0, 0, 0, Location())
	assert.True(t, got.Equal(want))

	_, err = ParseDateTime("2030-13-40", "10:00")
	assert.Error(t, err)

	_, err = ParseDateTime("2030-06-10", "25:99")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2030-06-10")
	require.NoError(t, err)

	assert.Equal(t, 0, got.Hour())
	assert.Equal(t, time.Monday, got.Weekday())

	_, err = ParseDate("not-a-date")
	assert.Error(t, err)
}
