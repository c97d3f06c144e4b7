package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("9:05")
	require.NoError(t, err)
	assert.Equal(t, TimeString("09:05"), ts)

	_, err = NewTimeStringFromString("25:00")
	assert.ErrorIs(t, err, ErrInvalidTimeString)

	_, err = NewTimeStringFromString("noon")
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_AddMinutesWrapsMidnight(t *testing.T) {
	next, err := TimeString("23:30").AddMinutes(60)
	require.NoError(t, err)
	assert.Equal(t, TimeString("00:30"), next)

	prev, err := TimeString("00:15").AddMinutes(-30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("23:45"), prev)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("11:00").IsBefore("11:30"))
	assert.False(t, TimeString("11:30").IsBefore("11:30"))
	assert.True(t, TimeString("23:00").IsAfter("11:00"))
	assert.True(t, TimeString("").IsZero())
}

func TestTimeString_On(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	date := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)

	at, err := TimeString("14:30").On(date, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 20, 14, 30, 0, 0, loc), at)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("14:00:00"))
	assert.Equal(t, TimeString("14:00"), ts)

	require.NoError(t, ts.Scan([]byte("11:30")))
	assert.Equal(t, TimeString("11:30"), ts)

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("23:00"), ts)

	assert.Error(t, ts.Scan(42))
}
