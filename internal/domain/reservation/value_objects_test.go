//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"salon-reserve/internal/domain/reservation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDate(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		d, err := reservation.NewDate("2026-03-01")
		require.NoError(t, err)
		assert.Equal(t, "2026-03-01", d.String())
	})

	t.Run("invalid formats", func(t *testing.T) {
		for _, s := range []string{"", "2026/03/01", "01-03-2026", "2026-13-01", "2026-02-30", "yesterday"} {
			_, err := reservation.NewDate(s)
			assert.ErrorIs(t, err, reservation.ErrInvalidDate, "input %q", s)
		}
	})

	t.Run("add days crosses month boundary", func(t *testing.T) {
		d, err := reservation.NewDate("2026-01-31")
		require.NoError(t, err)
		assert.Equal(t, "2026-02-01", d.AddDays(1).String())
	})

	t.Run("after comparison", func(t *testing.T) {
		a, _ := reservation.NewDate("2026-03-01")
		b, _ := reservation.NewDate("2026-03-02")
		assert.True(t, b.After(a))
		assert.False(t, a.After(b))
		assert.False(t, a.After(a))
	})
}

func TestNewTimeOfDay(t *testing.T) {
	t.Run("valid time", func(t *testing.T) {
		v, err := reservation.NewTimeOfDay("09:30")
		require.NoError(t, err)
		assert.Equal(t, "09:30", v.String())
		assert.Equal(t, 570, v.Minutes())
	})

	t.Run("invalid formats", func(t *testing.T) {
		for _, s := range []string{"", "9:30:00", "24:00", "12:60", "noon"} {
			_, err := reservation.NewTimeOfDay(s)
			assert.ErrorIs(t, err, reservation.ErrInvalidTimeOfDay, "input %q", s)
		}
	})

	t.Run("add minutes", func(t *testing.T) {
		v, _ := reservation.NewTimeOfDay("10:00")
		assert.Equal(t, "10:40", v.AddMinutes(40).String())
		assert.Equal(t, "11:15", v.AddMinutes(75).String())
	})
}

func TestPeriod(t *testing.T) {
	tokyo, err := reservation.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	date, _ := reservation.NewDate("2026-03-01")

	mk := func(start, end string) reservation.Period {
		s, err := reservation.NewTimeOfDay(start)
		require.NoError(t, err)
		e, err := reservation.NewTimeOfDay(end)
		require.NoError(t, err)
		p, err := reservation.NewPeriod(date, s, e, tokyo)
		require.NoError(t, err)
		return p
	}

	t.Run("rejects zero and negative length", func(t *testing.T) {
		start, _ := reservation.NewTimeOfDay("10:00")
		for _, end := range []string{"10:00", "09:00"} {
			e, _ := reservation.NewTimeOfDay(end)
			_, err := reservation.NewPeriod(date, start, e, tokyo)
			assert.ErrorIs(t, err, reservation.ErrInvalidPeriod)
		}
	})

	t.Run("back to back periods do not overlap", func(t *testing.T) {
		a := mk("10:00", "11:00")
		b := mk("11:00", "12:00")
		assert.False(t, a.Overlaps(b))
		assert.False(t, b.Overlaps(a))
	})

	t.Run("one minute overlap detected", func(t *testing.T) {
		a := mk("10:00", "11:01")
		b := mk("11:00", "12:00")
		assert.True(t, a.Overlaps(b))
		assert.True(t, b.Overlaps(a))
	})

	t.Run("containment overlaps", func(t *testing.T) {
		outer := mk("09:00", "18:00")
		inner := mk("12:00", "12:30")
		assert.True(t, outer.Overlaps(inner))
		assert.True(t, inner.Overlaps(outer))
	})

	t.Run("instants carry the store offset", func(t *testing.T) {
		p := mk("10:00", "11:00")
		assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, tokyo), p.Start())
		assert.Equal(t, time.Hour, p.Duration())
	})

	t.Run("tstzrange literal is half open", func(t *testing.T) {
		p := mk("10:00", "11:00")
		assert.Equal(t, "[2026-03-01T10:00:00+09:00,2026-03-01T11:00:00+09:00)", p.ToTstzrange())
	})
}

func TestLoadLocation(t *testing.T) {
	_, err := reservation.LoadLocation("Not/AZone")
	assert.ErrorIs(t, err, reservation.ErrUnknownTimezone)
}
