//go:build unit

package policy_test

import (
	"testing"
	"time"

	"salon-reserve/internal/domain/policy"
	"salon-reserve/internal/domain/reservation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokyoPolicy() policy.StorePolicy {
	return policy.StorePolicy{
		Timezone:            "Asia/Tokyo",
		SlotDurationMin:     30,
		AdvanceBookingDays:  30,
		CancelDeadlineHours: 4,
	}
}

func mustDate(t *testing.T, s string) reservation.Date {
	t.Helper()
	d, err := reservation.NewDate(s)
	require.NoError(t, err)
	return d
}

func TestValidateAdvanceBooking(t *testing.T) {
	p := tokyoPolicy()

	// 2026-02-01T14:59Z is still 2026-02-01 23:59 in Tokyo.
	beforeMidnight := time.Date(2026, 2, 1, 14, 59, 0, 0, time.UTC)
	// One minute later the Tokyo calendar has rolled to 2026-02-02.
	afterMidnight := time.Date(2026, 2, 1, 15, 0, 0, 0, time.UTC)

	t.Run("window boundary uses the store local calendar", func(t *testing.T) {
		limit := mustDate(t, "2026-03-03")
		beyond := mustDate(t, "2026-03-04")

		assert.NoError(t, policy.ValidateAdvanceBooking(limit, p, beforeMidnight))
		assert.ErrorIs(t, policy.ValidateAdvanceBooking(beyond, p, beforeMidnight), policy.ErrAdvanceWindowExceeded)

		// The same target becomes valid once the local day advances.
		assert.NoError(t, policy.ValidateAdvanceBooking(beyond, p, afterMidnight))
	})

	t.Run("past dates are inside the window", func(t *testing.T) {
		assert.NoError(t, policy.ValidateAdvanceBooking(mustDate(t, "2026-01-01"), p, beforeMidnight))
	})

	t.Run("zero window disables the check", func(t *testing.T) {
		open := p
		open.AdvanceBookingDays = 0
		assert.NoError(t, policy.ValidateAdvanceBooking(mustDate(t, "2999-12-31"), open, beforeMidnight))
	})

	t.Run("unknown timezone surfaces", func(t *testing.T) {
		broken := p
		broken.Timezone = "Not/AZone"
		err := policy.ValidateAdvanceBooking(mustDate(t, "2026-03-01"), broken, beforeMidnight)
		assert.ErrorIs(t, err, reservation.ErrUnknownTimezone)
	})
}

func TestValidateCancelDeadline(t *testing.T) {
	p := tokyoPolicy()
	date := mustDate(t, "2026-03-01")
	start, err := reservation.NewTimeOfDay("14:00")
	require.NoError(t, err)

	// Start is 2026-03-01 14:00 JST = 05:00 UTC; the 4h cutoff is 01:00 UTC.
	cutoff := time.Date(2026, 3, 1, 1, 0, 0, 0, time.UTC)

	t.Run("before the cutoff cancels", func(t *testing.T) {
		assert.NoError(t, policy.ValidateCancelDeadline(date, start, p, cutoff.Add(-time.Minute)))
	})

	t.Run("at the cutoff is already too late", func(t *testing.T) {
		assert.ErrorIs(t, policy.ValidateCancelDeadline(date, start, p, cutoff), policy.ErrCancelDeadlinePassed)
	})

	t.Run("after the cutoff is rejected", func(t *testing.T) {
		assert.ErrorIs(t, policy.ValidateCancelDeadline(date, start, p, cutoff.Add(time.Hour)), policy.ErrCancelDeadlinePassed)
	})

	t.Run("zero deadline still blocks once started", func(t *testing.T) {
		immediate := p
		immediate.CancelDeadlineHours = 0
		startsAt := time.Date(2026, 3, 1, 5, 0, 0, 0, time.UTC)
		assert.NoError(t, policy.ValidateCancelDeadline(date, start, immediate, startsAt.Add(-time.Minute)))
		assert.ErrorIs(t, policy.ValidateCancelDeadline(date, start, immediate, startsAt), policy.ErrCancelDeadlinePassed)
	})
}
