//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"salon-reserve/internal/domain/catalog"
	"salon-reserve/internal/domain/reservation"
	"salon-reserve/internal/pkg/clock"
	"salon-reserve/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

func buildReservation(t *testing.T, mutate func(*builder.ReservationBuilder)) (*reservation.Reservation, error) {
	t.Helper()
	b := builder.NewReservationBuilder()
	if mutate != nil {
		mutate(b)
	}
	return b.BuildDomain(clock.NewMockClock(testNow))
}

func TestCreateReservation(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		res, err := buildReservation(t, nil)
		require.NoError(t, err)
		require.NotNil(t, res)

		assert.NotEqual(t, uuid.Nil, res.ID())
		assert.Equal(t, reservation.StatusPending, res.Status())
		assert.Equal(t, "2026-03-01", res.Date().String())
		assert.Equal(t, "10:00", res.StartTime().String())
		assert.Equal(t, "10:40", res.EndTime().String(), "end defaults to start plus item durations")
		assert.Equal(t, int32(40), res.DurationMin())
		assert.Equal(t, int32(4400), res.Pricing().Total())
		assert.Equal(t, testNow, res.CreatedAt())
		assert.Equal(t, testNow, res.UpdatedAt())
	})

	t.Run("explicit end time wins over derived", func(t *testing.T) {
		end := "11:30"
		res, err := buildReservation(t, func(b *builder.ReservationBuilder) {
			b.WithTimes("10:00", &end)
		})
		require.NoError(t, err)
		assert.Equal(t, "11:30", res.EndTime().String())
	})

	t.Run("options extend duration and totals", func(t *testing.T) {
		res, err := buildReservation(t, func(b *builder.ReservationBuilder) {
			b.WithOptionItems(catalog.OptionSnapshot{
				OptionID: uuid.New(), Name: "Head spa", Price: 1500, DurationMin: 20, SortOrder: 0,
			})
		})
		require.NoError(t, err)
		assert.Equal(t, "11:00", res.EndTime().String())
		assert.Equal(t, int32(60), res.DurationMin())
		assert.Equal(t, int32(1500), res.Pricing().OptionTotal())
		assert.Equal(t, int32(5900), res.Pricing().Total())
	})

	t.Run("requires at least one menu item", func(t *testing.T) {
		_, err := buildReservation(t, func(b *builder.ReservationBuilder) {
			b.MenuItems = nil
		})
		assert.ErrorIs(t, err, reservation.ErrNoMenuItems)
	})

	t.Run("requires customer and practitioner", func(t *testing.T) {
		_, err := buildReservation(t, func(b *builder.ReservationBuilder) {
			b.CustomerID = uuid.Nil
		})
		assert.ErrorIs(t, err, reservation.ErrMissingCustomer)

		_, err = buildReservation(t, func(b *builder.ReservationBuilder) {
			b.PractitionerID = uuid.Nil
		})
		assert.ErrorIs(t, err, reservation.ErrMissingPractitioner)
	})

	t.Run("derived end crossing midnight is rejected", func(t *testing.T) {
		_, err := buildReservation(t, func(b *builder.ReservationBuilder) {
			b.WithTimes("23:40", nil)
		})
		assert.ErrorIs(t, err, reservation.ErrPeriodCrossesMidnight)
	})

	t.Run("end exactly at midnight is rejected", func(t *testing.T) {
		_, err := buildReservation(t, func(b *builder.ReservationBuilder) {
			b.WithTimes("23:20", nil)
		})
		assert.ErrorIs(t, err, reservation.ErrPeriodCrossesMidnight)
	})

	t.Run("end before start is rejected", func(t *testing.T) {
		end := "09:00"
		_, err := buildReservation(t, func(b *builder.ReservationBuilder) {
			b.WithTimes("10:00", &end)
		})
		assert.ErrorIs(t, err, reservation.ErrInvalidPeriod)
	})

	t.Run("source defaults to admin", func(t *testing.T) {
		res, err := buildReservation(t, func(b *builder.ReservationBuilder) {
			b.Source = ""
		})
		require.NoError(t, err)
		assert.Equal(t, reservation.SourceAdmin, res.Source())
	})
}

func TestPricingReconciliation(t *testing.T) {
	t.Run("caller total must reconcile", func(t *testing.T) {
		wrong := int32(9999)
		_, err := buildReservation(t, func(b *builder.ReservationBuilder) {
			b.WithPricing(0, 0, &wrong)
		})
		assert.ErrorIs(t, err, reservation.ErrPriceMismatch)
	})

	t.Run("matching total accepted", func(t *testing.T) {
		total := int32(4400 + 500 - 300)
		res, err := buildReservation(t, func(b *builder.ReservationBuilder) {
			b.WithPricing(500, 300, &total)
		})
		require.NoError(t, err)
		assert.Equal(t, total, res.Pricing().Total())
		assert.Equal(t, int32(500), res.Pricing().NominationFee())
		assert.Equal(t, int32(300), res.Pricing().Discount())
	})

	t.Run("negative components rejected", func(t *testing.T) {
		_, err := buildReservation(t, func(b *builder.ReservationBuilder) {
			b.WithPricing(-1, 0, nil)
		})
		assert.ErrorIs(t, err, reservation.ErrNegativePrice)
	})

	t.Run("discount exceeding the charge rejected", func(t *testing.T) {
		_, err := buildReservation(t, func(b *builder.ReservationBuilder) {
			b.WithPricing(0, 99999, nil)
		})
		assert.ErrorIs(t, err, reservation.ErrNegativePrice)
	})
}

func TestRebuildReservation(t *testing.T) {
	clk := clock.NewMockClock(testNow)
	factory := reservation.NewFactory(clk)

	original, err := buildReservation(t, nil)
	require.NoError(t, err)
	require.NoError(t, original.Transition(reservation.StatusConfirmed, nil, testNow))

	params, err := builder.NewReservationBuilder().
		WithDate("2026-03-05").
		BuildParams()
	require.NoError(t, err)

	rebuilt, err := factory.RebuildReservation(original.ID(), original.Status(), params)
	require.NoError(t, err)

	assert.Equal(t, original.ID(), rebuilt.ID(), "identity survives the rebuild")
	assert.Equal(t, reservation.StatusConfirmed, rebuilt.Status(), "status survives the rebuild")
	assert.Equal(t, "2026-03-05", rebuilt.Date().String())
}
