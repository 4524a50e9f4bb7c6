//go:build unit

package queries_test

import (
	"context"
	"testing"

	"salon-reserve/internal/domain/reservation"
	"salon-reserve/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReadStore struct {
	queries.ReservationReadStore

	items     []*queries.ReservationListItem
	total     int64
	gotLimit  int32
	gotOffset int32
}

func (s *stubReadStore) List(_ context.Context, _ uuid.UUID, _ queries.ListFilter, limit, offset int32) ([]*queries.ReservationListItem, int64, error) {
	s.gotLimit = limit
	s.gotOffset = offset
	return s.items, s.total, nil
}

func makeItems(n int) []*queries.ReservationListItem {
	items := make([]*queries.ReservationListItem, n)
	for i := range items {
		items[i] = &queries.ReservationListItem{ID: uuid.New()}
	}
	return items
}

func TestList_PagingEnvelope(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("middle page has more", func(t *testing.T) {
		store := &stubReadStore{items: makeItems(20), total: 45}
		q := queries.NewReservationQueries(store)

		page, err := q.List(ctx, tenantID, queries.ListFilter{}, 2, 20)
		require.NoError(t, err)

		assert.Equal(t, int32(20), store.gotLimit)
		assert.Equal(t, int32(20), store.gotOffset)
		assert.Equal(t, 2, page.Page)
		assert.Equal(t, 20, page.Limit)
		assert.Equal(t, int64(45), page.Total)
		assert.True(t, page.HasMore, "20 + 20 < 45")
	})

	t.Run("last short page has no more", func(t *testing.T) {
		store := &stubReadStore{items: makeItems(5), total: 45}
		q := queries.NewReservationQueries(store)

		page, err := q.List(ctx, tenantID, queries.ListFilter{}, 3, 20)
		require.NoError(t, err)
		assert.False(t, page.HasMore, "40 + 5 == 45")
	})

	t.Run("exactly full last page has no more", func(t *testing.T) {
		store := &stubReadStore{items: makeItems(20), total: 40}
		q := queries.NewReservationQueries(store)

		page, err := q.List(ctx, tenantID, queries.ListFilter{}, 2, 20)
		require.NoError(t, err)
		assert.False(t, page.HasMore)
	})

	t.Run("page and limit are normalized", func(t *testing.T) {
		store := &stubReadStore{items: makeItems(0), total: 0}
		q := queries.NewReservationQueries(store)

		page, err := q.List(ctx, tenantID, queries.ListFilter{}, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, queries.DefaultListLimit, page.Limit)
		assert.Equal(t, int32(0), store.gotOffset)
	})

	t.Run("limit is capped", func(t *testing.T) {
		store := &stubReadStore{items: makeItems(0), total: 0}
		q := queries.NewReservationQueries(store)

		page, err := q.List(ctx, tenantID, queries.ListFilter{}, 1, 10_000)
		require.NoError(t, err)
		assert.Equal(t, queries.MaxListLimit, page.Limit)
	})

	t.Run("invalid status filter rejected", func(t *testing.T) {
		store := &stubReadStore{}
		q := queries.NewReservationQueries(store)

		bogus := "archived"
		_, err := q.List(ctx, tenantID, queries.ListFilter{Status: &bogus}, 1, 20)
		assert.ErrorIs(t, err, queries.ErrInvalidFilter)
	})
}

func TestHasConflict_RangeValidation(t *testing.T) {
	q := queries.NewReservationQueries(&stubReadStore{})

	date, err := reservation.NewDate("2026-03-01")
	require.NoError(t, err)
	start, _ := reservation.NewTimeOfDay("11:00")
	end, _ := reservation.NewTimeOfDay("10:00")

	_, err = q.HasConflict(context.Background(), uuid.New(), uuid.New(), date, start, end, nil)
	assert.ErrorIs(t, err, queries.ErrInvalidFilter)
}
