//go:build unit

package catalog_test

import (
	"testing"

	"salon-reserve/internal/domain/catalog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func menuFixture(name string, price, duration int32) catalog.MenuItem {
	return catalog.MenuItem{
		ID:          uuid.New(),
		TenantID:    uuid.New(),
		Name:        name,
		Price:       price,
		DurationMin: duration,
		Active:      true,
	}
}

func TestResolveMenuSnapshots(t *testing.T) {
	cut := menuFixture("Cut", 4400, 40)
	color := menuFixture("Color", 7700, 90)
	items := []catalog.MenuItem{cut, color}

	t.Run("selection order drives sort order and main flag", func(t *testing.T) {
		snaps, err := catalog.ResolveMenuSnapshots(items, []uuid.UUID{color.ID, cut.ID})
		require.NoError(t, err)
		require.Len(t, snaps, 2)

		assert.Equal(t, color.ID, snaps[0].MenuID)
		assert.True(t, snaps[0].IsMain)
		assert.Equal(t, int32(0), snaps[0].SortOrder)

		assert.Equal(t, cut.ID, snaps[1].MenuID)
		assert.False(t, snaps[1].IsMain)
		assert.Equal(t, int32(1), snaps[1].SortOrder)
	})

	t.Run("snapshot copies name and price", func(t *testing.T) {
		snaps, err := catalog.ResolveMenuSnapshots(items, []uuid.UUID{cut.ID})
		require.NoError(t, err)
		assert.Equal(t, "Cut", snaps[0].Name)
		assert.Equal(t, int32(4400), snaps[0].Price)
		assert.Equal(t, int32(40), snaps[0].DurationMin)
	})

	t.Run("unknown id fails the whole resolution", func(t *testing.T) {
		_, err := catalog.ResolveMenuSnapshots(items, []uuid.UUID{cut.ID, uuid.New()})
		assert.ErrorIs(t, err, catalog.ErrMenuItemNotFound)
	})

	t.Run("empty selection yields empty snapshots", func(t *testing.T) {
		snaps, err := catalog.ResolveMenuSnapshots(items, nil)
		require.NoError(t, err)
		assert.Empty(t, snaps)
	})
}

func TestResolveOptionSnapshots(t *testing.T) {
	spa := catalog.OptionItem{ID: uuid.New(), Name: "Head spa", Price: 1500, DurationMin: 20, Active: true}

	t.Run("resolves known options", func(t *testing.T) {
		snaps, err := catalog.ResolveOptionSnapshots([]catalog.OptionItem{spa}, []uuid.UUID{spa.ID})
		require.NoError(t, err)
		require.Len(t, snaps, 1)
		assert.Equal(t, "Head spa", snaps[0].Name)
	})

	t.Run("unknown option id rejected", func(t *testing.T) {
		_, err := catalog.ResolveOptionSnapshots([]catalog.OptionItem{spa}, []uuid.UUID{uuid.New()})
		assert.ErrorIs(t, err, catalog.ErrOptionItemNotFound)
	})
}

func TestSumPrices(t *testing.T) {
	menus := []catalog.MenuSnapshot{
		{Price: 4400, DurationMin: 40},
		{Price: 7700, DurationMin: 90},
	}
	options := []catalog.OptionSnapshot{
		{Price: 1500, DurationMin: 20},
	}

	subtotal, optionTotal, duration := catalog.SumPrices(menus, options)
	assert.Equal(t, int32(12100), subtotal)
	assert.Equal(t, int32(1500), optionTotal)
	assert.Equal(t, int32(150), duration)
}
