// Package catalog holds the tenant menu/option records and the snapshot
// resolver that freezes priced line items into a reservation at booking
// time. Snapshots are copies: later catalog edits never alter them.
package catalog

import (
	"salon-reserve/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrMenuItemNotFound   = errs.New("menu item not found")
	ErrOptionItemNotFound = errs.New("option item not found")
)

type MenuItem struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Name        string
	Price       int32
	DurationMin int32
	Active      bool
}

type OptionItem struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Name        string
	Price       int32
	DurationMin int32
	Active      bool
}

type MenuSnapshot struct {
	MenuID      uuid.UUID
	Name        string
	Price       int32
	DurationMin int32
	SortOrder   int32
	IsMain      bool
}

type OptionSnapshot struct {
	OptionID    uuid.UUID
	Name        string
	Price       int32
	DurationMin int32
	SortOrder   int32
}

// ResolveMenuSnapshots freezes the selected menu items in selection
// order; the first selected item is the main menu. Any id that is
// unknown (which includes inactive items and items of another tenant,
// both filtered out by the caller's read) fails the whole resolution.
func ResolveMenuSnapshots(items []MenuItem, selected []uuid.UUID) ([]MenuSnapshot, error) {
	byID := make(map[uuid.UUID]MenuItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	snapshots := make([]MenuSnapshot, 0, len(selected))
	for i, id := range selected {
		it, ok := byID[id]
		if !ok {
			return nil, errs.Mark(errs.New("menu item "+id.String()), ErrMenuItemNotFound)
		}
		snapshots = append(snapshots, MenuSnapshot{
			MenuID:      it.ID,
			Name:        it.Name,
			Price:       it.Price,
			DurationMin: it.DurationMin,
			SortOrder:   int32(i),
			IsMain:      i == 0,
		})
	}
	return snapshots, nil
}

func ResolveOptionSnapshots(items []OptionItem, selected []uuid.UUID) ([]OptionSnapshot, error) {
	byID := make(map[uuid.UUID]OptionItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	snapshots := make([]OptionSnapshot, 0, len(selected))
	for i, id := range selected {
		it, ok := byID[id]
		if !ok {
			return nil, errs.Mark(errs.New("option item "+id.String()), ErrOptionItemNotFound)
		}
		snapshots = append(snapshots, OptionSnapshot{
			OptionID:    it.ID,
			Name:        it.Name,
			Price:       it.Price,
			DurationMin: it.DurationMin,
			SortOrder:   int32(i),
		})
	}
	return snapshots, nil
}

// SumPrices returns (menu subtotal, option total, total duration in minutes).
func SumPrices(menus []MenuSnapshot, options []OptionSnapshot) (int32, int32, int32) {
	var subtotal, optionTotal, duration int32
	for _, m := range menus {
		subtotal += m.Price
		duration += m.DurationMin
	}
	for _, o := range options {
		optionTotal += o.Price
		duration += o.DurationMin
	}
	return subtotal, optionTotal, duration
}
