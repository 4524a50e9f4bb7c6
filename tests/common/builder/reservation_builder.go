//go:build unit || e2e

package builder

import (
	"time"

	"salon-reserve/internal/domain/catalog"
	"salon-reserve/internal/domain/reservation"
	reqdto "salon-reserve/internal/handler/dto/request"
	"salon-reserve/internal/pkg/clock"
	"salon-reserve/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationBuilder struct {
	TenantID         uuid.UUID
	StoreID          *uuid.UUID
	CustomerID       uuid.UUID
	CustomerName     string
	CustomerPhone    string
	PractitionerID   uuid.UUID
	PractitionerName string
	Date             string
	StartTime        string
	EndTime          *string
	MenuItems        []catalog.MenuSnapshot
	OptionItems      []catalog.OptionSnapshot
	NominationFee    int32
	Discount         int32
	TotalPrice       *int32
	Source           string
	Timezone         string
}

func NewReservationBuilder() *ReservationBuilder {
	return &ReservationBuilder{
		TenantID:         uuid.New(),
		CustomerID:       uuid.New(),
		CustomerName:     "Hanako Sato",
		CustomerPhone:    "090-0000-0000",
		PractitionerID:   uuid.New(),
		PractitionerName: "Yuki Tanaka",
		Date:             "2026-03-01",
		StartTime:        "10:00",
		MenuItems: []catalog.MenuSnapshot{
			{MenuID: uuid.New(), Name: "Cut", Price: 4400, DurationMin: 40, SortOrder: 0, IsMain: true},
		},
		Source:   "admin",
		Timezone: "Asia/Tokyo",
	}
}

func (b *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(b)
	return b
}

func (b *ReservationBuilder) WithDate(date string) *ReservationBuilder {
	b.Date = date
	return b
}

func (b *ReservationBuilder) WithTimes(start string, end *string) *ReservationBuilder {
	b.StartTime = start
	b.EndTime = end
	return b
}

func (b *ReservationBuilder) WithMenuItems(items ...catalog.MenuSnapshot) *ReservationBuilder {
	b.MenuItems = items
	return b
}

func (b *ReservationBuilder) WithOptionItems(items ...catalog.OptionSnapshot) *ReservationBuilder {
	b.OptionItems = items
	return b
}

func (b *ReservationBuilder) WithPricing(nominationFee, discount int32, total *int32) *ReservationBuilder {
	b.NominationFee = nominationFee
	b.Discount = discount
	b.TotalPrice = total
	return b
}

func (b *ReservationBuilder) BuildParams() (reservation.NewReservationParams, error) {
	date, err := reservation.NewDate(b.Date)
	if err != nil {
		return reservation.NewReservationParams{}, err
	}
	start, err := reservation.NewTimeOfDay(b.StartTime)
	if err != nil {
		return reservation.NewReservationParams{}, err
	}
	var end *reservation.TimeOfDay
	if b.EndTime != nil {
		e, err := reservation.NewTimeOfDay(*b.EndTime)
		if err != nil {
			return reservation.NewReservationParams{}, err
		}
		end = &e
	}
	loc, err := reservation.LoadLocation(b.Timezone)
	if err != nil {
		return reservation.NewReservationParams{}, err
	}

	return reservation.NewReservationParams{
		TenantID:      b.TenantID,
		StoreID:       b.StoreID,
		Customer:      reservation.Customer{ID: b.CustomerID, Name: b.CustomerName, Phone: b.CustomerPhone},
		Practitioner:  reservation.Practitioner{ID: b.PractitionerID, Name: b.PractitionerName},
		Date:          date,
		StartTime:     start,
		EndTime:       end,
		MenuItems:     b.MenuItems,
		OptionItems:   b.OptionItems,
		NominationFee: b.NominationFee,
		Discount:      b.Discount,
		TotalPrice:    b.TotalPrice,
		Source:        reservation.Source(b.Source),
		Timezone:      loc,
	}, nil
}

func (b *ReservationBuilder) BuildDomain(clk clock.Clock) (*reservation.Reservation, error) {
	params, err := b.BuildParams()
	if err != nil {
		return nil, err
	}
	return reservation.NewFactory(clk).CreateReservation(params)
}

func (b *ReservationBuilder) BuildCreateRequestDTO() reqdto.CreateReservationRequest {
	menuIDs := make([]uuid.UUID, len(b.MenuItems))
	for i, m := range b.MenuItems {
		menuIDs[i] = m.MenuID
	}
	optionIDs := make([]uuid.UUID, len(b.OptionItems))
	for i, o := range b.OptionItems {
		optionIDs[i] = o.OptionID
	}
	return reqdto.CreateReservationRequest{
		StoreID:        b.StoreID,
		CustomerID:     b.CustomerID,
		PractitionerID: b.PractitionerID,
		Date:           b.Date,
		StartTime:      b.StartTime,
		EndTime:        b.EndTime,
		MenuIDs:        menuIDs,
		OptionIDs:      optionIDs,
		NominationFee:  b.NominationFee,
		Discount:       b.Discount,
		TotalPrice:     b.TotalPrice,
		Source:         b.Source,
	}
}

func (b *ReservationBuilder) BuildView() *queries.ReservationView {
	var subtotal, optionTotal, duration int32
	menus := make([]queries.MenuItemView, len(b.MenuItems))
	for i, m := range b.MenuItems {
		subtotal += m.Price
		duration += m.DurationMin
		menus[i] = queries.MenuItemView{
			MenuID: m.MenuID, Name: m.Name, Price: m.Price,
			DurationMin: m.DurationMin, SortOrder: m.SortOrder, IsMain: m.IsMain,
		}
	}
	options := make([]queries.OptionItemView, len(b.OptionItems))
	for i, o := range b.OptionItems {
		optionTotal += o.Price
		duration += o.DurationMin
		options[i] = queries.OptionItemView{
			OptionID: o.OptionID, Name: o.Name, Price: o.Price,
			DurationMin: o.DurationMin, SortOrder: o.SortOrder,
		}
	}

	end := "10:40"
	if b.EndTime != nil {
		end = *b.EndTime
	}
	now := time.Now()
	return &queries.ReservationView{
		ID:               uuid.New(),
		TenantID:         b.TenantID,
		StoreID:          b.StoreID,
		CustomerID:       b.CustomerID,
		CustomerName:     b.CustomerName,
		CustomerPhone:    b.CustomerPhone,
		PractitionerID:   b.PractitionerID,
		PractitionerName: b.PractitionerName,
		Date:             b.Date,
		StartTime:        b.StartTime,
		EndTime:          end,
		Status:           "pending",
		Source:           b.Source,
		Subtotal:         subtotal,
		OptionTotal:      optionTotal,
		NominationFee:    b.NominationFee,
		Discount:         b.Discount,
		TotalPrice:       subtotal + optionTotal + b.NominationFee - b.Discount,
		DurationMin:      duration,
		MenuItems:        menus,
		OptionItems:      options,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
