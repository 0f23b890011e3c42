package settings

import (
	"log/slog"
	"slices"
	"time"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/pkg/config"
	"tablebook/internal/usecase/shared"
)

// Provider projects the reservation section of the environment config
// onto the Settings port. Values are immutable after construction, so
// callers get the same answer for the lifetime of the process.
type Provider struct {
	indoorCapacity  int
	balconyCapacity int
	timeSlots       []string
	advanceDays     int
	cancelHours     int
	maxPartySize    int
	location        *time.Location
}

func NewProvider(cfg config.Config) shared.Settings {
	loc, err := time.LoadLocation(cfg.Reservation.TimeZone)
	if err != nil {
		slog.Warn("unknown restaurant timezone, falling back to UTC", "timezone", cfg.Reservation.TimeZone)
		loc = time.UTC
	}
	return &Provider{
		indoorCapacity:  cfg.Reservation.IndoorCapacity,
		balconyCapacity: cfg.Reservation.BalconyCapacity,
		timeSlots:       slices.Clone(cfg.Reservation.TimeSlots),
		advanceDays:     cfg.Reservation.MaxAdvanceBookingDays,
		cancelHours:     cfg.Reservation.CancellationWindowHours,
		maxPartySize:    cfg.Reservation.MaxPartySize,
		location:        loc,
	}
}

func (p *Provider) Capacity(seating reservation.SeatingType) int {
	switch seating {
	case reservation.SeatingIndoor:
		return p.indoorCapacity
	case reservation.SeatingBalcony:
		return p.balconyCapacity
	default:
		return 0
	}
}

func (p *Provider) TimeSlots() []string {
	return slices.Clone(p.timeSlots)
}

func (p *Provider) IsConfiguredSlot(slotTime string) bool {
	return slices.Contains(p.timeSlots, slotTime)
}

func (p *Provider) MaxAdvanceBookingDays() int {
	return p.advanceDays
}

func (p *Provider) CancellationWindowHours() int {
	return p.cancelHours
}

func (p *Provider) MaxPartySize() int {
	return p.maxPartySize
}

func (p *Provider) Location() *time.Location {
	return p.location
}

// The window spans today through today+MaxAdvanceBookingDays, compared on
// calendar dates in the restaurant's timezone.
func (p *Provider) IsDateWithinBookingWindow(date reservation.DateKey, now time.Time) bool {
	today := reservation.NewDateKey(now, p.location).Date(p.location)
	target := date.Date(p.location)
	if target.Before(today) {
		return false
	}
	latest := today.AddDate(0, 0, p.advanceDays)
	return !target.After(latest)
}
