package queries

import (
	"context"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/infra"
	"tablebook/internal/pkg/errs"
	"tablebook/internal/usecase/shared"

	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidSeatingType = errs.New("invalid seating type")
	ErrUnknownTimeSlot    = errs.New("time is not a configured slot")
)

// AvailabilityResult is a transient projection, recomputed on every read
// and never persisted.
type AvailabilityResult struct {
	TotalCapacity     int  `json:"total_capacity"`
	BookedCount       int  `json:"booked_count"`
	RemainingCapacity int  `json:"remaining_capacity"`
	Available         bool `json:"available"`
}

type TimeSlotAvailability struct {
	Time             string `json:"time"`
	AvailableIndoor  int    `json:"available_indoor"`
	AvailableBalcony int    `json:"available_balcony"`
	IsAvailable      bool   `json:"is_available"`
}

type DailyAvailability struct {
	Date      reservation.DateKey    `json:"date"`
	TimeSlots []TimeSlotAvailability `json:"time_slots"`
	IsBlocked bool                   `json:"is_blocked"`
	Notes     *string                `json:"notes,omitempty"`
}

type SlotsForParty struct {
	Indoor  []string `json:"indoor"`
	Balcony []string `json:"balcony"`
}

type BlockedDateView struct {
	Date      reservation.DateKey `json:"date"`
	Reason    string              `json:"reason"`
	CreatedAt string              `json:"created_at"`
}

// OccupancyReader reads booked party sums outside any transaction. Reads
// may be momentarily stale; admission is re-checked transactionally on
// create.
type OccupancyReader interface {
	BookedCount(ctx context.Context, key reservation.SlotKey) (int, error)
}

type BlockedDateReader interface {
	Find(ctx context.Context, date reservation.DateKey) (*BlockedDateView, error)
	List(ctx context.Context) ([]*BlockedDateView, error)
}

type AvailabilityQueries interface {
	ComputeSlotAvailability(ctx context.Context, date reservation.DateKey, slotTime string, seating reservation.SeatingType) (*AvailabilityResult, error)
	CanAccommodate(ctx context.Context, date reservation.DateKey, slotTime string, seating reservation.SeatingType, partySize int) (bool, error)
	GetDailyAvailability(ctx context.Context, date reservation.DateKey) (*DailyAvailability, error)
	ListAvailableSlotsForParty(ctx context.Context, date reservation.DateKey, partySize int) (*SlotsForParty, error)
	HasAnyAvailability(ctx context.Context, date reservation.DateKey) (bool, error)
	ListBlockedDates(ctx context.Context) ([]*BlockedDateView, error)
}

type availabilityQueriesImpl struct {
	settings  shared.Settings
	occupancy OccupancyReader
	blocked   BlockedDateReader
}

func NewAvailabilityQueries(settings shared.Settings, occupancy OccupancyReader, blocked BlockedDateReader) AvailabilityQueries {
	return &availabilityQueriesImpl{
		settings:  settings,
		occupancy: occupancy,
		blocked:   blocked,
	}
}

func (q *availabilityQueriesImpl) ComputeSlotAvailability(ctx context.Context, date reservation.DateKey, slotTime string, seating reservation.SeatingType) (*AvailabilityResult, error) {
	if !seating.IsValid() {
		return nil, ErrInvalidSeatingType
	}
	if !q.settings.IsConfiguredSlot(slotTime) {
		return nil, ErrUnknownTimeSlot
	}

	booked, err := q.occupancy.BookedCount(ctx, reservation.NewSlotKey(date, slotTime, seating))
	if err != nil {
		return nil, err
	}

	total := q.settings.Capacity(seating)
	remaining := total - booked
	if remaining < 0 {
		remaining = 0
	}
	return &AvailabilityResult{
		TotalCapacity:     total,
		BookedCount:       booked,
		RemainingCapacity: remaining,
		Available:         remaining > 0,
	}, nil
}

func (q *availabilityQueriesImpl) CanAccommodate(ctx context.Context, date reservation.DateKey, slotTime string, seating reservation.SeatingType, partySize int) (bool, error) {
	result, err := q.ComputeSlotAvailability(ctx, date, slotTime, seating)
	if err != nil {
		return false, err
	}
	return result.RemainingCapacity >= partySize, nil
}

func (q *availabilityQueriesImpl) GetDailyAvailability(ctx context.Context, date reservation.DateKey) (*DailyAvailability, error) {
	blocked, err := q.findBlocked(ctx, date)
	if err != nil {
		return nil, err
	}
	if blocked != nil {
		reason := blocked.Reason
		return &DailyAvailability{
			Date:      date,
			TimeSlots: []TimeSlotAvailability{},
			IsBlocked: true,
			Notes:     &reason,
		}, nil
	}

	slots := q.settings.TimeSlots()
	results := make([]TimeSlotAvailability, len(slots))

	// Slots are independent of each other, so fan out one goroutine per
	// slot; each computes both seating categories.
	g, gctx := errgroup.WithContext(ctx)
	for i, slotTime := range slots {
		g.Go(func() error {
			indoor, err := q.ComputeSlotAvailability(gctx, date, slotTime, reservation.SeatingIndoor)
			if err != nil {
				return err
			}
			balcony, err := q.ComputeSlotAvailability(gctx, date, slotTime, reservation.SeatingBalcony)
			if err != nil {
				return err
			}
			results[i] = TimeSlotAvailability{
				Time:             slotTime,
				AvailableIndoor:  indoor.RemainingCapacity,
				AvailableBalcony: balcony.RemainingCapacity,
				IsAvailable:      indoor.RemainingCapacity > 0 || balcony.RemainingCapacity > 0,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &DailyAvailability{
		Date:      date,
		TimeSlots: results,
		IsBlocked: false,
	}, nil
}

// Seating preference is non-binding here: both categories are always
// reported and the caller chooses.
func (q *availabilityQueriesImpl) ListAvailableSlotsForParty(ctx context.Context, date reservation.DateKey, partySize int) (*SlotsForParty, error) {
	daily, err := q.GetDailyAvailability(ctx, date)
	if err != nil {
		return nil, err
	}

	result := &SlotsForParty{Indoor: []string{}, Balcony: []string{}}
	if daily.IsBlocked {
		return result, nil
	}
	for _, slot := range daily.TimeSlots {
		if slot.AvailableIndoor >= partySize {
			result.Indoor = append(result.Indoor, slot.Time)
		}
		if slot.AvailableBalcony >= partySize {
			result.Balcony = append(result.Balcony, slot.Time)
		}
	}
	return result, nil
}

func (q *availabilityQueriesImpl) HasAnyAvailability(ctx context.Context, date reservation.DateKey) (bool, error) {
	daily, err := q.GetDailyAvailability(ctx, date)
	if err != nil {
		return false, err
	}
	if daily.IsBlocked {
		return false, nil
	}
	for _, slot := range daily.TimeSlots {
		if slot.IsAvailable {
			return true, nil
		}
	}
	return false, nil
}

func (q *availabilityQueriesImpl) ListBlockedDates(ctx context.Context) ([]*BlockedDateView, error) {
	return q.blocked.List(ctx)
}

func (q *availabilityQueriesImpl) findBlocked(ctx context.Context, date reservation.DateKey) (*BlockedDateView, error) {
	blocked, err := q.blocked.Find(ctx, date)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return blocked, nil
}
