package response

import (
	"tablebook/internal/usecase/queries"
)

type TimeSlotResponse struct {
	Time             string `json:"time"`
	AvailableIndoor  int    `json:"availableIndoor"`
	AvailableBalcony int    `json:"availableBalcony"`
	IsAvailable      bool   `json:"isAvailable"`
}

type DailyAvailabilityResponse struct {
	Date      string             `json:"date"`
	TimeSlots []TimeSlotResponse `json:"timeSlots"`
	IsBlocked bool               `json:"isBlocked"`
	Notes     *string            `json:"notes,omitempty"`
}

type SlotsForPartyResponse struct {
	Indoor  []string `json:"indoor"`
	Balcony []string `json:"balcony"`
}

type BlockedDateResponse struct {
	Date      string `json:"date"`
	Reason    string `json:"reason"`
	CreatedAt string `json:"createdAt"`
}

func FromDailyAvailability(daily *queries.DailyAvailability) *DailyAvailabilityResponse {
	slots := make([]TimeSlotResponse, len(daily.TimeSlots))
	for i, slot := range daily.TimeSlots {
		slots[i] = TimeSlotResponse{
			Time:             slot.Time,
			AvailableIndoor:  slot.AvailableIndoor,
			AvailableBalcony: slot.AvailableBalcony,
			IsAvailable:      slot.IsAvailable,
		}
	}
	return &DailyAvailabilityResponse{
		Date:      daily.Date.String(),
		TimeSlots: slots,
		IsBlocked: daily.IsBlocked,
		Notes:     daily.Notes,
	}
}

func FromSlotsForParty(slots *queries.SlotsForParty) *SlotsForPartyResponse {
	return &SlotsForPartyResponse{
		Indoor:  slots.Indoor,
		Balcony: slots.Balcony,
	}
}

func FromBlockedDates(views []*queries.BlockedDateView) []*BlockedDateResponse {
	result := make([]*BlockedDateResponse, len(views))
	for i, view := range views {
		result[i] = &BlockedDateResponse{
			Date:      view.Date.String(),
			Reason:    view.Reason,
			CreatedAt: view.CreatedAt,
		}
	}
	return result
}
