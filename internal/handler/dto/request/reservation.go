package request

import (
	"strings"

	"tablebook/internal/usecase/commands"
)

type CreateReservationRequest struct {
	GuestName       string  `json:"guest_name" binding:"required"`
	GuestEmail      string  `json:"guest_email" binding:"required"`
	GuestPhone      string  `json:"guest_phone,omitempty"`
	PartySize       int     `json:"party_size" binding:"required"`
	Date            string  `json:"date" binding:"required"`
	Time            string  `json:"time" binding:"required"`
	SeatingType     string  `json:"seating_type" binding:"required"`
	SpecialRequests *string `json:"special_requests,omitempty"`
}

func (r CreateReservationRequest) ToInput() commands.CreateReservationInput {
	return commands.CreateReservationInput{
		GuestName:       r.GuestName,
		GuestEmail:      r.GuestEmail,
		GuestPhone:      r.GuestPhone,
		PartySize:       r.PartySize,
		Date:            r.Date,
		Time:            r.Time,
		SeatingType:     r.SeatingType,
		SpecialRequests: trimmedPtr(r.SpecialRequests),
	}
}

type CancelReservationRequest struct {
	Reason *string `json:"reason,omitempty"`
}

func (r CancelReservationRequest) GetReason() *string {
	return trimmedPtr(r.Reason)
}

type UpdateStatusRequest struct {
	Status string  `json:"status" binding:"required"`
	Reason *string `json:"reason,omitempty"`
}

func (r UpdateStatusRequest) GetReason() *string {
	return trimmedPtr(r.Reason)
}

type BlockDateRequest struct {
	Date   string `json:"date" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
