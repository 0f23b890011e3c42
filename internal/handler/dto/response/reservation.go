package response

import (
	"time"

	"tablebook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ReservationResponse struct {
	ID                 uuid.UUID  `json:"id"`
	GuestName          string     `json:"guestName"`
	GuestEmail         string     `json:"guestEmail"`
	GuestPhone         string     `json:"guestPhone,omitempty"`
	PartySize          int        `json:"partySize"`
	Date               string     `json:"date"`
	Time               string     `json:"time"`
	SeatingType        string     `json:"seatingType"`
	Status             string     `json:"status"`
	SpecialRequests    *string    `json:"specialRequests,omitempty"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
}

func FromReservationView(view *queries.ReservationView) *ReservationResponse {
	var resp ReservationResponse
	// Field names line up with the read model
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromReservationViews(views []*queries.ReservationView) []*ReservationResponse {
	result := make([]*ReservationResponse, len(views))
	for i, view := range views {
		result[i] = FromReservationView(view)
	}
	return result
}
