package reservation

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidDateKey  = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidSlotTime = errors.New("slot time must be in HH:MM format")
	ErrEmptyGuestName  = errors.New("guest name is required")
	ErrInvalidEmail    = errors.New("guest email is invalid")
	ErrInvalidParty    = errors.New("party size must be at least 1")
	ErrPartyTooLarge   = errors.New("party size exceeds the allowed maximum")
)

const dateKeyLayout = "2006-01-02"

// DateKey is the canonical calendar-date form, no time of day and no
// timezone drift once derived.
type DateKey string

func NewDateKey(t time.Time, loc *time.Location) DateKey {
	if loc == nil {
		loc = time.UTC
	}
	return DateKey(t.In(loc).Format(dateKeyLayout))
}

func ParseDateKey(s string) (DateKey, error) {
	if _, err := time.Parse(dateKeyLayout, s); err != nil {
		return "", ErrInvalidDateKey
	}
	return DateKey(s), nil
}

func (d DateKey) String() string {
	return string(d)
}

// Date returns midnight of the key in the given location.
func (d DateKey) Date(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t, _ := time.ParseInLocation(dateKeyLayout, string(d), loc)
	return t
}

func ValidateSlotTime(s string) error {
	if _, err := time.Parse("15:04", s); err != nil {
		return ErrInvalidSlotTime
	}
	return nil
}

// SlotKey identifies one bookable unit of capacity.
type SlotKey struct {
	Date    DateKey
	Time    string
	Seating SeatingType
}

func NewSlotKey(date DateKey, slotTime string, seating SeatingType) SlotKey {
	return SlotKey{Date: date, Time: slotTime, Seating: seating}
}

func (k SlotKey) String() string {
	return fmt.Sprintf("%s|%s|%s", k.Date, k.Time, k.Seating)
}

// StartsAt combines the calendar date with the slot label in the
// restaurant's timezone.
func (k SlotKey) StartsAt(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(dateKeyLayout+" 15:04", fmt.Sprintf("%s %s", k.Date, k.Time), loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

type GuestContact struct {
	name  string
	email string
	phone string
}

func NewGuestContact(name, email, phone string) (GuestContact, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return GuestContact{}, ErrEmptyGuestName
	}
	if at := strings.Index(email, "@"); at < 1 || at == len(email)-1 {
		return GuestContact{}, ErrInvalidEmail
	}
	return GuestContact{name: name, email: email, phone: strings.TrimSpace(phone)}, nil
}

// ReconstructContact hydrates stored data without re-validating it.
func ReconstructContact(name, email, phone string) GuestContact {
	return GuestContact{name: name, email: email, phone: phone}
}

func (g GuestContact) Name() string  { return g.name }
func (g GuestContact) Email() string { return g.email }
func (g GuestContact) Phone() string { return g.phone }

type PartySize struct {
	value int
}

// max <= 0 means no configured per-reservation maximum.
func NewPartySize(value, max int) (PartySize, error) {
	if value < 1 {
		return PartySize{}, ErrInvalidParty
	}
	if max > 0 && value > max {
		return PartySize{}, ErrPartyTooLarge
	}
	return PartySize{value: value}, nil
}

func ReconstructPartySize(value int) PartySize {
	return PartySize{value: value}
}

func (p PartySize) Value() int {
	return p.value
}
