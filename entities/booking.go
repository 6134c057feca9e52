package entities

import (
	"strconv"
	"strings"
)

// Booking is the payload the customer submits when reserving a table.
// It is immutable once created and travels with the payment as metadata
// so a notification can still be built after the registry is lost.
type Booking struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Guests    string `json:"guests"`
}

// GuestCount parses the leading integer out of the guests field
// (the frontend sends strings like "5 человек"). Returns 0 when no
// leading digits are present.
func (b Booking) GuestCount() int {
	s := strings.TrimSpace(b.Guests)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// Metadata flattens the booking into the metadata map attached to the
// payment on the gateway side.
func (b Booking) Metadata(bookingID string) map[string]string {
	return map[string]string{
		"booking_id":     bookingID,
		"customer_name":  b.FirstName + " " + b.LastName,
		"firstName":      b.FirstName,
		"lastName":       b.LastName,
		"customer_email": b.Email,
		"customer_phone": b.Phone,
		"booking_date":   b.Date,
		"booking_time":   b.Time,
		"guests":         b.Guests,
	}
}

// BookingFromMetadata rebuilds a booking from payment metadata. The second
// return value is false when the map carries no booking data at all.
func BookingFromMetadata(metadata map[string]string) (Booking, bool) {
	if len(metadata) == 0 {
		return Booking{}, false
	}

	return Booking{
		FirstName: metadata["firstName"],
		LastName:  metadata["lastName"],
		Email:     metadata["customer_email"],
		Phone:     metadata["customer_phone"],
		Date:      metadata["booking_date"],
		Time:      metadata["booking_time"],
		Guests:    metadata["guests"],
	}, true
}
