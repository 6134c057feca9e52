package registry

import (
	"sync"

	"github.com/Bivekich/delikadessa-backend/entities"
)

// BookingRegistry maps payment IDs to the booking that paid for them.
// It is the single source of truth for "which booking does this payment
// belong to" between payment creation and the terminal notification.
// State is memory-resident only; a restart drops everything in flight.
type BookingRegistry struct {
	mu       sync.RWMutex
	bookings map[string]entities.Booking
}

func NewBookingRegistry() *BookingRegistry {
	return &BookingRegistry{
		bookings: make(map[string]entities.Booking),
	}
}

func (r *BookingRegistry) Put(paymentID string, booking entities.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[paymentID] = booking
}

func (r *BookingRegistry) Get(paymentID string) (entities.Booking, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	booking, ok := r.bookings[paymentID]
	return booking, ok
}

func (r *BookingRegistry) Remove(paymentID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bookings, paymentID)
}

func (r *BookingRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bookings)
}
