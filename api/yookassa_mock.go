package api

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Bivekich/delikadessa-backend/entities"
)

// YooKassaMock stands in for the gateway in tests. Statuses maps payment ID
// to the sequence of statuses successive GetByID calls observe; the last
// entry repeats once the sequence is exhausted.
type YooKassaMock struct {
	mock sync.Mutex

	CreatedPayments []entities.Payment
	Statuses        map[string][]entities.PaymentStatus
	CreateErr       error
	GetErr          error

	statusCalls map[string]int
}

func (c *YooKassaMock) Create(ctx context.Context, booking entities.Booking) (entities.Payment, error) {
	c.mock.Lock()
	defer c.mock.Unlock()

	if c.CreateErr != nil {
		return entities.Payment{}, c.CreateErr
	}

	payment := entities.Payment{
		ID:     uuid.NewString(),
		Status: entities.PaymentStatusPending,
		Amount: entities.Money{Amount: "3000.00", Currency: "RUB"},
	}
	c.CreatedPayments = append(c.CreatedPayments, payment)
	return payment, nil
}

func (c *YooKassaMock) GetByID(ctx context.Context, paymentID string) (entities.Payment, error) {
	c.mock.Lock()
	defer c.mock.Unlock()

	if c.GetErr != nil {
		return entities.Payment{}, c.GetErr
	}

	if c.statusCalls == nil {
		c.statusCalls = make(map[string]int)
	}

	statuses := c.Statuses[paymentID]
	if len(statuses) == 0 {
		return entities.Payment{ID: paymentID, Status: entities.PaymentStatusPending}, nil
	}

	call := c.statusCalls[paymentID]
	c.statusCalls[paymentID]++
	if call >= len(statuses) {
		call = len(statuses) - 1
	}

	return entities.Payment{ID: paymentID, Status: statuses[call]}, nil
}

// StatusCalls reports how many times GetByID was invoked for a payment.
func (c *YooKassaMock) StatusCalls(paymentID string) int {
	c.mock.Lock()
	defer c.mock.Unlock()
	return c.statusCalls[paymentID]
}
