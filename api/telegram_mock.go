package api

import (
	"context"
	"sync"

	"github.com/Bivekich/delikadessa-backend/entities"
)

type TelegramMock struct {
	mock sync.Mutex

	Sent    []entities.BookingNotification
	SendErr error
}

func (c *TelegramMock) Send(ctx context.Context, notification entities.BookingNotification) error {
	c.mock.Lock()
	defer c.mock.Unlock()

	if c.SendErr != nil {
		return c.SendErr
	}

	c.Sent = append(c.Sent, notification)
	return nil
}

func (c *TelegramMock) SentNotifications() []entities.BookingNotification {
	c.mock.Lock()
	defer c.mock.Unlock()

	out := make([]entities.BookingNotification, len(c.Sent))
	copy(out, c.Sent)
	return out
}
