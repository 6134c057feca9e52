package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Bivekich/delikadessa-backend/entities"
)

const telegramAPIURL = "https://api.telegram.org"

var ErrMissingTelegramCredentials = errors.New("missing telegram credentials")

// NotificationError is returned when Telegram refuses the message. Callers
// are expected to log it and move on; a failed notification must never stop
// the reconciliation flow.
type NotificationError struct {
	Description string
}

func (e NotificationError) Error() string {
	if e.Description != "" {
		return "failed to send telegram notification: " + e.Description
	}
	return "failed to send telegram notification"
}

type TelegramClient struct {
	botToken string
	chatID   string

	baseURL    string
	httpClient *http.Client
}

func NewTelegramClient(botToken, chatID string) *TelegramClient {
	return &TelegramClient{
		botToken:   botToken,
		chatID:     chatID,
		baseURL:    telegramAPIURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func NewTelegramClientWithBaseURL(botToken, chatID, baseURL string) *TelegramClient {
	c := NewTelegramClient(botToken, chatID)
	c.baseURL = baseURL
	return c
}

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send delivers the booking outcome message to the staff chat.
func (c *TelegramClient) Send(ctx context.Context, notification entities.BookingNotification) error {
	if c.botToken == "" || c.chatID == "" {
		return ErrMissingTelegramCredentials
	}

	payload, err := json.Marshal(sendMessageRequest{
		ChatID: c.chatID,
		Text:   FormatBookingMessage(notification),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal telegram message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	var body sendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode telegram response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !body.OK {
		return NotificationError{Description: body.Description}
	}

	return nil
}

// FormatBookingMessage renders the staff-facing message with every booking
// field plus the payment outcome.
func FormatBookingMessage(n entities.BookingNotification) string {
	return fmt.Sprintf(`
🎉 Новое бронирование!

👤 Клиент: %s %s
📧 Email: %s
📱 Телефон: %s
📅 Дата: %s
⏰ Время: %s
👥 Гости: %s
💳 Статус оплаты: %s
🆔 ID платежа: %s
`,
		n.Booking.FirstName, n.Booking.LastName,
		n.Booking.Email,
		n.Booking.Phone,
		n.Booking.Date,
		n.Booking.Time,
		n.Booking.Guests,
		n.StatusLabel,
		n.PaymentID,
	)
}
