package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/Bivekich/delikadessa-backend/entities"
)

const yooKassaAPIURL = "https://api.yookassa.ru/v3"

var ErrMissingGatewayCredentials = errors.New("missing yookassa credentials")

// GatewayError is returned when the gateway rejects a call. Description is
// the remote-supplied message when the response carried one.
type GatewayError struct {
	StatusCode  int
	Description string
}

func (e GatewayError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("yookassa: %s (status %d)", e.Description, e.StatusCode)
	}
	return fmt.Sprintf("yookassa: unexpected status %d", e.StatusCode)
}

type YooKassaClient struct {
	shopID      string
	secretKey   string
	frontendURL string

	baseURL    string
	httpClient *http.Client
}

func NewYooKassaClient(shopID, secretKey, frontendURL string) *YooKassaClient {
	return &YooKassaClient{
		shopID:      shopID,
		secretKey:   secretKey,
		frontendURL: frontendURL,
		baseURL:     yooKassaAPIURL,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// NewYooKassaClientWithBaseURL points the client at a non-production
// gateway endpoint.
func NewYooKassaClientWithBaseURL(shopID, secretKey, frontendURL, baseURL string) *YooKassaClient {
	c := NewYooKassaClient(shopID, secretKey, frontendURL)
	c.baseURL = baseURL
	return c
}

type yooKassaAmount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type yooKassaConfirmation struct {
	Type            string `json:"type"`
	ReturnURL       string `json:"return_url,omitempty"`
	Locale          string `json:"locale,omitempty"`
	ConfirmationURL string `json:"confirmation_url,omitempty"`
}

type yooKassaCustomer struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type yooKassaReceiptItem struct {
	Description    string         `json:"description"`
	Quantity       string         `json:"quantity"`
	Amount         yooKassaAmount `json:"amount"`
	VatCode        int            `json:"vat_code"`
	PaymentMode    string         `json:"payment_mode"`
	PaymentSubject string         `json:"payment_subject"`
}

type yooKassaReceipt struct {
	Customer yooKassaCustomer      `json:"customer"`
	Items    []yooKassaReceiptItem `json:"items"`
}

type createPaymentRequest struct {
	Amount       yooKassaAmount       `json:"amount"`
	Capture      bool                 `json:"capture"`
	Confirmation yooKassaConfirmation `json:"confirmation"`
	Description  string               `json:"description"`
	Receipt      yooKassaReceipt      `json:"receipt"`
	Metadata     map[string]string    `json:"metadata"`
}

type paymentResponse struct {
	ID           string                `json:"id"`
	Status       string                `json:"status"`
	Amount       yooKassaAmount        `json:"amount"`
	Description  string                `json:"description"`
	Confirmation *yooKassaConfirmation `json:"confirmation"`
	Metadata     map[string]string     `json:"metadata"`
}

// Create registers a deposit payment for the booking. Every call gets a
// fresh idempotency key so a retried booking request is never double-charged.
func (c *YooKassaClient) Create(ctx context.Context, booking entities.Booking) (entities.Payment, error) {
	if c.shopID == "" || c.secretKey == "" {
		return entities.Payment{}, ErrMissingGatewayCredentials
	}

	idempotenceKey := newIdempotenceKey()
	price := fmt.Sprintf("%d.00", entities.PriceForGuests(booking.GuestCount()))
	amount := yooKassaAmount{Value: price, Currency: "RUB"}

	reqBody := createPaymentRequest{
		Amount:  amount,
		Capture: true,
		Confirmation: yooKassaConfirmation{
			Type:      "redirect",
			ReturnURL: c.frontendURL + "/success",
			Locale:    "ru_RU",
		},
		Description: fmt.Sprintf("Бронирование столика на %s %s", booking.Date, booking.Time),
		Receipt: yooKassaReceipt{
			Customer: yooKassaCustomer{Email: booking.Email, Phone: booking.Phone},
			Items: []yooKassaReceiptItem{
				{
					Description:    "Депозит за бронирование столика",
					Quantity:       "1",
					Amount:         amount,
					VatCode:        1,
					PaymentMode:    "full_prepayment",
					PaymentSubject: "service",
				},
			},
		},
		Metadata: booking.Metadata(idempotenceKey),
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return entities.Payment{}, fmt.Errorf("failed to marshal payment request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payments", bytes.NewReader(payload))
	if err != nil {
		return entities.Payment{}, fmt.Errorf("failed to build payment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotence-Key", idempotenceKey)
	req.SetBasicAuth(c.shopID, c.secretKey)

	return c.do(req)
}

// GetByID fetches the current gateway-side state of a payment.
func (c *YooKassaClient) GetByID(ctx context.Context, paymentID string) (entities.Payment, error) {
	if c.shopID == "" || c.secretKey == "" {
		return entities.Payment{}, ErrMissingGatewayCredentials
	}
	if paymentID == "" {
		return entities.Payment{}, errors.New("payment id is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/payments/"+paymentID, nil)
	if err != nil {
		return entities.Payment{}, fmt.Errorf("failed to build payment status request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.shopID, c.secretKey)

	return c.do(req)
}

func (c *YooKassaClient) do(req *http.Request) (entities.Payment, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return entities.Payment{}, fmt.Errorf("yookassa request failed: %w", err)
	}
	defer resp.Body.Close()

	var body paymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return entities.Payment{}, fmt.Errorf("failed to decode yookassa response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return entities.Payment{}, GatewayError{
			StatusCode:  resp.StatusCode,
			Description: body.Description,
		}
	}

	payment := entities.Payment{
		ID:          body.ID,
		Status:      entities.PaymentStatus(body.Status),
		Amount:      entities.Money{Amount: body.Amount.Value, Currency: body.Amount.Currency},
		Description: body.Description,
		Metadata:    body.Metadata,
	}
	if body.Confirmation != nil {
		payment.ConfirmationURL = body.Confirmation.ConfirmationURL
	}

	return payment, nil
}

const idempotenceKeyAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func newIdempotenceKey() string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = idempotenceKeyAlphabet[rand.Intn(len(idempotenceKeyAlphabet))]
	}
	return fmt.Sprintf("booking_%d_%s", time.Now().UnixMilli(), suffix)
}
