package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bivekich/delikadessa-backend/api"
	"github.com/Bivekich/delikadessa-backend/entities"
)

var testBooking = entities.Booking{
	FirstName: "Иван",
	LastName:  "Петров",
	Email:     "ivan@example.com",
	Phone:     "+79990001122",
	Date:      "2024-06-01",
	Time:      "19:00",
	Guests:    "5 человек",
}

func TestYooKassaCreate(t *testing.T) {
	var gotRequest struct {
		Amount struct {
			Value    string `json:"value"`
			Currency string `json:"currency"`
		} `json:"amount"`
		Capture      bool `json:"capture"`
		Confirmation struct {
			Type      string `json:"type"`
			ReturnURL string `json:"return_url"`
			Locale    string `json:"locale"`
		} `json:"confirmation"`
		Description string            `json:"description"`
		Metadata    map[string]string `json:"metadata"`
	}
	var gotIdempotenceKey string
	var gotUser, gotPass string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/payments", r.URL.Path)

		gotUser, gotPass, _ = r.BasicAuth()
		gotIdempotenceKey = r.Header.Get("Idempotence-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))

		json.NewEncoder(w).Encode(map[string]any{
			"id":     "payment-1",
			"status": "pending",
			"amount": map[string]string{"value": "9000.00", "currency": "RUB"},
			"confirmation": map[string]string{
				"type":             "redirect",
				"confirmation_url": "https://yoomoney.ru/checkout/payments/v2/contract?orderId=payment-1",
			},
		})
	}))
	defer server.Close()

	client := api.NewYooKassaClientWithBaseURL("shop-1", "secret-1", "https://delikadessa.example", server.URL)

	payment, err := client.Create(context.Background(), testBooking)
	require.NoError(t, err)

	assert.Equal(t, "payment-1", payment.ID)
	assert.Equal(t, entities.PaymentStatusPending, payment.Status)
	assert.Equal(t, "https://yoomoney.ru/checkout/payments/v2/contract?orderId=payment-1", payment.ConfirmationURL)

	assert.Equal(t, "shop-1", gotUser)
	assert.Equal(t, "secret-1", gotPass)
	assert.True(t, strings.HasPrefix(gotIdempotenceKey, "booking_"), "idempotence key %q", gotIdempotenceKey)

	// 5 guests land in the 9000 tier
	assert.Equal(t, "9000.00", gotRequest.Amount.Value)
	assert.Equal(t, "RUB", gotRequest.Amount.Currency)
	assert.True(t, gotRequest.Capture)
	assert.Equal(t, "redirect", gotRequest.Confirmation.Type)
	assert.Equal(t, "https://delikadessa.example/success", gotRequest.Confirmation.ReturnURL)
	assert.Equal(t, "ru_RU", gotRequest.Confirmation.Locale)
	assert.Equal(t, "Бронирование столика на 2024-06-01 19:00", gotRequest.Description)

	// metadata carries the booking so it survives a service restart
	assert.Equal(t, "Иван", gotRequest.Metadata["firstName"])
	assert.Equal(t, "5 человек", gotRequest.Metadata["guests"])
	assert.Equal(t, gotIdempotenceKey, gotRequest.Metadata["booking_id"])
}

func TestYooKassaCreateGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{
			"type":        "error",
			"code":        "invalid_credentials",
			"description": "Authentication failed",
		})
	}))
	defer server.Close()

	client := api.NewYooKassaClientWithBaseURL("shop-1", "wrong", "https://delikadessa.example", server.URL)

	_, err := client.Create(context.Background(), testBooking)
	require.Error(t, err)

	var gatewayErr api.GatewayError
	require.ErrorAs(t, err, &gatewayErr)
	assert.Equal(t, http.StatusUnauthorized, gatewayErr.StatusCode)
	assert.Equal(t, "Authentication failed", gatewayErr.Description)
}

func TestYooKassaGetByID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/payments/payment-1", r.URL.Path)

		json.NewEncoder(w).Encode(map[string]any{
			"id":     "payment-1",
			"status": "succeeded",
			"amount": map[string]string{"value": "6000.00", "currency": "RUB"},
		})
	}))
	defer server.Close()

	client := api.NewYooKassaClientWithBaseURL("shop-1", "secret-1", "https://delikadessa.example", server.URL)

	payment, err := client.GetByID(context.Background(), "payment-1")
	require.NoError(t, err)
	assert.Equal(t, entities.PaymentStatusSucceeded, payment.Status)
	assert.Equal(t, entities.Money{Amount: "6000.00", Currency: "RUB"}, payment.Amount)
}

func TestYooKassaGetByIDRequiresID(t *testing.T) {
	client := api.NewYooKassaClient("shop-1", "secret-1", "https://delikadessa.example")

	_, err := client.GetByID(context.Background(), "")
	assert.Error(t, err)
}

func TestYooKassaMissingCredentials(t *testing.T) {
	client := api.NewYooKassaClient("", "", "https://delikadessa.example")

	_, err := client.Create(context.Background(), testBooking)
	assert.ErrorIs(t, err, api.ErrMissingGatewayCredentials)

	_, err = client.GetByID(context.Background(), "payment-1")
	assert.ErrorIs(t, err, api.ErrMissingGatewayCredentials)
}
