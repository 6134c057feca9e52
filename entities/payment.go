package entities

type Money struct {
	Amount   string `json:"value"`
	Currency string `json:"currency"`
}

type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "pending"
	PaymentStatusSucceeded         PaymentStatus = "succeeded"
	PaymentStatusCanceled          PaymentStatus = "canceled"
	PaymentStatusWaitingForCapture PaymentStatus = "waiting_for_capture"
)

// IsTerminal reports whether no further status transition is expected.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusSucceeded || s == PaymentStatusCanceled
}

// Payment mirrors the gateway-side payment object. The ID is opaque and
// assigned by the gateway; Metadata echoes the booking fields.
type Payment struct {
	ID              string            `json:"id"`
	Status          PaymentStatus     `json:"status"`
	Amount          Money             `json:"amount"`
	Description     string            `json:"description,omitempty"`
	ConfirmationURL string            `json:"confirmation_url,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// PriceForGuests returns the table deposit in rubles for a guest count.
// Guest counts above the last tier fall back to the base price; that is
// the price table the booking form ships with, keep it in sync with product.
func PriceForGuests(guests int) int {
	switch {
	case guests <= 2:
		return 3000
	case guests <= 4:
		return 6000
	case guests <= 8:
		return 9000
	case guests <= 12:
		return 12000
	default:
		return 3000
	}
}
