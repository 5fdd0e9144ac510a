package domain

import "time"

type PaymentState string

const (
	PaymentStatePending    PaymentState = "pending"
	PaymentStateProcessing PaymentState = "processing"
	PaymentStateSuccess    PaymentState = "success"
	PaymentStateFailed     PaymentState = "failed"
)

type PaymentMethod string

const (
	PaymentMethodQR   PaymentMethod = "qr"
	PaymentMethodUPI  PaymentMethod = "upi"
	PaymentMethodCard PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodQR, PaymentMethodUPI, PaymentMethodCard:
		return true
	}
	return false
}

// PaymentAttempt is the payment state of one booking.
type PaymentAttempt struct {
	BookingID string        `json:"booking_id"`
	State     PaymentState  `json:"state"`
	Method    PaymentMethod `json:"method,omitempty"`
	Attempts  int           `json:"attempts"`
	Reason    string        `json:"reason,omitempty"`
	UpdatedAt time.Time     `json:"updated_at"`
}
