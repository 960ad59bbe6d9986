package order

import (
	"time"
)

type PaymentStatus string

const (
	PaymentSuccess PaymentStatus = "success"
	PaymentFailed  PaymentStatus = "failed"
)

type PaymentMethod string

const (
	MethodMobileMoney    PaymentMethod = "mobile_money"
	MethodCashOnDelivery PaymentMethod = "cash_on_delivery"
	MethodBankTransfer   PaymentMethod = "bank_transfer"
)

type Operator string

const (
	OperatorMTN    Operator = "mtn"
	OperatorOrange Operator = "orange"
)

func ValidOperator(op Operator) bool {
	return op == OperatorMTN || op == OperatorOrange
}

type SubscriptionLevel string

const (
	LevelBasic   SubscriptionLevel = "Basic"
	LevelClassic SubscriptionLevel = "Classic"
	LevelPremium SubscriptionLevel = "Premium"
)

func ValidLevel(level SubscriptionLevel) bool {
	switch level {
	case LevelBasic, LevelClassic, LevelPremium:
		return true
	}
	return false
}

// Order is the client's view of a server-owned order: the id plus whatever
// status the server last reported. Created once per checkout attempt and
// never reused.
type Order struct {
	ID            int       `json:"id"`
	Status        string    `json:"status,omitempty"`
	PaymentStatus string    `json:"payment_status,omitempty"`
	Total         string    `json:"total,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
}

type Subscription struct {
	ID            int               `json:"id"`
	ProjectID     int               `json:"project_id"`
	Level         SubscriptionLevel `json:"subscription_level"`
	Operator      Operator          `json:"operator,omitempty"`
	PaymentStatus string            `json:"payment_status,omitempty"`
	CreatedAt     time.Time         `json:"created_at,omitempty"`
}

// SubscriptionMarker is cached client-side after a successful subscription
// payment so the catalog can unlock project content without a round-trip.
type SubscriptionMarker struct {
	ProjectID int               `json:"project_id"`
	Level     SubscriptionLevel `json:"level"`
}
