// model/order.go
package model

import "time"

type OrderStatus string

const (
	OrderPending         OrderStatus = "PENDING"
	OrderCheckoutStarted OrderStatus = "CHECKOUT_STARTED"
	OrderSuccessful      OrderStatus = "SUCCESSFUL"
	OrderFailed          OrderStatus = "FAILED"
	OrderCancelled       OrderStatus = "CANCELLED"
	OrderExpired         OrderStatus = "EXPIRED"
)

// Terminal reports whether no further status transition is permitted.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderSuccessful, OrderFailed, OrderCancelled, OrderExpired:
		return true
	}
	return false
}

const (
	PaymentMethodMaya     = "maya"
	PaymentMethodGCash    = "gcash"
	PaymentMethodBankTxfr = "bank_transfer"
	PaymentMethodCash     = "cash"
)

type Order struct {
	ID             int64       `json:"id"`
	UserID         int64       `json:"user_id"`
	PackageID      int64       `json:"package_id"`
	PackageName    string      `json:"package_name"`
	PackagePrice   float64     `json:"package_price"`
	PackageCredits int         `json:"package_credits"`
	ValidityDays   int         `json:"validity_period"`
	PaymentMethod  string      `json:"payment_method"`
	Status         OrderStatus `json:"status"`
	ReferenceID    string      `json:"reference_id"`
	CheckoutID     *string     `json:"checkout_id,omitempty"`
	CheckoutURL    *string     `json:"checkout_url,omitempty"`
	ProofPath      *string     `json:"proof_path,omitempty"`
	ApprovedAt     *time.Time  `json:"approved_at,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}
