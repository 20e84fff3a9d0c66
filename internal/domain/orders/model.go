package orders

import (
	"pet-care-portal/internal/platform/jsontime"

	"github.com/shopspring/decimal"
)

// Status
// @Enum PENDING, CONFIRMED, PROCESSING, TO_BE_SENT, SENT, DELIVERED, CANCELLED, REFUNDED
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusProcessing Status = "PROCESSING"
	StatusToBeSent   Status = "TO_BE_SENT"
	StatusSent       Status = "SENT"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
	StatusRefunded   Status = "REFUNDED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusToBeSent,
		StatusSent, StatusDelivered, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

type Item struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
}

type Order struct {
	ID            int64             `json:"id"`
	UserID        *int64            `json:"userId"`
	OrderNumber   string            `json:"orderNumber"`
	Items         []Item            `json:"orderItems"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	TaxAmount     decimal.Decimal   `json:"taxAmount"`
	ShippingCost  decimal.Decimal   `json:"shippingCost"`
	TotalAmount   decimal.Decimal   `json:"totalAmount"`
	Status        Status            `json:"status"`
	PaymentMethod string            `json:"paymentMethod,omitempty"`
	PaymentStatus string            `json:"paymentStatus,omitempty"`
	Shipping      ShippingDetails   `json:"shippingDetails"`
	Cancellation  string            `json:"cancellationReason,omitempty"`
	OrderDate     jsontime.DateTime `json:"orderDate"`
	CreatedAt     jsontime.DateTime `json:"createdAt"`
}

type ShippingDetails struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zipCode"`
	Country  string `json:"country"`
}
