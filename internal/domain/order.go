package domain

import (
	"strings"
	"time"
)

// Payment methods supported by the remote API.
const (
	PaymentMethodCash = "cash"
	PaymentMethodCard = "card"
)

// ShippingAddress is the destination of an order.
type ShippingAddress struct {
	Details    string `json:"details"              yaml:"details"`
	Phone      string `json:"phone"                yaml:"phone"`
	City       string `json:"city"                 yaml:"city"`
	PostalCode string `json:"postalCode,omitempty" yaml:"postalCode,omitempty"`
}

// Validate checks that the order can be delivered to the address.
func (a ShippingAddress) Validate() error {
	if strings.TrimSpace(a.Details) == "" || strings.TrimSpace(a.Phone) == "" || strings.TrimSpace(a.City) == "" {
		return newValidationError("shipping details, phone and city are required")
	}

	return nil
}

// OrderUser is the owner snapshot embedded in an order.
type OrderUser struct {
	ID    string `json:"_id"   yaml:"id"`
	Name  string `json:"name"  yaml:"name"`
	Email string `json:"email" yaml:"email"`
	Phone string `json:"phone" yaml:"phone"`
}

// OrderItem is one line item of an order.
type OrderItem struct {
	ID      string  `json:"_id"     yaml:"id"`
	Count   int     `json:"count"   yaml:"count"`
	Price   float64 `json:"price"   yaml:"price"`
	Product Product `json:"product" yaml:"product"`
}

// Order is a read-only projection of a placed order.
type Order struct {
	ID                string           `json:"_id"                       yaml:"id"`
	Number            int              `json:"id"                        yaml:"number"`
	ShippingAddress   *ShippingAddress `json:"shippingAddress,omitempty" yaml:"shippingAddress,omitempty"`
	TaxPrice          float64          `json:"taxPrice"                  yaml:"taxPrice"`
	ShippingPrice     float64          `json:"shippingPrice"             yaml:"shippingPrice"`
	TotalOrderPrice   float64          `json:"totalOrderPrice"           yaml:"totalOrderPrice"`
	PaymentMethodType string           `json:"paymentMethodType"         yaml:"paymentMethodType"`
	IsPaid            bool             `json:"isPaid"                    yaml:"isPaid"`
	IsDelivered       bool             `json:"isDelivered"               yaml:"isDelivered"`
	User              OrderUser        `json:"user"                      yaml:"user"`
	CartItems         []OrderItem      `json:"cartItems"                 yaml:"cartItems"`
	PaidAt            *time.Time       `json:"paidAt,omitempty"          yaml:"paidAt,omitempty"`
	CreatedAt         time.Time        `json:"createdAt"                 yaml:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"                 yaml:"updatedAt"`
}

// OrderResponse is returned when an order is created.
type OrderResponse struct {
	Status string `json:"status"`
	Data   Order  `json:"data"`
}

// CheckoutSession is the hosted payment session created for card payments.
type CheckoutSession struct {
	URL        string `json:"url"`
	SuccessURL string `json:"success_url,omitempty"`
	CancelURL  string `json:"cancel_url,omitempty"`
}

// CheckoutSessionResponse is returned when a checkout session is created.
type CheckoutSessionResponse struct {
	Status  string          `json:"status"`
	Session CheckoutSession `json:"session"`
}
