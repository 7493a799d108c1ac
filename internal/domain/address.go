package domain

import "strings"

// Address is a saved shipping address of the signed-in user.
type Address struct {
	ID      string `json:"_id,omitempty" yaml:"id"`
	Name    string `json:"name"          yaml:"name"`
	Details string `json:"details"       yaml:"details"`
	Phone   string `json:"phone"         yaml:"phone"`
	City    string `json:"city"          yaml:"city"`
}

// AsShippingAddress converts a saved address into an order destination.
func (a Address) AsShippingAddress() ShippingAddress {
	return ShippingAddress{
		Details: a.Details,
		Phone:   a.Phone,
		City:    a.City,
	}
}

// Validate checks that every field of a new address is set.
func (a Address) Validate() error {
	for field, value := range map[string]string{
		"name":    a.Name,
		"details": a.Details,
		"phone":   a.Phone,
		"city":    a.City,
	} {
		if strings.TrimSpace(value) == "" {
			return newValidationError(field + " is required")
		}
	}

	return nil
}

// AddressesResponse is the envelope of the address endpoints.
type AddressesResponse struct {
	Status  string    `json:"status"`
	Message string    `json:"message,omitempty"`
	Results int       `json:"results"`
	Data    []Address `json:"data"`
}

// AddressResponse is the envelope of the single address endpoint.
type AddressResponse struct {
	Status string  `json:"status"`
	Data   Address `json:"data"`
}

// WishlistResponse is the envelope of the wishlist list endpoint.
type WishlistResponse struct {
	Status string    `json:"status"`
	Count  int       `json:"count"`
	Data   []Product `json:"data"`
}

// WishlistMutationResponse is returned when the wishlist changes. Data holds the product ids.
type WishlistMutationResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Data    []string `json:"data"`
}
