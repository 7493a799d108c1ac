package domain

// RemoteCartLine is one entry of the remote cart resource: a wrapper carrying
// count and price around a nested product.
type RemoteCartLine struct {
	ID      string  `json:"_id"`
	Count   int     `json:"count"`
	Price   float64 `json:"price"`
	Product Product `json:"product"`
}

// RemoteCart is the cart resource as the remote API reports it.
type RemoteCart struct {
	ID             string           `json:"_id"`
	CartOwner      string           `json:"cartOwner"`
	Products       []RemoteCartLine `json:"products"`
	TotalCartPrice float64          `json:"totalCartPrice"`
}

// CartResponse is the envelope of every cart endpoint.
type CartResponse struct {
	Status         string     `json:"status"`
	Message        string     `json:"message,omitempty"`
	NumOfCartItems int        `json:"numOfCartItems"`
	CartID         string     `json:"cartId"`
	Data           RemoteCart `json:"data"`
}

// CartLine is a flattened cart line. It carries the wrapper fields next to
// the nested product so both shapes are available to consumers.
type CartLine struct {
	LineID          string   `json:"lineId"                    yaml:"lineId"`
	ProductID       string   `json:"productId"                 yaml:"productId"`
	Title           string   `json:"title"                     yaml:"title"`
	Count           int      `json:"count"                     yaml:"count"`
	UnitPrice       float64  `json:"unitPrice"                 yaml:"unitPrice"`
	DiscountedPrice *float64 `json:"discountedPrice,omitempty" yaml:"discountedPrice,omitempty"`
	Product         Product  `json:"product"                   yaml:"-"`
}

// EffectivePrice returns the discounted unit price when set, the unit price otherwise.
func (l CartLine) EffectivePrice() float64 {
	if l.DiscountedPrice != nil {
		return *l.DiscountedPrice
	}

	return l.UnitPrice
}

// Subtotal returns the effective unit price times the count.
func (l CartLine) Subtotal() float64 {
	return l.EffectivePrice() * float64(l.Count)
}

// CartState is the in-memory cart of the client, mirrored from the remote cart.
type CartState struct {
	Lines     []CartLine
	CartID    string
	IsLoading bool
	LastError error
}

// TotalItems returns the sum of the line counts.
func (s CartState) TotalItems() int {
	total := 0

	for _, line := range s.Lines {
		total += line.Count
	}

	return total
}

// TotalPrice returns the sum of the line subtotals at their effective prices.
func (s CartState) TotalPrice() float64 {
	total := 0.0

	for _, line := range s.Lines {
		total += line.Subtotal()
	}

	return total
}
