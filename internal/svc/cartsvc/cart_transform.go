package cartsvc

import "github.com/mkrupp/storefront/internal/domain"

// ToCartLines flattens the remote cart into cart lines carrying the wrapper fields
// next to the nested product. The discounted price is taken from the product when
// it has one.
func ToCartLines(remote domain.RemoteCart) []domain.CartLine {
	lines := make([]domain.CartLine, 0, len(remote.Products))

	for _, item := range remote.Products {
		line := domain.CartLine{
			LineID:    item.ID,
			ProductID: item.Product.ID,
			Title:     item.Product.Title,
			Count:     item.Count,
			UnitPrice: item.Price,
			Product:   item.Product,
		}

		if discounted := item.Product.PriceAfterDiscount; discounted != nil && *discounted > 0 {
			price := *discounted
			line.DiscountedPrice = &price
		}

		lines = append(lines, line)
	}

	return lines
}
