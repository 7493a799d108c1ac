package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mkrupp/storefront/internal/domain"
	"github.com/mkrupp/storefront/internal/infra/format"
)

type textFunc = func(prices *format.PriceFormatter) any

func pageFooter(meta domain.ListMetadata, results int) string {
	if meta.NumberOfPages <= 1 {
		return fmt.Sprintf("%d results", results)
	}

	return fmt.Sprintf("%d results, page %d of %d", results, meta.CurrentPage, meta.NumberOfPages)
}

func productsTable(products []domain.Product, footer string) textFunc {
	return func(prices *format.PriceFormatter) any {
		rows := make([][]string, 0, len(products))

		for _, p := range products {
			price := prices.Format(p.EffectivePrice())
			if p.EffectivePrice() != p.Price {
				price += " (was " + prices.Format(p.Price) + ")"
			}

			rows = append(rows, []string{p.ID, p.Title, price, p.Category.Name, p.Brand.Name, ratingText(p)})
		}

		return format.Table{
			Headers: []string{"ID", "Title", "Price", "Category", "Brand", "Rating"},
			Rows:    rows,
			Footer:  footer,
			Empty:   "No products found",
		}
	}
}

func ratingText(p domain.Product) string {
	if p.RatingsQuantity == 0 {
		return "-"
	}

	return fmt.Sprintf("%.1f (%d)", p.RatingsAverage, p.RatingsQuantity)
}

func productsView(products []domain.Product, footer string) format.View {
	return format.NewView(products, productsTable(products, footer))
}

func productView(p domain.Product) format.View {
	return format.NewView(p, func(prices *format.PriceFormatter) any {
		var b strings.Builder

		fmt.Fprintf(&b, "%s\n", p.Title)
		fmt.Fprintf(&b, "  ID:       %s\n", p.ID)
		fmt.Fprintf(&b, "  Price:    %s\n", prices.Format(p.EffectivePrice()))
		fmt.Fprintf(&b, "  Category: %s\n", p.Category.Name)
		fmt.Fprintf(&b, "  Brand:    %s\n", p.Brand.Name)
		fmt.Fprintf(&b, "  In stock: %s\n", prices.Number(p.Quantity))
		fmt.Fprintf(&b, "  Rating:   %s", ratingText(p))

		if p.Description != "" {
			fmt.Fprintf(&b, "\n\n%s", p.Description)
		}

		return b.String()
	})
}

func thumbnailView(thumb domain.Thumbnail, path string) format.View {
	data := map[string]any{
		"productId": thumb.ProductID,
		"path":      path,
		"type":      thumb.MIMEType,
		"width":     thumb.Width,
		"height":    thumb.Height,
		"bytes":     len(thumb.Data),
	}

	return format.NewView(data, func(*format.PriceFormatter) any {
		return fmt.Sprintf("Wrote %dx%d %s to %s", thumb.Width, thumb.Height, thumb.MIMEType, path)
	})
}

func categoriesView(categories []domain.Category) format.View {
	return format.NewView(categories, func(*format.PriceFormatter) any {
		rows := make([][]string, 0, len(categories))
		for _, c := range categories {
			rows = append(rows, []string{c.ID, c.Name, c.Slug})
		}

		return format.Table{Headers: []string{"ID", "Name", "Slug"}, Rows: rows, Empty: "No categories found"}
	})
}

func subCategoriesView(subs []domain.SubCategory) format.View {
	return format.NewView(subs, func(*format.PriceFormatter) any {
		rows := make([][]string, 0, len(subs))
		for _, s := range subs {
			rows = append(rows, []string{s.ID, s.Name, s.Category})
		}

		return format.Table{Headers: []string{"ID", "Name", "Category"}, Rows: rows, Empty: "No subcategories found"}
	})
}

func brandsView(brands []domain.Brand) format.View {
	return format.NewView(brands, func(*format.PriceFormatter) any {
		rows := make([][]string, 0, len(brands))
		for _, b := range brands {
			rows = append(rows, []string{b.ID, b.Name, b.Slug})
		}

		return format.Table{Headers: []string{"ID", "Name", "Slug"}, Rows: rows, Empty: "No brands found"}
	})
}

type sessionData struct {
	UserID string `json:"userId" yaml:"userId"`
	Name   string `json:"name"   yaml:"name"`
	Email  string `json:"email"  yaml:"email"`
	Phone  string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Role   string `json:"role,omitempty"  yaml:"role,omitempty"`
}

func sessionView(state domain.Session) format.View {
	data := sessionData{UserID: state.UserID}
	if state.Profile != nil {
		data.Name = state.Profile.Name
		data.Email = state.Profile.Email
		data.Phone = state.Profile.Phone
		data.Role = state.Profile.Role
	}

	return format.NewView(data, func(*format.PriceFormatter) any {
		text := fmt.Sprintf("Signed in as %s", data.Name)
		if data.Email != "" {
			text += fmt.Sprintf(" <%s>", data.Email)
		}

		return text
	})
}

type cartData struct {
	CartID     string            `json:"cartId,omitempty" yaml:"cartId,omitempty"`
	Lines      []domain.CartLine `json:"lines"            yaml:"lines"`
	TotalItems int               `json:"totalItems"       yaml:"totalItems"`
	TotalPrice float64           `json:"totalPrice"       yaml:"totalPrice"`
}

func cartView(state domain.CartState) format.View {
	data := cartData{
		CartID:     state.CartID,
		Lines:      state.Lines,
		TotalItems: state.TotalItems(),
		TotalPrice: state.TotalPrice(),
	}

	return format.NewView(data, func(prices *format.PriceFormatter) any {
		rows := make([][]string, 0, len(data.Lines))
		for _, line := range data.Lines {
			rows = append(rows, []string{
				line.LineID,
				line.Title,
				strconv.Itoa(line.Count),
				prices.Format(line.EffectivePrice()),
				prices.Format(line.Subtotal()),
			})
		}

		return format.Table{
			Headers: []string{"Line", "Product", "Qty", "Unit", "Subtotal"},
			Rows:    rows,
			Footer:  fmt.Sprintf("%d items, total %s", data.TotalItems, prices.Format(data.TotalPrice)),
			Empty:   "Your cart is empty",
		}
	})
}

func wishlistView(products []domain.Product) format.View {
	return format.NewView(products, func(prices *format.PriceFormatter) any {
		rows := make([][]string, 0, len(products))
		for _, p := range products {
			rows = append(rows, []string{p.ID, p.Title, prices.Format(p.EffectivePrice())})
		}

		return format.Table{Headers: []string{"ID", "Title", "Price"}, Rows: rows, Empty: "Your wishlist is empty"}
	})
}

func productIDsView(ids []string, message string) format.View {
	return format.NewView(ids, func(*format.PriceFormatter) any {
		return fmt.Sprintf("%s (%d products)", message, len(ids))
	})
}

func addressesView(addresses []domain.Address) format.View {
	return format.NewView(addresses, func(*format.PriceFormatter) any {
		rows := make([][]string, 0, len(addresses))
		for _, a := range addresses {
			rows = append(rows, []string{a.ID, a.Name, a.Details, a.City, a.Phone})
		}

		return format.Table{
			Headers: []string{"ID", "Name", "Details", "City", "Phone"},
			Rows:    rows,
			Empty:   "No saved addresses",
		}
	})
}

func ordersView(orders []domain.Order) format.View {
	return format.NewView(orders, func(prices *format.PriceFormatter) any {
		rows := make([][]string, 0, len(orders))
		for _, o := range orders {
			rows = append(rows, []string{
				strconv.Itoa(o.Number),
				o.CreatedAt.Format("2006-01-02"),
				o.PaymentMethodType,
				strconv.Itoa(len(o.CartItems)),
				prices.Format(o.TotalOrderPrice),
				orderStatus(o),
			})
		}

		return format.Table{
			Headers: []string{"Order", "Date", "Payment", "Items", "Total", "Status"},
			Rows:    rows,
			Empty:   "No orders yet",
		}
	})
}

func orderStatus(o domain.Order) string {
	switch {
	case o.IsDelivered:
		return "delivered"
	case o.IsPaid:
		return "paid"
	default:
		return "pending"
	}
}

func orderView(o domain.Order) format.View {
	return format.NewView(o, func(prices *format.PriceFormatter) any {
		return fmt.Sprintf("Order #%d placed: %d items, total %s", o.Number, len(o.CartItems), prices.Format(o.TotalOrderPrice))
	})
}
