package domain

import (
	"net/url"
	"strconv"
)

// ListMetadata describes the page returned by a list endpoint.
type ListMetadata struct {
	CurrentPage   int `json:"currentPage"   yaml:"currentPage"`
	NumberOfPages int `json:"numberOfPages" yaml:"numberOfPages"`
	Limit         int `json:"limit"         yaml:"limit"`
	NextPage      int `json:"nextPage,omitempty" yaml:"nextPage,omitempty"`
	PrevPage      int `json:"prevPage,omitempty" yaml:"prevPage,omitempty"`
}

// ListResponse is the envelope of every paginated list endpoint.
type ListResponse[T any] struct {
	Results  int          `json:"results"  yaml:"results"`
	Metadata ListMetadata `json:"metadata" yaml:"metadata"`
	Data     []T          `json:"data"     yaml:"data"`
}

// ItemResponse is the envelope of every single-resource endpoint.
type ItemResponse[T any] struct {
	Data T `json:"data"`
}

// ListQuery holds the pagination and sort parameters shared by list endpoints.
type ListQuery struct {
	Page  int
	Limit int
	Sort  string
}

// Values encodes the query, skipping unset parameters.
func (q ListQuery) Values() url.Values {
	values := url.Values{}

	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}

	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}

	if q.Sort != "" {
		values.Set("sort", q.Sort)
	}

	return values
}

// ProductsQuery extends ListQuery with the product filters.
type ProductsQuery struct {
	ListQuery

	Category string
	Brand    string
	Price    string
	Keyword  string
}

// Values encodes the query, skipping unset parameters.
func (q ProductsQuery) Values() url.Values {
	values := q.ListQuery.Values()

	for key, value := range map[string]string{
		"category": q.Category,
		"brand":    q.Brand,
		"price":    q.Price,
		"keyword":  q.Keyword,
	} {
		if value != "" {
			values.Set(key, value)
		}
	}

	return values
}

// Category is a top-level product category.
type Category struct {
	ID    string `json:"_id"   yaml:"id"`
	Name  string `json:"name"  yaml:"name"`
	Slug  string `json:"slug"  yaml:"slug"`
	Image string `json:"image" yaml:"image"`
}

// SubCategory belongs to a Category.
type SubCategory struct {
	ID       string `json:"_id"      yaml:"id"`
	Name     string `json:"name"     yaml:"name"`
	Slug     string `json:"slug"     yaml:"slug"`
	Category string `json:"category" yaml:"category"`
}

// Brand is a product brand.
type Brand struct {
	ID    string `json:"_id"   yaml:"id"`
	Name  string `json:"name"  yaml:"name"`
	Slug  string `json:"slug"  yaml:"slug"`
	Image string `json:"image" yaml:"image"`
}

// Product is a catalog product.
type Product struct {
	ID                 string        `json:"_id"                          yaml:"id"`
	Title              string        `json:"title"                        yaml:"title"`
	Slug               string        `json:"slug"                         yaml:"slug"`
	Description        string        `json:"description"                  yaml:"description,omitempty"`
	Quantity           int           `json:"quantity"                     yaml:"quantity"`
	Price              float64       `json:"price"                        yaml:"price"`
	PriceAfterDiscount *float64      `json:"priceAfterDiscount,omitempty" yaml:"priceAfterDiscount,omitempty"`
	ImageCover         string        `json:"imageCover"                   yaml:"imageCover"`
	Images             []string      `json:"images,omitempty"             yaml:"images,omitempty"`
	Sold               *int          `json:"sold,omitempty"               yaml:"sold,omitempty"`
	RatingsQuantity    int           `json:"ratingsQuantity"              yaml:"ratingsQuantity"`
	RatingsAverage     float64       `json:"ratingsAverage"               yaml:"ratingsAverage"`
	Category           Category      `json:"category"                     yaml:"category"`
	Brand              Brand         `json:"brand"                        yaml:"brand"`
	Subcategory        []SubCategory `json:"subcategory,omitempty"        yaml:"subcategory,omitempty"`
}

// EffectivePrice returns the discounted price when one is set, the list price otherwise.
func (p Product) EffectivePrice() float64 {
	if p.PriceAfterDiscount != nil && *p.PriceAfterDiscount > 0 {
		return *p.PriceAfterDiscount
	}

	return p.Price
}

// FeaturedProducts is the product selection shown on the landing view.
// Placeholder is set when the remote catalog could not be used and the bundled
// products are returned instead.
type FeaturedProducts struct {
	Products    []Product `json:"products"    yaml:"products"`
	Placeholder bool      `json:"placeholder" yaml:"placeholder"`
}
