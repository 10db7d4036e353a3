// Package catalog implements the product catalog projection pipeline:
// filtering, sorting and pagination of a raw product list.
package catalog

// Product is a single catalog entry. ID is the sole identity key used by
// cart and wishlist lookups; uniqueness is assumed, not enforced.
type Product struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Price     float64     `json:"price"`
	Discount  int         `json:"discount"`
	Category  []string    `json:"category"`
	Tag       []string    `json:"tag"`
	Stock     *int        `json:"stock,omitempty"`
	New       bool        `json:"new"`
	Variation []Variation `json:"variation,omitempty"`
}

// Variation is a color variant with its per-size stock levels.
type Variation struct {
	Color string       `json:"color"`
	Size  []SizeOption `json:"size"`
}

// SizeOption is a size name with its own stock counter.
type SizeOption struct {
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

// DiscountPrice returns the discounted price and true when a positive
// discount applies, or 0 and false otherwise.
func DiscountPrice(price float64, discount int) (float64, bool) {
	if discount <= 0 {
		return 0, false
	}
	return price - price*float64(discount)/100, true
}

// EffectivePrice is the price after discount, the sort key for the
// price orderings.
func (p Product) EffectivePrice() float64 {
	if discounted, ok := DiscountPrice(p.Price, p.Discount); ok {
		return discounted
	}
	return p.Price
}

// InStock reports whether at least one unit is available. Unknown stock
// counts as available.
func (p Product) InStock() bool {
	if p.Stock == nil {
		return true
	}
	return *p.Stock > 0
}

// IndividualCategories returns the unique category values across products,
// in first-seen order.
func IndividualCategories(products []Product) []string {
	return uniqueValues(products, func(p Product) []string { return p.Category })
}

// IndividualTags returns the unique tag values across products, in
// first-seen order.
func IndividualTags(products []Product) []string {
	return uniqueValues(products, func(p Product) []string { return p.Tag })
}

func uniqueValues(products []Product, field func(Product) []string) []string {
	seen := make(map[string]struct{})
	var values []string
	for _, p := range products {
		for _, v := range field(p) {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			values = append(values, v)
		}
	}
	return values
}
