package catalog

import (
	"slices"
	"sort"
)

// Kind discriminates the directive types understood by the pipeline.
type Kind string

const (
	// KindCategory filters by category membership. The special value
	// CategoryNew selects products flagged as new instead.
	KindCategory Kind = "category"
	// KindTag filters by tag membership.
	KindTag Kind = "tag"
	// KindSort reorders by one of the Sort* values.
	KindSort Kind = "sort"
	// KindDiscount keeps products carrying a discount at or above Threshold.
	KindDiscount Kind = "discount"
)

// CategoryNew is the category directive value that selects new arrivals
// and bypasses normal category matching.
const CategoryNew = "new"

// Supported sort orders. Anything else falls back to SortDefault.
const (
	SortDefault      = "default"
	SortPriceHighLow = "priceHighToLow"
	SortPriceLowHigh = "priceLowToHigh"
)

// Directive is an ephemeral (kind, value) filter or sort instruction.
// A zero Value (or non-positive Threshold for discount directives) makes
// the directive a passthrough.
type Directive struct {
	Kind      Kind
	Value     string
	Threshold int
}

// Page is the projection result: the window to render plus the pre-slice
// total for page-count computation.
type Page struct {
	Items      []Product
	TotalCount int
}

// DefaultPageSize matches the shop grid page limit.
const DefaultPageSize = 15

// Project narrows products through the directive stages in fixed order
// (category, discount, sort, tag) and returns the pagination window at
// offset. It is a pure function of its inputs: the input slice is never
// mutated and identical inputs produce identical output.
func Project(products []Product, directives []Directive, offset, pageSize int) Page {
	out := products

	for _, d := range byKind(directives, KindCategory) {
		out = filterCategory(out, d.Value)
	}
	for _, d := range byKind(directives, KindDiscount) {
		out = filterDiscount(out, d.Threshold)
	}
	for _, d := range byKind(directives, KindSort) {
		out = sortProducts(out, d.Value)
	}
	for _, d := range byKind(directives, KindTag) {
		out = filterTag(out, d.Value)
	}

	return paginate(out, offset, pageSize)
}

func byKind(directives []Directive, kind Kind) []Directive {
	var matched []Directive
	for _, d := range directives {
		if d.Kind == kind {
			matched = append(matched, d)
		}
	}
	return matched
}

func filterCategory(products []Product, value string) []Product {
	if value == "" {
		return products
	}
	if value == CategoryNew {
		return filter(products, func(p Product) bool { return p.New })
	}
	return filter(products, func(p Product) bool {
		return slices.Contains(p.Category, value)
	})
}

func filterTag(products []Product, value string) []Product {
	if value == "" {
		return products
	}
	return filter(products, func(p Product) bool {
		return slices.Contains(p.Tag, value)
	})
}

// filterDiscount keeps products carrying a discount of at least threshold.
// A non-positive threshold is a passthrough.
func filterDiscount(products []Product, threshold int) []Product {
	if threshold <= 0 {
		return products
	}
	return filter(products, func(p Product) bool {
		return p.Discount > 0 && p.Discount >= threshold
	})
}

// sortProducts reorders by effective price. The sort is stable: ties keep
// their prior relative order. Unknown sort values leave the order untouched.
func sortProducts(products []Product, value string) []Product {
	switch value {
	case SortPriceHighLow, SortPriceLowHigh:
	default:
		return products
	}

	sorted := slices.Clone(products)
	sort.SliceStable(sorted, func(i, j int) bool {
		if value == SortPriceHighLow {
			return sorted[i].EffectivePrice() > sorted[j].EffectivePrice()
		}
		return sorted[i].EffectivePrice() < sorted[j].EffectivePrice()
	})
	return sorted
}

func paginate(products []Product, offset, pageSize int) Page {
	total := len(products)
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return Page{Items: []Product{}, TotalCount: total}
	}
	end := offset + pageSize
	if end > total {
		end = total
	}
	return Page{Items: slices.Clone(products[offset:end]), TotalCount: total}
}

func filter(products []Product, keep func(Product) bool) []Product {
	matched := make([]Product, 0, len(products))
	for _, p := range products {
		if keep(p) {
			matched = append(matched, p)
		}
	}
	return matched
}
