package catalog

import (
	"slices"
	"sync"
)

// Projector memoizes Project. Re-projection happens on every selection
// change in the shop pages, so for large catalogs the last result is cached
// keyed on the directive set, the window and the product slice identity.
type Projector struct {
	mu sync.Mutex

	products   []Product
	directives []Directive
	offset     int
	pageSize   int
	page       Page
	valid      bool
}

// NewProjector creates an empty Projector.
func NewProjector() *Projector {
	return &Projector{}
}

// Project returns the cached page when called with the same inputs as the
// previous call, and recomputes otherwise.
func (pr *Projector) Project(products []Product, directives []Directive, offset, pageSize int) Page {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	if pr.valid && pr.offset == offset && pr.pageSize == pageSize &&
		sameSlice(pr.products, products) && slices.Equal(pr.directives, directives) {
		return pr.page
	}

	pr.page = Project(products, directives, offset, pageSize)
	pr.products = products
	pr.directives = slices.Clone(directives)
	pr.offset = offset
	pr.pageSize = pageSize
	pr.valid = true
	return pr.page
}

// Invalidate drops the cached result.
func (pr *Projector) Invalidate() {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	pr.valid = false
}

// sameSlice reports whether both slices share identity: same length and
// same backing array start. Content is deliberately not compared; a caller
// that mutates products in place must Invalidate.
func sameSlice(a, b []Product) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}
