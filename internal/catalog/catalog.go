package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"server/internal/domain"
)

// SortOrder enumerates the supported product orderings.
type SortOrder string

const (
	SortDefault   SortOrder = "default"
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
)

// CategoryAll selects every product regardless of category.
const CategoryAll = "All"

// Catalog holds the static storefront inventory. Products never change at
// runtime, so lookups can share the backing slice freely.
type Catalog struct {
	products []domain.Product
	byName   map[string]domain.Product
}

var usd = message.NewPrinter(language.AmericanEnglish)

// FormatPrice renders a price the way the storefront displays it, e.g.
// "$1,250.00".
func FormatPrice(price float64) string {
	return usd.Sprintf("$%.2f", price)
}

// New builds a catalog over the given products and indexes them by
// lowercased name for recommendation resolution.
func New(products []domain.Product) *Catalog {
	byName := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byName[strings.ToLower(strings.TrimSpace(p.Name))] = p
	}
	return &Catalog{products: products, byName: byName}
}

// Products returns the catalog filtered by category and ordered by the
// requested sort. Filtering and sorting are independent: the member set is
// decided by the category alone.
func (c *Catalog) Products(category string, order SortOrder) []domain.Product {
	filtered := make([]domain.Product, 0, len(c.products))
	for _, p := range c.products {
		if category == "" || category == CategoryAll || p.Category == category {
			filtered = append(filtered, p)
		}
	}
	switch order {
	case SortPriceAsc:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price < filtered[j].Price })
	case SortPriceDesc:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price > filtered[j].Price })
	}
	return filtered
}

// ByID looks a product up by its numeric id.
func (c *Catalog) ByID(id int) (domain.Product, bool) {
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// ByName resolves a product by case-insensitive exact name match.
func (c *Catalog) ByName(name string) (domain.Product, bool) {
	p, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// Categories returns "All" followed by the distinct product categories in
// first-seen order.
func (c *Catalog) Categories() []string {
	categories := []string{CategoryAll}
	seen := make(map[string]struct{})
	for _, p := range c.products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	return categories
}

// Listing serializes the catalog as the flat text block handed to the
// stylist prompt, one product per line.
func (c *Catalog) Listing() string {
	var b strings.Builder
	for _, p := range c.products {
		b.WriteString("- ")
		b.WriteString(p.Name)
		b.WriteString(" (")
		b.WriteString(p.Category)
		b.WriteString("): ")
		b.WriteString(FormatPrice(p.Price))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
