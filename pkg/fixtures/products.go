package fixtures

import (
	"slices"
	"sort"
	"strings"
)

// Product is an entry of the products fixture.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

var products = []Product{
	{ID: "p001", Name: "Laptop", Price: 1200, Category: "Electronics"},
	{ID: "p002", Name: "Smartphone", Price: 800, Category: "Electronics"},
	{ID: "p003", Name: "Coffee Maker", Price: 150, Category: "Kitchen"},
	{ID: "p004", Name: "Desk Chair", Price: 220, Category: "Furniture"},
	{ID: "p005", Name: "Headphones", Price: 180, Category: "Electronics"},
	{ID: "p006", Name: "Monitor", Price: 350, Category: "Electronics"},
	{ID: "p007", Name: "Desk", Price: 300, Category: "Furniture"},
	{ID: "p008", Name: "Blender", Price: 120, Category: "Kitchen"},
	{ID: "p009", Name: "Keyboard", Price: 100, Category: "Electronics"},
	{ID: "p010", Name: "Bookshelf", Price: 250, Category: "Furniture"},
}

// Products returns a copy of the products fixture.
func Products() []Product { return slices.Clone(products) }

// SortProducts sorts by a "field:asc" or "field:desc" expression where
// field is name, price or category. Anything else leaves the order unchanged.
func SortProducts(in []Product, expr string) []Product {
	out := slices.Clone(in)
	field, dir, _ := strings.Cut(expr, ":")
	if dir != "asc" && dir != "desc" {
		return out
	}

	var less func(a, b Product) bool
	switch field {
	case "name":
		less = func(a, b Product) bool { return a.Name < b.Name }
	case "price":
		less = func(a, b Product) bool { return a.Price < b.Price }
	case "category":
		less = func(a, b Product) bool { return a.Category < b.Category }
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		if dir == "desc" {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

// ProductUpdate is the body of a product replace request.
type ProductUpdate struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

// Complete reports whether every field is set. A zero price counts as
// missing.
func (u ProductUpdate) Complete() bool {
	return u.Name != "" && u.Price != 0 && u.Category != ""
}
