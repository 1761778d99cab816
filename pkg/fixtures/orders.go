package fixtures

import "slices"

// Order is an entry of the orders fixture.
type Order struct {
	ID       string  `json:"id"`
	Customer string  `json:"customer"`
	Total    float64 `json:"total"`
	Date     string  `json:"date"`
	Status   string  `json:"status"`
}

var orders = []Order{
	{ID: "o001", Customer: "Alice Johnson", Total: 1580, Date: "2025-05-15", Status: "Delivered"},
	{ID: "o002", Customer: "Bob Smith", Total: 950, Date: "2025-05-16", Status: "Processing"},
	{ID: "o003", Customer: "Charlie Brown", Total: 325, Date: "2025-05-14", Status: "Shipped"},
	{ID: "o004", Customer: "Diana Prince", Total: 780, Date: "2025-05-17", Status: "Processing"},
	{ID: "o005", Customer: "Edward Cullen", Total: 1200, Date: "2025-05-12", Status: "Delivered"},
	{ID: "o006", Customer: "Fiona Gallagher", Total: 450, Date: "2025-05-18", Status: "Pending"},
	{ID: "o007", Customer: "George Lucas", Total: 2500, Date: "2025-05-13", Status: "Shipped"},
	{ID: "o008", Customer: "Hannah Montana", Total: 320, Date: "2025-05-19", Status: "Processing"},
	{ID: "o009", Customer: "Ian Somerhalder", Total: 1100, Date: "2025-05-10", Status: "Delivered"},
	{ID: "o010", Customer: "Julia Roberts", Total: 960, Date: "2025-05-11", Status: "Delivered"},
}

// Orders returns a copy of the orders fixture, always in the same order.
func Orders() []Order { return slices.Clone(orders) }
