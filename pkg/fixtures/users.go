package fixtures

import (
	"slices"
	"sort"
)

// User is an entry of the users fixture.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Age   int    `json:"age"`
	Email string `json:"email"`
}

var users = []User{
	{ID: "001", Name: "Alice Johnson", Age: 32, Email: "alice@example.com"},
	{ID: "002", Name: "Bob Smith", Age: 45, Email: "bob@example.com"},
	{ID: "003", Name: "Charlie Brown", Age: 28, Email: "charlie@example.com"},
	{ID: "004", Name: "Diana Prince", Age: 35, Email: "diana@example.com"},
	{ID: "005", Name: "Edward Cullen", Age: 24, Email: "edward@example.com"},
	{ID: "006", Name: "Fiona Gallagher", Age: 29, Email: "fiona@example.com"},
	{ID: "007", Name: "George Lucas", Age: 50, Email: "george@example.com"},
	{ID: "008", Name: "Hannah Montana", Age: 22, Email: "hannah@example.com"},
	{ID: "009", Name: "Ian Somerhalder", Age: 38, Email: "ian@example.com"},
	{ID: "010", Name: "Julia Roberts", Age: 53, Email: "julia@example.com"},
}

// Users returns a copy of the users fixture.
func Users() []User { return slices.Clone(users) }

// SortUsers sorts by a "+field" or "-field" expression where field is name
// or age. Any other expression leaves the order unchanged.
func SortUsers(in []User, expr string) []User {
	out := slices.Clone(in)
	if len(expr) < 2 {
		return out
	}
	dir, field := expr[0], expr[1:]
	// Query strings decode "+" to a space.
	if dir == ' ' {
		dir = '+'
	}
	if dir != '+' && dir != '-' {
		return out
	}

	var less func(a, b User) bool
	switch field {
	case "name":
		less = func(a, b User) bool { return a.Name < b.Name }
	case "age":
		less = func(a, b User) bool { return a.Age < b.Age }
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		if dir == '-' {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}
