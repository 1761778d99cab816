package fixtures

import (
	"math/rand/v2"
	"strconv"
)

// Item is one element of a generated payload.
type Item struct {
	ID     int    `json:"id"`
	Value  string `json:"value"`
	Number int    `json:"number"`
}

// RandomItems generates n items with random values.
func RandomItems(n int) []Item {
	if n < 0 {
		n = 0
	}
	out := make([]Item, n)
	for i := range out {
		out[i] = Item{
			ID:     i,
			Value:  randomToken(),
			Number: rand.IntN(1000),
		}
	}
	return out
}

// randomToken returns a short lowercase base-36 string.
func randomToken() string {
	s := strconv.FormatUint(rand.Uint64(), 36)
	if len(s) > 13 {
		s = s[:13]
	}
	return s
}
