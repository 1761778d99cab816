package stateful

import (
	"fmt"
	"slices"
)

// FieldIn returns a match func selecting records whose field is a string
// equal to one of values. Non-string fields never match.
func FieldIn(field string, values ...string) func(Record) bool {
	return func(r Record) bool {
		s, ok := r[field].(string)
		return ok && slices.Contains(values, s)
	}
}

// SumBy groups records by groupField and sums the numeric valueField of each
// group. Absent, null, false, zero and empty values group under fallback;
// any other value is its own group, formatted with %v. Non-numeric sums
// count as zero.
func SumBy(records []Record, groupField, fallback, valueField string) map[string]float64 {
	out := make(map[string]float64)
	for _, r := range records {
		group := fallback
		if g := r[groupField]; isSet(g) {
			group = fmt.Sprintf("%v", g)
		}
		out[group] += toFloat(r[valueField])
	}
	return out
}

// isSet reports whether v is a non-zero scalar or any non-nil composite.
func isSet(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case float64:
		return x != 0
	case int:
		return x != 0
	case int64:
		return x != 0
	default:
		return true
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	default:
		return 0
	}
}
