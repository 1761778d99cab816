package discovery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newFoodstoreEngine(t *testing.T) *Engine {
	t.Helper()
	p := FoodstoreProfile()
	configs, err := NewConfigStore(p.Configs)
	require.NoError(t, err)
	return NewEngine(configs, NewResultStore(), p.Samples, WithClock(func() time.Time { return fixedTime }))
}

func newEngineWith(t *testing.T, cfg FieldConfig, samples map[string]any) *Engine {
	t.Helper()
	configs, err := NewConfigStore(map[Method]FieldConfig{MethodPOST: cfg, MethodPUT: cfg})
	require.NoError(t, err)
	return NewEngine(configs, NewResultStore(), samples, WithClock(func() time.Time { return fixedTime }))
}

func phases(r Report) []int {
	out := make([]int, len(r.TestSequence))
	for i, a := range r.TestSequence {
		out[i] = a.Phase
	}
	return out
}
