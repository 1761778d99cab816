package discovery

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/perfstub/pkg/httputil"
)

func TestDiscover_FoodstorePOST(t *testing.T) {
	e := newFoodstoreEngine(t)

	res, err := e.Discover(MethodPOST, map[string]any{"name": "X", "category": "Y"})
	require.NoError(t, err)
	r := res.Snapshot()

	// brand and lotNumber are only accepted together, so single-field
	// probing finds nothing.
	assert.Equal(t, StatusCompleted, r.Status)
	assert.Empty(t, r.DiscoveredUndocumentedRequired)
	assert.Empty(t, r.DiscoveredUndocumentedOptional)
	assert.Equal(t, []int{1, 2, 2, 3, 3, 3, 3, 3, 3, 5, 5, 5, 5, 5, 5}, phases(r))
	require.NotNil(t, r.CompletedAt)
	assert.Equal(t, fixedTime, *r.CompletedAt)

	first := r.TestSequence[0]
	assert.Equal(t, "Documented required fields only", first.Description)
	assert.Equal(t, map[string]any{"name": "X", "category": "Y"}, first.RequestBody)
	assert.Equal(t, []string{"brand", "lotNumber"}, first.BackendResult.MissingFields)

	assert.Equal(t, "Added documented optional field: price", r.TestSequence[1].Description)
	assert.Equal(t, 10.99, r.TestSequence[1].RequestBody["price"])
	assert.Equal(t, "Testing undocumented field: brand", r.TestSequence[3].Description)
	assert.Equal(t, "Testing potential optional undocumented field: brand", r.TestSequence[9].Description)
}

func TestDiscover_FoodstorePUTAccumulates(t *testing.T) {
	e := newFoodstoreEngine(t)

	res, err := e.Discover(MethodPUT, map[string]any{})
	require.NoError(t, err)
	r := res.Snapshot()

	// Once brand is merged every later probe succeeds, so every candidate
	// is recorded as required.
	assert.Equal(t,
		[]string{"brand", "lotNumber", "producer", "expirationDate", "storageLocation", "inventoryCount"},
		r.DiscoveredUndocumentedRequired)
	assert.Empty(t, r.DiscoveredUndocumentedOptional)
	assert.Equal(t, []int{1, 2, 2, 3, 3, 3, 3, 3, 3, 4, 4, 4, 4, 4, 4}, phases(r))

	phase4 := r.TestSequence[9:]
	assert.Equal(t, "Testing without discovered field: brand", phase4[0].Description)
	assert.False(t, phase4[0].BackendResult.Success)
	assert.NotContains(t, phase4[0].RequestBody, "brand")
	for _, a := range phase4[1:] {
		assert.True(t, a.BackendResult.Success, a.Description)
	}

	assert.Equal(t, "Test Food", r.TestSequence[0].RequestBody["name"])
	assert.Equal(t, "LOT001", r.TestSequence[4].RequestBody["lotNumber"])
}

func TestDiscover_FindsOptionalFields(t *testing.T) {
	cfg := FieldConfig{
		DocumentedRequired:    []string{"name"},
		DocumentedOptional:    []string{},
		PotentialUndocumented: []string{"lotNumber", "producer", "brand"},
		ActualRequired:        []string{"name", "brand"},
	}
	e := newEngineWith(t, cfg, map[string]any{"name": "n", "brand": "b", "lotNumber": "l", "producer": "p"})

	res, err := e.Discover(MethodPOST, nil)
	require.NoError(t, err)
	r := res.Snapshot()

	assert.Equal(t, []string{"brand"}, r.DiscoveredUndocumentedRequired)
	assert.Equal(t, []string{"lotNumber", "producer"}, r.DiscoveredUndocumentedOptional)
	assert.Equal(t, []int{1, 3, 3, 3, 5, 5}, phases(r), "no phase 4 with a single discovery")
	assert.Equal(t, map[string]any{"name": "n", "brand": "b", "lotNumber": "l"}, r.TestSequence[4].RequestBody)
}

func TestDiscover_FailedProbeDropped(t *testing.T) {
	cfg := FieldConfig{
		DocumentedRequired:    []string{"name"},
		PotentialUndocumented: []string{"producer", "brand"},
		ActualRequired:        []string{"name", "brand"},
	}
	e := newEngineWith(t, cfg, map[string]any{"name": "n", "brand": "b", "producer": "p"})

	res, err := e.Discover(MethodPOST, map[string]any{})
	require.NoError(t, err)
	r := res.Snapshot()

	brandProbe := r.TestSequence[2]
	assert.Equal(t, "Testing undocumented field: brand", brandProbe.Description)
	assert.NotContains(t, brandProbe.RequestBody, "producer")
}

func TestDiscover_FieldWithoutValueOmitted(t *testing.T) {
	cfg := FieldConfig{
		DocumentedRequired:    []string{"name", "category"},
		DocumentedOptional:    []string{"price", "description"},
		PotentialUndocumented: []string{"brand"},
		ActualRequired:        []string{"name", "category"},
	}
	e := newEngineWith(t, cfg, map[string]any{"name": "sample"})

	res, err := e.Discover(MethodPOST, map[string]any{"description": "from caller", "category": ""})
	require.NoError(t, err)
	r := res.Snapshot()

	assert.Equal(t, map[string]any{"name": "sample"}, r.TestSequence[0].RequestBody)
	// price has no value anywhere, so phase 2 only adds description.
	require.Equal(t, 1, r.PhaseCounts()["phase2"])
	assert.Equal(t, "Added documented optional field: description", r.TestSequence[1].Description)
	assert.NotContains(t, r.TestSequence[2].RequestBody, "brand")
}

func TestDiscover_Idempotent(t *testing.T) {
	for _, m := range Methods {
		t.Run(string(m), func(t *testing.T) {
			e := newFoodstoreEngine(t)
			body := map[string]any{"name": "X", "category": "Y", "brand": "B"}

			first, err := e.Discover(m, body)
			require.NoError(t, err)
			a := first.Snapshot()
			second, err := e.Discover(m, body)
			require.NoError(t, err)
			b := second.Snapshot()

			assert.Same(t, first, second, "runs share one record per method")
			assert.Equal(t, a.DiscoveredUndocumentedRequired, b.DiscoveredUndocumentedRequired)
			assert.Equal(t, a.DiscoveredUndocumentedOptional, b.DiscoveredUndocumentedOptional)
			assert.Len(t, b.TestSequence, len(a.TestSequence), "a rerun replaces the sequence")
		})
	}
}

func TestDiscover_Invariants(t *testing.T) {
	bodies := []map[string]any{
		{},
		{"name": "X", "category": "Y"},
		{"name": "X", "category": "Y", "brand": "B", "lotNumber": "L"},
		{"brand": "B", "producer": "P", "inventoryCount": 0},
	}
	for _, m := range Methods {
		for _, body := range bodies {
			e := newFoodstoreEngine(t)
			res, err := e.Discover(m, body)
			require.NoError(t, err)
			r := res.Snapshot()
			cfg := e.Configs().Get(m)

			last := 1
			seen3 := 0
			has4 := false
			for _, a := range r.TestSequence {
				assert.GreaterOrEqual(t, a.Phase, last, "phases must not decrease")
				assert.True(t, a.Phase >= 1 && a.Phase <= 5)
				last = a.Phase
				if a.Phase == 4 {
					has4 = true
				}
				if a.Phase == 3 {
					seen3++
				}
			}
			assert.Equal(t, len(cfg.PotentialUndocumented), seen3)
			assert.Equal(t, len(r.DiscoveredUndocumentedRequired) > 1, has4)

			// Discovery order follows candidate order without duplicates.
			idx := -1
			seen := map[string]bool{}
			for _, f := range r.DiscoveredUndocumentedRequired {
				assert.False(t, seen[f])
				seen[f] = true
				pos := indexOf(cfg.PotentialUndocumented, f)
				assert.Greater(t, pos, idx)
				idx = pos
			}
		}
	}
}

func TestDiscover_InvalidMethod(t *testing.T) {
	e := newFoodstoreEngine(t)

	_, err := e.Discover(Method("DELETE"), map[string]any{})

	assert.True(t, errors.Is(err, ErrInvalidMethod))
	var ke KindError
	require.True(t, errors.As(err, &ke))
	assert.Equal(t, KindInvalidMethod, ke.Kind())
}

func TestDiscover_DoesNotMutateCallerBody(t *testing.T) {
	e := newFoodstoreEngine(t)
	body := map[string]any{"name": "X"}

	_, err := e.Discover(MethodPUT, body)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"name": "X"}, body)
}

func TestDiscover_ConcurrentRunsShareRecord(t *testing.T) {
	e := newFoodstoreEngine(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = e.Discover(MethodPUT, map[string]any{})
			_ = e.Results().Get(MethodPUT).Snapshot()
		}()
	}
	wg.Wait()

	r := e.Results().Get(MethodPUT).Snapshot()
	assert.Equal(t, StatusCompleted, r.Status)
	assert.NotEmpty(t, r.TestSequence)
}

func TestResult_JSON(t *testing.T) {
	e := newFoodstoreEngine(t)

	data, err := json.Marshal(e.Results().Get(MethodPOST))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"testSequence": [],
		"discoveredUndocumentedRequired": [],
		"discoveredUndocumentedOptional": [],
		"completedAt": null,
		"status": "NOT_STARTED"
	}`, string(data))
}

func TestReport_JSONTimeFormat(t *testing.T) {
	e := newFoodstoreEngine(t)
	res, err := e.Discover(MethodPUT, map[string]any{})
	require.NoError(t, err)

	data, err := json.Marshal(res)
	require.NoError(t, err)

	var out struct {
		CompletedAt  string `json:"completedAt"`
		TestSequence []struct {
			Phase     int    `json:"phase"`
			Timestamp string `json:"timestamp"`
		} `json:"testSequence"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	want := fixedTime.Format(httputil.TimeFormat)
	assert.Equal(t, "2025-06-01T12:00:00.000Z", want)
	assert.Equal(t, want, out.CompletedAt)
	require.NotEmpty(t, out.TestSequence)
	assert.Equal(t, 1, out.TestSequence[0].Phase)
	for _, a := range out.TestSequence {
		assert.Equal(t, want, a.Timestamp)
	}

	var back Report
	require.NoError(t, json.Unmarshal(data, &back))
	require.NotNil(t, back.CompletedAt)
	assert.True(t, fixedTime.Equal(*back.CompletedAt))
}

func TestResultStore_Reset(t *testing.T) {
	e := newFoodstoreEngine(t)
	for _, m := range Methods {
		_, err := e.Discover(m, map[string]any{})
		require.NoError(t, err)
	}

	require.NoError(t, e.Results().Reset(MethodPOST))
	assert.Equal(t, StatusNotStarted, e.Results().Get(MethodPOST).Snapshot().Status)
	assert.Equal(t, StatusCompleted, e.Results().Get(MethodPUT).Snapshot().Status)

	assert.ErrorIs(t, e.Results().Reset(Method("PATCH")), ErrInvalidMethod)

	reset := e.Results().ResetAll()
	assert.Equal(t, Methods, reset)
	for key, r := range e.Results().All() {
		assert.Equal(t, StatusNotStarted, r.Status, key)
		assert.Empty(t, r.TestSequence)
		assert.Nil(t, r.CompletedAt)
	}
}

func TestReport_PhaseCounts(t *testing.T) {
	e := newFoodstoreEngine(t)
	res, err := e.Discover(MethodPUT, map[string]any{})
	require.NoError(t, err)

	counts := res.Snapshot().PhaseCounts()

	assert.Equal(t, map[string]int{"phase1": 1, "phase2": 2, "phase3": 6, "phase4": 6, "phase5": 0}, counts)
	assert.Equal(t, "Testing without discovered field: inventoryCount", res.Snapshot().LastAttempt().Description)
	assert.Nil(t, Report{}.LastAttempt())
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func BenchmarkDiscover(b *testing.B) {
	p := FoodstoreProfile()
	configs, err := NewConfigStore(p.Configs)
	if err != nil {
		b.Fatal(err)
	}
	e := NewEngine(configs, NewResultStore(), p.Samples)
	body := map[string]any{"name": "Rice", "category": "Grain"}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Discover(MethodPUT, body); err != nil {
			b.Fatal(err)
		}
	}
}
