package stateful

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollection_CreateAssignsSequentialIDs(t *testing.T) {
	c := NewCollection("foodstore")

	id1, rec := c.Create(Record{"name": "Apple"})
	id2, _ := c.Create(Record{"name": "Pear"})

	assert.Equal(t, "1", id1)
	assert.Equal(t, "2", id2)
	assert.Equal(t, "Apple", rec["name"])
	assert.Equal(t, 2, c.Count())
}

func TestCollection_IDsNotReusedAfterDelete(t *testing.T) {
	c := NewCollection("foodstore")
	c.Create(Record{"name": "a"})
	c.Create(Record{"name": "b"})

	require.NoError(t, c.Delete("1"))
	id, _ := c.Create(Record{"name": "c"})

	assert.Equal(t, "3", id)
}

func TestCollection_CreateSkipsReplacedIDs(t *testing.T) {
	c := NewCollection("foodstore")
	c.Replace("5", Record{"name": "upserted"})

	id, _ := c.Create(Record{"name": "next"})

	assert.Equal(t, "6", id)
}

func TestCollection_Get(t *testing.T) {
	c := NewCollection("foodstore")
	id, _ := c.Create(Record{"name": "Apple"})

	rec, err := c.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Apple", rec["name"])

	rec["name"] = "mutated"
	again, _ := c.Get(id)
	assert.Equal(t, "Apple", again["name"], "returned records must be copies")

	_, err = c.Get("missing")
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "missing", nf.ID)
	assert.Equal(t, http.StatusNotFound, nf.StatusCode())
}

func TestCollection_ListOrder(t *testing.T) {
	c := NewCollection("foodstore")
	c.Replace("b", Record{"k": "b"})
	c.Replace("10", Record{"k": "10"})
	c.Replace("a", Record{"k": "a"})
	c.Replace("2", Record{"k": "2"})

	var keys []string
	for _, r := range c.List() {
		keys = append(keys, r["k"].(string))
	}

	assert.Equal(t, []string{"2", "10", "b", "a"}, keys)
}

func TestCollection_Replace(t *testing.T) {
	c := NewCollection("foodstore")

	rec, created := c.Replace("7", Record{"name": "new"})
	assert.True(t, created)
	assert.Equal(t, "new", rec["name"])

	rec, created = c.Replace("7", Record{"category": "only"})
	assert.False(t, created)
	assert.Equal(t, Record{"category": "only"}, rec)
}

func TestCollection_PatchCreatesThenMerges(t *testing.T) {
	c := NewCollection("foodstore")

	rec, created := c.Patch("42", Record{"price": 3.5})
	assert.True(t, created)
	assert.Equal(t, Record{"price": 3.5}, rec)

	rec, created = c.Patch("42", Record{"name": "Tea"})
	assert.False(t, created)
	assert.Equal(t, Record{"price": 3.5, "name": "Tea"}, rec)
}

func TestCollection_DeleteUnknown(t *testing.T) {
	c := NewCollection("foodstore")
	err := c.Delete("nope")

	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestCollection_ResetRestoresSeed(t *testing.T) {
	c := NewCollection("medstore", Record{"name": "Aspirin"})
	c.Create(Record{"name": "Extra"})
	require.Equal(t, 2, c.Count())

	c.Reset()

	assert.Equal(t, 1, c.Count())
	rec, err := c.Get("1")
	require.NoError(t, err)
	assert.Equal(t, "Aspirin", rec["name"])
	id, _ := c.Create(Record{})
	assert.Equal(t, "2", id)
}

func TestCollection_ConcurrentCreate(t *testing.T) {
	c := NewCollection("foodstore")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Create(Record{"n": 1})
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, c.Count())
}

func TestFieldInAndSumBy(t *testing.T) {
	c := NewCollection("medstore",
		Record{"status": "available", "stock": float64(5)},
		Record{"status": "sold", "stock": float64(2)},
		Record{"stock": float64(7)},
		Record{"status": "available", "stock": "n/a"},
	)

	avail := c.Filter(FieldIn("status", "available", "pending"))
	assert.Len(t, avail, 2)

	totals := SumBy(c.List(), "status", "available", "stock")
	assert.Equal(t, map[string]float64{"available": 12, "sold": 2}, totals)
}

func TestFieldInAndSumBy_NonStringStatus(t *testing.T) {
	c := NewCollection("medstore",
		Record{"status": float64(1), "stock": float64(4)},
		Record{"status": true, "stock": float64(3)},
		Record{"status": float64(0), "stock": float64(2)},
		Record{"status": "", "stock": float64(1)},
	)

	assert.Empty(t, c.Filter(FieldIn("status", "1", "true")))

	totals := SumBy(c.List(), "status", "available", "stock")
	assert.Equal(t, map[string]float64{"1": 4, "true": 3, "available": 3}, totals)
}

func TestStateStore(t *testing.T) {
	s := NewStateStore()

	food, err := s.Register("foodstore")
	require.NoError(t, err)
	_, err = s.Register("medstore", Record{"name": "seed"})
	require.NoError(t, err)

	_, err = s.Register("foodstore")
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
	_, err = s.Register("")
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)

	got, err := s.Get("foodstore")
	require.NoError(t, err)
	assert.Same(t, food, got)

	_, err = s.Get("unknown")
	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))

	assert.Equal(t, []string{"foodstore", "medstore"}, s.List())

	food.Create(Record{"name": "x"})
	ov := s.Overview()
	assert.Equal(t, 2, ov.TotalItems)
	assert.Equal(t, 1, ov.Counts["foodstore"])

	resp, err := s.Reset("")
	require.NoError(t, err)
	assert.Equal(t, []string{"foodstore", "medstore"}, resp.Resources)
	assert.Equal(t, 0, food.Count())

	_, err = s.Reset("unknown")
	assert.Error(t, err)
}

func TestToErrorResponse(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		kind   string
		status int
	}{
		{"not found", &NotFoundError{Resource: "foodstore", ID: "9"}, KindNotFound, http.StatusNotFound},
		{"validation", &ValidationError{Field: "name", Message: "required"}, KindValidation, http.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("reset: %w", &NotFoundError{Resource: "pantry"}), KindNotFound, http.StatusNotFound},
		{"other", errors.New("boom"), KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ToErrorResponse(tt.err)
			assert.Equal(t, tt.kind, resp.Error)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.NotEmpty(t, resp.Message)
		})
	}
}
