package stateful

import (
	"sort"
	"strconv"
	"sync"

	"github.com/getmockd/perfstub/internal/id"
)

// Collection is a named set of records keyed by id.
type Collection struct {
	name  string
	mu    sync.RWMutex
	items map[string]Record
	order []string
	seq   id.Sequence
	seed  []Record
}

// NewCollection creates a collection loaded with copies of seed.
func NewCollection(name string, seed ...Record) *Collection {
	c := &Collection{name: name, seed: make([]Record, 0, len(seed))}
	for _, r := range seed {
		c.seed = append(c.seed, copyRecord(r))
	}
	c.Reset()
	return c
}

// Name returns the collection name.
func (c *Collection) Name() string { return c.name }

// Create stores data under the next sequence id and returns the id and the
// stored record.
func (c *Collection) Create(data Record) (string, Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := c.seq.Next()
	for c.items[key] != nil {
		key = c.seq.Next()
	}
	rec := copyRecord(data)
	c.put(key, rec)
	return key, copyRecord(rec)
}

// Get returns the record stored under key.
func (c *Collection) Get(key string) (Record, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rec, ok := c.items[key]
	if !ok {
		return nil, &NotFoundError{Resource: c.name, ID: key}
	}
	return copyRecord(rec), nil
}

// List returns every record. Numeric ids come first in ascending order,
// followed by other ids in insertion order.
func (c *Collection) List() []Record {
	return c.Filter(nil)
}

// Filter returns the records for which match returns true, in List order.
// A nil match selects everything.
func (c *Collection) Filter(match func(Record) bool) []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Record, 0, len(c.order))
	for _, key := range c.sortedKeys() {
		rec := c.items[key]
		if match == nil || match(rec) {
			out = append(out, copyRecord(rec))
		}
	}
	return out
}

// Replace stores data under key, creating the record when absent.
// It reports whether the record was created.
func (c *Collection) Replace(key string, data Record) (Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, exists := c.items[key]
	rec := copyRecord(data)
	c.put(key, rec)
	return copyRecord(rec), !exists
}

// Patch merges data into the record under key, starting from an empty
// record when absent. It reports whether the record was created.
func (c *Collection) Patch(key string, data Record) (Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, exists := c.items[key]
	if !exists {
		rec = Record{}
	}
	for k, v := range data {
		rec[k] = v
	}
	c.put(key, rec)
	return copyRecord(rec), !exists
}

// Delete removes the record under key.
func (c *Collection) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[key]; !ok {
		return &NotFoundError{Resource: c.name, ID: key}
	}
	delete(c.items, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Reset restores the seed records and restarts the id sequence.
func (c *Collection) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]Record, len(c.seed))
	c.order = c.order[:0]
	c.seq.Reset()
	for _, r := range c.seed {
		c.put(c.seq.Next(), copyRecord(r))
	}
}

// Count returns the number of stored records.
func (c *Collection) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// put must be called with the write lock held.
func (c *Collection) put(key string, rec Record) {
	if _, ok := c.items[key]; !ok {
		c.order = append(c.order, key)
	}
	c.items[key] = rec
	c.seq.Observe(key)
}

// sortedKeys must be called with a lock held.
func (c *Collection) sortedKeys() []string {
	keys := make([]string, len(c.order))
	copy(keys, c.order)
	sort.SliceStable(keys, func(i, j int) bool {
		ni, iNum := arrayIndex(keys[i])
		nj, jNum := arrayIndex(keys[j])
		switch {
		case iNum && jNum:
			return ni < nj
		case iNum != jNum:
			return iNum
		default:
			return false
		}
	})
	return keys
}

// arrayIndex reports whether key is a canonical non-negative integer.
func arrayIndex(key string) (uint64, bool) {
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil || strconv.FormatUint(n, 10) != key {
		return 0, false
	}
	return n, true
}

func copyRecord(in Record) Record {
	out := make(Record, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
