package id

import (
	"regexp"
	"sync"
	"testing"
)

func TestUUID_Format(t *testing.T) {
	id := UUID()

	uuidRegex := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	if !uuidRegex.MatchString(id) {
		t.Errorf("UUID() = %q, does not match UUID v4 format", id)
	}
}

func TestShort_Format(t *testing.T) {
	id := Short()
	if !regexp.MustCompile(`^[0-9a-f]{16}$`).MatchString(id) {
		t.Errorf("Short() = %q, want 16 hex chars", id)
	}
}

func TestDigits(t *testing.T) {
	sixDigits := regexp.MustCompile(`^[1-9][0-9]{5}$`)
	for i := 0; i < 200; i++ {
		id := Digits(6)
		if !sixDigits.MatchString(id) {
			t.Fatalf("Digits(6) = %q, want 6 digits without leading zero", id)
		}
	}
	if got := Digits(1); len(got) != 1 || got == "0" {
		t.Errorf("Digits(1) = %q", got)
	}
	if got := Digits(0); got != "" {
		t.Errorf("Digits(0) = %q, want empty", got)
	}
}

func TestSequence(t *testing.T) {
	var s Sequence
	if got := s.Next(); got != "1" {
		t.Fatalf("first Next() = %q, want 1", got)
	}
	if got := s.Next(); got != "2" {
		t.Fatalf("second Next() = %q, want 2", got)
	}

	s.Observe("10")
	if got := s.Next(); got != "11" {
		t.Errorf("Next() after Observe(10) = %q, want 11", got)
	}

	s.Observe("3")
	s.Observe("abc")
	if got := s.Next(); got != "12" {
		t.Errorf("Next() = %q, want 12", got)
	}

	s.Reset()
	if got := s.Next(); got != "1" {
		t.Errorf("Next() after Reset = %q, want 1", got)
	}
}

func TestSequence_Concurrent(t *testing.T) {
	const goroutines = 50
	const perGoroutine = 100

	var s Sequence
	results := make(chan string, goroutines*perGoroutine)
	var wg sync.WaitGroup

	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				results <- s.Next()
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool, goroutines*perGoroutine)
	for id := range results {
		if seen[id] {
			t.Fatalf("Sequence produced duplicate: %s", id)
		}
		seen[id] = true
	}
}
