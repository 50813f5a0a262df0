package question

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResultCache_expiry(t *testing.T) {
	now := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	c := newResultCache(10, 10*time.Minute, clock)

	c.put("k", []Question{makeQuestion("q1", AircraftGeneral, "Fuel", DifficultyBasic)})

	got, ok := c.get("k")
	if !ok {
		t.Fatal("get() missed a fresh entry")
	}
	assert.Len(t, got, 1)

	now = now.Add(10*time.Minute + time.Second)
	if _, ok = c.get("k"); ok {
		t.Error("get() served an entry past its TTL")
	}
	if c.len() != 0 {
		t.Errorf("cache holds %d entries after lazy expiry; want 0", c.len())
	}
}

func TestResultCache_evictsOldestAtCapacity(t *testing.T) {
	now := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	c := newResultCache(3, time.Hour, func() time.Time { return now })

	for _, key := range []string{"a", "b", "c"} {
		c.put(key, nil)
		now = now.Add(time.Minute)
	}
	c.put("d", nil)

	if c.len() != 3 {
		t.Fatalf("cache holds %d entries; want 3", c.len())
	}
	if _, ok := c.get("a"); ok {
		t.Error("oldest entry survived eviction")
	}
	for _, key := range []string{"b", "c", "d"} {
		if _, ok := c.get(key); !ok {
			t.Errorf("entry %q was evicted; want kept", key)
		}
	}
}

func TestResultCache_overwriteDoesNotEvict(t *testing.T) {
	now := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	c := newResultCache(2, time.Hour, func() time.Time { return now })

	c.put("a", nil)
	c.put("b", nil)
	c.put("a", []Question{makeQuestion("q1", AircraftGeneral, "Fuel", DifficultyBasic)})

	if _, ok := c.get("b"); !ok {
		t.Error("overwriting an existing key evicted another entry")
	}
	got, _ := c.get("a")
	assert.Len(t, got, 1)
}

func TestResultCache_defensiveCopies(t *testing.T) {
	c := newResultCache(10, time.Hour, nil)

	in := []Question{makeQuestion("q1", AircraftGeneral, "Fuel", DifficultyBasic)}
	c.put("k", in)
	in[0].ID = "mutated"

	got, _ := c.get("k")
	if got[0].ID != "q1" {
		t.Error("put() shares the caller's backing array")
	}

	got[0].ID = "mutated"
	got2, _ := c.get("k")
	if got2[0].ID != "q1" {
		t.Error("get() shares the cached backing array")
	}
}
