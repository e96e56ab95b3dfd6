package cache

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"partner-panel/storage"

	"github.com/sirupsen/logrus"
)

type fakePersistent struct {
	entries map[string]storage.CacheEntry
	getFn   func(key string) (storage.CacheEntry, bool, error)
}

func newFakePersistent() *fakePersistent {
	return &fakePersistent{entries: map[string]storage.CacheEntry{}}
}

func (f *fakePersistent) Get(key string) (storage.CacheEntry, bool, error) {
	if f.getFn != nil {
		return f.getFn(key)
	}
	e, ok := f.entries[key]
	return e, ok, nil
}

func (f *fakePersistent) Put(e storage.CacheEntry) error {
	f.entries[e.Key] = e
	return nil
}

func (f *fakePersistent) DeleteResources(resources ...string) (int64, error) {
	var n int64
	for key, e := range f.entries {
		for _, r := range resources {
			if e.Resource == r {
				delete(f.entries, key)
				n++
			}
		}
	}
	return n, nil
}

func (f *fakePersistent) Clear() (int64, error) {
	n := int64(len(f.entries))
	f.entries = map[string]storage.CacheEntry{}
	return n, nil
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func newTestCache(persist Persistent) (*Cache, *clock) {
	clk := &clock{now: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)}
	c := New(time.Minute, persist, quietLogger())
	c.now = clk.Now
	return c, clk
}

type record struct {
	ID string `json:"id"`
}

func TestNewKeyIsOrderIndependent(t *testing.T) {
	a := url.Values{}
	a.Set("status", "idle")
	a.Set("location_id", "l1")
	b := url.Values{}
	b.Set("location_id", "l1")
	b.Set("status", "idle")
	if NewKey("storages", a) != NewKey("storages", b) {
		t.Fatalf("keys differ for equal params")
	}
	if got := NewKey("storages", a).String(); got != "storages?location_id=l1&status=idle" {
		t.Fatalf("key = %q", got)
	}
	if got := NewKey("locations", nil).String(); got != "locations" {
		t.Fatalf("key = %q", got)
	}
}

func TestFetchCachesWithinTTL(t *testing.T) {
	c, clk := newTestCache(nil)
	var calls int
	fn := func(ctx context.Context) ([]record, error) {
		calls++
		return []record{{ID: "s1"}}, nil
	}
	key := NewKey("storages", nil)

	for i := 0; i < 3; i++ {
		got, err := Fetch(context.Background(), c, key, fn)
		if err != nil || len(got) != 1 || got[0].ID != "s1" {
			t.Fatalf("Fetch = %+v, %v", got, err)
		}
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}

	clk.Advance(2 * time.Minute)
	if _, err := Fetch(context.Background(), c, key, fn); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls after expiry = %d, want 2", calls)
	}
}

func TestFetchBypass(t *testing.T) {
	c, _ := newTestCache(nil)
	c.Bypass = true
	var calls int
	fn := func(ctx context.Context) (record, error) {
		calls++
		return record{ID: "x"}, nil
	}
	key := NewKey("locations", nil)
	_, _ = Fetch(context.Background(), c, key, fn)
	_, _ = Fetch(context.Background(), c, key, fn)
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestFetchDeduplicatesInFlight(t *testing.T) {
	c, _ := newTestCache(nil)
	var calls int32
	release := make(chan struct{})
	started := make(chan struct{})
	fn := func(ctx context.Context) ([]record, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
		}
		<-release
		return []record{{ID: "s1"}}, nil
	}
	key := NewKey("storages", nil)

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := Fetch(context.Background(), c, key, fn)
		errs <- err
	}()
	<-started
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := Fetch(context.Background(), c, key, fn)
			errs <- err
		}()
	}
	// let the followers reach the shared call before releasing it
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("Fetch: %v", err)
		}
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("calls = %d, want 1", n)
	}
}

func TestFetchServesStaleOnError(t *testing.T) {
	c, clk := newTestCache(nil)
	key := NewKey("revenue/summary", nil)
	if _, err := Fetch(context.Background(), c, key, func(ctx context.Context) (record, error) {
		return record{ID: "old"}, nil
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	clk.Advance(5 * time.Minute)
	boom := errors.New("connection refused")
	got, err := Fetch(context.Background(), c, key, func(ctx context.Context) (record, error) {
		return record{}, boom
	})
	var stale *StaleError
	if !errors.As(err, &stale) {
		t.Fatalf("expected StaleError, got %v", err)
	}
	if !errors.Is(err, boom) || got.ID != "old" {
		t.Fatalf("got %+v, %v", got, err)
	}

	_, err = Fetch(context.Background(), c, NewKey("settlements", nil), func(ctx context.Context) (record, error) {
		return record{}, boom
	})
	if !errors.Is(err, boom) || errors.As(err, &stale) {
		t.Fatalf("expected plain error without cached value, got %v", err)
	}
}

func TestInvalidateDropsResourceKeys(t *testing.T) {
	persist := newFakePersistent()
	c, _ := newTestCache(persist)
	var calls int
	fn := func(ctx context.Context) (record, error) {
		calls++
		return record{ID: "r"}, nil
	}
	idle := url.Values{"status": {"idle"}}
	_, _ = Fetch(context.Background(), c, NewKey("storages", nil), fn)
	_, _ = Fetch(context.Background(), c, NewKey("storages", idle), fn)
	_, _ = Fetch(context.Background(), c, NewKey("pricing", nil), fn)
	if calls != 3 || len(persist.entries) != 3 {
		t.Fatalf("calls=%d persisted=%d", calls, len(persist.entries))
	}

	c.Invalidate("storages")
	if len(persist.entries) != 1 {
		t.Fatalf("persisted after invalidate = %d", len(persist.entries))
	}
	_, _ = Fetch(context.Background(), c, NewKey("storages", idle), fn)
	_, _ = Fetch(context.Background(), c, NewKey("pricing", nil), fn)
	if calls != 4 {
		t.Fatalf("calls = %d, want 4", calls)
	}
}

func TestPersistentTierSharedAcrossCaches(t *testing.T) {
	persist := newFakePersistent()
	first, _ := newTestCache(persist)
	key := NewKey("locations", nil)
	if _, err := Fetch(context.Background(), first, key, func(ctx context.Context) ([]record, error) {
		return []record{{ID: "l1"}}, nil
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	second, _ := newTestCache(persist)
	got, err := Fetch(context.Background(), second, key, func(ctx context.Context) ([]record, error) {
		t.Fatalf("second cache should read the persisted entry")
		return nil, nil
	})
	if err != nil || len(got) != 1 || got[0].ID != "l1" {
		t.Fatalf("Fetch = %+v, %v", got, err)
	}

	removed, err := second.Clear()
	if err != nil || removed != 1 {
		t.Fatalf("Clear = %d, %v", removed, err)
	}
}

func TestPersistentReadErrorIsIgnored(t *testing.T) {
	persist := newFakePersistent()
	persist.getFn = func(string) (storage.CacheEntry, bool, error) {
		return storage.CacheEntry{}, false, errors.New("database is locked")
	}
	c, _ := newTestCache(persist)
	got, err := Fetch(context.Background(), c, NewKey("staff", nil), func(ctx context.Context) (record, error) {
		return record{ID: "st"}, nil
	})
	if err != nil || got.ID != "st" {
		t.Fatalf("Fetch = %+v, %v", got, err)
	}
}
