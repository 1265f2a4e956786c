package redis

import (
	"context"
	"testing"
	"time"

	"github.com/user/ad-intel-service/internal/entity"
)

type fakeCache struct {
	entries map[string]entity.RelevanceVerdict
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]entity.RelevanceVerdict)}
}

func (f *fakeCache) Get(_ context.Context, key string) (*entity.RelevanceVerdict, bool, error) {
	v, ok := f.entries[key]
	if !ok {
		return nil, false, nil
	}
	return &v, true, nil
}

func (f *fakeCache) Set(_ context.Context, key string, verdict entity.RelevanceVerdict, _ time.Duration) error {
	f.entries[key] = verdict
	return nil
}

type countingChecker struct {
	calls   int
	verdict entity.RelevanceVerdict
}

func (c *countingChecker) Check(context.Context, string, string, string) entity.RelevanceVerdict {
	c.calls++
	return c.verdict
}

func TestCachedCheckerRepeatedInputHitsCache(t *testing.T) {
	inner := &countingChecker{verdict: entity.RelevanceVerdict{State: entity.VerdictRelevant, Reason: "match"}}
	checker := NewCachedChecker(inner, newFakeCache(), time.Hour)

	first := checker.Check(context.Background(), "copy", "Acme", "plumbing")
	second := checker.Check(context.Background(), "copy", "Acme", "plumbing")

	if inner.calls != 1 {
		t.Fatalf("inner called %d times, want 1", inner.calls)
	}
	if first != second {
		t.Fatalf("verdicts differ: %+v vs %+v", first, second)
	}
}

func TestCachedCheckerDistinctInputsMiss(t *testing.T) {
	inner := &countingChecker{verdict: entity.RelevanceVerdict{State: entity.VerdictNotRelevant}}
	checker := NewCachedChecker(inner, newFakeCache(), time.Hour)

	checker.Check(context.Background(), "copy one", "Acme", "plumbing")
	checker.Check(context.Background(), "copy two", "Acme", "plumbing")
	checker.Check(context.Background(), "copy one", "Other Co", "plumbing")

	if inner.calls != 3 {
		t.Fatalf("inner called %d times, want 3", inner.calls)
	}
}

func TestCachedCheckerDoesNotCacheFailures(t *testing.T) {
	inner := &countingChecker{verdict: entity.RelevanceVerdict{State: entity.VerdictCheckFailed, Reason: "outage"}}
	checker := NewCachedChecker(inner, newFakeCache(), time.Hour)

	checker.Check(context.Background(), "copy", "Acme", "plumbing")
	checker.Check(context.Background(), "copy", "Acme", "plumbing")

	if inner.calls != 2 {
		t.Fatalf("inner called %d times, want 2; failures must not be cached", inner.calls)
	}
}
