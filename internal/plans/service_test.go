package plans

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/rechargex/rechargex/internal/apperr"
	"github.com/rechargex/rechargex/internal/logging"
	"github.com/rechargex/rechargex/internal/operator"
)

func newCachedService(t *testing.T) (*Service, Repository, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		cache.Close()
		mr.Close()
	})
	repo := NewMemoryRepository()
	return NewService(repo, cache, time.Minute, logging.Discard()), repo, mr
}

func TestCatalogIsValid(t *testing.T) {
	catalog := Catalog()
	if len(catalog) != 24 {
		t.Fatalf("expected 24 plans, got %d", len(catalog))
	}
	perOperator := map[operator.Operator]int{}
	for _, p := range catalog {
		p.ID = "x"
		if err := p.Validate(); err != nil {
			t.Fatalf("plan %q invalid: %v", p.Name, err)
		}
		perOperator[p.Operator]++
	}
	for _, op := range operator.Carriers {
		if perOperator[op] != 6 {
			t.Fatalf("expected 6 plans for %s, got %d", op, perOperator[op])
		}
	}
	if catalog[5].Name != "Jio 3GB/day - 84 days" || catalog[11].Name != "Airtel 2GB/day - 1 year" {
		t.Fatalf("unexpected names %q %q", catalog[5].Name, catalog[11].Name)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	svc, _, _ := newCachedService(t)
	ctx := context.Background()

	first, err := svc.Seed(ctx)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !first.Created || first.Count != 24 || len(first.Plans) != 24 {
		t.Fatalf("unexpected first seed %+v", first)
	}
	second, err := svc.Seed(ctx)
	if err != nil {
		t.Fatalf("seed again: %v", err)
	}
	if second.Created || second.Count != 24 {
		t.Fatalf("unexpected second seed %+v", second)
	}
}

func TestListByOperatorSortedAndCached(t *testing.T) {
	svc, repo, mr := newCachedService(t)
	ctx := context.Background()
	if _, err := svc.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	plans, err := svc.ListByOperator(ctx, "BSNL")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(plans) != 6 || plans[0].Price != 107 || plans[5].Price != 1498 {
		t.Fatalf("unexpected BSNL plans %+v", plans)
	}
	if !mr.Exists("plans:v1:BSNL") {
		t.Fatalf("expected listing to be cached")
	}

	// Cached listings survive changes behind the service's back.
	if _, err := repo.DeleteAll(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	cached, err := svc.ListByOperator(ctx, "BSNL")
	if err != nil || len(cached) != 6 {
		t.Fatalf("expected cached result, got %d %v", len(cached), err)
	}
}

func TestPurgeInvalidatesCache(t *testing.T) {
	svc, _, mr := newCachedService(t)
	ctx := context.Background()
	if _, err := svc.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := svc.ListByOperator(ctx, "Jio"); err != nil {
		t.Fatalf("list: %v", err)
	}

	n, err := svc.Purge(ctx)
	if err != nil || n != 24 {
		t.Fatalf("purge: %d %v", n, err)
	}
	if mr.Exists("plans:v1:Jio") {
		t.Fatalf("expected cache entry removed")
	}
	plans, err := svc.ListByOperator(ctx, "Jio")
	if err != nil || len(plans) != 0 {
		t.Fatalf("expected no plans after purge, got %d %v", len(plans), err)
	}
}

func TestListByOperatorRejectsUnknown(t *testing.T) {
	svc := NewService(NewMemoryRepository(), nil, 0, logging.Discard())
	for _, name := range []string{"Unknown", "jio", ""} {
		if _, err := svc.ListByOperator(context.Background(), name); !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("%q: expected validation error, got %v", name, err)
		}
	}
}

func TestGroupedWithoutCache(t *testing.T) {
	svc := NewService(NewMemoryRepository(), nil, 0, logging.Discard())
	ctx := context.Background()
	if _, err := svc.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	grouped, count, err := svc.Grouped(ctx)
	if err != nil {
		t.Fatalf("grouped: %v", err)
	}
	if count != 24 || len(grouped) != 4 {
		t.Fatalf("unexpected grouping %d %d", count, len(grouped))
	}
	airtel := grouped[operator.Airtel]
	for i := 1; i < len(airtel); i++ {
		if airtel[i-1].Price > airtel[i].Price {
			t.Fatalf("airtel plans not sorted by price")
		}
	}
}
