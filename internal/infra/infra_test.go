package infra

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestMigrationURL(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@localhost:5432/db?sslmode=disable": "pgx5://u:p@localhost:5432/db?sslmode=disable",
		"postgresql://localhost/db":                         "pgx5://localhost/db",
		"pgx5://localhost/db":                               "pgx5://localhost/db",
	}
	for in, want := range cases {
		if got := MigrationURL(in); got != want {
			t.Fatalf("MigrationURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	ups, downs := 0, 0
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		}
	}
	if ups == 0 || ups != downs {
		t.Fatalf("expected paired migrations, got %d up and %d down", ups, downs)
	}
}

func TestConnectorsRequireURL(t *testing.T) {
	if _, err := NewPostgresPool(context.Background(), "", "rechargex"); err == nil {
		t.Fatalf("expected error for empty postgres url")
	}
	if _, err := NewRedisClient(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty redis url")
	}
}

func TestHealth(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer cache.Close()

	status := Health(context.Background(), nil, cache)
	if status["database"] != StatusDisabled || status["cache"] != StatusUp || !Healthy(status) {
		t.Fatalf("unexpected status %v", status)
	}

	mr.Close()
	status = Health(context.Background(), nil, cache)
	if status["cache"] != StatusDown || Healthy(status) {
		t.Fatalf("expected cache down, got %v", status)
	}
}
