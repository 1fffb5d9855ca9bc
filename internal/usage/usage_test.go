package usage

import (
	"context"
	"errors"
	"testing"

	"github.com/rechargex/rechargex/internal/apperr"
)

func TestForSimDefaults(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	got, err := svc.ForSim(context.Background(), "u1", "s1")
	if err != nil {
		t.Fatalf("for sim: %v", err)
	}
	if got.DataUsed != 0 || got.DataTotal != 100 || got.CallsUsed != 0 || got.SMSUsed != 0 {
		t.Fatalf("unexpected defaults %+v", got)
	}
	if empty, _ := svc.ForSim(context.Background(), "u1", ""); empty.DataTotal != 100 {
		t.Fatalf("expected defaults without sim, got %+v", empty)
	}
}

func TestRecordThenRead(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()
	if err := svc.Record(ctx, Stats{UserID: "u1", SimID: "s1", DataUsed: 12.5, DataTotal: 56, CallsUsed: 30, SMSUsed: 4}); err != nil {
		t.Fatalf("record: %v", err)
	}
	got, err := svc.ForSim(ctx, "u1", "s1")
	if err != nil {
		t.Fatalf("for sim: %v", err)
	}
	if got.DataUsed != 12.5 || got.DataTotal != 56 || got.CallsUsed != 30 || got.UpdatedAt.IsZero() {
		t.Fatalf("unexpected stats %+v", got)
	}
	if other, _ := svc.ForSim(ctx, "u2", "s1"); other.DataTotal != 100 {
		t.Fatalf("stats must be scoped per user, got %+v", other)
	}
}

func TestRecordValidation(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	if err := svc.Record(context.Background(), Stats{UserID: "u1"}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
