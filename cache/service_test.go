package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

// mockService is a map-backed Service that records call counts.
type mockService struct {
	values map[string]any

	getCalls int
	setCalls int
	getErr   error
	setErr   error
}

func newMockService() *mockService {
	return &mockService{values: map[string]any{}}
}

func (m *mockService) Get(ctx context.Context, key string) (any, bool, error) {
	m.getCalls++
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *mockService) Set(ctx context.Context, key string, value any) error {
	return m.SetWithTTL(ctx, key, value, 0)
}

func (m *mockService) SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.setCalls++
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockService) Has(ctx context.Context, key string) (bool, error) {
	_, ok := m.values[key]
	return ok, nil
}

func (m *mockService) Remove(ctx context.Context, key string) error {
	delete(m.values, key)
	return nil
}

func (m *mockService) Keys(ctx context.Context) ([]string, error) {
	keys := make([]string, 0, len(m.values))
	for key := range m.values {
		keys = append(keys, key)
	}
	return keys, nil
}

func (m *mockService) Clear(ctx context.Context) error {
	m.values = map[string]any{}
	return nil
}

func (m *mockService) InvalidateByPrefix(ctx context.Context, prefix string) error {
	return nil
}

func (m *mockService) Stats(ctx context.Context) (Stats, error) {
	return Stats{TotalItems: len(m.values)}, nil
}

func TestGetTyped_Hit(t *testing.T) {
	svc := newMockService()
	svc.values["count"] = 7

	got, ok, err := GetTyped[int](context.Background(), svc, "count")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got != 7 {
		t.Errorf("expected 7, got %d", got)
	}
}

func TestGetTyped_WrongTypeIsMiss(t *testing.T) {
	svc := newMockService()
	svc.values["count"] = "not a number"

	// The mock is not a remarshaler, so an incompatible type is a miss.
	_, ok, err := GetTyped[int](context.Background(), svc, "count")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected type mismatch to count as a miss")
	}
}

func TestGetTyped_AbsentIsMiss(t *testing.T) {
	svc := newMockService()

	_, ok, err := GetTyped[int](context.Background(), svc, "absent")
	if err != nil || ok {
		t.Errorf("expected clean miss, got ok=%v err=%v", ok, err)
	}
}

func TestFetch_MissPopulates(t *testing.T) {
	svc := newMockService()
	ctx := context.Background()

	fetches := 0
	got, err := Fetch(ctx, svc, "pets", time.Minute, func(ctx context.Context) ([]string, error) {
		fetches++
		return []string{"milo", "luna"}, nil
	})
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 items, got %d", len(got))
	}
	if fetches != 1 {
		t.Errorf("expected 1 source fetch, got %d", fetches)
	}
	if svc.setCalls != 1 {
		t.Errorf("expected the result to be cached, setCalls=%d", svc.setCalls)
	}
}

func TestFetch_HitSkipsSource(t *testing.T) {
	svc := newMockService()
	svc.values["pets"] = []string{"milo"}
	ctx := context.Background()

	fetches := 0
	got, err := Fetch(ctx, svc, "pets", time.Minute, func(ctx context.Context) ([]string, error) {
		fetches++
		return nil, errors.New("should not be called")
	})
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(got) != 1 || got[0] != "milo" {
		t.Errorf("expected cached value, got %v", got)
	}
	if fetches != 0 {
		t.Errorf("expected no source fetch on a hit, got %d", fetches)
	}
}

func TestFetch_SourceErrorPropagates(t *testing.T) {
	svc := newMockService()
	wantErr := errors.New("source down")

	_, err := Fetch(context.Background(), svc, "pets", time.Minute, func(ctx context.Context) ([]string, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("expected source error, got %v", err)
	}
	if svc.setCalls != 0 {
		t.Errorf("expected nothing cached on source failure, setCalls=%d", svc.setCalls)
	}
}

func TestFetch_CacheErrorFallsThroughToSource(t *testing.T) {
	svc := newMockService()
	svc.getErr = errors.New("cache down")
	svc.setErr = errors.New("cache down")

	got, err := Fetch(context.Background(), svc, "count", time.Minute, func(ctx context.Context) (int, error) {
		return 9, nil
	})
	if err != nil {
		t.Fatalf("expected cache failure to be transparent, got %v", err)
	}
	if got != 9 {
		t.Errorf("expected 9, got %d", got)
	}
}
