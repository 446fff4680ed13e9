package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"crowdquiz-service/internal/domain"
)

func TestPackRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		PackLoader: NewStaticPackLoader(map[string]domain.Pack{
			"pack-1": samplePack(),
		}),
	}
	repo := NewPackRepository(loader, time.Minute)

	if _, err := repo.GetPack(context.Background(), "pack-1"); err != nil {
		t.Fatalf("get pack: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetPack(context.Background(), "pack-1"); err != nil {
		t.Fatalf("get pack 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestPackRepositoryExpiry(t *testing.T) {
	loader := &countingLoader{
		PackLoader: NewStaticPackLoader(map[string]domain.Pack{
			"pack-1": samplePack(),
		}),
	}
	repo := NewPackRepository(loader, time.Minute)

	now := time.Now()
	repo.clock = func() time.Time { return now }

	if _, err := repo.GetPack(context.Background(), "pack-1"); err != nil {
		t.Fatalf("get pack: %v", err)
	}

	// Past the TTL plus the maximum jitter the entry must reload.
	now = now.Add(2 * time.Minute)
	if _, err := repo.GetPack(context.Background(), "pack-1"); err != nil {
		t.Fatalf("get pack after expiry: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after expiry, loader calls %d", loader.calls)
	}
}

func TestStaticPackLoaderUnknown(t *testing.T) {
	loader := NewStaticPackLoader(nil)
	_, err := loader.LoadPack(context.Background(), "nope")
	if !errors.Is(err, domain.ErrPackNotFound) {
		t.Fatalf("expected ErrPackNotFound, got %v", err)
	}
}

type countingLoader struct {
	PackLoader
	calls int
}

func (l *countingLoader) LoadPack(ctx context.Context, packID string) (domain.Pack, error) {
	l.calls++
	return l.PackLoader.LoadPack(ctx, packID)
}

func samplePack() domain.Pack {
	return domain.Pack{
		ID:         "pack-1",
		Title:      "Sample",
		StartScore: 10,
		States: []domain.StateDef{{
			Type:          "openquestion",
			Question:      "What is 2 + 2?",
			CorrectAnswer: []string{"4"},
			PointReward:   1,
		}},
	}
}
