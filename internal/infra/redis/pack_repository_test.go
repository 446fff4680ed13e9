package redis

import (
	"context"
	"testing"
	"time"

	"crowdquiz-service/internal/domain"
	"crowdquiz-service/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestPackRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		PackLoader: memory.NewStaticPackLoader(map[string]domain.Pack{
			"pack-1": samplePack(),
		}),
	}
	repo := NewPackRepository(client, loader, time.Minute)

	pack, err := repo.GetPack(context.Background(), "pack-1")
	if err != nil {
		t.Fatalf("get pack: %v", err)
	}
	if pack.Title != "Sample" {
		t.Fatalf("unexpected pack: %+v", pack)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}

	// Second call should hit cache, loader not incremented.
	if _, err := repo.GetPack(context.Background(), "pack-1"); err != nil {
		t.Fatalf("get cached pack: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}

	if !mr.Exists("pack:pack-1") {
		t.Fatal("pack should be cached under pack:pack-1")
	}
}

func TestPackRepositoryReloadsAfterEviction(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	loader := &countingLoader{
		PackLoader: memory.NewStaticPackLoader(map[string]domain.Pack{
			"pack-1": samplePack(),
		}),
	}
	repo := NewPackRepository(client, loader, time.Minute)

	if _, err := repo.GetPack(context.Background(), "pack-1"); err != nil {
		t.Fatalf("get pack: %v", err)
	}
	mr.FlushAll()
	if _, err := repo.GetPack(context.Background(), "pack-1"); err != nil {
		t.Fatalf("get pack after flush: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after eviction, loader calls=%d", loader.calls)
	}
}

func TestPackRepositoryPropagatesNotFound(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	repo := NewPackRepository(newClient(mr), memory.NewStaticPackLoader(nil), time.Minute)
	if _, err := repo.GetPack(context.Background(), "nope"); err != domain.ErrPackNotFound {
		t.Fatalf("expected ErrPackNotFound, got %v", err)
	}
}

type countingLoader struct {
	memory.PackLoader
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

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}
