package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"crowdquiz-service/internal/domain"
)

func TestFilePackLoader(t *testing.T) {
	dir := t.TempDir()
	raw := `
title: Friday Night
start_score: 10
states:
  - type: openquestion
    question: "What is 2 + 2?"
    correct_answer: ["4"]
    point_reward: 3
  - type: infopage
    title: Done
`
	if err := os.WriteFile(filepath.Join(dir, "friday.yaml"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write pack file: %v", err)
	}

	loader := NewFilePackLoader(dir)
	pack, err := loader.LoadPack(context.Background(), "friday")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if pack.ID != "friday" {
		t.Fatalf("id should default to the file name, got %q", pack.ID)
	}
	if pack.StartScore != 10 || len(pack.States) != 2 {
		t.Fatalf("unexpected pack: %+v", pack)
	}
	if pack.States[0].CorrectAnswer[0] != "4" || pack.States[0].PointReward != 3 {
		t.Fatalf("unexpected first state: %+v", pack.States[0])
	}
}

func TestFilePackLoaderMissing(t *testing.T) {
	loader := NewFilePackLoader(t.TempDir())
	if _, err := loader.LoadPack(context.Background(), "nope"); !errors.Is(err, domain.ErrPackNotFound) {
		t.Fatalf("expected ErrPackNotFound, got %v", err)
	}
}

func TestFilePackLoaderMalformed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("states: {not a list"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	loader := NewFilePackLoader(dir)
	if _, err := loader.LoadPack(context.Background(), "bad"); err == nil {
		t.Fatal("malformed YAML should error")
	}
}
