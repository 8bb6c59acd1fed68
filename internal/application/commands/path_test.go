package commands

import (
	"context"
	"errors"
	"testing"

	"segnalibro/internal/domain"
)

func TestPathCommand_Validate(t *testing.T) {
	if err := NewPathCommand(nil, "0", "10").Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := NewPathCommand(nil, "0", "").Validate()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !contains(err.Error(), "id is required") {
		t.Errorf("expected error containing %q, got %q", "id is required", err.Error())
	}
}

func TestPathCommand_WalksToRoot(t *testing.T) {
	// 0 -> 1 -> 10 -> 100, titles equal ids
	store := &chainStore{parents: map[string]string{
		"0":   "",
		"1":   "0",
		"10":  "1",
		"100": "10",
	}}

	result, err := NewPathCommand(store, "0", "100").Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Path != "1 / 10 / 100" {
		t.Errorf("expected path %q, got %q", "1 / 10 / 100", result.Path)
	}
}

func TestPathCommand_TopLevelNodeIsItsOwnPath(t *testing.T) {
	store := &chainStore{parents: map[string]string{
		"0": "",
		"1": "0",
	}}

	result, err := NewPathCommand(store, "0", "1").Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Path != "1" {
		t.Errorf("expected path %q, got %q", "1", result.Path)
	}
}

func TestPathCommand_UnknownNode(t *testing.T) {
	store := &chainStore{parents: map[string]string{"0": ""}}

	_, err := NewPathCommand(store, "0", "missing").Execute(context.Background())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
