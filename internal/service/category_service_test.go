package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/explorewithme/internal/db"
)

func TestCategoryListPagesWithFloor(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	for i := 0; i < 5; i++ {
		category := db.Category{Name: fmt.Sprintf("category %d", i)}
		if err := gdb.Create(&category).Error; err != nil {
			t.Fatalf("failed to seed category: %v", err)
		}
	}

	svc := NewCategoryService(gdb)

	first, err := svc.List(0, 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(first))
	}

	// from=3, size=2 向下取整到第 1 页
	floored, err := svc.List(3, 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(floored) != 2 || floored[0].ID != first[1].ID+1 {
		t.Fatalf("expected floor to page 1, got %+v", floored)
	}
}

func TestCategoryGetNotFound(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewCategoryService(gdb)
	if _, err := svc.Get(42); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}
