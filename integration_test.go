/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package typestore_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/suparena/typestore"
	serrors "github.com/suparena/typestore/errors"
)

// Test entities
type ScenarioUser struct {
	ID    string
	Email string
	Name  string
}

type ScenarioOrder struct {
	OrderID string
	Total   float64
}

// lifecycle walks one storage through the full allocate → insert → borrow →
// extract cycle. It only relies on behavior common to all three flavors.
func lifecycle(t *testing.T, s *typestore.Storage) {
	t.Helper()

	// insertion before allocation hands the error back
	err := typestore.Insert(s, ScenarioUser{ID: "u1"})
	if !serrors.IsUnallocated(err) {
		t.Fatalf("expected ErrUnallocated, got %v", err)
	}

	typestore.Allocate[ScenarioUser](s)
	typestore.Allocate[ScenarioOrder](s)
	typestore.Allocate[int](s)

	user := ScenarioUser{ID: "u1", Email: "jane@example.com", Name: "Jane"}
	if err := typestore.Insert(s, user); err != nil {
		t.Fatalf("insert user failed: %v", err)
	}
	orders := []ScenarioOrder{
		{OrderID: "o1", Total: 10.5},
		{OrderID: "o2", Total: 20.0},
	}
	if err := typestore.InsertMany(s, orders); err != nil {
		t.Fatalf("insert orders failed: %v", err)
	}

	// single borrow
	uref, err := typestore.GetOne[ScenarioUser](s)
	if err != nil {
		t.Fatalf("get user failed: %v", err)
	}
	if uref.Value().Email != "jane@example.com" {
		t.Fatalf("unexpected user %+v", *uref.Value())
	}
	uref.Release()

	// multi-type fetch
	res, err := s.Fetch(
		typestore.Read[ScenarioUser](),
		typestore.ReadAll[ScenarioOrder](),
	)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	got, err := typestore.Value[[]ScenarioOrder](res, 1)
	if err != nil {
		t.Fatalf("orders value: %v", err)
	}
	if diff := cmp.Diff(orders, got); diff != "" {
		t.Fatalf("orders mismatch (-want +got):\n%s", diff)
	}
	res.Release()

	// batch pass over an accumulating slot
	for i := 0; i < 4; i++ {
		if err := typestore.Insert(s, i); err != nil {
			t.Fatalf("insert int failed: %v", err)
		}
	}
	total, err := typestore.RunFor(s, func(vs []int) int {
		sum := 0
		for _, v := range vs {
			sum += v
		}
		return sum
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if total != 6 {
		t.Fatalf("expected 6, got %d", total)
	}

	// extraction drains a slot and returns ownership
	first, err := typestore.ExtractAt[ScenarioOrder](s, 0)
	if err != nil {
		t.Fatalf("extractAt failed: %v", err)
	}
	if first.OrderID != "o1" {
		t.Fatalf("expected o1, got %+v", first)
	}
	oref, err := typestore.GetOne[ScenarioOrder](s)
	if err != nil {
		t.Fatalf("one should succeed with a single order left: %v", err)
	}
	if oref.Value().OrderID != "o2" {
		t.Fatalf("expected o2, got %+v", *oref.Value())
	}
	oref.Release()

	rest, err := typestore.ExtractAll[ScenarioOrder](s)
	if err != nil {
		t.Fatalf("extractAll failed: %v", err)
	}
	if len(rest) != 1 || rest[0].OrderID != "o2" {
		t.Fatalf("expected the remaining o2, got %+v", rest)
	}
	if _, err := typestore.GetOne[ScenarioOrder](s); !serrors.IsShapeError(err) {
		t.Fatalf("expected a shape error on the drained slot, got %v", err)
	}
}

func TestStorageLifecycle(t *testing.T) {
	flavors := []struct {
		name string
		make func() *typestore.Storage
	}{
		{"Unsync", typestore.NewUnsyncStorage},
		{"Mutex", typestore.NewMutexStorage},
		{"RWMutex", typestore.NewRWMutexStorage},
	}
	for _, f := range flavors {
		t.Run(f.name, func(t *testing.T) {
			s := f.make()
			if got := fmt.Sprint(s.Flavor()); got == "unknown" {
				t.Fatalf("flavor should print a real name, got %q", got)
			}
			lifecycle(t, s)
		})
	}
}
