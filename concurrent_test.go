/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package typestore

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	serrors "github.com/suparena/typestore/errors"
)

func TestMutexFlavor(t *testing.T) {
	t.Run("SecondExclusiveFailsFast", func(t *testing.T) {
		s := NewMutexStorage()
		Allocate[int](s)
		if err := Insert(s, 1); err != nil {
			t.Fatalf("insert failed: %v", err)
		}

		ref, err := GetOneMut[int](s)
		if err != nil {
			t.Fatalf("exclusive get failed: %v", err)
		}
		if _, err := GetOneMut[int](s); !serrors.IsAccessConflict(err) {
			t.Fatalf("expected ErrAccessConflict, got %v", err)
		}
		// mutex flavor: even shared access is exclusive
		if _, err := GetOne[int](s); !serrors.IsAccessConflict(err) {
			t.Fatalf("expected ErrAccessConflict for shared get, got %v", err)
		}
		ref.Release()
	})

	t.Run("BlockingAcquisitionWaitsForRelease", func(t *testing.T) {
		s := NewMutexStorage()
		Allocate[int](s)
		if err := Insert(s, 1); err != nil {
			t.Fatalf("insert failed: %v", err)
		}

		ref, err := GetOneMut[int](s)
		if err != nil {
			t.Fatalf("exclusive get failed: %v", err)
		}

		var released atomic.Bool
		acquired := make(chan struct{})

		var g errgroup.Group
		g.Go(func() error {
			other, err := GetOneMutWait[int](s)
			if err != nil {
				return err
			}
			if !released.Load() {
				t.Error("blocking acquisition completed before the holder released")
			}
			other.Release()
			close(acquired)
			return nil
		})

		// give the waiter time to park on the lock
		time.Sleep(50 * time.Millisecond)
		select {
		case <-acquired:
			t.Fatal("waiter acquired the slot while it was held")
		default:
		}

		released.Store(true)
		ref.Release()

		if err := g.Wait(); err != nil {
			t.Fatalf("waiter failed: %v", err)
		}
		<-acquired
	})

	t.Run("ConcurrentInsertsAllLand", func(t *testing.T) {
		s := NewMutexStorage()
		Allocate[int](s)

		var g errgroup.Group
		for i := 0; i < 32; i++ {
			i := i
			g.Go(func() error { return InsertWait(s, i) })
		}
		if err := g.Wait(); err != nil {
			t.Fatalf("concurrent insert failed: %v", err)
		}

		n, err := Len[int](s)
		if err != nil {
			t.Fatalf("len failed: %v", err)
		}
		if n != 32 {
			t.Fatalf("expected 32 values, got %d", n)
		}
	})
}

func TestRWMutexFlavor(t *testing.T) {
	t.Run("ConcurrentSharedReaders", func(t *testing.T) {
		s := NewRWMutexStorage()
		Allocate[int](s)
		if err := Insert(s, 3); err != nil {
			t.Fatalf("insert failed: %v", err)
		}

		first, err := GetOne[int](s)
		if err != nil {
			t.Fatalf("first shared get failed: %v", err)
		}
		second, err := GetOne[int](s)
		if err != nil {
			t.Fatalf("second shared get should coexist with the first: %v", err)
		}
		if *first.Value() != 3 || *second.Value() != 3 {
			t.Fatal("both readers should observe the stored value")
		}

		// a writer cannot slip between two live readers
		if _, err := GetOneMut[int](s); !serrors.IsAccessConflict(err) {
			t.Fatalf("expected ErrAccessConflict for the writer, got %v", err)
		}

		second.Release()
		if _, err := GetOneMut[int](s); !serrors.IsAccessConflict(err) {
			t.Fatalf("one reader still holds the slot, got %v", err)
		}
		first.Release()

		w, err := GetOneMut[int](s)
		if err != nil {
			t.Fatalf("writer should succeed once all readers released: %v", err)
		}
		w.Release()
	})

	t.Run("WriterBlocksUntilReadersRelease", func(t *testing.T) {
		s := NewRWMutexStorage()
		Allocate[int](s)
		if err := Insert(s, 3); err != nil {
			t.Fatalf("insert failed: %v", err)
		}

		var readersHold sync.WaitGroup
		readersHold.Add(2)
		releaseReaders := make(chan struct{})
		var readersDone atomic.Int32

		var g errgroup.Group
		for i := 0; i < 2; i++ {
			g.Go(func() error {
				ref, err := GetOneWait[int](s)
				if err != nil {
					return err
				}
				if *ref.Value() != 3 {
					t.Errorf("reader observed %d, want 3", *ref.Value())
				}
				readersHold.Done()
				<-releaseReaders
				readersDone.Add(1)
				ref.Release()
				return nil
			})
		}

		readersHold.Wait()

		g.Go(func() error {
			ref, err := GetOneMutWait[int](s)
			if err != nil {
				return err
			}
			if readersDone.Load() != 2 {
				t.Error("writer acquired the slot before both readers released")
			}
			*ref.Value() = 4
			ref.Release()
			return nil
		})

		// writer must be parked while readers hold the slot
		time.Sleep(50 * time.Millisecond)
		close(releaseReaders)

		if err := g.Wait(); err != nil {
			t.Fatalf("concurrent access failed: %v", err)
		}

		ref, err := GetOne[int](s)
		if err != nil {
			t.Fatalf("final read failed: %v", err)
		}
		if *ref.Value() != 4 {
			t.Fatalf("expected the writer's 4, got %d", *ref.Value())
		}
		ref.Release()
	})

	t.Run("NonBlockingWriterFailsUnderReaders", func(t *testing.T) {
		s := NewRWMutexStorage()
		Allocate[int](s)
		if err := Insert(s, 3); err != nil {
			t.Fatalf("insert failed: %v", err)
		}

		ref, err := GetSlice[int](s)
		if err != nil {
			t.Fatalf("shared slice get failed: %v", err)
		}
		if _, err := GetSliceMut[int](s); !serrors.IsAccessConflict(err) {
			t.Fatalf("expected ErrAccessConflict, got %v", err)
		}
		ref.Release()
	})

	t.Run("HammerSharedAndExclusive", func(t *testing.T) {
		s := NewRWMutexStorage()
		Allocate[int](s)
		if err := InsertMany(s, []int{1, 2, 3, 4}); err != nil {
			t.Fatalf("insert failed: %v", err)
		}

		var g errgroup.Group
		for i := 0; i < 8; i++ {
			g.Go(func() error {
				for j := 0; j < 100; j++ {
					if _, err := RunForWait(s, func(vs []int) int { return len(vs) }); err != nil {
						return err
					}
				}
				return nil
			})
		}
		for i := 0; i < 4; i++ {
			g.Go(func() error {
				for j := 0; j < 50; j++ {
					_, err := RunForMutWait(s, func(vs *[]int) int {
						(*vs)[0]++
						return (*vs)[0]
					})
					if err != nil {
						return err
					}
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			t.Fatalf("hammer failed: %v", err)
		}

		n, err := Len[int](s)
		if err != nil {
			t.Fatalf("len failed: %v", err)
		}
		if n != 4 {
			t.Fatalf("value count drifted to %d", n)
		}
	})
}
