/*
Package typestore provides an in-process, type-indexed heterogeneous storage
engine: for each Go type allocated in it, a Storage holds zero, one, or many
values of that type behind runtime-checked accessors that enforce aliasing
rules the compiler cannot verify, because the stored type is resolved
dynamically.

It is meant to be embedded by systems that need a generic resource or
component table — an entity-component framework, a plugin host — without
knowing the stored types in advance.

Key Features:
  - Type-safe operations using Go generics over an erased reflect.Type map
  - Per-type Empty/One/Many storage cells with automatic collapse
  - Three concurrency flavors behind one API: unsynchronized borrow checking,
    exclusive locking, and shared/exclusive locking
  - Fail-fast and blocking acquisition, guard objects with explicit release
  - Multi-type requests resolved as a single all-or-nothing fetch
  - Semantic error types for better error handling

Basic Usage:

	store := typestore.NewRWMutexStorage()
	typestore.Allocate[int](store)
	typestore.Allocate[string](store)

	_ = typestore.Insert(store, "abc")
	_ = typestore.InsertMany(store, []int{2, 4, 8, 16, 32})

	ref, err := typestore.GetOne[string](store)
	if err != nil {
	    // handle conflict / shape errors
	}
	fmt.Println(*ref.Value())
	ref.Release()

Multi-type requests declare their shape up front and resolve in one call:

	res, err := store.Fetch(
	    typestore.Read[string](),
	    typestore.ReadAll[int](),
	)
	if err == nil {
	    name, _ := typestore.Value[*string](res, 0)
	    nums, _ := typestore.Value[[]int](res, 1)
	    _ = name
	    _ = nums
	    res.Release()
	}

Guards returned by accessors hold the slot's lock until released and must not
be persisted. The Unsync flavor confines the whole Storage to one goroutine;
the Mutex and RWMutex flavors are safe for arbitrary concurrent use.
*/
package typestore
