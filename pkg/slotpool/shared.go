package slotpool

import (
	"reflect"

	"github.com/randalmurphal/slotpool/pkg/slotpool/registry"
)

// Shared pools are process-wide singletons keyed by (payload type, pool
// kind, tag). Every call to a Shared accessor with the same type
// parameter and tag returns the same pool, constructed on first use and
// alive for the rest of the process. The tag is a pure discriminator:
// two pools over the same payload type with different tags never share
// slots, backing storage or master values.
//
// Options are applied only by the call that creates the pool; later
// calls for the same key ignore them.

// poolKey identifies one shared pool.
type poolKey struct {
	kind string
	typ  reflect.Type
	tag  string
}

// sharedPools is the process-wide pool table.
var sharedPools = registry.New[poolKey, any]()

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// SharedSplit returns the process-wide ephemeral pool for (T, tag).
func SharedSplit[T any](tag string, opts ...Option) *Split[T] {
	key := poolKey{kind: "split", typ: typeOf[T](), tag: tag}
	v := sharedPools.GetOrCreate(key, func() any {
		return NewSplit[T](opts...)
	})
	return v.(*Split[T])
}

// SharedCollect returns the process-wide history-preserving pool for
// (T, tag).
func SharedCollect[T any](tag string, opts ...Option) *Collect[T] {
	key := poolKey{kind: "collect", typ: typeOf[T](), tag: tag}
	v := sharedPools.GetOrCreate(key, func() any {
		return NewCollect[T](opts...)
	})
	return v.(*Collect[T])
}

// SharedSplitter returns the process-wide iterable pool for (T, tag).
func SharedSplitter[T any](tag string, opts ...Option) *Splitter[T] {
	key := poolKey{kind: "splitter", typ: typeOf[T](), tag: tag}
	v := sharedPools.GetOrCreate(key, func() any {
		return NewSplitter[T](opts...)
	})
	return v.(*Splitter[T])
}

// SharedReplicate returns the process-wide replication pool for (T, tag).
// initial seeds the master value only when this call creates the pool.
func SharedReplicate[T any](tag string, initial T, opts ...Option) *Replicate[T] {
	key := poolKey{kind: "replicate", typ: typeOf[T](), tag: tag}
	v := sharedPools.GetOrCreate(key, func() any {
		return NewReplicate[T](initial, opts...)
	})
	return v.(*Replicate[T])
}
