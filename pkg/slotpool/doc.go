/*
Package slotpool provides goroutine-partitioned state containers and a
single-writer/multi-reader value replication primitive.

# Overview

slotpool removes lock contention from parallel aggregation workloads by
giving every worker goroutine its own slot inside a shared pool. A worker
registers once (the only blocking touch), then reads and writes its slot
with no locking at all. A coordinator drains, iterates, or resets the
whole pool under the pool's lock.

Three aggregation pools differ only in what happens to a slot's payload
when its owner releases it and when the pool is drained:

  - Split: payload is discarded on release (ephemeral scratch state).
  - Collect: payload is moved into a backing store on release, so values
    survive worker exit and are returned by Gather.
  - Splitter: payloads stay iterable and sortable while workers are alive.

Replicate inverts the flow: one writer broadcasts a master value and every
reader keeps a private cached copy, refreshed lazily when marked stale.

# Basic Usage

Each worker goroutine registers a slot and releases it on exit:

	acc := slotpool.NewCollect[int]()

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
	    wg.Add(1)
	    go func() {
	        defer wg.Done()
	        acc.Run(func(n *int) {
	            for j := 0; j < perWorker; j++ {
	                *n++
	            }
	        })
	    }()
	}
	wg.Wait()

	total := 0
	for _, n := range acc.Gather() {
	    total += n
	}

# Shared Pools

Pools obtained through SharedSplit, SharedCollect, SharedSplitter and
SharedReplicate are process-wide singletons keyed by payload type and a
tag string. Every call with the same type and tag returns the same pool,
so independent packages can contribute to one aggregate without passing
handles around. Distinct tags over the same payload type never share
slots or backing storage.

# Replication

	cfg := slotpool.NewReplicate(Config{Rate: 1})

	// reader goroutine
	rd := cfg.Reader()
	defer rd.Release()
	for work := range jobs {
	    c := rd.Get() // lock-free unless a write happened since last Get
	    process(work, c)
	}

	// coordinator
	cfg.Write(Config{Rate: 2}) // every reader's next Get observes Rate == 2

# Concurrency Model

Registration, release, drain, reset, sort, write and mutating iteration
serialize on the pool's lock. A slot's payload is owned exclusively by the
registering goroutine between those operations, which is what makes the
per-access path lock-free. Read-only iteration (ForEachRead) and stale-copy
refreshes take a shared lock so they never serialize against each other.

There is no cancellation or timeout anywhere in the core: every critical
section is pointer-list manipulation, so blocking is bounded by contention
only.
*/
package slotpool
