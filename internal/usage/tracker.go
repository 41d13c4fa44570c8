package usage

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/RoaringBitmap/roaring/v2"
)

// ErrActiveProducers is returned by Finalize when producers are still
// registered. A report computed before all producers finish would be
// silently incomplete, which is worse than no report.
var ErrActiveProducers = errors.New("usage: finalize called while producers are active")

// DeclID is a content-independent identity assigned to a declaration at
// first sight. Zero is never a valid id.
type DeclID uint32

// Stats counts recovered malformed input for internal diagnostics. These
// conditions are never surfaced to callers as errors.
type Stats struct {
	// DroppedOccurrences counts accesses recorded against ids unknown to
	// this tracker instance.
	DroppedOccurrences uint64

	// ConflictingDecls counts re-registrations of a known binding with a
	// different kind; the second registration is ignored.
	ConflictingDecls uint64
}

// Tracker owns the declared and used sets for one analysis run. A
// whole-program instance is safe under concurrent Declare/RecordAccess from
// per-unit workers; a single-body instance is typically confined to one
// worker and pays only the uncontended lock.
//
// Read and write bits are kept in Roaring bitmaps keyed by declaration id,
// so aggregation is an idempotent, commutative OR regardless of delivery
// order.
type Tracker struct {
	mu        sync.Mutex
	ids       map[string]DeclID
	decls     []Declaration // side table, id-1 indexed
	readBits  *roaring.Bitmap
	writeBits *roaring.Bitmap

	producers atomic.Int64
	dropped   atomic.Uint64
	conflicts atomic.Uint64
}

// NewTracker creates an empty tracker. Both backing sets start empty; no
// state persists between runs.
func NewTracker() *Tracker {
	return &Tracker{
		ids:       make(map[string]DeclID),
		readBits:  roaring.New(),
		writeBits: roaring.New(),
	}
}

// AddProducer registers one event producer (typically one source unit
// worker). Finalize rejects calls made while any producer is outstanding.
func (t *Tracker) AddProducer() {
	t.producers.Add(1)
}

// Done marks one producer as finished.
func (t *Tracker) Done() {
	t.producers.Add(-1)
}

// Declare registers a declaration and returns its id. Idempotent: declaring
// the same binding key again returns the existing id and keeps the first
// location (first-writer-wins). A re-registration with a conflicting kind is
// ignored and counted.
func (t *Tracker) Declare(d Declaration) DeclID {
	t.mu.Lock()
	defer t.mu.Unlock()

	if id, ok := t.ids[d.Key]; ok {
		if t.decls[id-1].Kind != d.Kind {
			t.conflicts.Add(1)
		}
		return id
	}

	id := DeclID(len(t.decls) + 1)
	t.ids[d.Key] = id
	t.decls = append(t.decls, d)
	return id
}

// Lookup returns the id for a binding key, if it was declared.
func (t *Tracker) Lookup(key string) (DeclID, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id, ok := t.ids[key]
	return id, ok
}

// RecordAccess classifies the occurrence and ORs its role into the usage
// record. An unknown id is a no-op, not an error: it guards against
// mismatched scope wiring and is counted in Stats.
func (t *Tracker) RecordAccess(id DeclID, ctx AccessContext) {
	role := Classify(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()

	if id == 0 || int(id) > len(t.decls) {
		t.dropped.Add(1)
		return
	}
	if role.Reads() {
		t.readBits.Add(uint32(id))
	}
	if role.Writes() {
		t.writeBits.Add(uint32(id))
	}
}

// Record is the combined declare-if-needed access path used by tests and
// simple callers: it resolves key to an id and records the access.
func (t *Tracker) Record(key string, ctx AccessContext) {
	id, ok := t.Lookup(key)
	if !ok {
		t.dropped.Add(1)
		return
	}
	t.RecordAccess(id, ctx)
}

// Finalize sweeps declared-minus-read and returns the unused declarations
// in a stable order: source location first, declaration id as tiebreaker.
// It must not run until every producer has called Done; a violation is a
// caller contract error and is rejected loudly.
func (t *Tracker) Finalize() ([]Declaration, error) {
	if n := t.producers.Load(); n != 0 {
		return nil, fmt.Errorf("%w: %d outstanding", ErrActiveProducers, n)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	type entry struct {
		d  Declaration
		id DeclID
	}

	unused := make([]entry, 0)
	for i, d := range t.decls {
		id := DeclID(i + 1)
		if !t.readBits.Contains(uint32(id)) {
			unused = append(unused, entry{d: d, id: id})
		}
	}

	sort.Slice(unused, func(i, j int) bool {
		li, lj := unused[i].d.Location, unused[j].d.Location
		if li != lj {
			return li.Before(lj)
		}
		return unused[i].id < unused[j].id
	})

	out := make([]Declaration, len(unused))
	for i, e := range unused {
		e.d.Written = t.writeBits.Contains(uint32(e.id))
		out[i] = e.d
	}
	return out, nil
}

// Usage returns the aggregated record for a declaration id. Unknown ids
// return the zero record. The record only ever gains bits.
func (t *Tracker) Usage(id DeclID) UsageRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	return UsageRecord{
		HasRead:  t.readBits.Contains(uint32(id)),
		HasWrite: t.writeBits.Contains(uint32(id)),
	}
}

// DeclCount returns the number of distinct declarations seen so far.
func (t *Tracker) DeclCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.decls)
}

// Stats returns a snapshot of the malformed-input counters.
func (t *Tracker) Stats() Stats {
	return Stats{
		DroppedOccurrences: t.dropped.Load(),
		ConflictingDecls:   t.conflicts.Load(),
	}
}
