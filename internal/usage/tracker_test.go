package usage

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
)

func fieldDecl(key, file string, line uint32) Declaration {
	return Declaration{
		Key:      key,
		Name:     key,
		Kind:     KindField,
		Scope:    ScopeWholeProgram,
		Location: Location{File: file, Line: line, Column: 1},
	}
}

func finalizeOK(t *testing.T, tr *Tracker) []Declaration {
	t.Helper()
	unused, err := tr.Finalize()
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	return unused
}

func TestDeclareIsIdempotent(t *testing.T) {
	tr := NewTracker()

	first := tr.Declare(fieldDecl("a", "f.cs", 3))
	second := tr.Declare(fieldDecl("a", "other.cs", 99))

	if first != second {
		t.Fatalf("Declare returned different ids for the same key: %v vs %v", first, second)
	}
	if tr.DeclCount() != 1 {
		t.Fatalf("DeclCount = %d, want 1", tr.DeclCount())
	}

	unused := finalizeOK(t, tr)
	if len(unused) != 1 {
		t.Fatalf("len(unused) = %d, want 1", len(unused))
	}
	// First-writer-wins location capture.
	if unused[0].Location.File != "f.cs" {
		t.Errorf("location = %v, want first registration's", unused[0].Location)
	}
}

func TestConflictingKindIsIgnoredAndCounted(t *testing.T) {
	tr := NewTracker()

	tr.Declare(fieldDecl("a", "f.cs", 1))
	d := fieldDecl("a", "f.cs", 1)
	d.Kind = KindParameter
	tr.Declare(d)

	if got := tr.Stats().ConflictingDecls; got != 1 {
		t.Errorf("ConflictingDecls = %d, want 1", got)
	}
	unused := finalizeOK(t, tr)
	if len(unused) != 1 || unused[0].Kind != KindField {
		t.Errorf("first registration must win, got %+v", unused)
	}
}

func TestWriteOnlyDeclarationsAreReported(t *testing.T) {
	tr := NewTracker()

	id := tr.Declare(fieldDecl("written", "f.cs", 1))

	// Three simple assignments, never a read.
	tr.RecordAccess(id, CtxAssignTargetSimple)
	tr.RecordAccess(id, CtxAssignTargetSimple)
	tr.RecordAccess(id, CtxAssignTargetSimple)

	unused := finalizeOK(t, tr)
	if len(unused) != 1 {
		t.Fatalf("write-only field not reported: %+v", unused)
	}
	if !unused[0].Written {
		t.Error("expected the returned copy to be marked written")
	}
}

func TestIncrementRecordsARead(t *testing.T) {
	tr := NewTracker()

	id := tr.Declare(fieldDecl("counter", "f.cs", 1))
	tr.RecordAccess(id, CtxIncDec)
	tr.RecordAccess(id, CtxOutArgument)

	// CtxIncDec classifies as ReadWrite, which sets the read bit.
	unused := finalizeOK(t, tr)
	if len(unused) != 0 {
		t.Fatalf("increment records a read, declaration must not be reported: %+v", unused)
	}
}

func TestUsageAggregatesMonotonically(t *testing.T) {
	tr := NewTracker()

	id := tr.Declare(fieldDecl("total", "f.cs", 1))
	if rec := tr.Usage(id); rec.HasRead || rec.HasWrite {
		t.Fatalf("fresh declaration has usage bits: %+v", rec)
	}

	tr.RecordAccess(id, CtxAssignTargetSimple)
	if rec := tr.Usage(id); rec.HasRead || !rec.HasWrite {
		t.Fatalf("after write: %+v, want write only", rec)
	}

	tr.RecordAccess(id, CtxAssignSource)
	if rec := tr.Usage(id); !rec.HasRead || !rec.HasWrite {
		t.Fatalf("after read: %+v, want both bits", rec)
	}

	// A later write-only occurrence cannot clear the read bit.
	tr.RecordAccess(id, CtxAssignTargetSimple)
	if rec := tr.Usage(id); !rec.HasRead || !rec.HasWrite {
		t.Fatalf("bits regressed: %+v", rec)
	}
}

func TestReadRemovesFromReport(t *testing.T) {
	tr := NewTracker()

	a := tr.Declare(fieldDecl("a", "f.cs", 1))
	b := tr.Declare(fieldDecl("b", "f.cs", 2))

	tr.RecordAccess(a, CtxAssignSource)
	tr.RecordAccess(b, CtxAssignTargetSimple)

	unused := finalizeOK(t, tr)
	if len(unused) != 1 || unused[0].Name != "b" {
		t.Fatalf("unused = %+v, want only b", unused)
	}

	// Monotonicity: once read, later writes cannot re-add it.
	tr.RecordAccess(a, CtxAssignTargetSimple)
	unused = finalizeOK(t, tr)
	if len(unused) != 1 || unused[0].Name != "b" {
		t.Fatalf("a re-added after write: %+v", unused)
	}
}

func TestUnknownIDIsDroppedNotFatal(t *testing.T) {
	tr := NewTracker()
	tr.Declare(fieldDecl("a", "f.cs", 1))

	tr.RecordAccess(DeclID(0), CtxOther)
	tr.RecordAccess(DeclID(42), CtxOther)
	tr.Record("never-declared", CtxOther)

	if got := tr.Stats().DroppedOccurrences; got != 3 {
		t.Errorf("DroppedOccurrences = %d, want 3", got)
	}
	unused := finalizeOK(t, tr)
	if len(unused) != 1 {
		t.Errorf("dropped occurrences must not affect the report: %+v", unused)
	}
}

func TestFinalizeRejectsActiveProducers(t *testing.T) {
	tr := NewTracker()
	tr.Declare(fieldDecl("a", "f.cs", 1))

	tr.AddProducer()
	if _, err := tr.Finalize(); !errors.Is(err, ErrActiveProducers) {
		t.Fatalf("Finalize with active producer: err = %v, want ErrActiveProducers", err)
	}

	tr.Done()
	if _, err := tr.Finalize(); err != nil {
		t.Fatalf("Finalize after Done: err = %v", err)
	}
}

func TestFinalizeOrderIsDeterministic(t *testing.T) {
	// Build the same event set, deliver it in random order from racing
	// goroutines, and require an identical report every time.
	decls := make([]Declaration, 0, 50)
	for i := range 50 {
		decls = append(decls, fieldDecl(
			fmt.Sprintf("k%02d", i),
			fmt.Sprintf("file%d.cs", i%5),
			uint32(100-i),
		))
	}

	var want []Declaration
	for run := range 10 {
		tr := NewTracker()

		order := rand.New(rand.NewSource(int64(run))).Perm(len(decls))

		var wg sync.WaitGroup
		for w := range 4 {
			tr.AddProducer()
			wg.Add(1)
			go func(worker int) {
				defer wg.Done()
				defer tr.Done()
				for j, idx := range order {
					if j%4 != worker {
						continue
					}
					id := tr.Declare(decls[idx])
					if idx%2 == 0 {
						tr.RecordAccess(id, CtxAssignTargetSimple)
					}
					// Odd declarations additionally get a read.
					if idx%2 == 1 {
						tr.RecordAccess(id, CtxOther)
					}
				}
			}(w)
		}
		wg.Wait()

		got := finalizeOK(t, tr)
		if run == 0 {
			want = got
			continue
		}
		if len(got) != len(want) {
			t.Fatalf("run %d: %d unused, want %d", run, len(got), len(want))
		}
		for i := range got {
			if got[i].Key != want[i].Key {
				t.Fatalf("run %d: order diverged at %d: %s vs %s", run, i, got[i].Key, want[i].Key)
			}
		}
	}

	// Sanity: all even-indexed declarations (write-only) are present.
	if len(want) != 25 {
		t.Fatalf("expected 25 unused declarations, got %d", len(want))
	}
	for i := 1; i < len(want); i++ {
		if want[i].Location.Before(want[i-1].Location) {
			t.Fatalf("report not ordered by location at %d", i)
		}
	}
}

func TestScopeIsolation(t *testing.T) {
	// Two single-body trackers for same-named parameters: an access against
	// callable A must never affect callable B's record.
	paramDecl := func(key string) Declaration {
		return Declaration{
			Key: key, Name: "x", Kind: KindParameter, Scope: ScopeSingleBody,
			Location: Location{File: "f.cs", Line: 1, Column: 1}, HasBody: true,
		}
	}

	trA := NewTracker()
	trB := NewTracker()

	idA := trA.Declare(paramDecl("A.x"))
	trB.Declare(paramDecl("B.x"))

	trA.RecordAccess(idA, CtxOther)

	unusedA := finalizeOK(t, trA)
	unusedB := finalizeOK(t, trB)

	if len(unusedA) != 0 {
		t.Errorf("A's parameter was read, must not be reported: %+v", unusedA)
	}
	if len(unusedB) != 1 {
		t.Errorf("B's parameter never read, must be reported: %+v", unusedB)
	}
}
