// Package bind lowers parse trees into declarations and classified accesses
// for the usage tracker. Field occurrences resolve by name against a
// whole-program index; parameters are analyzed per callable body.
package bind

import (
	"sync"

	"github.com/relict-dev/relict/internal/usage"
	"github.com/relict-dev/relict/pkg/parser"
)

// Index maps declaration names to every known field id sharing that name.
// It is safe for concurrent use during the declare phase.
type Index struct {
	mu     sync.RWMutex
	byName map[string][]usage.DeclID
}

func NewIndex() *Index {
	return &Index{byName: make(map[string][]usage.DeclID)}
}

// Add registers a candidate id for name. Duplicate ids (the same binding
// declared from two source units) are collapsed.
func (ix *Index) Add(name string, id usage.DeclID) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	for _, existing := range ix.byName[name] {
		if existing == id {
			return
		}
	}
	ix.byName[name] = append(ix.byName[name], id)
}

// Candidates returns the ids declared under name, or nil when the name is
// not a known field.
func (ix *Index) Candidates(name string) []usage.DeclID {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.byName[name]
}

// DeclareFields extracts the file's field declarations, filters them through
// the policy, and registers the survivors with the shared tracker and index.
// It returns how many declarations were registered.
func DeclareFields(result *parser.ParseResult, policy usage.Policy, tracker *usage.Tracker, ix *Index) int {
	n := 0
	for _, decl := range fieldDecls(result) {
		if policy != nil && !policy.ShouldTrack(decl) {
			continue
		}
		id := tracker.Declare(decl)
		ix.Add(decl.Name, id)
		n++
	}
	return n
}

// RecordFieldAccesses classifies every identifier occurrence in the file
// against the index and feeds the results to the tracker. Callers bracket
// the access phase with tracker.AddProducer and tracker.Done.
func RecordFieldAccesses(result *parser.ParseResult, ix *Index, tracker *usage.Tracker) {
	recordFieldAccesses(result, ix, tracker)
}

// AnalyzeParams analyzes every callable in the file independently and
// returns the parameters that are never read in their own body.
func AnalyzeParams(result *parser.ParseResult, policy usage.Policy) []usage.Declaration {
	var out []usage.Declaration
	for _, c := range collectCallables(result) {
		out = append(out, analyzeCallableParams(c, result, policy)...)
	}
	return out
}
