package usage

// Policy decides whether a declaration is eligible for tracking at all.
// Policies are pure predicates over declaration metadata, evaluated before
// Declare; they never inspect occurrences.
type Policy interface {
	ShouldTrack(d Declaration) bool
}

// PolicyFunc adapts a plain function to the Policy interface.
type PolicyFunc func(Declaration) bool

// ShouldTrack implements Policy.
func (f PolicyFunc) ShouldTrack(d Declaration) bool { return f(d) }

// Chain combines policies; a declaration is tracked only when every policy
// accepts it. Order the cheapest checks first.
func Chain(policies ...Policy) Policy {
	return PolicyFunc(func(d Declaration) bool {
		for _, p := range policies {
			if !p.ShouldTrack(d) {
				return false
			}
		}
		return true
	})
}

// ExemptNames excludes declarations by exact name, regardless of kind.
// Intended for Chain alongside a kind policy, driven by configuration.
func ExemptNames(names ...string) Policy {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return PolicyFunc(func(d Declaration) bool {
		_, ok := set[d.Name]
		return !ok
	})
}

// FieldPolicy exempts fields the analyzer must not report: anything visible
// outside the declaring type, compiler-synthesized storage, and
// compile-time constants.
type FieldPolicy struct {
	// TrackInternal widens tracking to internal accessibility. Off by
	// default: internal fields can be referenced from sources outside the
	// analyzed set.
	TrackInternal bool
}

// ShouldTrack implements Policy.
func (p FieldPolicy) ShouldTrack(d Declaration) bool {
	switch d.Accessibility {
	case AccessPrivate:
	case AccessInternal:
		if !p.TrackInternal {
			return false
		}
	default:
		return false
	}
	if d.Synthesized || d.Const {
		return false
	}
	return true
}

// ParamPolicy exempts parameters whose signature must structurally match an
// external contract, parameters with no body to analyze, discards, and
// attributed parameters (potentially consumed by a mechanism the analyzer
// cannot see).
type ParamPolicy struct {
	// TrackAttributed includes parameters carrying attributes/annotations.
	// Off by default.
	TrackAttributed bool
}

// ShouldTrack implements Policy.
func (p ParamPolicy) ShouldTrack(d Declaration) bool {
	if !d.HasBody {
		return false
	}
	if d.Override || d.Implements {
		return false
	}
	if d.Discard {
		return false
	}
	if d.Attributed && !p.TrackAttributed {
		return false
	}
	return true
}
