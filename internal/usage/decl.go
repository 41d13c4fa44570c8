// Package usage implements the declaration-usage engine: it tracks field and
// parameter declarations across source units, classifies every identifier
// occurrence as a read or a write, and reports declarations that are never
// read.
package usage

// DeclKind identifies the kind of a trackable binding.
type DeclKind uint8

const (
	KindField DeclKind = iota
	KindParameter
	KindLocalFuncParameter
	KindLambdaParameter
)

// String returns the report-facing name of the kind.
func (k DeclKind) String() string {
	switch k {
	case KindField:
		return "field"
	case KindParameter:
		return "parameter"
	case KindLocalFuncParameter:
		return "local function parameter"
	case KindLambdaParameter:
		return "lambda parameter"
	default:
		return "unknown"
	}
}

// TrackScope selects the collection breadth of a tracker.
type TrackScope uint8

const (
	// ScopeWholeProgram aggregates occurrences across every source unit.
	// Used for fields, which may be referenced far from their declaration.
	ScopeWholeProgram TrackScope = iota

	// ScopeSingleBody confines tracking to one callable's body. Used for
	// parameters; each callable gets its own tracker instance.
	ScopeSingleBody
)

// Accessibility is the declared visibility of a binding.
type Accessibility uint8

const (
	AccessPrivate Accessibility = iota
	AccessInternal
	AccessProtected
	AccessPublic
)

// Location is a primary source span, used for reporting and ordering.
type Location struct {
	File   string
	Line   uint32
	Column uint32
}

// Before reports whether l orders before other (file, then line, then column).
func (l Location) Before(other Location) bool {
	if l.File != other.File {
		return l.File < other.File
	}
	if l.Line != other.Line {
		return l.Line < other.Line
	}
	return l.Column < other.Column
}

// Declaration is an immutable trackable binding site. Two occurrences that
// refer to the same binding must carry equal Keys, even across source units.
type Declaration struct {
	// Key is the stable symbol identity, e.g. "csharp:Ns.Widget:_count".
	Key  string
	Name string
	Kind DeclKind

	Scope    TrackScope
	Location Location

	// SiblingGroup identifies a co-declared group (`private int a, b;`).
	// Preserved as metadata for the edit layer; empty for sole declarators.
	SiblingGroup string

	// Metadata consumed by exemption policies, never by the tracker.
	Accessibility Accessibility
	Synthesized   bool
	Const         bool
	Override      bool
	Implements    bool
	HasBody       bool
	Discard       bool
	Attributed    bool

	// Written reports whether a write was ever recorded against the
	// declaration. Set on the copies Finalize returns; a true value there
	// means assigned but never read.
	Written bool
}
