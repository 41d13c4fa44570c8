package usage

// AccessContext describes the immediate syntactic shape of one identifier
// occurrence. The set is closed: front-ends fold every shape they cannot
// name into CtxOther, which classifies as a read.
type AccessContext uint8

const (
	// CtxOther is every shape not listed below: member-access receivers,
	// call arguments, interpolation operands, closure captures, predicate
	// membership, initializer values. The open-ended "definitely a read"
	// set.
	CtxOther AccessContext = iota

	// CtxAssignSource is the right operand of a simple assignment.
	CtxAssignSource

	// CtxAssignTargetSimple is the left operand of a simple assignment.
	CtxAssignTargetSimple

	// CtxAssignTargetCompound is the left operand of a compound assignment
	// such as `+=`.
	CtxAssignTargetCompound

	// CtxIncDec is the operand of a prefix or postfix increment/decrement.
	CtxIncDec

	// CtxOutArgument is an argument bound to an output-only parameter
	// position: the call produces the value, it does not consume it.
	CtxOutArgument
)

// String returns a diagnostic name for the context.
func (c AccessContext) String() string {
	switch c {
	case CtxAssignSource:
		return "assign-source"
	case CtxAssignTargetSimple:
		return "assign-target"
	case CtxAssignTargetCompound:
		return "assign-target-compound"
	case CtxIncDec:
		return "inc-dec"
	case CtxOutArgument:
		return "out-argument"
	default:
		return "other"
	}
}
