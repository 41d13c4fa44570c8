package usage

// Classify maps a syntactic shape to the role the occurrence plays. It is
// total over AccessContext and has no error path: unrecognized shapes fall
// through to RoleRead, so unknown syntax degrades toward under-reporting
// dead writes rather than producing false positives.
//
// The write-only shapes form a small closed set; everything else reads.
func Classify(ctx AccessContext) Role {
	switch ctx {
	case CtxAssignSource:
		return RoleRead
	case CtxAssignTargetSimple:
		return RoleWriteOnly
	case CtxAssignTargetCompound:
		return RoleReadWrite
	case CtxIncDec:
		return RoleReadWrite
	case CtxOutArgument:
		return RoleWriteOnly
	default:
		return RoleRead
	}
}
