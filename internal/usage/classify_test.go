package usage

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		ctx  AccessContext
		want Role
	}{
		{"right of simple assignment reads", CtxAssignSource, RoleRead},
		{"left of simple assignment writes only", CtxAssignTargetSimple, RoleWriteOnly},
		{"left of compound assignment reads and writes", CtxAssignTargetCompound, RoleReadWrite},
		{"increment/decrement reads and writes", CtxIncDec, RoleReadWrite},
		{"output argument writes only", CtxOutArgument, RoleWriteOnly},
		{"everything else reads", CtxOther, RoleRead},
		{"unrecognized shape degrades to read", AccessContext(200), RoleRead},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.ctx); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.ctx, got, tt.want)
			}
		})
	}
}

func TestRoleFlags(t *testing.T) {
	if !RoleRead.Reads() || RoleRead.Writes() {
		t.Error("RoleRead should read and not write")
	}
	if RoleWriteOnly.Reads() || !RoleWriteOnly.Writes() {
		t.Error("RoleWriteOnly should write and not read")
	}
	if !RoleReadWrite.Reads() || !RoleReadWrite.Writes() {
		t.Error("RoleReadWrite should read and write")
	}
}

func TestUsageRecordMergeIsMonotonic(t *testing.T) {
	var rec UsageRecord

	rec.Merge(RoleWriteOnly)
	if rec.HasRead {
		t.Fatal("write-only merge must not set HasRead")
	}
	if !rec.HasWrite {
		t.Fatal("write-only merge must set HasWrite")
	}

	rec.Merge(RoleRead)
	if !rec.HasRead || !rec.HasWrite {
		t.Fatal("bits must accumulate")
	}

	// No later merge can clear a bit.
	rec.Merge(RoleWriteOnly)
	if !rec.HasRead {
		t.Fatal("HasRead was cleared by a later write")
	}
}
