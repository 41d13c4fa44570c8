package usage

// Role is the read/write classification of one occurrence.
type Role uint8

const (
	RoleRead Role = iota
	RoleWriteOnly
	RoleReadWrite
)

// Reads reports whether the role consumes the declared value.
func (r Role) Reads() bool {
	return r == RoleRead || r == RoleReadWrite
}

// Writes reports whether the role stores into the declaration.
func (r Role) Writes() bool {
	return r == RoleWriteOnly || r == RoleReadWrite
}

// String returns a diagnostic name for the role.
func (r Role) String() string {
	switch r {
	case RoleRead:
		return "read"
	case RoleWriteOnly:
		return "write-only"
	case RoleReadWrite:
		return "read-write"
	default:
		return "unknown"
	}
}

// UsageRecord is the aggregated role history for one declaration. Merging is
// a monotonic boolean OR, so update order is commutative.
type UsageRecord struct {
	HasRead  bool
	HasWrite bool
}

// Merge folds one occurrence role into the record.
func (u *UsageRecord) Merge(r Role) {
	u.HasRead = u.HasRead || r.Reads()
	u.HasWrite = u.HasWrite || r.Writes()
}
