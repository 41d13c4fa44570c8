package models

import "testing"

func TestComputeFingerprintIsStable(t *testing.T) {
	a := UnusedDeclaration{Name: "_count", Kind: "field", File: "Counter.cs", Line: 3}
	b := UnusedDeclaration{Name: "_count", Kind: "field", File: "Counter.cs", Line: 42}

	a.ComputeFingerprint()
	b.ComputeFingerprint()

	if a.Fingerprint == "" {
		t.Fatal("expected a fingerprint")
	}
	if a.Fingerprint != b.Fingerprint {
		t.Errorf("fingerprint should not depend on line: %s != %s", a.Fingerprint, b.Fingerprint)
	}

	c := UnusedDeclaration{Name: "_count", Kind: "parameter", File: "Counter.cs"}
	c.ComputeFingerprint()
	if c.Fingerprint == a.Fingerprint {
		t.Error("different kinds should fingerprint differently")
	}
}

func TestUnusedSummaryCounts(t *testing.T) {
	s := NewUnusedSummary()
	s.AddField(UnusedDeclaration{Name: "a", File: "x.cs"})
	s.AddField(UnusedDeclaration{Name: "b", File: "x.cs"})
	s.AddParameter(UnusedDeclaration{Name: "p", File: "y.cs"})

	if s.TotalFields != 2 || s.TotalParameters != 1 {
		t.Fatalf("unexpected totals: %+v", s)
	}
	if s.Total() != 3 {
		t.Errorf("Total() = %d, want 3", s.Total())
	}
	if s.ByFile["x.cs"] != 2 || s.ByFile["y.cs"] != 1 {
		t.Errorf("unexpected by-file counts: %v", s.ByFile)
	}
}
