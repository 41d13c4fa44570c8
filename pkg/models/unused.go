package models

import (
	"fmt"

	"github.com/zeebo/blake3"
)

// UnusedDeclaration represents a field or parameter that is never read.
type UnusedDeclaration struct {
	Name         string `json:"name"`
	Kind         string `json:"kind"` // field, parameter, local function parameter, lambda parameter
	File         string `json:"file"`
	Line         int    `json:"line"`
	Column       int    `json:"column"`
	SiblingGroup string `json:"sibling_group,omitempty"` // shared by declarators of one statement
	WriteOnly    bool   `json:"write_only"`              // assigned somewhere but never read
	Fingerprint  string `json:"fingerprint"`             // stable id for suppression and SARIF
}

// ComputeFingerprint derives the stable identity of the finding from its
// binding, not its position, so renames of unrelated code do not churn
// suppressions.
func (d *UnusedDeclaration) ComputeFingerprint() {
	h := blake3.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s", d.Kind, d.File, d.Name)
	sum := h.Sum(nil)
	d.Fingerprint = fmt.Sprintf("%x", sum[:8])
}

// UnusedReport is the full result of an unused-declaration analysis run.
type UnusedReport struct {
	Fields     []UnusedDeclaration `json:"fields"`
	Parameters []UnusedDeclaration `json:"parameters"`
	Summary    UnusedSummary       `json:"summary"`
}

// UnusedSummary provides aggregate statistics.
type UnusedSummary struct {
	TotalFields         int            `json:"total_fields"`
	TotalParameters     int            `json:"total_parameters"`
	ByFile              map[string]int `json:"by_file"`
	TotalFilesAnalyzed  int            `json:"total_files_analyzed"`
	SkippedFiles        int            `json:"skipped_files,omitempty"`
	DroppedOccurrences  uint64         `json:"dropped_occurrences,omitempty"`
	ConflictingBindings uint64         `json:"conflicting_bindings,omitempty"`
}

// NewUnusedSummary creates an initialized summary.
func NewUnusedSummary() UnusedSummary {
	return UnusedSummary{
		ByFile: make(map[string]int),
	}
}

// AddField updates the summary with an unused field.
func (s *UnusedSummary) AddField(d UnusedDeclaration) {
	s.TotalFields++
	s.ByFile[d.File]++
}

// AddParameter updates the summary with an unused parameter.
func (s *UnusedSummary) AddParameter(d UnusedDeclaration) {
	s.TotalParameters++
	s.ByFile[d.File]++
}

// Total returns the combined finding count.
func (s *UnusedSummary) Total() int {
	return s.TotalFields + s.TotalParameters
}
