package analyzer

import (
	"context"
	"fmt"
	"sort"

	"github.com/relict-dev/relict/internal/bind"
	"github.com/relict-dev/relict/internal/fileproc"
	"github.com/relict-dev/relict/internal/usage"
	"github.com/relict-dev/relict/pkg/models"
	"github.com/relict-dev/relict/pkg/parser"
)

// UnusedAnalyzer detects fields and parameters that are never read.
// Fields aggregate across the whole file set before the verdict; parameters
// are judged inside their own callable body.
type UnusedAnalyzer struct {
	fieldPolicy usage.Policy
	paramPolicy usage.Policy

	fields  bool
	params  bool
	workers int
}

// NewUnusedAnalyzer creates an analyzer with both detectors enabled and
// default policies.
func NewUnusedAnalyzer() *UnusedAnalyzer {
	return &UnusedAnalyzer{
		fieldPolicy: usage.FieldPolicy{},
		paramPolicy: usage.ParamPolicy{},
		fields:      true,
		params:      true,
	}
}

// WithFieldPolicy replaces the field exemption policy. Chain policies to
// stack extra exemptions on top of usage.FieldPolicy.
func (a *UnusedAnalyzer) WithFieldPolicy(p usage.Policy) *UnusedAnalyzer {
	a.fieldPolicy = p
	return a
}

// WithParamPolicy replaces the parameter exemption policy.
func (a *UnusedAnalyzer) WithParamPolicy(p usage.Policy) *UnusedAnalyzer {
	a.paramPolicy = p
	return a
}

// WithFields toggles field analysis.
func (a *UnusedAnalyzer) WithFields(enabled bool) *UnusedAnalyzer {
	a.fields = enabled
	return a
}

// WithParameters toggles parameter analysis.
func (a *UnusedAnalyzer) WithParameters(enabled bool) *UnusedAnalyzer {
	a.params = enabled
	return a
}

// WithWorkers caps the worker pool; <= 0 uses the fileproc default.
func (a *UnusedAnalyzer) WithWorkers(n int) *UnusedAnalyzer {
	a.workers = n
	return a
}

// Passes returns how many passes over the file set a run makes. Field
// analysis needs a declare pass before the access pass; parameters ride
// along on the access pass.
func (a *UnusedAnalyzer) Passes() int {
	if a.fields {
		return 2
	}
	if a.params {
		return 1
	}
	return 0
}

// AnalyzeProject analyzes the given files.
func (a *UnusedAnalyzer) AnalyzeProject(ctx context.Context, files []string) (*models.UnusedReport, error) {
	return a.AnalyzeProjectWithProgress(ctx, files, nil)
}

// AnalyzeProjectWithProgress analyzes with an optional progress callback,
// invoked once per file per pass (Passes() * len(files) ticks).
//
// Phase 1: parse every file and declare its trackable fields.
// Phase 2: parse again, classify every occurrence against the declared
// set, and analyze each callable's parameters in isolation.
// Phase 3: finalize the whole-program tracker and assemble the report.
//
// Files that fail to parse are skipped; their errors never abort the run.
func (a *UnusedAnalyzer) AnalyzeProjectWithProgress(ctx context.Context, files []string, onProgress fileproc.ProgressFunc) (*models.UnusedReport, error) {
	report := &models.UnusedReport{
		Fields:     make([]models.UnusedDeclaration, 0),
		Parameters: make([]models.UnusedDeclaration, 0),
		Summary:    models.NewUnusedSummary(),
	}

	if len(files) == 0 || (!a.fields && !a.params) {
		return report, nil
	}

	tracker := usage.NewTracker()
	ix := bind.NewIndex()

	if a.fields {
		counts, errs := fileproc.MapFilesWithContextN(ctx, files, a.workers, func(psr *parser.Parser, path string) (int, error) {
			result, err := psr.ParseFile(path)
			if err != nil {
				return 0, err
			}
			return bind.DeclareFields(result, a.fieldPolicy, tracker, ix), nil
		}, onProgress)
		_ = errs // unparseable files are skipped, counted below
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("analysis cancelled: %w", err)
		}
		report.Summary.TotalFilesAnalyzed = len(counts)
		report.Summary.SkippedFiles = len(files) - len(counts)
	}

	type fileFindings struct {
		params []usage.Declaration
	}

	findings, errs := fileproc.MapFilesWithContextN(ctx, files, a.workers, func(psr *parser.Parser, path string) (fileFindings, error) {
		result, err := psr.ParseFile(path)
		if err != nil {
			return fileFindings{}, err
		}

		if a.fields {
			tracker.AddProducer()
			bind.RecordFieldAccesses(result, ix, tracker)
			tracker.Done()
		}

		var f fileFindings
		if a.params {
			f.params = bind.AnalyzeParams(result, a.paramPolicy)
		}
		return f, nil
	}, onProgress)
	_ = errs
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis cancelled: %w", err)
	}
	if !a.fields {
		report.Summary.TotalFilesAnalyzed = len(findings)
		report.Summary.SkippedFiles = len(files) - len(findings)
	}

	if a.fields {
		unusedFields, err := tracker.Finalize()
		if err != nil {
			return nil, fmt.Errorf("finalizing field usage: %w", err)
		}
		for _, d := range unusedFields {
			m := toModel(d)
			report.Fields = append(report.Fields, m)
			report.Summary.AddField(m)
		}

		stats := tracker.Stats()
		report.Summary.DroppedOccurrences = stats.DroppedOccurrences
		report.Summary.ConflictingBindings = stats.ConflictingDecls
	}

	if a.params {
		var all []usage.Declaration
		for _, f := range findings {
			all = append(all, f.params...)
		}
		sort.Slice(all, func(i, j int) bool {
			li, lj := all[i].Location, all[j].Location
			if li != lj {
				return li.Before(lj)
			}
			return all[i].Name < all[j].Name
		})
		for _, d := range all {
			m := toModel(d)
			report.Parameters = append(report.Parameters, m)
			report.Summary.AddParameter(m)
		}
	}

	return report, nil
}

func toModel(d usage.Declaration) models.UnusedDeclaration {
	m := models.UnusedDeclaration{
		Name:         d.Name,
		Kind:         d.Kind.String(),
		File:         d.Location.File,
		Line:         int(d.Location.Line),
		Column:       int(d.Location.Column),
		SiblingGroup: d.SiblingGroup,
		WriteOnly:    d.Written,
	}
	m.ComputeFingerprint()
	return m
}
