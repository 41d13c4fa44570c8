package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/relict-dev/relict/internal/output"
	"github.com/relict-dev/relict/pkg/models"
)

// unusedRenderable adapts an analysis report to every output format the
// formatter knows, SARIF included.
type unusedRenderable struct {
	report      *models.UnusedReport
	projectRoot string
}

func (r *unusedRenderable) RenderData() any {
	return r.report
}

func (r *unusedRenderable) RenderSARIF(w io.Writer) error {
	return output.WriteSARIF(w, r.report, r.projectRoot, version)
}

func (r *unusedRenderable) RenderText(w io.Writer, colored bool) error {
	return r.asReport().RenderText(w, colored)
}

func (r *unusedRenderable) RenderMarkdown(w io.Writer) error {
	return r.asReport().RenderMarkdown(w)
}

func (r *unusedRenderable) asReport() *output.Report {
	var sections []output.Renderable
	for _, t := range r.tables() {
		sections = append(sections, t)
	}
	sections = append(sections, r.summaryTable())
	return &output.Report{Sections: sections}
}

func (r *unusedRenderable) tables() []*output.Table {
	var tables []*output.Table

	if len(r.report.Fields) > 0 {
		rows := make([][]string, 0, len(r.report.Fields))
		for _, d := range r.report.Fields {
			rows = append(rows, findingRow(d))
		}
		tables = append(tables, output.NewTable("Unused Fields", findingHeaders(), rows, nil, nil))
	}

	if len(r.report.Parameters) > 0 {
		rows := make([][]string, 0, len(r.report.Parameters))
		for _, d := range r.report.Parameters {
			rows = append(rows, findingRow(d))
		}
		tables = append(tables, output.NewTable("Unused Parameters", findingHeaders(), rows, nil, nil))
	}

	return tables
}

func (r *unusedRenderable) summaryTable() *output.Table {
	s := r.report.Summary
	rows := [][]string{
		{"Files analyzed", strconv.Itoa(s.TotalFilesAnalyzed)},
		{"Unused fields", strconv.Itoa(s.TotalFields)},
		{"Unused parameters", strconv.Itoa(s.TotalParameters)},
	}
	if s.SkippedFiles > 0 {
		rows = append(rows, []string{"Files skipped", strconv.Itoa(s.SkippedFiles)})
	}
	return output.NewTable("Summary", []string{"Metric", "Value"}, rows, nil, nil)
}

func findingHeaders() []string {
	return []string{"Location", "Name", "Kind", "Status"}
}

func findingRow(d models.UnusedDeclaration) []string {
	status := "never accessed"
	if d.WriteOnly {
		status = "write-only"
	}
	return []string{
		fmt.Sprintf("%s:%d:%d", d.File, d.Line, d.Column),
		d.Name,
		d.Kind,
		status,
	}
}
