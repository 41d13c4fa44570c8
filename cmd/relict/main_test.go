package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/relict-dev/relict/pkg/config"
	"github.com/relict-dev/relict/pkg/models"
)

// TestGetPaths verifies path handling from CLI arguments.
func TestGetPaths(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "no args defaults to current dir",
			args:     []string{},
			expected: []string{"."},
		},
		{
			name:     "single path",
			args:     []string{"/foo/bar"},
			expected: []string{"/foo/bar"},
		},
		{
			name:     "multiple paths",
			args:     []string{"/foo", "/bar"},
			expected: []string{"/foo", "/bar"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := &cli.App{
				Action: func(c *cli.Context) error {
					result := getPaths(c)
					if len(result) != len(tt.expected) {
						t.Errorf("getPaths() = %v, want %v", result, tt.expected)
						return nil
					}
					for i := range result {
						if result[i] != tt.expected[i] {
							t.Errorf("getPaths()[%d] = %q, want %q", i, result[i], tt.expected[i])
						}
					}
					return nil
				},
			}
			args := append([]string{"test"}, tt.args...)
			_ = app.Run(args)
		})
	}
}

func TestFindingRow(t *testing.T) {
	d := models.UnusedDeclaration{
		Name:   "_count",
		Kind:   "field",
		File:   "src/Counter.cs",
		Line:   4,
		Column: 17,
	}

	row := findingRow(d)
	if row[0] != "src/Counter.cs:4:17" {
		t.Errorf("location = %q", row[0])
	}
	if row[3] != "never accessed" {
		t.Errorf("status = %q, want never accessed", row[3])
	}

	d.WriteOnly = true
	row = findingRow(d)
	if row[3] != "write-only" {
		t.Errorf("status = %q, want write-only", row[3])
	}
}

func TestUnusedRenderableText(t *testing.T) {
	summary := models.NewUnusedSummary()
	report := &models.UnusedReport{
		Fields: []models.UnusedDeclaration{
			{Name: "_orphan", Kind: "field", File: "a.cs", Line: 3, Column: 5},
		},
		Parameters: []models.UnusedDeclaration{
			{Name: "unused", Kind: "parameter", File: "b.go", Line: 7, Column: 12},
		},
		Summary: summary,
	}
	report.Summary.TotalFilesAnalyzed = 2
	report.Summary.TotalFields = 1
	report.Summary.TotalParameters = 1

	r := &unusedRenderable{report: report}

	var buf bytes.Buffer
	if err := r.RenderText(&buf, false); err != nil {
		t.Fatalf("RenderText() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Unused Fields", "Unused Parameters", "_orphan", "unused", "Summary"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestUnusedRenderableEmptyReportHasNoFindingTables(t *testing.T) {
	report := &models.UnusedReport{Summary: models.NewUnusedSummary()}
	r := &unusedRenderable{report: report}

	if got := r.tables(); len(got) != 0 {
		t.Errorf("tables() returned %d tables for empty report", len(got))
	}
}

func TestSummaryTableSkippedRow(t *testing.T) {
	report := &models.UnusedReport{Summary: models.NewUnusedSummary()}
	r := &unusedRenderable{report: report}

	var buf bytes.Buffer
	if err := r.summaryTable().RenderText(&buf, false); err != nil {
		t.Fatalf("RenderText() error = %v", err)
	}
	if strings.Contains(buf.String(), "Files skipped") {
		t.Error("skipped row rendered with zero skips")
	}

	report.Summary.SkippedFiles = 3
	buf.Reset()
	if err := r.summaryTable().RenderText(&buf, false); err != nil {
		t.Fatalf("RenderText() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Files skipped") {
		t.Error("skipped row missing")
	}
}

// TestGenerateDefaultConfigRoundTrip ensures the init template loads back
// cleanly, including schema validation.
func TestGenerateDefaultConfigRoundTrip(t *testing.T) {
	content, err := generateDefaultConfig()
	if err != nil {
		t.Fatalf("generateDefaultConfig() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "relict.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	defaults := config.DefaultConfig()
	if cfg.Analysis.Fields != defaults.Analysis.Fields {
		t.Errorf("Analysis.Fields = %v, want %v", cfg.Analysis.Fields, defaults.Analysis.Fields)
	}
	if cfg.Output.Format != defaults.Output.Format {
		t.Errorf("Output.Format = %q, want %q", cfg.Output.Format, defaults.Output.Format)
	}
}

func TestLoadConfigFlagWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	if err := os.WriteFile(path, []byte("[analysis]\nfields = false\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	app := &cli.App{
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				t.Fatalf("loadConfig() error = %v", err)
			}
			if cfg.Analysis.Fields {
				t.Error("Analysis.Fields = true, want false from file")
			}
			return nil
		},
	}
	if err := app.Run([]string{"test", "-c", path}); err != nil {
		t.Fatal(err)
	}
}
