package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/relict-dev/relict/internal/analyzer"
	"github.com/relict-dev/relict/internal/output"
	"github.com/relict-dev/relict/internal/progress"
	"github.com/relict-dev/relict/internal/scanner"
	"github.com/relict-dev/relict/internal/usage"
	"github.com/relict-dev/relict/pkg/config"
	"github.com/relict-dev/relict/pkg/models"
)

// getPaths returns paths from positional args, defaulting to ["."]
func getPaths(c *cli.Context) []string {
	if c.Args().Len() > 0 {
		return c.Args().Slice()
	}
	return []string{"."}
}

// loadConfig resolves the effective config: the --config flag wins,
// otherwise standard locations are searched.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}
		return cfg, nil
	}
	return config.LoadOrDefault(), nil
}

// scanFiles expands the given paths into analyzable source files, applying
// exclusions and the configured size cap.
func scanFiles(cfg *config.Config, paths []string, verbose bool) ([]string, error) {
	s := scanner.NewScanner(cfg)

	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			found, err := s.ScanDir(p)
			if err != nil {
				return nil, fmt.Errorf("scanning %s: %w", p, err)
			}
			files = append(files, found...)
			continue
		}
		ok, err := s.ScanFile(p)
		if err != nil {
			return nil, err
		}
		if ok {
			files = append(files, p)
		}
	}

	files, skipped := scanner.FilterBySize(files, cfg.Analysis.MaxFileSize)
	if skipped > 0 && verbose {
		color.Yellow("Skipped %d files over the size cap", skipped)
	}
	return files, nil
}

// newAnalyzer builds an UnusedAnalyzer from config and per-command toggles.
func newAnalyzer(cfg *config.Config, fields, params bool) *analyzer.UnusedAnalyzer {
	fieldPolicy := usage.Policy(usage.FieldPolicy{TrackInternal: cfg.Policy.TrackInternalFields})
	paramPolicy := usage.Policy(usage.ParamPolicy{TrackAttributed: cfg.Policy.TrackAttributedParams})
	if len(cfg.Policy.ExcludeNames) > 0 {
		skip := usage.ExemptNames(cfg.Policy.ExcludeNames...)
		fieldPolicy = usage.Chain(fieldPolicy, skip)
		paramPolicy = usage.Chain(paramPolicy, skip)
	}

	return analyzer.NewUnusedAnalyzer().
		WithFields(fields).
		WithParameters(params).
		WithWorkers(cfg.Analysis.Workers).
		WithFieldPolicy(fieldPolicy).
		WithParamPolicy(paramPolicy)
}

// runAnalysis scans, analyzes with a progress bar, and renders the report.
func runAnalysis(c *cli.Context, fields, params bool) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	spinner := progress.NewSpinner("Scanning sources...")
	files, err := scanFiles(cfg, getPaths(c), c.Bool("verbose"))
	spinner.FinishSuccess()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		color.Yellow("No source files found")
		return nil
	}

	a := newAnalyzer(cfg, fields, params)

	tracker := progress.NewTracker("Analyzing...", a.Passes()*len(files))
	report, err := a.AnalyzeProjectWithProgress(c.Context, files, tracker.Tick)
	if err != nil {
		tracker.FinishError(err)
		return fmt.Errorf("analysis failed: %w", err)
	}
	tracker.FinishSuccess()

	return renderReport(c, report)
}

// renderReport writes the report in the requested format.
func renderReport(c *cli.Context, report *models.UnusedReport) error {
	formatter, err := output.NewFormatter(output.ParseFormat(c.String("format")), c.String("output"), true)
	if err != nil {
		return err
	}
	defer formatter.Close()

	root, _ := os.Getwd()
	return formatter.Output(&unusedRenderable{report: report, projectRoot: root})
}
