package mcpserver

import (
	"context"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	toon "github.com/toon-format/toon-go"

	"github.com/relict-dev/relict/internal/analyzer"
	"github.com/relict-dev/relict/internal/scanner"
	"github.com/relict-dev/relict/internal/usage"
	"github.com/relict-dev/relict/pkg/config"
)

// AnalyzeInput is the base input for both tools.
type AnalyzeInput struct {
	Paths []string `json:"paths,omitempty" jsonschema:"Paths to analyze. Defaults to current directory if empty."`
}

// FieldsInput configures unused-field analysis.
type FieldsInput struct {
	AnalyzeInput
	TrackInternal bool `json:"track_internal,omitempty" jsonschema:"Also track internal/package-private fields, not just private ones."`
}

// ParametersInput configures unused-parameter analysis.
type ParametersInput struct {
	AnalyzeInput
	TrackAttributed bool `json:"track_attributed,omitempty" jsonschema:"Also track parameters carrying attributes, annotations, or decorators."`
}

func collectFiles(paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	s := scanner.NewScanner(config.LoadOrDefault())
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			found, err := s.ScanDir(p)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
			continue
		}
		if ok, err := s.ScanFile(p); err == nil && ok {
			files = append(files, p)
		}
	}
	return files, nil
}

func toolResult(data any) (*mcp.CallToolResult, any, error) {
	text, err := toon.Marshal(data, toon.WithIndent(2))
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(text)},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

func handleAnalyzeUnusedFields(ctx context.Context, req *mcp.CallToolRequest, input FieldsInput) (*mcp.CallToolResult, any, error) {
	files, err := collectFiles(input.Paths)
	if err != nil {
		return toolError(err.Error())
	}
	if len(files) == 0 {
		return toolError("no source files found")
	}

	a := analyzer.NewUnusedAnalyzer().
		WithParameters(false).
		WithFieldPolicy(usage.FieldPolicy{TrackInternal: input.TrackInternal})

	report, err := a.AnalyzeProject(ctx, files)
	if err != nil {
		return toolError(err.Error())
	}

	return toolResult(map[string]any{
		"fields":  report.Fields,
		"summary": report.Summary,
	})
}

func handleAnalyzeUnusedParameters(ctx context.Context, req *mcp.CallToolRequest, input ParametersInput) (*mcp.CallToolResult, any, error) {
	files, err := collectFiles(input.Paths)
	if err != nil {
		return toolError(err.Error())
	}
	if len(files) == 0 {
		return toolError("no source files found")
	}

	a := analyzer.NewUnusedAnalyzer().
		WithFields(false).
		WithParamPolicy(usage.ParamPolicy{TrackAttributed: input.TrackAttributed})

	report, err := a.AnalyzeProject(ctx, files)
	if err != nil {
		return toolError(err.Error())
	}

	return toolResult(map[string]any{
		"parameters": report.Parameters,
		"summary":    report.Summary,
	})
}
