package output

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/relict-dev/relict/pkg/models"
)

// SARIF v2.1.0 schema: https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"

	ruleIDUnusedField = "RELICT001"
	ruleIDUnusedParam = "RELICT002"
)

type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID       string            `json:"ruleId"`
	Level        string            `json:"level"`
	Message      sarifMessage      `json:"message"`
	Locations    []sarifLocation   `json:"locations,omitempty"`
	Fingerprints map[string]string `json:"partialFingerprints,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
}

// WriteSARIF serializes an unused-declaration report as a SARIF v2.1.0 log.
// File URIs are made relative to projectRoot so logs are safe to share.
func WriteSARIF(w io.Writer, report *models.UnusedReport, projectRoot, toolVersion string) error {
	results := make([]sarifResult, 0, len(report.Fields)+len(report.Parameters))

	for _, d := range report.Fields {
		msg := fmt.Sprintf("Field %q is never read", d.Name)
		if d.WriteOnly {
			msg = fmt.Sprintf("Field %q is assigned but never read", d.Name)
		}
		results = append(results, findingResult(ruleIDUnusedField, msg, d, projectRoot))
	}
	for _, d := range report.Parameters {
		msg := fmt.Sprintf("Parameter %q is never read in its body", d.Name)
		if d.WriteOnly {
			msg = fmt.Sprintf("Parameter %q is reassigned but never read", d.Name)
		}
		results = append(results, findingResult(ruleIDUnusedParam, msg, d, projectRoot))
	}

	doc := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    "relict",
						Version: toolVersion,
						Rules:   sarifRules(report),
					},
				},
				Results: results,
			},
		},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func findingResult(ruleID, msg string, d models.UnusedDeclaration, projectRoot string) sarifResult {
	result := sarifResult{
		RuleID:  ruleID,
		Level:   "warning",
		Message: sarifMessage{Text: msg},
	}
	if d.Fingerprint != "" {
		result.Fingerprints = map[string]string{"relict/v1": d.Fingerprint}
	}
	if d.File != "" {
		loc := sarifLocation{
			PhysicalLocation: sarifPhysicalLocation{
				ArtifactLocation: sarifArtifactLocation{
					URI:       relativeURI(projectRoot, d.File),
					URIBaseID: "%SRCROOT%",
				},
			},
		}
		if d.Line > 0 {
			loc.PhysicalLocation.Region = &sarifRegion{
				StartLine:   d.Line,
				StartColumn: d.Column,
			}
		}
		result.Locations = []sarifLocation{loc}
	}
	return result
}

// sarifRules returns only the rules relevant for the given findings.
func sarifRules(report *models.UnusedReport) []sarifRule {
	rules := make([]sarifRule, 0, 2)
	if len(report.Fields) > 0 {
		rules = append(rules, sarifRule{
			ID:               ruleIDUnusedField,
			Name:             "UnusedField",
			ShortDescription: sarifMessage{Text: "A private field is never read anywhere in the program."},
			DefaultConfig:    sarifRuleDefaultConfig{Level: "warning"},
		})
	}
	if len(report.Parameters) > 0 {
		rules = append(rules, sarifRule{
			ID:               ruleIDUnusedParam,
			Name:             "UnusedParameter",
			ShortDescription: sarifMessage{Text: "A parameter is never read within its own callable body."},
			DefaultConfig:    sarifRuleDefaultConfig{Level: "warning"},
		})
	}
	return rules
}

// relativeURI converts an absolute file path to a forward-slash relative URI
// anchored at projectRoot.
func relativeURI(projectRoot, filePath string) string {
	if projectRoot != "" && filepath.IsAbs(filePath) {
		if rel, err := filepath.Rel(projectRoot, filePath); err == nil {
			filePath = rel
		}
	}
	return filepath.ToSlash(filePath)
}
