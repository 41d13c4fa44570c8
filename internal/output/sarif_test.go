package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/relict-dev/relict/pkg/models"
)

func sampleReport() *models.UnusedReport {
	report := &models.UnusedReport{
		Fields: []models.UnusedDeclaration{
			{Name: "_count", Kind: "field", File: "/proj/src/Counter.cs", Line: 3, Column: 17, WriteOnly: true, Fingerprint: "abc123"},
		},
		Parameters: []models.UnusedDeclaration{
			{Name: "spare", Kind: "parameter", File: "/proj/src/Printer.cs", Line: 9, Column: 30},
		},
		Summary: models.NewUnusedSummary(),
	}
	return report
}

func TestWriteSARIF(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSARIF(&buf, sampleReport(), "/proj", "1.2.3"); err != nil {
		t.Fatalf("WriteSARIF: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if doc["version"] != "2.1.0" {
		t.Errorf("version = %v", doc["version"])
	}

	runs := doc["runs"].([]any)
	run := runs[0].(map[string]any)

	driver := run["tool"].(map[string]any)["driver"].(map[string]any)
	if driver["name"] != "relict" || driver["version"] != "1.2.3" {
		t.Errorf("driver = %v", driver)
	}
	if rules := driver["rules"].([]any); len(rules) != 2 {
		t.Errorf("expected both rules, got %d", len(rules))
	}

	results := run["results"].([]any)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	first := results[0].(map[string]any)
	if first["ruleId"] != "RELICT001" {
		t.Errorf("ruleId = %v", first["ruleId"])
	}
	loc := first["locations"].([]any)[0].(map[string]any)
	artifact := loc["physicalLocation"].(map[string]any)["artifactLocation"].(map[string]any)
	if artifact["uri"] != "src/Counter.cs" {
		t.Errorf("uri should be root-relative: %v", artifact["uri"])
	}
	fp := first["partialFingerprints"].(map[string]any)
	if fp["relict/v1"] != "abc123" {
		t.Errorf("fingerprint = %v", fp)
	}

	second := results[1].(map[string]any)
	if second["ruleId"] != "RELICT002" {
		t.Errorf("ruleId = %v", second["ruleId"])
	}
}

func TestWriteSARIFEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	report := &models.UnusedReport{Summary: models.NewUnusedSummary()}
	if err := WriteSARIF(&buf, report, "", "dev"); err != nil {
		t.Fatalf("WriteSARIF: %v", err)
	}

	var doc struct {
		Runs []struct {
			Results []any `json:"results"`
			Tool    struct {
				Driver struct {
					Rules []any `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Runs) != 1 || len(doc.Runs[0].Results) != 0 || len(doc.Runs[0].Tool.Driver.Rules) != 0 {
		t.Errorf("empty report should produce an empty run: %+v", doc)
	}
}
