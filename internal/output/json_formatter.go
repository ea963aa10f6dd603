package output

import (
	"encoding/json"
)

// JSONFormatter serializes the report as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(report *Report) ([]byte, error) {
	if report.empty() {
		return nil, ErrEmptyReport
	}

	doc := map[string]any{"currency": report.currency()}
	if report.Projection != nil {
		doc["projection"] = report.Projection.ToMap()
	}
	if len(report.Scenarios) > 0 {
		doc["scenarios"] = report.Scenarios
	}
	if report.FIRE != nil {
		doc["fire"] = report.FIRE.ToMap()
	}
	if report.Savings != nil {
		doc["savings"] = report.Savings.ToMap()
	}
	if report.Market != nil {
		doc["market"] = report.Market
	}
	if !report.GeneratedAt.IsZero() {
		doc["generated_at"] = report.GeneratedAt
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
