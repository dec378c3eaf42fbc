package service

import (
	"regexp"
	"strings"

	"beltsense/internal/models"
)

// RootCausePending is stored when the model reply carries no Root Cause
// section. It tells the UI that root-cause analysis is still pending, as
// opposed to a genuinely empty field.
const RootCausePending = "Root cause analysis pending"

// Canonical diagnosis field labels. Extraction is keyed on this table so
// the matching strategy stays swappable behind ParseDiagnosis.
const (
	fieldSummary         = "Summary"
	fieldProblems        = "Problems"
	fieldPrediction      = "Prediction"
	fieldRootCause       = "Root Cause"
	fieldRecommendations = "Recommendations"
	fieldSeverity        = "Severity"
)

var diagnosisFields = []string{
	fieldSummary,
	fieldProblems,
	fieldPrediction,
	fieldRootCause,
	fieldRecommendations,
	fieldSeverity,
}

var (
	// Paired emphasis markup around labels ("**Summary:**") is stripped
	// before matching so the model's markup style doesn't matter.
	boldMarkupRe = regexp.MustCompile(`\*\*([^*]*)\*\*`)

	// One alternation over every known label. Values are sliced between
	// consecutive label matches, which keeps extraction independent of
	// section order and tolerant of omitted sections.
	diagnosisLabelRe = regexp.MustCompile(
		`(?i)\b(` + strings.Join(diagnosisFields, "|") + `)\s*:`)
)

// ParseDiagnosis turns a free-text model reply into a structured alert
// record. It is total: malformed or partial replies degrade to defaults,
// never to an error. Severity is kept verbatim; consumers normalize it.
func ParseDiagnosis(text string) models.AlertRecord {
	clean := boldMarkupRe.ReplaceAllString(text, "$1")

	values := make(map[string]string, len(diagnosisFields))
	matches := diagnosisLabelRe.FindAllStringSubmatchIndex(clean, -1)
	for i, m := range matches {
		label := canonicalField(clean[m[2]:m[3]])
		start := m[1] // just past the colon
		end := len(clean)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		values[label] = strings.TrimSpace(clean[start:end])
	}

	rootCause := values[fieldRootCause]
	if rootCause == "" {
		rootCause = RootCausePending
	}

	return models.AlertRecord{
		Summary:         values[fieldSummary],
		Problems:        values[fieldProblems],
		Prediction:      values[fieldPrediction],
		RootCause:       rootCause,
		Recommendations: values[fieldRecommendations],
		Severity:        models.Severity(values[fieldSeverity]),
	}
}

// canonicalField maps a matched label back to its canonical spelling.
func canonicalField(label string) string {
	for _, f := range diagnosisFields {
		if strings.EqualFold(f, label) {
			return f
		}
	}
	return label
}
