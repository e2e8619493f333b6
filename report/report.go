// Package report decodes the completion reply into a DiseaseReport.
//
// Decoding is strict: the reply must be well-formed JSON, with no attempt to
// strip markdown fences or surrounding prose. A reply that is not JSON yields
// ErrMalformedReply; JSON of the wrong shape yields a *FieldError.
package report

import (
	"encoding/json"
	"fmt"
)

// Report is the structured answer for one disease query. It lives for a
// single render pass.
type Report struct {
	Name               Scalar
	Statistics         *Statistics
	RecoveryOptions    Entries[Scalar]
	Medication         Entries[Medication]
	GlobalDistribution Entries[Scalar]

	// Fields holds every top-level key of the reply in document order,
	// including keys the dashboard does not render.
	Fields Entries[json.RawMessage]
}

// Statistics holds the headline numbers.
type Statistics struct {
	TotalCases    Scalar `json:"total_cases"`
	RecoveryRate  Scalar `json:"recovery_rate"`
	MortalityRate Scalar `json:"mortality_rate"`
}

// Medication describes one recommended medication. A nil SideEffects means
// the key was missing or null; an empty list is a valid answer.
type Medication struct {
	SideEffects []string `json:"side_effects"`
	Dosage      Scalar   `json:"dosage"`
}

// Parse decodes raw completion text.
func Parse(raw string) (*Report, error) {
	data := []byte(raw)

	if !json.Valid(data) {
		var probe any
		err := json.Unmarshal(data, &probe)
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}

	var fields Entries[json.RawMessage]
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &FieldError{Field: "$", Err: fmt.Errorf("%w: %v", ErrWrongKind, err)}
	}
	if fields == nil {
		return nil, &FieldError{Field: "$", Err: fmt.Errorf("%w: document is null", ErrWrongKind)}
	}

	r := &Report{Fields: fields}
	for _, field := range fields {
		var target any
		switch field.Key {
		case "name":
			target = &r.Name
		case "statistics":
			target = &r.Statistics
		case "recovery_options":
			target = &r.RecoveryOptions
		case "medication":
			target = &r.Medication
		case "global_distribution":
			target = &r.GlobalDistribution
		default:
			continue
		}

		if err := json.Unmarshal(field.Value, target); err != nil {
			return nil, &FieldError{Field: field.Key, Err: fmt.Errorf("%w: %v", ErrWrongKind, err)}
		}
	}

	return r, nil
}

// JSON returns the reply re-encoded as compact JSON, keys in their original
// order. Parse(JSON()) yields an equivalent Report.
func (r *Report) JSON() ([]byte, error) {
	return json.Marshal(r.Fields)
}

// HasDistribution reports whether the reply carried a global distribution.
// A null distribution counts as absent.
func (r *Report) HasDistribution() bool {
	return r.GlobalDistribution != nil
}
