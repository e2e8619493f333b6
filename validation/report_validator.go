// Package validation checks that a decoded report carries every field the
// dashboard reads. It never looks at what the values say.
package validation

import (
	"github.com/giygas/disease-dashboard/interfaces"
	"github.com/giygas/disease-dashboard/report"
)

// Compile-time check to ensure ReportValidatorImpl implements ReportValidator
var _ interfaces.ReportValidator = (*ReportValidatorImpl)(nil)

// ReportValidatorImpl implements the interfaces.ReportValidator interface
type ReportValidatorImpl struct{}

// NewReportValidator creates a new report validator
func NewReportValidator() interfaces.ReportValidator {
	return &ReportValidatorImpl{}
}

// ValidateReport returns a *report.FieldError naming the first required
// field that is absent. Fields are checked in the order the dashboard
// consumes them: rates first, then headline, then the lists.
func (v *ReportValidatorImpl) ValidateReport(r *report.Report) error {
	if r == nil {
		return report.Missing("$")
	}

	if r.Statistics == nil {
		return report.Missing("statistics")
	}
	if !r.Statistics.RecoveryRate.IsSet() {
		return report.Missing("statistics.recovery_rate")
	}
	if !r.Statistics.MortalityRate.IsSet() {
		return report.Missing("statistics.mortality_rate")
	}

	if !r.Name.IsSet() {
		return report.Missing("name")
	}
	if !r.Statistics.TotalCases.IsSet() {
		return report.Missing("statistics.total_cases")
	}

	if r.RecoveryOptions == nil {
		return report.Missing("recovery_options")
	}

	if r.Medication == nil {
		return report.Missing("medication")
	}
	for _, med := range r.Medication {
		if med.Value.SideEffects == nil {
			return report.Missing("medication." + med.Key + ".side_effects")
		}
		if !med.Value.Dosage.IsSet() {
			return report.Missing("medication." + med.Key + ".dosage")
		}
	}

	return nil
}
