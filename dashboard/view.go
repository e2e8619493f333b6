// Package dashboard turns a decoded report into everything the page shows.
// The whole view is built up front, so a bad field fails the pass before
// any output is written.
package dashboard

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/giygas/disease-dashboard/interfaces"
	"github.com/giygas/disease-dashboard/report"
	"github.com/giygas/disease-dashboard/validation"
)

const (
	RateCategory   = "Rate"
	RecoveryLabel  = "Recovery Rate"
	MortalityLabel = "Mortality Rate"

	// PieStartAngle is where the first slice begins, in degrees
	// counter-clockwise from three o'clock
	PieStartAngle = 90.0
)

// View is the rendered form of one report
type View struct {
	Title           string           `json:"title"`
	Name            string           `json:"name"`
	TotalCases      string           `json:"total_cases"`
	Rates           BarChart         `json:"rates"`
	Distribution    *PieChart        `json:"distribution,omitempty"` // nil when the reply has no distribution
	RecoveryOptions []Section        `json:"recovery_options"`
	Medications     []MedicationItem `json:"medications"`
}

// Series is one bar
type Series struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// BarChart has a single category and one bar per series
type BarChart struct {
	Category string   `json:"category"`
	Series   []Series `json:"series"`
}

// Slice is one row of the distribution table
type Slice struct {
	Region string  `json:"region"`
	Cases  float64 `json:"cases"`
	Share  float64 `json:"share"` // percent of Total
	Label  string  `json:"label"`
}

// PieChart is the distribution table in reply order
type PieChart struct {
	Slices     []Slice `json:"slices"`
	StartAngle float64 `json:"start_angle"`
	Total      float64 `json:"total"`
	TotalText  string  `json:"total_text"`
}

// Section is a sub-heading with its text
type Section struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// MedicationItem is one numbered medication entry
type MedicationItem struct {
	Index           int      `json:"index"`
	Name            string   `json:"name"`
	Heading         string   `json:"heading"`
	SideEffects     []string `json:"side_effects"`
	SideEffectsText string   `json:"side_effects_text"`
	Dosage          string   `json:"dosage"`
}

// Builder builds views, checking required fields with its validator first
type Builder struct {
	validator interfaces.ReportValidator
	printer   *message.Printer
}

// NewBuilder returns a builder using validator
func NewBuilder(validator interfaces.ReportValidator) *Builder {
	return &Builder{
		validator: validator,
		printer:   message.NewPrinter(language.English),
	}
}

var defaultBuilder = NewBuilder(validation.NewReportValidator())

// Build builds the view for r with the default validator
func Build(r *report.Report) (*View, error) {
	return defaultBuilder.Build(r)
}

// Build returns the view or the first *report.FieldError found
func (b *Builder) Build(r *report.Report) (*View, error) {
	if err := b.validator.ValidateReport(r); err != nil {
		return nil, err
	}

	recovery, err := ParseRate(r.Statistics.RecoveryRate)
	if err != nil {
		return nil, &report.FieldError{Field: "statistics.recovery_rate", Err: err}
	}
	mortality, err := ParseRate(r.Statistics.MortalityRate)
	if err != nil {
		return nil, &report.FieldError{Field: "statistics.mortality_rate", Err: err}
	}

	name := r.Name.String()
	view := &View{
		Title:      "Global Statistics for " + name,
		Name:       name,
		TotalCases: r.Statistics.TotalCases.String(),
		Rates: BarChart{
			Category: RateCategory,
			Series: []Series{
				{Label: RecoveryLabel, Value: recovery},
				{Label: MortalityLabel, Value: mortality},
			},
		},
	}

	if r.HasDistribution() {
		pie, err := b.distribution(r.GlobalDistribution)
		if err != nil {
			return nil, err
		}
		view.Distribution = pie
	}

	view.RecoveryOptions = make([]Section, 0, len(r.RecoveryOptions))
	for _, option := range r.RecoveryOptions {
		view.RecoveryOptions = append(view.RecoveryOptions, Section{
			Title: option.Key,
			Body:  option.Value.String(),
		})
	}

	view.Medications = make([]MedicationItem, 0, len(r.Medication))
	for i, med := range r.Medication {
		view.Medications = append(view.Medications, MedicationItem{
			Index:           i + 1,
			Name:            med.Key,
			Heading:         fmt.Sprintf("%d. %s", i+1, med.Key),
			SideEffects:     med.Value.SideEffects,
			SideEffectsText: strings.Join(med.Value.SideEffects, ", "),
			Dosage:          med.Value.Dosage.String(),
		})
	}

	return view, nil
}

func (b *Builder) distribution(entries report.Entries[report.Scalar]) (*PieChart, error) {
	pie := &PieChart{
		Slices:     make([]Slice, 0, len(entries)),
		StartAngle: PieStartAngle,
	}

	for _, entry := range entries {
		cases, err := ParseCount(entry.Value)
		if err != nil {
			return nil, &report.FieldError{Field: "global_distribution." + entry.Key, Err: err}
		}
		pie.Slices = append(pie.Slices, Slice{Region: entry.Key, Cases: cases})
		pie.Total += cases
	}
	if math.IsInf(pie.Total, 0) {
		return nil, &report.FieldError{
			Field: "global_distribution",
			Err:   fmt.Errorf("%w: total out of range", report.ErrCountFormat),
		}
	}

	for i := range pie.Slices {
		if pie.Total > 0 {
			pie.Slices[i].Share = pie.Slices[i].Cases / pie.Total * 100
		}
		pie.Slices[i].Label = fmt.Sprintf("%1.1f%%", pie.Slices[i].Share)
	}

	pie.TotalText = b.printer.Sprintf("%.0f", pie.Total)

	return pie, nil
}
