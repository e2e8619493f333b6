package dashboard

import (
	"errors"
	"math"
	"testing"

	"github.com/giygas/disease-dashboard/report"
)

const influenzaReply = `{"name":"Influenza","statistics":{"total_cases":"1000000","recovery_rate":"95%","mortality_rate":"0.1%"},"recovery_options":{"Rest":"Stay hydrated"},"medication":{"Paracetamol":{"side_effects":["Nausea"],"dosage":"500mg"}}}`

func mustParse(t *testing.T, raw string) *report.Report {
	t.Helper()
	r, err := report.Parse(raw)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return r
}

func TestBuildInfluenza(t *testing.T) {
	view, err := Build(mustParse(t, influenzaReply))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if view.Title != "Global Statistics for Influenza" {
		t.Errorf("Unexpected title %q", view.Title)
	}
	if view.Name != "Influenza" || view.TotalCases != "1000000" {
		t.Errorf("Expected name and total cases verbatim, got %q / %q", view.Name, view.TotalCases)
	}

	if view.Rates.Category != "Rate" {
		t.Errorf("Expected category Rate, got %q", view.Rates.Category)
	}
	if len(view.Rates.Series) != 2 {
		t.Fatalf("Expected 2 series, got %d", len(view.Rates.Series))
	}
	if s := view.Rates.Series[0]; s.Label != "Recovery Rate" || s.Value != 95.0 {
		t.Errorf("Unexpected recovery series %+v", s)
	}
	if s := view.Rates.Series[1]; s.Label != "Mortality Rate" || s.Value != 0.1 {
		t.Errorf("Unexpected mortality series %+v", s)
	}

	if view.Distribution != nil {
		t.Error("Expected no distribution chart")
	}

	if len(view.RecoveryOptions) != 1 || view.RecoveryOptions[0].Title != "Rest" || view.RecoveryOptions[0].Body != "Stay hydrated" {
		t.Errorf("Unexpected recovery options %+v", view.RecoveryOptions)
	}

	if len(view.Medications) != 1 {
		t.Fatalf("Expected 1 medication, got %d", len(view.Medications))
	}
	med := view.Medications[0]
	if med.Heading != "1. Paracetamol" || med.SideEffectsText != "Nausea" || med.Dosage != "500mg" {
		t.Errorf("Unexpected medication %+v", med)
	}
}

func TestBuildRatesExact(t *testing.T) {
	raw := `{"name":"X","statistics":{"total_cases":"1","recovery_rate":"62%","mortality_rate":"3%"},"recovery_options":{},"medication":{}}`

	view, err := Build(mustParse(t, raw))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if view.Rates.Series[0].Value != 62.0 || view.Rates.Series[1].Value != 3.0 {
		t.Errorf("Expected 62.0 and 3.0, got %+v", view.Rates.Series)
	}
}

func TestBuildDistribution(t *testing.T) {
	raw := `{"name":"X","statistics":{"total_cases":"150","recovery_rate":"50%","mortality_rate":"1%"},"recovery_options":{},"medication":{},"global_distribution":{"Asia":100,"Europe":50}}`

	view, err := Build(mustParse(t, raw))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	pie := view.Distribution
	if pie == nil {
		t.Fatal("Expected a distribution chart")
	}
	if len(pie.Slices) != 2 {
		t.Fatalf("Expected 2 slices, got %d", len(pie.Slices))
	}
	if pie.StartAngle != 90 {
		t.Errorf("Expected start angle 90, got %v", pie.StartAngle)
	}
	if pie.Total != 150 || pie.TotalText != "150" {
		t.Errorf("Unexpected total %v / %q", pie.Total, pie.TotalText)
	}

	want := []struct {
		region string
		share  float64
		label  string
	}{
		{"Asia", 66.7, "66.7%"},
		{"Europe", 33.3, "33.3%"},
	}
	sum := 0.0
	for i, w := range want {
		got := pie.Slices[i]
		if got.Region != w.region {
			t.Errorf("Slice %d: expected region %s, got %s", i, w.region, got.Region)
		}
		if math.Abs(got.Share-w.share) > 0.05 {
			t.Errorf("Slice %d: expected share ~%v, got %v", i, w.share, got.Share)
		}
		if got.Label != w.label {
			t.Errorf("Slice %d: expected label %s, got %s", i, w.label, got.Label)
		}
		sum += got.Share
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Errorf("Shares should sum to 100, got %v", sum)
	}
}

func TestBuildDistributionZeroTotal(t *testing.T) {
	raw := `{"name":"X","statistics":{"total_cases":"0","recovery_rate":"0%","mortality_rate":"0%"},"recovery_options":{},"medication":{},"global_distribution":{"Asia":0}}`

	view, err := Build(mustParse(t, raw))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got := view.Distribution.Slices[0]; got.Share != 0 || got.Label != "0.0%" {
		t.Errorf("Unexpected zero slice %+v", got)
	}
}

func TestBuildKeepsReplyOrder(t *testing.T) {
	raw := `{"name":"X","statistics":{"total_cases":"1","recovery_rate":"1%","mortality_rate":"1%"},
		"recovery_options":{"Zinc":"a","Antivirals":"b","Rest":"c"},
		"medication":{"Oseltamivir":{"side_effects":["Nausea","Headache"],"dosage":"75mg"},"Ibuprofen":{"side_effects":[],"dosage":"200mg"}}}`

	view, err := Build(mustParse(t, raw))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	titles := []string{}
	for _, s := range view.RecoveryOptions {
		titles = append(titles, s.Title)
	}
	if len(titles) != 3 || titles[0] != "Zinc" || titles[1] != "Antivirals" || titles[2] != "Rest" {
		t.Errorf("Unexpected option order %v", titles)
	}

	if view.Medications[0].Heading != "1. Oseltamivir" || view.Medications[1].Heading != "2. Ibuprofen" {
		t.Errorf("Unexpected medication headings %+v", view.Medications)
	}
	if view.Medications[0].SideEffectsText != "Nausea, Headache" {
		t.Errorf("Unexpected side effects %q", view.Medications[0].SideEffectsText)
	}
	if view.Medications[1].SideEffectsText != "" {
		t.Errorf("Expected empty side effects, got %q", view.Medications[1].SideEffectsText)
	}
}

func TestBuildFaults(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantField string
		wantErr   error
	}{
		{
			name:      "missing statistics",
			raw:       `{"name":"X","recovery_options":{},"medication":{}}`,
			wantField: "statistics",
			wantErr:   report.ErrMissingField,
		},
		{
			name:      "rate without percent",
			raw:       `{"name":"X","statistics":{"total_cases":"1","recovery_rate":"62","mortality_rate":"3%"},"recovery_options":{},"medication":{}}`,
			wantField: "statistics.recovery_rate",
			wantErr:   report.ErrRateFormat,
		},
		{
			name:      "numeric rate",
			raw:       `{"name":"X","statistics":{"total_cases":"1","recovery_rate":"62%","mortality_rate":3},"recovery_options":{},"medication":{}}`,
			wantField: "statistics.mortality_rate",
			wantErr:   report.ErrRateFormat,
		},
		{
			name:      "non numeric rate",
			raw:       `{"name":"X","statistics":{"total_cases":"1","recovery_rate":"high%","mortality_rate":"3%"},"recovery_options":{},"medication":{}}`,
			wantField: "statistics.recovery_rate",
			wantErr:   report.ErrRateFormat,
		},
		{
			name:      "bad distribution count",
			raw:       `{"name":"X","statistics":{"total_cases":"1","recovery_rate":"1%","mortality_rate":"1%"},"recovery_options":{},"medication":{},"global_distribution":{"Asia":"many"}}`,
			wantField: "global_distribution.Asia",
			wantErr:   report.ErrCountFormat,
		},
		{
			name:      "negative distribution count",
			raw:       `{"name":"X","statistics":{"total_cases":"1","recovery_rate":"1%","mortality_rate":"1%"},"recovery_options":{},"medication":{},"global_distribution":{"Asia":-5}}`,
			wantField: "global_distribution.Asia",
			wantErr:   report.ErrCountFormat,
		},
		{
			name:      "distribution total overflows",
			raw:       `{"name":"X","statistics":{"total_cases":"1","recovery_rate":"1%","mortality_rate":"1%"},"recovery_options":{},"medication":{},"global_distribution":{"Asia":1.7e308,"Europe":1.7e308}}`,
			wantField: "global_distribution",
			wantErr:   report.ErrCountFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(mustParse(t, tt.raw))

			var fieldErr *report.FieldError
			if !errors.As(err, &fieldErr) {
				t.Fatalf("Expected *report.FieldError, got %v", err)
			}
			if fieldErr.Field != tt.wantField {
				t.Errorf("Expected field %s, got %s", tt.wantField, fieldErr.Field)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseRate(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"62%", 62, false},
		{"0.1%", 0.1, false},
		{" 95 % ", 95, false},
		{"100.0%", 100, false},
		{"62", 0, true},
		{"%", 0, true},
		{"", 0, true},
		{"abc%", 0, true},
		{"Inf%", 0, true},
		{"NaN%", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRate(report.NewScalar(tt.input))
			if tt.wantErr {
				if !errors.Is(err, report.ErrRateFormat) {
					t.Errorf("Expected ErrRateFormat, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseRate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
