package dashboard

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/giygas/disease-dashboard/report"
)

// ParseRate reads a percentage string such as "62%" or "0.1 %". The
// trailing percent sign is required and the number must be finite.
func ParseRate(s report.Scalar) (float64, error) {
	if !s.IsString() {
		return 0, fmt.Errorf("%w: got %s", report.ErrRateFormat, s.String())
	}

	text := strings.TrimSpace(s.String())
	number, ok := strings.CutSuffix(text, "%")
	if !ok {
		return 0, fmt.Errorf("%w: %q has no trailing %%", report.ErrRateFormat, text)
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(number), 64)
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, fmt.Errorf("%w: %q", report.ErrRateFormat, text)
	}

	return value, nil
}

// ParseCount reads a distribution case count: a JSON number, or a string
// holding one. Counts must be finite and non-negative.
func ParseCount(s report.Scalar) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(s.String()), 64)
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) || value < 0 {
		return 0, fmt.Errorf("%w: %s", report.ErrCountFormat, s.String())
	}
	return value, nil
}
