package termview

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/giygas/disease-dashboard/dashboard"
	"github.com/giygas/disease-dashboard/report"
)

// FaultMessage is shown for every failure other than a malformed reply
const FaultMessage = "The lookup could not be completed."

// barCells is the width of a full-scale bar
const barCells = 30

// Render lays out view as a bordered block. A width of zero or less lets
// the content decide.
func Render(view *dashboard.View, width int) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(view.Title))
	b.WriteString("\n\n")
	b.WriteString(row("Total Cases", valueStyle.Render(view.TotalCases)))

	b.WriteString(sectionStyle.Render(view.Rates.Category))
	b.WriteString("\n")
	scale := 100.0
	for _, s := range view.Rates.Series {
		scale = math.Max(scale, s.Value)
	}
	for _, s := range view.Rates.Series {
		b.WriteString(row(s.Label, bar(s.Value, scale)+" "+valueStyle.Render(formatNumber(s.Value)+"%")))
	}

	if pie := view.Distribution; pie != nil {
		b.WriteString(sectionStyle.Render("Global Distribution"))
		b.WriteString("\n")
		for _, slice := range pie.Slices {
			b.WriteString(row(slice.Region, bar(slice.Share, 100)+" "+
				valueStyle.Render(fmt.Sprintf("%s (%s)", formatNumber(slice.Cases), slice.Label))))
		}
		b.WriteString(row("Total", valueStyle.Render(pie.TotalText)))
	}

	b.WriteString(sectionStyle.Render("Recovery Options"))
	b.WriteString("\n")
	for _, option := range view.RecoveryOptions {
		b.WriteString(headingStyle.Render(option.Title))
		b.WriteString("\n")
		b.WriteString(option.Body)
		b.WriteString("\n")
	}

	b.WriteString(sectionStyle.Render("Medication"))
	b.WriteString("\n")
	for _, med := range view.Medications {
		b.WriteString(headingStyle.Render(med.Heading))
		b.WriteString("\n")
		b.WriteString("Side Effects: " + med.SideEffectsText + "\n")
		b.WriteString("Dosage: " + med.Dosage + "\n")
	}

	box := boxStyle
	if width > 0 {
		box = box.Width(width - box.GetHorizontalBorderSize())
	}
	return box.Render(strings.TrimRight(b.String(), "\n"))
}

// ErrorMessage is the user-facing text for a failed lookup. Only a
// malformed reply has its own message.
func ErrorMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, report.ErrMalformedReply):
		return report.MalformedReplyMessage
	default:
		return FaultMessage
	}
}

// RenderError styles ErrorMessage(err)
func RenderError(err error) string {
	return errorStyle.Render(ErrorMessage(err))
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value) + "\n"
}

// bar draws value as a share of scale, at least one cell for any positive
// value
func bar(value, scale float64) string {
	if scale <= 0 || value <= 0 {
		return ""
	}
	cells := int(math.Round(value / scale * barCells))
	cells = max(1, min(cells, barCells))
	return barStyle.Render(strings.Repeat("█", cells))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
