package chart

import (
	"image"
	"math"
	"strconv"

	"github.com/giygas/disease-dashboard/dashboard"
)

const (
	BarWidth  = 640
	BarHeight = 360

	barMarginLeft   = 56
	barMarginRight  = 24
	barMarginTop    = 40
	barMarginBottom = 40
	barTicks        = 5
)

// barLayout places the plot area and one rectangle per series
type barLayout struct {
	plot  image.Rectangle
	max   float64
	bars  []image.Rectangle
	ticks []float64
}

func layoutBars(chart dashboard.BarChart, width, height int) barLayout {
	plot := image.Rect(barMarginLeft, barMarginTop, width-barMarginRight, height-barMarginBottom)

	top := 0.0
	for _, s := range chart.Series {
		top = math.Max(top, s.Value)
	}
	top = niceCeil(top)

	l := barLayout{plot: plot, max: top}
	for i := 0; i <= barTicks; i++ {
		l.ticks = append(l.ticks, top/barTicks*float64(i))
	}

	n := len(chart.Series)
	if n == 0 {
		return l
	}

	// the category takes 80% of the plot width, split evenly between series
	group := plot.Dx() * 8 / 10
	barW := group / n
	left := plot.Min.X + (plot.Dx()-group)/2

	for i, s := range chart.Series {
		value := math.Max(s.Value, 0)
		h := int(math.Round(value / top * float64(plot.Dy())))
		x0 := left + i*barW
		l.bars = append(l.bars, image.Rect(x0+2, plot.Max.Y-h, x0+barW-2, plot.Max.Y))
	}

	return l
}

// niceCeil rounds v up to 1, 2, 2.5 or 5 times a power of ten. The result
// stays finite; values too close to the float64 limit are returned as is.
func niceCeil(v float64) float64 {
	if v <= 0 {
		return 1
	}
	exp := math.Pow(10, math.Floor(math.Log10(v)))
	for _, step := range []float64{1, 2, 2.5, 5, 10} {
		if nice := step * exp; nice >= v {
			if math.IsInf(nice, 0) {
				return v
			}
			return nice
		}
	}
	return v
}

// RenderBar draws the single-category rate chart: one bar per series,
// a value axis starting at zero and a legend across the top
func RenderBar(chart dashboard.BarChart) ([]byte, error) {
	f, err := labelFace()
	if err != nil {
		return nil, err
	}

	img := newCanvas(BarWidth, BarHeight)
	l := layoutBars(chart, BarWidth, BarHeight)
	mid := middleOffset(f)

	for _, tick := range l.ticks {
		y := l.plot.Max.Y - int(math.Round(tick/l.max*float64(l.plot.Dy())))
		fillRect(img, image.Rect(l.plot.Min.X, y, l.plot.Max.X, y+1), gridColor)
		label := strconv.FormatFloat(tick, 'f', -1, 64)
		drawTextLeft(img, f, label, l.plot.Min.X-8-textWidth(f, label), y+mid, ink)
	}

	for i, r := range l.bars {
		fillRect(img, r, colorAt(i))
	}

	// axes
	fillRect(img, image.Rect(l.plot.Min.X, l.plot.Min.Y, l.plot.Min.X+1, l.plot.Max.Y+1), ink)
	fillRect(img, image.Rect(l.plot.Min.X, l.plot.Max.Y, l.plot.Max.X, l.plot.Max.Y+1), ink)

	drawText(img, f, chart.Category, l.plot.Min.X+l.plot.Dx()/2, l.plot.Max.Y+barMarginBottom/2+mid, ink)

	// legend
	x := l.plot.Min.X
	y := barMarginTop / 2
	for i, s := range chart.Series {
		fillRect(img, image.Rect(x, y-5, x+10, y+5), colorAt(i))
		drawTextLeft(img, f, s.Label, x+14, y+mid, ink)
		x += 14 + textWidth(f, s.Label) + 24
	}

	return encode(img)
}
