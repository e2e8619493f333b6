package chart

import (
	"image"
	"math"

	"golang.org/x/image/vector"

	"github.com/giygas/disease-dashboard/dashboard"
)

const (
	// PieSize is the side of the square image, so the pie is always round
	PieSize = 480

	pieRadius = 150
	// label positions as a fraction of the radius
	pctDistance   = 0.6
	labelDistance = 1.1
	// maximum arc step when flattening a slice edge, in radians
	arcStep = math.Pi / 180
)

// sliceAngles returns the start and end angle of every slice in radians,
// counter-clockwise from three o'clock, beginning at startDeg
func sliceAngles(pie *dashboard.PieChart, startDeg float64) [][2]float64 {
	angles := make([][2]float64, len(pie.Slices))
	a := startDeg * math.Pi / 180
	for i, s := range pie.Slices {
		sweep := 0.0
		if pie.Total > 0 {
			sweep = s.Cases / pie.Total * 2 * math.Pi
		}
		angles[i] = [2]float64{a, a + sweep}
		a += sweep
	}
	return angles
}

// polar converts an angle (counter-clockwise, y up) to image coordinates
func polar(cx, cy, r, angle float64) (float32, float32) {
	return float32(cx + r*math.Cos(angle)), float32(cy - r*math.Sin(angle))
}

// RenderPie draws the distribution as a circle with one wedge per region,
// the percentage inside each wedge and the region name outside it
func RenderPie(pie *dashboard.PieChart) ([]byte, error) {
	f, err := labelFace()
	if err != nil {
		return nil, err
	}

	img := newCanvas(PieSize, PieSize)
	cx, cy := float64(PieSize)/2, float64(PieSize)/2
	angles := sliceAngles(pie, pie.StartAngle)

	for i, a := range angles {
		if a[1] <= a[0] {
			continue
		}

		z := vector.NewRasterizer(PieSize, PieSize)
		z.MoveTo(float32(cx), float32(cy))
		steps := int(math.Ceil((a[1] - a[0]) / arcStep))
		for s := 0; s <= steps; s++ {
			angle := a[0] + (a[1]-a[0])*float64(s)/float64(steps)
			z.LineTo(polar(cx, cy, pieRadius, angle))
		}
		z.ClosePath()
		z.Draw(img, img.Bounds(), image.NewUniform(colorAt(i)), image.Point{})
	}

	mid := middleOffset(f)
	for i, a := range angles {
		center := (a[0] + a[1]) / 2
		s := pie.Slices[i]

		px, py := polar(cx, cy, pieRadius*pctDistance, center)
		drawText(img, f, s.Label, int(px), int(py)+mid, ink)

		lx, ly := polar(cx, cy, pieRadius*labelDistance, center)
		switch {
		case math.Cos(center) > 0.1:
			drawTextLeft(img, f, s.Region, int(lx), int(ly)+mid, ink)
		case math.Cos(center) < -0.1:
			drawTextLeft(img, f, s.Region, int(lx)-textWidth(f, s.Region), int(ly)+mid, ink)
		default:
			drawText(img, f, s.Region, int(lx), int(ly)+mid, ink)
		}
	}

	return encode(img)
}
