// Package chart lays out bar and pie charts as SVG geometry. Templates draw
// the shapes; nothing here produces markup.
package chart

import (
	"fmt"
	"math"
)

// Default canvas sizes.
const (
	DefaultWidth  = 480.0
	DefaultHeight = 300.0
	DefaultSize   = 300.0

	margin   = 40.0
	barRatio = 0.6
)

// Item is one labelled value.
type Item struct {
	Label string
	Value float64
	Color string
	// Text is the value as displayed on the chart.
	Text string
}

// Bar is a positioned bar. Y and Height are always non-negative; bars for
// negative values hang below the baseline.
type Bar struct {
	Item
	X, Y, Width, Height float64
	// LabelX/LabelY place the category label below the plot area.
	LabelX, LabelY float64
	// ValueY places the value text just outside the bar's end.
	ValueY float64
}

// BarChart is a vertical bar chart laid out on a Width x Height canvas.
type BarChart struct {
	Title         string
	Width, Height float64
	// Baseline is the y coordinate of the zero line.
	Baseline float64
	Bars     []Bar
}

// NewBarChart scales items so the largest magnitude fills the plot area.
func NewBarChart(title string, items []Item, width, height float64) BarChart {
	c := BarChart{Title: title, Width: width, Height: height}

	top, bottom := margin, height-margin
	lo, hi := 0.0, 0.0
	for _, it := range items {
		lo = math.Min(lo, it.Value)
		hi = math.Max(hi, it.Value)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	scale := (bottom - top) / span
	c.Baseline = top + hi*scale

	if len(items) == 0 {
		return c
	}

	slot := (width - 2*margin) / float64(len(items))
	barWidth := slot * barRatio
	for i, it := range items {
		h := math.Abs(it.Value) * scale
		x := margin + float64(i)*slot + (slot-barWidth)/2

		b := Bar{
			Item:   it,
			X:      x,
			Width:  barWidth,
			Height: h,
			LabelX: x + barWidth/2,
			LabelY: height - margin/2,
		}
		if it.Value >= 0 {
			b.Y = c.Baseline - h
			b.ValueY = b.Y - 6
		} else {
			b.Y = c.Baseline
			b.ValueY = c.Baseline + h + 14
		}
		c.Bars = append(c.Bars, b)
	}
	return c
}

// Slice is a positioned pie wedge.
type Slice struct {
	Item
	Fraction float64
	// Path is the SVG path data of the wedge. Empty when Full is set.
	Path string
	// Full marks a single slice covering the whole pie.
	Full           bool
	LabelX, LabelY float64
}

// PieChart is a pie centred in a Size x Size canvas.
type PieChart struct {
	Title      string
	Size       float64
	CX, CY, R  float64
	Slices     []Slice
	TotalValue float64
}

// NewPieChart lays out the positive items clockwise from twelve o'clock.
// Items with zero or negative values are dropped.
func NewPieChart(title string, items []Item, size float64) PieChart {
	c := PieChart{
		Title: title,
		Size:  size,
		CX:    size / 2,
		CY:    size / 2,
		R:     size/2 - margin/2,
	}

	var kept []Item
	for _, it := range items {
		if it.Value > 0 {
			kept = append(kept, it)
			c.TotalValue += it.Value
		}
	}
	if c.TotalValue == 0 {
		return c
	}

	angle := -math.Pi / 2
	for _, it := range kept {
		frac := it.Value / c.TotalValue
		sweep := frac * 2 * math.Pi
		mid := angle + sweep/2

		s := Slice{
			Item:     it,
			Fraction: frac,
			LabelX:   c.CX + 0.65*c.R*math.Cos(mid),
			LabelY:   c.CY + 0.65*c.R*math.Sin(mid),
		}
		if len(kept) == 1 {
			s.Full = true
			s.LabelX, s.LabelY = c.CX, c.CY
		} else {
			s.Path = wedge(c.CX, c.CY, c.R, angle, angle+sweep)
		}
		c.Slices = append(c.Slices, s)
		angle += sweep
	}
	return c
}

func wedge(cx, cy, r, from, to float64) string {
	x0, y0 := cx+r*math.Cos(from), cy+r*math.Sin(from)
	x1, y1 := cx+r*math.Cos(to), cy+r*math.Sin(to)
	large := 0
	if to-from > math.Pi {
		large = 1
	}
	return fmt.Sprintf("M %.2f %.2f L %.2f %.2f A %.2f %.2f 0 %d 1 %.2f %.2f Z",
		cx, cy, x0, y0, r, r, large, x1, y1)
}
