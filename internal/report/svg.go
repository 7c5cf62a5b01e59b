package report

import (
	"fmt"
	"html"
	"math"
	"strings"
)

// Palette is shared by the SVG and PDF renderers; series i uses Palette[i%len].
var Palette = []string{"#8884d8", "#82ca9d", "#ffc658", "#ff7300", "#a4de6c", "#d0ed57", "#888888"}

const (
	chartWidth   = 600
	chartHeight  = 400
	chartPadding = 50
)

// SeriesColor returns the palette color for the i-th series.
func SeriesColor(i int) string {
	return Palette[i%len(Palette)]
}

// niceMax rounds the top of the y axis up so gridlines land on whole values.
func niceMax(v float64) float64 {
	if v <= 0 {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(v)))
	for _, step := range []float64{1, 2, 5, 10} {
		if top := step * mag; top >= v {
			return top
		}
	}
	return 10 * mag
}

// LineChartSVG draws one polyline per series against match number.
func LineChartSVG(title string, series []Series) string {
	width, height, padding := chartWidth, chartHeight, chartPadding
	plotW := float64(width - 2*padding)
	plotH := float64(height - 2*padding)

	n := 0
	var top float64
	for _, s := range series {
		if len(s.Points) > n {
			n = len(s.Points)
		}
		top = math.Max(top, s.Max())
	}
	top = niceMax(top)

	xAt := func(x int) float64 {
		if n <= 1 {
			return float64(padding) + plotW/2
		}
		return float64(padding) + float64(x-1)*plotW/float64(n-1)
	}
	yAt := func(y float64) float64 {
		return float64(height-padding) - y*plotH/top
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<svg width="%d" height="%d" viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg">`, width, height, width, height))
	sb.WriteString(`<rect width="100%" height="100%" fill="#ffffff" />`)
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="30" fill="#1f2937" font-family="Arial" font-size="18" text-anchor="middle">%s</text>`, width/2, html.EscapeString(title)))

	// Grid
	for i := 0; i <= 4; i++ {
		v := top * float64(i) / 4
		y := yAt(v)
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="#e5e7eb" stroke-dasharray="3 3" />`, padding, y, width-padding, y))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%.1f" fill="#4b5563" font-family="Arial" font-size="10" text-anchor="end">%s</text>`, padding-6, y+3, formatTick(v)))
	}
	for x := 1; x <= n; x++ {
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" fill="#4b5563" font-family="Arial" font-size="10" text-anchor="middle">%d</text>`, xAt(x), height-padding+16, x))
	}

	for i, s := range series {
		color := SeriesColor(i)
		var pts []string
		for _, p := range s.Points {
			if p.Missing {
				continue
			}
			pts = append(pts, fmt.Sprintf("%.1f,%.1f", xAt(p.X), yAt(p.Y)))
		}
		if len(pts) > 1 {
			sb.WriteString(fmt.Sprintf(`<polyline points="%s" fill="none" stroke="%s" stroke-width="2" />`, strings.Join(pts, " "), color))
		}
		for _, p := range s.Points {
			if p.Missing {
				continue
			}
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="4" fill="%s"><title>%s: %s</title></circle>`, xAt(p.X), yAt(p.Y), color, html.EscapeString(s.Label), formatTick(p.Y)))
		}

		// Legend
		lx := padding + i*110
		sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="10" height="10" fill="%s" />`, lx, height-18, color))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" fill="#1f2937" font-family="Arial" font-size="11">%s</text>`, lx+14, height-9, html.EscapeString(s.Label)))
	}

	// Axes
	sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#374151" stroke-width="2" />`, padding, height-padding, width-padding, height-padding))
	sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#374151" stroke-width="2" />`, padding, padding, padding, height-padding))

	sb.WriteString(`</svg>`)
	return sb.String()
}

// BarChartSVG draws one bar per category count.
func BarChartSVG(title string, counts []CategoryCount, color string) string {
	width, height, padding := chartWidth, chartHeight, chartPadding
	maxBarHeight := height - 2*padding

	var maxVal int
	for _, c := range counts {
		if c.Count > maxVal {
			maxVal = c.Count
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<svg width="%d" height="%d" viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg">`, width, height, width, height))
	sb.WriteString(`<rect width="100%" height="100%" fill="#ffffff" />`)
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="30" fill="#1f2937" font-family="Arial" font-size="18" text-anchor="middle">%s</text>`, width/2, html.EscapeString(title)))

	if len(counts) > 0 {
		barWidth := (width - 2*padding) / len(counts)
		for i, c := range counts {
			barHeight := 0
			if maxVal > 0 {
				barHeight = c.Count * maxBarHeight / maxVal
			}
			x := padding + i*barWidth
			y := height - padding - barHeight

			sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s" rx="4" />`, x+5, y, barWidth-10, barHeight, color))
			sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" fill="#1f2937" font-family="Arial" font-size="12" text-anchor="middle">%s</text>`, x+barWidth/2, height-padding+18, html.EscapeString(c.Label)))
			sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" fill="#1f2937" font-family="Arial" font-size="10" text-anchor="middle">%d</text>`, x+barWidth/2, y-5, c.Count))
		}
	}

	sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#374151" stroke-width="2" />`, padding, height-padding, width-padding, height-padding))
	sb.WriteString(`</svg>`)
	return sb.String()
}

func formatTick(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
