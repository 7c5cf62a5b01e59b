package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"
)

// Page geometry in millimetres (A4 portrait).
const (
	pdfMargin      = 10.0
	pdfChartWidth  = 180.0
	pdfChartHeight = 90.0
	pdfPageLimit   = 280.0
)

// Section is one chart of an exported report. Exactly one of Series or Counts
// is drawn: a line chart when Series is set, a bar chart otherwise.
type Section struct {
	Label  string
	Series []Series
	Counts []CategoryCount
	Color  string
}

// WritePDF renders the title and one labelled chart per section. A section that
// would cross the bottom line starts a new page.
func WritePDF(w io.Writer, title string, sections []Section) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.AddPage()

	y := pdfMargin
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(pdfMargin, y+5, tr(title))
	y += 12

	for _, sec := range sections {
		if y+5+pdfChartHeight > pdfPageLimit {
			pdf.AddPage()
			y = pdfMargin
		}

		pdf.SetFont("Helvetica", "", 12)
		pdf.SetTextColor(0, 0, 0)
		pdf.Text(pdfMargin, y+4, tr(sec.Label))
		y += 6

		if len(sec.Series) > 0 {
			drawLineChart(pdf, tr, pdfMargin, y, sec.Series)
		} else {
			drawBarChart(pdf, tr, pdfMargin, y, sec.Counts, sec.Color)
		}
		y += pdfChartHeight + 10
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("rendering pdf: %w", err)
	}
	return pdf.Output(w)
}

func drawAxes(pdf *fpdf.Fpdf, x, y float64) {
	pdf.SetDrawColor(55, 65, 81)
	pdf.SetLineWidth(0.4)
	pdf.Line(x, y+pdfChartHeight, x+pdfChartWidth, y+pdfChartHeight)
	pdf.Line(x, y, x, y+pdfChartHeight)
}

func drawLineChart(pdf *fpdf.Fpdf, tr func(string) string, x, y float64, series []Series) {
	const inset = 10.0
	plotX := x + inset
	plotW := pdfChartWidth - inset
	plotH := pdfChartHeight - 12

	n := 0
	var top float64
	for _, s := range series {
		if len(s.Points) > n {
			n = len(s.Points)
		}
		if m := s.Max(); m > top {
			top = m
		}
	}
	top = niceMax(top)

	xAt := func(i int) float64 {
		if n <= 1 {
			return plotX + plotW/2
		}
		return plotX + float64(i-1)*plotW/float64(n-1)
	}
	yAt := func(v float64) float64 {
		return y + plotH - v*plotH/top
	}

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(75, 85, 99)
	pdf.SetDrawColor(229, 231, 235)
	pdf.SetLineWidth(0.2)
	for i := 0; i <= 4; i++ {
		v := top * float64(i) / 4
		pdf.Line(plotX, yAt(v), plotX+plotW, yAt(v))
		pdf.Text(x, yAt(v)+1, formatTick(v))
	}
	for i := 1; i <= n; i++ {
		pdf.Text(xAt(i)-1, y+plotH+4, strconv.Itoa(i))
	}

	pdf.SetDrawColor(55, 65, 81)
	pdf.SetLineWidth(0.4)
	pdf.Line(plotX, y+plotH, plotX+plotW, y+plotH)
	pdf.Line(plotX, y, plotX, y+plotH)

	for si, s := range series {
		r, g, b := hexColor(SeriesColor(si))
		pdf.SetDrawColor(r, g, b)
		pdf.SetFillColor(r, g, b)
		pdf.SetLineWidth(0.6)

		var prev *Point
		for i := range s.Points {
			p := s.Points[i]
			if p.Missing {
				continue
			}
			if prev != nil {
				pdf.Line(xAt(prev.X), yAt(prev.Y), xAt(p.X), yAt(p.Y))
			}
			pdf.Circle(xAt(p.X), yAt(p.Y), 0.8, "F")
			prev = &s.Points[i]
		}

		lx := plotX + float64(si)*40
		ly := y + pdfChartHeight - 3
		pdf.Rect(lx, ly-2, 2.5, 2.5, "F")
		pdf.SetTextColor(31, 41, 55)
		pdf.Text(lx+3.5, ly, tr(s.Label))
	}
}

func drawBarChart(pdf *fpdf.Fpdf, tr func(string) string, x, y float64, counts []CategoryCount, color string) {
	drawAxes(pdf, x, y)
	if len(counts) == 0 {
		return
	}

	maxVal := 0
	for _, c := range counts {
		if c.Count > maxVal {
			maxVal = c.Count
		}
	}

	r, g, b := hexColor(color)
	pdf.SetFillColor(r, g, b)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(31, 41, 55)

	maxBarHeight := pdfChartHeight - 14
	barWidth := pdfChartWidth / float64(len(counts))
	for i, c := range counts {
		h := float64(c.Count) * maxBarHeight / float64(maxVal)
		bx := x + float64(i)*barWidth
		by := y + pdfChartHeight - h
		pdf.Rect(bx+2, by, barWidth-4, h, "F")

		count := strconv.Itoa(c.Count)
		pdf.Text(bx+barWidth/2-pdf.GetStringWidth(count)/2, by-1.5, count)
		label := tr(c.Label)
		pdf.Text(bx+barWidth/2-pdf.GetStringWidth(label)/2, y+pdfChartHeight+4, label)
	}
}

// hexColor parses "#rrggbb"; anything else is grey.
func hexColor(s string) (int, int, int) {
	if len(s) != 7 || s[0] != '#' {
		return 136, 136, 136
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return 136, 136, 136
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
