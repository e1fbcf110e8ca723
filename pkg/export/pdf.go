// ABOUTME: PDF snapshot export of a page's annotation set
// ABOUTME: Renders committed strokes with per-tool color, width and opacity

package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/pagemark/inkstore/pkg/stroke"
)

// A4 dimensions in millimetres, portrait.
const (
	a4WidthMM  = 210.0
	a4HeightMM = 297.0
)

// PageToPDF writes the strokes of one page to a single-page A4 PDF at
// path. Document-space coordinates are scaled uniformly so the page
// dimensions fit the sheet.
func PageToPDF(path string, strokes []stroke.Stroke, pageWidth, pageHeight float64) error {
	if pageWidth <= 0 || pageHeight <= 0 {
		return fmt.Errorf("export: invalid page dimensions %vx%v", pageWidth, pageHeight)
	}

	scale := a4WidthMM / pageWidth
	if s := a4HeightMM / pageHeight; s < scale {
		scale = s
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	for _, st := range strokes {
		r, g, b := parseHexColor(st.Color)
		pdf.SetDrawColor(r, g, b)

		width := st.Width
		alpha := 1.0
		if st.Tool == stroke.ToolHighlighter {
			width *= 3
			alpha = 0.30
		}
		pdf.SetLineWidth(width * scale)
		pdf.SetAlpha(alpha, "Normal")
		pdf.SetLineCapStyle("round")
		pdf.SetLineJoinStyle("round")

		for i := 1; i < len(st.Points); i++ {
			pdf.Line(
				st.Points[i-1].X*scale, st.Points[i-1].Y*scale,
				st.Points[i].X*scale, st.Points[i].Y*scale,
			)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// parseHexColor reads a "#rrggbb" color, defaulting to black on any
// malformed input.
func parseHexColor(c string) (int, int, int) {
	c = strings.TrimPrefix(c, "#")
	if len(c) != 6 {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(c, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
