// ABOUTME: Tests for PDF snapshot export
// ABOUTME: Output file creation, scaling guards and color parsing

package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pagemark/inkstore/pkg/geometry"
	"github.com/pagemark/inkstore/pkg/stroke"
)

func TestPageToPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.pdf")

	strokes := []stroke.Stroke{
		{
			ID: "s1", Tool: stroke.ToolPen, Color: "#336699", Width: 2,
			Points: []geometry.Point{{X: 10, Y: 10}, {X: 400, Y: 300}, {X: 420, Y: 700}},
		},
		{
			ID: "s2", Tool: stroke.ToolHighlighter, Color: "#ffee00", Width: 4,
			Points: []geometry.Point{{X: 50, Y: 500}, {X: 600, Y: 500}},
		},
	}

	if err := PageToPDF(path, strokes, 800, 1100); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Expected output file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected non-empty PDF")
	}
}

func TestPageToPDFRejectsBadDimensions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.pdf")
	if err := PageToPDF(path, nil, 0, 1100); err == nil {
		t.Error("Expected error for zero page width")
	}
}

func TestParseHexColor(t *testing.T) {
	cases := []struct {
		in      string
		r, g, b int
	}{
		{"#ff0000", 255, 0, 0},
		{"#00ff7f", 0, 255, 127},
		{"336699", 0x33, 0x66, 0x99},
		{"not-a-color", 0, 0, 0},
		{"", 0, 0, 0},
	}

	for _, tc := range cases {
		r, g, b := parseHexColor(tc.in)
		if r != tc.r || g != tc.g || b != tc.b {
			t.Errorf("parseHexColor(%q) = (%d, %d, %d), want (%d, %d, %d)",
				tc.in, r, g, b, tc.r, tc.g, tc.b)
		}
	}
}
