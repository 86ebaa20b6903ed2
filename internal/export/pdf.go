package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// ascent approximates the Helvetica ascender as a fraction of the font size;
// it turns a line top into the baseline fpdf expects.
const ascent = 0.8

// pdfCanvas draws onto a Letter-sized fpdf document measured in points.
// Text goes through the core fonts' cp1252 encoding, so characters outside
// it (Cyrillic, Greek, CJK, emoji) print as '.'.
type pdfCanvas struct {
	pdf  *fpdf.Fpdf
	tr   func(string) string
	size float64
}

func newPDFCanvas(title string, compress bool) *pdfCanvas {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(marginLeft, pageTop, marginLeft)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(compress)
	pdf.SetTitle(title, true)
	pdf.SetCreator("todo", true)
	pdf.AddPage()

	return &pdfCanvas{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (c *pdfCanvas) AddPage() {
	c.pdf.AddPage()
}

func (c *pdfCanvas) SetFont(family string, bold bool, size float64) {
	style := ""
	if bold {
		style = "B"
	}

	c.pdf.SetFont(family, style, size)
	c.size = size
}

func (c *pdfCanvas) SetTextColor(col Color) {
	c.pdf.SetTextColor(col.R, col.G, col.B)
}

func (c *pdfCanvas) SetDrawColor(col Color) {
	c.pdf.SetDrawColor(col.R, col.G, col.B)
}

func (c *pdfCanvas) Text(x, y float64, s string) {
	c.pdf.Text(x, y+c.size*ascent, c.tr(s))
}

func (c *pdfCanvas) TextWidth(s string) float64 {
	return c.pdf.GetStringWidth(c.tr(s))
}

func (c *pdfCanvas) Line(x1, y1, x2, y2, width float64) {
	c.pdf.SetLineWidth(width)
	c.pdf.Line(x1, y1, x2, y2)
}

func (c *pdfCanvas) bytes() ([]byte, error) {
	var buf bytes.Buffer

	if err := c.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}

	return buf.Bytes(), nil
}

// RenderPDF renders doc into PDF bytes and reports the page count.
func RenderPDF(doc Document, compress bool) ([]byte, int, error) {
	c := newPDFCanvas(doc.title(), compress)
	Render(c, doc)

	if err := c.pdf.Error(); err != nil {
		return nil, 0, fmt.Errorf("rendering pdf: %w", err)
	}

	pages := c.pdf.PageCount()

	data, err := c.bytes()
	if err != nil {
		return nil, 0, err
	}

	return data, pages, nil
}
