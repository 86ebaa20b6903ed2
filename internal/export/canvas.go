package export

// Font families understood by every Canvas.
const (
	FontHelvetica = "Helvetica"
	FontDingbats  = "ZapfDingbats"
)

// Status glyphs in the ZapfDingbats encoding.
const (
	GlyphCheck  = "4"
	GlyphCircle = "m"
)

// Color is an RGB triple.
type Color struct {
	R, G, B int
}

var (
	colorBlack     = Color{0x00, 0x00, 0x00}
	colorGrey      = Color{0x66, 0x66, 0x66}
	colorLightGrey = Color{0x88, 0x88, 0x88}
	colorNotes     = Color{0x33, 0x33, 0x33}
	colorRule      = Color{0xcc, 0xcc, 0xcc}
	colorDone      = Color{0x00, 0x80, 0x00}
	colorPending   = Color{0xff, 0x00, 0x00}
)

// Canvas is the drawing surface the layout pass renders onto. Coordinates are
// points from the top-left corner of the page; y is the top of the text line.
type Canvas interface {
	AddPage()
	SetFont(family string, bold bool, size float64)
	SetTextColor(c Color)
	SetDrawColor(c Color)
	Text(x, y float64, s string)
	TextWidth(s string) float64
	Line(x1, y1, x2, y2, width float64)
}
