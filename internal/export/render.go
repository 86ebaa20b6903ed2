package export

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/inovacc/todo/internal/model"
)

// FallbackTitle is printed when the project has no title.
const FallbackTitle = "Todo List Export"

const (
	marginLeft   = 50.0
	notesLeft    = 70.0
	ruleRight    = 550.0
	pageTop      = 50.0
	pageBreakAt  = 700.0
	textWidth    = ruleRight - marginLeft
	titleLeading = 28.0
	itemLeading  = 17.0
	timestampFmt = "Jan 2, 2006, 3:04:05 PM"
	dateFmt      = "Jan 2, 2006"
)

var listLine = regexp.MustCompile(`^\s*([•\-*]|\d+\.)`)

// Document is the data a single export renders.
type Document struct {
	Title       string
	Description string
	Todos       []model.TodoItem
	GeneratedAt time.Time
	Location    *time.Location
}

func (d Document) title() string {
	if d.Title == "" {
		return FallbackTitle
	}

	return d.Title
}

func (d Document) format(t time.Time, layout string) string {
	loc := d.Location
	if loc == nil {
		loc = time.Local
	}

	return t.In(loc).Format(layout)
}

// Render lays the document out onto c, starting on the current page, and
// returns the number of pages it added.
func Render(c Canvas, doc Document) int {
	added := 0

	c.SetFont(FontHelvetica, true, 24)
	c.SetTextColor(colorBlack)

	y := 80.0 + drawWrapped(c, pageTop, titleLeading, doc.title())

	if strings.TrimSpace(doc.Description) != "" {
		text := HTMLToText(doc.Description, WrapWidth)

		c.SetFont(FontHelvetica, false, 12)
		c.SetTextColor(colorGrey)

		for i, line := range strings.Split(text, "\n") {
			c.Text(marginLeft, y+float64(i)*14, line)
		}

		rows := math.Ceil(float64(utf8.RuneCountInString(text)) / WrapWidth)
		y += math.Max(30, rows*12)
	}

	c.SetFont(FontHelvetica, false, 10)
	c.SetTextColor(colorLightGrey)
	c.Text(marginLeft, y, "Generated on: "+doc.format(doc.GeneratedAt, dateFmt))
	y += 30

	total := len(doc.Todos)
	done := model.CountCompleted(doc.Todos)

	c.SetFont(FontHelvetica, false, 12)
	c.SetTextColor(colorBlack)
	c.Text(marginLeft, y, Summary(total, done))
	y += 30

	for i, item := range doc.Todos {
		if y > pageBreakAt {
			c.AddPage()
			added++

			y = pageTop
		}

		c.SetFont(FontHelvetica, true, 14)
		c.SetTextColor(colorBlack)
		y += 20 + drawWrapped(c, y, itemLeading, fmt.Sprintf("%d. %s", i+1, item.Text))

		drawStatus(c, y, item.Completed)
		y += 15

		if strings.TrimSpace(item.Notes) != "" {
			y = drawNotes(c, y, item.Notes)
		}

		c.SetFont(FontHelvetica, false, 9)
		c.SetTextColor(colorGrey)
		c.Text(marginLeft, y, doc.timestamps(item))
		y += 25

		c.SetDrawColor(colorRule)
		c.Line(marginLeft, y, ruleRight, y, 1)
		y += 15
	}

	return added
}

// drawWrapped draws s at the left margin wrapped to the text width and
// returns the height taken by lines after the first.
func drawWrapped(c Canvas, y, leading float64, s string) float64 {
	lines := wrapText(c, s, textWidth)
	for i, line := range lines {
		c.Text(marginLeft, y+float64(i)*leading, line)
	}

	return float64(len(lines)-1) * leading
}

// wrapText breaks s into lines no wider than width in the current font.
// Words wider than a whole line are split between runes.
func wrapText(c Canvas, s string, width float64) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{s}
	}

	var (
		lines []string
		cur   string
	)

	for _, word := range words {
		for c.TextWidth(word) > width {
			if cur != "" {
				lines = append(lines, cur)
				cur = ""
			}

			head, tail := splitRunes(c, word, width)
			lines = append(lines, head)
			word = tail
		}

		switch {
		case cur == "":
			cur = word
		case c.TextWidth(cur+" "+word) > width:
			lines = append(lines, cur)
			cur = word
		default:
			cur += " " + word
		}
	}

	if cur != "" {
		lines = append(lines, cur)
	}

	return lines
}

// splitRunes returns the longest prefix of word that fits width (at least
// one rune) and the rest.
func splitRunes(c Canvas, word string, width float64) (string, string) {
	runes := []rune(word)

	n := 1
	for n < len(runes) && c.TextWidth(string(runes[:n+1])) <= width {
		n++
	}

	return string(runes[:n]), string(runes[n:])
}

// Summary returns the totals line printed above the items.
func Summary(total, completed int) string {
	return fmt.Sprintf("Total items: %d | Completed: %d | Pending: %d", total, completed, total-completed)
}

func drawStatus(c Canvas, y float64, completed bool) {
	glyph, label, color := GlyphCircle, "PENDING", colorPending
	if completed {
		glyph, label, color = GlyphCheck, "COMPLETED", colorDone
	}

	c.SetTextColor(color)
	c.SetFont(FontDingbats, false, 10)
	c.Text(marginLeft, y, glyph)

	x := marginLeft + c.TextWidth(glyph)

	c.SetFont(FontHelvetica, false, 10)
	c.Text(x, y, " "+label)
}

func drawNotes(c Canvas, y float64, notes string) float64 {
	c.SetFont(FontHelvetica, false, 10)
	c.SetTextColor(colorNotes)
	c.Text(marginLeft, y, "Notes:")
	y += 12

	c.SetFont(FontHelvetica, false, 9)

	for _, line := range strings.Split(HTMLToText(notes, WrapWidth), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			y += 6
			continue
		}

		if listLine.MatchString(line) {
			trimmed = "  " + trimmed
		}

		c.Text(notesLeft, y, trimmed)
		y += 12
	}

	return y + 5
}

func (d Document) timestamps(item model.TodoItem) string {
	var b strings.Builder

	b.WriteString("Created: ")
	b.WriteString(d.format(item.CreatedAt, timestampFmt))

	if !item.UpdatedAt.IsZero() && !item.UpdatedAt.Equal(item.CreatedAt) {
		b.WriteString(" | Updated: ")
		b.WriteString(d.format(item.UpdatedAt, timestampFmt))
	}

	if item.CompletedAt != nil {
		b.WriteString(" | Completed: ")
		b.WriteString(d.format(*item.CompletedAt, timestampFmt))
	}

	return b.String()
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Filename derives the download name from the project title and export date.
func Filename(title string, date time.Time) string {
	if title == "" {
		title = FallbackTitle
	}

	slug := strings.ToLower(nonAlnum.ReplaceAllString(title, "_"))

	return slug + "-" + date.Format("2006-01-02") + ".pdf"
}
