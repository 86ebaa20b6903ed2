package export

import (
	"fmt"
	"strings"

	"github.com/mitchellh/go-wordwrap"
	"golang.org/x/net/html"
)

// WrapWidth is the column at which converted notes and descriptions wrap.
const WrapWidth = 80

type listState struct {
	ordered bool
	n       int
}

// textWriter accumulates plain-text lines while walking HTML tokens.
type textWriter struct {
	lines []string
	cur   strings.Builder
	lists []listState
	skip  int
	pre   int
	// prefix is the length of a list marker written to cur with no item
	// text behind it yet.
	prefix int
}

func (w *textWriter) flush() {
	line := strings.TrimRight(w.cur.String(), " ")
	w.cur.Reset()
	w.prefix = 0

	if strings.TrimSpace(line) != "" {
		w.lines = append(w.lines, line)
	}
}

// breakLine ends the current line. A bare list marker stays put so the
// item's first block lands on the marker line.
func (w *textWriter) breakLine() {
	if w.cur.Len() > w.prefix {
		w.flush()
	}
}

// hardBreak ends the current line even when it is empty.
func (w *textWriter) hardBreak() {
	line := strings.TrimRight(w.cur.String(), " ")
	w.cur.Reset()
	w.prefix = 0
	w.lines = append(w.lines, line)
}

// paragraph ends the current line and leaves one blank line behind it.
// Inside lists blocks only break lines.
func (w *textWriter) paragraph() {
	w.breakLine()

	if len(w.lists) > 0 || w.prefix > 0 {
		return
	}

	if n := len(w.lines); n > 0 && w.lines[n-1] != "" {
		w.lines = append(w.lines, "")
	}
}

// space writes one separating space unless the line is empty or already
// ends with whitespace.
func (w *textWriter) space() {
	if n := w.cur.Len(); n > 0 && !isSpace(w.cur.String()[n-1]) {
		w.cur.WriteByte(' ')
	}
}

func (w *textWriter) text(s string) {
	if w.skip > 0 {
		return
	}

	if w.pre > 0 {
		for i, part := range strings.Split(s, "\n") {
			if i > 0 {
				w.hardBreak()
			}

			w.cur.WriteString(part)
		}

		return
	}

	collapsed := strings.Join(strings.Fields(s), " ")
	if collapsed == "" {
		if s != "" {
			w.space()
		}

		return
	}

	if isSpace(s[0]) {
		w.space()
	}

	w.cur.WriteString(collapsed)

	if isSpace(s[len(s)-1]) {
		w.space()
	}
}

func (w *textWriter) dropMarker() {
	if w.prefix > 0 && w.cur.Len() == w.prefix {
		w.cur.Reset()
		w.prefix = 0
	}
}

func (w *textWriter) startItem() {
	w.dropMarker()
	w.breakLine()

	defer func() { w.prefix = w.cur.Len() }()

	if len(w.lists) == 0 {
		w.cur.WriteString("• ")
		return
	}

	top := &w.lists[len(w.lists)-1]
	top.n++

	w.cur.WriteString(strings.Repeat("  ", len(w.lists)-1))

	if top.ordered {
		fmt.Fprintf(&w.cur, "%d. ", top.n)
	} else {
		w.cur.WriteString("• ")
	}
}

func (w *textWriter) start(tag string) {
	switch tag {
	case "script", "style", "head", "title":
		w.skip++
	case "br":
		w.hardBreak()
	case "p", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote", "table":
		w.paragraph()
	case "pre":
		w.paragraph()
		w.pre++
	case "div", "section", "article", "header", "footer", "tr", "hr":
		w.breakLine()
	case "ul", "ol":
		w.breakLine()
		w.lists = append(w.lists, listState{ordered: tag == "ol"})
	case "li":
		w.startItem()
	case "td", "th":
		if w.cur.Len() > 0 {
			w.cur.WriteString("\t")
		}
	}
}

func (w *textWriter) end(tag string) {
	switch tag {
	case "script", "style", "head", "title":
		if w.skip > 0 {
			w.skip--
		}
	case "p", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote", "table":
		w.paragraph()
	case "pre":
		if w.pre > 0 {
			w.pre--
		}

		w.paragraph()
	case "div", "section", "article", "header", "footer", "tr":
		w.breakLine()
	case "li":
		w.dropMarker()
		w.breakLine()
	case "ul", "ol":
		w.breakLine()

		if n := len(w.lists); n > 0 {
			w.lists = w.lists[:n-1]
		}

		if len(w.lists) == 0 {
			w.paragraph()
		}
	}
}

// HTMLToText converts rich-text HTML into plain lines: block elements break
// lines, list items get a bullet or ordinal prefix, entities are decoded and
// every line is wrapped at width columns.
func HTMLToText(src string, width int) string {
	w := &textWriter{}
	z := html.NewTokenizer(strings.NewReader(src))

loop:
	for {
		switch tt := z.Next(); tt {
		case html.ErrorToken:
			// io.EOF or malformed input; keep what was read so far
			break loop
		case html.TextToken:
			w.text(string(z.Text()))
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			w.start(string(name))

			if tt == html.SelfClosingTagToken {
				w.end(string(name))
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			w.end(string(name))
		}
	}

	w.breakLine()

	lines := w.lines
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}

	if width > 0 {
		for i, line := range lines {
			lines[i] = wordwrap.WrapString(line, uint(width))
		}
	}

	return strings.Join(lines, "\n")
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}
