package export

import (
	"strings"
	"testing"
)

func TestHTMLToText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain text", in: "just words", want: "just words"},
		{name: "paragraphs", in: "<p>Hello &amp; welcome</p><p>Second</p>", want: "Hello & welcome\n\nSecond"},
		{name: "line breaks", in: "line one<br>line two<br/>line three", want: "line one\nline two\nline three"},
		{name: "divs", in: "<div>a</div><div>b</div>", want: "a\nb"},
		{name: "bullets", in: "<ul><li>one</li><li>two</li></ul>", want: "• one\n• two"},
		{name: "ordered", in: "<ol><li>first</li><li>second</li></ol>", want: "1. first\n2. second"},
		{name: "list then paragraph", in: "<ul><li>a</li></ul><p>after</p>", want: "• a\n\nafter"},
		{name: "paragraph inside item", in: "<ol><li><p>wrapped</p></li></ol>", want: "1. wrapped"},
		{name: "empty item", in: "<ul><li></li><li>x</li></ul>", want: "• x"},
		{name: "paragraphs in items", in: "<ul><li><p>one</p></li><li><p>two</p></li></ul>", want: "• one\n• two"},
		{name: "empty paragraph item", in: "<ul><li><p></p></li><li>x</li></ul>", want: "• x"},
		{name: "adjacent inline tags", in: "<b>a</b> <i>b</i><span> c</span>", want: "a b c"},
		{name: "inline markup", in: "<p>a <b>bold</b> <i>move</i></p>", want: "a bold move"},
		{name: "collapses whitespace", in: "<p>  spaced \n\n  out  </p>", want: "spaced out"},
		{name: "drops scripts", in: "<script>alert(1)</script>ok", want: "ok"},
		{name: "entities", in: "&lt;tag&gt; &quot;q&quot; &#8212;", want: "<tag> \"q\" —"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTMLToText(tt.in, WrapWidth); got != tt.want {
				t.Errorf("HTMLToText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHTMLToText_Nested(t *testing.T) {
	got := HTMLToText("<ul><li>a<ul><li>b</li></ul></li><li>c</li></ul>", 0)

	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %q", len(lines), got)
	}

	if lines[1] != "  • b" {
		t.Errorf("nested item = %q, want %q", lines[1], "  • b")
	}

	if lines[2] != "• c" {
		t.Errorf("last item = %q, want %q", lines[2], "• c")
	}
}

func TestHTMLToText_Wraps(t *testing.T) {
	words := strings.TrimSpace(strings.Repeat("word ", 50))

	got := HTMLToText("<p>"+words+"</p>", WrapWidth)

	if len(got) != len(words) {
		t.Errorf("wrapping changed length: got %d, want %d", len(got), len(words))
	}

	for _, line := range strings.Split(got, "\n") {
		if len(line) > WrapWidth {
			t.Errorf("line longer than %d columns: %q", WrapWidth, line)
		}
	}

	if !strings.Contains(got, "\n") {
		t.Error("expected the paragraph to wrap")
	}
}
