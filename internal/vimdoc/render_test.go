package vimdoc

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func renderToString(t *testing.T, n Node) string {
	t.Helper()
	frags, err := renderNode(n, 0)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return assemble(dedupDelimiters(frags))
}

func TestRenderHeading_Level1(t *testing.T) {
	h := heading(1, "Introduction")
	h.Tag = "plug-introduction"
	lines := strings.Split(renderHeading(h, 0), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), lines)
	}
	if lines[0] != strings.Repeat("=", 79) {
		t.Errorf("expected 79-char rule, got %q", lines[0])
	}
	if len(lines[1]) != 79 || !strings.HasSuffix(lines[1], "*plug-introduction*") {
		t.Errorf("expected right-justified anchor, got %q", lines[1])
	}
	if lines[2] != "Introduction ~" {
		t.Errorf("expected highlighted heading text, got %q", lines[2])
	}
}

func TestRenderHeading_Level2Rule(t *testing.T) {
	h := heading(2, "Details")
	lines := strings.Split(renderHeading(h, 0), "\n")
	if lines[0] != strings.Repeat("-", 79) {
		t.Errorf("expected dashed rule for level 2, got %q", lines[0])
	}
	if lines[1] != "Details ~" {
		t.Errorf("untagged heading must have no anchor line, got %q", lines[1])
	}
}

func TestRenderHeading_InlineTagSource(t *testing.T) {
	h := &Heading{Level: 2, Tag: "plug-setup()", TagSource: "setup()"}
	h.kids = []Node{&Text{Value: "The "}, &Code{Text: "setup()"}, &Text{Value: " function"}}
	linkParents(h)

	lines := strings.Split(renderHeading(h, 0), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected rule plus one text line, got %q", lines)
	}
	if lines[1] != "The *plug-setup()* function" {
		t.Errorf("expected inline anchor substitution, got %q", lines[1])
	}
}

func TestRenderCode_Quoting(t *testing.T) {
	if got := renderCode(&Code{Text: "x"}); got != "`x`" {
		t.Errorf("expected back-tick quoting, got %q", got)
	}
	if got := renderCode(&Code{Text: "a`b"}); got != "'a`b'" {
		t.Errorf("expected single-quote fallback, got %q", got)
	}
	if got := renderCode(&Code{Text: "``"}); got != "``" {
		t.Errorf("expected literal rendering of bare back-ticks, got %q", got)
	}
}

func TestRenderCode_InsideHeadingLiteral(t *testing.T) {
	h := heading(1, "")
	code := &Code{Text: "raw()"}
	h.kids = []Node{code}
	linkParents(h)
	if got := renderCode(code); got != "raw()" {
		t.Errorf("code inside a heading must render literally, got %q", got)
	}
}

func TestRenderList_EmptyListFails(t *testing.T) {
	_, err := renderNode(&List{}, 0)
	if !errors.Is(err, ErrEmptyList) {
		t.Fatalf("expected ErrEmptyList, got %v", err)
	}
}

func TestRenderList_SparseSingleBreak(t *testing.T) {
	tree := buildBody(t, "<ul><li>one</li><li>two</li></ul>")
	out := renderToString(t, tree)
	if out != "- one\n- two" {
		t.Errorf("expected single line breaks between short items, got %q", out)
	}
}

func TestRenderList_DenseBlankLines(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("word ", 30))
	tree := buildBody(t, "<ul><li>"+long+"</li><li>"+long+"</li></ul>")
	out := renderToString(t, tree)
	if !strings.Contains(out, "\n\n") {
		t.Errorf("expected blank line separation for multi-line items, got %q", out)
	}
}

func TestRenderList_OrderedBullets(t *testing.T) {
	tree := buildBody(t, "<ol><li>one</li><li>two</li></ol>")
	out := renderToString(t, tree)
	if out != "1. one\n2. two" {
		t.Errorf("expected numbered bullets, got %q", out)
	}
}

func TestRenderListItem_ContinuationIndent(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("word ", 30))
	tree := buildBody(t, "<ul><li>"+long+"</li></ul>")
	out := renderToString(t, tree)
	lines := strings.Split(out, "\n")
	if len(lines) < 2 {
		t.Fatalf("expected wrapped item, got %q", out)
	}
	if !strings.HasPrefix(lines[0], "- word") {
		t.Errorf("expected bullet on first line, got %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "  word") {
		t.Errorf("expected continuation aligned under bullet text, got %q", lines[1])
	}
}

func TestRenderTOCEntry(t *testing.T) {
	e := &TOCEntry{Number: 2, Text: "Usage", Indent: 1, Tag: "plug-usage"}
	got := renderTOCEntry(e)
	if len(got) != 79 {
		t.Errorf("expected 79-char entry, got %d: %q", len(got), got)
	}
	if !strings.HasPrefix(got, " 2. Usage") {
		t.Errorf("unexpected entry prefix: %q", got)
	}
	if !strings.HasSuffix(got, "|plug-usage|") {
		t.Errorf("expected right-aligned tag reference: %q", got)
	}
}

func TestRenderTOCEntry_NoTag(t *testing.T) {
	e := &TOCEntry{Number: 1, Text: "Intro", Indent: 1}
	if got := renderTOCEntry(e); got != " 1. Intro" {
		t.Errorf("expected bare entry, got %q", got)
	}
}

func TestRenderReference(t *testing.T) {
	r := &Reference{Number: 3, Target: "http://example.com/x"}
	out := renderToString(t, r)
	if out != "[3] http://example.com/x" {
		t.Errorf("unexpected reference rendering: %q", out)
	}
}

func TestRenderLink_WithReference(t *testing.T) {
	l := &Link{Target: "http://a/"}
	l.kids = []Node{&Text{Value: "here"}}
	l.Ref = &Reference{Number: 3, Target: "http://a/"}
	if got := renderLink(l); got != "here [3]" {
		t.Errorf("unexpected link rendering: %q", got)
	}
}

func TestRenderImage(t *testing.T) {
	img := &Image{Src: "i.png", Alt: "diagram"}
	if got := renderImage(img); got != "Image: diagram" {
		t.Errorf("unexpected image rendering: %q", got)
	}
	img.Ref = &Reference{Number: 1, Target: "http://a/i.png"}
	if got := renderImage(img); got != "Image: diagram (see reference [1])" {
		t.Errorf("unexpected referenced image rendering: %q", got)
	}
	if got := renderImage(&Image{Src: "i.png"}); got != "Image: (unlabeled image)" {
		t.Errorf("unexpected unlabeled image rendering: %q", got)
	}
}

func TestDedupDelimiters_ContentBeatsWhitespace(t *testing.T) {
	frags := []fragment{lit("a"), mark(blankLine), mark(preOpen), lit("b")}
	out := assemble(dedupDelimiters(frags))
	if out != "a\n>\nb" {
		t.Errorf("expected pre marker to win over blank line, got %q", out)
	}
}

func TestDedupDelimiters_LongerWhitespaceWins(t *testing.T) {
	frags := []fragment{lit("a"), mark(lineBreak), mark(blankLine), lit("b")}
	out := assemble(dedupDelimiters(frags))
	if out != "a\n\nb" {
		t.Errorf("expected blank line to win over line break, got %q", out)
	}
}

func TestDedupDelimiters_StripsEdges(t *testing.T) {
	frags := []fragment{mark(blankLine), lit("a"), mark(blankLine)}
	out := assemble(dedupDelimiters(frags))
	if out != "a" {
		t.Errorf("expected stripped edges, got %q", out)
	}
}

func TestDedupDelimiters_Idempotent(t *testing.T) {
	frags := []fragment{
		mark(blankLine), lit("a"), mark(blankLine), mark(lineBreak),
		lit("b"), mark(preOpen), mark(blankLine), lit("c"), mark(blankLine),
	}
	once := dedupDelimiters(append([]fragment(nil), frags...))
	twice := dedupDelimiters(append([]fragment(nil), once...))
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("deduplication is not idempotent:\nonce:  %v\ntwice: %v", once, twice)
	}
}
