package vimdoc

import (
	"testing"
)

func heading(level int, text string) *Heading {
	h := &Heading{Level: level}
	h.kids = []Node{&Text{Value: text}}
	return h
}

func seqOf(kids ...Node) *BlockSeq {
	seq := &BlockSeq{}
	seq.kids = kids
	linkParents(seq)
	return seq
}

func TestShiftHeadings(t *testing.T) {
	tree := seqOf(heading(2, "A"), heading(3, "B"))
	shiftHeadings(tree)
	headings := collect[*Heading](tree)
	if headings[0].Level != 1 || headings[1].Level != 2 {
		t.Errorf("expected levels 1 and 2, got %d and %d", headings[0].Level, headings[1].Level)
	}
	// Shifting an already settled tree must change nothing.
	shiftHeadings(tree)
	if headings[0].Level != 1 || headings[1].Level != 2 {
		t.Errorf("shift is not idempotent: got %d and %d", headings[0].Level, headings[1].Level)
	}
}

func TestShiftHeadings_NoHeadings(t *testing.T) {
	tree := seqOf(&Paragraph{})
	shiftHeadings(tree) // must not panic
}

func TestFindReferences_DedupAndNumber(t *testing.T) {
	tree := buildBody(t, `<p><a href="http://a/1">one</a><a href="http://a/1">again</a><a href="http://a/2">two</a></p>`)
	opts := DefaultOptions()
	findReferences(tree, &opts)

	links := collect[*Link](tree)
	if links[0].Ref == nil || links[0].Ref.Number != 1 {
		t.Fatalf("expected first link numbered 1, got %+v", links[0].Ref)
	}
	if links[1].Ref != links[0].Ref {
		t.Errorf("duplicate target did not share the reference")
	}
	if links[2].Ref == nil || links[2].Ref.Number != 2 {
		t.Errorf("expected dense numbering 2, got %+v", links[2].Ref)
	}

	refs := collect[*Reference](tree)
	if len(refs) != 2 {
		t.Fatalf("expected 2 appended references, got %d", len(refs))
	}
	headings := collect[*Heading](tree)
	if len(headings) != 1 || inlineText(headings[0].kids) != "References" {
		t.Errorf("expected appended References heading, got %d headings", len(headings))
	}
}

func TestFindReferences_SkipsNonExternal(t *testing.T) {
	tree := buildBody(t, `<p><a href="#frag">anchor</a><a href="relative/path">rel</a><a>empty</a></p>`)
	opts := DefaultOptions()
	findReferences(tree, &opts)
	if refs := collect[*Reference](tree); len(refs) != 0 {
		t.Errorf("expected no references, got %d", len(refs))
	}
}

func TestFindReferences_IgnoredTarget(t *testing.T) {
	tree := buildBody(t, `<p><a href="http://www.vim.org/">homepage</a></p>`)
	opts := DefaultOptions()
	opts.IgnoredLinkTargets = []string{"http://www.vim.org/"}
	findReferences(tree, &opts)
	if refs := collect[*Reference](tree); len(refs) != 0 {
		t.Errorf("expected ignored target to produce no reference, got %d", len(refs))
	}
}

func TestFindReferences_LiteralURLNotNumbered(t *testing.T) {
	tree := buildBody(t, `<p><a href="http://x.example/">http://x.example/</a></p>`)
	opts := DefaultOptions()
	findReferences(tree, &opts)
	if refs := collect[*Reference](tree); len(refs) != 0 {
		t.Errorf("self-describing URL must not be numbered, got %d references", len(refs))
	}
}

func TestFindReferences_BaseURLResolution(t *testing.T) {
	tree := buildBody(t, `<p><a href="../x.html">x</a></p>`)
	opts := DefaultOptions()
	opts.BaseURL = "http://example.com/doc/sub/"
	findReferences(tree, &opts)
	refs := collect[*Reference](tree)
	if len(refs) != 1 {
		t.Fatalf("expected 1 reference, got %d", len(refs))
	}
	if refs[0].Target != "http://example.com/doc/x.html" {
		t.Errorf("expected resolved target, got %q", refs[0].Target)
	}
}

func TestFindReferences_DocLinkRewritten(t *testing.T) {
	tree := buildBody(t, `<p><a href="http://vimdoc.sourceforge.net/htmldoc/options.html#'autoindent'">the option</a></p>`)
	opts := DefaultOptions()
	opts.ExternalDocPrefix = "http://vimdoc.sourceforge.net/htmldoc/"
	findReferences(tree, &opts)

	if refs := collect[*Reference](tree); len(refs) != 0 {
		t.Fatalf("doc link must be rewritten, not numbered; got %d references", len(refs))
	}
	links := collect[*Link](tree)
	if links[0].Target != "" {
		t.Errorf("expected cleared target, got %q", links[0].Target)
	}
	if text := inlineText(links[0].kids); text != "the option (see |'autoindent'|)" {
		t.Errorf("unexpected rewritten text %q", text)
	}
}

func TestFindReferences_DocLinkAnchorInText(t *testing.T) {
	tree := buildBody(t, `<p><a href="http://vimdoc.sourceforge.net/htmldoc/options.html#'autoindent'">set 'autoindent' for this</a></p>`)
	opts := DefaultOptions()
	opts.ExternalDocPrefix = "http://vimdoc.sourceforge.net/htmldoc/"
	findReferences(tree, &opts)
	links := collect[*Link](tree)
	if text := inlineText(links[0].kids); text != "set |'autoindent'| for this" {
		t.Errorf("unexpected rewritten text %q", text)
	}
}

func TestTagHeadings_FirstWriterWins(t *testing.T) {
	tree := seqOf(heading(1, "Usage"), heading(2, "Usage"))
	opts := DefaultOptions()
	tagHeadings(tree, "plug.txt", &opts)
	headings := collect[*Heading](tree)
	if headings[0].Tag != "plug-usage" {
		t.Errorf("expected first heading tagged plug-usage, got %q", headings[0].Tag)
	}
	if headings[1].Tag != "" {
		t.Errorf("expected colliding heading untagged, got %q", headings[1].Tag)
	}
}

func TestTagHeadings_CodeFragmentPreferred(t *testing.T) {
	tree := buildBody(t, "<h2>The <code>setup()</code> function</h2>")
	opts := DefaultOptions()
	tagHeadings(tree, "plug.txt", &opts)
	h := collect[*Heading](tree)[0]
	if h.Tag != "plug-setup()" {
		t.Errorf("expected tag from code fragment, got %q", h.Tag)
	}
	if h.TagSource != "setup()" {
		t.Errorf("expected tag source setup(), got %q", h.TagSource)
	}
}

func TestGenerateTOC_CounterStack(t *testing.T) {
	tree := seqOf(
		heading(1, "A"), heading(2, "B"), heading(2, "C"),
		heading(1, "D"), heading(2, "E"),
	)
	generateTOC(tree)

	entries := collect[*TOCEntry](tree)
	if len(entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(entries))
	}
	wantNumbers := []int{1, 1, 2, 2, 1}
	wantIndents := []int{1, 2, 2, 1, 2}
	for i, e := range entries {
		if e.Number != wantNumbers[i] {
			t.Errorf("entry %d: number %d, want %d", i, e.Number, wantNumbers[i])
		}
		if e.Indent != wantIndents[i] {
			t.Errorf("entry %d: indent %d, want %d", i, e.Indent, wantIndents[i])
		}
	}

	first, ok := tree.kids[0].(*Heading)
	if !ok || inlineText(first.kids) != "Contents" {
		t.Errorf("expected prepended Contents heading, got %T", tree.kids[0])
	}
}

func TestGenerateTOC_NoHeadings(t *testing.T) {
	tree := seqOf(&Paragraph{})
	generateTOC(tree)
	if len(tree.kids) != 1 {
		t.Errorf("expected no Contents section without headings, got %d children", len(tree.kids))
	}
}

func TestPruneEmpty(t *testing.T) {
	tree := buildBody(t, "<p></p><p>Hi</p><p>   </p>")
	pruneEmpty(tree)
	paras := collect[*Paragraph](tree)
	if len(paras) != 1 {
		t.Fatalf("expected 1 surviving paragraph, got %d", len(paras))
	}
	if text := inlineText(paras[0].kids); text != "Hi" {
		t.Errorf("wrong paragraph survived: %q", text)
	}
}
