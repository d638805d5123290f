// Package vimdoc converts parsed HTML documents into Vim's plain text help
// file format. The conversion runs in three phases: the builder simplifies
// the HTML parse tree into the node types defined here, a fixed sequence of
// whole-tree passes rewrites the simplified tree (heading levels, anchors,
// references, table of contents), and a recursive renderer turns the tree
// into fixed-width text.
package vimdoc

import "strings"

// Delimiter is an opaque marker for the boundary between rendered blocks.
// Delimiters are not content; adjacent delimiters are collapsed by
// dedupDelimiters after rendering.
type Delimiter struct {
	Text string
}

// Blank reports whether the delimiter consists of whitespace only.
func (d Delimiter) Blank() bool {
	return strings.TrimSpace(d.Text) == ""
}

// Shared delimiter values. Preformatted blocks use the marker lines that Vim
// renders as concealed code fences.
var (
	blankLine = Delimiter{Text: "\n\n"}
	lineBreak = Delimiter{Text: "\n"}
	preOpen   = Delimiter{Text: "\n>\n"}
	preClose  = Delimiter{Text: "\n<\n"}
)

// Node is a node in the simplified document tree. Children are stored in
// document order. The parent link is assigned once, by the parent-linking
// pass, and is used only for upward queries.
type Node interface {
	Parent() Node
	Children() []Node

	setParent(Node)
}

// BlockNode is a node that owns layout (indentation and line wrapping) for
// its subtree. Every block node declares the delimiters emitted around its
// rendered content. Nodes that do not implement BlockNode are inline: their
// layout is controlled by the nearest enclosing block.
type BlockNode interface {
	Node
	Delimiters() (start, end Delimiter)
}

func isBlock(n Node) bool {
	_, ok := n.(BlockNode)
	return ok
}

// base carries the parent back-reference shared by all node types.
type base struct {
	parent Node
}

func (b *base) Parent() Node     { return b.parent }
func (b *base) setParent(p Node) { b.parent = p }
func (b *base) Children() []Node { return nil }

// container is the base for nodes that own child nodes.
type container struct {
	base
	kids []Node
}

func (c *container) Children() []Node { return c.kids }

// BlockSeq is a generic sequence of block level nodes, used for HTML
// elements without a registered mapping whose content includes block level
// children.
type BlockSeq struct {
	container
}

func (*BlockSeq) Delimiters() (Delimiter, Delimiter) { return blankLine, blankLine }

// InlineSeq is a generic sequence of inline nodes, used for HTML elements
// without a registered mapping whose content is purely inline.
type InlineSeq struct {
	container
}

// Heading is a section heading. Levels are renumbered by the shift pass so
// that the shallowest heading in the document has level 1. Tag is the help
// anchor assigned by the tagging pass, empty when the heading lost a tag
// collision. TagSource is the literal text the tag was derived from, used by
// the renderer to embed the anchor inline when possible.
type Heading struct {
	container
	Level     int
	Tag       string
	TagSource string
}

func (*Heading) Delimiters() (Delimiter, Delimiter) { return blankLine, blankLine }

// Paragraph is a paragraph of inline content.
type Paragraph struct {
	container
}

func (*Paragraph) Delimiters() (Delimiter, Delimiter) { return blankLine, blankLine }

// Pre is a preformatted text block. Text holds the dedented content with
// leading and trailing blank lines removed.
type Pre struct {
	base
	Text string
}

func (*Pre) Delimiters() (Delimiter, Delimiter) { return preOpen, preClose }

// List is an ordered or unordered list.
type List struct {
	container
	Ordered bool
}

func (*List) Delimiters() (Delimiter, Delimiter) { return blankLine, blankLine }

// ListItem is a single list item. Its bullet depends on the owning List,
// reached through the parent link.
type ListItem struct {
	container
}

func (*ListItem) Delimiters() (Delimiter, Delimiter) { return blankLine, blankLine }

// Table is tabular data. Table rendering is not supported; the node renders
// as empty output rather than failing.
type Table struct {
	container
}

func (*Table) Delimiters() (Delimiter, Delimiter) { return blankLine, blankLine }

// Reference is a synthesized, numbered entry for a deduplicated external
// link target, listed in the References appendix.
type Reference struct {
	base
	Number int
	Target string
}

func (*Reference) Delimiters() (Delimiter, Delimiter) { return lineBreak, lineBreak }

// TOCEntry is a synthesized line in the table of contents, one per heading.
type TOCEntry struct {
	base
	Number int
	Text   string
	Indent int
	Tag    string
}

func (*TOCEntry) Delimiters() (Delimiter, Delimiter) { return lineBreak, lineBreak }

// Text is a literal run of text.
type Text struct {
	base
	Value string
}

// Link is a hyperlink. Ref is assigned by the reference-extraction pass when
// the target qualifies for a numbered reference.
type Link struct {
	container
	Target string
	Ref    *Reference
}

// Image is an embedded image. Ref is assigned like Link.Ref.
type Image struct {
	base
	Src string
	Alt string
	Ref *Reference
}

// Code is an inline code fragment with HTML escaping undone.
type Code struct {
	base
	Text string
}

// Emphasis is emphasized inline content.
type Emphasis struct {
	container
}

// Strong is strongly emphasized inline content.
type Strong struct {
	container
}

// walk visits n and its descendants in document order.
func walk(n Node, visit func(Node)) {
	visit(n)
	for _, c := range n.Children() {
		walk(c, visit)
	}
}

// collect returns all descendants of root (including root itself) of the
// given concrete type, in document order.
func collect[T Node](root Node) []T {
	var out []T
	walk(root, func(n Node) {
		if t, ok := n.(T); ok {
			out = append(out, t)
		}
	})
	return out
}

// insideHeading reports whether any ancestor of n is a Heading.
func insideHeading(n Node) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if _, ok := p.(*Heading); ok {
			return true
		}
	}
	return false
}

// nonEmpty reports whether a node has renderable content. Synthesized nodes
// (references, table of contents entries) always render; containers are
// non-empty when any child is.
func nonEmpty(n Node) bool {
	switch t := n.(type) {
	case *Text:
		return strings.TrimSpace(t.Value) != ""
	case *Image:
		return t.Src != "" || t.Alt != ""
	case *Pre:
		return t.Text != ""
	case *Code:
		return t.Text != ""
	case *Reference, *TOCEntry:
		return true
	default:
		for _, c := range n.Children() {
			if nonEmpty(c) {
				return true
			}
		}
		return false
	}
}
