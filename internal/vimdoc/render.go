package vimdoc

import (
	"fmt"
	"strings"
)

// listDensityThreshold is the average rendered line count per list item
// above which items are separated by blank lines instead of single breaks.
// Empirical constant from the reference behavior.
const listDensityThreshold = 1.5

// fragment is one element of the flat render output: either literal text or
// a block delimiter subject to deduplication.
type fragment struct {
	text  string
	delim bool
}

func lit(s string) fragment       { return fragment{text: s} }
func mark(d Delimiter) fragment   { return fragment{text: d.Text, delim: true} }
func (f fragment) blank() bool    { return strings.TrimSpace(f.text) == "" }
func (f fragment) String() string { return f.text }

// renderNode renders a block level node and its subtree into a flat
// fragment sequence. The indent is threaded top-down; each block type
// decides how its children are indented.
func renderNode(n Node, indent int) ([]fragment, error) {
	switch t := n.(type) {
	case *BlockSeq:
		inner, err := joinBlocks(t.kids, indent)
		if err != nil {
			return nil, err
		}
		return blockFrags(t, inner), nil
	case *Heading:
		return blockFrags(t, []fragment{lit(renderHeading(t, indent))}), nil
	case *Paragraph:
		// A paragraph whose sole content is an image is indented by a
		// minimum of two spaces.
		if len(t.kids) == 1 && len(collect[*Image](t)) == 1 && indent < 2 {
			indent = 2
		}
		return blockFrags(t, []fragment{lit(joinInline(t.kids, indent))}), nil
	case *Pre:
		prefix := strings.Repeat(" ", max(indent, 2))
		lines := strings.Split(t.Text, "\n")
		for i, line := range lines {
			lines[i] = prefix + line
		}
		return blockFrags(t, []fragment{lit(strings.Join(lines, "\n"))}), nil
	case *List:
		return renderList(t, indent)
	case *ListItem:
		// List items are rendered by their owning list so the list can pick
		// one delimiter for all items.
		return renderListItem(t, false, 1, indent)
	case *Table:
		// Table rendering is not supported.
		return nil, nil
	case *Reference:
		return blockFrags(t, []fragment{lit(fmt.Sprintf("[%d] %s", t.Number, t.Target))}), nil
	case *TOCEntry:
		return blockFrags(t, []fragment{lit(renderTOCEntry(t))}), nil
	default:
		// An inline node in block position is wrapped like a paragraph body.
		if s := joinInline([]Node{n}, indent); s != "" {
			return []fragment{lit(s)}, nil
		}
		return nil, nil
	}
}

func blockFrags(n BlockNode, inner []fragment) []fragment {
	start, end := n.Delimiters()
	out := make([]fragment, 0, len(inner)+2)
	out = append(out, mark(start))
	out = append(out, inner...)
	out = append(out, mark(end))
	return out
}

// joinBlocks renders a mixed sequence of block and inline nodes. Inline
// nodes that are direct children of a block context still get whitespace
// compaction and wrapping. Blank literals are dropped.
func joinBlocks(nodes []Node, indent int) ([]fragment, error) {
	var out []fragment
	for _, n := range nodes {
		if !isBlock(n) {
			if s := joinInline([]Node{n}, indent); strings.TrimSpace(s) != "" {
				out = append(out, lit(s))
			}
			continue
		}
		frags, err := renderNode(n, indent)
		if err != nil {
			return nil, err
		}
		for _, f := range frags {
			if !f.delim && f.blank() {
				continue
			}
			out = append(out, f)
		}
	}
	return out, nil
}

func renderHeading(h *Heading, indent int) string {
	rule := "-"
	if h.Level == 1 {
		rule = "="
	}
	lines := []string{strings.Repeat(rule, textWidth)}
	prefix := strings.Repeat(" ", indent)
	text := inlineText(h.kids)

	// When the tag was derived from a code fragment still present in the
	// heading text, embed the anchor inline and skip the highlight marker.
	if h.Tag != "" && h.TagSource != "" && strings.Contains(text, h.TagSource) {
		embedded := strings.Replace(text, h.TagSource, "*"+h.Tag+"*", 1)
		for _, l := range wrapText(embedded, textWidth-indent) {
			lines = append(lines, prefix+l)
		}
		return strings.Join(lines, "\n")
	}

	if h.Tag != "" {
		anchor := "*" + h.Tag + "*"
		pad := max(textWidth-len(anchor), 0)
		lines = append(lines, strings.Repeat(" ", pad)+anchor)
	}
	// Leave room for the trailing " ~" highlight marker.
	for _, l := range wrapText(text, textWidth-indent-2) {
		lines = append(lines, prefix+l+" ~")
	}
	return strings.Join(lines, "\n")
}

func renderTOCEntry(e *TOCEntry) string {
	text := strings.Repeat(" ", e.Indent) + fmt.Sprintf("%d. ", e.Number) + e.Text
	if e.Tag != "" {
		tag := "|" + e.Tag + "|"
		padding := max(textWidth-len(text)-len(tag), 1)
		text += strings.Repeat(" ", padding) + tag
	}
	return text
}

func renderList(l *List, indent int) ([]fragment, error) {
	var items [][]fragment
	totalLines := 0
	for _, kid := range l.kids {
		li, ok := kid.(*ListItem)
		if !ok {
			continue
		}
		frags, err := renderListItem(li, l.Ordered, len(items)+1, indent)
		if err != nil {
			return nil, err
		}
		items = append(items, frags)
		totalLines += lineCount(frags)
	}
	if len(items) == 0 {
		return nil, ErrEmptyList
	}

	sep := lineBreak
	if float64(totalLines)/float64(len(items)) > listDensityThreshold {
		sep = blankLine
	}
	start, end := l.Delimiters()
	out := []fragment{mark(start)}
	for i, item := range items {
		if i > 0 {
			out = append(out, mark(sep))
		}
		out = append(out, item...)
	}
	out = append(out, mark(end))
	return out, nil
}

// renderListItem renders a list item prefixed by its bullet. Child content
// is indented by the printed width of the bullet; the item itself emits no
// delimiters because the owning list chooses one for all items.
func renderListItem(li *ListItem, ordered bool, number, indent int) ([]fragment, error) {
	prefix := strings.Repeat(" ", indent)
	if ordered {
		prefix += fmt.Sprintf("%d. ", number)
	} else {
		prefix += "- "
	}

	var frags []fragment
	if anyBlock(li.kids) {
		var err error
		frags, err = joinBlocks(li.kids, len(prefix))
		if err != nil {
			return nil, err
		}
	} else if s := joinInline(li.kids, len(prefix)); s != "" {
		frags = []fragment{lit(s)}
	}

	// The first line already gets its indentation from the bullet prefix.
	for len(frags) > 0 && frags[0].delim && frags[0].blank() {
		frags = frags[1:]
	}
	if len(frags) > 0 && !frags[0].delim {
		s := frags[0].text
		for i := 0; i < len(prefix) && s != "" && (s[0] == ' ' || s[0] == '\t' || s[0] == '\n'); i++ {
			s = s[1:]
		}
		frags[0].text = s
	}
	return append([]fragment{lit(prefix)}, frags...), nil
}

func anyBlock(nodes []Node) bool {
	for _, n := range nodes {
		if isBlock(n) {
			return true
		}
	}
	return false
}

func lineCount(frags []fragment) int {
	n := 1
	for _, f := range frags {
		if !f.delim {
			n += strings.Count(f.text, "\n")
		}
	}
	return n
}

// joinInline renders a sequence of inline nodes into compacted, wrapped,
// indented text.
func joinInline(nodes []Node, indent int) string {
	text := inlineText(nodes)
	if text == "" {
		return ""
	}
	prefix := strings.Repeat(" ", indent)
	lines := wrapText(text, textWidth-indent)
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// inlineText renders inline nodes to a single compacted string without
// wrapping. The passes use it to compare link text against targets and to
// derive heading text for tags and the table of contents.
func inlineText(nodes []Node) string {
	var buf strings.Builder
	for _, n := range nodes {
		buf.WriteString(inlineString(n))
	}
	return compact(buf.String())
}

func inlineString(n Node) string {
	switch t := n.(type) {
	case *Text:
		return t.Value
	case *Code:
		return renderCode(t)
	case *Link:
		return renderLink(t)
	case *Image:
		return renderImage(t)
	case *Emphasis:
		return "*" + childString(t) + "*"
	case *Strong:
		return "**" + childString(t) + "**"
	default:
		return childString(n)
	}
}

func childString(n Node) string {
	var buf strings.Builder
	for _, c := range n.Children() {
		buf.WriteString(inlineString(c))
	}
	return buf.String()
}

// renderCode quotes a code fragment with back ticks, falling back to single
// quotes when the content itself contains one. Fragments inside headings and
// fragments consisting only of whitespace or back ticks render literally.
func renderCode(c *Code) string {
	if insideHeading(c) || strings.Trim(c.Text, "` \t\r\n") == "" {
		return c.Text
	}
	if strings.Contains(c.Text, "`") {
		return "'" + c.Text + "'"
	}
	return "`" + c.Text + "`"
}

func renderLink(l *Link) string {
	var text string
	if images := collect[*Image](l); len(l.kids) == 1 && len(images) == 1 {
		text = "Image: " + images[0].Alt
	} else {
		text = childString(l)
	}
	if l.Ref != nil {
		text = fmt.Sprintf("%s [%d]", text, l.Ref.Number)
	}
	return text
}

func renderImage(img *Image) string {
	if img.Ref != nil {
		return fmt.Sprintf("Image: %s (see reference [%d])", img.Alt, img.Ref.Number)
	}
	alt := img.Alt
	if alt == "" {
		alt = "(unlabeled image)"
	}
	return "Image: " + alt
}

// dedupDelimiters collapses adjacent delimiter pairs: content delimiters win
// over whitespace ones, longer delimiters win over shorter ones, and ties
// between whitespace delimiters keep a single copy. Leading and trailing
// whitespace delimiters are stripped from the whole sequence.
func dedupDelimiters(frags []fragment) []fragment {
	out := frags
	i := 0
	for i < len(out)-1 {
		a, b := out[i], out[i+1]
		if a.delim && b.delim {
			switch {
			case a.blank() && !b.blank():
				out = append(out[:i], out[i+1:]...)
				continue
			case b.blank() && !a.blank():
				out = append(out[:i+1], out[i+2:]...)
				continue
			case len(a.text) < len(b.text):
				out = append(out[:i], out[i+1:]...)
				continue
			case len(a.text) > len(b.text):
				out = append(out[:i+1], out[i+2:]...)
				continue
			case a.blank():
				out = append(out[:i], out[i+1:]...)
				continue
			}
		}
		i++
	}
	for len(out) > 0 && out[0].delim && out[0].blank() {
		out = out[1:]
	}
	for len(out) > 0 && out[len(out)-1].delim && out[len(out)-1].blank() {
		out = out[:len(out)-1]
	}
	return out
}

func assemble(frags []fragment) string {
	var buf strings.Builder
	for _, f := range frags {
		buf.WriteString(f.text)
	}
	return buf.String()
}
