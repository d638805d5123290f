package vimdoc

import (
	"strings"

	"golang.org/x/net/html"
)

// simplify maps a parsed HTML node to a simplified document tree node. The
// builder never fails: elements without a registered mapping degrade to a
// generic sequence that preserves their content, and non-content nodes
// (comments, doctypes) yield nil.
func simplify(n *html.Node) Node {
	switch n.Type {
	case html.TextNode:
		return &Text{Value: n.Data}
	case html.ElementNode:
		if mapped := simplifyElement(n); mapped != nil {
			return mapped
		}
		return simplifyChildren(n)
	case html.DocumentNode:
		return simplifyChildren(n)
	default:
		// Comments, doctypes and raw nodes carry nothing renderable.
		return nil
	}
}

// simplifyElement applies the type-specific parse rule for elements with a
// registered mapping. It returns nil for unregistered elements.
func simplifyElement(n *html.Node) Node {
	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		h := &Heading{Level: int(n.Data[1] - '0')}
		h.kids = childNodes(n)
		return h
	case "p":
		p := &Paragraph{}
		p.kids = childNodes(n)
		return p
	case "pre":
		return &Pre{Text: trimBlankLines(dedent(textContent(n)))}
	case "ul", "ol":
		l := &List{Ordered: n.Data == "ol"}
		l.kids = childNodes(n)
		return l
	case "li":
		li := &ListItem{}
		li.kids = childNodes(n)
		return li
	case "table":
		t := &Table{}
		t.kids = childNodes(n)
		return t
	case "a":
		a := &Link{Target: attr(n, "href")}
		a.kids = childNodes(n)
		return a
	case "img":
		return &Image{Src: attr(n, "src"), Alt: attr(n, "alt")}
	case "code", "tt":
		return &Code{Text: textContent(n)}
	case "em", "i":
		e := &Emphasis{}
		e.kids = childNodes(n)
		return e
	case "strong", "b":
		s := &Strong{}
		s.kids = childNodes(n)
		return s
	}
	return nil
}

// simplifyChildren simplifies the children of an HTML node and wraps them in
// a generic sequence. Block level content anywhere among the children forces
// a block level wrapper, so inline content is never silently dropped inside
// a block context.
func simplifyChildren(n *html.Node) Node {
	kids := childNodes(n)
	for _, k := range kids {
		if isBlock(k) {
			seq := &BlockSeq{}
			seq.kids = kids
			return seq
		}
	}
	seq := &InlineSeq{}
	seq.kids = kids
	return seq
}

// childNodes simplifies the children of an HTML node into a flat slice,
// unwrapping the generic sequence produced by simplifyChildren.
func childNodes(n *html.Node) []Node {
	var kids []Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch mapped := simplify(c).(type) {
		case nil:
		case *BlockSeq:
			kids = append(kids, mapped.kids...)
		case *InlineSeq:
			kids = append(kids, mapped.kids...)
		default:
			kids = append(kids, mapped)
		}
	}
	return kids
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// textContent concatenates all descendant text verbatim, ignoring markup.
func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

// dedent removes the longest common leading whitespace prefix shared by all
// non-blank lines.
func dedent(text string) string {
	lines := strings.Split(text, "\n")
	margin := ""
	found := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if !found {
			margin = indent
			found = true
			continue
		}
		for !strings.HasPrefix(indent, margin) {
			margin = margin[:len(margin)-1]
		}
	}
	if margin == "" {
		return text
	}
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines[i] = strings.TrimPrefix(line, margin)
	}
	return strings.Join(lines, "\n")
}

// trimBlankLines strips leading and trailing blank lines.
func trimBlankLines(text string) string {
	lines := strings.Split(text, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
