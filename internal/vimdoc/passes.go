package vimdoc

import (
	"net/url"
	"strings"
)

// The passes below mutate the simplified tree in place and must run in the
// order they appear here: parent linking comes first because the tagging and
// reference passes inspect ancestry, heading shifting must settle levels
// before tags and the table of contents are derived from them, and reference
// extraction appends the References section that the later passes see as
// ordinary headings.

// linkParents assigns every node's parent back-reference in one traversal
// from the root.
func linkParents(root Node) {
	var recurse func(n, parent Node)
	recurse = func(n, parent Node) {
		n.setParent(parent)
		for _, c := range n.Children() {
			recurse(c, n)
		}
	}
	recurse(root, nil)
}

// shiftHeadings renumbers heading levels so the shallowest heading present
// becomes level 1. Documents without headings are left untouched.
func shiftHeadings(root Node) {
	headings := collect[*Heading](root)
	if len(headings) == 0 {
		return
	}
	min := headings[0].Level
	for _, h := range headings {
		if h.Level < min {
			min = h.Level
		}
	}
	if min <= 1 {
		return
	}
	for _, h := range headings {
		h.Level -= min - 1
	}
}

// findReferences scans the tree in document order for hyperlinks and images
// pointing at external targets. Distinct absolute targets are numbered in
// first-encounter order and deduplicated; qualifying nodes receive the
// shared Reference. Links into the configured external documentation are
// rewritten in place into help tag references instead. When any numbered
// references were created, a References section is appended to the root.
func findReferences(root *BlockSeq, opts *Options) {
	log := opts.logger()
	byTarget := make(map[string]*Reference)
	var refs []*Reference

	assign := func(set func(*Reference), target string) {
		r, ok := byTarget[target]
		if !ok {
			r = &Reference{Number: len(refs) + 1, Target: target}
			byTarget[target] = r
			refs = append(refs, r)
			log.Debug("extracted reference", "number", r.Number, "target", target)
		}
		set(r)
	}

	walk(root, func(n Node) {
		var target string
		switch t := n.(type) {
		case *Link:
			target = t.Target
		case *Image:
			target = t.Src
		default:
			return
		}
		if target == "" || strings.HasPrefix(target, "#") {
			return
		}
		if opts.ignoredTarget(target) {
			log.Debug("skipping ignored link target", "target", target)
			return
		}
		if link, ok := n.(*Link); ok &&
			opts.ExternalDocPrefix != "" &&
			strings.HasPrefix(target, opts.ExternalDocPrefix) &&
			!insideHeading(link) {
			if rewriteDocLink(link) {
				return
			}
			// Malformed anchor, fall through to ordinary numbering.
		}
		normalized := normalizeTarget(target, opts.BaseURL)
		if !strings.Contains(normalized, "://") {
			return
		}
		switch t := n.(type) {
		case *Link:
			if normalized == inlineText(t.kids) {
				// A literal URL describes itself, numbering it is redundant.
				return
			}
			assign(func(r *Reference) { t.Ref = r }, normalized)
		case *Image:
			assign(func(r *Reference) { t.Ref = r }, normalized)
		}
	})

	if len(refs) == 0 {
		return
	}
	root.kids = append(root.kids, syntheticHeading("References"))
	for _, r := range refs {
		root.kids = append(root.kids, r)
	}
}

// rewriteDocLink turns a link into the external documentation into an inline
// help tag reference, reusing the anchor text when it already appears in the
// link text. It reports false when the target carries no decodable anchor.
func rewriteDocLink(link *Link) bool {
	_, frag, ok := strings.Cut(link.Target, "#")
	if !ok || frag == "" {
		return false
	}
	anchor, err := url.PathUnescape(frag)
	if err != nil {
		return false
	}
	text := inlineText(link.kids)
	if strings.Contains(text, anchor) {
		text = strings.ReplaceAll(text, anchor, "|"+anchor+"|")
	} else {
		text += " (see |" + anchor + "|)"
	}
	link.kids = []Node{&Text{Value: text}}
	link.Target = ""
	return true
}

// normalizeTarget percent-decodes a link target and, when a base URL is
// configured, resolves it to absolute form so that equivalent targets
// deduplicate to one reference.
func normalizeTarget(target, baseURL string) string {
	if decoded, err := url.PathUnescape(target); err == nil {
		target = decoded
	}
	if baseURL == "" {
		return target
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return target
	}
	ref, err := url.Parse(target)
	if err != nil {
		return target
	}
	return base.ResolveReference(ref).String()
}

// tagHeadings assigns a unique help anchor to each heading in document
// order. A code fragment inside the heading is the preferred source; the
// compacted heading text is the fallback. On collision the heading is left
// untagged: the first writer wins and no disambiguating suffix is invented.
func tagHeadings(root Node, filename string, opts *Options) {
	log := opts.logger()
	prefix := tagPrefix(filename)
	seen := make(map[string]bool)
	for _, h := range collect[*Heading](root) {
		for _, code := range collect[*Code](h) {
			tag := createTag(code.Text, prefix, true)
			if tag != "" && !seen[tag] {
				h.Tag = tag
				h.TagSource = code.Text
				break
			}
		}
		if h.Tag == "" {
			text := inlineText(h.kids)
			tag := createTag(text, prefix, false)
			if tag != "" && !seen[tag] {
				h.Tag = tag
				h.TagSource = ""
			} else if tag != "" {
				log.Debug("tag collision, leaving heading untagged", "tag", tag, "heading", text)
			}
		}
		if h.Tag != "" {
			seen[h.Tag] = true
		}
	}
}

// generateTOC synthesizes one table of contents entry per heading, numbered
// by a per-level counter stack, and prepends a Contents section to the root.
func generateTOC(root *BlockSeq) {
	var entries []Node
	var counters []int
	for _, h := range collect[*Heading](root) {
		if h.Level < len(counters) {
			counters = counters[:h.Level]
		}
		for len(counters) < h.Level {
			counters = append(counters, 1)
		}
		entries = append(entries, &TOCEntry{
			Number: counters[h.Level-1],
			Text:   inlineText(h.kids),
			Indent: h.Level,
			Tag:    h.Tag,
		})
		counters[h.Level-1]++
	}
	if len(entries) == 0 {
		return
	}
	seq := &BlockSeq{}
	seq.kids = entries
	root.kids = append([]Node{syntheticHeading("Contents"), seq}, root.kids...)
}

// pruneEmpty removes block and inline nodes without renderable content,
// bottom-up, so that empty wrappers contribute neither text nor delimiters.
func pruneEmpty(root Node) {
	var recurse func(n Node)
	recurse = func(n Node) {
		c, ok := n.(interface{ replaceChildren([]Node) })
		if !ok {
			return
		}
		var kept []Node
		for _, child := range n.Children() {
			recurse(child)
			if nonEmpty(child) {
				kept = append(kept, child)
			}
		}
		c.replaceChildren(kept)
	}
	recurse(root)
}

func (c *container) replaceChildren(kids []Node) { c.kids = kids }

func syntheticHeading(text string) *Heading {
	h := &Heading{Level: 1}
	h.kids = []Node{&Text{Value: text}}
	return h
}
