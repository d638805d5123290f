package vimdoc

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// DefaultModeline is appended to generated help files unless overridden.
const DefaultModeline = "vim: ft=help"

// DefaultContentSelector locates the content subtree when the caller does
// not provide one. The document body is the fallback, then the whole
// document.
const DefaultContentSelector = "#content"

// Options configures a single conversion.
type Options struct {
	// Title overrides automatic title detection from the <title> element or
	// the first heading.
	Title string

	// Filename identifies the generated help file: it becomes the document
	// tag on the first output line and, stripped of its .txt and version
	// suffixes, the namespace prefix for generated anchors.
	Filename string

	// BaseURL resolves relative link and image targets to absolute form for
	// reference deduplication.
	BaseURL string

	// ContentSelector is a CSS selector locating the subtree to convert.
	ContentSelector string

	// SelectorsToIgnore removes matching subtrees before conversion.
	SelectorsToIgnore []string

	// IgnoredLinkTargets are literal URLs (typically the project homepage)
	// excluded from reference numbering.
	IgnoredLinkTargets []string

	// ExternalDocPrefix marks link targets that are rewritten into bare
	// help tag references instead of numbered references.
	ExternalDocPrefix string

	// Modeline is appended verbatim at the end of the output unless blank.
	Modeline string

	// Logger receives informational messages about non-fatal degradations
	// (tag collisions, skipped references). Nil disables logging.
	Logger *slog.Logger
}

// DefaultOptions returns options with the conventional selector and
// modeline filled in.
func DefaultOptions() Options {
	return Options{
		ContentSelector: DefaultContentSelector,
		Modeline:        DefaultModeline,
	}
}

func (o *Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (o *Options) ignoredTarget(target string) bool {
	for _, t := range o.IgnoredLinkTargets {
		if target == t {
			return true
		}
	}
	return false
}

// Convert parses an HTML document and converts it to the Vim help file
// format.
func Convert(input []byte, opts Options) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(input))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	for _, sel := range opts.SelectorsToIgnore {
		doc.Find(sel).Remove()
	}

	if opts.Title == "" {
		opts.Title = compact(doc.Find("title, h1").First().Text())
	}

	return ConvertNode(findRoot(doc, opts.ContentSelector), opts)
}

// findRoot locates the most specific node that keeps all content worth
// converting: the caller's selector first, then the document body, then the
// whole document.
func findRoot(doc *goquery.Document, selector string) *html.Node {
	if selector != "" {
		if sel := doc.Find(selector); len(sel.Nodes) > 0 {
			return sel.Nodes[0]
		}
	}
	if body := doc.Find("body"); len(body.Nodes) > 0 {
		return body.Nodes[0]
	}
	return doc.Get(0)
}

// ConvertNode converts an already parsed HTML subtree. The tree is
// simplified once, rewritten by the ordered passes and rendered; no state is
// shared between conversions.
func ConvertNode(root *html.Node, opts Options) (string, error) {
	tree := wrapRoot(simplify(root))

	linkParents(tree)
	shiftHeadings(tree)
	findReferences(tree, &opts)
	tagHeadings(tree, opts.Filename, &opts)
	generateTOC(tree)
	// Synthetic sections need parent links too before rendering.
	linkParents(tree)
	pruneEmpty(tree)

	frags, err := renderNode(tree, 0)
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	body := assemble(dedupDelimiters(frags))

	var out strings.Builder
	if opts.Filename != "" || opts.Title != "" {
		var first []string
		if opts.Filename != "" {
			first = append(first, "*"+opts.Filename+"*")
		}
		if opts.Title != "" {
			first = append(first, opts.Title)
		}
		out.WriteString(strings.Join(first, "  "))
		out.WriteString("\n\n")
	}
	out.WriteString(body)
	if strings.TrimSpace(opts.Modeline) != "" {
		out.WriteString("\n\n")
		out.WriteString(opts.Modeline)
	}
	return out.String(), nil
}

// wrapRoot guarantees the tree root is a block sequence that the passes can
// append synthetic sections to.
func wrapRoot(n Node) *BlockSeq {
	if seq, ok := n.(*BlockSeq); ok {
		return seq
	}
	seq := &BlockSeq{}
	if n != nil {
		seq.kids = []Node{n}
	}
	return seq
}
