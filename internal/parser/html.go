package parser

import "io"

// HTMLParser handles HTML files. The converter parses HTML itself, so this
// is a passthrough.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) ([]byte, error) {
	return io.ReadAll(r)
}
