package vimdoc

import (
	"regexp"
	"strings"
)

var (
	parenExprRe   = regexp.MustCompile(`\s*\([^()]*\)`)
	apostropheRe  = regexp.MustCompile(`(\w)'(\w)`)
	colonSpaceRe  = regexp.MustCompile(`:\s+`)
	tagCharsRe    = regexp.MustCompile(`[^A-Za-z0-9_().:]+`)
	versionPartRe = regexp.MustCompile(`^\d+(\.\d+)*$`)
)

// operatorWords maps arithmetic operators to words so that tags derived from
// code fragments keep their operator semantics after sanitization.
var operatorWords = []struct{ op, word string }{
	{"+", "add"},
	{"-", "sub"},
	{"*", "mul"},
	{"/", "div"},
}

// fillerWords are dropped from tags derived from English heading text.
var fillerWords = map[string]bool{"a": true, "the": true, "and": true, "some": true}

// createTag converts arbitrary text into a help tag candidate. Tags derived
// from code fragments preserve case and collapse argument lists to bare
// parentheses; tags derived from prose are lowercased and stripped of filler.
// The prefix namespaces the tag to the document unless the candidate already
// starts with it.
func createTag(text, prefix string, isCode bool) string {
	anchor := text
	if isCode {
		for _, ow := range operatorWords {
			anchor = strings.ReplaceAll(anchor, ow.op, " "+ow.word+" ")
		}
		anchor = parenExprRe.ReplaceAllString(anchor, "()")
	} else {
		anchor = strings.ToLower(anchor)
		anchor = parenExprRe.ReplaceAllString(anchor, "")
		anchor = apostropheRe.ReplaceAllString(anchor, "$1$2")
		anchor = colonSpaceRe.ReplaceAllString(anchor, " ")
		var kept []string
		for _, token := range strings.Fields(anchor) {
			if !fillerWords[token] {
				kept = append(kept, token)
			}
		}
		anchor = strings.Join(kept, " ")
	}
	if prefix != "" && !strings.HasPrefix(strings.ToLower(anchor), strings.ToLower(prefix)) {
		anchor = prefix + "-" + anchor
	}
	anchor = tagCharsRe.ReplaceAllString(anchor, "-")
	return strings.Trim(anchor, "-")
}

// tagPrefix derives the tag namespace from the help file name: the .txt
// suffix and a trailing version number ("plugin-1.2.txt") are stripped.
func tagPrefix(filename string) string {
	name := strings.TrimSuffix(filename, ".txt")
	if i := strings.LastIndex(name, "-"); i > 0 && versionPartRe.MatchString(name[i+1:]) {
		name = name[:i]
	}
	return name
}
