package vimdoc

import (
	"strings"
	"unicode"
)

// textWidth is the fixed width of generated help files.
const textWidth = 79

// compact collapses whitespace runs into single spaces and trims the sides.
func compact(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// wrapText greedily packs the words of compacted text into lines of at most
// width characters. Help tag markers (|) are counted as zero width because
// Vim conceals them. A long word is allowed to exceed the width when it is
// at least width/3 characters, the current line is still under width/0.8 and
// the prospective line stays under width*1.2; this keeps tag references from
// being broken mid-token. Sentence-ending punctuation followed by a
// capitalized word receives a double space.
func wrapText(text string, width int) []string {
	var lines []string
	cline := ""
	for _, word := range strings.Fields(text) {
		wordLen := len(strings.ReplaceAll(word, "|", ""))
		test := len(strings.ReplaceAll(cline, "|", "")) + wordLen + 1
		fits := test <= width
		overflow := wordLen >= width/3 &&
			float64(len(cline)) < float64(width)/0.8 &&
			float64(test) < float64(width)*1.2
		if fits || overflow {
			if cline == "" {
				cline = word
			} else if endsSentence(cline) && startsUpper(word) {
				cline += "  " + word
			} else {
				cline += " " + word
			}
		} else {
			lines = append(lines, cline)
			cline = word
		}
	}
	if cline != "" {
		lines = append(lines, cline)
	}
	return lines
}

func endsSentence(s string) bool {
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, "?") || strings.HasSuffix(s, "!")
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}
