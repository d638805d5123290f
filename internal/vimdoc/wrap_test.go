package vimdoc

import (
	"strings"
	"testing"
)

func TestCompact(t *testing.T) {
	got := compact("  hello \n\t world  ")
	if got != "hello world" {
		t.Errorf("expected %q, got %q", "hello world", got)
	}
}

func TestWrapText_RespectsWidth(t *testing.T) {
	text := strings.Repeat("word ", 40)
	for _, line := range wrapText(compact(text), 30) {
		if len(line) > 30 {
			t.Errorf("line exceeds width 30: %q (%d chars)", line, len(line))
		}
	}
}

func TestWrapText_SentenceSpacing(t *testing.T) {
	lines := wrapText("First sentence. Second one", 79)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0] != "First sentence.  Second one" {
		t.Errorf("expected double space after sentence, got %q", lines[0])
	}
}

func TestWrapText_NoDoubleSpaceBeforeLowercase(t *testing.T) {
	lines := wrapText("e.g. something", 79)
	if lines[0] != "e.g. something" {
		t.Errorf("expected single space, got %q", lines[0])
	}
}

func TestWrapText_TagMarkerZeroWidth(t *testing.T) {
	// The pipe characters are concealed by Vim and must not count toward
	// the line width.
	text := "aaaa |bbbb| cccc"
	lines := wrapText(text, 14)
	if len(lines) != 1 {
		t.Errorf("expected tag markers to be zero width, got lines %q", lines)
	}
}

func TestWrapText_LongTagTokenNotBroken(t *testing.T) {
	// A long token carrying a tag reference may exceed the width instead of
	// being split mid-token.
	token := "|" + strings.Repeat("x", 30) + "|"
	lines := wrapText("start "+token, 30)
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, token) {
		t.Errorf("tag token was broken across lines: %q", lines)
	}
}

func TestWrapText_Empty(t *testing.T) {
	if lines := wrapText("", 79); lines != nil {
		t.Errorf("expected no lines for empty input, got %q", lines)
	}
}
