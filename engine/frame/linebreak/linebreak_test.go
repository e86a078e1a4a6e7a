package linebreak

import (
	"testing"

	"github.com/foliopress/folio/core/dimen"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// measureRunes charges one pixel per code-point.
func measureRunes(text string) dimen.Dimen {
	return dimen.FromPx(float64(len([]rune(text))))
}

func px(n int) dimen.Dimen {
	return dimen.Dimen(n) * dimen.PX
}

func lineTexts(lines []LineBox) []string {
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}
	return texts
}

func expectLines(t *testing.T, lines []LineBox, want ...string) {
	t.Helper()
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(lines), lineTexts(lines))
	}
	for i, w := range want {
		if lines[i].Text != w {
			t.Errorf("line %d: expected %q, got %q", i, w, lines[i].Text)
		}
	}
}

func TestBreakFastPath(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.frame")
	defer teardown()
	//
	lines := BreakParagraph("hello world", measureRunes, px(20), Options{})
	expectLines(t, lines, "hello world")
	if lines[0].SpaceCount != 1 {
		t.Errorf("expected 1 space, got %d", lines[0].SpaceCount)
	}
	if lines[0].Width != px(11) {
		t.Errorf("expected line width 11px, got %v", lines[0].Width)
	}
	if lines[0].TargetWidth != px(20) {
		t.Errorf("expected target width 20px, got %v", lines[0].TargetWidth)
	}
}

func TestBreakEmptyParagraph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.frame")
	defer teardown()
	//
	if lines := BreakParagraph("", measureRunes, px(10), Options{}); len(lines) != 0 {
		t.Errorf("expected no lines for empty text, got %d", len(lines))
	}
	if lines := BreakParagraph("  \n ", measureRunes, px(10), Options{}); len(lines) != 0 {
		t.Errorf("expected no lines for whitespace-only text, got %d", len(lines))
	}
}

func TestBreakTwoLines(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.frame")
	defer teardown()
	//
	lines := BreakParagraph("hello world", measureRunes, px(7), Options{})
	expectLines(t, lines, "hello", "world")
	for _, l := range lines {
		if l.Width != px(5) {
			t.Errorf("expected trimmed line width 5px, got %v", l.Width)
		}
	}
}

func TestBreakPrefersBalancedLines(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.frame")
	defer teardown()
	//
	// first-fit would produce "aaaa bbbb" / "cc"; squared slack prefers
	// the evenly filled pair of lines
	lines := BreakParagraph("aaaa bbbb cc", measureRunes, px(10), Options{})
	expectLines(t, lines, "aaaa", "bbbb cc")
}

func TestBreakCollapsesWhitespaceRuns(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.frame")
	defer teardown()
	//
	lines := BreakParagraph("a \t\n  b", measureRunes, px(20), Options{})
	expectLines(t, lines, "a b")
}

func TestBreakOverflowWrap(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.frame")
	defer teardown()
	//
	lines := BreakParagraph("abcdefghij", measureRunes, px(4), Options{OverflowWrap: true})
	expectLines(t, lines, "abcd", "efgh", "ij")
}

func TestBreakOversizeWordFallsBack(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.frame")
	defer teardown()
	//
	lines := BreakParagraph("aa bbbbbbbbbb cc", measureRunes, px(8), Options{})
	expectLines(t, lines, "aa", "bbbbbbbbbb", "cc")
	if lines[1].Width <= lines[1].TargetWidth {
		t.Errorf("expected middle line to overflow its target width")
	}
}

func TestBreakPreservesPreformatted(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.frame")
	defer teardown()
	//
	lines := BreakParagraph("a b\n  c d", measureRunes, px(2), Options{WhiteSpace: WSPre})
	expectLines(t, lines, "a b", "  c d")
	if lines[1].SpaceCount != 3 {
		t.Errorf("expected 3 spaces on second line, got %d", lines[1].SpaceCount)
	}
}

func TestBreakPreWrapKeepsSpaces(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.frame")
	defer teardown()
	//
	lines := BreakParagraph("aaa  b", measureRunes, px(5), Options{WhiteSpace: WSPreWrap})
	expectLines(t, lines, "aaa", "  b")
	if lines[1].SpaceCount != 2 {
		t.Errorf("expected preserved spaces to count, got %d", lines[1].SpaceCount)
	}
}

func TestBreakPreWrapForcedNewline(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.frame")
	defer teardown()
	//
	lines := BreakParagraph("ab\ncd", measureRunes, px(10), Options{WhiteSpace: WSPreWrap})
	expectLines(t, lines, "ab", "cd")
}
