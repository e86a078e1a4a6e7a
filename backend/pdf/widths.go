package pdf

import (
	"fmt"
	"math"
	"strings"

	"github.com/foliopress/folio/core/font/ot"
)

// A WidthRun is one entry of a CIDFont /W array. A run with Widths == nil
// uses the homogeneous form `start end w`, covering glyphs start..end with
// a common width. Otherwise the run uses the list form `start [w …]`,
// giving an individual width to each glyph from start on.
type WidthRun struct {
	Start  int
	End    int
	Width  int
	Widths []int
}

// computeWidths derives the /DW default width and the /W width runs of a
// CIDFont from per-glyph advance widths in font units. Widths are scaled
// to glyph space (1000 units per em) first. DW is the most frequent scaled
// width; on a tie, the width seen first from glyph 0 on wins. The runs
// cover exactly the glyphs whose width differs from DW.
func computeWidths(widths []int, upem uint16) (int, []WidthRun) {
	if len(widths) == 0 || upem == 0 {
		return 0, nil
	}
	scaled := make([]int, len(widths))
	for i, w := range widths {
		scaled[i] = int(math.Round(float64(w) * 1000.0 / float64(upem)))
	}
	dw := modalWidth(scaled)
	var runs []WidthRun
	for start := 0; start < len(scaled); {
		if scaled[start] == dw {
			start++
			continue
		}
		end := start // maximal block of non-default widths
		for end+1 < len(scaled) && scaled[end+1] != dw {
			end++
		}
		runs = append(runs, blockToRuns(scaled, start, end)...)
		start = end + 1
	}
	return dw, runs
}

// modalWidth returns the most frequent width; ties resolve to the width
// first encountered.
func modalWidth(scaled []int) int {
	counts := make(map[int]int)
	firstSeen := make(map[int]int)
	for i, w := range scaled {
		counts[w]++
		if _, ok := firstSeen[w]; !ok {
			firstSeen[w] = i
		}
	}
	dw := scaled[0]
	for w, n := range counts {
		if n > counts[dw] || (n == counts[dw] && firstSeen[w] < firstSeen[dw]) {
			dw = w
		}
	}
	return dw
}

// blockToRuns splits a contiguous block of non-default widths into runs.
// Stretches of two or more identical widths become a homogeneous run,
// mixed neighbors collect into a list run.
func blockToRuns(scaled []int, start, end int) []WidthRun {
	var runs []WidthRun
	sameAhead := func(i int) int { // length of the identical stretch at i
		n := 1
		for i+n <= end && scaled[i+n] == scaled[i] {
			n++
		}
		return n
	}
	i := start
	for i <= end {
		if n := sameAhead(i); n >= 2 {
			runs = append(runs, WidthRun{Start: i, End: i + n - 1, Width: scaled[i]})
			i += n
			continue
		}
		listStart := i
		var list []int
		for i <= end && sameAhead(i) < 2 {
			list = append(list, scaled[i])
			i++
		}
		runs = append(runs, WidthRun{Start: listStart, End: listStart + len(list) - 1, Widths: list})
	}
	return runs
}

// widthFor reconstructs the width of a glyph from DW and the width runs.
func widthFor(gid int, dw int, runs []WidthRun) int {
	for _, run := range runs {
		if gid < run.Start || gid > run.End {
			continue
		}
		if run.Widths == nil {
			return run.Width
		}
		return run.Widths[gid-run.Start]
	}
	return dw
}

// formatWidths renders width runs as a PDF /W array.
func formatWidths(runs []WidthRun) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, run := range runs {
		if i > 0 {
			b.WriteByte(' ')
		}
		if run.Widths == nil {
			fmt.Fprintf(&b, "%d %d %d", run.Start, run.End, run.Width)
			continue
		}
		fmt.Fprintf(&b, "%d [", run.Start)
		for j, w := range run.Widths {
			if j > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%d", w)
		}
		b.WriteByte(']')
	}
	b.WriteByte(']')
	return b.String()
}

// Widths computes the /DW value and formatted /W array for the glyphs of
// the subset's font.
func (subset *FontSubset) Widths() (int, string) {
	face := subset.face
	widths := make([]int, face.NumGlyphs())
	for gid := range widths {
		widths[gid] = int(face.AdvanceWidth(ot.GlyphIndex(gid)))
	}
	dw, runs := computeWidths(widths, face.UnitsPerEm())
	return dw, formatWidths(runs)
}
