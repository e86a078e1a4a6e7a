package pdf

import (
	"fmt"
	"math"
	"strings"

	"github.com/foliopress/folio/engine/glyphing"
)

// ShowText renders a shaped run as a PDF show-text operator, using the
// subset's character codes in hex string form. Runs whose glyphs sit at
// their nominal advance positions produce a plain `<…> Tj`. Where kerning
// or spacing moved a glyph off its nominal position, the gap becomes a TJ
// adjustment in thousandths of text space; TJ counts positive values as
// leftward displacement.
func (subset *FontSubset) ShowText(run glyphing.GlyphRun) string {
	size := run.Style.Size
	if len(run.Glyphs) == 0 || size == 0 {
		return "<> Tj"
	}
	type piece struct {
		hex string
		adj int // TJ adjustment following the hex string
	}
	var pieces []piece
	pen := 0.0
	current := &strings.Builder{}
	flush := func(adj int) {
		pieces = append(pieces, piece{hex: current.String(), adj: adj})
		current = &strings.Builder{}
	}
	needTJ := false
	for i, gid := range run.Glyphs {
		gap := run.Positions[i].X - pen // px the glyph moved off its nominal spot
		adj := int(math.Round(gap / size * 1000.0))
		if adj != 0 {
			flush(-adj)
			needTJ = true
		}
		fmt.Fprintf(current, "%04X", subset.CodeFor(gid))
		pen = run.Positions[i].X + subset.face.ScaledAdvance(gid, size)
	}
	flush(0)
	if !needTJ {
		return fmt.Sprintf("<%s> Tj", pieces[0].hex)
	}
	var b strings.Builder
	b.WriteByte('[')
	for i, p := range pieces {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "<%s>", p.hex)
		if p.adj != 0 {
			fmt.Fprintf(&b, " %d", p.adj)
		}
	}
	b.WriteString("] TJ")
	return b.String()
}
