package ot

import (
	"testing"

	"github.com/foliopress/folio/core"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestParseEmptyBuffer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.fonts")
	defer teardown()
	if _, err := Parse([]byte{0, 1}); err == nil {
		t.Errorf("expected parsing of truncated buffer to fail")
	}
}

func TestParseUnknownMagic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.fonts")
	defer teardown()
	b := make([]byte, 64)
	copy(b, "ABCD")
	if _, err := Parse(b); err == nil {
		t.Errorf("expected unknown sfnt version to fail")
	}
}

func TestParseTruncatedDirectory(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.fonts")
	defer teardown()
	font := testFont()
	// directory promises more table records than the buffer holds
	if _, err := Parse(font[:12+5]); err == nil {
		t.Errorf("expected truncated table directory to fail")
	}
}

func TestParseTableOutOfBounds(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.fonts")
	defer teardown()
	font := testFont()
	// strip the trailing table payloads, keeping the directory intact
	if _, err := Parse(font[:len(font)-20]); err == nil {
		t.Errorf("expected out-of-bounds table record to fail")
	}
}

func TestParseMandatoryTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.fonts")
	defer teardown()
	font := newFontBuilder().
		add("head", headPayload(1000, 0)).
		add("hhea", hheaPayload(800, -200, 90, 1)).
		add("maxp", maxpPayload(1)).
		build() // no cmap
	_, err := Parse(font)
	if err == nil {
		t.Fatalf("expected font without cmap to fail")
	}
	if core.Code(err) != core.EMISSING {
		t.Errorf("expected error code EMISSING, got %d", core.Code(err))
	}
}

func TestParseTestFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.fonts")
	defer teardown()
	otf, err := Parse(testFont())
	if err != nil {
		t.Fatal(err)
	}
	if otf.Header.TableCount != 9 {
		t.Errorf("expected 9 tables, got %d", otf.Header.TableCount)
	}
	if otf.UnitsPerEm() != 1000 {
		t.Errorf("expected 1000 units per em, got %d", otf.UnitsPerEm())
	}
	if otf.NumGlyphs() != 4 {
		t.Errorf("expected 4 glyphs, got %d", otf.NumGlyphs())
	}
	hhea := otf.Table(T("hhea")).Self().AsHHea()
	if hhea.Ascender != 800 || hhea.Descender != -200 {
		t.Errorf("unexpected vertical metrics: %d/%d", hhea.Ascender, hhea.Descender)
	}
}

func TestHMtxAdvanceReuse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.fonts")
	defer teardown()
	otf, err := Parse(testFont())
	if err != nil {
		t.Fatal(err)
	}
	hmtx := otf.Table(T("hmtx")).Self().AsHMtx()
	adv, lsb := hmtx.Metrics(1)
	if adv != 500 || lsb != 0 {
		t.Errorf("glyph 1: expected metrics (500, 0), got (%d, %d)", adv, lsb)
	}
	// glyph 3 is beyond numberOfHMetrics and reuses the last advance
	adv, lsb = hmtx.Metrics(3)
	if adv != 250 || lsb != 10 {
		t.Errorf("glyph 3: expected metrics (250, 10), got (%d, %d)", adv, lsb)
	}
	if adv, _ = hmtx.Metrics(100); adv != 0 {
		t.Errorf("out-of-range glyph: expected advance 0, got %d", adv)
	}
}

func TestLocaConsistency(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.fonts")
	defer teardown()
	glyf, loca := glyfAndLoca([][]byte{nil, glyphSquare(500)})
	font := newFontBuilder().
		add("head", headPayload(1000, 0)).
		add("hhea", hheaPayload(800, -200, 90, 2)).
		add("maxp", maxpPayload(8)). // more glyphs than loca entries
		add("hmtx", hmtxPayload([][2]int16{{500, 0}, {500, 0}}, []int16{0, 0, 0, 0, 0, 0})).
		add("cmap", cmapFormat4Payload(nil)).
		add("loca", loca).
		add("glyf", glyf).
		build()
	if _, err := Parse(font); err == nil {
		t.Errorf("expected loca/maxp mismatch to fail")
	}
}

func TestNameTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.fonts")
	defer teardown()
	// one Macintosh record: nameID 1 = "Demo"
	name := beBuf(
		uint16(0), uint16(1), uint16(18), // format, count, string offset
		uint16(1), uint16(0), uint16(0), uint16(1), uint16(4), uint16(0),
		[]byte("Demo"),
	)
	font := newFontBuilder().
		add("head", headPayload(1000, 0)).
		add("hhea", hheaPayload(800, -200, 90, 1)).
		add("maxp", maxpPayload(1)).
		add("hmtx", hmtxPayload([][2]int16{{500, 0}}, nil)).
		add("cmap", cmapFormat4Payload(nil)).
		add("name", name).
		build()
	otf, err := Parse(font)
	if err != nil {
		t.Fatal(err)
	}
	nt := otf.Table(T("name")).Self().AsName()
	if fam := nt.Get(NameFamily); fam != "Demo" {
		t.Errorf("expected family name 'Demo', got %q", fam)
	}
}
