package html

import (
	"strings"
	"testing"

	"github.com/foliopress/folio/engine/frame/linebreak"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestParagraphsExtraction(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.html")
	defer teardown()
	//
	input := `<html><body>
		<p>Hello <b>bold</b> world</p>
		<h1>Title</h1>
		<div><p>nested</p></div>
	</body></html>`
	paras, err := Paragraphs(strings.NewReader(input), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(paras) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d", len(paras))
	}
	if paras[0].String() != "Hello bold world" {
		t.Errorf("expected paragraph text 'Hello bold world', got %q", paras[0].String())
	}
	if len(paras[0].Runs) != 3 {
		t.Fatalf("expected 3 styled runs, got %d", len(paras[0].Runs))
	}
	if paras[0].Runs[1].Text != "bold" || paras[0].Runs[1].Style.FontWeight != "bold" {
		t.Errorf("expected middle run to be bold, got %+v", paras[0].Runs[1])
	}
	if paras[0].Runs[0].Style.FontWeight != "normal" {
		t.Errorf("expected surrounding runs to stay normal weight")
	}
	if paras[2].String() != "nested" {
		t.Errorf("expected paragraph inside div to be extracted, got %q", paras[2].String())
	}
}

func TestParagraphsSelectorRules(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.html")
	defer teardown()
	//
	input := `<html><body><h1>Title</h1><p>Body</p></body></html>`
	rules := []Rule{
		MustRule("h1", "font-size: 24px; font-weight: bold"),
	}
	paras, err := Paragraphs(strings.NewReader(input), rules)
	if err != nil {
		t.Fatal(err)
	}
	if len(paras) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(paras))
	}
	title := paras[0].Runs[0].Style
	if title.FontSize != 24 || title.FontWeight != "bold" {
		t.Errorf("expected h1 rule to apply, got %+v", title)
	}
	body := paras[1].Runs[0].Style
	if body.FontSize != 16 || body.FontWeight != "normal" {
		t.Errorf("expected p to keep the default style, got %+v", body)
	}
}

func TestParagraphsInlineStyle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.html")
	defer teardown()
	//
	input := `<html><body>
		<p style="font-size: 12pt; letter-spacing: 2px">spaced</p>
		<p style="white-space: pre-wrap">  kept  </p>
	</body></html>`
	paras, err := Paragraphs(strings.NewReader(input), nil)
	if err != nil {
		t.Fatal(err)
	}
	style := paras[0].Runs[0].Style
	if style.FontSize != 16 { // 12pt at 96 px per 72 pt
		t.Errorf("expected 12pt to convert to 16px, got %f", style.FontSize)
	}
	if style.LetterSpacing != 2 {
		t.Errorf("expected letter-spacing 2px, got %f", style.LetterSpacing)
	}
	if paras[1].Runs[0].Style.WhiteSpace != linebreak.WSPreWrap {
		t.Errorf("expected white-space pre-wrap, got %v", paras[1].Runs[0].Style.WhiteSpace)
	}
}

func TestParagraphsStyleInheritance(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.html")
	defer teardown()
	//
	input := `<html><body><div style="font-family: Gentium">
		<p>inherited <i>italic</i></p>
	</div></body></html>`
	paras, err := Paragraphs(strings.NewReader(input), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(paras) != 1 {
		t.Fatalf("expected 1 paragraph, got %d", len(paras))
	}
	for _, run := range paras[0].Runs {
		if run.Style.FontFamily != "Gentium" {
			t.Errorf("expected font-family to inherit into %q", run.Text)
		}
	}
	last := paras[0].Runs[len(paras[0].Runs)-1]
	if last.Style.FontStyle != "italic" {
		t.Errorf("expected trailing run to be italic, got %+v", last.Style)
	}
}

func TestBadSelector(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.html")
	defer teardown()
	//
	if _, err := NewRule("p[", "font-size: 10px"); err == nil {
		t.Error("expected an invalid selector to be rejected")
	}
}
