package resources

import (
	"testing"

	"github.com/foliopress/folio/core"
	"github.com/foliopress/folio/core/font"
	"github.com/foliopress/folio/core/font/fontregistry"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

func TestResolveFallbackTypeCase(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.resources")
	defer teardown()
	//
	loader := ResolveTypeCase("no-such-font-family", xfont.StyleNormal, xfont.WeightNormal, 11.0)
	typecase, err := loader.TypeCase()
	if err == nil {
		t.Error("expected resolving of an unknown font to flag an error")
	}
	if core.Code(err) != core.EMISSING {
		t.Errorf("expected error code EMISSING, got %d", core.Code(err))
	}
	if typecase == nil {
		t.Fatalf("typecase is nil, should be a fallback typecase")
	}
	if typecase.PtSize() != 11.0 {
		t.Errorf("expected fallback typecase at 11pt, got %f", typecase.PtSize())
	}
}

func TestResolveRegisteredFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.resources")
	defer teardown()
	//
	f, err := font.ParseOpenTypeFont(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	name := fontregistry.NormalizeFontname("Go Regular", xfont.StyleNormal, xfont.WeightNormal)
	fontregistry.GlobalRegistry().StoreFont(name, f)
	loader := ResolveTypeCase("Go Regular", xfont.StyleNormal, xfont.WeightNormal, 12.0)
	typecase, err := loader.TypeCase()
	if err != nil {
		t.Error(err)
	}
	if typecase == nil {
		t.Fatalf("typecase is nil, should not be")
	}
	t.Logf("name of typecase = %s", typecase.ScalableFontParent().Fontname)
	if typecase.PtSize() != 12.0 {
		t.Errorf("expected typecase at 12pt, got %f", typecase.PtSize())
	}
}
