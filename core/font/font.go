// Package font is for typeface and font handling.
//
// Nomenclature used by this package:
//
// A "typeface" is a family of fonts, e.g. "Helvetica".
//
// A "scalable font" is one variant of a typeface with a certain weight,
// slant, etc., e.g. "Helvetica bold".
//
// A "typecase" is a scaled font, i.e. a font prepared for typesetting
// at a certain size. The name is reminiscent of the wooden boxes of
// typesetters in the era of metal type.
//
// Please note that Go (golang.org/x/image) uses the terms "font" and
// "face" more or less in an opposite manner.
package font

import (
	"fmt"
	"os"
	"sync"

	"github.com/foliopress/folio/core"
	"github.com/foliopress/folio/core/font/otquery"
	"github.com/npillmayer/schuko/tracing"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// tracer traces with key 'folio.fonts'.
func tracer() tracing.Trace {
	return tracing.Select("folio.fonts")
}

// ScalableFont is a font variant, held as its raw binary together with
// its parsed forms.
type ScalableFont struct {
	Fontname string
	Filepath string     // file path, "internal" for compiled-in fonts
	Binary   []byte     // raw font data
	SFNT     *sfnt.Font // the font as parsed by x/image

	faceLoading sync.Once
	face        *otquery.Face
	faceErr     error
}

// TypeCase is a scalable font prepared for typesetting at a fixed size.
type TypeCase struct {
	scalableFontParent *ScalableFont
	font               xfont.Face // Go uses 'face' and 'font' in an inverse manner
	size               float64
}

// LoadOpenTypeFont loads an OpenType font from a file.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot read font file %s", fontfile)
	}
	sf, err := ParseOpenTypeFont(bytez)
	if err != nil {
		return nil, err
	}
	sf.Filepath = fontfile
	return sf, nil
}

// ParseOpenTypeFont parses a font from binary data.
func ParseOpenTypeFont(fbytes []byte) (*ScalableFont, error) {
	f := &ScalableFont{Binary: fbytes}
	var err error
	if f.SFNT, err = sfnt.Parse(f.Binary); err != nil {
		return nil, core.WrapError(err, core.EINVALID, "font binary not parseable")
	}
	f.Fontname, _ = f.SFNT.Name(nil, sfnt.NameIDFull)
	return f, nil
}

// Face returns the query facade for this font: glyphs, metrics,
// kerning and outlines. The facade is created on first use and shared.
func (sf *ScalableFont) Face() (*otquery.Face, error) {
	sf.faceLoading.Do(func() {
		sf.face, sf.faceErr = otquery.Parse(sf.Binary)
		if sf.faceErr != nil {
			tracer().Errorf("font %s not usable for queries: %v", sf.Fontname, sf.faceErr)
		}
	})
	return sf.face, sf.faceErr
}

// PrepareCase readies a typecase from a scalable font at a given size
// in points. Sizes outside of 5…500 are replaced by 10.
func (sf *ScalableFont) PrepareCase(fontsize float64) (*TypeCase, error) {
	if fontsize < 5.0 || fontsize > 500.0 {
		tracer().Infof("font size must be 5pt ≤ size ≤ 500pt, is %g (set to 10pt)", fontsize)
		fontsize = 10.0
	}
	typecase := &TypeCase{scalableFontParent: sf}
	f, err := opentype.NewFace(sf.SFNT, &opentype.FaceOptions{
		Size: fontsize,
		DPI:  600,
	})
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot scale font %s", sf.Fontname)
	}
	typecase.font = f
	typecase.size = fontsize
	return typecase, nil
}

// ScalableFontParent returns the unscaled font this typecase is derived
// from.
func (tc *TypeCase) ScalableFontParent() *ScalableFont {
	return tc.scalableFontParent
}

// PtSize returns the size of the typecase in points.
func (tc *TypeCase) PtSize() float64 {
	return tc.size
}

// Face returns the query facade of the typecase's font.
func (tc *TypeCase) Face() (*otquery.Face, error) {
	return tc.scalableFontParent.Face()
}

// --- Fallback font ---------------------------------------------------------

var fallbackFontLoading sync.Once
var fallbackFont *ScalableFont

// FallbackFont returns a font to be used if everything else fails. It
// is always present. Currently we use Go Regular.
func FallbackFont() *ScalableFont {
	fallbackFontLoading.Do(func() {
		gofont := &ScalableFont{
			Fontname: "Go Regular",
			Filepath: "internal",
			Binary:   goregular.TTF,
		}
		var err error
		if gofont.SFNT, err = sfnt.Parse(gofont.Binary); err != nil {
			panic("cannot load compiled-in fallback font") // this cannot happen
		}
		fallbackFont = gofont
	})
	return fallbackFont
}

// ---------------------------------------------------------------------------

// MatchStyle checks whether a font variant name denotes a given style.
func MatchStyle(variantName string, style xfont.Style) bool {
	switch style {
	case xfont.StyleNormal:
		switch variantName {
		case "regular", "100", "200", "300", "400", "500":
			return true
		}
	case xfont.StyleItalic, xfont.StyleOblique:
		switch variantName {
		case "italic", "100italic", "200italic", "300italic", "400italic", "500italic":
			return true
		}
	}
	return false
}

// MatchWeight checks whether a font variant name denotes a given weight.
// x/image/font weights count from -3 (thin, CSS 100) to +5 (black,
// CSS 900), with 0 for regular.
func MatchWeight(variantName string, weight xfont.Weight) bool {
	if fmt.Sprintf("%d", (int(weight)+4)*100) == variantName {
		return true
	}
	switch variantName {
	case "regular", "100", "200", "300", "400", "500":
		switch weight {
		case xfont.WeightThin, xfont.WeightExtraLight, xfont.WeightLight,
			xfont.WeightNormal, xfont.WeightMedium:
			return true
		}
	case "bold", "extrabold", "600", "700", "800", "900":
		switch weight {
		case xfont.WeightSemiBold, xfont.WeightBold, xfont.WeightExtraBold, xfont.WeightBlack:
			return true
		}
	}
	return false
}
