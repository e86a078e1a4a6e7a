package resources

import (
	"context"
	"fmt"

	"github.com/flopp/go-findfont"
	"github.com/foliopress/folio/core"
	"github.com/foliopress/folio/core/font"
	"github.com/foliopress/folio/core/font/fontregistry"
	xfont "golang.org/x/image/font"
)

// NotFound returns an application error for a missing resource.
func NotFound(res string) error {
	e := fmt.Errorf("resource missing: %v", res)
	return core.WrapError(e, core.EMISSING,
		"font not found: %s, substituting the fallback font", res)
}

// --- Fonts -----------------------------------------------------------------

type fontPlusErr struct {
	font *font.TypeCase
	err  error
}

// TypeCasePromise is the awaitable result of a call to ResolveTypeCase.
type TypeCasePromise interface {
	TypeCase() (*font.TypeCase, error)
}

type fontLoader struct {
	await func(ctx context.Context) (*font.TypeCase, error)
}

func (loader fontLoader) TypeCase() (*font.TypeCase, error) {
	return loader.await(context.Background())
}

// ResolveTypeCase resolves a font typecase with a given size, asynchronously.
//
// Resolving tries the following sources, in order:
//
// ▪ fonts already known to the global font registry
//
// ▪ system fonts, located by a scan of the platform's font directories
//
// ▪ the fontconfig font list, if fontconfig is configured (see fc.go)
//
// If none of these yields a font, the promise will return a typecase of the
// compiled-in fallback font, together with an error wrapping core.EMISSING.
// Clients may treat this as a soft error and typeset with the fallback.
func ResolveTypeCase(pattern string, style xfont.Style, weight xfont.Weight,
	size float64) TypeCasePromise {
	//
	ch := make(chan fontPlusErr)
	go func(ch chan<- fontPlusErr) {
		result := fontPlusErr{}
		registry := fontregistry.GlobalRegistry()
		normalized := fontregistry.NormalizeFontname(pattern, style, weight)
		if name, found := registry.FindNearest(normalized); found {
			tracer().Debugf("font %s is already registered as %s", pattern, name)
			result.font, result.err = registry.TypeCase(name, size)
			ch <- result
			close(ch)
			return
		}
		var f *font.ScalableFont
		if fpath, err := findfont.Find(pattern); err == nil && fpath != "" {
			tracer().Debugf("%s is a system font: %s", pattern, fpath)
			if fontregistry.Matches(fpath, pattern, style, weight) {
				f, result.err = font.LoadOpenTypeFont(fpath)
			}
		}
		if f == nil {
			if desc, variant := findFontConfigFont(pattern, style, weight); desc.Path != "" {
				tracer().Debugf("fontconfig lists %s variant %s", desc.Family, variant)
				f, result.err = font.LoadOpenTypeFont(desc.Path)
			}
		}
		if f != nil {
			registry.StoreFont(normalized, f)
			result.font, result.err = registry.TypeCase(normalized, size)
		} else {
			result.font, _ = registry.TypeCase(normalized, size)
			result.err = NotFound(pattern)
		}
		ch <- result
		close(ch)
	}(ch)
	return fontLoader{
		await: func(ctx context.Context) (*font.TypeCase, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case r := <-ch:
				return r.font, r.err
			}
		},
	}
}
