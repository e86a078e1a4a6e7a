/*
Package simple implements a plain horizontal shaper on top of an OpenType
font facade. It maps code-points through the font's character map, applies
advance widths and pair kerning, and leaves complex script shaping to more
capable shapers.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package simple

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'folio.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("folio.glyphs")
}
