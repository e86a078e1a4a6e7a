/*
Package linebreak breaks paragraphs of styled text into lines.

The breaker segments a paragraph into word and whitespace items, then finds
line breaks by dynamic programming over the items, preferring evenly filled
lines over ragged ones. Clients provide a measuring function bound to a
font and style, so the breaker itself stays agnostic of fonts.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package linebreak

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'folio.frame'.
func tracer() tracing.Trace {
	return tracing.Select("folio.frame")
}
