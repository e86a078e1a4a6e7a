/*
Package pdf provides the font-facing building blocks for PDF output:
font subsets with sequential glyph codes, CIDFont width arrays, ToUnicode
CMaps for text extraction, and hex-encoded show-text operators.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package pdf

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'folio.pdf'.
func tracer() tracing.Trace {
	return tracing.Select("folio.pdf")
}
