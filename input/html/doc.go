/*
Package html extracts styled paragraphs from HTML input.

The extractor walks the parsed document, collects block-level paragraph
text into cords and annotates stretches of text with the typographic
properties computed from selector rules and inline style attributes.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package html

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'folio.html'.
func tracer() tracing.Trace {
	return tracing.Select("folio.html")
}
