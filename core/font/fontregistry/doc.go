/*
Package fontregistry manages a registry for loaded fonts.

Fonts are stored under normalized names of the form
"family-style-weight". A trie over the stored names supports prefix and
fuzzy lookup, so that a slightly off request like "helvetica neue" still
finds "helveticaneue-regular".
*/
package fontregistry

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'folio.fonts'
func tracer() tracing.Trace {
	return tracing.Select("folio.fonts")
}
