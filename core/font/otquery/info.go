package otquery

import "github.com/foliopress/folio/core/font/ot"

// FontInfo collects the naming properties of a font.
type FontInfo struct {
	Family    string
	SubFamily string
	FullName  string
}

// InfoFor reads naming information from a font's name table. Fields
// without a name table entry stay empty.
func InfoFor(face *Face) FontInfo {
	info := FontInfo{}
	table := face.otf.Table(ot.T("name"))
	if table == nil {
		tracer().Infof("font has no name table")
		return info
	}
	name := table.Self().AsName()
	info.Family = name.Get(ot.NameFamily)
	info.SubFamily = name.Get(ot.NameSubfamily)
	info.FullName = name.Get(ot.NameFull)
	if info.FullName == "" {
		info.FullName = info.Family
	}
	return info
}
