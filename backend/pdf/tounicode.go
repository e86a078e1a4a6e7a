package pdf

import (
	"bytes"
	"fmt"
	"sort"
	"unicode/utf16"
)

// A ToUnicode CMap lets PDF viewers extract correct Unicode text from
// documents set with an embedded font subset.
//
// Reference: PDF 1.7 specification, Section 9.10 (ToUnicode CMaps).

const toUnicodeHeader = `/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
/CIDSystemInfo
<< /Registry (Adobe)
/Ordering (UCS)
/Supplement 0
>> def
/CMapName /Adobe-Identity-UCS def
/CMapType 2 def
1 begincodespacerange
<0000> <FFFF>
endcodespacerange
`

const toUnicodeFooter = `endcmap
CMapName currentdict /CMap defineresource pop
end
end
`

// maxBlockSize is the PDF limit on entries per bfchar/bfrange block.
const maxBlockSize = 100

type codeMapping struct {
	code  uint16
	value rune
}

type codeRange struct {
	first, last uint16
	value       rune // value of first; successors increment in lockstep
}

// ToUnicode generates the ToUnicode CMap for the subset. Codes map to the
// code-points that produced their glyphs; stretches where code and
// code-point increase in lockstep become bfrange entries, everything else
// becomes bfchar entries. An empty subset yields a minimal valid CMap.
func (subset *FontSubset) ToUnicode() []byte {
	mappings := make([]codeMapping, 0, len(subset.runes))
	for code, value := range subset.runes {
		mappings = append(mappings, codeMapping{code: code, value: value})
	}
	sort.Slice(mappings, func(i, j int) bool {
		return mappings[i].code < mappings[j].code
	})
	ranges, singles := splitMappings(mappings)
	//
	var buf bytes.Buffer
	buf.WriteString(toUnicodeHeader)
	for start := 0; start < len(ranges); start += maxBlockSize {
		end := min(start+maxBlockSize, len(ranges))
		fmt.Fprintf(&buf, "%d beginbfrange\n", end-start)
		for _, r := range ranges[start:end] {
			fmt.Fprintf(&buf, "<%04X> <%04X> <%s>\n", r.first, r.last, hexUTF16(r.value))
		}
		buf.WriteString("endbfrange\n")
	}
	for start := 0; start < len(singles); start += maxBlockSize {
		end := min(start+maxBlockSize, len(singles))
		fmt.Fprintf(&buf, "%d beginbfchar\n", end-start)
		for _, s := range singles[start:end] {
			fmt.Fprintf(&buf, "<%04X> <%s>\n", s.code, hexUTF16(s.value))
		}
		buf.WriteString("endbfchar\n")
	}
	buf.WriteString(toUnicodeFooter)
	return buf.Bytes()
}

// splitMappings partitions sorted mappings into maximal lockstep ranges of
// at least two entries and leftover singles.
func splitMappings(mappings []codeMapping) ([]codeRange, []codeMapping) {
	var ranges []codeRange
	var singles []codeMapping
	for i := 0; i < len(mappings); {
		j := i
		for j+1 < len(mappings) &&
			mappings[j+1].code == mappings[j].code+1 &&
			mappings[j+1].value == mappings[j].value+1 &&
			sameUTF16Block(mappings[i].value, mappings[j+1].value) {
			j++
		}
		if j > i {
			ranges = append(ranges, codeRange{
				first: mappings[i].code,
				last:  mappings[j].code,
				value: mappings[i].value,
			})
		} else {
			singles = append(singles, mappings[i])
		}
		i = j + 1
	}
	return ranges, singles
}

// sameUTF16Block reports whether a bfrange may span from value a to b:
// incrementing the last UTF-16 code unit must not carry over, so both
// values have to share their leading code unit (or both live in the BMP).
func sameUTF16Block(a, b rune) bool {
	ua, ub := utf16.Encode([]rune{a}), utf16.Encode([]rune{b})
	if len(ua) != len(ub) {
		return false
	}
	if len(ua) == 1 {
		return true
	}
	return ua[0] == ub[0]
}

// hexUTF16 renders a code-point as big-endian UTF-16 hex digits, using a
// surrogate pair beyond the BMP.
func hexUTF16(value rune) string {
	var b bytes.Buffer
	for _, unit := range utf16.Encode([]rune{value}) {
		fmt.Fprintf(&b, "%04X", unit)
	}
	return b.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
