package xlsx

import (
	"errors"
	"strconv"
	"strings"

	"github.com/custodia-labs/docdupe/internal/extractors/ooxml"
)

// builtinDateFormats are the predefined number formats that display dates
// or times.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	45: true, 46: true, 47: true,
}

// styles holds the number format of each cell format record.
type styles struct {
	formats []int
	custom  map[int]string
}

func readStyles(pkg *ooxml.Package, name string) (*styles, error) {
	root, err := pkg.ParsePart(name)
	if errors.Is(err, ooxml.ErrPartNotFound) {
		return &styles{}, nil
	}
	if err != nil {
		return nil, err
	}

	st := &styles{custom: make(map[int]string)}
	if fmts := root.Child("numFmts"); fmts != nil {
		for _, f := range fmts.ChildrenNamed("numFmt") {
			idText, _ := f.Attr("numFmtId")
			id, err := strconv.Atoi(idText)
			if err != nil {
				continue
			}
			st.custom[id], _ = f.Attr("formatCode")
		}
	}
	if xfs := root.Child("cellXfs"); xfs != nil {
		for _, xf := range xfs.ChildrenNamed("xf") {
			idText, _ := xf.Attr("numFmtId")
			id, _ := strconv.Atoi(idText)
			st.formats = append(st.formats, id)
		}
	}
	return st, nil
}

// isDate reports whether the cell format at index s displays a date.
func (st *styles) isDate(s string) bool {
	if st == nil {
		return false
	}
	idx := 0
	if s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return false
		}
		idx = n
	}
	if idx < 0 || idx >= len(st.formats) {
		return false
	}

	id := st.formats[idx]
	if code, ok := st.custom[id]; ok {
		return isDateFormat(code)
	}
	return builtinDateFormats[id]
}

// isDateFormat reports whether a format code contains date or time tokens
// in its first section, ignoring quoted literals, escaped characters and
// bracketed modifiers other than elapsed-time markers.
func isDateFormat(code string) bool {
	code, _, _ = strings.Cut(code, ";")
	stripped := stripLiterals(code)

	var prev byte
	for i := 0; i < len(stripped); i++ {
		c := stripped[i]
		if strings.IndexByte("dmhysDMHYS", c) >= 0 && prev != '_' && prev != '\\' {
			return true
		}
		prev = c
	}
	return false
}

func stripLiterals(code string) string {
	var b strings.Builder
	for i := 0; i < len(code); i++ {
		switch c := code[i]; c {
		case '"':
			end := strings.IndexByte(code[i+1:], '"')
			if end < 0 {
				return b.String()
			}
			i += end + 1
		case '\\':
			i++
		case '[':
			end := strings.IndexByte(code[i+1:], ']')
			if end < 0 {
				return b.String()
			}
			inner := code[i+1 : i+1+end]
			if isElapsedMarker(inner) {
				b.WriteString(inner)
			}
			i += end + 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isElapsedMarker(s string) bool {
	switch strings.ToLower(s) {
	case "h", "hh", "m", "mm", "s", "ss":
		return true
	default:
		return false
	}
}
