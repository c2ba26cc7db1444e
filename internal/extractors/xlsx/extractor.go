// Package xlsx extracts cached cell values from Excel (.xlsx) packages.
//
// Values are rendered the way a Python spreadsheet reader prints them:
// booleans as True/False, integral numbers without a fraction, other
// numbers in shortest round-trip form, and date-formatted numbers as
// timestamps. Formula text is never read; only the cached result is.
package xlsx

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/custodia-labs/docdupe/internal/core/domain"
	"github.com/custodia-labs/docdupe/internal/core/ports/driven"
	"github.com/custodia-labs/docdupe/internal/extractors/ooxml"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

const workbookPart = "xl/workbook.xml"

// Extractor handles XLSX documents.
type Extractor struct{}

// New creates a new XLSX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Type returns the document type this extractor handles.
func (e *Extractor) Type() domain.DocumentType {
	return domain.DocumentTypeSpreadsheet
}

// Extract returns one line per non-empty cell, worksheet by worksheet in
// workbook order, rows top to bottom and cells left to right.
func (e *Extractor) Extract(ctx context.Context, r io.ReaderAt, size int64) (string, error) {
	pkg, err := ooxml.Open(r, size)
	if err != nil {
		return "", err
	}

	main, err := pkg.MainPart(workbookPart)
	if err != nil {
		return "", err
	}

	wb, err := readWorkbook(pkg, main)
	if err != nil {
		return "", err
	}

	var lines []string
	for _, sheet := range wb.sheets {
		if err := ooxml.CheckContext(ctx); err != nil {
			return "", err
		}

		values, err := readSheet(pkg, sheet, wb)
		if err != nil {
			return "", fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		lines = append(lines, values...)
	}

	return strings.Join(lines, "\n"), nil
}

// workbook carries the shared tables every sheet needs.
type workbook struct {
	sheets   []string
	strings  []string
	styles   *styles
	date1904 bool
}

func readWorkbook(pkg *ooxml.Package, main string) (*workbook, error) {
	root, err := pkg.ParsePart(main)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}

	rels, err := pkg.Relationships(main)
	if err != nil {
		return nil, err
	}

	wb := &workbook{}
	if pr := root.Child("workbookPr"); pr != nil {
		v, _ := pr.Attr("date1904")
		wb.date1904 = v == "1" || v == "true"
	}

	if list := root.Child("sheets"); list != nil {
		for _, s := range list.ChildrenNamed("sheet") {
			rel, ok := rels[ooxml.RelID(s.Attrs)]
			if ok && strings.HasSuffix(rel.Type, "/worksheet") && pkg.Has(rel.Target) {
				wb.sheets = append(wb.sheets, rel.Target)
			}
		}
	}
	if len(wb.sheets) == 0 {
		wb.sheets = pkg.PartsWithPrefix("xl/worksheets/sheet", ".xml")
	}

	sharedPart := "xl/sharedStrings.xml"
	if target, ok := rels.ByType("/sharedStrings"); ok {
		sharedPart = target
	}
	wb.strings, err = readSharedStrings(pkg, sharedPart)
	if err != nil {
		return nil, err
	}

	stylesPart := "xl/styles.xml"
	if target, ok := rels.ByType("/styles"); ok {
		stylesPart = target
	}
	wb.styles, err = readStyles(pkg, stylesPart)
	if err != nil {
		return nil, err
	}

	return wb, nil
}

// richText is the shape shared by shared-string items and inline strings.
// Phonetic runs (rPh) are not mapped and so never contribute text.
type richText struct {
	T    *string `xml:"t"`
	Runs []struct {
		T string `xml:"t"`
	} `xml:"r"`
}

func (rt richText) String() string {
	var b strings.Builder
	if rt.T != nil {
		b.WriteString(*rt.T)
	}
	for _, r := range rt.Runs {
		b.WriteString(r.T)
	}
	return b.String()
}

func readSharedStrings(pkg *ooxml.Package, name string) ([]string, error) {
	rc, err := pkg.OpenPart(name)
	if errors.Is(err, ooxml.ErrPartNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var out []string
	dec := xml.NewDecoder(rc)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, xmlError("shared strings", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "si" {
			continue
		}
		var item richText
		if err := dec.DecodeElement(&item, &start); err != nil {
			return nil, xmlError("shared strings", err)
		}
		out = append(out, item.String())
	}
}

// cell is a positioned cell value.
type cell struct {
	row   int
	col   int
	value string
}

type cellXML struct {
	Ref    string    `xml:"r,attr"`
	Type   string    `xml:"t,attr"`
	Style  string    `xml:"s,attr"`
	Value  *string   `xml:"v"`
	Inline *richText `xml:"is"`
}

type rowXML struct {
	Index string    `xml:"r,attr"`
	Cells []cellXML `xml:"c"`
}

// readSheet streams a worksheet row by row and returns its rendered
// cell values in coordinate order.
func readSheet(pkg *ooxml.Package, name string, wb *workbook) ([]string, error) {
	rc, err := pkg.OpenPart(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var (
		cells   []cell
		lastRow int
	)
	dec := xml.NewDecoder(rc)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, xmlError("worksheet", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "row" {
			continue
		}
		var row rowXML
		if err := dec.DecodeElement(&row, &start); err != nil {
			return nil, xmlError("worksheet", err)
		}

		rowIdx := lastRow + 1
		if n, ok := parseIndex(row.Index); ok {
			rowIdx = n
		}
		lastRow = rowIdx

		lastCol := 0
		for _, c := range row.Cells {
			r, col, ok := parseRef(c.Ref)
			if !ok {
				r, col = rowIdx, lastCol+1
			}
			lastCol = col

			value, ok := wb.render(c)
			if !ok {
				continue
			}
			cells = append(cells, cell{row: r, col: col, value: value})
		}
	}

	sort.SliceStable(cells, func(i, j int) bool {
		if cells[i].row != cells[j].row {
			return cells[i].row < cells[j].row
		}
		return cells[i].col < cells[j].col
	})

	values := make([]string, 0, len(cells))
	for i, c := range cells {
		// A repeated coordinate keeps its last value.
		if i+1 < len(cells) && cells[i+1].row == c.row && cells[i+1].col == c.col {
			continue
		}
		values = append(values, c.value)
	}
	return values, nil
}

// render returns the canonical text of a cell, or false for an empty cell.
func (wb *workbook) render(c cellXML) (string, bool) {
	if c.Type == "inlineStr" {
		if c.Inline == nil {
			return "", false
		}
		return c.Inline.String(), true
	}

	if c.Value == nil {
		return "", false
	}
	raw := *c.Value

	switch c.Type {
	case "s":
		idx, ok := parseIndex(strings.TrimSpace(raw))
		if !ok || idx >= len(wb.strings) {
			return "", false
		}
		return wb.strings[idx], true
	case "str", "e":
		return raw, true
	case "b":
		if strings.TrimSpace(raw) == "1" || strings.EqualFold(strings.TrimSpace(raw), "true") {
			return "True", true
		}
		return "False", true
	case "d":
		return formatISODate(raw), true
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	n, ok := parseNumber(raw)
	if !ok {
		return raw, true
	}
	if wb.styles.isDate(c.Style) {
		if s, ok := formatSerial(n.float(), wb.date1904); ok {
			return s, true
		}
	}
	return n.String(), true
}

func xmlError(part string, err error) error {
	if errors.Is(err, domain.ErrInvalidInput) {
		return err
	}
	return fmt.Errorf("%w: parse %s: %w", domain.ErrInvalidInput, part, err)
}
