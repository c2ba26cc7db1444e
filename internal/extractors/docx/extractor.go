// Package docx extracts body and table text from Word (.docx) packages.
package docx

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/custodia-labs/docdupe/internal/core/domain"
	"github.com/custodia-labs/docdupe/internal/core/ports/driven"
	"github.com/custodia-labs/docdupe/internal/extractors/ooxml"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

const documentPart = "word/document.xml"

// Extractor handles DOCX documents.
type Extractor struct{}

// New creates a new DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Type returns the document type this extractor handles.
func (e *Extractor) Type() domain.DocumentType {
	return domain.DocumentTypeText
}

// Extract returns the non-blank top-level paragraphs followed by the cells
// of every top-level table, one line each.
func (e *Extractor) Extract(ctx context.Context, r io.ReaderAt, size int64) (string, error) {
	pkg, err := ooxml.Open(r, size)
	if err != nil {
		return "", err
	}

	main, err := pkg.MainPart(documentPart)
	if err != nil {
		return "", err
	}

	root, err := pkg.ParsePart(main)
	if err != nil {
		return "", err
	}
	if err := ooxml.CheckContext(ctx); err != nil {
		return "", err
	}

	body := root.Child("body")
	if body == nil {
		return "", nil
	}

	var lines []string
	for _, p := range body.ChildrenNamed("p") {
		text := paragraphText(p)
		if strings.TrimSpace(text) != "" {
			lines = append(lines, text)
		}
	}
	for _, tbl := range body.ChildrenNamed("tbl") {
		lines = append(lines, tableCells(tbl)...)
	}

	return strings.Join(lines, "\n"), nil
}

// tableCells returns cell texts row by row. A cell spanning several grid
// columns repeats once per column; a vertical merge continuation repeats
// the text of the cell above it.
func tableCells(tbl *ooxml.Node) []string {
	var (
		cells []string
		above map[int]string
	)
	for _, tr := range tbl.ChildrenNamed("tr") {
		row := make(map[int]string)
		col := 0
		for _, tc := range tr.ChildrenNamed("tc") {
			span := gridSpan(tc)
			text := cellText(tc)
			if continuesMerge(tc) {
				text = above[col]
			}
			for i := 0; i < span; i++ {
				cells = append(cells, text)
				row[col+i] = text
			}
			col += span
		}
		above = row
	}
	return cells
}

func cellText(tc *ooxml.Node) string {
	paras := tc.ChildrenNamed("p")
	lines := make([]string, 0, len(paras))
	for _, p := range paras {
		lines = append(lines, paragraphText(p))
	}
	return strings.Join(lines, "\n")
}

func gridSpan(tc *ooxml.Node) int {
	span := tc.Path("tcPr", "gridSpan")
	if span == nil {
		return 1
	}
	v, _ := span.Attr("val")
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func continuesMerge(tc *ooxml.Node) bool {
	merge := tc.Path("tcPr", "vMerge")
	if merge == nil {
		return false
	}
	v, ok := merge.Attr("val")
	return !ok || v == "continue"
}

// paragraphText concatenates the runs of a paragraph, including runs
// wrapped in hyperlinks.
func paragraphText(p *ooxml.Node) string {
	var b strings.Builder
	for _, c := range p.Children {
		switch c.Name.Local {
		case "r":
			writeRun(&b, c)
		case "hyperlink":
			for _, r := range c.ChildrenNamed("r") {
				writeRun(&b, r)
			}
		}
	}
	return b.String()
}

func writeRun(b *strings.Builder, r *ooxml.Node) {
	for _, c := range r.Children {
		switch c.Name.Local {
		case "t":
			b.WriteString(c.Text)
		case "tab", "ptab":
			b.WriteString("\t")
		case "cr":
			b.WriteString("\n")
		case "br":
			// Page and column breaks carry no text.
			if t, ok := c.Attr("type"); !ok || t == "textWrapping" {
				b.WriteString("\n")
			}
		case "noBreakHyphen":
			b.WriteString("-")
		}
	}
}
