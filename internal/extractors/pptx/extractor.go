// Package pptx extracts slide text from PowerPoint (.pptx) packages.
package pptx

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/docdupe/internal/core/domain"
	"github.com/custodia-labs/docdupe/internal/core/ports/driven"
	"github.com/custodia-labs/docdupe/internal/extractors/ooxml"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

const presentationPart = "ppt/presentation.xml"

// Extractor handles PPTX documents.
type Extractor struct{}

// New creates a new PPTX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Type returns the document type this extractor handles.
func (e *Extractor) Type() domain.DocumentType {
	return domain.DocumentTypeSlides
}

// Extract returns the text of every shape with a text body, slide by slide
// in presentation order. Shape texts are separated by newlines.
func (e *Extractor) Extract(ctx context.Context, r io.ReaderAt, size int64) (string, error) {
	pkg, err := ooxml.Open(r, size)
	if err != nil {
		return "", err
	}

	main, err := pkg.MainPart(presentationPart)
	if err != nil {
		return "", err
	}

	slides, err := slideParts(pkg, main)
	if err != nil {
		return "", err
	}

	var texts []string
	for _, name := range slides {
		if err := ooxml.CheckContext(ctx); err != nil {
			return "", err
		}

		root, err := pkg.ParsePart(name)
		if err != nil {
			return "", fmt.Errorf("read slide %s: %w", name, err)
		}
		texts = append(texts, shapeTexts(root)...)
	}

	return strings.Join(texts, "\n"), nil
}

// slideParts lists slide part names in presentation order. The order comes
// from the slide id list; packages without one fall back to the numeric
// order of slideN.xml parts.
func slideParts(pkg *ooxml.Package, main string) ([]string, error) {
	root, err := pkg.ParsePart(main)
	if err != nil {
		return nil, fmt.Errorf("read presentation: %w", err)
	}

	rels, err := pkg.Relationships(main)
	if err != nil {
		return nil, err
	}

	var names []string
	if list := root.Child("sldIdLst"); list != nil {
		for _, sld := range list.ChildrenNamed("sldId") {
			target, ok := rels.Target(ooxml.RelID(sld.Attrs))
			if ok && pkg.Has(target) {
				names = append(names, target)
			}
		}
	}
	if len(names) > 0 {
		return names, nil
	}
	return pkg.PartsWithPrefix("ppt/slides/slide", ".xml"), nil
}

// shapeTexts returns the text of each top-level shape on a slide that has
// a text body. Groups, pictures, connectors and graphic frames are skipped.
func shapeTexts(slide *ooxml.Node) []string {
	tree := slide.Path("cSld", "spTree")
	if tree == nil {
		return nil
	}

	var texts []string
	for _, sp := range tree.ChildrenNamed("sp") {
		body := sp.Child("txBody")
		if body == nil {
			continue
		}

		paras := body.ChildrenNamed("p")
		lines := make([]string, 0, len(paras))
		for _, p := range paras {
			lines = append(lines, paragraphText(p))
		}
		texts = append(texts, strings.Join(lines, "\n"))
	}
	return texts
}

// paragraphText concatenates runs and fields; line breaks become
// vertical tabs.
func paragraphText(p *ooxml.Node) string {
	var b strings.Builder
	for _, c := range p.Children {
		switch c.Name.Local {
		case "r", "fld":
			if t := c.Child("t"); t != nil {
				b.WriteString(t.Text)
			}
		case "br":
			b.WriteString("\v")
		}
	}
	return b.String()
}
