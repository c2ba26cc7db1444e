// Package ooxml reads Office Open XML packages: the zip containers behind
// .pptx, .docx and .xlsx files. It offers part lookup, relationship
// resolution and bounded part reads shared by the format extractors.
package ooxml

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/docdupe/internal/core/domain"
)

// MaxPartSize bounds the uncompressed size of a single part.
const MaxPartSize = 256 << 20

// ErrPartNotFound indicates the package has no part with the requested name.
var ErrPartNotFound = errors.New("part not found")

// Package is an opened OOXML container.
type Package struct {
	parts map[string]*zip.File
}

// Open reads the zip directory of an OOXML container.
// Errors wrap domain.ErrInvalidInput.
func Open(r io.ReaderAt, size int64) (*Package, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: open container: %w", domain.ErrInvalidInput, err)
	}

	parts := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		parts[strings.TrimPrefix(f.Name, "/")] = f
	}
	return &Package{parts: parts}, nil
}

// Has returns true if the package contains the named part.
func (p *Package) Has(name string) bool {
	_, ok := p.parts[name]
	return ok
}

// OpenPart opens a part for streaming. The caller must close it.
// Reads beyond MaxPartSize fail with domain.ErrInvalidInput.
func (p *Package) OpenPart(name string) (io.ReadCloser, error) {
	f, ok := p.parts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, name)
	}
	if f.UncompressedSize64 > MaxPartSize {
		return nil, fmt.Errorf("%w: part %s exceeds %d bytes", domain.ErrInvalidInput, name, MaxPartSize)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open part %s: %w", domain.ErrInvalidInput, name, err)
	}
	return &limitedPart{
		Reader: io.LimitReader(rc, MaxPartSize+1),
		closer: rc,
		name:   name,
	}, nil
}

// ReadPart returns the full content of a part.
func (p *Package) ReadPart(name string) ([]byte, error) {
	rc, err := p.OpenPart(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// PartsWithPrefix returns part names that start with prefix and end with
// suffix, ordered by the number embedded in the name ("slide10.xml" after
// "slide9.xml").
func (p *Package) PartsWithPrefix(prefix, suffix string) []string {
	var names []string
	for name := range p.parts {
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, suffix) {
			rest := strings.TrimSuffix(strings.TrimPrefix(name, prefix), suffix)
			if _, err := strconv.Atoi(rest); err == nil {
				names = append(names, name)
			}
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return partNumber(names[i], prefix, suffix) < partNumber(names[j], prefix, suffix)
	})
	return names
}

func partNumber(name, prefix, suffix string) int {
	n, _ := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, prefix), suffix))
	return n
}

// Relationship is one entry of a relationships part.
type Relationship struct {
	ID     string
	Type   string
	Target string
}

// Relationships maps relationship IDs to relationships.
type Relationships map[string]Relationship

// Target returns the resolved part name for id.
func (r Relationships) Target(id string) (string, bool) {
	rel, ok := r[id]
	if !ok {
		return "", false
	}
	return rel.Target, true
}

// ByType returns the target of the first relationship, in ID order,
// whose type ends with suffix.
func (r Relationships) ByType(suffix string) (string, bool) {
	ids := make([]string, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if strings.HasSuffix(r[id].Type, suffix) {
			return r[id].Target, true
		}
	}
	return "", false
}

// Relationships parses the relationships part belonging to partName.
// Targets are resolved to part names; external targets are dropped.
// A missing relationships part yields an empty set. Pass "" for the
// package-level relationships.
func (p *Package) Relationships(partName string) (Relationships, error) {
	dir, file := path.Split(partName)
	relsName := dir + "_rels/" + file + ".rels"

	data, err := p.ReadPart(relsName)
	if errors.Is(err, ErrPartNotFound) {
		return Relationships{}, nil
	}
	if err != nil {
		return nil, err
	}

	var rels struct {
		Items []struct {
			ID         string `xml:"Id,attr"`
			Type       string `xml:"Type,attr"`
			Target     string `xml:"Target,attr"`
			TargetMode string `xml:"TargetMode,attr"`
		} `xml:"Relationship"`
	}
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", domain.ErrInvalidInput, relsName, err)
	}

	out := make(Relationships, len(rels.Items))
	for _, rel := range rels.Items {
		if strings.EqualFold(rel.TargetMode, "External") {
			continue
		}
		out[rel.ID] = Relationship{
			ID:     rel.ID,
			Type:   rel.Type,
			Target: ResolveTarget(dir, rel.Target),
		}
	}
	return out, nil
}

// MainPart returns the part named by the package officeDocument
// relationship, or fallback when the package does not declare one.
func (p *Package) MainPart(fallback string) (string, error) {
	rels, err := p.Relationships("")
	if err != nil {
		return "", err
	}
	if target, ok := rels.ByType("/officeDocument"); ok && p.Has(target) {
		return target, nil
	}
	if !p.Has(fallback) {
		return "", fmt.Errorf("%w: %w: %s", domain.ErrInvalidInput, ErrPartNotFound, fallback)
	}
	return fallback, nil
}

// RelID returns the value of the namespaced relationship id attribute
// (r:id) among attrs.
func RelID(attrs []xml.Attr) string {
	for _, a := range attrs {
		if a.Name.Local == "id" && a.Name.Space != "" {
			return a.Value
		}
	}
	return ""
}

// ResolveTarget resolves a relationship target against the directory of the
// source part. Absolute targets are relative to the package root.
func ResolveTarget(baseDir, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return strings.TrimPrefix(path.Clean(path.Join("/", baseDir, target)), "/")
}

// CheckContext returns the context error if ctx is done.
func CheckContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// limitedPart fails reads once MaxPartSize is exceeded.
type limitedPart struct {
	io.Reader
	closer io.Closer
	name   string
	read   int64
}

func (l *limitedPart) Read(b []byte) (int, error) {
	n, err := l.Reader.Read(b)
	l.read += int64(n)
	if l.read > MaxPartSize {
		return n, fmt.Errorf("%w: part %s exceeds %d bytes", domain.ErrInvalidInput, l.name, MaxPartSize)
	}
	return n, err
}

func (l *limitedPart) Close() error {
	return l.closer.Close()
}
