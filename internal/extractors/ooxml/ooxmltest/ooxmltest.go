// Package ooxmltest builds in-memory OOXML packages for tests.
package ooxmltest

import (
	"archive/zip"
	"bytes"
	"sort"
)

const contentTypes = `<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
</Types>`

// Build zips the given parts, keyed by part name, into a package.
// A [Content_Types].xml part is added when missing. Parts are written in
// name order so output is deterministic.
func Build(parts map[string]string) []byte {
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	names := make([]string, 0, len(parts)+1)
	for name := range parts {
		names = append(names, name)
	}
	if _, ok := parts["[Content_Types].xml"]; !ok {
		names = append(names, "[Content_Types].xml")
	}
	sort.Strings(names)

	for _, name := range names {
		content, ok := parts[name]
		if !ok {
			content = contentTypes
		}
		f, err := w.Create(name)
		if err != nil {
			panic(err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			panic(err)
		}
	}

	if err := w.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// Reader wraps package bytes for Extract-style APIs.
func Reader(data []byte) (*bytes.Reader, int64) {
	return bytes.NewReader(data), int64(len(data))
}

// Rels renders a relationships part from id/target pairs using the given
// relationship type for every entry.
func Rels(relType string, idTargets ...string) string {
	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for i := 0; i+1 < len(idTargets); i += 2 {
		b.WriteString(`<Relationship Id="` + idTargets[i] + `" Type="` + relType + `" Target="` + idTargets[i+1] + `"/>`)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}
